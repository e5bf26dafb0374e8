package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/txid"
)

// Service is the credit ledger.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Types returns the catalog.
func (s *Service) Types() Catalog {
	return s.catalog
}

// Purchase creates an active credit valid for one year.
func (s *Service) Purchase(ctx context.Context, ownerID uuid.UUID, req *PurchaseRequest) (*PurchaseResponse, error) {
	entry, ok := s.catalog.Lookup(Type(req.CreditType))
	if !ok {
		return nil, ErrUnknownCreditType
	}
	amount := precision.Round(req.AmountKgCo2, precision.Co2Kg)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	txID, err := txid.New("CRD")
	if err != nil {
		return nil, fmt.Errorf("%w: transaction id: %v", ErrInternal, err)
	}

	total := precision.Mul(amount, entry.PricePerKg, precision.Money)
	c := s.newCredit(ownerID, entry.Type, amount, total, txID, SourcePurchase)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().
		Str("owner_id", ownerID.String()).
		Str("credit_type", string(entry.Type)).
		Float64("amount_kg_co2", amount).
		Msg("credits purchased")

	return &PurchaseResponse{Credit: c, PricePerKg: entry.PricePerKg, TotalPrice: total}, nil
}

// IssueFromTrade creates the buyer's credit for a settled trade.
// Repeating the call with the same transaction id returns the existing credit.
func (s *Service) IssueFromTrade(ctx context.Context, ownerID uuid.UUID, creditType Type, amount float64, transactionID string, pricePaid float64) (*Credit, error) {
	amount = precision.Round(amount, precision.Co2Kg)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	c := s.newCredit(ownerID, creditType, amount, pricePaid, transactionID, SourceMarketplace)
	err := s.repo.Create(ctx, c)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrDuplicateTransaction) {
		return nil, err
	}

	existing, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrDuplicateTransaction
	}
	return existing, nil
}

func (s *Service) newCredit(ownerID uuid.UUID, t Type, amount, price float64, txID string, source Source) *Credit {
	now := s.now().UTC()
	return &Credit{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CreditType:     t,
		AmountKgCo2:    amount,
		OriginalAmount: amount,
		PricePaid:      price,
		PurchaseDate:   now,
		ExpiryDate:     now.Add(Validity),
		Status:         StatusActive,
		TransactionID:  txID,
		Source:         source,
		CreatedAt:      now,
	}
}

// ActiveBalance sums unexpired active credits.
func (s *Service) ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return s.repo.ActiveBalance(ctx, ownerID, s.now())
}

// Deduct debits amount under a unique reference.
func (s *Service) Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string) error {
	amount = precision.Round(amount, precision.Co2Kg)
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if referenceID == "" {
		return ErrMissingReference
	}
	return s.repo.Deduct(ctx, ownerID, amount, referenceID, s.now())
}

// Summary groups active credits by type, in catalog order.
func (s *Service) Summary(ctx context.Context, ownerID uuid.UUID) (*Summary, error) {
	now := s.now()
	credits, err := s.repo.ListActive(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}

	sum := &Summary{ByType: make([]TypeTotal, 0), Credits: make([]ActiveCredit, 0, len(credits))}
	totals := make(map[Type]*TypeTotal)
	for _, entry := range s.catalog {
		totals[entry.Type] = &TypeTotal{CreditType: entry.Type, Name: entry.Name}
	}

	for i := range credits {
		c := credits[i]
		sum.Credits = append(sum.Credits, ActiveCredit{Credit: c, DaysRemaining: c.DaysRemaining(now)})
		sum.TotalActiveKg = precision.Sum(precision.Co2Kg, sum.TotalActiveKg, c.AmountKgCo2)

		tt, ok := totals[c.CreditType]
		if !ok {
			tt = &TypeTotal{CreditType: c.CreditType, Name: string(c.CreditType)}
			totals[c.CreditType] = tt
		}
		tt.AmountKgCo2 = precision.Sum(precision.Co2Kg, tt.AmountKgCo2, c.AmountKgCo2)
		tt.Count++
	}

	for _, entry := range s.catalog {
		if tt := totals[entry.Type]; tt.Count > 0 {
			sum.ByType = append(sum.ByType, *tt)
		}
	}
	for t, tt := range totals {
		if _, known := s.catalog.Lookup(t); !known {
			sum.ByType = append(sum.ByType, *tt)
		}
	}
	return sum, nil
}

// History lists every credit of the owner with its status as of now.
func (s *Service) History(ctx context.Context, ownerID uuid.UUID) ([]HistoryEntry, error) {
	now := s.now()
	credits, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryEntry, 0, len(credits))
	for i := range credits {
		c := credits[i]
		out = append(out, HistoryEntry{
			Credit:          c,
			EffectiveStatus: c.EffectiveStatus(now),
			DaysRemaining:   c.DaysRemaining(now),
		})
	}
	return out, nil
}

// ExpireSweep marks past-expiry credits as expired.
func (s *Service) ExpireSweep(ctx context.Context) (int64, error) {
	return s.repo.ExpireBefore(ctx, s.now())
}
