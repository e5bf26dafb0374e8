package marketplace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/txid"
)

// Config holds marketplace rules.
type Config struct {
	MinPricePerKg float64
	ListingTTL    time.Duration
	PendingTTL    time.Duration
	StaleAfter    time.Duration
	UpiSuffix     string
}

// DefaultConfig returns the standard marketplace rules.
func DefaultConfig() Config {
	return Config{
		MinPricePerKg: 5,
		ListingTTL:    30 * 24 * time.Hour,
		PendingTTL:    24 * time.Hour,
		StaleAfter:    2 * time.Minute,
		UpiSuffix:     payment.DefaultUpiSuffix,
	}
}

// Service runs listings and the purchase protocol.
type Service struct {
	listings Repository
	payments payment.Repository
	ledger   Ledger
	accounts Accounts
	feed     Publisher
	receipts storage.Store
	cfg      Config
	now      func() time.Time
}

// NewService creates marketplace service
func NewService(listings Repository, payments payment.Repository, ledger Ledger, accounts Accounts, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.MinPricePerKg <= 0 {
		cfg.MinPricePerKg = def.MinPricePerKg
	}
	if cfg.ListingTTL <= 0 {
		cfg.ListingTTL = def.ListingTTL
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = def.PendingTTL
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = def.StaleAfter
	}
	if cfg.UpiSuffix == "" {
		cfg.UpiSuffix = def.UpiSuffix
	}
	return &Service{
		listings: listings,
		payments: payments,
		ledger:   ledger,
		accounts: accounts,
		feed:     nopPublisher{},
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetPublisher sets the live feed sink.
func (s *Service) SetPublisher(p Publisher) {
	if p == nil {
		p = nopPublisher{}
	}
	s.feed = p
}

// SetReceiptStore enables receipt archiving. A nil store disables it.
func (s *Service) SetReceiptStore(st storage.Store) {
	s.receipts = st
}

// CreateListing offers part of the seller's unreserved active balance.
func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, req *CreateListingRequest) (*Listing, error) {
	amount := precision.Round(req.AmountKgCo2, precision.Co2Kg)
	price := precision.Round(req.PricePerKg, precision.Money)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if price < s.cfg.MinPricePerKg {
		return nil, ErrPriceTooLow
	}

	now := s.now().UTC()
	balance, err := s.ledger.ActiveBalance(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.listings.ReservedBySeller(ctx, sellerID, now)
	if err != nil {
		return nil, err
	}
	available := precision.Sub(balance, reserved, precision.Co2Kg)
	if precision.Cmp(amount, available, precision.Co2Kg) > 0 {
		return nil, ErrInsufficientBalance
	}

	l := &Listing{
		ID:             uuid.New(),
		SellerID:       sellerID,
		CreditType:     req.CreditType,
		AmountKgCo2:    amount,
		OriginalAmount: amount,
		PricePerKg:     price,
		TotalPrice:     precision.Mul(amount, price, precision.Money),
		Status:         ListingActive,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.cfg.ListingTTL),
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}

	log.Info().
		Str("listing_id", l.ID.String()).
		Str("seller_id", sellerID.String()).
		Float64("amount_kg_co2", amount).
		Float64("price_per_kg", price).
		Msg("listing created")
	s.feed.Publish(ctx, EventListingCreated, l)

	return l, nil
}

// Browse lists open listings, cheapest first.
func (s *Service) Browse(ctx context.Context, f Filters) ([]Listing, error) {
	return s.listings.ListActive(ctx, f, s.now())
}

// Detail returns a listing, counting the view.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*ListingDetail, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.listings.IncrementViews(ctx, id); err != nil {
		log.Warn().Err(err).Str("listing_id", id.String()).Msg("failed to count listing view")
	} else {
		l.Views++
	}

	detail := &ListingDetail{Listing: *l, EffectiveStatus: l.EffectiveStatus(s.now())}
	if s.accounts != nil {
		if email, err := s.accounts.Email(ctx, l.SellerID); err == nil {
			detail.SellerEmail = MaskEmail(email)
		}
	}
	return detail, nil
}

// MaskEmail keeps the first three characters of the local part and the domain.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if len(local) > 3 {
		local = local[:3]
	}
	return local + "***@" + domain
}

// Cancel withdraws an active listing owned by sellerID.
func (s *Service) Cancel(ctx context.Context, id, sellerID uuid.UUID) error {
	if err := s.listings.Cancel(ctx, id, sellerID, s.now().UTC()); err != nil {
		return err
	}
	log.Info().Str("listing_id", id.String()).Msg("listing cancelled")
	s.feed.Publish(ctx, EventListingCancelled, map[string]string{"listing_id": id.String()})
	return nil
}

// MyListings returns every listing of the seller.
func (s *Service) MyListings(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	return s.listings.ListBySeller(ctx, sellerID)
}

// MyTrades returns the user's listings, sales and purchases.
func (s *Service) MyTrades(ctx context.Context, userID uuid.UUID) (*Trades, error) {
	listings, err := s.listings.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	sales, err := s.payments.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.payments.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Trades{Listings: listings, Sales: sales, Purchases: purchases}, nil
}

// InitiatePurchase creates a pending payment. Nothing else is mutated.
func (s *Service) InitiatePurchase(ctx context.Context, buyerID, listingID uuid.UUID, req *BuyRequest) (*PurchaseResponse, error) {
	amount := precision.Round(req.AmountKgCo2, precision.Co2Kg)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if l.Status != ListingActive || !now.Before(l.ExpiresAt) {
		return nil, ErrListingNotActive
	}
	if l.SellerID == buyerID {
		return nil, ErrSelfTrade
	}
	if precision.Cmp(amount, l.AmountKgCo2, precision.Co2Kg) > 0 {
		return nil, ErrExceedsRemaining
	}

	txID, err := txid.New("TXN")
	if err != nil {
		return nil, apperr.Wrap(ErrInternal, err)
	}
	total := precision.Mul(amount, l.PricePerKg, precision.Money)
	method := payment.Method(req.PaymentMethod)
	pres := payment.Present(txID, l.SellerID, method, total, s.cfg.UpiSuffix)

	p := &payment.Payment{
		ID:               uuid.New(),
		TransactionID:    txID,
		BuyerID:          buyerID,
		SellerID:         l.SellerID,
		ListingID:        l.ID,
		CreditType:       l.CreditType,
		AmountKgCo2:      amount,
		PricePerKg:       l.PricePerKg,
		TotalAmount:      total,
		PaymentMethod:    method,
		Status:           payment.StatusPending,
		PresentationCode: pres.Code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if pres.UpiID != "" {
		upi := pres.UpiID
		p.UpiID = &upi
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", p.ID.String()).
		Str("transaction_id", txID).
		Str("listing_id", l.ID.String()).
		Float64("amount_kg_co2", amount).
		Msg("purchase initiated")

	return &PurchaseResponse{Payment: p, Presentation: pres, Listing: l}, nil
}

// AttachReference records a late payment reference on a completed payment.
func (s *Service) AttachReference(ctx context.Context, paymentID, buyerID uuid.UUID, reference string) (*payment.Payment, error) {
	p, err := s.buyerPayment(ctx, paymentID, buyerID)
	if err != nil {
		return nil, err
	}
	if p.Status != payment.StatusCompleted {
		return nil, payment.ErrNotCompleted
	}
	if err := s.payments.AttachReference(ctx, paymentID, buyerID, reference, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, paymentID)
}

// CancelPayment abandons a pending payment.
func (s *Service) CancelPayment(ctx context.Context, paymentID, buyerID uuid.UUID) (*payment.Payment, error) {
	p, err := s.buyerPayment(ctx, paymentID, buyerID)
	if err != nil {
		return nil, err
	}
	if p.Status != payment.StatusPending {
		return nil, payment.ErrNotPending
	}
	if err := s.cancelPending(ctx, p, "cancelled by buyer"); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, paymentID)
}

func (s *Service) cancelPending(ctx context.Context, p *payment.Payment, reason string) error {
	now := s.now().UTC()
	err := s.payments.Transition(ctx, p.ID, payment.Transition{
		From:   payment.StatusPending,
		To:     payment.StatusCancelled,
		Reason: reason,
		At:     now,
	})
	if err != nil {
		if isStatusChanged(err) {
			return payment.ErrNotPending
		}
		return err
	}
	// A settlement that reverted to pending may have left its fill behind.
	if err := s.listings.RevertFill(ctx, p.ID, now); err != nil {
		log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("failed to release fill of cancelled payment")
	}
	log.Info().Str("payment_id", p.ID.String()).Str("reason", reason).Msg("payment cancelled")
	return nil
}

// buyerPayment loads a payment, hiding other buyers' payments.
func (s *Service) buyerPayment(ctx context.Context, paymentID, buyerID uuid.UUID) (*payment.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.BuyerID != buyerID {
		return nil, payment.ErrPaymentNotFound
	}
	return p, nil
}
