package credit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// MemoryRepository is an in-process ledger with the same conditional-update
// semantics as PostgresRepository.
type MemoryRepository struct {
	mu         sync.Mutex
	credits    map[uuid.UUID]*Credit
	byTxID     map[string]uuid.UUID
	deductions map[string]Deduction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		credits:    make(map[uuid.UUID]*Credit),
		byTxID:     make(map[string]uuid.UUID),
		deductions: make(map[string]Deduction),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, c *Credit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTxID[c.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	cp := *c
	r.credits[c.ID] = &cp
	r.byTxID[c.TransactionID] = c.ID
	return nil
}

func (r *MemoryRepository) GetByTransactionID(ctx context.Context, transactionID string) (*Credit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byTxID[transactionID]
	if !ok {
		return nil, ErrCreditNotFound
	}
	cp := *r.credits[id]
	return &cp, nil
}

func (r *MemoryRepository) ActiveBalance(ctx context.Context, ownerID uuid.UUID, now time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0.0
	for _, c := range r.credits {
		if c.OwnerID == ownerID && c.IsActiveAt(now) {
			total = precision.Sum(precision.Co2Kg, total, c.AmountKgCo2)
		}
	}
	return total, nil
}

func (r *MemoryRepository) ListActive(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]Credit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(ownerID, now), nil
}

func (r *MemoryRepository) activeLocked(ownerID uuid.UUID, now time.Time) []Credit {
	out := make([]Credit, 0)
	for _, c := range r.credits {
		if c.OwnerID == ownerID && c.IsActiveAt(now) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Credit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Credit, 0)
	for _, c := range r.credits {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, nil
}

func (r *MemoryRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, c := range r.credits {
		if c.Status == StatusActive && c.ExpiryDate.Before(now) {
			c.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.deductions[referenceID]; ok {
		return replayResult(prior, ownerID, amount)
	}

	active := r.activeLocked(ownerID, now)
	lots := make([]lot, 0, len(active))
	for _, c := range active {
		lots = append(lots, lot{ID: c.ID, AmountKgCo2: c.AmountKgCo2})
	}

	draws, ok := planDeduction(lots, amount)
	if !ok {
		return ErrInsufficientBalance
	}
	for _, d := range draws {
		c := r.credits[d.ID]
		c.AmountKgCo2 = precision.Sub(c.AmountKgCo2, d.Amount, precision.Co2Kg)
	}
	r.deductions[referenceID] = Deduction{
		ReferenceID: referenceID,
		OwnerID:     ownerID,
		AmountKgCo2: amount,
		CreatedAt:   now,
	}
	return nil
}
