package payment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps payments in process, with the same compare-and-swap
// semantics as PostgresRepository.
type MemoryRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*Payment
	byTxID   map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		payments: make(map[uuid.UUID]*Payment),
		byTxID:   make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTxID[p.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	cp := *p
	r.payments[p.ID] = &cp
	r.byTxID[p.TransactionID] = p.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) Transition(ctx context.Context, id uuid.UUID, t Transition) error {
	if !CanTransition(t.From, t.To) {
		return ErrIllegalTransition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok || p.Status != t.From {
		return ErrStatusChanged
	}
	t.apply(p)
	return nil
}

func (r *MemoryRepository) AttachReference(ctx context.Context, id, buyerID uuid.UUID, reference string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[id]
	if !ok || p.BuyerID != buyerID || p.Status != StatusCompleted {
		return ErrNotCompleted
	}
	p.PaymentReference = &reference
	p.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Payment, error) {
	return r.filter(func(p *Payment) bool { return p.BuyerID == buyerID }, newestFirst, 0, 0), nil
}

func (r *MemoryRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Payment, error) {
	return r.filter(func(p *Payment) bool { return p.SellerID == sellerID }, newestFirst, 0, 0), nil
}

func (r *MemoryRepository) ListStale(ctx context.Context, status Status, cutoff time.Time, limit int) ([]Payment, error) {
	oldestUpdate := func(a, b Payment) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	return r.filter(func(p *Payment) bool {
		return p.Status == status && p.UpdatedAt.Before(cutoff)
	}, oldestUpdate, limit, 0), nil
}

func (r *MemoryRepository) ListRecent(ctx context.Context, limit, offset int) ([]Payment, error) {
	return r.filter(func(*Payment) bool { return true }, newestFirst, limit, offset), nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Status]int64, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, p := range r.payments {
		counts[p.Status]++
	}
	return counts, nil
}

func newestFirst(a, b Payment) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *MemoryRepository) filter(keep func(*Payment) bool, less func(a, b Payment) bool, limit, offset int) []Payment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Payment, 0)
	for _, p := range r.payments {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	if offset > 0 {
		if offset >= len(out) {
			return out[:0]
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
