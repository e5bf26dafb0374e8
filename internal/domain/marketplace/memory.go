package marketplace

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// MemoryRepository keeps listings in process with the same conditional
// semantics as PostgresRepository.
type MemoryRepository struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*Listing
	fills    map[uuid.UUID]Fill
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		listings: make(map[uuid.UUID]*Listing),
		fills:    make(map[uuid.UUID]Fill),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *MemoryRepository) ListActive(ctx context.Context, f Filters, now time.Time) ([]Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Listing, 0)
	for _, l := range r.listings {
		if l.IsOpenAt(now) && f.matches(l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PricePerKg != out[j].PricePerKg {
			return out[i].PricePerKg < out[j].PricePerKg
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return out[:0], nil
		}
		out = out[f.Offset:]
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Listing, 0)
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.listings[id]; ok {
		l.Views++
	}
	return nil
}

func (r *MemoryRepository) Cancel(ctx context.Context, id, sellerID uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok || l.SellerID != sellerID {
		return ErrListingNotFound
	}
	if l.Status != ListingActive {
		return ErrListingNotActive
	}
	l.Status = ListingCancelled
	l.CancelledAt = &now
	l.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) ReservedBySeller(ctx context.Context, sellerID uuid.UUID, now time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reserved := 0.0
	for _, l := range r.listings {
		if l.SellerID == sellerID && l.Status == ListingActive && now.Before(l.ExpiresAt) {
			reserved = precision.Sum(precision.Co2Kg, reserved, l.AmountKgCo2)
		}
	}
	return reserved, nil
}

func (r *MemoryRepository) ApplyFill(ctx context.Context, f Fill, now time.Time) (*Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.fills[f.PaymentID]; ok {
		if !sameFill(prior, f) {
			return nil, ErrFillConflict
		}
		cp := *r.listings[prior.ListingID]
		return &cp, nil
	}

	l, ok := r.listings[f.ListingID]
	if !ok {
		return nil, ErrListingNotFound
	}
	if l.Status != ListingActive {
		return nil, ErrListingNotActive
	}
	if precision.Cmp(l.AmountKgCo2, f.AmountKgCo2, precision.Co2Kg) < 0 {
		return nil, ErrExceedsRemaining
	}

	l.AmountKgCo2 = precision.Sub(l.AmountKgCo2, f.AmountKgCo2, precision.Co2Kg)
	l.SoldAmount = precision.Sum(precision.Co2Kg, l.SoldAmount, f.AmountKgCo2)
	l.TotalPrice = precision.Mul(l.AmountKgCo2, l.PricePerKg, precision.Money)
	l.UpdatedAt = now
	if l.AmountKgCo2 == 0 {
		l.Status = ListingSold
		l.SoldAt = &now
	}

	f.CreatedAt = now
	r.fills[f.PaymentID] = f
	cp := *l
	return &cp, nil
}

func (r *MemoryRepository) RevertFill(ctx context.Context, paymentID uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.fills[paymentID]
	if !ok {
		return nil
	}
	delete(r.fills, paymentID)

	l := r.listings[f.ListingID]
	l.AmountKgCo2 = precision.Sum(precision.Co2Kg, l.AmountKgCo2, f.AmountKgCo2)
	l.SoldAmount = precision.Sub(l.SoldAmount, f.AmountKgCo2, precision.Co2Kg)
	l.TotalPrice = precision.Mul(l.AmountKgCo2, l.PricePerKg, precision.Money)
	l.UpdatedAt = now
	if l.Status == ListingSold {
		l.Status = ListingActive
		l.SoldAt = nil
	}
	return nil
}

func (r *MemoryRepository) CountByStatus(ctx context.Context) (map[ListingStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[ListingStatus]int64, len(ListingStatuses))
	for _, s := range ListingStatuses {
		counts[s] = 0
	}
	for _, l := range r.listings {
		counts[l.Status]++
	}
	return counts, nil
}
