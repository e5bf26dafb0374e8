package company

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps companies in process.
type MemoryRepository struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]*Company
	byEmail   map[string]uuid.UUID
	byKeyHash map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		companies: make(map[uuid.UUID]*Company),
		byEmail:   make(map[string]uuid.UUID),
		byKeyHash: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, c *Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[c.Email]; exists {
		return ErrEmailAlreadyExists
	}
	cp := *c
	r.companies[c.ID] = &cp
	r.byEmail[c.Email] = c.ID
	r.byKeyHash[c.APIKeyHash] = c.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[id]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*Company, error) {
	r.mu.RLock()
	id, ok := r.byKeyHash[hash]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) List(ctx context.Context, status Status) ([]Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Company, 0, len(r.companies))
	for _, c := range r.companies {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *MemoryRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, next Status, now time.Time) (*Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.companies[id]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	allowed := false
	for _, s := range from {
		if c.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidTransition
	}

	c.Status = next
	if next == StatusApproved && c.ApprovedAt == nil {
		t := now
		c.ApprovedAt = &t
	}
	c.UpdatedAt = now
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.companies), nil
}
