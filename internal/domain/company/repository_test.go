package company

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
)

func TestPostgresRepository_Lifecycle(t *testing.T) {
	db := database.OpenTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	c := &Company{
		ID: uuid.New(), Name: "Bio Gas Ltd", Email: "bio@example.com", Status: StatusPending,
		APIKeyHash: HashAPIKey("sk_live_test"), APIKeyPrefix: "sk_live_te", CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := *c
	dup.ID, dup.APIKeyHash = uuid.New(), "other"
	if err := repo.Create(ctx, &dup); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate email: err = %v", err)
	}

	got, err := repo.Transition(ctx, c.ID, []Status{StatusPending}, StatusApproved, now)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != StatusApproved || got.ApprovedAt == nil {
		t.Errorf("approved = %+v", got)
	}
	if _, err := repo.Transition(ctx, c.ID, []Status{StatusPending}, StatusApproved, now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second approve: err = %v", err)
	}
	if _, err := repo.Transition(ctx, uuid.New(), []Status{StatusPending}, StatusApproved, now); !errors.Is(err, ErrCompanyNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	byKey, err := repo.GetByAPIKeyHash(ctx, c.APIKeyHash)
	if err != nil || byKey.ID != c.ID {
		t.Errorf("by key = %+v, %v", byKey, err)
	}
	list, err := repo.List(ctx, StatusApproved)
	if err != nil || len(list) != 1 {
		t.Errorf("list = %d, %v", len(list), err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("count = %d", n)
	}
}
