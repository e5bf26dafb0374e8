package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OpenTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped when the variable is unset or the server
// is unreachable.
func OpenTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skipf("TEST_DATABASE_URL not set")
	}

	db, err := NewPostgres(url, PoolConfig{MaxOpenConns: 10, MaxIdleConns: 5})
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		TRUNCATE listing_fills, payments, listings, credit_deductions, credits,
			emissions, emission_factor_sets, companies, users CASCADE
	`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

// CreateTestUser inserts a household account and returns its id.
func CreateTestUser(t testing.TB, db *sqlx.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO users (id, email, password_hash, role, area_sqm, occupants, created_at, updated_at)
		VALUES ($1, $2, 'x', 'household', 100, 2, $3, $3)
	`, id, fmt.Sprintf("%s@test.local", id), time.Now())
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}
