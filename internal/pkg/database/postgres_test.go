package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "credits_transaction_id_key"}

	if !IsUniqueViolation(fmt.Errorf("insert credit: %w", dup)) {
		t.Fatal("wrapped 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("23505")) {
		t.Fatal("plain error is not a unique violation")
	}
}
