// Package company registers external credit sellers and tracks their approval.
package company

import (
	"time"

	"github.com/google/uuid"
)

// Status of a company account
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusSuspended Status = "suspended"
)

// Statuses in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusSuspended}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Company is an external seller of renewable credits.
// Only the SHA-256 of the API key is stored.
type Company struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	Description      string     `db:"description" json:"description"`
	ContactPerson    string     `db:"contact_person" json:"contact_person"`
	Status           Status     `db:"status" json:"status"`
	APIKeyHash       string     `db:"api_key_hash" json:"-"`
	APIKeyPrefix     string     `db:"api_key_prefix" json:"api_key_prefix"`
	CreditsSoldTotal float64    `db:"credits_sold_total" json:"credits_sold_total"`
	RevenueTotal     float64    `db:"revenue_total" json:"revenue_total"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	ApprovedAt       *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
