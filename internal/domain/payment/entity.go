package payment

import (
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// transitions is the payment state machine. processing -> pending is the
// revert taken when settlement fails before any side effect.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusPending},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Method is how the buyer intends to pay.
type Method string

const (
	MethodUPI  Method = "upi"
	MethodQR   Method = "qr"
	MethodCard Method = "card"
)

// Currency is the only settlement currency.
const Currency = "INR"

// Payment is a buyer's intent to take an amount from a listing.
type Payment struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	TransactionID    string     `db:"transaction_id" json:"transaction_id"`
	BuyerID          uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	SellerID         uuid.UUID  `db:"seller_id" json:"seller_id"`
	ListingID        uuid.UUID  `db:"listing_id" json:"listing_id"`
	CreditType       string     `db:"credit_type" json:"credit_type"`
	AmountKgCo2      float64    `db:"amount_kg_co2" json:"amount_kg_co2"`
	PricePerKg       float64    `db:"price_per_kg" json:"price_per_kg"`
	TotalAmount      float64    `db:"total_amount" json:"total_amount"`
	PaymentMethod    Method     `db:"payment_method" json:"payment_method"`
	Status           Status     `db:"status" json:"status"`
	UpiID            *string    `db:"upi_id" json:"upi_id,omitempty"`
	PresentationCode string     `db:"presentation_code" json:"presentation_code"`
	PaymentReference *string    `db:"payment_reference" json:"payment_reference,omitempty"`
	FailureReason    *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	FailedAt         *time.Time `db:"failed_at" json:"failed_at,omitempty"`
	CancelledAt      *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// IsPaid checks if payment is completed
func (p *Payment) IsPaid() bool {
	return p.Status == StatusCompleted
}

// Transition describes one compare-and-swap status change.
type Transition struct {
	From   Status
	To     Status
	Reason string
	At     time.Time
}

// apply stamps the fields a transition changes.
func (t Transition) apply(p *Payment) {
	p.Status = t.To
	p.UpdatedAt = t.At
	if t.Reason != "" {
		reason := t.Reason
		p.FailureReason = &reason
	}
	at := t.At
	switch t.To {
	case StatusCompleted:
		p.CompletedAt = &at
	case StatusFailed:
		p.FailedAt = &at
	case StatusCancelled:
		p.CancelledAt = &at
	}
}
