package marketplace

import (
	"time"

	"github.com/google/uuid"
)

// ListingStatus of a sell offer.
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
	// ListingExpired is never stored; it is reported for active listings past expires_at.
	ListingExpired ListingStatus = "expired"
)

// ListingStatuses are the stored statuses.
var ListingStatuses = []ListingStatus{ListingActive, ListingSold, ListingCancelled}

// Listing is a seller's offer to sell part of their credit balance.
// AmountKgCo2 + SoldAmount == OriginalAmount holds after every change.
type Listing struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	SellerID       uuid.UUID     `db:"seller_id" json:"seller_id"`
	CreditType     string        `db:"credit_type" json:"credit_type"`
	AmountKgCo2    float64       `db:"amount_kg_co2" json:"amount_kg_co2"`
	OriginalAmount float64       `db:"original_amount" json:"original_amount"`
	SoldAmount     float64       `db:"sold_amount" json:"sold_amount"`
	PricePerKg     float64       `db:"price_per_kg" json:"price_per_kg"`
	TotalPrice     float64       `db:"total_price" json:"total_price"`
	Status         ListingStatus `db:"status" json:"status"`
	Views          int64         `db:"views" json:"views"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	ExpiresAt      time.Time     `db:"expires_at" json:"expires_at"`
	SoldAt         *time.Time    `db:"sold_at" json:"sold_at,omitempty"`
	CancelledAt    *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// IsOpenAt reports whether the listing can be bought from at now.
func (l *Listing) IsOpenAt(now time.Time) bool {
	return l.Status == ListingActive && now.Before(l.ExpiresAt) && l.AmountKgCo2 > 0
}

// EffectiveStatus reports expired for active listings past their expiry.
func (l *Listing) EffectiveStatus(now time.Time) ListingStatus {
	if l.Status == ListingActive && !now.Before(l.ExpiresAt) {
		return ListingExpired
	}
	return l.Status
}

// Filters narrow Browse results. Zero values do not filter.
type Filters struct {
	CreditType string
	MaxPrice   float64
	MinAmount  float64
	Limit      int
	Offset     int
}

func (f Filters) matches(l *Listing) bool {
	if f.CreditType != "" && l.CreditType != f.CreditType {
		return false
	}
	if f.MaxPrice > 0 && l.PricePerKg > f.MaxPrice {
		return false
	}
	if f.MinAmount > 0 && l.AmountKgCo2 < f.MinAmount {
		return false
	}
	return true
}

// Fill is the part of a listing taken by one payment.
type Fill struct {
	PaymentID   uuid.UUID `db:"payment_id" json:"payment_id"`
	ListingID   uuid.UUID `db:"listing_id" json:"listing_id"`
	AmountKgCo2 float64   `db:"amount_kg_co2" json:"amount_kg_co2"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
