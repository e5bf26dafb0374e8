package marketplace

import (
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
)

// CreateListingRequest offers credits for sale.
type CreateListingRequest struct {
	CreditType  string  `json:"credit_type" validate:"required,credit_type"`
	AmountKgCo2 float64 `json:"amount_kg_co2" validate:"gt=0"`
	PricePerKg  float64 `json:"price_per_kg" validate:"gt=0"`
}

// BuyRequest starts a purchase from a listing.
type BuyRequest struct {
	AmountKgCo2   float64 `json:"amount_kg_co2" validate:"gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,payment_method"`
}

// CompleteRequest confirms payment with an optional bank reference.
type CompleteRequest struct {
	PaymentReference string `json:"payment_reference" validate:"max=128"`
}

// ReferenceRequest attaches a late reference note.
type ReferenceRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=128"`
}

// ListingDetail is a listing with its seller shown masked.
type ListingDetail struct {
	Listing
	EffectiveStatus ListingStatus `json:"effective_status"`
	SellerEmail     string        `json:"seller_email"`
}

// PurchaseResponse is a pending payment and how to pay it.
type PurchaseResponse struct {
	Payment      *payment.Payment     `json:"payment"`
	Presentation payment.Presentation `json:"presentation"`
	Listing      *Listing             `json:"listing"`
}

// CompleteResponse is the outcome of a successful settlement.
type CompleteResponse struct {
	Payment         *payment.Payment `json:"payment"`
	CreditsReceived float64          `json:"credits_received"`
	Message         string           `json:"message"`
}

// Trades is a user's trading history.
type Trades struct {
	Listings  []Listing         `json:"sell_listings"`
	Sales     []payment.Payment `json:"sales"`
	Purchases []payment.Payment `json:"purchases"`
}
