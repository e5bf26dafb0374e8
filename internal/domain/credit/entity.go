package credit

import (
	"time"

	"github.com/google/uuid"
)

// Validity is how long a credit can be used after purchase.
const Validity = 365 * 24 * time.Hour

// Type is a renewable-energy credit category.
type Type string

const (
	TypeSolar Type = "solar"
	TypeWind  Type = "wind"
	TypeBio   Type = "bio"
)

// Status of a credit record.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Source records how a credit was obtained.
type Source string

const (
	SourcePurchase    Source = "purchase"
	SourceMarketplace Source = "marketplace"
)

// CatalogEntry describes a purchasable credit type.
type CatalogEntry struct {
	Type        Type    `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PricePerKg  float64 `json:"price_per_kg"`
}

// Catalog is the ordered list of credit types on offer.
type Catalog []CatalogEntry

// DefaultCatalog returns the standard credit types and prices.
func DefaultCatalog() Catalog {
	return Catalog{
		{Type: TypeSolar, Name: "Solar Energy Credits", Description: "Offset via solar power generation", PricePerKg: 0.15},
		{Type: TypeWind, Name: "Wind Energy Credits", Description: "Offset via wind power generation", PricePerKg: 0.12},
		{Type: TypeBio, Name: "Bio-Energy Credits", Description: "Offset via biomass energy", PricePerKg: 0.10},
	}
}

func (c Catalog) Lookup(t Type) (CatalogEntry, bool) {
	for _, e := range c {
		if e.Type == t {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// Credit is a quantity of offset owned by one account.
type Credit struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OwnerID        uuid.UUID `db:"owner_id" json:"owner_id"`
	CreditType     Type      `db:"credit_type" json:"credit_type"`
	AmountKgCo2    float64   `db:"amount_kg_co2" json:"amount_kg_co2"`
	OriginalAmount float64   `db:"original_amount" json:"original_amount"`
	PricePaid      float64   `db:"price_paid" json:"price_paid"`
	PurchaseDate   time.Time `db:"purchase_date" json:"purchase_date"`
	ExpiryDate     time.Time `db:"expiry_date" json:"expiry_date"`
	Status         Status    `db:"status" json:"status"`
	TransactionID  string    `db:"transaction_id" json:"transaction_id"`
	Source         Source    `db:"source" json:"source"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsActiveAt reports whether the credit counts toward the balance at now.
// Expiry is checked directly so results never depend on the sweep having run.
func (c *Credit) IsActiveAt(now time.Time) bool {
	return c.Status == StatusActive && !c.ExpiryDate.Before(now)
}

// EffectiveStatus is the status as of now.
func (c *Credit) EffectiveStatus(now time.Time) Status {
	if c.IsActiveAt(now) {
		return StatusActive
	}
	return StatusExpired
}

// DaysRemaining is the number of whole days before expiry, never negative.
func (c *Credit) DaysRemaining(now time.Time) int {
	d := c.ExpiryDate.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Deduction is one debit applied under a unique reference.
type Deduction struct {
	ReferenceID string    `db:"reference_id" json:"reference_id"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	AmountKgCo2 float64   `db:"amount_kg_co2" json:"amount_kg_co2"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
