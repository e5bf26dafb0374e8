package credit

// PurchaseRequest buys credits from the catalog.
type PurchaseRequest struct {
	CreditType  string  `json:"credit_type" validate:"required,credit_type"`
	AmountKgCo2 float64 `json:"amount_kg_co2" validate:"gt=0"`
}

// PurchaseResponse is the created credit with its price quote.
type PurchaseResponse struct {
	Credit     *Credit `json:"credit"`
	PricePerKg float64 `json:"price_per_kg"`
	TotalPrice float64 `json:"total_price"`
}

// ActiveCredit is a credit with its remaining lifetime.
type ActiveCredit struct {
	Credit
	DaysRemaining int `json:"days_remaining"`
}

// TypeTotal is the active amount of one credit type.
type TypeTotal struct {
	CreditType  Type    `json:"credit_type"`
	Name        string  `json:"name"`
	AmountKgCo2 float64 `json:"amount_kg_co2"`
	Count       int     `json:"count"`
}

// Summary is an owner's active holdings.
type Summary struct {
	TotalActiveKg float64        `json:"total_active_kg"`
	ByType        []TypeTotal    `json:"by_type"`
	Credits       []ActiveCredit `json:"credits"`
}

// HistoryEntry is a credit as shown in the purchase history.
type HistoryEntry struct {
	Credit
	EffectiveStatus Status `json:"effective_status"`
	DaysRemaining   int    `json:"days_remaining"`
}
