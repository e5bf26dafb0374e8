package validator

import "testing"

type purchaseRequest struct {
	CreditType string  `json:"credit_type" validate:"required,credit_type"`
	Amount     float64 `json:"amount_kg_co2" validate:"gt=0"`
	Method     string  `json:"payment_method" validate:"omitempty,payment_method"`
}

func TestValidate(t *testing.T) {
	if errs := Validate(purchaseRequest{CreditType: "wind", Amount: 10, Method: "upi"}); errs != nil {
		t.Fatalf("expected valid request, got %v", errs)
	}

	errs := Validate(purchaseRequest{CreditType: "coal", Amount: 0, Method: "cash"})
	for _, field := range []string{"credit_type", "amount_kg_co2", "payment_method"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
	if got := errs["credit_type"]; got != "Must be one of: solar, wind, bio" {
		t.Errorf("credit_type message = %q", got)
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("monthly", "period"); err != nil {
		t.Fatalf("monthly should be a valid period: %v", err)
	}
	if err := ValidateVar("hourly", "period"); err == nil {
		t.Fatal("hourly should not be a valid period")
	}
}
