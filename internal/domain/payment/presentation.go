package payment

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultUpiSuffix is appended to simulated seller handles.
const DefaultUpiSuffix = "@upi"

// Presentation is what the buyer is shown to make a payment.
type Presentation struct {
	TransactionID string  `json:"transaction_id"`
	Method        Method  `json:"payment_method"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	UpiID         string  `json:"upi_id,omitempty"`
	Code          string  `json:"presentation_code"`
}

// SellerHandle is the simulated UPI handle of a seller.
func SellerHandle(sellerID uuid.UUID, suffix string) string {
	if suffix == "" {
		suffix = DefaultUpiSuffix
	}
	return "seller" + sellerID.String()[:8] + suffix
}

// Present builds the payment instructions. UPI payments get a upi:// URI
// addressed to the seller handle; every other method gets a generic code.
func Present(txID string, sellerID uuid.UUID, method Method, amount float64, upiSuffix string) Presentation {
	p := Presentation{
		TransactionID: txID,
		Method:        method,
		Amount:        amount,
		Currency:      Currency,
	}
	if method == MethodUPI {
		p.UpiID = SellerHandle(sellerID, upiSuffix)
		p.Code = fmt.Sprintf("upi://pay?pa=%s&pn=CarbonCredit&am=%.2f&tn=%s&cu=%s", p.UpiID, amount, txID, Currency)
		return p
	}
	p.Code = fmt.Sprintf("PAYMENT|TXN:%s|AMT:%.2f|CUR:%s", txID, amount, Currency)
	return p
}
