package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
)

// Receipt is the archived record of a settled trade.
type Receipt struct {
	TransactionID    string    `json:"transaction_id"`
	PaymentID        uuid.UUID `json:"payment_id"`
	ListingID        uuid.UUID `json:"listing_id"`
	BuyerID          uuid.UUID `json:"buyer_id"`
	SellerID         uuid.UUID `json:"seller_id"`
	CreditType       string    `json:"credit_type"`
	AmountKgCo2      float64   `json:"amount_kg_co2"`
	PricePerKg       float64   `json:"price_per_kg"`
	TotalAmount      float64   `json:"total_amount"`
	Currency         string    `json:"currency"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
}

// ReceiptKey is the storage key of a receipt: receipts/YYYY/MM/<txid>.json.
func ReceiptKey(transactionID string, completedAt time.Time) string {
	return fmt.Sprintf("receipts/%04d/%02d/%s.json", completedAt.Year(), int(completedAt.Month()), transactionID)
}

func receiptFor(p *payment.Payment) Receipt {
	r := Receipt{
		TransactionID: p.TransactionID,
		PaymentID:     p.ID,
		ListingID:     p.ListingID,
		BuyerID:       p.BuyerID,
		SellerID:      p.SellerID,
		CreditType:    p.CreditType,
		AmountKgCo2:   p.AmountKgCo2,
		PricePerKg:    p.PricePerKg,
		TotalAmount:   p.TotalAmount,
		Currency:      payment.Currency,
		PaymentMethod: string(p.PaymentMethod),
		CompletedAt:   p.UpdatedAt,
	}
	if p.CompletedAt != nil {
		r.CompletedAt = *p.CompletedAt
	}
	if p.PaymentReference != nil {
		r.PaymentReference = *p.PaymentReference
	}
	return r
}

func (s *Service) archiveReceipt(ctx context.Context, p *payment.Payment) error {
	if s.receipts == nil {
		return nil
	}
	r := receiptFor(p)
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return s.receipts.Put(ctx, ReceiptKey(r.TransactionID, r.CompletedAt.UTC()), bytes.NewReader(body), "application/json")
}

// Receipt loads the archived receipt of a completed payment owned by the buyer or seller.
func (s *Service) Receipt(ctx context.Context, paymentID, userID uuid.UUID) (*Receipt, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.BuyerID != userID && p.SellerID != userID {
		return nil, payment.ErrPaymentNotFound
	}
	if p.Status != payment.StatusCompleted {
		return nil, payment.ErrNotCompleted
	}

	fallback := receiptFor(p)
	if s.receipts == nil {
		return &fallback, nil
	}
	rc, err := s.receipts.Get(ctx, ReceiptKey(p.TransactionID, fallback.CompletedAt.UTC()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &fallback, nil
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
