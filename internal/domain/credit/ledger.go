package credit

import (
	"context"

	"github.com/google/uuid"
)

// Ledger exposes the service with untyped credit types for callers that
// settle trades and do not import this package's Type.
type Ledger struct {
	svc *Service
}

// NewLedger wraps svc.
func NewLedger(svc *Service) *Ledger {
	return &Ledger{svc: svc}
}

func (l *Ledger) ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return l.svc.ActiveBalance(ctx, ownerID)
}

func (l *Ledger) Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string) error {
	return l.svc.Deduct(ctx, ownerID, amount, referenceID)
}

func (l *Ledger) IssueFromTrade(ctx context.Context, ownerID uuid.UUID, creditType string, amount float64, transactionID string, pricePaid float64) error {
	_, err := l.svc.IssueFromTrade(ctx, ownerID, Type(creditType), amount, transactionID, pricePaid)
	return err
}
