package marketplace

import (
	"context"

	"github.com/google/uuid"
)

// Ledger is the credit ledger as seen by settlement.
type Ledger interface {
	ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error)
	// Deduct must be idempotent per referenceID.
	Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string) error
	// IssueFromTrade must be idempotent per transactionID.
	IssueFromTrade(ctx context.Context, ownerID uuid.UUID, creditType string, amount float64, transactionID string, pricePaid float64) error
}

// Accounts resolves user details shown on listings.
type Accounts interface {
	Email(ctx context.Context, userID uuid.UUID) (string, error)
}

// Publisher receives marketplace events for the live feed.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// Feed event types.
const (
	EventListingCreated   = "listing_created"
	EventListingCancelled = "listing_cancelled"
	EventListingSold      = "listing_sold"
	EventTradeCompleted   = "trade_completed"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) {}
