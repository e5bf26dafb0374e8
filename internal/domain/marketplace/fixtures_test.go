package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/credit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
)

// creditLedger adapts the real credit service, backed by its memory store.
type creditLedger struct {
	svc *credit.Service

	mu        sync.Mutex
	failIssue int
}

func (l *creditLedger) ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return l.svc.ActiveBalance(ctx, ownerID)
}

func (l *creditLedger) Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string) error {
	return l.svc.Deduct(ctx, ownerID, amount, referenceID)
}

func (l *creditLedger) IssueFromTrade(ctx context.Context, ownerID uuid.UUID, creditType string, amount float64, transactionID string, pricePaid float64) error {
	l.mu.Lock()
	if l.failIssue > 0 {
		l.failIssue--
		l.mu.Unlock()
		return apperr.Wrap(credit.ErrInternal, errors.New("connection reset"))
	}
	l.mu.Unlock()
	_, err := l.svc.IssueFromTrade(ctx, ownerID, credit.Type(creditType), amount, transactionID, pricePaid)
	return err
}

type fakeAccounts map[uuid.UUID]string

func (a fakeAccounts) Email(ctx context.Context, id uuid.UUID) (string, error) {
	if e, ok := a[id]; ok {
		return e, nil
	}
	return "", errors.New("no such user")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) {
	p.mu.Lock()
	p.events = append(p.events, eventType)
	p.mu.Unlock()
}

func (p *recordingPublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == eventType {
			return true
		}
	}
	return false
}

// flakyListings fails ApplyFill with a store error a set number of times.
type flakyListings struct {
	*MemoryRepository
	failFill int
}

func (f *flakyListings) ApplyFill(ctx context.Context, fill Fill, now time.Time) (*Listing, error) {
	if f.failFill > 0 {
		f.failFill--
		return nil, apperr.Wrap(ErrInternal, errors.New("connection refused"))
	}
	return f.MemoryRepository.ApplyFill(ctx, fill, now)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	svc      *Service
	listings *flakyListings
	payments *payment.MemoryRepository
	credits  *credit.Service
	ledger   *creditLedger
	feed     *recordingPublisher
	clock    *clock
	seller   uuid.UUID
	buyer    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	credits := credit.NewService(credit.NewMemoryRepository(), credit.DefaultCatalog())
	env := &testEnv{
		listings: &flakyListings{MemoryRepository: NewMemoryRepository()},
		payments: payment.NewMemoryRepository(),
		credits:  credits,
		ledger:   &creditLedger{svc: credits},
		feed:     &recordingPublisher{},
		clock:    &clock{t: time.Now().UTC()},
		seller:   uuid.New(),
		buyer:    uuid.New(),
	}
	accounts := fakeAccounts{env.seller: "alice@example.com", env.buyer: "bob@example.com"}

	env.svc = NewService(env.listings, env.payments, env.ledger, accounts, DefaultConfig())
	env.svc.now = env.clock.Now
	env.svc.SetPublisher(env.feed)
	return env
}

func (e *testEnv) grant(t *testing.T, owner uuid.UUID, kg float64) {
	t.Helper()
	if _, err := e.credits.Purchase(context.Background(), owner, &credit.PurchaseRequest{CreditType: "solar", AmountKgCo2: kg}); err != nil {
		t.Fatalf("grant credits: %v", err)
	}
}

func (e *testEnv) list(t *testing.T, kg, price float64) *Listing {
	t.Helper()
	l, err := e.svc.CreateListing(context.Background(), e.seller, &CreateListingRequest{CreditType: "solar", AmountKgCo2: kg, PricePerKg: price})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

func (e *testEnv) initiate(t *testing.T, listingID uuid.UUID, kg float64) *payment.Payment {
	t.Helper()
	resp, err := e.svc.InitiatePurchase(context.Background(), e.buyer, listingID, &BuyRequest{AmountKgCo2: kg, PaymentMethod: "upi"})
	if err != nil {
		t.Fatalf("initiate purchase: %v", err)
	}
	return resp.Payment
}

func (e *testEnv) balance(t *testing.T, owner uuid.UUID) float64 {
	t.Helper()
	b, err := e.credits.ActiveBalance(context.Background(), owner)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

func assertListingBalanced(t *testing.T, l *Listing) {
	t.Helper()
	if got := l.AmountKgCo2 + l.SoldAmount; got != l.OriginalAmount {
		t.Fatalf("listing %s: amount %v + sold %v != original %v", l.ID, l.AmountKgCo2, l.SoldAmount, l.OriginalAmount)
	}
}
