package payment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPresent(t *testing.T) {
	seller := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	tests := []struct {
		name     string
		method   Method
		wantCode string
		wantUpi  string
	}{
		{
			name:     "upi",
			method:   MethodUPI,
			wantCode: "upi://pay?pa=seller0f8fad5b@upi&pn=CarbonCredit&am=12.50&tn=TXN1&cu=INR",
			wantUpi:  "seller0f8fad5b@upi",
		},
		{
			name:     "qr",
			method:   MethodQR,
			wantCode: "PAYMENT|TXN:TXN1|AMT:12.50|CUR:INR",
		},
		{
			name:     "card",
			method:   MethodCard,
			wantCode: "PAYMENT|TXN:TXN1|AMT:12.50|CUR:INR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Present("TXN1", seller, tt.method, 12.5, "")
			if p.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", p.Code, tt.wantCode)
			}
			if p.UpiID != tt.wantUpi {
				t.Errorf("upi id = %q, want %q", p.UpiID, tt.wantUpi)
			}
			if p.Currency != "INR" {
				t.Errorf("currency = %q", p.Currency)
			}
		})
	}
}

func TestSellerHandle_CustomSuffix(t *testing.T) {
	id := uuid.MustParse("12345678-0000-0000-0000-000000000000")
	if got := SellerHandle(id, "@okbank"); got != "seller12345678@okbank" {
		t.Errorf("handle = %q", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusPending, true},
		{StatusCompleted, StatusPending, false},
		{StatusFailed, StatusProcessing, false},
		{StatusCancelled, StatusProcessing, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func newPayment(now time.Time) *Payment {
	return &Payment{
		ID:               uuid.New(),
		TransactionID:    "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]),
		BuyerID:          uuid.New(),
		SellerID:         uuid.New(),
		ListingID:        uuid.New(),
		CreditType:       "solar",
		AmountKgCo2:      10,
		PricePerKg:       6,
		TotalAmount:      60,
		PaymentMethod:    MethodQR,
		Status:           StatusPending,
		PresentationCode: "PAYMENT|TXN:x|AMT:60.00|CUR:INR",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestMemoryRepository_TransitionIsCompareAndSwap(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Now()
	p := newPayment(now)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Transition(context.Background(), p.ID, Transition{From: StatusPending, To: StatusProcessing, At: now})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrStatusChanged) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("winners = %d, want 1", winners)
	}
}

func TestMemoryRepository_TransitionStamps(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := newPayment(now)
	repo.Create(ctx, p)

	later := now.Add(time.Minute)
	if err := repo.Transition(ctx, p.ID, Transition{From: StatusPending, To: StatusProcessing, At: later}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := repo.Transition(ctx, p.ID, Transition{From: StatusProcessing, To: StatusFailed, Reason: "listing sold out", At: later}); err != nil {
		t.Fatalf("fail: %v", err)
	}

	got, _ := repo.GetByID(ctx, p.ID)
	if got.Status != StatusFailed {
		t.Errorf("status = %s", got.Status)
	}
	if got.FailedAt == nil || !got.FailedAt.Equal(later) {
		t.Errorf("failed_at = %v", got.FailedAt)
	}
	if got.FailureReason == nil || *got.FailureReason != "listing sold out" {
		t.Errorf("failure_reason = %v", got.FailureReason)
	}

	err := repo.Transition(ctx, p.ID, Transition{From: StatusFailed, To: StatusProcessing, At: later})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("err = %v, want ErrIllegalTransition", err)
	}
}

func TestMemoryRepository_AttachReferenceRequiresCompleted(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now()
	p := newPayment(now)
	repo.Create(ctx, p)

	if err := repo.AttachReference(ctx, p.ID, p.BuyerID, "UTR123", now); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("pending: err = %v, want ErrNotCompleted", err)
	}

	repo.Transition(ctx, p.ID, Transition{From: StatusPending, To: StatusProcessing, At: now})
	repo.Transition(ctx, p.ID, Transition{From: StatusProcessing, To: StatusCompleted, At: now})

	if err := repo.AttachReference(ctx, p.ID, uuid.New(), "UTR123", now); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("other buyer: err = %v, want ErrNotCompleted", err)
	}
	if err := repo.AttachReference(ctx, p.ID, p.BuyerID, "UTR123", now); err != nil {
		t.Fatalf("attach: %v", err)
	}
	got, _ := repo.GetByID(ctx, p.ID)
	if got.PaymentReference == nil || *got.PaymentReference != "UTR123" {
		t.Errorf("reference = %v", got.PaymentReference)
	}
}

func TestMemoryRepository_ListStale(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	old := newPayment(base)
	fresh := newPayment(base.Add(2 * time.Hour))
	repo.Create(ctx, old)
	repo.Create(ctx, fresh)

	stale, err := repo.ListStale(ctx, StatusPending, base.Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("list stale: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != old.ID {
		t.Fatalf("stale = %+v, want only the old payment", stale)
	}

	counts, _ := repo.CountByStatus(ctx)
	if counts[StatusPending] != 2 || counts[StatusCompleted] != 0 {
		t.Errorf("counts = %v", counts)
	}
}
