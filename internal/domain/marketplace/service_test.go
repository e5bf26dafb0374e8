package marketplace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/storage"
)

func TestCreateListing_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 100)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateListingRequest
		want error
	}{
		{"zero amount", CreateListingRequest{CreditType: "solar", AmountKgCo2: 0, PricePerKg: 6}, ErrInvalidAmount},
		{"negative price", CreateListingRequest{CreditType: "solar", AmountKgCo2: 5, PricePerKg: -1}, ErrInvalidPrice},
		{"below minimum", CreateListingRequest{CreditType: "solar", AmountKgCo2: 5, PricePerKg: 4.99}, ErrPriceTooLow},
		{"more than held", CreateListingRequest{CreditType: "solar", AmountKgCo2: 100.5, PricePerKg: 6}, ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateListing(ctx, env.seller, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	mine, _ := env.svc.MyListings(ctx, env.seller)
	if len(mine) != 0 {
		t.Fatalf("rejected requests created %d listings", len(mine))
	}
}

func TestCreateListing_WithoutCreditsLeavesLedgerUnchanged(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateListing(context.Background(), env.seller, &CreateListingRequest{CreditType: "wind", AmountKgCo2: 10, PricePerKg: 8})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if b := env.balance(t, env.seller); b != 0 {
		t.Errorf("balance = %v, want 0", b)
	}
}

func TestCreateListing_ReservesOpenListings(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 100)
	ctx := context.Background()

	first := env.list(t, 70, 6)
	if first.ExpiresAt.Sub(first.CreatedAt) != 30*24*time.Hour {
		t.Errorf("listing ttl = %v", first.ExpiresAt.Sub(first.CreatedAt))
	}

	_, err := env.svc.CreateListing(ctx, env.seller, &CreateListingRequest{CreditType: "solar", AmountKgCo2: 40, PricePerKg: 6})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	if err := env.svc.Cancel(ctx, first.ID, env.seller); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	env.list(t, 40, 6)

	if !env.feed.has(EventListingCreated) || !env.feed.has(EventListingCancelled) {
		t.Errorf("events = %v", env.feed.events)
	}
}

func TestBrowse_FiltersAndSorts(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 100)
	ctx := context.Background()

	env.list(t, 10, 9)
	cheap := env.list(t, 20, 5.5)
	env.list(t, 5, 7)
	cancelled := env.list(t, 5, 5)
	env.svc.Cancel(ctx, cancelled.ID, env.seller)

	all, err := env.svc.Browse(ctx, Filters{})
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(all) != 3 || all[0].ID != cheap.ID || all[2].PricePerKg != 9 {
		t.Fatalf("browse order = %+v", all)
	}

	filtered, _ := env.svc.Browse(ctx, Filters{MaxPrice: 8, MinAmount: 6})
	if len(filtered) != 1 || filtered[0].ID != cheap.ID {
		t.Fatalf("filtered = %+v", filtered)
	}

	none, _ := env.svc.Browse(ctx, Filters{CreditType: "wind"})
	if len(none) != 0 {
		t.Fatalf("wind listings = %d", len(none))
	}

	env.clock.Advance(31 * 24 * time.Hour)
	expired, _ := env.svc.Browse(ctx, Filters{})
	if len(expired) != 0 {
		t.Fatalf("expired listings still browsable: %d", len(expired))
	}
}

func TestDetail_MasksSellerAndCountsViews(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 10)
	l := env.list(t, 10, 6)

	env.svc.Detail(context.Background(), l.ID)
	d, err := env.svc.Detail(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if d.SellerEmail != "ali***@example.com" {
		t.Errorf("seller email = %q", d.SellerEmail)
	}
	if d.Views != 2 {
		t.Errorf("views = %d, want 2", d.Views)
	}

	if _, err := env.svc.Detail(context.Background(), uuid.New()); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("missing listing: err = %v", err)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "ali***@example.com",
		"al@x.io":           "al***@x.io",
		"broken":            "***",
	}
	for in, want := range tests {
		if got := MaskEmail(in); got != want {
			t.Errorf("MaskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitiatePurchase_Rules(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 50)
	ctx := context.Background()
	l := env.list(t, 50, 6)

	if _, err := env.svc.InitiatePurchase(ctx, env.seller, l.ID, &BuyRequest{AmountKgCo2: 5, PaymentMethod: "upi"}); !errors.Is(err, ErrSelfTrade) {
		t.Errorf("self trade: err = %v", err)
	}
	if _, err := env.svc.InitiatePurchase(ctx, env.buyer, l.ID, &BuyRequest{AmountKgCo2: 51, PaymentMethod: "upi"}); !errors.Is(err, ErrExceedsRemaining) {
		t.Errorf("exceeds: err = %v", err)
	}
	if _, err := env.svc.InitiatePurchase(ctx, env.buyer, uuid.New(), &BuyRequest{AmountKgCo2: 1, PaymentMethod: "upi"}); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	resp, err := env.svc.InitiatePurchase(ctx, env.buyer, l.ID, &BuyRequest{AmountKgCo2: 12.5, PaymentMethod: "upi"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	p := resp.Payment
	if p.Status != payment.StatusPending || p.TotalAmount != 75 {
		t.Errorf("payment = %+v", p)
	}
	if !strings.HasPrefix(p.TransactionID, "TXN") || len(p.TransactionID) != 19 {
		t.Errorf("transaction id = %q", p.TransactionID)
	}
	if !strings.HasPrefix(resp.Presentation.Code, "upi://pay?pa=seller") || p.UpiID == nil {
		t.Errorf("presentation = %+v", resp.Presentation)
	}

	// Initiation mutates neither the listing nor the ledger.
	after, _ := env.listings.GetByID(ctx, l.ID)
	if after.AmountKgCo2 != 50 {
		t.Errorf("listing amount = %v, want 50", after.AmountKgCo2)
	}
	if b := env.balance(t, env.seller); b != 50 {
		t.Errorf("seller balance = %v, want 50", b)
	}

	env.svc.Cancel(ctx, l.ID, env.seller)
	if _, err := env.svc.InitiatePurchase(ctx, env.buyer, l.ID, &BuyRequest{AmountKgCo2: 1, PaymentMethod: "qr"}); !errors.Is(err, ErrListingNotActive) {
		t.Errorf("cancelled listing: err = %v", err)
	}
}

func TestCompletePurchase_Settles(t *testing.T) {
	env := newTestEnv(t)
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	env.svc.SetReceiptStore(store)
	env.grant(t, env.seller, 100)
	ctx := context.Background()

	l := env.list(t, 100, 6)
	p := env.initiate(t, l.ID, 40)

	resp, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, "UTR-991")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Payment.Status != payment.StatusCompleted || resp.Payment.CompletedAt == nil {
		t.Fatalf("payment = %+v", resp.Payment)
	}
	if resp.Payment.PaymentReference == nil || *resp.Payment.PaymentReference != "UTR-991" {
		t.Errorf("reference = %v", resp.Payment.PaymentReference)
	}
	if resp.CreditsReceived != 40 {
		t.Errorf("credits received = %v", resp.CreditsReceived)
	}

	after, _ := env.listings.GetByID(ctx, l.ID)
	assertListingBalanced(t, after)
	if after.AmountKgCo2 != 60 || after.Status != ListingActive {
		t.Errorf("listing = %+v", after)
	}
	if after.TotalPrice != 360 {
		t.Errorf("total price = %v, want 360", after.TotalPrice)
	}
	if b := env.balance(t, env.seller); b != 60 {
		t.Errorf("seller balance = %v, want 60", b)
	}
	if b := env.balance(t, env.buyer); b != 40 {
		t.Errorf("buyer balance = %v, want 40", b)
	}
	if !env.feed.has(EventTradeCompleted) {
		t.Errorf("trade_completed not published: %v", env.feed.events)
	}

	key := ReceiptKey(p.TransactionID, resp.Payment.CompletedAt.UTC())
	if ok, _ := store.Exists(ctx, key); !ok {
		t.Fatalf("receipt %s not archived", key)
	}
	rec, err := env.svc.Receipt(ctx, p.ID, env.seller)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if rec.TransactionID != p.TransactionID || rec.PaymentReference != "UTR-991" {
		t.Errorf("receipt = %+v", rec)
	}

	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); !errors.Is(err, payment.ErrNotPending) {
		t.Errorf("second complete: err = %v", err)
	}
}

func TestCompletePurchase_SellsOutListing(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 30)
	l := env.list(t, 30, 6)
	p := env.initiate(t, l.ID, 30)

	if _, err := env.svc.CompletePurchase(context.Background(), p.ID, env.buyer, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	after, _ := env.listings.GetByID(context.Background(), l.ID)
	if after.Status != ListingSold || after.SoldAt == nil || after.AmountKgCo2 != 0 {
		t.Fatalf("listing = %+v", after)
	}
	assertListingBalanced(t, after)
	if !env.feed.has(EventListingSold) {
		t.Errorf("listing_sold not published")
	}
}

func TestCompletePurchase_OtherBuyerSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 10)
	l := env.list(t, 10, 6)
	p := env.initiate(t, l.ID, 5)

	if _, err := env.svc.CompletePurchase(context.Background(), p.ID, uuid.New(), ""); !errors.Is(err, payment.ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestCompletePurchase_ConcurrentCompletesOnePayment(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 100)
	l := env.list(t, 100, 6)
	p := env.initiate(t, l.ID, 25)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.CompletePurchase(context.Background(), p.ID, env.buyer, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, payment.ErrNotPending):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != 1 {
		t.Fatalf("successes = %d, conflicts = %d", successes, conflicts)
	}
	if b := env.balance(t, env.buyer); b != 25 {
		t.Errorf("buyer balance = %v, want 25", b)
	}
	if b := env.balance(t, env.seller); b != 75 {
		t.Errorf("seller balance = %v, want 75", b)
	}
}

func TestCompletePurchase_TwoFillsExceedingListing(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 100)
	l := env.list(t, 100, 6)
	first := env.initiate(t, l.ID, 60)
	second := env.initiate(t, l.ID, 60)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, p := range []*payment.Payment{first, second} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = env.svc.CompletePurchase(context.Background(), id, env.buyer, "")
		}(i, p.ID)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrExceedsRemaining) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful settlements = %d, want 1", ok)
	}

	after, _ := env.listings.GetByID(context.Background(), l.ID)
	assertListingBalanced(t, after)
	if after.SoldAmount != 60 || after.AmountKgCo2 != 40 {
		t.Errorf("listing = %+v", after)
	}
	if b := env.balance(t, env.seller); b != 40 {
		t.Errorf("seller balance = %v, want 40", b)
	}

	counts, _ := env.payments.CountByStatus(context.Background())
	if counts[payment.StatusCompleted] != 1 || counts[payment.StatusFailed] != 1 {
		t.Errorf("payment counts = %v", counts)
	}
}

func TestCompletePurchase_SellerNoLongerHoldsCredits(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 50)
	ctx := context.Background()
	l := env.list(t, 50, 6)
	p := env.initiate(t, l.ID, 30)

	// The seller's credits are used elsewhere after listing.
	if err := env.credits.Deduct(ctx, env.seller, 45, "offset-2025"); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	_, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, "")
	if !errors.Is(err, ErrSellerInsufficient) {
		t.Fatalf("err = %v, want ErrSellerInsufficient", err)
	}

	got, _ := env.payments.GetByID(ctx, p.ID)
	if got.Status != payment.StatusFailed || got.FailureReason == nil {
		t.Errorf("payment = %+v", got)
	}
	after, _ := env.listings.GetByID(ctx, l.ID)
	if after.AmountKgCo2 != 50 || after.SoldAmount != 0 {
		t.Errorf("listing not restored: %+v", after)
	}
	if b := env.balance(t, env.buyer); b != 0 {
		t.Errorf("buyer balance = %v, want 0", b)
	}
	if b := env.balance(t, env.seller); b != 5 {
		t.Errorf("seller balance = %v, want 5", b)
	}
}

func TestCompletePurchase_StoreFailureBeforeFillRevertsToPending(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 20)
	ctx := context.Background()
	l := env.list(t, 20, 6)
	p := env.initiate(t, l.ID, 10)

	env.listings.failFill = 1
	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); err == nil {
		t.Fatal("expected an error")
	}
	got, _ := env.payments.GetByID(ctx, p.ID)
	if got.Status != payment.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}

	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestCancelPayment(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 20)
	ctx := context.Background()
	l := env.list(t, 20, 6)
	p := env.initiate(t, l.ID, 10)

	got, err := env.svc.CancelPayment(ctx, p.ID, env.buyer)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != payment.StatusCancelled || got.CancelledAt == nil {
		t.Errorf("payment = %+v", got)
	}
	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); !errors.Is(err, payment.ErrNotPending) {
		t.Errorf("complete after cancel: err = %v", err)
	}
	if _, err := env.svc.CancelPayment(ctx, p.ID, env.buyer); !errors.Is(err, payment.ErrNotPending) {
		t.Errorf("second cancel: err = %v", err)
	}
}

func TestAttachReference_OnlyWhenCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 20)
	ctx := context.Background()
	l := env.list(t, 20, 6)
	p := env.initiate(t, l.ID, 10)

	if _, err := env.svc.AttachReference(ctx, p.ID, env.buyer, "late-note"); !errors.Is(err, payment.ErrNotCompleted) {
		t.Fatalf("pending: err = %v", err)
	}
	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := env.svc.AttachReference(ctx, p.ID, env.buyer, "late-note")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got.PaymentReference == nil || *got.PaymentReference != "late-note" {
		t.Errorf("reference = %v", got.PaymentReference)
	}
}

func TestMyTrades(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 20)
	ctx := context.Background()
	l := env.list(t, 20, 6)
	p := env.initiate(t, l.ID, 10)
	env.svc.CompletePurchase(ctx, p.ID, env.buyer, "")

	sellerTrades, err := env.svc.MyTrades(ctx, env.seller)
	if err != nil {
		t.Fatalf("my trades: %v", err)
	}
	if len(sellerTrades.Listings) != 1 || len(sellerTrades.Sales) != 1 || len(sellerTrades.Purchases) != 0 {
		t.Errorf("seller trades = %+v", sellerTrades)
	}

	buyerTrades, _ := env.svc.MyTrades(ctx, env.buyer)
	if len(buyerTrades.Purchases) != 1 || len(buyerTrades.Sales) != 0 {
		t.Errorf("buyer trades = %+v", buyerTrades)
	}
}
