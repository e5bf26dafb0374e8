package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
)

func TestReconciler_ResumesInterruptedSettlement(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 50)
	ctx := context.Background()
	l := env.list(t, 50, 6)
	p := env.initiate(t, l.ID, 20)

	env.ledger.failIssue = 1
	if _, err := env.svc.CompletePurchase(ctx, p.ID, env.buyer, ""); err == nil {
		t.Fatal("expected the settlement to be interrupted")
	}
	got, _ := env.payments.GetByID(ctx, p.ID)
	if got.Status != payment.StatusProcessing {
		t.Fatalf("status = %s, want processing", got.Status)
	}

	rec := NewReconciler(env.svc)

	// Not stale yet.
	res, err := rec.RunOnce(ctx)
	if err != nil || res.Resumed != 0 {
		t.Fatalf("early pass = %+v, %v", res, err)
	}

	env.clock.Advance(3 * time.Minute)
	res, err = rec.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Resumed != 1 || res.Completed != 1 {
		t.Fatalf("result = %+v", res)
	}

	got, _ = env.payments.GetByID(ctx, p.ID)
	if got.Status != payment.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	// The seller was debited exactly once across both attempts.
	if b := env.balance(t, env.seller); b != 30 {
		t.Errorf("seller balance = %v, want 30", b)
	}
	if b := env.balance(t, env.buyer); b != 20 {
		t.Errorf("buyer balance = %v, want 20", b)
	}
	after, _ := env.listings.GetByID(ctx, l.ID)
	assertListingBalanced(t, after)
	if after.SoldAmount != 20 {
		t.Errorf("sold = %v, want 20", after.SoldAmount)
	}
}

func TestReconciler_ExpiresAbandonedPending(t *testing.T) {
	env := newTestEnv(t)
	env.grant(t, env.seller, 50)
	ctx := context.Background()
	l := env.list(t, 50, 6)
	p := env.initiate(t, l.ID, 20)

	env.clock.Advance(25 * time.Hour)
	res, err := NewReconciler(env.svc).RunOnce(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Expired != 1 {
		t.Fatalf("result = %+v", res)
	}

	got, _ := env.payments.GetByID(ctx, p.ID)
	if got.Status != payment.StatusCancelled || got.FailureReason == nil || *got.FailureReason != "expired" {
		t.Errorf("payment = %+v", got)
	}
}
