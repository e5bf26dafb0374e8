package marketplace

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
)

// reconcileBatch bounds how many payments one pass touches per status.
const reconcileBatch = 100

// ReconcileResult counts what one reconciliation pass did.
type ReconcileResult struct {
	Resumed   int `json:"resumed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Expired   int `json:"expired"`
}

// Reconciler drives interrupted settlements to a terminal state and expires
// abandoned pending payments.
type Reconciler struct {
	service *Service
}

// NewReconciler creates a reconciler for service.
func NewReconciler(service *Service) *Reconciler {
	return &Reconciler{service: service}
}

// Start runs RunOnce immediately and then on every tick until ctx is done.
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Marketplace reconciler stopped")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

func (r *Reconciler) run(ctx context.Context) {
	res, err := r.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Marketplace reconciliation failed")
		return
	}
	if res.Resumed > 0 || res.Expired > 0 {
		log.Info().
			Int("resumed", res.Resumed).
			Int("completed", res.Completed).
			Int("failed", res.Failed).
			Int("expired", res.Expired).
			Msg("Marketplace reconciliation finished")
	}
}

// RunOnce performs a single pass.
func (r *Reconciler) RunOnce(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult
	s := r.service
	now := s.now().UTC()

	stuck, err := s.payments.ListStale(ctx, payment.StatusProcessing, now.Add(-s.cfg.StaleAfter), reconcileBatch)
	if err != nil {
		return res, err
	}
	for i := range stuck {
		p := &stuck[i]
		res.Resumed++
		err := s.settle(ctx, p, false)
		if err == nil {
			res.Completed++
			if done, gerr := s.payments.GetByID(ctx, p.ID); gerr == nil {
				s.afterSettlement(ctx, done)
			}
			continue
		}
		if cur, gerr := s.payments.GetByID(ctx, p.ID); gerr == nil && cur.Status == payment.StatusFailed {
			res.Failed++
			continue
		}
		log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("settlement still incomplete")
	}

	abandoned, err := s.payments.ListStale(ctx, payment.StatusPending, now.Add(-s.cfg.PendingTTL), reconcileBatch)
	if err != nil {
		return res, err
	}
	for i := range abandoned {
		if err := s.cancelPending(ctx, &abandoned[i], "expired"); err == nil {
			res.Expired++
		}
	}

	return res, nil
}
