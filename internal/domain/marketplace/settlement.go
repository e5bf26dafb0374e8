package marketplace

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/apperr"
)

// CompletePurchase settles a pending payment. The pending -> processing
// claim admits one settlement; every later step is idempotent so the
// reconciler can resume a claim that was interrupted.
func (s *Service) CompletePurchase(ctx context.Context, paymentID, buyerID uuid.UUID, reference string) (*CompleteResponse, error) {
	p, err := s.buyerPayment(ctx, paymentID, buyerID)
	if err != nil {
		return nil, err
	}
	if p.Status != payment.StatusPending {
		return nil, payment.ErrNotPending
	}

	err = s.payments.Transition(ctx, p.ID, payment.Transition{
		From: payment.StatusPending,
		To:   payment.StatusProcessing,
		At:   s.now().UTC(),
	})
	if err != nil {
		if isStatusChanged(err) {
			return nil, payment.ErrNotPending
		}
		return nil, err
	}
	log.Info().Str("payment_id", p.ID.String()).Msg("settlement claimed")

	if err := s.settle(ctx, p, true); err != nil {
		return nil, err
	}

	if reference != "" {
		if err := s.payments.AttachReference(ctx, p.ID, buyerID, reference, s.now().UTC()); err != nil {
			log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to store payment reference")
		}
	}

	done, err := s.payments.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterSettlement(ctx, done)

	return &CompleteResponse{
		Payment:         done,
		CreditsReceived: done.AmountKgCo2,
		Message:         "Purchase completed successfully",
	}, nil
}

// settle runs the fill, debit, issue and completion steps for a payment in
// processing. When firstAttempt is set, a store failure at the fill step
// returns the payment to pending; otherwise it stays in processing.
func (s *Service) settle(ctx context.Context, p *payment.Payment, firstAttempt bool) error {
	plog := log.With().Str("payment_id", p.ID.String()).Str("transaction_id", p.TransactionID).Logger()

	listing, err := s.listings.ApplyFill(ctx, Fill{
		PaymentID:   p.ID,
		ListingID:   p.ListingID,
		AmountKgCo2: p.AmountKgCo2,
	}, s.now().UTC())
	if err != nil {
		if apperr.IsKind(err, apperr.KindInternal) {
			if firstAttempt {
				s.revertClaim(ctx, p)
			}
			return err
		}
		s.fail(ctx, p, "listing unavailable: "+err.Error())
		if errors.Is(err, ErrListingNotFound) {
			return ErrListingNotActive
		}
		return err
	}
	if listing.Status == ListingSold {
		s.feed.Publish(ctx, EventListingSold, listing)
	}

	if err := s.ledger.Deduct(ctx, p.SellerID, p.AmountKgCo2, p.ID.String()); err != nil {
		if !apperr.IsKind(err, apperr.KindConflict) {
			plog.Error().Err(err).Msg("seller debit failed; left for reconciliation")
			return err
		}
		if rerr := s.listings.RevertFill(ctx, p.ID, s.now().UTC()); rerr != nil {
			plog.Error().Err(rerr).Msg("failed to restore listing; left for reconciliation")
			return rerr
		}
		s.fail(ctx, p, "seller balance insufficient")
		return ErrSellerInsufficient
	}

	if err := s.ledger.IssueFromTrade(ctx, p.BuyerID, p.CreditType, p.AmountKgCo2, p.TransactionID, p.TotalAmount); err != nil {
		plog.Error().Err(err).Msg("buyer credit issue failed; left for reconciliation")
		return err
	}

	err = s.payments.Transition(ctx, p.ID, payment.Transition{
		From: payment.StatusProcessing,
		To:   payment.StatusCompleted,
		At:   s.now().UTC(),
	})
	if err != nil {
		if isStatusChanged(err) {
			if cur, gerr := s.payments.GetByID(ctx, p.ID); gerr == nil && cur.Status == payment.StatusCompleted {
				return nil
			}
		}
		plog.Error().Err(err).Msg("failed to mark payment completed")
		return err
	}

	plog.Info().
		Str("buyer_id", p.BuyerID.String()).
		Str("seller_id", p.SellerID.String()).
		Float64("amount_kg_co2", p.AmountKgCo2).
		Msg("settlement completed")
	return nil
}

func (s *Service) fail(ctx context.Context, p *payment.Payment, reason string) {
	err := s.payments.Transition(ctx, p.ID, payment.Transition{
		From:   payment.StatusProcessing,
		To:     payment.StatusFailed,
		Reason: reason,
		At:     s.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("failed to mark payment failed")
		return
	}
	log.Warn().Str("payment_id", p.ID.String()).Str("reason", reason).Msg("settlement failed")
}

func (s *Service) revertClaim(ctx context.Context, p *payment.Payment) {
	err := s.payments.Transition(ctx, p.ID, payment.Transition{
		From: payment.StatusProcessing,
		To:   payment.StatusPending,
		At:   s.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("payment_id", p.ID.String()).Msg("failed to release settlement claim")
	}
}

// afterSettlement publishes the trade and archives its receipt. Both are best effort.
func (s *Service) afterSettlement(ctx context.Context, p *payment.Payment) {
	s.feed.Publish(ctx, EventTradeCompleted, map[string]interface{}{
		"transaction_id": p.TransactionID,
		"listing_id":     p.ListingID,
		"credit_type":    p.CreditType,
		"amount_kg_co2":  p.AmountKgCo2,
		"price_per_kg":   p.PricePerKg,
	})
	if err := s.archiveReceipt(ctx, p); err != nil {
		log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("failed to archive receipt")
	}
}

func isStatusChanged(err error) bool {
	return errors.Is(err, payment.ErrStatusChanged)
}
