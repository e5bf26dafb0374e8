// Package admin exposes operator views and manual triggers for background jobs.
package admin

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/marketplace"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/payment"
)

// Payments lists and counts payments across all accounts.
type Payments interface {
	ListRecent(ctx context.Context, limit, offset int) ([]payment.Payment, error)
	CountByStatus(ctx context.Context) (map[payment.Status]int64, error)
}

// Listings counts listings by stored status.
type Listings interface {
	CountByStatus(ctx context.Context) (map[marketplace.ListingStatus]int64, error)
}

// Users counts accounts.
type Users interface {
	Count(ctx context.Context) (int, error)
}

// Companies counts registered external sellers.
type Companies interface {
	Count(ctx context.Context) (int, error)
}

// Sweeper marks lapsed credits expired.
type Sweeper interface {
	ExpireSweep(ctx context.Context) (int64, error)
}

// Reconciler resolves stale settlements.
type Reconciler interface {
	RunOnce(ctx context.Context) (marketplace.ReconcileResult, error)
}

// Stats is the operator dashboard.
type Stats struct {
	Users     int                                 `json:"users"`
	Companies int                                 `json:"companies"`
	Listings  map[marketplace.ListingStatus]int64 `json:"listings"`
	Payments  map[payment.Status]int64            `json:"payments"`
}

// Service handles admin business logic
type Service struct {
	payments   Payments
	listings   Listings
	users      Users
	companies  Companies
	sweeper    Sweeper
	reconciler Reconciler
}

// NewService creates admin service
func NewService(payments Payments, listings Listings, users Users, companies Companies, sweeper Sweeper, reconciler Reconciler) *Service {
	return &Service{
		payments:   payments,
		listings:   listings,
		users:      users,
		companies:  companies,
		sweeper:    sweeper,
		reconciler: reconciler,
	}
}

// Trades lists recent payments in every status, newest first.
func (s *Service) Trades(ctx context.Context, limit, offset int) ([]payment.Payment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.payments.ListRecent(ctx, limit, offset)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.Count(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := &Stats{
		Users:     users,
		Companies: companies,
		Listings:  make(map[marketplace.ListingStatus]int64),
		Payments:  make(map[payment.Status]int64),
	}
	for _, st := range marketplace.ListingStatuses {
		out.Listings[st] = listings[st]
	}
	for _, st := range payment.Statuses {
		out.Payments[st] = payments[st]
	}
	return out, nil
}

// Sweep expires lapsed credits now.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.sweeper.ExpireSweep(ctx)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("count", n).Msg("admin: manual credit sweep")
	return n, nil
}

// Reconcile runs one reconciliation pass now.
func (s *Service) Reconcile(ctx context.Context) (marketplace.ReconcileResult, error) {
	res, err := s.reconciler.RunOnce(ctx)
	if err != nil {
		return res, err
	}
	log.Info().
		Int("resumed", res.Resumed).
		Int("completed", res.Completed).
		Int("failed", res.Failed).
		Int("expired", res.Expired).
		Msg("admin: manual reconcile")
	return res, nil
}
