// Package household serves the household profile and its carbon budget status.
package household

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/emission"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/limit"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

// Emissions supplies this year's recorded totals.
type Emissions interface {
	YearToDate(ctx context.Context, ownerID uuid.UUID) (emission.Totals, error)
}

// Credits supplies the active credit balance.
type Credits interface {
	ActiveBalance(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

// Profile is the household part of an account with its derived budget.
type Profile struct {
	AreaSqm       float64           `json:"area_sqm"`
	Occupants     int               `json:"occupants"`
	AnnualLimitKg float64           `json:"annual_limit_kg"`
	Explanation   limit.Explanation `json:"limit_explanation"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// UpdateProfileRequest for PUT /household/profile
type UpdateProfileRequest struct {
	AreaSqm   *float64 `json:"area_sqm" validate:"required,gte=0"`
	Occupants *int     `json:"occupants" validate:"required,gte=0"`
}

// Status is the limit evaluation plus suggestions.
type Status struct {
	limit.Result
	Emissions emission.Totals `json:"emissions"`
	Tips      []string        `json:"tips"`
}

// CreditOptions prices offsetting the current excess with each credit type.
type CreditOptions struct {
	ExcessCo2Kg    float64                `json:"excess_co2_kg"`
	Options        []limit.PurchaseOption `json:"credit_options"`
	Catalog        []limit.CreditOffer    `json:"catalog"`
	Recommendation string                 `json:"recommendation"`
}

type Service struct {
	users     user.Repository
	emissions Emissions
	credits   Credits
	opts      limit.Options
	now       func() time.Time
}

func NewService(users user.Repository, emissions Emissions, credits Credits, opts limit.Options) *Service {
	return &Service{users: users, emissions: emissions, credits: credits, opts: opts, now: time.Now}
}

func (s *Service) Profile(ctx context.Context, ownerID uuid.UUID) (*Profile, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.profileOf(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, ownerID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	u, err := s.users.UpdateHousehold(ctx, ownerID, precision.Round(*req.AreaSqm, precision.Money), *req.Occupants, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.profileOf(u), nil
}

func (s *Service) profileOf(u *user.User) *Profile {
	h := householdOf(u)
	return &Profile{
		AreaSqm:       h.AreaSqm,
		Occupants:     h.Occupants,
		AnnualLimitKg: limit.AnnualLimit(h, s.opts.Factors),
		Explanation:   limit.Explain(h, s.opts.Factors),
		UpdatedAt:     u.UpdatedAt,
	}
}

// AnnualLimit recomputes the budget from the stored profile.
func (s *Service) AnnualLimit(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return limit.AnnualLimit(householdOf(u), s.opts.Factors), nil
}

// Status evaluates this year's emissions net of active credits.
func (s *Service) Status(ctx context.Context, ownerID uuid.UUID) (*Status, error) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	totals, err := s.emissions.YearToDate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	balance, err := s.credits.ActiveBalance(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	res := limit.Evaluate(householdOf(u), totals.TotalCo2Kg, balance, s.opts)
	return &Status{
		Result:    res,
		Emissions: totals,
		Tips:      limit.Tips(res.Status, totals.ElectricityCo2Kg, totals.CombustionCo2Kg),
	}, nil
}

func (s *Service) CreditOptions(ctx context.Context, ownerID uuid.UUID) (*CreditOptions, error) {
	st, err := s.Status(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &CreditOptions{
		ExcessCo2Kg: st.ExcessCo2Kg,
		Options:     limit.PurchaseOptions(st.ExcessCo2Kg, s.opts.Offers),
		Catalog:     s.opts.Offers,
	}
	if out.Options == nil {
		out.Options = []limit.PurchaseOption{}
		out.Recommendation = "You are within your annual limit. No credits are required."
	} else {
		out.Recommendation = "Purchase credits to neutralize your carbon footprint."
	}
	return out, nil
}

func householdOf(u *user.User) limit.Household {
	return limit.Household{AreaSqm: u.AreaSqm, Occupants: u.Occupants}
}
