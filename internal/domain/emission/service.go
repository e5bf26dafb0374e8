package emission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/calibration"
)

const (
	defaultSummaryLimit = 30
	maxSummaryLimit     = 366
	maxRecentDays       = 365
	maxClockSkew        = time.Hour
)

// Service ingests readings and answers emission queries.
type Service struct {
	records  Repository
	factors  FactorRepository
	cache    *FactorCache
	profile  calibration.Profile
	defaults FactorSet
	now      func() time.Time
}

func NewService(records Repository, factors FactorRepository, cache *FactorCache, profile calibration.Profile, defaults FactorSet) *Service {
	return &Service{
		records:  records,
		factors:  factors,
		cache:    cache,
		profile:  profile,
		defaults: defaults,
		now:      time.Now,
	}
}

// Ingest calibrates a reading, computes CO2 with the current factors and appends a record.
func (s *Service) Ingest(ctx context.Context, ownerID uuid.UUID, req *IngestRequest) (*IngestResponse, error) {
	source := Source(req.Source)
	switch source {
	case "":
		source = SourceIoT
	case SourceIoT, SourceSimulated:
	default:
		return nil, ErrInvalidSource
	}

	m, err := s.profile.Convert(req.RawReading)
	if err != nil {
		return nil, err
	}

	factors, err := s.CurrentFactors(ctx)
	if err != nil {
		return nil, err
	}

	b, err := TotalCo2(m.ElectricityKwh, m.CombustionPpm, factors)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	recordedAt := now
	if req.RecordedAt != nil && !req.RecordedAt.After(now.Add(maxClockSkew)) {
		recordedAt = req.RecordedAt.UTC()
	}

	rec := &Record{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		RecordedAt:       recordedAt,
		ElectricityKwh:   m.ElectricityKwh,
		ElectricityCo2Kg: b.ElectricityCo2Kg,
		CombustionPpm:    m.CombustionPpm,
		CombustionCo2Kg:  b.CombustionCo2Kg,
		TotalCo2Kg:       b.TotalCo2Kg,
		Source:           source,
	}
	if !factors.IsDefault() {
		rec.FactorSetID = uuid.NullUUID{UUID: factors.ID, Valid: true}
	}

	if err := s.records.Append(ctx, rec); err != nil {
		return nil, err
	}

	log.Debug().
		Str("owner_id", ownerID.String()).
		Float64("total_co2_kg", rec.TotalCo2Kg).
		Str("source", string(source)).
		Msg("emission recorded")

	return &IngestResponse{Record: rec, Measurement: m, FactorLabel: factors.SourceLabel}, nil
}

// CurrentFactors returns the newest active set, falling back to configuration defaults.
func (s *Service) CurrentFactors(ctx context.Context) (FactorSet, error) {
	if f, ok := s.cache.Get(ctx); ok {
		return f, nil
	}

	f, err := s.factors.Current(ctx)
	if err != nil {
		return FactorSet{}, err
	}
	if f == nil {
		return s.defaults, nil
	}

	s.cache.Set(ctx, *f)
	return *f, nil
}

// UpdateFactors publishes a new active set. Older sets stay in history.
func (s *Service) UpdateFactors(ctx context.Context, adminID uuid.UUID, req *UpdateFactorsRequest) (*FactorSet, error) {
	if req.ElectricityKwhFactor < 0 || req.CombustionPpmFactor < 0 {
		return nil, ErrNegativeFactor
	}

	f := &FactorSet{
		ID:                   uuid.New(),
		ElectricityKwhFactor: req.ElectricityKwhFactor,
		CombustionPpmFactor:  req.CombustionPpmFactor,
		SourceLabel:          req.SourceLabel,
		IsActive:             true,
		CreatedBy:            uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil},
		CreatedAt:            s.now().UTC(),
	}
	if err := s.factors.Create(ctx, f); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().
		Str("factor_set_id", f.ID.String()).
		Float64("electricity_kwh_factor", f.ElectricityKwhFactor).
		Float64("combustion_ppm_factor", f.CombustionPpmFactor).
		Msg("emission factors updated")

	return f, nil
}

func (s *Service) FactorHistory(ctx context.Context, limit int) ([]FactorSet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.factors.History(ctx, limit)
}

// Explain describes the calculation with the current factors.
func (s *Service) Explain(ctx context.Context) (Explanation, error) {
	f, err := s.CurrentFactors(ctx)
	if err != nil {
		return Explanation{}, err
	}
	return Explain(f), nil
}

// Summary aggregates records into the most recent limit buckets.
func (s *Service) Summary(ctx context.Context, ownerID uuid.UUID, period Period, limit int) ([]Bucket, error) {
	if _, ok := periodLayouts[period]; !ok {
		return nil, ErrInvalidPeriod
	}
	if limit <= 0 {
		limit = defaultSummaryLimit
	}
	if limit > maxSummaryLimit {
		limit = maxSummaryLimit
	}
	return s.records.Summarize(ctx, ownerID, period, limit)
}

// Total sums emissions since the given time, or since the start of the current year.
func (s *Service) Total(ctx context.Context, ownerID uuid.UUID, since *time.Time) (*TotalResponse, error) {
	from := s.yearStart()
	if since != nil {
		from = since.UTC()
	}
	t, err := s.records.TotalSince(ctx, ownerID, from)
	if err != nil {
		return nil, err
	}
	return &TotalResponse{Since: from, Totals: t}, nil
}

// YearToDate returns this year's totals.
func (s *Service) YearToDate(ctx context.Context, ownerID uuid.UUID) (Totals, error) {
	return s.records.TotalSince(ctx, ownerID, s.yearStart())
}

// Recent lists records of the last days days, newest first.
func (s *Service) Recent(ctx context.Context, ownerID uuid.UUID, days int) ([]Record, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxRecentDays {
		days = maxRecentDays
	}
	return s.records.ListSince(ctx, ownerID, s.now().UTC().AddDate(0, 0, -days))
}

// DailyTotals returns per-day totals over the last days days.
func (s *Service) DailyTotals(ctx context.Context, ownerID uuid.UUID, days int) ([]DailyTotal, error) {
	since := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)
	return s.records.DailyTotals(ctx, ownerID, since)
}

func (s *Service) yearStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}
