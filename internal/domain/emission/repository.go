package emission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository stores emission records.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	TotalSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (Totals, error)
	Summarize(ctx context.Context, ownerID uuid.UUID, period Period, limit int) ([]Bucket, error)
	ListSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]Record, error)
	DailyTotals(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]DailyTotal, error)
}

// FactorRepository stores versioned factor sets.
type FactorRepository interface {
	Current(ctx context.Context) (*FactorSet, error)
	Create(ctx context.Context, f *FactorSet) error
	History(ctx context.Context, limit int) ([]FactorSet, error)
}

// periodFormats maps a period to its to_char pattern.
var periodFormats = map[Period]string{
	PeriodDaily:   "YYYY-MM-DD",
	PeriodMonthly: "YYYY-MM",
	PeriodYearly:  "YYYY",
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, rec *Record) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO emissions (
			id, owner_id, recorded_at, electricity_kwh, electricity_co2_kg,
			combustion_ppm, combustion_co2_kg, total_co2_kg, source, factor_set_id
		) VALUES (
			:id, :owner_id, :recorded_at, :electricity_kwh, :electricity_co2_kg,
			:combustion_ppm, :combustion_co2_kg, :total_co2_kg, :source, :factor_set_id
		)`, rec)
	if err != nil {
		return fmt.Errorf("%w: insert emission: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) TotalSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (Totals, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var t Totals
	err := r.db.GetContext(ctx, &t, `
		SELECT COALESCE(SUM(total_co2_kg), 0)       AS total_co2_kg,
		       COALESCE(SUM(electricity_co2_kg), 0) AS electricity_co2_kg,
		       COALESCE(SUM(combustion_co2_kg), 0)  AS combustion_co2_kg,
		       COALESCE(SUM(electricity_kwh), 0)    AS electricity_kwh,
		       COUNT(*)                             AS record_count
		FROM emissions
		WHERE owner_id = $1 AND recorded_at >= $2
	`, ownerID, since)
	if err != nil {
		return Totals{}, fmt.Errorf("%w: total emissions: %v", ErrInternal, err)
	}
	return t, nil
}

func (r *PostgresRepository) Summarize(ctx context.Context, ownerID uuid.UUID, period Period, limit int) ([]Bucket, error) {
	format, ok := periodFormats[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Most recent buckets first, then reversed into chronological order.
	query := fmt.Sprintf(`
		SELECT period, total_co2_kg, electricity_co2_kg, combustion_co2_kg, electricity_kwh, record_count
		FROM (
			SELECT to_char(recorded_at AT TIME ZONE 'UTC', '%s') AS period,
			       SUM(total_co2_kg)       AS total_co2_kg,
			       SUM(electricity_co2_kg) AS electricity_co2_kg,
			       SUM(combustion_co2_kg)  AS combustion_co2_kg,
			       SUM(electricity_kwh)    AS electricity_kwh,
			       COUNT(*)                AS record_count
			FROM emissions
			WHERE owner_id = $1
			GROUP BY 1
			ORDER BY 1 DESC
			LIMIT $2
		) recent
		ORDER BY period ASC`, format)

	buckets := make([]Bucket, 0)
	if err := r.db.SelectContext(ctx, &buckets, query, ownerID, limit); err != nil {
		return nil, fmt.Errorf("%w: summarize emissions: %v", ErrInternal, err)
	}
	return buckets, nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	records := make([]Record, 0)
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, owner_id, recorded_at, electricity_kwh, electricity_co2_kg,
		       combustion_ppm, combustion_co2_kg, total_co2_kg, source, factor_set_id
		FROM emissions
		WHERE owner_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at DESC
		LIMIT 1000
	`, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: list emissions: %v", ErrInternal, err)
	}
	return records, nil
}

func (r *PostgresRepository) DailyTotals(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]DailyTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	days := make([]DailyTotal, 0)
	err := r.db.SelectContext(ctx, &days, `
		SELECT date_trunc('day', recorded_at AT TIME ZONE 'UTC') AS day,
		       SUM(total_co2_kg)                                AS total_co2_kg
		FROM emissions
		WHERE owner_id = $1 AND recorded_at >= $2
		GROUP BY 1
		ORDER BY 1 ASC
	`, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: daily totals: %v", ErrInternal, err)
	}
	return days, nil
}

type PostgresFactorRepository struct {
	db *sqlx.DB
}

func NewFactorRepository(db *sqlx.DB) *PostgresFactorRepository {
	return &PostgresFactorRepository{db: db}
}

// Current returns the most recently created active set, or nil when none exists.
func (r *PostgresFactorRepository) Current(ctx context.Context) (*FactorSet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var f FactorSet
	err := r.db.GetContext(ctx, &f, `
		SELECT id, electricity_kwh_factor, combustion_ppm_factor, source_label, is_active, created_by, created_at
		FROM emission_factor_sets
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: current factors: %v", ErrInternal, err)
	}
	return &f, nil
}

func (r *PostgresFactorRepository) Create(ctx context.Context, f *FactorSet) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO emission_factor_sets (
			id, electricity_kwh_factor, combustion_ppm_factor, source_label, is_active, created_by, created_at
		) VALUES (
			:id, :electricity_kwh_factor, :combustion_ppm_factor, :source_label, :is_active, :created_by, :created_at
		)`, f)
	if err != nil {
		return fmt.Errorf("%w: insert factor set: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresFactorRepository) History(ctx context.Context, limit int) ([]FactorSet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sets := make([]FactorSet, 0)
	err := r.db.SelectContext(ctx, &sets, `
		SELECT id, electricity_kwh_factor, combustion_ppm_factor, source_label, is_active, created_by, created_at
		FROM emission_factor_sets
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: factor history: %v", ErrInternal, err)
	}
	return sets, nil
}
