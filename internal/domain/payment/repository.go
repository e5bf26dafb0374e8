package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
)

const queryTimeout = 3 * time.Second

// Repository defines payment data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// Transition moves a payment from t.From to t.To only if it is still in t.From.
	Transition(ctx context.Context, id uuid.UUID, t Transition) error
	AttachReference(ctx context.Context, id, buyerID uuid.UUID, reference string, now time.Time) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Payment, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Payment, error)
	// ListStale returns payments in status whose last update is before cutoff, oldest first.
	ListStale(ctx context.Context, status Status, cutoff time.Time, limit int) ([]Payment, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Payment, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

const paymentColumns = `id, transaction_id, buyer_id, seller_id, listing_id, credit_type,
	amount_kg_co2, price_per_kg, total_amount, payment_method, status, upi_id,
	presentation_code, payment_reference, failure_reason, created_at, updated_at,
	completed_at, failed_at, cancelled_at`

type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *Payment) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (:id, :transaction_id, :buyer_id, :seller_id, :listing_id, :credit_type,
			:amount_kg_co2, :price_per_kg, :total_amount, :payment_method, :status, :upi_id,
			:presentation_code, :payment_reference, :failure_reason, :created_at, :updated_at,
			:completed_at, :failed_at, :cancelled_at)
	`, p)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("%w: insert payment: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Payment
	err := r.db.GetContext(ctx2, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("%w: get payment: %v", ErrInternal, err)
	}
	return &p, nil
}

func (r *PostgresRepository) Transition(ctx context.Context, id uuid.UUID, t Transition) error {
	if !CanTransition(t.From, t.To) {
		return ErrIllegalTransition
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var stamp string
	switch t.To {
	case StatusCompleted:
		stamp = ", completed_at = $4"
	case StatusFailed:
		stamp = ", failed_at = $4"
	case StatusCancelled:
		stamp = ", cancelled_at = $4"
	}

	query := `
		UPDATE payments
		SET status = $3, updated_at = $4,
			failure_reason = COALESCE(NULLIF($5, ''), failure_reason)` + stamp + `
		WHERE id = $1 AND status = $2
	`
	result, err := r.db.ExecContext(ctx2, query, id, t.From, t.To, t.At, t.Reason)
	if err != nil {
		return fmt.Errorf("%w: transition payment: %v", ErrInternal, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *PostgresRepository) AttachReference(ctx context.Context, id, buyerID uuid.UUID, reference string, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE payments
		SET payment_reference = $3, updated_at = $4
		WHERE id = $1 AND buyer_id = $2 AND status = 'completed'
	`, id, buyerID, reference, now)
	if err != nil {
		return fmt.Errorf("%w: attach reference: %v", ErrInternal, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotCompleted
	}
	return nil
}

func (r *PostgresRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
}

func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
}

func (r *PostgresRepository) ListStale(ctx context.Context, status Status, cutoff time.Time, limit int) ([]Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`, status, cutoff, limit)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit, offset int) ([]Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]Payment, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	payments := make([]Payment, 0)
	if err := r.db.SelectContext(ctx2, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", ErrInternal, err)
	}
	return payments, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []struct {
		Status Status `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx2, &rows, `SELECT status, COUNT(*) AS count FROM payments GROUP BY status`); err != nil {
		return nil, fmt.Errorf("%w: count payments: %v", ErrInternal, err)
	}

	counts := make(map[Status]int64, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
