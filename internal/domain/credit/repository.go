package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/database"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, c *Credit) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Credit, error)
	ActiveBalance(ctx context.Context, ownerID uuid.UUID, now time.Time) (float64, error)
	ListActive(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]Credit, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Credit, error)
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
	Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string, now time.Time) error
}

const creditColumns = `id, owner_id, credit_type, amount_kg_co2, original_amount, price_paid,
	purchase_date, expiry_date, status, transaction_id, source, created_at`

// PostgresRepository is the credit ledger backed by PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *Credit) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES (:id, :owner_id, :credit_type, :amount_kg_co2, :original_amount, :price_paid,
			:purchase_date, :expiry_date, :status, :transaction_id, :source, :created_at)
	`, c)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("%w: insert credit: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) GetByTransactionID(ctx context.Context, transactionID string) (*Credit, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Credit
	err := r.db.GetContext(ctx2, &c, `SELECT `+creditColumns+` FROM credits WHERE transaction_id = $1`, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCreditNotFound
		}
		return nil, fmt.Errorf("%w: get credit: %v", ErrInternal, err)
	}
	return &c, nil
}

func (r *PostgresRepository) ActiveBalance(ctx context.Context, ownerID uuid.UUID, now time.Time) (float64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance float64
	err := r.db.GetContext(ctx2, &balance, `
		SELECT COALESCE(SUM(amount_kg_co2), 0)
		FROM credits
		WHERE owner_id = $1 AND status = 'active' AND expiry_date >= $2
	`, ownerID, now)
	if err != nil {
		return 0, fmt.Errorf("%w: active balance: %v", ErrInternal, err)
	}
	return balance, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]Credit, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	credits := make([]Credit, 0)
	err := r.db.SelectContext(ctx2, &credits, `
		SELECT `+creditColumns+`
		FROM credits
		WHERE owner_id = $1 AND status = 'active' AND expiry_date >= $2
		ORDER BY expiry_date ASC, purchase_date ASC, id ASC
	`, ownerID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: list active credits: %v", ErrInternal, err)
	}
	return credits, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Credit, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	credits := make([]Credit, 0)
	err := r.db.SelectContext(ctx2, &credits, `
		SELECT `+creditColumns+`
		FROM credits
		WHERE owner_id = $1
		ORDER BY purchase_date DESC
		LIMIT 500
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list credits: %v", ErrInternal, err)
	}
	return credits, nil
}

// ExpireBefore marks every active credit past its expiry as expired.
func (r *PostgresRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE credits
		SET status = 'expired'
		WHERE status = 'active' AND expiry_date < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("%w: expire credits: %v", ErrInternal, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected", ErrInternal)
	}
	return rows, nil
}

// Deduct debits amount from the owner's active credits, oldest expiry first.
// The reference row, the row locks and the per-lot conditional decrements
// share one transaction, so either the whole amount is taken or nothing is.
func (r *PostgresRepository) Deduct(ctx context.Context, ownerID uuid.UUID, amount float64, referenceID string, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx2, `
		INSERT INTO credit_deductions (reference_id, owner_id, amount_kg_co2, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reference_id) DO NOTHING
	`, referenceID, ownerID, amount, now)
	if err != nil {
		return fmt.Errorf("%w: insert deduction: %v", ErrInternal, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var prior Deduction
		if err := tx.GetContext(ctx2, &prior, `
			SELECT reference_id, owner_id, amount_kg_co2, created_at
			FROM credit_deductions WHERE reference_id = $1
		`, referenceID); err != nil {
			return fmt.Errorf("%w: load deduction: %v", ErrInternal, err)
		}
		return replayResult(prior, ownerID, amount)
	}

	lots := make([]lot, 0)
	if err := tx.SelectContext(ctx2, &lots, `
		SELECT id, amount_kg_co2
		FROM credits
		WHERE owner_id = $1 AND status = 'active' AND expiry_date >= $2 AND amount_kg_co2 > 0
		ORDER BY expiry_date ASC, purchase_date ASC, id ASC
		FOR UPDATE
	`, ownerID, now); err != nil {
		return fmt.Errorf("%w: lock credits: %v", ErrInternal, err)
	}

	draws, ok := planDeduction(lots, amount)
	if !ok {
		return ErrInsufficientBalance
	}

	for _, d := range draws {
		result, err := tx.ExecContext(ctx2, `
			UPDATE credits
			SET amount_kg_co2 = amount_kg_co2 - $2
			WHERE id = $1 AND status = 'active' AND amount_kg_co2 >= $2
		`, d.ID, d.Amount)
		if err != nil {
			return fmt.Errorf("%w: decrement credit: %v", ErrInternal, err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return ErrInsufficientBalance
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return nil
}

// replayResult decides whether a reused reference is a harmless retry.
func replayResult(prior Deduction, ownerID uuid.UUID, amount float64) error {
	if prior.OwnerID == ownerID && precision.Cmp(prior.AmountKgCo2, amount, precision.Co2Kg) == 0 {
		return nil
	}
	return ErrReferenceConflict
}
