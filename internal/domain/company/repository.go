package company

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

// Repository defines company data access
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*Company, error)
	// List returns companies newest first. An empty status lists all.
	List(ctx context.Context, status Status) ([]Company, error)
	// Transition moves a company from one of the given statuses to next.
	Transition(ctx context.Context, id uuid.UUID, from []Status, next Status, now time.Time) (*Company, error)
	Count(ctx context.Context) (int, error)
}

const companyColumns = `id, name, email, description, contact_person, status, api_key_hash, api_key_prefix,
	credits_sold_total, revenue_total, created_at, approved_at, updated_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *Company) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES (:id, :name, :email, :description, :contact_person, :status, :api_key_hash, :api_key_prefix,
			:credits_sold_total, :revenue_total, :created_at, :approved_at, :updated_at)
	`, c)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("%w: create company: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE api_key_hash = $1`, hash)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*Company, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Company
	if err := r.db.GetContext(ctx2, &c, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("%w: get company: %v", ErrInternal, err)
	}
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context, status Status) ([]Company, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	companies := make([]Company, 0)
	err := r.db.SelectContext(ctx2, &companies, `
		SELECT `+companyColumns+` FROM companies
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("%w: list companies: %v", ErrInternal, err)
	}
	return companies, nil
}

// Transition is a conditional update on the current status. approved_at is
// stamped the first time a company is approved.
func (r *PostgresRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, next Status, now time.Time) (*Company, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	query, args, err := sqlx.In(`
		UPDATE companies
		SET status = ?,
			approved_at = CASE WHEN ? = 'approved' THEN COALESCE(approved_at, ?) ELSE approved_at END,
			updated_at = ?
		WHERE id = ? AND status IN (?)
		RETURNING `+companyColumns, string(next), string(next), now, now, id, allowed)
	if err != nil {
		return nil, fmt.Errorf("%w: build transition: %v", ErrInternal, err)
	}

	var c Company
	if err := r.db.GetContext(ctx2, &c, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("%w: transition company: %v", ErrInternal, err)
	}
	return &c, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx2, &n, `SELECT COUNT(*) FROM companies`); err != nil {
		return 0, fmt.Errorf("%w: count companies: %v", ErrInternal, err)
	}
	return n, nil
}
