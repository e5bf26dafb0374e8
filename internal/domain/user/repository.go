package user

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

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateHousehold(ctx context.Context, id uuid.UUID, areaSqm float64, occupants int, now time.Time) (*User, error)
	Count(ctx context.Context) (int, error)
}

const userColumns = `id, email, password_hash, role, area_sqm, occupants, created_at, updated_at`

// PostgresRepository implements Repository
type PostgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create creates a new user
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :email, :password_hash, :role, :area_sqm, :occupants, :created_at, :updated_at)
	`, user)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}
	return nil
}

// GetByID returns user by ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns user by email
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	if err := r.db.GetContext(ctx2, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user: %v", ErrInternal, err)
	}
	return &u, nil
}

// UpdateHousehold replaces the household profile and returns the updated account.
func (r *PostgresRepository) UpdateHousehold(ctx context.Context, id uuid.UUID, areaSqm float64, occupants int, now time.Time) (*User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx2, &u, `
		UPDATE users SET area_sqm = $2, occupants = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+userColumns, id, areaSqm, occupants, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: update household: %v", ErrInternal, err)
	}
	return &u, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx2, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("%w: count users: %v", ErrInternal, err)
	}
	return n, nil
}
