package marketplace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/precision"
)

const queryTimeout = 3 * time.Second

// Repository is listing storage. Every mutation is a conditional update.
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	ListActive(ctx context.Context, f Filters, now time.Time) ([]Listing, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Listing, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id, sellerID uuid.UUID, now time.Time) error
	// ReservedBySeller sums what remains on the seller's open listings.
	ReservedBySeller(ctx context.Context, sellerID uuid.UUID, now time.Time) (float64, error)
	// ApplyFill takes f.AmountKgCo2 from the listing once per payment.
	ApplyFill(ctx context.Context, f Fill, now time.Time) (*Listing, error)
	// RevertFill restores the amount taken by a payment, if any.
	RevertFill(ctx context.Context, paymentID uuid.UUID, now time.Time) error
	CountByStatus(ctx context.Context) (map[ListingStatus]int64, error)
}

const listingColumns = `id, seller_id, credit_type, amount_kg_co2, original_amount, sold_amount,
	price_per_kg, total_price, status, views, created_at, updated_at, expires_at, sold_at, cancelled_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, l *Listing) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (:id, :seller_id, :credit_type, :amount_kg_co2, :original_amount, :sold_amount,
			:price_per_kg, :total_price, :status, :views, :created_at, :updated_at, :expires_at, :sold_at, :cancelled_at)
	`, l)
	if err != nil {
		return fmt.Errorf("%w: insert listing: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var l Listing
	if err := r.db.GetContext(ctx2, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("%w: get listing: %v", ErrInternal, err)
	}
	return &l, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, f Filters, now time.Time) ([]Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE status = 'active' AND expires_at > $1 AND amount_kg_co2 > 0
			AND ($2::text = '' OR credit_type = $2::text)
			AND ($3::numeric <= 0 OR price_per_kg <= $3::numeric)
			AND ($4::numeric <= 0 OR amount_kg_co2 >= $4::numeric)
		ORDER BY price_per_kg ASC, created_at ASC
		LIMIT $5 OFFSET $6
	`
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	listings := make([]Listing, 0)
	if err := r.db.SelectContext(ctx2, &listings, query, now, f.CreditType, f.MaxPrice, f.MinAmount, limit, f.Offset); err != nil {
		return nil, fmt.Errorf("%w: list listings: %v", ErrInternal, err)
	}
	return listings, nil
}

func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	listings := make([]Listing, 0)
	err := r.db.SelectContext(ctx2, &listings, `
		SELECT `+listingColumns+` FROM listings WHERE seller_id = $1 ORDER BY created_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list seller listings: %v", ErrInternal, err)
	}
	return listings, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx2, `UPDATE listings SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: increment views: %v", ErrInternal, err)
	}
	return nil
}

func (r *PostgresRepository) Cancel(ctx context.Context, id, sellerID uuid.UUID, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE listings
		SET status = 'cancelled', cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND seller_id = $2 AND status = 'active'
	`, id, sellerID, now)
	if err != nil {
		return fmt.Errorf("%w: cancel listing: %v", ErrInternal, err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		return nil
	}

	var owner uuid.UUID
	err = r.db.GetContext(ctx2, &owner, `SELECT seller_id FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != sellerID) {
		return ErrListingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: check listing: %v", ErrInternal, err)
	}
	return ErrListingNotActive
}

func (r *PostgresRepository) ReservedBySeller(ctx context.Context, sellerID uuid.UUID, now time.Time) (float64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var reserved float64
	err := r.db.GetContext(ctx2, &reserved, `
		SELECT COALESCE(SUM(amount_kg_co2), 0)
		FROM listings
		WHERE seller_id = $1 AND status = 'active' AND expires_at > $2
	`, sellerID, now)
	if err != nil {
		return 0, fmt.Errorf("%w: reserved amount: %v", ErrInternal, err)
	}
	return precision.Round(reserved, precision.Co2Kg), nil
}

// ApplyFill writes the fill row and the conditional decrement in one
// transaction. A replay for the same payment returns the listing unchanged.
func (r *PostgresRepository) ApplyFill(ctx context.Context, f Fill, now time.Time) (*Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx2, `
		INSERT INTO listing_fills (payment_id, listing_id, amount_kg_co2, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (payment_id) DO NOTHING
	`, f.PaymentID, f.ListingID, f.AmountKgCo2, now)
	if err != nil {
		return nil, fmt.Errorf("%w: insert fill: %v", ErrInternal, err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		var prior Fill
		if err := tx.GetContext(ctx2, &prior, `
			SELECT payment_id, listing_id, amount_kg_co2, created_at FROM listing_fills WHERE payment_id = $1
		`, f.PaymentID); err != nil {
			return nil, fmt.Errorf("%w: load fill: %v", ErrInternal, err)
		}
		if !sameFill(prior, f) {
			return nil, ErrFillConflict
		}
		var l Listing
		if err := tx.GetContext(ctx2, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, f.ListingID); err != nil {
			return nil, fmt.Errorf("%w: get listing: %v", ErrInternal, err)
		}
		return &l, nil
	}

	var l Listing
	err = tx.GetContext(ctx2, &l, `
		UPDATE listings
		SET amount_kg_co2 = amount_kg_co2 - $2,
			sold_amount = sold_amount + $2,
			total_price = ROUND((amount_kg_co2 - $2) * price_per_kg, 2),
			status = CASE WHEN amount_kg_co2 - $2 = 0 THEN 'sold' ELSE status END,
			sold_at = CASE WHEN amount_kg_co2 - $2 = 0 THEN $3 ELSE sold_at END,
			updated_at = $3
		WHERE id = $1 AND status = 'active' AND amount_kg_co2 >= $2
		RETURNING `+listingColumns, f.ListingID, f.AmountKgCo2, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.fillRejection(ctx2, tx, f)
		}
		return nil, fmt.Errorf("%w: decrement listing: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return &l, nil
}

// fillRejection explains why the conditional decrement matched no row.
func (r *PostgresRepository) fillRejection(ctx context.Context, tx *sqlx.Tx, f Fill) error {
	var l Listing
	if err := tx.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, f.ListingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListingNotFound
		}
		return fmt.Errorf("%w: get listing: %v", ErrInternal, err)
	}
	if l.Status != ListingActive {
		return ErrListingNotActive
	}
	return ErrExceedsRemaining
}

func (r *PostgresRepository) RevertFill(ctx context.Context, paymentID uuid.UUID, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var f Fill
	err = tx.GetContext(ctx2, &f, `
		DELETE FROM listing_fills WHERE payment_id = $1
		RETURNING payment_id, listing_id, amount_kg_co2, created_at
	`, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: delete fill: %v", ErrInternal, err)
	}

	_, err = tx.ExecContext(ctx2, `
		UPDATE listings
		SET amount_kg_co2 = amount_kg_co2 + $2,
			sold_amount = sold_amount - $2,
			total_price = ROUND((amount_kg_co2 + $2) * price_per_kg, 2),
			status = CASE WHEN status = 'sold' THEN 'active' ELSE status END,
			sold_at = CASE WHEN status = 'sold' THEN NULL ELSE sold_at END,
			updated_at = $3
		WHERE id = $1
	`, f.ListingID, f.AmountKgCo2, now)
	if err != nil {
		return fmt.Errorf("%w: restore listing: %v", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) (map[ListingStatus]int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []struct {
		Status ListingStatus `db:"status"`
		Count  int64         `db:"count"`
	}
	if err := r.db.SelectContext(ctx2, &rows, `SELECT status, COUNT(*) AS count FROM listings GROUP BY status`); err != nil {
		return nil, fmt.Errorf("%w: count listings: %v", ErrInternal, err)
	}

	counts := make(map[ListingStatus]int64, len(ListingStatuses))
	for _, s := range ListingStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func sameFill(a, b Fill) bool {
	return a.ListingID == b.ListingID && precision.Cmp(a.AmountKgCo2, b.AmountKgCo2, precision.Co2Kg) == 0
}
