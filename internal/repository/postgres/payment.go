package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

const paymentColumns = `id, booking_reference, transaction_id, amount_cents, currency, email, status, created_at, updated_at`

// PaymentRepository is a PostgreSQL implementation of
// repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_reference, transaction_id, amount_cents, currency, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.ID,
		payment.BookingReference,
		payment.TransactionID,
		payment.AmountCents,
		payment.Currency,
		payment.Email,
		payment.Status,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return repository.ErrDuplicateTransaction
		}
		return err
	}

	return nil
}

// GetByTransactionID retrieves a payment by its transaction id.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, txID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByBookingReference retrieves all payment attempts for a booking,
// newest first.
func (r *PaymentRepository) GetByBookingReference(ctx context.Context, ref string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_reference = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// UpdateStatus applies a status transition as a single conditional UPDATE so
// concurrent verifies for the same transaction id cannot interleave. The
// WHERE clause encodes domain.AllowsTransition: terminal Success is never
// overwritten, Failed may only be upgraded to Success, Unknown may be
// resolved to a terminal status.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, txID string, status domain.PaymentStatus) (bool, *domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = now()
		WHERE transaction_id = $1
		  AND status <> $2
		  AND status <> 'Success'
		  AND (status = 'Pending' OR $2 = 'Success' OR (status = 'Unknown' AND $2 = 'Failed'))
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, txID, status))
	if err == nil {
		return true, payment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, nil, err
	}

	// Nothing transitioned: either the row is absent or the transition is
	// not allowed. Distinguish the two.
	payment, err = r.GetByTransactionID(ctx, txID)
	if err != nil {
		return false, nil, err
	}
	return false, payment, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingReference,
		&payment.TransactionID,
		&payment.AmountCents,
		&payment.Currency,
		&payment.Email,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
