package repository

import (
	"context"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
// Payments are never deleted; rows are retained for audit.
type PaymentRepository interface {
	// Create persists a new payment. Returns ErrDuplicateTransaction if a
	// payment with the same transaction id already exists.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByTransactionID retrieves a payment by its transaction id.
	GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error)

	// GetByBookingReference retrieves all payment attempts for a booking,
	// newest first.
	GetByBookingReference(ctx context.Context, ref string) ([]*domain.Payment, error)

	// UpdateStatus applies a status transition atomically, honoring
	// domain.AllowsTransition. It reports whether a transition actually
	// happened and returns the payment as stored afterwards. Disallowed
	// transitions are no-ops, not errors, so concurrent verifies cannot
	// corrupt a terminal status. Returns ErrNotFound if no payment exists
	// with the given transaction id.
	UpdateStatus(ctx context.Context, txID string, status domain.PaymentStatus) (bool, *domain.Payment, error)
}
