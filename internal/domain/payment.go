package domain

import (
	"strings"
	"time"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusSuccess PaymentStatus = "Success"
	PaymentStatusFailed  PaymentStatus = "Failed"

	// PaymentStatusUnknown captures gateway status strings outside the
	// recognized vocabulary; kept distinct for manual reconciliation.
	PaymentStatusUnknown PaymentStatus = "Unknown"
)

// IsTerminal reports whether the status is final.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// NormalizeGatewayStatus maps the gateway's status vocabulary onto the
// internal status set. Unrecognized strings become Unknown, never Success
// or Failed.
func NormalizeGatewayStatus(raw string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "successful":
		return PaymentStatusSuccess
	case "failed", "failure":
		return PaymentStatusFailed
	case "pending":
		return PaymentStatusPending
	default:
		return PaymentStatusUnknown
	}
}

// AllowsTransition reports whether a payment may move from one status to
// another. Success is absorbing, Failed may only be upgraded to Success
// (concurrent verifies that disagree resolve in favor of Success), and
// Unknown may later be resolved to a terminal status. Same-status updates
// are no-ops.
func AllowsTransition(from, to PaymentStatus) bool {
	if from == to || from == PaymentStatusSuccess {
		return false
	}
	if to == PaymentStatusSuccess {
		return true
	}
	switch from {
	case PaymentStatusPending:
		return to == PaymentStatusFailed || to == PaymentStatusUnknown
	case PaymentStatusUnknown:
		return to == PaymentStatusFailed
	default:
		return false
	}
}

// Payment represents one payment attempt for a booking. Multiple attempts
// may exist per booking reference; TransactionID is the gateway-issued
// checkout URL and is the sole join key between local and gateway state.
type Payment struct {
	ID               string
	BookingReference string
	TransactionID    string
	AmountCents      int64
	Currency         string
	Email            string
	Status           PaymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
