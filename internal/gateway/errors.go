package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	// KindTransport covers connection errors, timeouts and unparseable
	// response bodies.
	KindTransport ErrorKind = "TRANSPORT"

	// KindRejected means the gateway reported the initialize call failed.
	KindRejected ErrorKind = "REJECTED"

	// KindMalformedResponse means the gateway reported success but the
	// payload is missing required fields.
	KindMalformedResponse ErrorKind = "MALFORMED_RESPONSE"

	// KindVerificationFailed means the gateway could not verify the
	// transaction.
	KindVerificationFailed ErrorKind = "VERIFICATION_FAILED"
)

// Error is a structured gateway failure. No local state is mutated when one
// is returned.
type Error struct {
	Kind        ErrorKind
	Message     string
	RawResponse string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway error: %s", e.Kind)
	}
	return fmt.Sprintf("gateway error: %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a gateway Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == kind
}
