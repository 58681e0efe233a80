package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateTransaction is returned when a payment with the same
	// transaction id already exists.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)
