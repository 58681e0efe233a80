package service

import "errors"

var (
	// ErrMissingBookingReference is returned when the booking reference is empty.
	ErrMissingBookingReference = errors.New("missing booking reference")

	// ErrMissingAmount is returned when the amount is empty.
	ErrMissingAmount = errors.New("missing amount")

	// ErrMissingEmail is returned when the payer email is empty.
	ErrMissingEmail = errors.New("missing email")

	// ErrMissingTransactionRef is returned when the transaction reference is empty.
	ErrMissingTransactionRef = errors.New("missing transaction reference")

	// ErrVerificationInProgress is returned when another verify call holds
	// the lock for the same transaction.
	ErrVerificationInProgress = errors.New("verification already in progress")
)
