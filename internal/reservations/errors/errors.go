package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrInvalidStateTransition = errors.New("invalid reservation state transition")

	ErrForbidden = errors.New("actor is not allowed to perform this action")

	ErrPaymentAmountMismatch = errors.New("payment amount does not match reservation total")

	// ErrStatusConflict means the stored status changed between read and write.
	ErrStatusConflict = errors.New("reservation status changed concurrently")

	ErrStartDateInPast = errors.New("start date must be in the future")

	ErrListingUnavailable = errors.New("listing has no price for its pricing model")
)
