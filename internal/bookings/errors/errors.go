package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStateConflict means a guarded update matched the document but not
	// its expected status. The booking moved under us.
	ErrStateConflict = errors.New("booking state changed concurrently")

	ErrReviewLocked = errors.New("payment review already in progress")
)
