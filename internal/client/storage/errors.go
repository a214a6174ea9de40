package storage

import "errors"

// Common client storage errors
var (
	// ErrActionNotFound indicates that queued action was not found
	ErrActionNotFound = errors.New("queued action not found")

	// ErrInvalidTransition indicates a forbidden action status change
	ErrInvalidTransition = errors.New("invalid action status transition")

	// ErrMissingIdentity indicates update/delete payload without row id
	ErrMissingIdentity = errors.New("payload has no row identity")

	// ErrInvalidOperation indicates unknown operation kind
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnknownKind indicates unknown cached entity kind
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrAuthNotFound indicates that no session is stored
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
