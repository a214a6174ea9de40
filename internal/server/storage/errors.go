package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that row with this id does not exist in the collection
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates that row with this id already exists in the collection
	ErrRecordExists = errors.New("record already exists")

	// ErrInvalidQuery indicates that filter or order cannot be applied
	ErrInvalidQuery = errors.New("invalid query")
)
