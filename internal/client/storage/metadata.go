package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata and preferences
type MetadataStorage interface {
	// SaveLastSync saves the time of the last completed reconciliation pass
	SaveLastSync(ctx context.Context, at time.Time) error

	// GetLastSync retrieves the time of the last completed pass
	// Returns zero time if no pass has been performed yet
	GetLastSync(ctx context.Context) (time.Time, error)

	// SaveDataSaver persists the data saver preference
	SaveDataSaver(ctx context.Context, enabled bool) error

	// GetDataSaver returns the data saver preference (false if never set)
	GetDataSaver(ctx context.Context) (bool, error)
}
