package storage

import (
	"context"

	"github.com/iudanet/missionflow/internal/models"
)

//go:generate moq -out cachestorage_mock.go . CacheStorage

// CacheStorage defines local projections of server rows kept for offline reads
type CacheStorage interface {
	// PutAll replaces the whole local table for the kind (overwrite, no merge)
	PutAll(ctx context.Context, kind models.EntityKind, records []models.CachedEntity) error

	// GetAll returns every cached row of the kind
	GetAll(ctx context.Context, kind models.EntityKind) ([]models.CachedEntity, error)

	// CacheSize returns the number of cached rows of the kind
	CacheSize(ctx context.Context, kind models.EntityKind) (int, error)

	Tasks(ctx context.Context) ([]models.CachedTask, error)
	Documents(ctx context.Context) ([]models.CachedDocument, error)
	Messages(ctx context.Context) ([]models.CachedMessage, error)
	Timesheets(ctx context.Context) ([]models.CachedTimesheet, error)
	Notifications(ctx context.Context) ([]models.CachedNotification, error)
}
