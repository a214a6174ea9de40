package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/models"
)

var _ storage.CacheStorage = (*Storage)(nil)

// PutAll replaces the local table of the kind with the given rows.
// Rows removed on the server disappear locally.
func (s *Storage) PutAll(ctx context.Context, kind models.EntityKind, records []models.CachedEntity) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !knownKind(kind) {
		return fmt.Errorf("%w: %q", storage.ErrUnknownKind, kind)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		name := []byte(kind)
		if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to drop %s bucket: %w", kind, err)
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", kind, err)
		}

		for _, record := range records {
			if record.EntityKind() != kind {
				return fmt.Errorf("record %s of kind %s put into %s", record.EntityID(), record.EntityKind(), kind)
			}
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode %s %s: %w", kind, record.EntityID(), err)
			}
			if err := bucket.Put([]byte(record.EntityID()), data); err != nil {
				return fmt.Errorf("failed to save %s %s: %w", kind, record.EntityID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s cache: %w", kind, err)
	}
	return nil
}

// CacheSize returns the number of cached rows of the kind
func (s *Storage) CacheSize(ctx context.Context, kind models.EntityKind) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}
	if !knownKind(kind) {
		return 0, fmt.Errorf("%w: %q", storage.ErrUnknownKind, kind)
	}

	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return nil
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// GetAll returns every cached row of the kind
func (s *Storage) GetAll(ctx context.Context, kind models.EntityKind) ([]models.CachedEntity, error) {
	switch kind {
	case models.KindTasks:
		return entities(s.Tasks(ctx))
	case models.KindDocuments:
		return entities(s.Documents(ctx))
	case models.KindMessages:
		return entities(s.Messages(ctx))
	case models.KindTimesheets:
		return entities(s.Timesheets(ctx))
	case models.KindNotifications:
		return entities(s.Notifications(ctx))
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrUnknownKind, kind)
}

// Tasks returns cached tasks
func (s *Storage) Tasks(ctx context.Context) ([]models.CachedTask, error) {
	return readAll[models.CachedTask](s, models.KindTasks)
}

// Documents returns cached document metadata
func (s *Storage) Documents(ctx context.Context) ([]models.CachedDocument, error) {
	return readAll[models.CachedDocument](s, models.KindDocuments)
}

// Messages returns cached messages
func (s *Storage) Messages(ctx context.Context) ([]models.CachedMessage, error) {
	return readAll[models.CachedMessage](s, models.KindMessages)
}

// Timesheets returns cached timesheet entries
func (s *Storage) Timesheets(ctx context.Context) ([]models.CachedTimesheet, error) {
	return readAll[models.CachedTimesheet](s, models.KindTimesheets)
}

// Notifications returns cached notifications
func (s *Storage) Notifications(ctx context.Context) ([]models.CachedNotification, error) {
	return readAll[models.CachedNotification](s, models.KindNotifications)
}

// readAll декодирует все строки bucket в порядке ключей
func readAll[T any](s *Storage, kind models.EntityKind) ([]T, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var out []T
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to decode %s %s: %w", kind, k, err)
			}
			out = append(out, item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s cache: %w", kind, err)
	}
	return out, nil
}

func entities[T models.CachedEntity](items []T, err error) ([]models.CachedEntity, error) {
	if err != nil {
		return nil, err
	}
	out := make([]models.CachedEntity, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out, nil
}

func knownKind(kind models.EntityKind) bool {
	for _, k := range models.EntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}
