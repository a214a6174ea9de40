package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/missionflow/internal/client/storage"
)

const (
	keyLastSync  = "last_sync"
	keyDataSaver = "data_saver"
)

var _ storage.MetadataStorage = (*Storage)(nil)

// SaveLastSync saves the time of the last completed reconciliation pass
func (s *Storage) SaveLastSync(ctx context.Context, at time.Time) error {
	data, err := at.UTC().MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode last sync time: %w", err)
	}
	return s.putMeta(keyLastSync, data)
}

// GetLastSync retrieves the time of the last completed pass
// Returns zero time if no pass has been performed yet
func (s *Storage) GetLastSync(ctx context.Context) (time.Time, error) {
	data, err := s.getMeta(keyLastSync)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}
	if data == nil {
		return time.Time{}, nil
	}

	var at time.Time
	if err := at.UnmarshalBinary(data); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode last sync time: %w", err)
	}
	return at, nil
}

// SaveDataSaver persists the data saver preference
func (s *Storage) SaveDataSaver(ctx context.Context, enabled bool) error {
	value := []byte{0}
	if enabled {
		value[0] = 1
	}
	return s.putMeta(keyDataSaver, value)
}

// GetDataSaver returns the data saver preference
func (s *Storage) GetDataSaver(ctx context.Context) (bool, error) {
	data, err := s.getMeta(keyDataSaver)
	if err != nil {
		return false, fmt.Errorf("failed to get data saver preference: %w", err)
	}
	return len(data) == 1 && data[0] == 1, nil
}

func (s *Storage) putMeta(key string, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

// getMeta возвращает копию значения, nil если ключ не найден
func (s *Storage) getMeta(key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if v := bucket.Get([]byte(key)); v != nil {
			out = append([]byte{}, v...)
		}
		return nil
	})
	return out, err
}
