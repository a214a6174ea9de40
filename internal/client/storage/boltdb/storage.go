package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/internal/models"
)

var (
	// BoltDB bucket names
	bucketQueue       = []byte("sync_queue")
	bucketQueueStatus = []byte("sync_queue_status")
	bucketMetadata    = []byte("metadata")
	bucketAuth        = []byte("auth")
)

// Storage represents BoltDB storage implementation for client.
// It implements storage.QueueStorage, storage.CacheStorage, storage.MetadataStorage
// and storage.AuthStorage.
type Storage struct {
	db    *bbolt.DB
	clock *clock.Monotonic
}

// Option configures Storage
type Option func(*Storage)

// WithClock overrides the time source used for queue timestamps
func WithClock(c clock.Clock) Option {
	return func(s *Storage) {
		s.clock = clock.NewMonotonic(c)
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db, clock: clock.NewMonotonic(clock.System)}
	for _, opt := range opts {
		opt(storage)
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	// Действия, прерванные падением процесса, возвращаем в pending
	if err := storage.recoverProcessing(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to recover interrupted actions: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		names := [][]byte{bucketQueue, bucketQueueStatus, bucketMetadata, bucketAuth}
		for _, kind := range models.EntityKinds {
			names = append(names, []byte(kind))
		}
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// recoverProcessing переводит processing обратно в pending и
// продвигает монотонные часы за последнюю метку очереди
func (s *Storage) recoverProcessing() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketQueue)

		if k, v := queue.Cursor().Last(); k != nil {
			var last models.QueuedAction
			if err := json.Unmarshal(v, &last); err != nil {
				return fmt.Errorf("failed to decode action %d: %w", decodeID(k), err)
			}
			s.clock.Observe(last.Timestamp)
		}

		ids, err := idsByStatus(tx, models.StatusProcessing)
		if err != nil {
			return err
		}
		for _, id := range ids {
			action, err := getAction(tx, id)
			if err != nil {
				return err
			}
			if err := putAction(tx, action, models.StatusPending); err != nil {
				return err
			}
		}
		return nil
	})
}

// encodeID кодирует id в big-endian, чтобы порядок ключей совпадал с порядком вставки
func encodeID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func decodeID(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
