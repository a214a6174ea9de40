package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/internal/validation"
)

var _ storage.QueueStorage = (*Storage)(nil)

// Enqueue appends a new pending action
func (s *Storage) Enqueue(ctx context.Context, op models.Operation, collection string, payload map[string]any) (*models.QueuedAction, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidOperation, op)
	}
	if err := validation.ValidateCollection(collection); err != nil {
		return nil, err
	}
	if _, ok := models.Identity(payload); (op.RequiresIdentity() && !ok) || models.HasForeignIdentity(payload) {
		return nil, fmt.Errorf("%w: %s on %s", storage.ErrMissingIdentity, op, collection)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	action := &models.QueuedAction{
		Operation:  op,
		Collection: collection,
		Payload:    payload,
		Status:     models.StatusPending,
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		id, err := tx.Bucket(bucketQueue).NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate action id: %w", err)
		}
		// Метка берется внутри транзакции записи: bbolt сериализует писателей,
		// поэтому порядок id совпадает с порядком меток
		now := s.clock.Now()
		action.ID = id
		action.Timestamp = now
		action.UpdatedAt = now
		return putAction(tx, action, models.StatusPending)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue action: %w", err)
	}

	return action, nil
}

// PendingActions returns pending actions ordered by timestamp ascending
func (s *Storage) PendingActions(ctx context.Context) ([]*models.QueuedAction, error) {
	return s.ListActions(ctx, models.StatusPending)
}

// ListActions returns actions with the given statuses, oldest first
func (s *Storage) ListActions(ctx context.Context, statuses ...models.ActionStatus) ([]*models.QueuedAction, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var actions []*models.QueuedAction
	err := s.db.View(func(tx *bbolt.Tx) error {
		if len(statuses) == 0 {
			return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
				var action models.QueuedAction
				if err := json.Unmarshal(v, &action); err != nil {
					return fmt.Errorf("failed to decode action %d: %w", decodeID(k), err)
				}
				actions = append(actions, &action)
				return nil
			})
		}

		// Собираем id по индексу статусов, затем читаем в порядке id
		var ids []uint64
		for _, status := range dedupStatuses(statuses) {
			found, err := idsByStatus(tx, status)
			if err != nil {
				return err
			}
			ids = mergeSorted(ids, found)
		}
		for _, id := range ids {
			action, err := getAction(tx, id)
			if err != nil {
				return err
			}
			actions = append(actions, action)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	return actions, nil
}

// FailedActions returns actions in error status, oldest first
func (s *Storage) FailedActions(ctx context.Context) ([]*models.QueuedAction, error) {
	return s.ListActions(ctx, models.StatusError)
}

// GetAction retrieves an action by ID
func (s *Storage) GetAction(ctx context.Context, id uint64) (*models.QueuedAction, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var action *models.QueuedAction
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		action, err = getAction(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return action, nil
}

// MarkProcessing moves a pending action to processing
func (s *Storage) MarkProcessing(ctx context.Context, id uint64) error {
	return s.transition(id, models.StatusProcessing, "")
}

// MarkDone moves a processing action to done
func (s *Storage) MarkDone(ctx context.Context, id uint64) error {
	return s.transition(id, models.StatusDone, "")
}

// MarkError records failure message and moves the action to error
func (s *Storage) MarkError(ctx context.Context, id uint64, message string) error {
	return s.transition(id, models.StatusError, message)
}

// RetryAction returns a failed action to pending
func (s *Storage) RetryAction(ctx context.Context, id uint64) error {
	return s.transition(id, models.StatusPending, "")
}

// RetryFailed returns all failed actions to pending
func (s *Storage) RetryFailed(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		ids, err := idsByStatus(tx, models.StatusError)
		if err != nil {
			return err
		}
		for _, id := range ids {
			action, err := getAction(tx, id)
			if err != nil {
				return err
			}
			action.Error = ""
			action.UpdatedAt = s.clock.Now()
			if err := putAction(tx, action, models.StatusPending); err != nil {
				return err
			}
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to retry failed actions: %w", err)
	}
	return count, nil
}

// PurgeDone deletes all done actions. Calling it twice is a no-op.
func (s *Storage) PurgeDone(ctx context.Context) (int, error) {
	return s.purge(models.StatusDone)
}

// PurgeFailed deletes all failed actions
func (s *Storage) PurgeFailed(ctx context.Context) (int, error) {
	return s.purge(models.StatusError)
}

// PendingCount returns the number of pending actions
func (s *Storage) PendingCount(ctx context.Context) (int, error) {
	return s.count(models.StatusPending)
}

// FailedCount returns the number of failed actions
func (s *Storage) FailedCount(ctx context.Context) (int, error) {
	return s.count(models.StatusError)
}

func (s *Storage) transition(id uint64, to models.ActionStatus, message string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		action, err := getAction(tx, id)
		if err != nil {
			return err
		}
		if !models.CanTransition(action.Status, to) {
			return fmt.Errorf("%w: action %d %s -> %s", storage.ErrInvalidTransition, id, action.Status, to)
		}

		if to == models.StatusError {
			action.Error = message
			action.Attempts++
		} else {
			action.Error = ""
		}
		action.UpdatedAt = s.clock.Now()

		return putAction(tx, action, to)
	})
}

func (s *Storage) purge(status models.ActionStatus) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		ids, err := idsByStatus(tx, status)
		if err != nil {
			return err
		}
		queue := tx.Bucket(bucketQueue)
		index := tx.Bucket(bucketQueueStatus)
		for _, id := range ids {
			if err := queue.Delete(encodeID(id)); err != nil {
				return fmt.Errorf("failed to delete action %d: %w", id, err)
			}
			if err := index.Delete(indexKey(status, id)); err != nil {
				return fmt.Errorf("failed to delete index of action %d: %w", id, err)
			}
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge %s actions: %w", status, err)
	}
	return count, nil
}

func (s *Storage) count(status models.ActionStatus) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int
	err := s.db.View(func(tx *bbolt.Tx) error {
		prefix := indexPrefix(status)
		c := tx.Bucket(bucketQueueStatus).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s actions: %w", status, err)
	}
	return count, nil
}

// getAction читает действие по id внутри транзакции
func getAction(tx *bbolt.Tx, id uint64) (*models.QueuedAction, error) {
	data := tx.Bucket(bucketQueue).Get(encodeID(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %d", storage.ErrActionNotFound, id)
	}

	var action models.QueuedAction
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, fmt.Errorf("failed to decode action %d: %w", id, err)
	}
	return &action, nil
}

// putAction сохраняет действие с новым статусом и обновляет индекс
func putAction(tx *bbolt.Tx, action *models.QueuedAction, status models.ActionStatus) error {
	index := tx.Bucket(bucketQueueStatus)
	if action.Status != "" && action.Status != status {
		if err := index.Delete(indexKey(action.Status, action.ID)); err != nil {
			return fmt.Errorf("failed to update index of action %d: %w", action.ID, err)
		}
	}
	action.Status = status

	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to encode action %d: %w", action.ID, err)
	}
	if err := tx.Bucket(bucketQueue).Put(encodeID(action.ID), data); err != nil {
		return fmt.Errorf("failed to save action %d: %w", action.ID, err)
	}
	if err := index.Put(indexKey(status, action.ID), nil); err != nil {
		return fmt.Errorf("failed to index action %d: %w", action.ID, err)
	}
	return nil
}

// idsByStatus возвращает id действий со статусом по возрастанию
func idsByStatus(tx *bbolt.Tx, status models.ActionStatus) ([]uint64, error) {
	var ids []uint64
	prefix := indexPrefix(status)
	c := tx.Bucket(bucketQueueStatus).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if len(k) != len(prefix)+8 {
			return nil, fmt.Errorf("corrupted status index key %q", k)
		}
		ids = append(ids, decodeID(k[len(prefix):]))
	}
	return ids, nil
}

// indexKey: <status> 0x00 <big-endian id>
func indexKey(status models.ActionStatus, id uint64) []byte {
	return append(indexPrefix(status), encodeID(id)...)
}

func indexPrefix(status models.ActionStatus) []byte {
	prefix := make([]byte, 0, len(status)+9)
	prefix = append(prefix, status...)
	return append(prefix, 0)
}

func dedupStatuses(statuses []models.ActionStatus) []models.ActionStatus {
	seen := make(map[models.ActionStatus]struct{}, len(statuses))
	out := make([]models.ActionStatus, 0, len(statuses))
	for _, st := range statuses {
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	return out
}

// mergeSorted сливает два возрастающих списка id
func mergeSorted(a, b []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
