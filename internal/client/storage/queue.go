package storage

import (
	"context"

	"github.com/iudanet/missionflow/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage defines the local mutation queue.
// The store is the only writer of queue rows; other components go through this API.
type QueueStorage interface {
	// Enqueue appends a pending action stamped with the current monotonic time.
	// Update and delete payloads must carry the row id.
	Enqueue(ctx context.Context, op models.Operation, collection string, payload map[string]any) (*models.QueuedAction, error)

	// PendingActions returns pending actions, oldest first
	PendingActions(ctx context.Context) ([]*models.QueuedAction, error)

	// ListActions returns actions with any of the given statuses (all when empty), oldest first
	ListActions(ctx context.Context, statuses ...models.ActionStatus) ([]*models.QueuedAction, error)

	// FailedActions returns actions in error status, oldest first
	FailedActions(ctx context.Context) ([]*models.QueuedAction, error)

	// GetAction retrieves an action by ID
	// Returns ErrActionNotFound if action doesn't exist
	GetAction(ctx context.Context, id uint64) (*models.QueuedAction, error)

	// MarkProcessing, MarkDone and MarkError move an action along its lifecycle.
	// Invalid transitions return ErrInvalidTransition.
	MarkProcessing(ctx context.Context, id uint64) error
	MarkDone(ctx context.Context, id uint64) error
	MarkError(ctx context.Context, id uint64, message string) error

	// RetryAction returns a failed action to pending and clears its error (operator-driven retry)
	RetryAction(ctx context.Context, id uint64) error

	// RetryFailed returns all failed actions to pending
	RetryFailed(ctx context.Context) (int, error)

	// PurgeDone deletes all done actions
	PurgeDone(ctx context.Context) (int, error)

	// PurgeFailed deletes all failed actions
	PurgeFailed(ctx context.Context) (int, error)

	// PendingCount returns the number of pending actions
	PendingCount(ctx context.Context) (int, error)

	// FailedCount returns the number of failed actions
	FailedCount(ctx context.Context) (int, error)
}
