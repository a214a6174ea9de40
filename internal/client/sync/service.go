package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// DefaultActionTimeout ограничение на отправку одного действия
const DefaultActionTimeout = 30 * time.Second

// Service определяет интерфейс для sync.Service
type Service interface {
	// Sync выполняет проход синхронизации: отправляет очередь на сервер,
	// удаляет выполненные действия и обновляет кеш пользователя
	Sync(ctx context.Context, actorID string) (*SyncResult, error)

	// RefreshCache перезаписывает локальный кеш строками пользователя с сервера
	RefreshCache(ctx context.Context, actorID string) error

	// PendingCount возвращает количество действий, ожидающих отправки
	PendingCount(ctx context.Context) (int, error)
}

// actorFields поле, по которому строки каждого типа относятся к пользователю
var actorFields = map[models.EntityKind]string{
	models.KindTasks:         "assigned_to",
	models.KindDocuments:     "uploaded_by",
	models.KindMessages:      "recipient_id",
	models.KindTimesheets:    "user_id",
	models.KindNotifications: "user_id",
}

// service handles reconciliation between local queue and server
type service struct {
	apiClient     httpClient.ClientAPI
	queue         storage.QueueStorage
	cache         storage.CacheStorage
	metadata      storage.MetadataStorage
	clock         clock.Clock
	logger        *slog.Logger
	group         singleflight.Group
	actionTimeout time.Duration
}

// Option configures the sync service
type Option func(*service)

// WithActionTimeout задает таймаут отправки одного действия
func WithActionTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.actionTimeout = d
		}
	}
}

// WithClock задает источник времени для результатов прохода
func WithClock(c clock.Clock) Option {
	return func(s *service) {
		s.clock = c
	}
}

// NewService creates a new sync service
func NewService(
	apiClient httpClient.ClientAPI,
	queue storage.QueueStorage,
	cache storage.CacheStorage,
	metadata storage.MetadataStorage,
	logger *slog.Logger,
	opts ...Option,
) Service {
	s := &service{
		apiClient:     apiClient,
		queue:         queue,
		cache:         cache,
		metadata:      metadata,
		clock:         clock.System,
		logger:        logger,
		actionTimeout: DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncResult contains sync pass results
type SyncResult struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	Synced         int  // количество отправленных действий
	Errored        int  // количество действий, завершившихся ошибкой
	Purged         int  // количество удаленных выполненных действий
	Skipped        bool // очередь была пуста, отправка не выполнялась
	CacheRefreshed bool
}

// Summary возвращает краткий итог прохода для пользователя
func (r *SyncResult) Summary() string {
	return fmt.Sprintf("%d actions synced, %d errors", r.Synced, r.Errored)
}

// Sync performs one reconciliation pass.
// Concurrent calls share the pass that is already running.
func (s *service) Sync(ctx context.Context, actorID string) (*SyncResult, error) {
	v, err, shared := s.group.Do("sync", func() (any, error) {
		return s.run(ctx, actorID)
	})
	if shared {
		s.logger.Debug("Joined running sync pass")
	}

	result, _ := v.(*SyncResult)
	return result, err
}

func (s *service) run(ctx context.Context, actorID string) (*SyncResult, error) {
	result := &SyncResult{StartedAt: s.clock.Now()}

	pending, err := s.queue.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending actions: %w", err)
	}

	if pending == 0 {
		result.Skipped = true
	} else {
		s.logger.Info("Starting synchronization", "pending", pending)
		if err := s.drain(ctx, result); err != nil {
			return nil, err
		}
	}

	// Пользователь прервал проход: оставшиеся действия остаются pending
	if err := ctx.Err(); err != nil {
		result.FinishedAt = s.clock.Now()
		return result, fmt.Errorf("sync interrupted: %w", err)
	}

	if actorID != "" {
		if err := s.RefreshCache(ctx, actorID); err != nil {
			s.logger.Debug("Cache refresh failed", "error", err)
		} else {
			result.CacheRefreshed = true
		}
	}

	result.FinishedAt = s.clock.Now()
	if err := s.metadata.SaveLastSync(ctx, result.FinishedAt); err != nil {
		s.logger.Warn("Failed to save last sync time", "error", err)
	}

	s.logger.Info("Synchronization completed",
		"synced", result.Synced,
		"errors", result.Errored,
		"purged", result.Purged,
		"cache_refreshed", result.CacheRefreshed)

	return result, nil
}

// drain отправляет pending действия по одному в порядке постановки
func (s *service) drain(ctx context.Context, result *SyncResult) error {
	actions, err := s.queue.PendingActions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending actions: %w", err)
	}

	for _, action := range actions {
		if ctx.Err() != nil {
			break
		}

		if err := s.queue.MarkProcessing(ctx, action.ID); err != nil {
			// Действие изменили параллельно (retry/purge), пропускаем
			s.logger.Warn("Failed to mark action as processing", "action_id", action.ID, "error", err)
			continue
		}

		if err := s.dispatch(ctx, action); err != nil {
			result.Errored++
			reason := failureReason(action, err)
			s.logger.Warn("Action sync failed",
				"action_id", action.ID,
				"operation", action.Operation,
				"collection", action.Collection,
				"error", err)
			if err := s.queue.MarkError(ctx, action.ID, reason); err != nil {
				return fmt.Errorf("failed to mark action %d as failed: %w", action.ID, err)
			}
			continue
		}

		if err := s.queue.MarkDone(ctx, action.ID); err != nil {
			return fmt.Errorf("failed to mark action %d as done: %w", action.ID, err)
		}
		result.Synced++
	}

	purged, err := s.queue.PurgeDone(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge done actions: %w", err)
	}
	result.Purged = purged

	return nil
}

// dispatch отправляет одно действие на сервер с собственным таймаутом
func (s *service) dispatch(ctx context.Context, action *models.QueuedAction) error {
	ctx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	_, err := Apply(ctx, s.apiClient, action.Operation, action.Collection, action.Payload)
	return err
}

// Apply выполняет мутацию на сервере: create -> Insert, update -> Update по id,
// upsert -> Upsert, delete -> Delete по id. Для delete запись не возвращается.
func Apply(ctx context.Context, client httpClient.ClientAPI, op models.Operation, collection string, payload map[string]any) (api.Record, error) {
	id, ok := models.Identity(payload)
	if (op.RequiresIdentity() && !ok) || models.HasForeignIdentity(payload) {
		return nil, fmt.Errorf("%w: %s on %s", storage.ErrMissingIdentity, op, collection)
	}

	switch op {
	case models.OperationCreate:
		return client.Insert(ctx, collection, payload)
	case models.OperationUpdate:
		return client.Update(ctx, collection, id, payload)
	case models.OperationUpsert:
		return client.Upsert(ctx, collection, payload)
	case models.OperationDelete:
		return nil, client.Delete(ctx, collection, id)
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrInvalidOperation, op)
}

// failureReason короткое описание причины без тела ответа сервера
func failureReason(action *models.QueuedAction, err error) string {
	var cause string
	var apiErr *httpClient.Error
	switch {
	case errors.As(err, &apiErr):
		cause = fmt.Sprintf("rejected by server (%d)", apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		cause = "timed out"
	case httpClient.IsTransport(err):
		cause = "transport failure"
	case errors.Is(err, storage.ErrInvalidOperation):
		cause = "invalid operation"
	default:
		cause = "unexpected error"
	}
	return fmt.Sprintf("sync failed: %s %s: %s", action.Operation, action.Collection, cause)
}

// RefreshCache pulls rows relevant to the actor and replaces each local table
func (s *service) RefreshCache(ctx context.Context, actorID string) error {
	fetchedAt := s.clock.Now()

	for _, kind := range models.EntityKinds {
		q := api.Query{}.Eq(actorFields[kind], actorID)
		rows, err := s.apiClient.Select(ctx, string(kind), q)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", kind, err)
		}

		entities := make([]models.CachedEntity, 0, len(rows))
		for _, row := range rows {
			entity, err := models.ProjectRecord(kind, row, fetchedAt)
			if err != nil {
				s.logger.Debug("Skipping row", "kind", kind, "error", err)
				continue
			}
			entities = append(entities, entity)
		}

		if err := s.cache.PutAll(ctx, kind, entities); err != nil {
			return fmt.Errorf("failed to store %s: %w", kind, err)
		}
	}

	s.logger.Debug("Cache refreshed", "actor_id", actorID)
	return nil
}

// PendingCount returns the number of pending actions
func (s *service) PendingCount(ctx context.Context) (int, error) {
	return s.queue.PendingCount(ctx)
}
