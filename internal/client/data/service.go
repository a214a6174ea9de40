package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/state"
	"github.com/iudanet/missionflow/internal/client/storage"
	clientsync "github.com/iudanet/missionflow/internal/client/sync"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

// Service определяет интерфейс для клиентского data сервиса:
// запись с офлайн-очередью и чтение из локального кеша
type Service interface {
	// Write применяет мутацию на сервере, а при отсутствии сети ставит ее в очередь
	Write(ctx context.Context, op models.Operation, collection string, payload map[string]any) (*WriteResult, error)

	// Cached возвращает строки кеша заданного типа
	Cached(ctx context.Context, kind models.EntityKind) ([]models.CachedEntity, error)

	Tasks(ctx context.Context) ([]models.CachedTask, error)
	Notifications(ctx context.Context) ([]models.CachedNotification, error)
}

// WriteResult итог записи: либо строка сервера, либо действие в очереди
type WriteResult struct {
	Record api.Record
	Action *models.QueuedAction
	Queued bool
}

// service handles client-side writes and cached reads
type service struct {
	apiClient httpClient.ClientAPI
	queue     storage.QueueStorage
	cache     storage.CacheStorage
	state     *state.Store
	logger    *slog.Logger
}

// NewService creates a new data service
func NewService(apiClient httpClient.ClientAPI, queue storage.QueueStorage, cache storage.CacheStorage, st *state.Store, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		queue:     queue,
		cache:     cache,
		state:     st,
		logger:    logger,
	}
}

// Write applies the mutation or queues it for the next sync pass.
// Only transport failures fall back to the queue; server rejections are returned.
func (s *service) Write(ctx context.Context, op models.Operation, collection string, payload map[string]any) (*WriteResult, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidOperation, op)
	}

	// Генерируем ID если не задан: повторная отправка create не создаст дубль
	if models.HasForeignIdentity(payload) {
		return nil, fmt.Errorf("%w: id must be a non-empty string", storage.ErrMissingIdentity)
	}
	if op == models.OperationCreate {
		payload = withIdentity(payload)
	}

	if s.state.Get().Online {
		record, err := clientsync.Apply(ctx, s.apiClient, op, collection, payload)
		if err == nil {
			return &WriteResult{Record: record}, nil
		}
		if !httpClient.IsTransport(err) {
			return nil, err
		}
		s.logger.Info("Backend unreachable, queueing action", "operation", op, "collection", collection)
		s.state.Update(func(st *state.AppState) { st.Online = false })
	}

	action, err := s.queue.Enqueue(ctx, op, collection, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to queue action: %w", err)
	}

	if pending, err := s.queue.PendingCount(ctx); err == nil {
		s.state.Update(func(st *state.AppState) { st.PendingCount = pending })
	}

	return &WriteResult{Action: action, Queued: true}, nil
}

// Cached returns cached rows of the kind
func (s *service) Cached(ctx context.Context, kind models.EntityKind) ([]models.CachedEntity, error) {
	return s.cache.GetAll(ctx, kind)
}

// Tasks returns cached tasks
func (s *service) Tasks(ctx context.Context) ([]models.CachedTask, error) {
	return s.cache.Tasks(ctx)
}

// Notifications returns cached notifications
func (s *service) Notifications(ctx context.Context) ([]models.CachedNotification, error) {
	return s.cache.Notifications(ctx)
}

func withIdentity(payload map[string]any) map[string]any {
	if _, ok := models.Identity(payload); ok {
		return payload
	}
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[models.IdentityField] = uuid.New().String()
	return out
}
