// Package connectivity связывает сигналы сети и видимости с синхронизацией.
package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/missionflow/internal/client/state"
	"github.com/iudanet/missionflow/internal/client/storage"
	clientsync "github.com/iudanet/missionflow/internal/client/sync"
)

//go:generate moq -out notifier_mock.go . Notifier
//go:generate moq -out closer_mock.go . SubscriptionCloser

// Event сигнал платформы
type Event string

const (
	EventOnline        Event = "online"
	EventOffline       Event = "offline"
	EventHidden        Event = "hidden"
	EventVisible       Event = "visible"
	EventSyncRequested Event = "sync_requested"
)

// Notifier сообщает пользователю итог прохода синхронизации
type Notifier interface {
	SyncCompleted(result *clientsync.SyncResult)
	SyncFailed(err error)
}

// SubscriptionCloser закрывает все realtime подписки
type SubscriptionCloser interface {
	CloseAll() int
}

// Coordinator переводит события сети и видимости в проходы синхронизации
// и обновления общего состояния. Собственной бизнес-логики не содержит.
type Coordinator struct {
	state         *state.Store
	reconciler    clientsync.Service
	queue         storage.QueueStorage
	prefs         storage.MetadataStorage
	subscriptions SubscriptionCloser
	notifier      Notifier
	remount       func(ctx context.Context)
	reconnect     func(ctx context.Context)
	logger        *slog.Logger
	actorID       string
	mu            sync.Mutex
}

// Option configures Coordinator
type Option func(*Coordinator)

// WithSubscriptions задает менеджер подписок, закрываемых в режиме экономии трафика
func WithSubscriptions(closer SubscriptionCloser) Option {
	return func(c *Coordinator) { c.subscriptions = closer }
}

// WithNotifier задает получателя итогов синхронизации
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithRemount задает действие при возврате приложения на передний план
func WithRemount(fn func(ctx context.Context)) Option {
	return func(c *Coordinator) { c.remount = fn }
}

// WithReconnect задает действие при восстановлении связи: сервер мог
// разорвать realtime соединения, пока сети не было
func WithReconnect(fn func(ctx context.Context)) Option {
	return func(c *Coordinator) { c.reconnect = fn }
}

// NewCoordinator создает координатор поверх хранилища и синхронизатора
func NewCoordinator(
	st *state.Store,
	reconciler clientsync.Service,
	queue storage.QueueStorage,
	prefs storage.MetadataStorage,
	logger *slog.Logger,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		state:      st,
		reconciler: reconciler,
		queue:      queue,
		prefs:      prefs,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State возвращает контейнер состояния
func (c *Coordinator) State() *state.Store {
	return c.state
}

// Mount выполняет начальное чтение счетчиков и настроек и прогревает кеш.
// Ошибка прогрева игнорируется: скорее всего, сети нет.
func (c *Coordinator) Mount(ctx context.Context, actorID string) error {
	c.mu.Lock()
	c.actorID = actorID
	c.mu.Unlock()

	dataSaver, err := c.prefs.GetDataSaver(ctx)
	if err != nil {
		return fmt.Errorf("failed to load data saver preference: %w", err)
	}
	c.state.Update(func(s *state.AppState) { s.DataSaver = dataSaver })

	if err := c.refreshCounts(ctx); err != nil {
		return err
	}

	if actorID != "" {
		if err := c.reconciler.RefreshCache(ctx, actorID); err != nil {
			c.logger.Debug("Initial cache refresh failed", "error", err)
		}
	}
	return nil
}

// HandleEvent обрабатывает одно событие
func (c *Coordinator) HandleEvent(ctx context.Context, ev Event) error {
	switch ev {
	case EventOnline:
		prev := c.state.Get()
		st := c.state.Update(func(s *state.AppState) { s.Online = true })
		if prev.Online {
			return nil
		}
		c.logger.Info("Connection restored")
		// В фоне с экономией трафика подписки закрыты намеренно
		if c.reconnect != nil && !(st.Hidden && st.DataSaver) {
			c.reconnect(ctx)
		}
		return c.runSync(ctx)

	case EventOffline:
		// Счетчик pending не сбрасывается
		c.state.Update(func(s *state.AppState) { s.Online = false })
		c.logger.Info("Connection lost")
		return nil

	case EventHidden:
		st := c.state.Update(func(s *state.AppState) { s.Hidden = true })
		if st.DataSaver && c.subscriptions != nil {
			closed := c.subscriptions.CloseAll()
			c.logger.Debug("Subscriptions paused", "count", closed)
		}
		return nil

	case EventVisible:
		c.state.Update(func(s *state.AppState) { s.Hidden = false })
		if c.remount != nil {
			c.remount(ctx)
		}
		return nil

	case EventSyncRequested:
		return c.runSync(ctx)
	}

	return fmt.Errorf("unknown event %q", ev)
}

// SetDataSaver сохраняет настройку экономии трафика
func (c *Coordinator) SetDataSaver(ctx context.Context, enabled bool) error {
	if err := c.prefs.SaveDataSaver(ctx, enabled); err != nil {
		return fmt.Errorf("failed to save data saver preference: %w", err)
	}
	c.state.Update(func(s *state.AppState) { s.DataSaver = enabled })
	return nil
}

// Run обрабатывает события по одному до закрытия канала или отмены ctx
func (c *Coordinator) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.HandleEvent(ctx, ev); err != nil {
				c.logger.Error("Failed to handle event", "event", ev, "error", err)
			}
		}
	}
}

func (c *Coordinator) runSync(ctx context.Context) error {
	c.mu.Lock()
	actorID := c.actorID
	c.mu.Unlock()

	result, syncErr := c.reconciler.Sync(ctx, actorID)

	c.state.Update(func(s *state.AppState) {
		if result != nil {
			s.LastSync = result
		}
		s.LastSyncError = ""
		if syncErr != nil {
			s.LastSyncError = syncErr.Error()
		}
	})

	// Счетчики обновляются и после неудачного прохода
	countErr := c.refreshCounts(ctx)

	if c.notifier != nil {
		if syncErr != nil {
			c.notifier.SyncFailed(syncErr)
		} else {
			c.notifier.SyncCompleted(result)
		}
	}

	if syncErr != nil {
		return fmt.Errorf("sync pass failed: %w", syncErr)
	}
	return countErr
}

func (c *Coordinator) refreshCounts(ctx context.Context) error {
	pending, err := c.reconciler.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending count: %w", err)
	}
	failed, err := c.queue.FailedCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to read failed count: %w", err)
	}

	c.state.Update(func(s *state.AppState) {
		s.PendingCount = pending
		s.FailedCount = failed
	})
	return nil
}
