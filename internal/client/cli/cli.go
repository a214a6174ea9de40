// Package cli команды клиента MissionFlow.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/auth"
	"github.com/iudanet/missionflow/internal/client/calendar"
	"github.com/iudanet/missionflow/internal/client/connectivity"
	"github.com/iudanet/missionflow/internal/client/data"
	"github.com/iudanet/missionflow/internal/client/iocli"
	"github.com/iudanet/missionflow/internal/client/realtime"
	"github.com/iudanet/missionflow/internal/client/state"
	"github.com/iudanet/missionflow/internal/client/storage"
	clientsync "github.com/iudanet/missionflow/internal/client/sync"
	"github.com/iudanet/missionflow/internal/clock"
)

// Store локальное хранилище со всеми ролями
type Store interface {
	storage.QueueStorage
	storage.CacheStorage
	storage.MetadataStorage
	storage.AuthStorage
}

// Options зависимости команд
type Options struct {
	IO     iocli.IO
	API    httpClient.ClientAPI
	Store  Store
	Logger *slog.Logger
	Clock  clock.Clock

	ServerURL string
	// Token явный токен из настроек, имеет приоритет над сохраненной сессией
	Token   string
	ActorID string

	ActionTimeout time.Duration
	ProbeInterval time.Duration
	LinkBase      string
}

type Cli struct {
	io          iocli.IO
	apiClient   httpClient.ClientAPI
	store       Store
	logger      *slog.Logger
	clock       clock.Clock
	authService auth.Service
	syncService clientsync.Service
	dataService data.Service
	calendar    *calendar.Engine
	realtime    *realtime.Manager
	coordinator *connectivity.Coordinator
	state       *state.Store
	events      chan connectivity.Event

	serverURL     string
	token         string
	actorID       string
	probeInterval time.Duration
}

// New собирает сервисы клиента поверх хранилища и API
func New(opts Options) *Cli {
	c := &Cli{}
	c.init(opts)
	return c
}

func (c *Cli) init(opts Options) {
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = connectivity.DefaultProbeInterval
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = clientsync.DefaultActionTimeout
	}

	c.io = opts.IO
	c.apiClient = opts.API
	c.store = opts.Store
	c.logger = opts.Logger
	c.clock = opts.Clock
	c.serverURL = opts.ServerURL
	c.token = opts.Token
	c.actorID = opts.ActorID
	c.probeInterval = opts.ProbeInterval

	c.state = state.NewStore(state.AppState{})
	c.authService = auth.NewService(opts.Store, opts.Clock, opts.Logger)
	c.syncService = clientsync.NewService(opts.API, opts.Store, opts.Store, opts.Store, opts.Logger,
		clientsync.WithActionTimeout(opts.ActionTimeout),
		clientsync.WithClock(opts.Clock),
	)
	c.dataService = data.NewService(opts.API, opts.Store, opts.Store, c.state, opts.Logger)

	calOpts := []calendar.Option{calendar.WithClock(opts.Clock)}
	if opts.LinkBase != "" {
		calOpts = append(calOpts, calendar.WithLinkBase(opts.LinkBase))
	}
	c.calendar = calendar.NewEngine(opts.API, opts.Logger, calOpts...)
	c.realtime = realtime.NewManager(opts.ServerURL, func() string { return c.token }, opts.Logger)

	c.coordinator = connectivity.NewCoordinator(c.state, c.syncService, opts.Store, opts.Store, opts.Logger,
		connectivity.WithSubscriptions(c.realtime),
		connectivity.WithNotifier(&printNotifier{io: opts.IO}),
		connectivity.WithRemount(c.resubscribe),
		connectivity.WithReconnect(c.resubscribe),
	)
}

// Commands возвращает команды клиента
func (c *Cli) Commands() []*cobra.Command {
	return []*cobra.Command{
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.writeCommand(),
		c.syncCommand(),
		c.queueCommand(),
		c.cacheCommand(),
		c.calendarCommand(),
		c.meetingCommand(),
		c.dataSaverCommand(),
		c.watchCommand(),
	}
}

// authenticate выбирает токен: явный из настроек или сохраненная сессия.
// Без токена команды работают анонимно, actor пуст.
func (c *Cli) authenticate(ctx context.Context) error {
	if c.token != "" {
		info, err := auth.ParseToken(c.token)
		if err != nil {
			return fmt.Errorf("invalid configured token: %w", err)
		}
		if c.actorID == "" {
			c.actorID = info.ActorID
		}
		c.apiClient.SetToken(c.token)
		return nil
	}

	session, err := c.authService.Session(ctx)
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return nil
	case errors.Is(err, auth.ErrTokenExpired):
		return fmt.Errorf("session expired, run 'missionflow login' again")
	case err != nil:
		return err
	}

	c.token = session.Token
	if c.actorID == "" {
		c.actorID = session.ActorID
	}
	c.apiClient.SetToken(session.Token)
	return nil
}

// requireActor требует идентифицированного пользователя
func (c *Cli) requireActor(ctx context.Context) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}
	if c.actorID == "" {
		return fmt.Errorf("not authenticated, run 'missionflow login' first")
	}
	return nil
}

// probe проверяет сеть и записывает результат в состояние
func (c *Cli) probe(ctx context.Context) bool {
	online := connectivity.NewProber(c.apiClient, c.probeInterval, c.logger).Probe(ctx)
	c.state.Update(func(s *state.AppState) { s.Online = online })
	return online
}

// printNotifier выводит итоги фоновой синхронизации
type printNotifier struct {
	io iocli.IO
}

func (n *printNotifier) SyncCompleted(result *clientsync.SyncResult) {
	if result == nil || result.Skipped {
		return
	}
	n.io.Printf("✓ Sync: %s\n", result.Summary())
}

func (n *printNotifier) SyncFailed(err error) {
	n.io.Printf("⚠️  Sync failed: %v\n", err)
}
