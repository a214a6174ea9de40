package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/missionflow/internal/client/connectivity"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

// watchedCollections коллекции с realtime подпиской в режиме watch
var watchedCollections = []string{
	models.CollectionNotifications,
	models.CollectionTasks,
	models.CollectionMeetings,
}

func (c *Cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay connected: sync on reconnect and print live notifications",
		Long: `Probes the backend periodically, drains the offline queue whenever the
connection comes back, and prints notifications as they arrive.

SIGUSR1 puts the client in the background (subscriptions close when data saver
is on), SIGUSR2 brings it back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := c.requireActor(ctx); err != nil {
				return err
			}
			return c.watch(ctx)
		},
	}
}

func (c *Cli) watch(ctx context.Context) error {
	// Канал не закрывается: обработчики подписок пишут в него без блокировки
	events := make(chan connectivity.Event, 8)
	c.events = events
	defer c.realtime.CloseAll()

	if err := c.coordinator.Mount(ctx, c.actorID); err != nil {
		return err
	}

	go connectivity.NewProber(c.apiClient, c.probeInterval, c.logger).Run(ctx, events)
	go forwardVisibility(ctx, events)

	c.resubscribe(ctx)

	c.io.Printf("Watching as %s. Press Ctrl+C to stop.\n", c.actorID)
	err := c.coordinator.Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resubscribe открывает подписки, которых еще нет
func (c *Cli) resubscribe(ctx context.Context) {
	for _, collection := range watchedCollections {
		if c.realtime.Subscribed(collection) {
			continue
		}
		if _, err := c.realtime.Subscribe(ctx, collection, c.onChange); err != nil {
			c.logger.Debug("Subscription failed", "collection", collection, "error", err)
		}
	}
}

// onChange реагирует на изменения из realtime канала
func (c *Cli) onChange(ev api.ChangeEvent) {
	switch ev.Collection {
	case models.CollectionNotifications:
		if ev.Type != api.ChangeInsert || ev.Record == nil {
			return
		}
		if uid, _ := ev.Record["user_id"].(string); uid != c.actorID {
			return
		}
		title, _ := ev.Record["title"].(string)
		c.io.Printf("🔔 %s\n", title)
	case models.CollectionMeetings:
		c.calendar.Invalidate()
	}

	// Изменение на сервере: обновляем кеш через проход синхронизации
	if events := c.events; events != nil {
		select {
		case events <- connectivity.EventSyncRequested:
		default:
		}
	}
}

func forwardVisibility(ctx context.Context, events chan<- connectivity.Event) {
	sigs := visibilitySignals()
	if len(sigs) == 0 {
		return
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			ev := connectivity.EventVisible
			if sig == sigs[0] {
				ev = connectivity.EventHidden
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
