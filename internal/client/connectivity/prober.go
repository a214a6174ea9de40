package connectivity

import (
	"context"
	"log/slog"
	"time"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
)

// DefaultProbeInterval период проверки доступности сервера
const DefaultProbeInterval = 15 * time.Second

const maxProbeTimeout = 5 * time.Second

// Prober периодически проверяет сервер и сообщает о смене доступности
type Prober struct {
	client   httpClient.ClientAPI
	logger   *slog.Logger
	interval time.Duration
}

// NewProber создает проверку доступности с периодом interval
func NewProber(client httpClient.ClientAPI, interval time.Duration, logger *slog.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{client: client, logger: logger, interval: interval}
}

// Probe выполняет одну проверку
func (p *Prober) Probe(ctx context.Context) bool {
	timeout := min(p.interval, maxProbeTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.Health(ctx)
	if err != nil {
		p.logger.Debug("Health probe failed", "error", err)
		return false
	}
	return resp != nil && resp.Status == "ok"
}

// Run проверяет сервер сразу и затем каждые interval.
// В out отправляются только изменения доступности; первое состояние отправляется всегда.
func (p *Prober) Run(ctx context.Context, out chan<- Event) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var known, online bool
	for {
		up := p.Probe(ctx)
		if !known || up != online {
			known, online = true, up
			ev := EventOffline
			if up {
				ev = EventOnline
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
