// Package server собирает HTTP API backend: REST коллекций, realtime и health.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/internal/server/handlers"
	"github.com/iudanet/missionflow/internal/server/jwt"
	"github.com/iudanet/missionflow/internal/server/middleware"
	"github.com/iudanet/missionflow/internal/server/storage"
)

// Store хранилище строк с проверкой доступности
type Store interface {
	storage.RecordStorage
	Ping(ctx context.Context) error
}

// Options зависимости HTTP API
type Options struct {
	Store      Store
	Tokens     *jwt.Service
	Logger     *slog.Logger
	Clock      clock.Clock
	Version    string
	RateLimit  int
	RateWindow time.Duration
}

// Server HTTP API backend
type Server struct {
	handler http.Handler
	hub     *handlers.Hub
	limiter *middleware.RateLimiter
}

const healthPath = "/api/v1/health"

// New собирает маршруты и цепочку middleware.
// RateLimit <= 0 отключает ограничение частоты.
func New(opts Options) *Server {
	s := &Server{hub: handlers.NewHub(opts.Logger)}

	auth := middleware.AuthMiddleware(opts.Logger, opts.Tokens)
	rest := handlers.NewRestHandler(opts.Logger, opts.Store, s.hub, opts.Clock)
	health := handlers.NewHealthHandler(opts.Logger, opts.Version, opts.Store)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.Handle("GET /api/v1/realtime", auth(http.HandlerFunc(s.hub.ServeWS)))
	rest.Register(mux, auth)

	var h http.Handler = mux
	if opts.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow, opts.Clock, opts.Logger)
		h = middleware.RateLimitMiddleware(s.limiter)(h)
	}
	h = middleware.LoggingWithSkip(opts.Logger, []string{healthPath})(h)
	h = middleware.RecoveryMiddleware(opts.Logger)(h)

	s.handler = h
	return s
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub возвращает realtime hub
func (s *Server) Hub() *handlers.Hub {
	return s.hub
}

// Close отключает realtime подписчиков и останавливает фоновые задачи
func (s *Server) Close() {
	s.hub.Close()
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
