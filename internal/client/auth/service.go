package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/clock"
)

//go:generate moq -out service_mock.go . Service

// Service manages the stored client session
type Service interface {
	// Login validates the token locally and stores it as the current session
	Login(ctx context.Context, token, serverURL string) (*storage.AuthData, error)

	// Session returns the current session
	// Returns ErrNotAuthenticated if nothing is stored and ErrTokenExpired if the token expired
	Session(ctx context.Context) (*storage.AuthData, error)

	// Logout removes the stored session
	Logout(ctx context.Context) error

	// IsAuthenticated reports whether a non-expired session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

type service struct {
	store  storage.AuthStorage
	clock  clock.Clock
	logger *slog.Logger
}

// NewService создает сервис сессии поверх хранилища
func NewService(store storage.AuthStorage, c clock.Clock, logger *slog.Logger) Service {
	if c == nil {
		c = clock.System
	}
	return &service{store: store, clock: c, logger: logger}
}

func (s *service) Login(ctx context.Context, token, serverURL string) (*storage.AuthData, error) {
	info, err := ParseToken(token)
	if err != nil {
		return nil, err
	}

	auth := &storage.AuthData{
		Token:     strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer ")),
		ActorID:   info.ActorID,
		ExpiresAt: info.ExpiresAt,
		ServerURL: serverURL,
	}
	if auth.Expired(s.clock.Now()) {
		return nil, ErrTokenExpired
	}

	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Session stored", "actor_id", auth.ActorID)
	return auth, nil
}

func (s *service) Session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if auth.Expired(s.clock.Now()) {
		return auth, ErrTokenExpired
	}
	return auth, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("Session removed")
	return nil
}

func (s *service) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.Session(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrTokenExpired):
		return false, nil
	}
	return false, err
}
