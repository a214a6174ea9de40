package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the client session
type AuthStorage interface {
	// SaveAuth stores the session, replacing the previous one
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthData сессия клиента: bearer токен и извлеченный из него actor
type AuthData struct {
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Token     string    `json:"token"`
	ActorID   string    `json:"actor_id"`
	ServerURL string    `json:"server_url,omitempty"`
}

// Expired сообщает, истек ли токен к моменту now.
// Токен без срока действия не истекает.
func (a *AuthData) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}
