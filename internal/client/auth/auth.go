// Package auth хранит сессию клиента: bearer токен и идентификатор actor.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrNoActor          = errors.New("token has no actor claim")
	ErrTokenExpired     = errors.New("token has expired")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// TokenInfo данные, извлеченные из токена без проверки подписи
type TokenInfo struct {
	ExpiresAt time.Time
	ActorID   string
}

// ParseToken извлекает actor и срок действия из JWT.
// Подпись не проверяется: это делает сервер при каждом запросе.
func ParseToken(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.ActorID = sub
	} else if uid, ok := claims["user_id"].(string); ok {
		info.ActorID = uid
	}
	if info.ActorID == "" {
		return nil, ErrNoActor
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
