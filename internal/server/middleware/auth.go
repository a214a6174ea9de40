package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/missionflow/internal/server/handlers"
	"github.com/iudanet/missionflow/internal/server/jwt"
)

// TokenValidator проверяет bearer токен
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				// сам заголовок не логируем: в нем может быть секрет
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(w, "invalid token format")
				return
			}

			claims, err := validator.ValidateAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "invalid token: expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			actorID := claims.Actor()
			logger.Debug("Actor authenticated", "actor_id", actorID)
			if rw, ok := w.(*responseWriter); ok {
				rw.actorID = actorID
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithActor(r.Context(), actorID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="missionflow"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
}
