package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// ActorIDKey ключ для хранения actor в контексте
const ActorIDKey contextKey = "actor_id"

// WithActor кладет actor в контекст запроса
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorIDKey, actorID)
}

// GetActorID извлекает actor из контекста запроса
func GetActorID(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(ActorIDKey).(string)
	return actorID, ok && actorID != ""
}
