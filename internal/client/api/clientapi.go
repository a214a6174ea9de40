package api

import (
	"context"

	"github.com/iudanet/missionflow/pkg/api"
)

//go:generate moq -out clientapi_mock.go . ClientAPI

// ClientAPI определяет операции удаленного бэкенда, которые использует клиент
type ClientAPI interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	Insert(ctx context.Context, collection string, record map[string]any) (api.Record, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) (api.Record, error)
	Upsert(ctx context.Context, collection string, record map[string]any) (api.Record, error)
	Delete(ctx context.Context, collection, id string) error
	Select(ctx context.Context, collection string, q api.Query) ([]api.Record, error)
	SetToken(token string)
}

var _ ClientAPI = (*Client)(nil)
