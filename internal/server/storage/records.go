package storage

import (
	"context"

	"github.com/iudanet/missionflow/pkg/api"
)

//go:generate moq -out records_mock.go . RecordStorage

// RecordStorage defines interface for collection rows persistence.
// Строка хранится как JSON-объект, поле "id" уникально в пределах коллекции.
type RecordStorage interface {
	// Insert stores a new row. An id is generated when the record has none.
	// Returns ErrRecordExists if a row with the same id exists.
	Insert(ctx context.Context, collection string, record api.Record) (api.Record, error)

	// Get retrieves a single row by id
	// Returns ErrRecordNotFound if the row doesn't exist
	Get(ctx context.Context, collection, id string) (api.Record, error)

	// Update merges patch fields into an existing row (shallow merge)
	// Returns ErrRecordNotFound if the row doesn't exist
	Update(ctx context.Context, collection, id string, patch api.Record) (api.Record, error)

	// Upsert inserts the row or merges fields into the existing one.
	// The second value reports whether a new row was created.
	Upsert(ctx context.Context, collection, id string, record api.Record) (api.Record, bool, error)

	// Delete removes a row. Deleting a missing row is not an error;
	// the returned flag reports whether something was removed.
	Delete(ctx context.Context, collection, id string) (bool, error)

	// Select returns rows matching the query filters, ordered and limited
	Select(ctx context.Context, collection string, q api.Query) ([]api.Record, error)
}
