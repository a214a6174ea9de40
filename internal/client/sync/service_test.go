package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/client/storage/boltdb"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestService(client httpClient.ClientAPI, store *boltdb.Storage, opts ...Option) Service {
	return NewService(client, store, store, store, testLogger(), opts...)
}

// emptySelect бэкенд без строк для обновления кеша
func emptySelect(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
	return nil, nil
}

func enqueueTasks(t *testing.T, store *boltdb.Storage, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := store.Enqueue(context.Background(), models.OperationCreate, "tasks", map[string]any{"n": i})
		require.NoError(t, err)
	}
}

// payloadN номер действия из payload (после JSON это float64)
func payloadN(record map[string]any) int {
	switch v := record["n"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return -1
}

func TestSync_AllSucceed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	enqueueTasks(t, store, 3)

	var order []int
	client := &httpClient.ClientAPIMock{
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			order = append(order, payloadN(record))
			return api.Record(record), nil
		},
		SelectFunc: emptySelect,
	}

	result, err := newTestService(client, store).Sync(ctx, "u-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 0, result.Errored)
	assert.Equal(t, 3, result.Purged)
	assert.False(t, result.Skipped)
	assert.True(t, result.CacheRefreshed)
	assert.Equal(t, "3 actions synced, 0 errors", result.Summary())
	assert.Equal(t, []int{1, 2, 3}, order, "actions are dispatched in enqueue order")

	all, err := store.ListActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "done actions are purged")

	last, err := store.GetLastSync(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestSync_FailuresAreIsolatedAndNotRetried(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	enqueueTasks(t, store, 5)

	attempts := map[int]int{}
	client := &httpClient.ClientAPIMock{
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			n := payloadN(record)
			attempts[n]++
			if n == 2 || n == 4 {
				return nil, &httpClient.Error{StatusCode: 400, Message: "bad row"}
			}
			return api.Record(record), nil
		},
		SelectFunc: emptySelect,
	}
	svc := newTestService(client, store)

	result, err := svc.Sync(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 2, result.Errored)
	assert.Equal(t, "3 actions synced, 2 errors", result.Summary())

	for n := 1; n <= 5; n++ {
		assert.Equal(t, 1, attempts[n], "action %d attempted exactly once", n)
	}

	failed, err := store.FailedActions(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 2)
	assert.Equal(t, 2, payloadN(failed[0].Payload))
	assert.Equal(t, 4, payloadN(failed[1].Payload))
	assert.Equal(t, "sync failed: create tasks: rejected by server (400)", failed[0].Error)
	assert.Equal(t, 1, failed[0].Attempts)

	// Второй проход не трогает действия с ошибкой
	result, err = svc.Sync(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Synced)
	assert.Zero(t, result.Errored)
	assert.Len(t, client.InsertCalls(), 5)

	count, err := store.FailedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSync_DispatchByOperation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Enqueue(ctx, models.OperationUpdate, "tasks", map[string]any{"id": "t-1", "status": "done"})
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, models.OperationUpsert, "timesheets", map[string]any{"id": "ts-1", "hours": 4})
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, models.OperationDelete, "messages", map[string]any{"id": "m-1"})
	require.NoError(t, err)

	client := &httpClient.ClientAPIMock{
		UpdateFunc: func(ctx context.Context, collection string, id string, patch map[string]any) (api.Record, error) {
			return api.Record{"id": id}, nil
		},
		UpsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			return api.Record(record), nil
		},
		DeleteFunc: func(ctx context.Context, collection string, id string) error {
			return nil
		},
		SelectFunc: emptySelect,
	}

	result, err := newTestService(client, store).Sync(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)

	require.Len(t, client.UpdateCalls(), 1)
	assert.Equal(t, "tasks", client.UpdateCalls()[0].Collection)
	assert.Equal(t, "t-1", client.UpdateCalls()[0].ID)

	require.Len(t, client.UpsertCalls(), 1)
	assert.Equal(t, "timesheets", client.UpsertCalls()[0].Collection)

	require.Len(t, client.DeleteCalls(), 1)
	assert.Equal(t, "messages", client.DeleteCalls()[0].Collection)
	assert.Equal(t, "m-1", client.DeleteCalls()[0].ID)
}

func TestApply_RequiresStringIdentity(t *testing.T) {
	client := &httpClient.ClientAPIMock{}

	tests := []struct {
		name    string
		op      models.Operation
		payload map[string]any
	}{
		{name: "update numeric id", op: models.OperationUpdate, payload: map[string]any{"id": 42.0}},
		{name: "delete bool id", op: models.OperationDelete, payload: map[string]any{"id": false}},
		{name: "delete empty id", op: models.OperationDelete, payload: map[string]any{"id": ""}},
		{name: "delete without id", op: models.OperationDelete, payload: map[string]any{}},
		{name: "upsert numeric id", op: models.OperationUpsert, payload: map[string]any{"id": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(context.Background(), client, tt.op, "tasks", tt.payload)
			require.ErrorIs(t, err, storage.ErrMissingIdentity)
		})
	}

	assert.Empty(t, client.UpdateCalls())
	assert.Empty(t, client.DeleteCalls())
	assert.Empty(t, client.UpsertCalls())
}

func TestSync_ActionTimeout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	enqueueTasks(t, store, 2)

	client := &httpClient.ClientAPIMock{
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			if payloadN(record) == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return api.Record(record), nil
		},
		SelectFunc: emptySelect,
	}

	result, err := newTestService(client, store, WithActionTimeout(20*time.Millisecond)).Sync(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Errored)

	failed, err := store.FailedActions(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "sync failed: create tasks: timed out", failed[0].Error)
}

func TestSync_TransportFailureReason(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	enqueueTasks(t, store, 1)

	client := &httpClient.ClientAPIMock{
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			return nil, &httpClient.TransportError{Err: errors.New("connection refused")}
		},
		SelectFunc: func(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
			return nil, &httpClient.TransportError{Err: errors.New("connection refused")}
		},
	}

	result, err := newTestService(client, store).Sync(ctx, "u-1")
	require.NoError(t, err, "per-action and refresh failures do not fail the pass")
	assert.Equal(t, 1, result.Errored)
	assert.False(t, result.CacheRefreshed)

	failed, err := store.FailedActions(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "sync failed: create tasks: transport failure", failed[0].Error)
}

func TestSync_EmptyQueueStillRefreshes(t *testing.T) {
	store := newTestStore(t)
	client := &httpClient.ClientAPIMock{SelectFunc: emptySelect}

	result, err := newTestService(client, store).Sync(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.True(t, result.CacheRefreshed)
	assert.Len(t, client.SelectCalls(), len(models.EntityKinds))
}

func TestSync_NoActorSkipsRefresh(t *testing.T) {
	store := newTestStore(t)
	client := &httpClient.ClientAPIMock{}

	result, err := newTestService(client, store).Sync(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, result.CacheRefreshed)
	assert.Empty(t, client.SelectCalls())
}

func TestSync_ConcurrentCallsShareOnePass(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	enqueueTasks(t, store, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	client := &httpClient.ClientAPIMock{
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			close(entered)
			<-release
			return api.Record(record), nil
		},
		SelectFunc: emptySelect,
	}
	svc := newTestService(client, store)

	type outcome struct {
		result *SyncResult
		err    error
	}
	results := make(chan outcome, 2)
	run := func() {
		r, err := svc.Sync(ctx, "u-1")
		results <- outcome{result: r, err: err}
	}

	go run()
	<-entered
	go run()
	// Даем второму вызову присоединиться к идущему проходу
	time.Sleep(50 * time.Millisecond)
	close(release)

	first := <-results
	second := <-results
	require.NoError(t, first.err)
	require.NoError(t, second.err)
	assert.Same(t, first.result, second.result)
	assert.Equal(t, 1, first.result.Synced)
	assert.Len(t, client.InsertCalls(), 1)
}

func TestSync_CancelledContextLeavesRemainingPending(t *testing.T) {
	store := newTestStore(t)
	enqueueTasks(t, store, 3)

	ctx, cancel := context.WithCancel(context.Background())
	client := &httpClient.ClientAPIMock{
		InsertFunc: func(_ context.Context, collection string, record map[string]any) (api.Record, error) {
			cancel()
			return api.Record(record), nil
		},
	}

	result, err := newTestService(client, store).Sync(ctx, "u-1")
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Synced)

	count, err := store.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRefreshCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	client := &httpClient.ClientAPIMock{
		SelectFunc: func(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
			require.Len(t, q.Filters, 1)
			assert.Equal(t, api.OpEq, q.Filters[0].Op)
			assert.Equal(t, "u-1", q.Filters[0].Value)

			switch collection {
			case "tasks":
				assert.Equal(t, "assigned_to", q.Filters[0].Field)
				return []api.Record{
					{"id": "t-1", "title": "Draft plan", "status": "todo", "assigned_to": "u-1"},
					{"title": "no id"},
				}, nil
			case "notifications":
				assert.Equal(t, "user_id", q.Filters[0].Field)
				return []api.Record{{"id": "n-1", "title": "Invite", "user_id": "u-1"}}, nil
			case "messages":
				assert.Equal(t, "recipient_id", q.Filters[0].Field)
			case "timesheets":
				assert.Equal(t, "user_id", q.Filters[0].Field)
			case "documents_metadata":
				assert.Equal(t, "uploaded_by", q.Filters[0].Field)
			default:
				t.Errorf("unexpected collection %s", collection)
			}
			return nil, nil
		},
	}

	require.NoError(t, newTestService(client, store).RefreshCache(ctx, "u-1"))

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "rows without id are skipped")
	assert.Equal(t, "Draft plan", tasks[0].Title)
	assert.True(t, tasks[0].Synced)

	notifications, err := store.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
}

func TestRefreshCache_FirstFailureAborts(t *testing.T) {
	store := newTestStore(t)
	client := &httpClient.ClientAPIMock{
		SelectFunc: func(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
			return nil, fmt.Errorf("boom")
		},
	}

	err := newTestService(client, store).RefreshCache(context.Background(), "u-1")
	require.Error(t, err)
	assert.Len(t, client.SelectCalls(), 1)
}
