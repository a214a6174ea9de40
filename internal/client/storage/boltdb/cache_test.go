package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/missionflow/internal/client/storage"
	"github.com/iudanet/missionflow/internal/models"
)

func TestPutAll_Overwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)
	fetched := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first := []models.CachedEntity{
		models.CachedTask{ID: "t-1", Title: "one", Synced: true, LastKnownGood: fetched},
		models.CachedTask{ID: "t-2", Title: "two", Synced: true, LastKnownGood: fetched},
	}
	require.NoError(t, store.PutAll(ctx, models.KindTasks, first))

	// Вторая выгрузка без t-1: локальная копия должна исчезнуть
	second := []models.CachedEntity{
		models.CachedTask{ID: "t-2", Title: "two v2", Synced: true, LastKnownGood: fetched},
		models.CachedTask{ID: "t-3", Title: "three", Synced: true, LastKnownGood: fetched},
	}
	require.NoError(t, store.PutAll(ctx, models.KindTasks, second))

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-2", tasks[0].ID)
	assert.Equal(t, "two v2", tasks[0].Title)
	assert.Equal(t, "t-3", tasks[1].ID)
	assert.True(t, tasks[1].Synced)

	n, err := store.CacheSize(ctx, models.KindTasks)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPutAll_EmptyClears(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	require.NoError(t, store.PutAll(ctx, models.KindNotifications, []models.CachedEntity{
		models.CachedNotification{ID: "n-1", Title: "hello"},
	}))
	require.NoError(t, store.PutAll(ctx, models.KindNotifications, nil))

	notifications, err := store.Notifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestPutAll_KindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	require.NoError(t, store.PutAll(ctx, models.KindMessages, []models.CachedEntity{
		models.CachedMessage{ID: "m-1", Content: "hi"},
	}))
	require.NoError(t, store.PutAll(ctx, models.KindTimesheets, []models.CachedEntity{
		models.CachedTimesheet{ID: "ts-1", Hours: 7.5},
	}))
	require.NoError(t, store.PutAll(ctx, models.KindDocuments, []models.CachedEntity{
		models.CachedDocument{ID: "d-1", Name: "plan.pdf"},
	}))

	messages, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)

	timesheets, err := store.Timesheets(ctx)
	require.NoError(t, err)
	require.Len(t, timesheets, 1)
	assert.InDelta(t, 7.5, timesheets[0].Hours, 0.001)

	documents, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "plan.pdf", documents[0].Name)
}

func TestPutAll_Errors(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	err := store.PutAll(ctx, "projects", nil)
	require.ErrorIs(t, err, storage.ErrUnknownKind)

	// Строка другого типа не принимается, прежнее содержимое сохраняется
	require.NoError(t, store.PutAll(ctx, models.KindTasks, []models.CachedEntity{
		models.CachedTask{ID: "t-1"},
	}))
	err = store.PutAll(ctx, models.KindTasks, []models.CachedEntity{
		models.CachedMessage{ID: "m-1"},
	})
	require.Error(t, err)

	tasks, err := store.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	require.NoError(t, store.PutAll(ctx, models.KindNotifications, []models.CachedEntity{
		models.CachedNotification{ID: "n-1", Title: "a"},
		models.CachedNotification{ID: "n-2", Title: "b"},
	}))

	all, err := store.GetAll(ctx, models.KindNotifications)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "n-1", all[0].EntityID())
	assert.Equal(t, models.KindNotifications, all[1].EntityKind())

	_, err = store.GetAll(ctx, "unknown")
	require.ErrorIs(t, err, storage.ErrUnknownKind)
}
