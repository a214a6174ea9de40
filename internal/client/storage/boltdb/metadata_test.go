package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestSaveAndGetLastSync(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	// Изначально, если pass не выполнялся — ожидаем нулевое время
	at, err := store.GetLastSync(ctx)
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	expected := time.Date(2026, 3, 1, 10, 30, 0, 123, time.UTC)
	require.NoError(t, store.SaveLastSync(ctx, expected))

	at, err = store.GetLastSync(ctx)
	require.NoError(t, err)
	assert.True(t, expected.Equal(at))
}

func TestDataSaver_Persists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	enabled, err := store.GetDataSaver(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, store.SaveDataSaver(ctx, true))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	enabled, err = store.GetDataSaver(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, store.SaveDataSaver(ctx, false))
	enabled, err = store.GetDataSaver(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestGetLastSync_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetLastSync(ctx)
	assert.Error(t, err)
}
