package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/missionflow/internal/client/storage"
)

func TestAuth_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStorage(t)

	_, err := store.GetAuth(ctx)
	require.ErrorIs(t, err, storage.ErrAuthNotFound)

	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	auth := &storage.AuthData{Token: "tok", ActorID: "u-1", ExpiresAt: expires, ServerURL: "http://srv"}
	require.NoError(t, store.SaveAuth(ctx, auth))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "u-1", got.ActorID)
	assert.Equal(t, "http://srv", got.ServerURL)
	assert.True(t, expires.Equal(got.ExpiresAt))

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{Token: "tok2", ActorID: "u-2"}))
	got, err = store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-2", got.ActorID)
	assert.True(t, got.ExpiresAt.IsZero())

	require.NoError(t, store.DeleteAuth(ctx))
	require.NoError(t, store.DeleteAuth(ctx))
	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestAuth_Nil(t *testing.T) {
	store, _ := newTestStorage(t)
	assert.Error(t, store.SaveAuth(context.Background(), nil))
}

func TestAuthData_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&storage.AuthData{}).Expired(now))
	assert.False(t, (&storage.AuthData{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&storage.AuthData{ExpiresAt: now}).Expired(now))
}
