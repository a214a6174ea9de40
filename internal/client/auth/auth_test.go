package auth

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/missionflow/internal/client/storage/boltdb"
	"github.com/iudanet/missionflow/internal/clock"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestService(t *testing.T) Service {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, clock.Func(func() time.Time { return now }), logger)
}

func TestParseToken(t *testing.T) {
	exp := now.Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name      string
		token     string
		wantActor string
		wantErr   error
	}{
		{
			name:      "subject",
			token:     signed(t, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()}),
			wantActor: "u-1",
		},
		{
			name:      "user_id claim",
			token:     signed(t, jwt.MapClaims{"user_id": "u-2"}),
			wantActor: "u-2",
		},
		{
			name:      "bearer prefix",
			token:     "Bearer " + signed(t, jwt.MapClaims{"sub": "u-3"}),
			wantActor: "u-3",
		},
		{name: "empty", token: "  ", wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "no actor", token: signed(t, jwt.MapClaims{"role": "admin"}), wantErr: ErrNoActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseToken(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActor, info.ActorID)
		})
	}

	info, err := ParseToken(tests[0].token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(info.ExpiresAt))
}

func TestService_LoginSessionLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	ok, err := svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Session(ctx)
	require.ErrorIs(t, err, ErrNotAuthenticated)

	token := signed(t, jwt.MapClaims{"sub": "u-1", "exp": now.Add(time.Hour).Unix()})
	auth, err := svc.Login(ctx, token, "http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "u-1", auth.ActorID)
	assert.Equal(t, token, auth.Token)

	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.ActorID)
	assert.Equal(t, "http://localhost:8080", session.ServerURL)

	ok, err = svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Logout(ctx))
	ok, err = svc.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_LoginExpired(t *testing.T) {
	svc := newTestService(t)

	token := signed(t, jwt.MapClaims{"sub": "u-1", "exp": now.Add(-time.Minute).Unix()})
	_, err := svc.Login(context.Background(), token, "")
	require.ErrorIs(t, err, ErrTokenExpired)

	ok, err := svc.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
