package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/missionflow/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFeedServer отдает одно событие и держит соединение до закрытия клиентом
func newFeedServer(t *testing.T, event api.ChangeEvent) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/realtime", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		event.Collection = r.URL.Query().Get("collection")
		if err := conn.WriteJSON(event); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestManager_SubscribeReceivesEvents(t *testing.T) {
	server := newFeedServer(t, api.ChangeEvent{
		Type:   api.ChangeInsert,
		Record: api.Record{"id": "n-1", "title": "hello"},
	})
	defer server.Close()

	m := NewManager(server.URL, func() string { return "secret" }, testLogger())

	received := make(chan api.ChangeEvent, 1)
	sub, err := m.Subscribe(context.Background(), "notifications", func(e api.ChangeEvent) {
		received <- e
	})
	require.NoError(t, err)
	assert.Equal(t, "notifications", sub.Collection())
	assert.Equal(t, 1, m.Active())

	select {
	case e := <-received:
		assert.Equal(t, api.ChangeInsert, e.Type)
		assert.Equal(t, "notifications", e.Collection)
		assert.Equal(t, "n-1", e.Record.ID())
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	assert.Equal(t, 0, m.Active())
}

func TestManager_CloseAll(t *testing.T) {
	server := newFeedServer(t, api.ChangeEvent{Type: api.ChangeUpdate})
	defer server.Close()

	m := NewManager(server.URL, func() string { return "secret" }, testLogger())
	ctx := context.Background()

	first, err := m.Subscribe(ctx, "tasks", nil)
	require.NoError(t, err)
	second, err := m.Subscribe(ctx, "messages", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Active())

	assert.True(t, m.Subscribed("tasks"))
	assert.False(t, m.Subscribed("notifications"))

	assert.Equal(t, 2, m.CloseAll())
	assert.Equal(t, 0, m.Active())
	assert.False(t, m.Subscribed("tasks"))
	assert.Equal(t, 0, m.CloseAll())

	for _, sub := range []*Subscription{first, second} {
		select {
		case <-sub.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("subscription read loop did not stop")
		}
	}
}

func TestManager_ServerGone(t *testing.T) {
	server := newFeedServer(t, api.ChangeEvent{Type: api.ChangeDelete})
	url := server.URL
	server.Close()

	m := NewManager(url, nil, testLogger())
	_, err := m.Subscribe(context.Background(), "tasks", nil)
	require.Error(t, err)
	assert.Equal(t, 0, m.Active())
}

func TestManager_Endpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8080", want: "ws://localhost:8080/api/v1/realtime?collection=tasks"},
		{name: "https with path", baseURL: "https://example.com/mf/", want: "wss://example.com/mf/api/v1/realtime?collection=tasks"},
		{name: "bad scheme", baseURL: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewManager(tt.baseURL, nil, testLogger()).endpoint("tasks")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
