package connectivity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/pkg/api"
)

func TestProber_EmitsOnlyTransitions(t *testing.T) {
	// ok, ok, fail, fail, затем всегда ok
	script := []bool{true, true, false, false}
	calls := 0
	client := &httpClient.ClientAPIMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			up := true
			if calls < len(script) {
				up = script[calls]
			}
			calls++
			if !up {
				return nil, &httpClient.TransportError{Err: errors.New("refused")}
			}
			return &api.HealthResponse{Status: "ok"}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event)
	done := make(chan struct{})
	go func() {
		NewProber(client, 5*time.Millisecond, testLogger()).Run(ctx, out)
		close(done)
	}()

	var got []Event
	for len(got) < 3 {
		select {
		case ev := <-out:
			got = append(got, ev)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for events, got %v", got)
		}
	}
	cancel()
	<-done

	assert.Equal(t, []Event{EventOnline, EventOffline, EventOnline}, got)
	// Между событиями были пробы без смены состояния
	assert.GreaterOrEqual(t, len(client.HealthCalls()), 5)
}

func TestProber_FirstProbeAlwaysEmits(t *testing.T) {
	client := &httpClient.ClientAPIMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			return nil, errors.New("down")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event, 1)
	go NewProber(client, time.Hour, testLogger()).Run(ctx, out)

	select {
	case ev := <-out:
		assert.Equal(t, EventOffline, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial event")
	}
}

func TestProber_Probe(t *testing.T) {
	tests := []struct {
		resp *api.HealthResponse
		err  error
		name string
		want bool
	}{
		{name: "ok", resp: &api.HealthResponse{Status: "ok"}, want: true},
		{name: "degraded", resp: &api.HealthResponse{Status: "degraded"}, want: false},
		{name: "error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &httpClient.ClientAPIMock{
				HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
					_, hasDeadline := ctx.Deadline()
					require.True(t, hasDeadline)
					return tt.resp, tt.err
				},
			}
			assert.Equal(t, tt.want, NewProber(client, time.Second, testLogger()).Probe(context.Background()))
		})
	}
}
