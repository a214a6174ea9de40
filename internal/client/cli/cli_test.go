package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/client/iocli"
	"github.com/iudanet/missionflow/internal/client/storage/boltdb"
	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/pkg/api"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// fakeBackend минимальный backend поверх ClientAPIMock
type fakeBackend struct {
	mock    *httpClient.ClientAPIMock
	rows    map[string][]api.Record
	reject  map[string]bool // reject коллекции, которые сервер отклоняет
	mu      sync.Mutex
	online  bool
	applied []string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{rows: map[string][]api.Record{}, reject: map[string]bool{}, online: true}
	unreachable := &httpClient.TransportError{Err: errors.New("connection refused")}

	write := func(op, collection string, record map[string]any) (api.Record, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.online {
			return nil, unreachable
		}
		if b.reject[collection] {
			return nil, &httpClient.Error{StatusCode: 400, Message: "rejected"}
		}
		b.applied = append(b.applied, op+" "+collection)
		return api.Record(record), nil
	}

	b.mock = &httpClient.ClientAPIMock{
		HealthFunc: func(ctx context.Context) (*api.HealthResponse, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if !b.online {
				return nil, unreachable
			}
			return &api.HealthResponse{Status: "ok"}, nil
		},
		InsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			return write("insert", collection, record)
		},
		UpdateFunc: func(ctx context.Context, collection, id string, patch map[string]any) (api.Record, error) {
			rec := map[string]any{"id": id}
			for k, v := range patch {
				rec[k] = v
			}
			return write("update", collection, rec)
		},
		UpsertFunc: func(ctx context.Context, collection string, record map[string]any) (api.Record, error) {
			return write("upsert", collection, record)
		},
		DeleteFunc: func(ctx context.Context, collection, id string) error {
			_, err := write("delete", collection, map[string]any{"id": id})
			return err
		},
		SelectFunc: func(ctx context.Context, collection string, q api.Query) ([]api.Record, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if !b.online {
				return nil, unreachable
			}
			return b.rows[collection], nil
		},
		SetTokenFunc: func(token string) {},
	}
	return b
}

func (b *fakeBackend) setOnline(v bool) {
	b.mu.Lock()
	b.online = v
	b.mu.Unlock()
}

// output собирает вывод IOMock
type output struct {
	b  strings.Builder
	mu sync.Mutex
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.b.String()
}

func newIO(out *output, answers ...string) *iocli.IOMock {
	var mu sync.Mutex
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.mu.Lock()
			fmt.Fprintln(&out.b, a...)
			out.mu.Unlock()
		},
		PrintfFunc: func(format string, a ...any) {
			out.mu.Lock()
			fmt.Fprintf(&out.b, format, a...)
			out.mu.Unlock()
		},
		WriteFunc: func(p []byte) (int, error) {
			out.mu.Lock()
			defer out.mu.Unlock()
			return out.b.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(answers) == 0 {
				return "", io.EOF
			}
			a := answers[0]
			answers = answers[1:]
			return a, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(answers) == 0 {
				return "", io.EOF
			}
			a := answers[0]
			answers = answers[1:]
			return a, nil
		},
	}
}

type fixture struct {
	cli     *Cli
	backend *fakeBackend
	store   *boltdb.Storage
	out     *output
	io      *iocli.IOMock
}

func newFixture(t *testing.T, token string, answers ...string) *fixture {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	backend := newFakeBackend()
	out := &output{}
	mockIO := newIO(out, answers...)

	c := New(Options{
		IO:            mockIO,
		API:           backend.mock,
		Store:         store,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})),
		Clock:         clock.Func(func() time.Time { return testNow }),
		ServerURL:     "http://127.0.0.1:1",
		Token:         token,
		ActionTimeout: time.Second,
		ProbeInterval: time.Second,
	})
	return &fixture{cli: c, backend: backend, store: store, out: out, io: mockIO}
}

func testToken(t *testing.T, actor string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": actor,
		"exp": testNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}
