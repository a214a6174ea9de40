package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate переводит тест в пустой каталог, чтобы не подхватить чужой .env
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 30*time.Second, cfg.Sync.ActionTimeout.Std())
}

func TestLoad_MissingFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Layers(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "missionflow.toml")
	writeFile(t, path, `
[server]
url = "https://file.example"

[database]
path = "file.db"

[sync]
action_timeout = "10s"

[log]
level = "debug"
`)
	writeFile(t, filepath.Join(dir, ".env"), "MISSIONFLOW_DB_PATH=dotenv.db\nMISSIONFLOW_TOKEN=dotenv-token\n")
	t.Setenv("MISSIONFLOW_TOKEN", "env-token")
	t.Setenv("MISSIONFLOW_PROBE_INTERVAL", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example", cfg.Server.URL)
	assert.Equal(t, "dotenv.db", cfg.Database.Path, ".env overrides file")
	assert.Equal(t, "env-token", cfg.Auth.Token, "environment overrides .env")
	assert.Equal(t, 10*time.Second, cfg.Sync.ActionTimeout.Std())
	assert.Equal(t, 5*time.Second, cfg.Sync.ProbeInterval.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr error
	}{
		{name: "bad toml", file: "[server\nurl=", wantErr: nil},
		{name: "bad duration in file", file: "[sync]\naction_timeout = \"soon\"\n", wantErr: nil},
		{name: "bad duration in env", env: map[string]string{"MISSIONFLOW_ACTION_TIMEOUT": "x"}, wantErr: nil},
		{name: "negative timeout", file: "[sync]\naction_timeout = \"-1s\"\n", wantErr: ErrInvalidDuration},
		{name: "empty url", file: "[server]\nurl = \" \"\n", wantErr: ErrServerURLRequired},
		{name: "empty db", file: "[database]\npath = \"\"\n", wantErr: ErrDatabaseRequired},
		{name: "bad level", env: map[string]string{"MISSIONFLOW_LOG_LEVEL": "loud"}, wantErr: ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.toml")
			writeFile(t, path, tt.file)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadServer(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "server.toml")
	writeFile(t, path, "addr = \":9090\"\nrate_limit = 10\ntoken_ttl = \"1h\"\n")
	t.Setenv("MISSIONFLOW_JWT_SECRET", "s3cret")
	t.Setenv("MISSIONFLOW_RATE_WINDOW", "30s")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Hour, cfg.TokenTTL.Std())
	assert.Equal(t, 30*time.Second, cfg.RateWindow.Std())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "missionflow.db", cfg.DBPath)
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := DefaultServer()
	assert.ErrorIs(t, cfg.Validate(), ErrSecretRequired)

	cfg.JWTSecret = "x"
	require.NoError(t, cfg.Validate())

	cfg.RateLimit = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidDuration)
}

func TestLoadServer_BadRateLimit(t *testing.T) {
	isolate(t)
	t.Setenv("MISSIONFLOW_RATE_LIMIT", "many")

	_, err := LoadServer("")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("trace")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
