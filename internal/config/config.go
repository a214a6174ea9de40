// Package config загружает настройки клиента и сервера MissionFlow.
//
// Порядок слоев: значения по умолчанию, TOML файл, .env, переменные
// окружения MISSIONFLOW_*. Флаги командной строки применяются вызывающим кодом.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "MISSIONFLOW_"

var (
	ErrServerURLRequired = errors.New("server url is required")
	ErrDatabaseRequired  = errors.New("database path is required")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidLogLevel   = errors.New("unknown log level")
	ErrSecretRequired    = errors.New("jwt secret is required")
)

// Duration time.Duration, который читается из TOML строкой вида "30s"
type Duration time.Duration

// UnmarshalText разбирает строку time.ParseDuration
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText форматирует длительность для TOML
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std возвращает значение как time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config настройки клиента
type Config struct {
	Server   ServerRef      `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Sync     SyncConfig     `toml:"sync"`
}

// ServerRef адрес backend
type ServerRef struct {
	URL string `toml:"url"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig токен доступа. ActorID извлекается из токена, если не задан.
type AuthConfig struct {
	Token   string `toml:"token"`
	ActorID string `toml:"actor_id"`
}

type SyncConfig struct {
	ActionTimeout Duration `toml:"action_timeout"`
	ProbeInterval Duration `toml:"probe_interval"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default настройки клиента по умолчанию
func Default() Config {
	return Config{
		Server:   ServerRef{URL: "http://localhost:8080"},
		Database: DatabaseConfig{Path: "missionflow-client.db"},
		Sync: SyncConfig{
			ActionTimeout: Duration(30 * time.Second),
			ProbeInterval: Duration(15 * time.Second),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load читает настройки клиента. Отсутствующий файл не является ошибкой.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}

	env, err := readEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return ErrServerURLRequired
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return ErrDatabaseRequired
	}
	if c.Sync.ActionTimeout <= 0 || c.Sync.ProbeInterval <= 0 {
		return ErrInvalidDuration
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnv(env map[string]string) error {
	setString(env, "SERVER_URL", &c.Server.URL)
	setString(env, "DB_PATH", &c.Database.Path)
	setString(env, "TOKEN", &c.Auth.Token)
	setString(env, "ACTOR_ID", &c.Auth.ActorID)
	setString(env, "LOG_LEVEL", &c.Log.Level)
	if err := setDuration(env, "ACTION_TIMEOUT", &c.Sync.ActionTimeout); err != nil {
		return err
	}
	return setDuration(env, "PROBE_INTERVAL", &c.Sync.ProbeInterval)
}

// ServerConfig настройки сервера
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	DBPath     string   `toml:"db_path"`
	JWTSecret  string   `toml:"jwt_secret"`
	LogLevel   string   `toml:"log_level"`
	TokenTTL   Duration `toml:"token_ttl"`
	RateWindow Duration `toml:"rate_window"`
	RateLimit  int      `toml:"rate_limit"`
}

// DefaultServer настройки сервера по умолчанию
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:       ":8080",
		DBPath:     "missionflow.db",
		LogLevel:   "info",
		TokenTTL:   Duration(24 * time.Hour),
		RateLimit:  100,
		RateWindow: Duration(time.Minute),
	}
}

// LoadServer читает настройки сервера
func LoadServer(path string) (ServerConfig, error) {
	cfg := DefaultServer()
	if err := decodeFile(path, &cfg); err != nil {
		return ServerConfig{}, err
	}

	env, err := readEnv()
	if err != nil {
		return ServerConfig{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate проверяет настройки сервера
func (c ServerConfig) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return ErrDatabaseRequired
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrSecretRequired
	}
	if c.TokenTTL <= 0 || c.RateWindow <= 0 || c.RateLimit <= 0 {
		return ErrInvalidDuration
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *ServerConfig) applyEnv(env map[string]string) error {
	setString(env, "ADDR", &c.Addr)
	setString(env, "SERVER_DB_PATH", &c.DBPath)
	setString(env, "JWT_SECRET", &c.JWTSecret)
	setString(env, "LOG_LEVEL", &c.LogLevel)
	if err := setDuration(env, "TOKEN_TTL", &c.TokenTTL); err != nil {
		return err
	}
	if err := setDuration(env, "RATE_WINDOW", &c.RateWindow); err != nil {
		return err
	}
	if v, ok := env["RATE_LIMIT"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit = n
	}
	return nil
}

func decodeFile(path string, out any) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return nil
	}

	if err := toml.Unmarshal(content, out); err != nil {
		return fmt.Errorf("decode toml: %w", err)
	}
	return nil
}

// readEnv собирает MISSIONFLOW_* из .env и окружения.
// Переменные окружения имеют приоритет над .env.
func readEnv() (map[string]string, error) {
	env := make(map[string]string)

	dotenv, err := godotenv.Read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	for k, v := range dotenv {
		if key, ok := strings.CutPrefix(k, EnvPrefix); ok {
			env[key] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if key, ok := strings.CutPrefix(k, EnvPrefix); ok {
			env[key] = v
		}
	}
	return env, nil
}

func setString(env map[string]string, key string, dst *string) {
	if v, ok := env[key]; ok && v != "" {
		*dst = v
	}
}

func setDuration(env map[string]string, key string, dst *Duration) error {
	v, ok := env[key]
	if !ok || v == "" {
		return nil
	}
	var d Duration
	if err := d.UnmarshalText([]byte(v)); err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = d
	return nil
}
