package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	BackendURL      *url.URL
	AppName         string
	LogLevel        slog.Level
	DataDir         string
	InitConcurrency int
	RequestTimeout  time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads RALLY_* settings from the environment, after loading .env
// when one exists. Flags given on the command line win over the
// environment; empty flags fall through to it.
func Load(flagAddr, flagDataDir string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:    flagAddr,
		AppName: getEnv("RALLY_APP_NAME", "Rallypoint"),
		DataDir: flagDataDir,
	}
	if cfg.Addr == "" {
		cfg.Addr = getEnv("RALLY_ADDR", ":8080")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = getEnv("RALLY_DATA_DIR", defaultDataDir())
	}

	backend, err := url.Parse(getEnv("RALLY_BACKEND_URL", "http://localhost:8000"))
	if err != nil || backend.Scheme == "" || backend.Host == "" {
		return cfg, fmt.Errorf("RALLY_BACKEND_URL must be an absolute URL, got %q", os.Getenv("RALLY_BACKEND_URL"))
	}
	cfg.BackendURL = backend

	cfg.LogLevel = ParseLevel(getEnv("RALLY_LOG_LEVEL", "info"))

	cfg.InitConcurrency, err = strconv.Atoi(getEnv("RALLY_INIT_CONCURRENCY", "4"))
	if err != nil || cfg.InitConcurrency < 1 {
		return cfg, fmt.Errorf("RALLY_INIT_CONCURRENCY must be a positive integer")
	}

	cfg.RequestTimeout, err = time.ParseDuration(getEnv("RALLY_REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return cfg, fmt.Errorf("RALLY_REQUEST_TIMEOUT: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the process logger: text to stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "rallypoint"
	}
	return ".rallypoint"
}
