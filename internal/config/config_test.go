package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"RALLY_ADDR", "RALLY_BACKEND_URL", "RALLY_APP_NAME", "RALLY_LOG_LEVEL", "RALLY_DATA_DIR", "RALLY_INIT_CONCURRENCY", "RALLY_REQUEST_TIMEOUT"} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())

	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.AppName != "Rallypoint" || cfg.BackendURL.String() != "http://localhost:8000" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.InitConcurrency != 4 || cfg.RequestTimeout != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.DataDir == "" {
		t.Error("data dir should default to something")
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RALLY_ADDR", ":9000")
	t.Setenv("RALLY_BACKEND_URL", "https://api.example.com/")
	t.Setenv("RALLY_LOG_LEVEL", "DEBUG")
	t.Setenv("RALLY_DATA_DIR", "/var/lib/rally")
	t.Setenv("RALLY_INIT_CONCURRENCY", "2")
	t.Setenv("RALLY_REQUEST_TIMEOUT", "3s")

	cfg, err := Load(":7000", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("flag should win, got %q", cfg.Addr)
	}
	if cfg.DataDir != "/var/lib/rally" || cfg.BackendURL.Host != "api.example.com" {
		t.Errorf("env not applied %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.InitConcurrency != 2 || cfg.RequestTimeout != 3*time.Second {
		t.Errorf("env not applied %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	tests := []struct {
		key, value string
	}{
		{"RALLY_BACKEND_URL", "not a url"},
		{"RALLY_INIT_CONCURRENCY", "0"},
		{"RALLY_REQUEST_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load("", ""); err == nil {
				t.Errorf("%s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
