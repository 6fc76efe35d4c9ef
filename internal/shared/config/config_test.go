package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "PORT", "PUBLIC_BASE_URL", "SHORT_ID_LENGTH", "COUNTER_MODE", "OPEN_DELAY", "MAX_UPLOAD_BYTES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.ShortIDLength != 8 {
		t.Fatalf("expected short id length 8, got %d", cfg.ShortIDLength)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.OpenDelay != 2*time.Second {
		t.Fatalf("expected 2s open delay, got %s", cfg.OpenDelay)
	}
	if cfg.CounterMode != CounterModeAtomic {
		t.Fatalf("expected atomic counter mode, got %q", cfg.CounterMode)
	}
	if cfg.PublicBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected public base url %q", cfg.PublicBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("PUBLIC_BASE_URL", "https://res.example/")
	t.Setenv("COUNTER_MODE", "last-read")
	t.Setenv("OPEN_DELAY", "500ms")
	t.Setenv("SHORT_ID_LENGTH", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.PublicBaseURL != "https://res.example" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
	if cfg.CounterMode != CounterModeLastRead {
		t.Fatalf("expected last_read, got %q", cfg.CounterMode)
	}
	if cfg.OpenDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %s", cfg.OpenDelay)
	}
	if cfg.ShortIDLength != 8 {
		t.Fatalf("expected fallback to 8, got %d", cfg.ShortIDLength)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TOP_RESUMES_LIMIT=3\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("TOP_RESUMES_LIMIT", "")
	os.Unsetenv("TOP_RESUMES_LIMIT")

	cfg := Load()
	if cfg.TopResumesLimit != 3 {
		t.Fatalf("expected TOP_RESUMES_LIMIT from .env, got %d", cfg.TopResumesLimit)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected environment to win, got %q", cfg.LogLevel)
	}
}
