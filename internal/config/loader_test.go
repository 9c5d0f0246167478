package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	"SCHEDULER_HTTP_PORT",
	"SCHEDULER_STORAGE",
	"SCHEDULER_SQLITE_DSN",
	"SCHEDULER_REDIS_ADDR",
	"SCHEDULER_REDIS_PASSWORD",
	"SCHEDULER_REDIS_DB",
	"SCHEDULER_REDIS_PREFIX",
	"SCHEDULER_ROOMS_FILE",
	"SCHEDULER_DEMO_SEED",
	"SCHEDULER_CALENDAR_MONTHS",
	"SCHEDULER_LOG_LEVEL",
	"SCHEDULER_SHUTDOWN_TIMEOUT",
}

// clearEnv blanks every scheduler variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Storage != StorageSQLite {
			t.Fatalf("expected sqlite storage by default, got %q", cfg.Storage)
		}
		if cfg.SQLiteDSN != "scheduler.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Redis.Prefix != "room-scheduler:" {
			t.Fatalf("unexpected default redis prefix: %q", cfg.Redis.Prefix)
		}
		if cfg.CalendarMonths != 3 || cfg.DemoSeed || cfg.LogLevel != slog.LevelInfo {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("errors when redis address is missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCHEDULER_STORAGE", "redis")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "必須の環境変数が設定されていません: SCHEDULER_REDIS_ADDR"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("collects every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCHEDULER_HTTP_PORT", "http")
		t.Setenv("SCHEDULER_STORAGE", "postgres")
		t.Setenv("SCHEDULER_CALENDAR_MONTHS", "0")
		t.Setenv("SCHEDULER_LOG_LEVEL", "chatty")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "環境変数の値が不正です: SCHEDULER_HTTP_PORT, SCHEDULER_STORAGE, SCHEDULER_CALENDAR_MONTHS, SCHEDULER_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses redis and numeric fields", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCHEDULER_HTTP_PORT", "9090")
		t.Setenv("SCHEDULER_STORAGE", "Redis")
		t.Setenv("SCHEDULER_REDIS_ADDR", "localhost:6379")
		t.Setenv("SCHEDULER_REDIS_PASSWORD", "secret")
		t.Setenv("SCHEDULER_REDIS_DB", "2")
		t.Setenv("SCHEDULER_REDIS_PREFIX", "church:")
		t.Setenv("SCHEDULER_ROOMS_FILE", "/etc/scheduler/rooms.yaml")
		t.Setenv("SCHEDULER_DEMO_SEED", "true")
		t.Setenv("SCHEDULER_CALENDAR_MONTHS", "6")
		t.Setenv("SCHEDULER_LOG_LEVEL", "debug")
		t.Setenv("SCHEDULER_SHUTDOWN_TIMEOUT", "3s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		want := RedisConfig{Addr: "localhost:6379", Password: "secret", DB: 2, Prefix: "church:"}
		if cfg.Storage != StorageRedis || cfg.Redis != want {
			t.Fatalf("unexpected redis config: %q %+v", cfg.Storage, cfg.Redis)
		}
		if cfg.RoomsFile != "/etc/scheduler/rooms.yaml" || !cfg.DemoSeed || cfg.CalendarMonths != 6 {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.LogLevel != slog.LevelDebug || cfg.ShutdownTimeout != 3*time.Second {
			t.Fatalf("unexpected level or timeout: %s %s", cfg.LogLevel, cfg.ShutdownTimeout)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {

	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Fatalf("expected missing file to be ignored, got %v", err)
		}
		if err := LoadEnvFile(""); err != nil {
			t.Fatalf("expected empty path to be ignored, got %v", err)
		}
	})

	t.Run("does not override existing variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCHEDULER_HTTP_PORT", "7070")
		// Unset so the file value can land; t.Setenv restores it afterwards.
		if err := os.Unsetenv("SCHEDULER_STORAGE"); err != nil {
			t.Fatalf("failed to unset: %v", err)
		}

		path := filepath.Join(t.TempDir(), ".env")
		content := "SCHEDULER_HTTP_PORT=9999\nSCHEDULER_STORAGE=memory\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile returned error: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 7070 {
			t.Fatalf("expected existing port to win, got %d", cfg.HTTPPort)
		}
		if cfg.Storage != StorageMemory {
			t.Fatalf("expected storage from env file, got %q", cfg.Storage)
		}
	})
}
