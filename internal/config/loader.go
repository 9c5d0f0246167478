package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StorageBackend selects where the reservation collections are persisted.
type StorageBackend string

// Supported storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config captures environment driven configuration values for the scheduler service.
type Config struct {
	HTTPPort        int
	Storage         StorageBackend
	SQLiteDSN       string
	Redis           RedisConfig
	RoomsFile       string
	DemoSeed        bool
	CalendarMonths  int
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

// LoadEnvFile loads variables from a dotenv file without overriding values
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("環境ファイルを読み込めません (%s): %w", path, err)
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields and reports every missing
// or invalid variable at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		Storage:         StorageSQLite,
		SQLiteDSN:       "scheduler.db",
		Redis:           RedisConfig{Prefix: "room-scheduler:"},
		CalendarMonths:  3,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: 10 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := env("SCHEDULER_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if storage := env("SCHEDULER_STORAGE"); storage != "" {
		switch backend := StorageBackend(strings.ToLower(storage)); backend {
		case StorageSQLite, StorageRedis, StorageMemory:
			cfg.Storage = backend
		default:
			invalid = append(invalid, "SCHEDULER_STORAGE")
		}
	}

	if dsn := env("SCHEDULER_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.Redis.Addr = env("SCHEDULER_REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("SCHEDULER_REDIS_PASSWORD")
	if cfg.Storage == StorageRedis && cfg.Redis.Addr == "" {
		missing = append(missing, "SCHEDULER_REDIS_ADDR")
	}
	if dbValue := env("SCHEDULER_REDIS_DB"); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "SCHEDULER_REDIS_DB")
		} else {
			cfg.Redis.DB = db
		}
	}
	if prefix := env("SCHEDULER_REDIS_PREFIX"); prefix != "" {
		cfg.Redis.Prefix = prefix
	}

	cfg.RoomsFile = env("SCHEDULER_ROOMS_FILE")

	if seedValue := env("SCHEDULER_DEMO_SEED"); seedValue != "" {
		seed, err := strconv.ParseBool(seedValue)
		if err != nil {
			invalid = append(invalid, "SCHEDULER_DEMO_SEED")
		} else {
			cfg.DemoSeed = seed
		}
	}

	if monthsValue := env("SCHEDULER_CALENDAR_MONTHS"); monthsValue != "" {
		months, err := strconv.Atoi(monthsValue)
		if err != nil || months < 1 || months > 24 {
			invalid = append(invalid, "SCHEDULER_CALENDAR_MONTHS")
		} else {
			cfg.CalendarMonths = months
		}
	}

	if levelValue := env("SCHEDULER_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "SCHEDULER_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if timeoutValue := env("SCHEDULER_SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "SCHEDULER_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
