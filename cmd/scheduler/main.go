package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/catalog"
	"github.com/example/room-scheduler/internal/config"
	httptransport "github.com/example/room-scheduler/internal/http"
	"github.com/example/room-scheduler/internal/logging"
	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/persistence/memory"
	"github.com/example/room-scheduler/internal/persistence/redisstore"
	"github.com/example/room-scheduler/internal/persistence/sqlite"
)

const serviceName = "room-scheduler"

func main() {
	bootstrap := logging.New(os.Stderr, slog.LevelInfo, serviceName)

	envFile := os.Getenv("SCHEDULER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		bootstrap.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, serviceName)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
	if err != nil {
		logger.Error("failed to listen", "port", cfg.HTTPPort, "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger, listener); err != nil {
		logger.Error("scheduler stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires the store and serves HTTP on listener until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, listener net.Listener) error {
	blobs, closer, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	rooms, err := loadRooms(cfg, logger)
	if err != nil {
		return err
	}

	var seed application.Seed
	if cfg.DemoSeed {
		seed = catalog.DemoSeed(time.Now().UTC())
	}

	store, err := application.OpenReservationStore(ctx, application.StoreDeps{
		Blobs:  blobs,
		Rooms:  rooms,
		Seed:   seed,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("open reservation store: %w", err)
	}
	defer store.Close()

	server := &http.Server{
		Handler:           newHandler(store, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("scheduler API listening", "addr", listener.Addr().String(), "storage", string(cfg.Storage))
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	<-shutdownDone
	logger.Info("scheduler API stopped")
	return nil
}

func newHandler(store *application.ReservationStore, cfg config.Config, logger *slog.Logger) http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:           httptransport.NewRoomHandler(store, httptransport.CalendarOptions{Months: cfg.CalendarMonths}, logger),
		Reservations:    httptransport.NewReservationHandler(store, logger),
		RecurringEvents: httptransport.NewRecurringEventHandler(store, logger),
		Health:          store,
		Logger:          logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})
}

// openBlobStore opens the configured backend. The returned closer releases it.
func openBlobStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.BlobStore, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.New()
		return store, store, nil
	case config.StorageRedis:
		store, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, store, nil
	case config.StorageSQLite, "":
		store, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("read sqlite schema version: %w", err)
		}
		logger.Info("sqlite storage ready", "dsn", cfg.SQLiteDSN, "schema_version", version)
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage)
	}
}

func loadRooms(cfg config.Config, logger *slog.Logger) ([]application.Room, error) {
	if cfg.RoomsFile == "" {
		return catalog.Default(), nil
	}
	rooms, err := catalog.Load(cfg.RoomsFile)
	if err != nil {
		return nil, err
	}
	logger.Info("room catalog loaded", "path", cfg.RoomsFile, "rooms", len(rooms))
	return rooms, nil
}
