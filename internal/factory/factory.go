package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/courtbook/internal/gateway"
	"github.com/mcoot/courtbook/internal/services/guard"
	"github.com/mcoot/courtbook/internal/services/session"
	"github.com/mcoot/courtbook/internal/storage"
	"github.com/mcoot/courtbook/internal/storage/file"
	"github.com/mcoot/courtbook/internal/storage/memory"
	redisstorage "github.com/mcoot/courtbook/internal/storage/redis"
	"github.com/mcoot/courtbook/internal/views"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// Remote API
	Gateway *gateway.Client

	// Session and access control
	Sessions *session.Store
	Guard    *guard.Guard

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Gateway configures the remote API client.
	// If BaseURL is empty, gateway.DefaultConfig() is used
	Gateway gateway.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects where the session is persisted ("file", "memory" or "redis")
	// If empty, defaults to "file"
	StorageType string
	// StateDir is the directory for file storage (required if StorageType is "file")
	StateDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeFile:
		if cfg.StateDir == "" {
			return nil, errors.New("StateDir required when StorageType is file")
		}
		store = file.New(cfg.StateDir)
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'file', 'memory' or 'redis'", storageType)
	}

	gwCfg := cfg.Gateway
	if gwCfg.BaseURL == "" {
		gwCfg = gateway.DefaultConfig()
	}

	app := newWithDependencies(store, gwCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, gwCfg gateway.Config, logger *slog.Logger) *App {
	client := gateway.NewClient(gwCfg, logger)
	sessions := session.NewStore(client, store, logger)
	client.SetCredentialSource(sessions)

	return &App{
		Storage:  store,
		Gateway:  client,
		Sessions: sessions,
		Guard:    guard.New(sessions),
	}
}

// Start restores any persisted session. Call once before using the views.
func (a *App) Start(ctx context.Context) session.Session {
	return a.Sessions.Rehydrate(ctx)
}

// Views returns the dependencies shared by every view
func (a *App) Views() views.Deps {
	return views.Deps{
		Gateway:  a.Gateway,
		Sessions: a.Sessions,
		Guard:    a.Guard,
	}
}

// Close releases connections held by the storage backend
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
