package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/voxdroid/tasktrack/internal/config"
	"github.com/voxdroid/tasktrack/internal/db"
)

// App holds the application state and dependencies. Lifecycle is owned by
// the process entry point: New opens everything, Close releases it.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Log      *slog.Logger
	lockFile *flock.Flock
}

// New creates a new application instance: it takes the single-instance lock
// on the data directory and opens the store.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default(db.DefaultDataDir())
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    logger,
	}

	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	backend := db.BackendFile
	if cfg.Database.Type == "memory" {
		backend = db.BackendMemory
	}

	database, err := db.Open(db.Options{
		Path:    cfg.DBPath(),
		Backend: backend,
		Logger:  logger,
	})
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = database

	if database.Degraded() {
		logger.Error("store is running degraded, data will not persist",
			"path", cfg.DBPath())
	}

	return a, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "tasktrack.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of tasktrack is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
