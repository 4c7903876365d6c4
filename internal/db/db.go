package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// maxOpenAttempts bounds how many times file-backed acquisition is retried
// before degrading to a non-persistent in-memory store.
const maxOpenAttempts = 3

// Backend selects where the store keeps its data.
type Backend string

const (
	BackendFile   Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Options configures a DB.
type Options struct {
	// Path is the store file location. Ignored for BackendMemory.
	Path string
	// Backend defaults to BackendFile.
	Backend Backend
	// Logger receives recovery and statement-failure diagnostics.
	// Defaults to a discard logger.
	Logger *slog.Logger
	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// DB owns the single shared connection to the embedded store. The handle is
// lazily validated and replaced on failure; callers never observe a missing
// or half-replaced handle.
type DB struct {
	mu       sync.Mutex
	sql      *sql.DB
	path     string
	memory   bool
	degraded bool
	log      *slog.Logger
	now      func() time.Time
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasktrack"
	}
	return filepath.Join(home, ".local", "share", "tasktrack")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "tasktrack.db")
}

// Open acquires a store handle. For BackendFile the existing file is
// integrity-checked first and destructively recreated if corrupt; after
// maxOpenAttempts failures the DB degrades to an in-memory store so the
// caller always gets a usable handle. An error is returned only when even
// the in-memory fallback cannot be opened.
func Open(opts Options) (*DB, error) {
	d := &DB{
		path: opts.Path,
		log:  opts.Logger,
		now:  opts.Now,
	}
	if d.log == nil {
		d.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.now == nil {
		d.now = time.Now
	}

	if opts.Backend == BackendMemory {
		sqlDB, err := openMemory()
		if err != nil {
			return nil, err
		}
		d.sql = sqlDB
		d.memory = true
		return d, nil
	}

	if d.path == "" {
		d.path = DefaultDBPath()
	}
	if err := d.acquireLocked(); err != nil {
		return nil, err
	}
	return d, nil
}

// Handle returns the live connection, probing it first and reacquiring on
// failure. Returns nil only when reacquisition failed entirely, in which
// case the façade reports a statement failure instead of panicking.
func (d *DB) Handle() *sql.DB {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sql != nil {
		var one int
		err := d.sql.QueryRow("SELECT 1").Scan(&one)
		if err == nil {
			return d.sql
		}
		d.log.Warn("liveness probe failed, reacquiring store handle", "err", err)
		d.sql.Close()
		d.sql = nil
	}

	if d.memory {
		sqlDB, err := openMemory()
		if err != nil {
			d.log.Error("failed to reopen in-memory store", "err", err)
			return nil
		}
		d.sql = sqlDB
		return d.sql
	}

	if err := d.acquireLocked(); err != nil {
		d.log.Error("failed to reacquire store handle", "err", err)
		return nil
	}
	return d.sql
}

// Degraded reports whether the DB fell back to the non-persistent store
// after exhausting file-based acquisition attempts.
func (d *DB) Degraded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.degraded
}

// InMemory reports whether the store is non-persistent, either by
// configuration or by degraded fallback.
func (d *DB) InMemory() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.memory
}

// Path returns the configured store file path, empty for memory backends.
func (d *DB) Path() string {
	if d.memory {
		return ""
	}
	return d.path
}

// Close closes the underlying connection
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sql == nil {
		return nil
	}
	err := d.sql.Close()
	d.sql = nil
	return err
}

// acquireLocked runs the bounded acquisition loop. d.mu must be held.
// On exhausting all attempts it degrades to an in-memory store; data loss
// on repeated corruption is the accepted failure mode, not a crash.
func (d *DB) acquireLocked() error {
	for attempt := 1; attempt <= maxOpenAttempts; attempt++ {
		sqlDB, err := d.openFile()
		if err == nil {
			d.sql = sqlDB
			d.memory = false
			d.degraded = false
			return nil
		}
		d.log.Warn("store acquisition failed",
			"attempt", attempt, "path", d.path, "err", err)
		// Clean slate for the next attempt.
		d.removeStoreFiles()
	}

	d.log.Error("store acquisition exhausted, falling back to in-memory store",
		"path", d.path)
	sqlDB, err := openMemory()
	if err != nil {
		return fmt.Errorf("in-memory fallback: %w", err)
	}
	d.sql = sqlDB
	d.memory = true
	d.degraded = true
	return nil
}

// openFile performs one full acquisition attempt against the file path:
// verify any existing file, recreate it if corrupt, open with baseline
// pragmas, bootstrap the schema, then integrity-check the result.
func (d *DB) openFile() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(d.path); err == nil {
		if err := d.verifyExisting(); err != nil {
			d.log.Warn("existing store failed integrity check, recreating",
				"path", d.path, "err", err)
			d.removeStoreFiles()
		}
	}

	sqlDB, err := openConn(fileDSN(d.path))
	if err != nil {
		return nil, err
	}

	if err := bootstrap(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("schema bootstrap: %w", err)
	}

	if err := integrityCheck(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("post-init integrity check: %w", err)
	}

	return sqlDB, nil
}

// verifyExisting opens the existing file read-only and runs the engine's
// structural consistency verifier before trusting it.
func (d *DB) verifyExisting() error {
	ro, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", d.path))
	if err != nil {
		return err
	}
	defer ro.Close()
	return integrityCheck(ro)
}

// removeStoreFiles deletes the store file together with its write-ahead log
// and shared-memory sidecars. Sidecars must never outlive the main file.
func (d *DB) removeStoreFiles() {
	for _, p := range []string{d.path, d.path + "-wal", d.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.log.Warn("failed to remove store file", "path", p, "err", err)
		}
	}
}

// fileDSN applies the baseline configuration: WAL journal mode, foreign-key
// enforcement, a bounded page cache, and a busy timeout for lock contention.
func fileDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON&_cache_size=-8000",
		path)
}

func openConn(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return sqlDB, nil
}

func openMemory() (*sql.DB, error) {
	sqlDB, err := openConn("file::memory:?_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, err
	}
	if err := bootstrap(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("schema bootstrap: %w", err)
	}
	return sqlDB, nil
}

// bootstrap idempotently creates the schema using embedded SQL migrations.
// Goose runs each migration inside a transaction, so a statement failure
// rolls the whole migration back rather than leaving a partial schema.
func bootstrap(sqlDB *sql.DB) error {
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// integrityCheck runs the engine's built-in consistency verifier.
func integrityCheck(sqlDB *sql.DB) error {
	var result string
	if err := sqlDB.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported %q", result)
	}
	return nil
}

// Transaction executes a function within a transaction
func (d *DB) Transaction(fn func(*sql.Tx) error) error {
	h := d.Handle()
	if h == nil {
		return fmt.Errorf("no live store handle")
	}

	tx, err := h.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
