// Package sqlite implements the imgspace storage layer on SQLite.
//
// A Backend owns one database handle. The schema functions create and drop
// the table set, the repository functions insert and query entities, and the
// mapper functions write associations between images and labels, sets and
// streams. Writes report their outcome as a types.Result instead of an error.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/healerjang/imgspace/pkg/types"
)

// busyTimeoutMillis is how long a statement waits on a locked database.
const busyTimeoutMillis = 5000

// Backend owns the SQLite handle. The handle is opened on the first call to
// Conn and released by Close; a later Conn reopens it.
type Backend struct {
	mu      sync.Mutex
	config  types.Config
	db      *sql.DB
	adopted bool
	logger  *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for operation failures and lifecycle
// events. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a Backend for cfg. It performs no I/O.
func NewBackend(cfg types.Config, opts ...Option) *Backend {
	b := &Backend{
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBackendFromDB wraps an already open handle. The Backend takes ownership
// of db; once closed it cannot be reopened and Conn returns ErrDetached.
func NewBackendFromDB(db *sql.DB, opts ...Option) *Backend {
	b := NewBackend(types.Config{Backend: types.BackendSQLite}, opts...)
	b.db = db
	b.adopted = true
	return b
}

// Conn returns the live handle, opening it on first use. Opening creates the
// data directory if needed and enables foreign key enforcement. Failures wrap
// types.ErrIO.
func (b *Backend) Conn(ctx context.Context) (*sql.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return b.db, nil
	}
	if b.adopted {
		return nil, types.ErrDetached
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	path := b.config.DatabasePath()
	if path != types.MemoryDBFile {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating data dir: %w", types.ErrIO, err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}
	// foreign_keys is a per-connection pragma and :memory: is per-connection
	// storage, so the pool holds exactly one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}

	b.db = db
	b.logger.Debug("database opened", "path", path)
	return db, nil
}

// Close releases the handle. It is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.logger.Debug("database closed")
	return nil
}

// Logger returns the Backend's logger.
func (b *Backend) Logger() *slog.Logger {
	return b.logger
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, busyTimeoutMillis)
}
