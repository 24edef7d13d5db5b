// Package sqlite provides the public API for the imgspace SQLite store.
// It exposes the factory functions while the implementation stays internal.
package sqlite

import (
	"database/sql"

	"github.com/healerjang/imgspace/internal/sqlite"
	"github.com/healerjang/imgspace/pkg/types"
)

// Backend is the SQLite store.
type Backend = sqlite.Backend

// Option configures a Backend.
type Option = sqlite.Option

// WithLogger sets the logger a Backend reports through.
var WithLogger = sqlite.WithLogger

// NewBackend creates a Backend for cfg. The database is opened on first use.
//
// Example:
//
//	store := sqlite.NewBackend(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".imgspace-db",
//	})
//	defer store.Close()
//	if err := store.EnsureSchema(ctx); err != nil {
//	    return err
//	}
func NewBackend(cfg types.Config, opts ...Option) *Backend {
	return sqlite.NewBackend(cfg, opts...)
}

// NewBackendFromDB wraps an open handle. Closing the Backend closes db.
func NewBackendFromDB(db *sql.DB, opts ...Option) *Backend {
	return sqlite.NewBackendFromDB(db, opts...)
}
