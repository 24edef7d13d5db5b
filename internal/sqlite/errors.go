package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/healerjang/imgspace/pkg/types"
)

// classify maps driver errors onto the sentinel errors in pkg/types. The
// driver error stays in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %w", types.ErrConstraint, err)
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_READONLY,
		sqlite3.SQLITE_FULL, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	return err
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// mustExist returns an error wrapping types.ErrNotFound when no row of table
// has column equal to id. table and column are package constants.
func mustExist(ctx context.Context, q queryer, entity, table, column string, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE "+column+" = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking %s %d: %w", entity, id, classify(err))
	}
	return nil
}

// withTx runs fn inside a transaction. fn's error rolls the transaction back
// and is returned unchanged.
func (b *Backend) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := b.Conn(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", classify(err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", classify(err))
	}
	return nil
}

// result converts the outcome of a write into a types.Result and logs
// failures once.
func (b *Backend) result(op string, id int64, err error) types.Result {
	if err != nil {
		b.logger.Warn("write failed", "op", op, "kind", types.KindOf(err).String(), "error", err)
		return types.Failed(fmt.Errorf("%s: %w", op, err))
	}
	b.logger.Debug("write succeeded", "op", op, "id", id)
	return types.Succeeded(id)
}

func validName(entity, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is empty: %w", entity, types.ErrInvalidName)
	}
	return nil
}
