package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

// InsertWorkspace creates a workspace. A duplicate name fails with
// types.KindConstraint.
func (b *Backend) InsertWorkspace(ctx context.Context, name string) types.Result {
	var id int64
	err := validName("workspace", name)
	if err == nil {
		err = b.withTx(ctx, func(tx *sql.Tx) error {
			var ierr error
			id, ierr = insertRow(ctx, tx,
				"INSERT INTO workspace (name, created_at) VALUES (?, ?)",
				name, now(),
			)
			if ierr != nil {
				return fmt.Errorf("workspace %q: %w", name, ierr)
			}
			return nil
		})
	}
	return b.result("insert workspace", id, err)
}

// ListWorkspaces returns every workspace ordered by ID.
func (b *Backend) ListWorkspaces(ctx context.Context) ([]types.Workspace, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT workspace_id, name, created_at FROM workspace ORDER BY workspace_id")
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", classify(err))
	}
	defer rows.Close()

	var out []types.Workspace
	for rows.Next() {
		var w types.Workspace
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		w.CreatedAt = parseTime(createdAt)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspaces: %w", classify(err))
	}
	return out, nil
}

// insertRow executes an INSERT and returns the new rowid.
func insertRow(ctx context.Context, q queryer, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// nullID converts a nullable column into an optional ID.
func nullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
