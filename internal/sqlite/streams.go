package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

// InsertStream creates a stream in a workspace. The workspace must exist;
// the name must be unique within it.
func (b *Backend) InsertStream(ctx context.Context, name string, workspaceID int64) types.Result {
	var id int64
	err := validName("stream", name)
	if err == nil {
		err = b.withTx(ctx, func(tx *sql.Tx) error {
			if err := mustExist(ctx, tx, "workspace", types.TableWorkspace, "workspace_id", workspaceID); err != nil {
				return err
			}
			var ierr error
			id, ierr = insertRow(ctx, tx,
				"INSERT INTO stream (workspace_id, name, created_at) VALUES (?, ?, ?)",
				workspaceID, name, now(),
			)
			if ierr != nil {
				return fmt.Errorf("stream %q in workspace %d: %w", name, workspaceID, ierr)
			}
			return nil
		})
	}
	return b.result("insert stream", id, err)
}

// ListStreams returns the streams of a workspace ordered by ID.
func (b *Backend) ListStreams(ctx context.Context, workspaceID int64) ([]types.Stream, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT stream_id, workspace_id, name, created_at
		FROM stream
		WHERE workspace_id = ?
		ORDER BY stream_id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying streams: %w", classify(err))
	}
	defer rows.Close()

	var out []types.Stream
	for rows.Next() {
		var s types.Stream
		var createdAt string
		if err := rows.Scan(&s.ID, &s.WorkspaceID, &s.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning stream: %w", err)
		}
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating streams: %w", classify(err))
	}
	return out, nil
}
