package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

const labelColumns = "l.label_id, l.name, l.parent_label_id, l.image_id, l.created_at"

// InsertLabel creates a label. When parentLabelID is set the parent must
// exist, otherwise the result has types.KindNotFound and nothing is written.
func (b *Backend) InsertLabel(ctx context.Context, name string, parentLabelID *int64) types.Result {
	var id int64
	err := validName("label", name)
	if err == nil {
		err = b.withTx(ctx, func(tx *sql.Tx) error {
			if parentLabelID != nil {
				if err := mustExist(ctx, tx, "parent label", types.TableLabel, "label_id", *parentLabelID); err != nil {
					return err
				}
			}
			var ierr error
			id, ierr = insertRow(ctx, tx,
				"INSERT INTO label (name, parent_label_id, created_at) VALUES (?, ?, ?)",
				name, parentLabelID, now(),
			)
			if ierr != nil {
				return fmt.Errorf("label %q: %w", name, ierr)
			}
			return nil
		})
	}
	return b.result("insert label", id, err)
}

// ListLabels returns every label ordered by ID.
func (b *Backend) ListLabels(ctx context.Context) ([]types.Label, error) {
	return b.queryLabels(ctx, "SELECT "+labelColumns+" FROM label l ORDER BY l.label_id")
}

// ListLabelsByWorkspace returns the distinct labels attached to images of a
// workspace, ordered by ID.
func (b *Backend) ListLabelsByWorkspace(ctx context.Context, workspaceID int64) ([]types.Label, error) {
	return b.queryLabels(ctx, `
		SELECT DISTINCT `+labelColumns+`
		FROM label l
		JOIN image i ON i.label_id = l.label_id
		WHERE i.workspace_id = ?
		ORDER BY l.label_id`, workspaceID)
}

func (b *Backend) queryLabels(ctx context.Context, query string, args ...any) ([]types.Label, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", classify(err))
	}
	defer rows.Close()

	var out []types.Label
	for rows.Next() {
		var l types.Label
		var parent, image sql.NullInt64
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Name, &parent, &image, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		l.ParentLabelID = nullID(parent)
		l.ImageID = nullID(image)
		l.CreatedAt = parseTime(createdAt)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", classify(err))
	}
	return out, nil
}
