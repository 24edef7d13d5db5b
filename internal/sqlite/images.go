package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

// InsertImage registers an image path under a workspace. A duplicate path or
// a missing workspace fails with types.KindConstraint.
func (b *Backend) InsertImage(ctx context.Context, path string, workspaceID int64) types.Result {
	var id int64
	err := validName("image path", path)
	if err == nil {
		var db *sql.DB
		db, err = b.Conn(ctx)
		if err == nil {
			id, err = insertRow(ctx, db,
				"INSERT INTO image (path, workspace_id, created_at) VALUES (?, ?, ?)",
				path, workspaceID, now(),
			)
			if err != nil {
				err = fmt.Errorf("image %q: %w", path, err)
			}
		}
	}
	return b.result("insert image", id, err)
}

// InsertImageIgnore registers an image path unless it is already present.
// It reports whether a row was written. A missing workspace is still an
// error.
func (b *Backend) InsertImageIgnore(ctx context.Context, path string, workspaceID int64) (bool, error) {
	if err := validName("image path", path); err != nil {
		return false, err
	}
	db, err := b.Conn(ctx)
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT OR IGNORE INTO image (path, workspace_id, created_at) VALUES (?, ?, ?)",
		path, workspaceID, now(),
	)
	if err != nil {
		return false, fmt.Errorf("image %q: %w", path, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("image %q: reading rows affected: %w", path, err)
	}
	return n > 0, nil
}

// GetImage returns one image with its set memberships.
func (b *Backend) GetImage(ctx context.Context, id int64) (types.Image, error) {
	images, err := b.queryImages(ctx, `
		SELECT i.image_id, i.path, i.workspace_id, i.label_id, i.created_at, isx.set_id
		FROM image i
		LEFT JOIN image_set isx ON isx.image_id = i.image_id
		WHERE i.image_id = ?
		ORDER BY i.image_id, isx.set_id`, id)
	if err != nil {
		return types.Image{}, err
	}
	if len(images) == 0 {
		return types.Image{}, fmt.Errorf("image %d: %w", id, types.ErrNotFound)
	}
	return images[0], nil
}

// ListImagesInRange returns the images of a workspace whose IDs fall in the
// inclusive range [start, end], ordered by ID. Each image carries its label
// and its set IDs in ascending order. An inverted range yields no images.
func (b *Backend) ListImagesInRange(ctx context.Context, workspaceID, start, end int64) ([]types.Image, error) {
	return b.queryImages(ctx, `
		SELECT i.image_id, i.path, i.workspace_id, i.label_id, i.created_at, isx.set_id
		FROM image i
		LEFT JOIN image_set isx ON isx.image_id = i.image_id
		WHERE i.workspace_id = ? AND i.image_id BETWEEN ? AND ?
		ORDER BY i.image_id, isx.set_id`, workspaceID, start, end)
}

// MaxImageID returns the highest image ID in a workspace. ok is false when
// the workspace has no images.
func (b *Backend) MaxImageID(ctx context.Context, workspaceID int64) (id int64, ok bool, err error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return 0, false, err
	}
	var maxID sql.NullInt64
	err = db.QueryRowContext(ctx,
		"SELECT MAX(image_id) FROM image WHERE workspace_id = ?", workspaceID,
	).Scan(&maxID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("reading max image id: %w", classify(err))
	}
	if !maxID.Valid {
		return 0, false, nil
	}
	return maxID.Int64, true, nil
}

// queryImages folds image rows joined with image_set into one Image per ID.
// The query must order by image ID.
func (b *Backend) queryImages(ctx context.Context, query string, args ...any) ([]types.Image, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", classify(err))
	}
	defer rows.Close()

	var out []types.Image
	for rows.Next() {
		var img types.Image
		var workspace, label, setID sql.NullInt64
		var createdAt string
		if err := rows.Scan(&img.ID, &img.Path, &workspace, &label, &createdAt, &setID); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].ID != img.ID {
			img.WorkspaceID = nullID(workspace)
			img.LabelID = nullID(label)
			img.CreatedAt = parseTime(createdAt)
			img.SetIDs = []int64{}
			out = append(out, img)
		}
		if setID.Valid {
			last := &out[len(out)-1]
			last.SetIDs = append(last.SetIDs, setID.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", classify(err))
	}
	return out, nil
}
