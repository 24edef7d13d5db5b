package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

const setColumns = "s.set_id, s.name, s.parent_label_id, s.parent_set_id, s.created_at"

// InsertSet creates a set. The parent label and parent set, when given, are
// checked and the row is written in one transaction; a missing parent rolls
// back with types.KindNotFound. A label seeds at most one set and names are
// unique among siblings at insert time, both reported as types.KindConstraint.
func (b *Backend) InsertSet(ctx context.Context, name string, parentLabelID, parentSetID *int64) types.Result {
	var id int64
	err := validName("set", name)
	if err == nil {
		err = b.withTx(ctx, func(tx *sql.Tx) error {
			if parentLabelID != nil {
				if err := mustExist(ctx, tx, "parent label", types.TableLabel, "label_id", *parentLabelID); err != nil {
					return err
				}
			}
			if parentSetID != nil {
				if err := mustExist(ctx, tx, "parent set", types.TableSets, "set_id", *parentSetID); err != nil {
					return err
				}
			} else if err := uniqueRootName(ctx, tx, name); err != nil {
				return err
			}
			var ierr error
			id, ierr = insertRow(ctx, tx,
				"INSERT INTO sets (name, parent_label_id, parent_set_id, created_at) VALUES (?, ?, ?, ?)",
				name, parentLabelID, parentSetID, now(),
			)
			if ierr != nil {
				return fmt.Errorf("set %q: %w", name, ierr)
			}
			return nil
		})
	}
	return b.result("insert set", id, err)
}

// uniqueRootName fails with types.ErrConstraint when a root set named name
// exists. Roots left behind by a removed parent may share a name.
func uniqueRootName(ctx context.Context, q queryer, name string) error {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM sets WHERE parent_set_id IS NULL AND name = ? LIMIT 1", name,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("checking root set %q: %w", name, classify(err))
	}
	return fmt.Errorf("root set %q exists: %w", name, types.ErrConstraint)
}

// GetSet returns one set.
func (b *Backend) GetSet(ctx context.Context, id int64) (types.Set, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return types.Set{}, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+setColumns+" FROM sets s WHERE s.set_id = ?", id)
	s, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Set{}, fmt.Errorf("set %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Set{}, fmt.Errorf("reading set %d: %w", id, classify(err))
	}
	return s, nil
}

// ListSets returns every set ordered by ID.
func (b *Backend) ListSets(ctx context.Context) ([]types.Set, error) {
	return b.querySets(ctx, "SELECT "+setColumns+" FROM sets s ORDER BY s.set_id")
}

// ListChildSets returns the direct children of parentSetID, or the root sets
// when parentSetID is nil, ordered by ID.
func (b *Backend) ListChildSets(ctx context.Context, parentSetID *int64) ([]types.Set, error) {
	if parentSetID == nil {
		return b.querySets(ctx,
			"SELECT "+setColumns+" FROM sets s WHERE s.parent_set_id IS NULL ORDER BY s.set_id")
	}
	return b.querySets(ctx,
		"SELECT "+setColumns+" FROM sets s WHERE s.parent_set_id = ? ORDER BY s.set_id", *parentSetID)
}

// ListSetsByWorkspace returns the distinct sets that contain at least one
// image of the workspace, ordered by ID.
func (b *Backend) ListSetsByWorkspace(ctx context.Context, workspaceID int64) ([]types.Set, error) {
	return b.querySets(ctx, `
		SELECT DISTINCT `+setColumns+`
		FROM sets s
		JOIN image_set isx ON isx.set_id = s.set_id
		JOIN image i ON i.image_id = isx.image_id
		WHERE i.workspace_id = ?
		ORDER BY s.set_id`, workspaceID)
}

func (b *Backend) querySets(ctx context.Context, query string, args ...any) ([]types.Set, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", classify(err))
	}
	defer rows.Close()

	var out []types.Set
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sets: %w", classify(err))
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSet(r rowScanner) (types.Set, error) {
	var s types.Set
	var parentLabel, parentSet sql.NullInt64
	var createdAt string
	if err := r.Scan(&s.ID, &s.Name, &parentLabel, &parentSet, &createdAt); err != nil {
		return types.Set{}, err
	}
	s.ParentLabelID = nullID(parentLabel)
	s.ParentSetID = nullID(parentSet)
	s.CreatedAt = parseTime(createdAt)
	return s, nil
}
