package sqlite

// This file seeds and reads the singleton configuration rows.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healerjang/imgspace/pkg/types"
)

// singletonID is the only key the setting and system tables accept.
const singletonID = 1

// seedSingletons writes the setting and system rows if they are absent.
// INSERT OR IGNORE keeps existing rows and their install ID untouched.
func seedSingletons(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO setting (setting_id, created_at) VALUES (?, ?)",
		singletonID, now(),
	); err != nil {
		return fmt.Errorf("seeding setting: %w", classify(err))
	}

	installID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating install ID: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO system (system_id, setting_id, install_id) VALUES (?, ?, ?)",
		singletonID, singletonID, installID.String(),
	); err != nil {
		return fmt.Errorf("seeding system: %w", classify(err))
	}
	return nil
}

// Settings returns the singleton configuration rows.
func (b *Backend) Settings(ctx context.Context) (types.SystemInfo, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return types.SystemInfo{}, err
	}

	var info types.SystemInfo
	var createdAt string
	err = db.QueryRowContext(ctx, `
		SELECT s.setting_id, y.system_id, y.install_id, s.created_at
		FROM setting s
		JOIN system y ON y.setting_id = s.setting_id`,
	).Scan(&info.SettingID, &info.SystemID, &info.InstallID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.SystemInfo{}, fmt.Errorf("system settings: %w", types.ErrNotFound)
	}
	if err != nil {
		return types.SystemInfo{}, fmt.Errorf("reading system settings: %w", classify(err))
	}
	info.CreatedAt = parseTime(createdAt)
	return info, nil
}

// parseTime parses an RFC 3339 column value. Malformed values yield the zero
// time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
