package sqlite

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healerjang/imgspace/pkg/types"
)

func tableNames(t *testing.T, b *Backend) []string {
	t.Helper()
	db, err := b.Conn(context.Background())
	require.NoError(t, err)
	present, err := listTables(context.Background(), db)
	require.NoError(t, err)
	var names []string
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, b *Backend)
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "creates every table",
			check: func(t *testing.T, b *Backend) {
				want := append([]string(nil), types.StandardTableNames...)
				sort.Strings(want)
				assert.Equal(t, want, tableNames(t, b))
			},
		},
		{
			name: "seeds exactly one row per singleton table",
			check: func(t *testing.T, b *Backend) {
				assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM setting WHERE setting_id = 1"))
				assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM system WHERE system_id = 1"))
			},
		},
		{
			name: "second call keeps tables and singleton rows",
			setup: func(t *testing.T, b *Backend) {
				before := tableNames(t, b)
				info, err := b.Settings(ctx)
				require.NoError(t, err)

				require.NoError(t, b.EnsureSchema(ctx))

				assert.Equal(t, before, tableNames(t, b))
				again, err := b.Settings(ctx)
				require.NoError(t, err)
				assert.Equal(t, info.InstallID, again.InstallID)
			},
			check: func(t *testing.T, b *Backend) {
				assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM setting"))
				assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM system"))
			},
		},
		{
			name: "keeps existing rows",
			setup: func(t *testing.T, b *Backend) {
				mustOK(t, b.InsertWorkspace(ctx, "w"))
				require.NoError(t, b.EnsureSchema(ctx))
			},
			check: func(t *testing.T, b *Backend) {
				assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM workspace"))
			},
		},
		{
			name: "singleton tables reject a second key",
			check: func(t *testing.T, b *Backend) {
				db, err := b.Conn(ctx)
				require.NoError(t, err)
				_, err = db.ExecContext(ctx, "INSERT INTO setting (setting_id, created_at) VALUES (2, 'x')")
				require.Error(t, err)
				assert.ErrorIs(t, classify(err), types.ErrConstraint)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			if tt.setup != nil {
				tt.setup(t, b)
			}
			tt.check(t, b)
		})
	}
}

func TestSchemaExists(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	defer b.Close()

	ok, err := b.SchemaExists(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty database")

	require.NoError(t, b.EnsureSchema(ctx))
	ok, err = b.SchemaExists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	execSQL(t, b, "DROP TABLE stream_image")
	ok, err = b.SchemaExists(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "one table missing")
}

func TestDropSchema(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	ws := mustOK(t, b.InsertWorkspace(ctx, "w"))
	mustOK(t, b.InsertImage(ctx, "/img/a.png", ws))

	require.NoError(t, b.DropSchema(ctx))

	ok, err := b.SchemaExists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, tableNames(t, b))
	assert.Equal(t, 1, countRows(t, b, "PRAGMA foreign_keys"), "enforcement restored")

	require.NoError(t, b.EnsureSchema(ctx))
	ok, err = b.SchemaExists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, countRows(t, b, "SELECT COUNT(*) FROM workspace"))
	assert.Equal(t, 0, countRows(t, b, "SELECT COUNT(*) FROM image"))
	assert.Equal(t, 1, countRows(t, b, "SELECT COUNT(*) FROM setting"))

	id := mustOK(t, b.InsertWorkspace(ctx, "w"))
	assert.Equal(t, int64(1), id, "id sequence restarts")
}

func TestDropSchema_EmptyDatabase(t *testing.T) {
	b := NewBackend(types.Config{Backend: types.BackendSQLite, DBFile: types.MemoryDBFile})
	defer b.Close()
	require.NoError(t, b.DropSchema(context.Background()))
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	info, err := b.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.SettingID)
	assert.Equal(t, int64(1), info.SystemID)
	assert.Len(t, info.InstallID, 36)
	assert.False(t, info.CreatedAt.IsZero())

	execSQL(t, b, "DELETE FROM setting")
	assert.Equal(t, 0, countRows(t, b, "SELECT COUNT(*) FROM system"), "system cascades with setting")
	_, err = b.Settings(ctx)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
