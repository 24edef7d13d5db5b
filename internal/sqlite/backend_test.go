package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healerjang/imgspace/pkg/types"
)

func TestBackend_Conn(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		config  func(t *testing.T) types.Config
		wantErr error
		check   func(t *testing.T, cfg types.Config, b *Backend)
	}{
		{
			name: "creates missing data dir and database file",
			config: func(t *testing.T) types.Config {
				return types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(t.TempDir(), "a", "b")}
			},
			check: func(t *testing.T, cfg types.Config, b *Backend) {
				require.NoError(t, b.EnsureSchema(ctx))
				_, err := os.Stat(cfg.DatabasePath())
				assert.NoError(t, err)
			},
		},
		{
			name: "returns the same handle on repeated calls",
			config: func(t *testing.T) types.Config {
				return types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
			},
			check: func(t *testing.T, _ types.Config, b *Backend) {
				first, err := b.Conn(ctx)
				require.NoError(t, err)
				second, err := b.Conn(ctx)
				require.NoError(t, err)
				assert.Same(t, first, second)
			},
		},
		{
			name: "enables foreign keys",
			config: func(t *testing.T) types.Config {
				return types.Config{Backend: types.BackendSQLite, DBFile: types.MemoryDBFile}
			},
			check: func(t *testing.T, _ types.Config, b *Backend) {
				assert.Equal(t, 1, countRows(t, b, "PRAGMA foreign_keys"))
			},
		},
		{
			name: "invalid config is rejected",
			config: func(t *testing.T) types.Config {
				return types.Config{Backend: "postgres"}
			},
			wantErr: types.ErrBackendUnknown,
		},
		{
			name: "unusable data dir reports an io error",
			config: func(t *testing.T) types.Config {
				blocker := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
				return types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(blocker, "sub")}
			},
			wantErr: types.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config(t)
			b := NewBackend(cfg)
			defer b.Close()

			_, err := b.Conn(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg, b)
			}
		})
	}
}

func TestBackend_Close(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})

	require.NoError(t, b.Close(), "close before open is a no-op")

	first, err := b.Conn(ctx)
	require.NoError(t, err)
	require.NoError(t, b.EnsureSchema(ctx))
	r := b.InsertWorkspace(ctx, "kept")
	mustOK(t, r)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "second close is a no-op")

	second, err := b.Conn(ctx)
	require.NoError(t, err, "conn reopens after close")
	defer b.Close()
	assert.NotSame(t, first, second)

	ws, err := b.ListWorkspaces(ctx)
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "kept", ws[0].Name)
}

func TestBackend_ClosedAdoptedHandle(t *testing.T) {
	ctx := context.Background()
	b := NewBackend(types.Config{Backend: types.BackendSQLite, DBFile: types.MemoryDBFile})
	db, err := b.Conn(ctx)
	require.NoError(t, err)

	adopted := NewBackendFromDB(db)
	require.NoError(t, adopted.EnsureSchema(ctx))
	require.NoError(t, adopted.Close())

	_, err = adopted.Conn(ctx)
	assert.ErrorIs(t, err, types.ErrDetached)

	r := adopted.InsertWorkspace(ctx, "w")
	assert.False(t, r.OK())
	assert.Equal(t, types.KindIO, r.Kind())
	assert.Zero(t, r.ID)
}
