package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/healerjang/imgspace/pkg/types"
)

func TestLoad_WritesDefaultOnFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	f, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	var onDisk File
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, types.BackendSQLite, onDisk.Backend)
	assert.Equal(t, "info", onDisk.Log.Level)
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `backend: sqlite
data_dir: /srv/images
db_file: labels.db
log:
  level: debug
  format: json
  file: imgspace.log
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	f, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/images", f.DataDir)
	assert.Equal(t, "labels.db", f.DBFile)
	assert.Equal(t, "debug", f.Log.Level)
	assert.Equal(t, "json", f.Log.Format)
	assert.Equal(t, "imgspace.log", f.Log.File)

	written, err := WriteDefault(dir, Default())
	require.NoError(t, err)
	assert.False(t, written, "existing file is kept")
}

func TestLoad_EnvOverridesLogSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IMGSPACE_LOG_LEVEL", "error")
	t.Setenv("IMGSPACE_LOG_FILE", "/tmp/x.log")

	f, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", f.Log.Level)
	assert.Equal(t, "/tmp/x.log", f.Log.File)
	assert.Equal(t, "text", f.Log.Format)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("backend: [unclosed"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestStoreConfig(t *testing.T) {
	cfg := Default().StoreConfig("/data")
	assert.Equal(t, types.Config{Backend: "sqlite", DataDir: "/data", DBFile: types.DefaultDBFile}, cfg)
	require.NoError(t, cfg.Validate())
}
