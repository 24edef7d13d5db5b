package types

import (
	"errors"
	"path/filepath"
)

// Config holds backend selection and parameters for opening a store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// DBFile is the database file name inside DataDir. ":memory:" opens a
	// private in-memory database.
	DBFile string `json:"db_file" yaml:"db_file"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDBFile is used when Config.DBFile is empty.
const DefaultDBFile = "imgspace.db"

// MemoryDBFile selects an in-memory database.
const MemoryDBFile = ":memory:"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDBFileInvalid  = errors.New("db file must be a bare file name")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DBFile != "" && c.DBFile != MemoryDBFile && filepath.Base(c.DBFile) != c.DBFile {
		return ErrDBFileInvalid
	}
	return nil
}

// DatabasePath returns the location of the database file, or MemoryDBFile.
func (c Config) DatabasePath() string {
	switch c.DBFile {
	case MemoryDBFile:
		return MemoryDBFile
	case "":
		return filepath.Join(c.dataDir(), DefaultDBFile)
	default:
		return filepath.Join(c.dataDir(), c.DBFile)
	}
}

func (c Config) dataDir() string {
	if c.DataDir == "" {
		return "."
	}
	return c.DataDir
}
