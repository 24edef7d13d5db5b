// Package config loads imgspace settings from config.yaml in the config
// directory, writing a default file on first run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/healerjang/imgspace/internal/logging"
	"github.com/healerjang/imgspace/pkg/types"
)

const (
	fileName = "config"
	fileType = "yaml"

	// FileName is the config file inside the config directory.
	FileName = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. IMGSPACE_LOG_LEVEL.
	EnvPrefix = "IMGSPACE"
)

// Config keys.
const (
	KeyBackend   = "backend"
	KeyDataDir   = "data_dir"
	KeyDBFile    = "db_file"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyLogFile   = "log.file"
)

// File is the content of config.yaml.
type File struct {
	Backend string         `mapstructure:"backend" yaml:"backend"`
	DataDir string         `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	DBFile  string         `mapstructure:"db_file" yaml:"db_file,omitempty"`
	Log     logging.Config `mapstructure:"log" yaml:"log"`
}

// Default returns the settings written on first run.
func Default() File {
	return File{
		Backend: types.BackendSQLite,
		DBFile:  types.DefaultDBFile,
		Log: logging.Config{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// StoreConfig returns the backend configuration for dataDir.
func (f File) StoreConfig(dataDir string) types.Config {
	return types.Config{
		Backend: f.Backend,
		DataDir: dataDir,
		DBFile:  f.DBFile,
	}
}

// Load reads config.yaml from configDir. The directory and a default file
// are created when missing. Log settings can be overridden through
// IMGSPACE_LOG_LEVEL, IMGSPACE_LOG_FORMAT and IMGSPACE_LOG_FILE.
func Load(configDir string) (File, error) {
	if _, err := WriteDefault(configDir, Default()); err != nil {
		return File{}, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault(KeyBackend, def.Backend)
	v.SetDefault(KeyDBFile, def.DBFile)
	v.SetDefault(KeyLogLevel, def.Log.Level)
	v.SetDefault(KeyLogFormat, def.Log.Format)
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{KeyLogLevel, KeyLogFormat, KeyLogFile} {
		if err := v.BindEnv(key); err != nil {
			return File{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return File{}, fmt.Errorf("read config: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return f, nil
}

// WriteDefault writes f to config.yaml in configDir unless the file exists.
// It reports whether a file was written.
func WriteDefault(configDir string, f File) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# imgspace configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
