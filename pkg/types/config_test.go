package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "in-memory db file is valid",
			config:  Config{Backend: "sqlite", DBFile: ":memory:"},
			wantErr: nil,
		},
		{
			name:    "db file with a directory component is rejected",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data", DBFile: "nested/x.db"},
			wantErr: ErrDBFileInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigDatabasePath(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default file name", Config{DataDir: "/data"}, filepath.Join("/data", DefaultDBFile)},
		{"custom file name", Config{DataDir: "/data", DBFile: "x.db"}, filepath.Join("/data", "x.db")},
		{"memory", Config{DataDir: "/data", DBFile: MemoryDBFile}, MemoryDBFile},
		{"empty data dir", Config{}, filepath.Join(".", DefaultDBFile)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.DatabasePath(); got != tt.want {
				t.Fatalf("DatabasePath() = %q, want %q", got, tt.want)
			}
		})
	}
}
