// Package scanner ingests regular image files from a directory tree into a
// workspace.
//
// The walk is depth-first with children visited in lexical order, uses an
// explicit stack, and inserts one file at a time. Per-entry failures are
// collected in the Report and never stop the walk.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtensions lists the file extensions ingested by default.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"}

// Operations recorded in EntryError.Op.
const (
	OpStat    = "stat"
	OpReadDir = "readdir"
	OpInsert  = "insert"
	OpWalk    = "walk"
)

// ImageInserter stores an image path unless it is already present.
type ImageInserter interface {
	InsertImageIgnore(ctx context.Context, path string, workspaceID int64) (bool, error)
}

// EntryError is a failure tied to one filesystem entry.
type EntryError struct {
	Path string
	Op   string
	Err  error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

// MarshalJSON renders the error as {path, op, error}.
func (e EntryError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{e.Path, e.Op, msg})
}

// Report summarizes one ingestion. Success is false only when the walk could
// not start or was canceled; failed entries appear in Errors either way.
type Report struct {
	Success  bool         `json:"success"`
	Inserted int          `json:"inserted_count"`
	Errors   []EntryError `json:"errors"`
}

// Scanner walks directory trees and inserts matching files.
type Scanner struct {
	store  ImageInserter
	fs     afero.Fs
	logger *slog.Logger
	exts   map[string]bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFs sets the filesystem to walk. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Scanner) { s.fs = fs }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtensions replaces the extension allow-list. Matching ignores case
// and a missing leading dot is added.
func WithExtensions(exts ...string) Option {
	return func(s *Scanner) { s.exts = extensionSet(exts) }
}

// New returns a Scanner that inserts through store.
func New(store ImageInserter, opts ...Option) *Scanner {
	s := &Scanner{
		store:  store,
		fs:     afero.NewOsFs(),
		logger: slog.New(slog.DiscardHandler),
		exts:   extensionSet(DefaultExtensions),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matches reports whether path has an allowed extension.
func (s *Scanner) Matches(path string) bool {
	return s.exts[strings.ToLower(filepath.Ext(path))]
}

// IngestDirectory inserts every matching file under root as an image of
// workspaceID. Paths are stored cleaned, and absolute on the OS filesystem.
func (s *Scanner) IngestDirectory(ctx context.Context, root string, workspaceID int64) Report {
	report := Report{Errors: []EntryError{}}

	root, err := s.resolve(root)
	if err != nil {
		report.Errors = append(report.Errors, EntryError{Path: root, Op: OpStat, Err: err})
		return report
	}
	info, err := s.fs.Stat(root)
	if err != nil {
		report.Errors = append(report.Errors, EntryError{Path: root, Op: OpStat, Err: err})
		s.logger.Error("ingest root unavailable", "root", root, "error", err)
		return report
	}
	if !info.IsDir() {
		err := errors.New("not a directory")
		report.Errors = append(report.Errors, EntryError{Path: root, Op: OpStat, Err: err})
		s.logger.Error("ingest root unavailable", "root", root, "error", err)
		return report
	}

	s.logger.Info("ingest started", "root", root, "workspace_id", workspaceID)

	type frame struct {
		path  string
		isDir bool
	}
	stack := []frame{{path: root, isDir: true}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, EntryError{Path: root, Op: OpWalk, Err: err})
			s.logger.Warn("ingest canceled", "root", root, "inserted", report.Inserted)
			return report
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.isDir {
			s.ingestFile(ctx, top.path, workspaceID, &report)
			continue
		}

		entries, err := afero.ReadDir(s.fs, top.path)
		if err != nil {
			report.Errors = append(report.Errors, EntryError{Path: top.path, Op: OpReadDir, Err: err})
			s.logger.Warn("directory unreadable", "path", top.path, "error", err)
			continue
		}
		// Entries are sorted; push in reverse so the first name pops first.
		// Symlinks and special files are not followed or ingested.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			path := filepath.Join(top.path, e.Name())
			if !e.IsDir() && !e.Mode().IsRegular() {
				s.logger.Debug("skipping non-regular entry", "path", path, "mode", e.Mode().String())
				continue
			}
			stack = append(stack, frame{path: path, isDir: e.IsDir()})
		}
	}

	report.Success = true
	s.logger.Info("ingest finished",
		"root", root,
		"inserted", report.Inserted,
		"errors", len(report.Errors),
	)
	return report
}

func (s *Scanner) ingestFile(ctx context.Context, path string, workspaceID int64, report *Report) {
	if !s.Matches(path) {
		return
	}
	inserted, err := s.store.InsertImageIgnore(ctx, path, workspaceID)
	if err != nil {
		report.Errors = append(report.Errors, EntryError{Path: path, Op: OpInsert, Err: err})
		s.logger.Warn("image insert failed", "path", path, "error", err)
		return
	}
	if inserted {
		report.Inserted++
		s.logger.Debug("image inserted", "path", path)
	}
}

func (s *Scanner) resolve(root string) (string, error) {
	if _, ok := s.fs.(*afero.OsFs); ok {
		return filepath.Abs(root)
	}
	return filepath.Clean(root), nil
}

func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}
