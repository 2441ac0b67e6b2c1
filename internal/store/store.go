// Package store persists the catalog snapshot as two JSON files plus a
// timestamp marker, and decides when the snapshot is stale.
//
// Reads never fail: a missing or unparsable file loads as an empty mapping
// for that half and is reported in the LoadReport. Writes go to a temp file
// in the same directory and are renamed into place, so a crash never leaves
// a truncated file behind.
package store

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/lucro/pkg/catalogs"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// naiveISOLayout is the marker format written by earlier releases:
// ISO-8601 without a zone, read as UTC.
const naiveISOLayout = "2006-01-02T15:04:05.999999"

// Store owns the snapshot files in one directory.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recovered errors.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = constants.DefaultDataDir
	}
	s := &Store{
		dir:    dir,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return s, nil
}

// Dir returns the directory holding the snapshot files.
func (s *Store) Dir() string {
	return s.dir
}

// ItemsPath returns the path of the items file.
func (s *Store) ItemsPath() string {
	return filepath.Join(s.dir, constants.ItemsFileName)
}

// CategoriesPath returns the path of the categories file.
func (s *Store) CategoriesPath() string {
	return filepath.Join(s.dir, constants.CategoriesFileName)
}

// MarkerPath returns the path of the refresh timestamp marker.
func (s *Store) MarkerPath() string {
	return filepath.Join(s.dir, constants.MarkerFileName)
}

// Load reads both snapshot files. It never returns an error: a half that
// is missing or corrupt comes back empty and the report says why.
func (s *Store) Load() (*catalogs.Snapshot, LoadReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := catalogs.EmptySnapshot()
	var report LoadReport

	items := catalogs.NewItems()
	report.Items = s.readJSON(s.ItemsPath(), items)
	if report.Items.State == StateLoaded {
		snapshot.Items = items
	}

	categories := make(catalogs.CategoryIndex)
	report.Categories = s.readJSON(s.CategoriesPath(), &categories)
	if report.Categories.State == StateLoaded && categories != nil {
		snapshot.Categories = categories
	}

	if marker, ok := s.readMarker(); ok {
		snapshot.RefreshedAt = marker
	}

	return snapshot, report
}

// readJSON decodes path into target and classifies the outcome.
func (s *Store) readJSON(path string, target any) HalfReport {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the store directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return HalfReport{State: StateMissing}
		}
		corrupt := errors.NewCacheCorruptError(path, err)
		s.logger.Warn().Err(corrupt).Msg("Cache file unreadable, using empty mapping")
		return HalfReport{State: StateCorrupt, Err: corrupt}
	}

	if err := json.Unmarshal(data, target); err != nil {
		corrupt := errors.NewCacheCorruptError(path, errors.WrapParse("json", path, err))
		s.logger.Warn().Err(corrupt).Msg("Cache file corrupt, using empty mapping")
		return HalfReport{State: StateCorrupt, Err: corrupt}
	}

	return HalfReport{State: StateLoaded}
}

// Save writes both halves of the snapshot. Each file is replaced
// atomically; the pair is not.
func (s *Store) Save(snapshot *catalogs.Snapshot) error {
	if snapshot == nil {
		snapshot = catalogs.EmptySnapshot()
	}
	items := snapshot.Items
	if items == nil {
		items = catalogs.NewItems()
	}
	categories := snapshot.Categories
	if categories == nil {
		categories = make(catalogs.CategoryIndex)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}
	if err := s.writeJSON(s.ItemsPath(), items); err != nil {
		return err
	}
	return s.writeJSON(s.CategoriesPath(), categories)
}

// writeJSON encodes v as indented, unescaped JSON and swaps it into place.
func (s *Store) writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return s.writeFile(path, buf.Bytes())
}

// writeFile writes data to a temp file next to path and renames it over path.
func (s *Store) writeFile(path string, data []byte) error {
	tempFile, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// NeedsInitialLoad reports whether either snapshot file is absent.
func (s *Store) NeedsInitialLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !exists(s.ItemsPath()) || !exists(s.CategoriesPath())
}

// IsStale reports whether the snapshot is due for a refresh at now: the
// marker is missing or unreadable, or older than interval.
func (s *Store) IsStale(now utc.Time, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker, ok := s.readMarker()
	if !ok {
		return true
	}
	return now.Time.Sub(marker.Time) > interval
}

// RecordRefreshTime writes now to the marker.
func (s *Store) RecordRefreshTime(now utc.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}
	return s.writeFile(s.MarkerPath(), []byte(FormatMarker(now)))
}

// LastRefresh returns the marker time, if a readable marker exists.
func (s *Store) LastRefresh() (utc.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMarker()
}

func (s *Store) readMarker() (utc.Time, bool) {
	data, err := os.ReadFile(s.MarkerPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.MarkerPath()).Msg("Refresh marker unreadable")
		}
		return utc.Time{}, false
	}

	marker, err := ParseMarker(string(data))
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.MarkerPath()).Msg("Refresh marker corrupt, treating snapshot as stale")
		return utc.Time{}, false
	}
	return marker, true
}

// FormatMarker renders a marker timestamp as RFC 3339 with nanoseconds.
func FormatMarker(t utc.Time) string {
	return t.Time.UTC().Format(time.RFC3339Nano)
}

// ParseMarker parses marker contents. Zoneless ISO-8601 values are read as UTC.
func ParseMarker(s string) (utc.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return utc.New(t.UTC()), nil
	}
	t, err := time.ParseInLocation(naiveISOLayout, s, time.UTC)
	if err != nil {
		return utc.Time{}, errors.WrapParse("timestamp", constants.MarkerFileName, err)
	}
	return utc.New(t), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
