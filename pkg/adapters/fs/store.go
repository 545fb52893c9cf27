// Package fs is the filesystem adapter: it finds, reads, and writes .mimo
// record files and enumerates raw inputs for packing.
package fs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/mimo/pkg/core"
)

// Ext is the record file extension.
const Ext = ".mimo"

// RecordPath returns the canonical file path for a record ID under dir.
func RecordPath(dir, muID string) string {
	return filepath.Join(dir, muID+Ext)
}

// Config holds the configuration for the store.
type Config struct {
	Logger *slog.Logger
}

// Store reads and writes MU record files.
type Store struct {
	config Config
}

// NewStore creates a filesystem-backed record store.
func NewStore(config Config) *Store {
	return &Store{config: config}
}

// EnumerateMU returns the sorted .mimo files under path. A single .mimo
// file is accepted as-is; a directory is walked recursively.
func (s *Store) EnumerateMU(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("missing input: %s", path)
	}
	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(path), Ext) {
			return []string{path}, nil
		}
		return nil, fmt.Errorf("not a %s file: %s", Ext, path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), Ext) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// EnumerateRaw returns the sorted files under dir whose path relative to
// dir matches the doublestar pattern. An empty pattern matches everything;
// which files actually get packed is the packer's decision.
func (s *Store) EnumerateRaw(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("missing input: %s", dir)
	}
	if pattern == "" {
		pattern = "**/*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var files []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// ReadDoc parses one record file into a generic mapping, the shape the
// validator consumes.
func (s *Store) ReadDoc(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: root must be a mapping", path)
	}
	return doc, nil
}

// ReadRecord parses one record file into the typed model, best effort.
func (s *Store) ReadRecord(path string) (core.Record, error) {
	doc, err := s.ReadDoc(path)
	if err != nil {
		return core.Record{}, err
	}
	return core.RecordFromDoc(doc), nil
}

// WriteRecord serializes a record to YAML in canonical field order and
// writes it atomically, creating parent directories as needed.
func (s *Store) WriteRecord(path string, rec core.Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return err
	}
	if s.config.Logger != nil {
		s.config.Logger.Debug("wrote record", "path", path, "mu_id", rec.MUID)
	}
	return nil
}
