package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/drape-io/confmod/internal/export"
	"github.com/drape-io/confmod/internal/tree"
	"github.com/spf13/afero"
)

// FileStore keeps one <name>.yml file per configuration object in a
// directory.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, export.FileName(name))
}

// ListAll implements Store. A missing directory is an empty store.
func (s *FileStore) ListAll() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), export.FileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), export.FileExt))
	}
	slices.Sort(names)
	return names, nil
}

// Read implements Store.
func (s *FileStore) Read(name string) (*tree.Map, error) {
	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	m, err := tree.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return m, nil
}

// Write implements Store.
func (s *FileStore) Write(name string, data *tree.Map) error {
	encoded, err := tree.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := afero.WriteFile(s.fs, s.path(name), encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(name string) error {
	if err := s.fs.Remove(s.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Name: name}
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Rename implements Store.
func (s *FileStore) Rename(oldName, newName string) error {
	ok, err := s.Exists(oldName)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Name: oldName}
	}
	if err := s.fs.Rename(s.path(oldName), s.path(newName)); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// Exists implements Store.
func (s *FileStore) Exists(name string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.path(name))
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return ok, nil
}
