// Package store provides access to the configuration objects of the host
// application.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/drape-io/confmod/internal/config"
	"github.com/drape-io/confmod/internal/selector"
	"github.com/drape-io/confmod/internal/tree"
	"github.com/spf13/afero"
)

// Store is the configuration store. Writes replace the whole tree.
type Store interface {
	// ListAll returns every configuration name, sorted.
	ListAll() ([]string, error)
	Read(name string) (*tree.Map, error)
	Write(name string, data *tree.Map) error
	Delete(name string) error
	Rename(oldName, newName string) error
	Exists(name string) (bool, error)
}

// NotFoundError is returned when a configuration object does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration '%s' not found", e.Name)
}

// Open opens the store described by settings. Relative store paths are
// resolved against rootDir. The returned close function must be called.
func Open(settings config.Settings, rootDir string, fs afero.Fs) (Store, func() error, error) {
	path := settings.StorePath
	if path == "" {
		path = config.DefaultStorePath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	switch settings.Store {
	case "", config.StoreFiles:
		return NewFileStore(fs, path), func() error { return nil }, nil
	case config.StoreSQLite:
		s, err := OpenSQLite(path, settings.Collection)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type '%s'", settings.Store)
	}
}

// ReadAll reads every object in the store, in name order.
func ReadAll(s Store) ([]selector.Object, error) {
	names, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	objects := make([]selector.Object, 0, len(names))
	for _, name := range names {
		data, err := s.Read(name)
		if err != nil {
			return nil, err
		}
		objects = append(objects, selector.Object{Name: name, Data: data})
	}
	return objects, nil
}
