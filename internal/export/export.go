package export

import (
	"fmt"
	"path/filepath"

	"github.com/drape-io/confmod/internal/tree"
	"github.com/spf13/afero"
)

// FileExt is the extension of exported configuration files.
const FileExt = ".yml"

// transientKeys are store bookkeeping keys that never leave the store.
var transientKeys = []string{"uuid", "_core"}

// FileName returns the file name a configuration object is exported to.
func FileName(name string) string {
	return name + FileExt
}

// Strip returns a copy of data without top-level transient keys.
func Strip(data *tree.Map) *tree.Map {
	out := data.Clone()
	for _, key := range transientKeys {
		out.Delete(key)
	}
	return out
}

// Exporter writes configuration objects to files.
type Exporter struct {
	fs afero.Fs
}

// New returns an Exporter writing to fs.
func New(fs afero.Fs) *Exporter {
	return &Exporter{fs: fs}
}

// Export writes the stripped tree to dest, creating parent directories.
func (e *Exporter) Export(data *tree.Map, dest string) error {
	encoded, err := tree.Encode(Strip(data))
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", dest, err)
	}

	if err := e.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	if err := afero.WriteFile(e.fs, dest, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// ExportTo writes the object called name into dir.
func (e *Exporter) ExportTo(name string, data *tree.Map, dir string) (string, error) {
	dest := filepath.Join(dir, FileName(name))
	return dest, e.Export(data, dest)
}
