// Package relocate moves exported configuration files from a sync
// directory into a module's package directory.
package relocate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drape-io/confmod/internal/export"
	"github.com/spf13/afero"
)

// MissingSourceDirectoryError is returned when the sync directory is absent.
type MissingSourceDirectoryError struct {
	Path string
}

func (e *MissingSourceDirectoryError) Error() string {
	return fmt.Sprintf("source directory '%s' does not exist", e.Path)
}

// MissingSourceFileError describes a file absent from the sync directory.
type MissingSourceFileError struct {
	Path string
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("source file '%s' does not exist", e.Path)
}

// Status is the outcome of relocating one file.
type Status string

const (
	StatusMoved   Status = "moved"
	StatusSkipped Status = "skipped"
)

// Result is the outcome for a single configuration name.
type Result struct {
	Name   string
	Status Status
	Source string
	Dest   string
	Reason error // set for skipped files
}

// Engine relocates files on a filesystem.
type Engine struct {
	fs afero.Fs
}

// New returns an Engine operating on fs.
func New(fs afero.Fs) *Engine {
	return &Engine{fs: fs}
}

// Relocate moves sourceDir/<name>.yml to destDir/<name>.yml for each name,
// replacing existing files. Missing source files are skipped and reported;
// only a missing source directory or a failed move aborts the batch. With
// dryRun nothing on disk changes.
func (e *Engine) Relocate(names []string, sourceDir, destDir string, dryRun bool) ([]Result, error) {
	ok, err := afero.DirExists(e.fs, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", sourceDir, err)
	}
	if !ok {
		return nil, &MissingSourceDirectoryError{Path: sourceDir}
	}

	if !dryRun {
		if err := e.fs.MkdirAll(destDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
		}
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		source := filepath.Join(sourceDir, export.FileName(name))
		dest := filepath.Join(destDir, export.FileName(name))

		exists, err := afero.Exists(e.fs, source)
		if err != nil {
			return results, fmt.Errorf("failed to stat %s: %w", source, err)
		}
		if !exists {
			results = append(results, Result{
				Name:   name,
				Status: StatusSkipped,
				Source: source,
				Dest:   dest,
				Reason: &MissingSourceFileError{Path: source},
			})
			continue
		}

		if !dryRun {
			if err := MoveReplacing(e.fs, source, dest); err != nil {
				return results, err
			}
		}
		results = append(results, Result{
			Name:   name,
			Status: StatusMoved,
			Source: source,
			Dest:   dest,
		})
	}

	return results, nil
}

// MoveReplacing moves src to dst, replacing dst if it exists. When a rename
// is not possible (for example across devices) the file is copied and the
// source removed.
func MoveReplacing(fs afero.Fs, src, dst string) error {
	exists, err := afero.Exists(fs, dst)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	if exists {
		if err := fs.Remove(dst); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dst, err)
		}
	}

	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(fs, src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	if err := fs.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
