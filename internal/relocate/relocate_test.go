package relocate

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func writeTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readTestFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestRelocate(t *testing.T) {
	t.Run("moves present files and skips missing ones", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeTestFile(t, fs, "/sync/node.type.page.yml", "name: page\n")

		results, err := New(fs).Relocate(
			[]string{"node.type.page", "node.type.article"},
			"/sync",
			"/modules/site/config/install",
			false,
		)
		if err != nil {
			t.Fatalf("Relocate() error = %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Status != StatusMoved {
			t.Errorf("expected first result moved, got %v", results[0].Status)
		}
		if results[1].Status != StatusSkipped {
			t.Errorf("expected second result skipped, got %v", results[1].Status)
		}
		var missing *MissingSourceFileError
		if !errors.As(results[1].Reason, &missing) {
			t.Errorf("expected MissingSourceFileError, got %v", results[1].Reason)
		}

		if got := readTestFile(t, fs, "/modules/site/config/install/node.type.page.yml"); got != "name: page\n" {
			t.Errorf("unexpected moved content %q", got)
		}
		if ok, _ := afero.Exists(fs, "/sync/node.type.page.yml"); ok {
			t.Error("expected source to be removed")
		}
	})

	t.Run("replaces existing destination", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeTestFile(t, fs, "/sync/system.site.yml", "new: true\n")
		writeTestFile(t, fs, "/dest/system.site.yml", "old: true\n")

		if _, err := New(fs).Relocate([]string{"system.site"}, "/sync", "/dest", false); err != nil {
			t.Fatal(err)
		}

		if got := readTestFile(t, fs, "/dest/system.site.yml"); got != "new: true\n" {
			t.Errorf("expected destination replaced, got %q", got)
		}
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeTestFile(t, fs, "/sync/system.site.yml", "x: 1\n")

		results, err := New(fs).Relocate([]string{"system.site"}, "/sync", "/dest", true)
		if err != nil {
			t.Fatal(err)
		}
		if results[0].Status != StatusMoved {
			t.Errorf("expected planned move, got %v", results[0].Status)
		}
		if ok, _ := afero.DirExists(fs, "/dest"); ok {
			t.Error("expected destination directory not to be created")
		}
		if ok, _ := afero.Exists(fs, "/sync/system.site.yml"); !ok {
			t.Error("expected source to remain")
		}
	})

	t.Run("missing source directory aborts", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		_, err := New(fs).Relocate([]string{"system.site"}, "/nope", "/dest", false)
		var missing *MissingSourceDirectoryError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingSourceDirectoryError, got %v", err)
		}
		if missing.Path != "/nope" {
			t.Errorf("unexpected path %q", missing.Path)
		}
	})
}

func TestMoveReplacing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/a/file.yml", "a\n")

	if err := fs.MkdirAll("/b", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := MoveReplacing(fs, "/a/file.yml", "/b/file.yml"); err != nil {
		t.Fatal(err)
	}
	if got := readTestFile(t, fs, "/b/file.yml"); got != "a\n" {
		t.Errorf("unexpected content %q", got)
	}
}

// statErrorFs fails Stat for one path.
type statErrorFs struct {
	afero.Fs
	path string
}

func (f statErrorFs) Stat(name string) (os.FileInfo, error) {
	if name == f.path {
		return nil, errors.New("permission denied")
	}
	return f.Fs.Stat(name)
}

func TestMoveReplacingStatError(t *testing.T) {
	base := afero.NewMemMapFs()
	writeTestFile(t, base, "/a/file.yml", "a\n")
	fs := statErrorFs{Fs: base, path: "/b/file.yml"}

	err := MoveReplacing(fs, "/a/file.yml", "/b/file.yml")
	if err == nil {
		t.Fatal("expected stat error")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("expected wrapped stat error, got %v", err)
	}
	if got := readTestFile(t, base, "/a/file.yml"); got != "a\n" {
		t.Errorf("expected source untouched, got %q", got)
	}
}
