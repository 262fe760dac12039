package export

import (
	"path/filepath"
	"testing"

	"github.com/drape-io/confmod/internal/tree"
	"github.com/spf13/afero"
)

func sampleTree() *tree.Map {
	return tree.NewMap().
		Set("uuid", tree.String("5f3c9a0e-1111-2222-3333-444455556666")).
		Set("langcode", tree.String("en")).
		Set("_core", tree.Mapping(tree.NewMap().Set("default_config_hash", tree.String("abc")))).
		Set("name", tree.String("Basic page")).
		Set("settings", tree.Mapping(tree.NewMap().
			Set("uuid", tree.String("kept-when-nested"))))
}

func TestStrip(t *testing.T) {
	in := sampleTree()
	got := Strip(in)

	if got.Has("uuid") || got.Has("_core") {
		t.Errorf("expected transient keys removed, got %v", got.Keys())
	}
	if _, ok := got.Lookup("settings", "uuid"); !ok {
		t.Error("expected nested uuid to be kept")
	}
	if !in.Has("uuid") {
		t.Error("input was mutated")
	}
}

func TestExport(t *testing.T) {
	t.Run("round trips without transient keys", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		dest := "/modules/custom/site/config/install/node.type.page.yml"

		if err := New(fs).Export(sampleTree(), dest); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		data, err := afero.ReadFile(fs, dest)
		if err != nil {
			t.Fatalf("expected file to be written: %v", err)
		}
		back, err := tree.Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Equal(Strip(sampleTree())) {
			t.Errorf("round trip mismatch:\n%s", data)
		}
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		dest := "/out/system.site.yml"
		if err := afero.WriteFile(fs, dest, []byte("old: true\nextra: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		in := tree.NewMap().Set("name", tree.String("Site"))
		if err := New(fs).Export(in, dest); err != nil {
			t.Fatal(err)
		}

		data, _ := afero.ReadFile(fs, dest)
		if string(data) != "name: Site\n" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("export to directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		dest, err := New(fs).ExportTo("system.site", tree.NewMap(), "/pkg/config/optional")
		if err != nil {
			t.Fatal(err)
		}
		if dest != filepath.Join("/pkg/config/optional", "system.site.yml") {
			t.Errorf("unexpected destination %q", dest)
		}
		if ok, _ := afero.Exists(fs, dest); !ok {
			t.Error("expected file to exist")
		}
	})
}
