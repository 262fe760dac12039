package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("loads settings and modules", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".confmod.toml")

		writeTestFile(t, configPath, `
[confmod]
store = "sqlite"
store_path = "db/config.sqlite"
sync_dir = "config/sync"
module_roots = ["web/modules"]

[site]
path = "web/modules/custom/site"
version = "1.2.0"
`)

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Settings == nil {
			t.Fatal("expected settings to be loaded")
		}
		if cfg.Settings.Store != StoreSQLite {
			t.Errorf("expected store sqlite, got %q", cfg.Settings.Store)
		}
		if cfg.Settings.SyncDir != "config/sync" {
			t.Errorf("expected sync dir config/sync, got %q", cfg.Settings.SyncDir)
		}
		if len(cfg.Settings.ModuleRoots) != 1 || cfg.Settings.ModuleRoots[0] != "web/modules" {
			t.Errorf("unexpected module roots %v", cfg.Settings.ModuleRoots)
		}

		site, ok := cfg.Modules["site"]
		if !ok {
			t.Fatal("expected site module")
		}
		if site.Path != "web/modules/custom/site" || site.Version != "1.2.0" {
			t.Errorf("unexpected module %+v", site)
		}
	})

	t.Run("returns error for module without path", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".confmod.toml")
		writeTestFile(t, configPath, `
[site]
version = "1.0.0"
`)

		if _, err := Load(configPath); err == nil {
			t.Error("expected error for module without path")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		if _, err := Load("/nonexistent/path/.confmod.toml"); err == nil {
			t.Error("expected error for non-existent file")
		}
	})

	t.Run("returns error for invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".confmod.toml")
		writeTestFile(t, configPath, `
[site
invalid toml
`)

		if _, err := Load(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

// Test helper functions
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func loadAndMergeHelper(t *testing.T, configPath, baseDir string) *LoadResult {
	t.Helper()
	result, err := LoadAndMerge(configPath, baseDir)
	if err != nil {
		t.Fatalf("LoadAndMerge() error = %v", err)
	}
	return result
}

func TestLoadAndMerge(t *testing.T) {
	t.Run("resolves paths against root", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `
[confmod]
store_path = "active"
sync_dir = "sync"

[site]
path = "custom/site"
`)

		result := loadAndMergeHelper(t, ".confmod.toml", tmpDir)

		if result.Settings.StorePath != filepath.Join(tmpDir, "active") {
			t.Errorf("unexpected store path %q", result.Settings.StorePath)
		}
		if result.Settings.SyncDir != filepath.Join(tmpDir, "sync") {
			t.Errorf("unexpected sync dir %q", result.Settings.SyncDir)
		}
		if result.Modules["site"].Path != filepath.Join(tmpDir, "custom/site") {
			t.Errorf("unexpected module path %q", result.Modules["site"].Path)
		}
	})

	t.Run("empty sync dir stays empty", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `# empty config`)

		result := loadAndMergeHelper(t, "", tmpDir)

		if result.Settings.SyncDir != "" {
			t.Errorf("expected empty sync dir, got %q", result.Settings.SyncDir)
		}
	})

	t.Run("auto-detects modules from info files", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `# empty config`)
		writeTestFile(t, filepath.Join(tmpDir, "modules/custom/site/site.info.yml"), `
name: Site
type: module
version: 2.1.0
`)
		writeTestFile(t, filepath.Join(tmpDir, "core/modules/node/node.info.yml"), `
name: Node
type: module
`)

		result := loadAndMergeHelper(t, "", tmpDir)

		site := result.Modules["site"]
		if site == nil {
			t.Fatal("expected 'site' module from info file")
		}
		if site.Path != filepath.Join(tmpDir, "modules/custom/site") {
			t.Errorf("unexpected path %q", site.Path)
		}
		if site.Version != "2.1.0" {
			t.Errorf("expected version 2.1.0, got %q", site.Version)
		}
		if !strings.HasPrefix(site.Source, "info:") {
			t.Errorf("unexpected source %q", site.Source)
		}
		if result.Modules["node"] == nil {
			t.Error("expected 'node' module from core/modules")
		}
	})

	t.Run("main config overrides discovered modules", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `
[site]
path = "elsewhere/site"
version = "9.9.9"
`)
		writeTestFile(t, filepath.Join(tmpDir, "modules/site/site.info.yml"), "version: 1.0.0\n")

		result := loadAndMergeHelper(t, "", tmpDir)

		if result.Modules["site"].Version != "9.9.9" {
			t.Errorf("expected explicit version, got %q", result.Modules["site"].Version)
		}
	})

	t.Run("skips theme engines and hidden directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `# empty config`)
		writeTestFile(t, filepath.Join(tmpDir, "themes/engine/twig.info.yml"), "type: theme_engine\n")
		writeTestFile(t, filepath.Join(tmpDir, "modules/.git/hidden.info.yml"), "type: module\n")

		result := loadAndMergeHelper(t, "", tmpDir)

		if result.Modules["twig"] != nil {
			t.Error("expected theme engine to be skipped")
		}
		if result.Modules["hidden"] != nil {
			t.Error("expected hidden directory to be skipped")
		}
	})

	t.Run("warns on unknown types and broken info files", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `# empty config`)
		writeTestFile(t, filepath.Join(tmpDir, "modules/odd/odd.info.yml"), "type: widget\n")
		writeTestFile(t, filepath.Join(tmpDir, "modules/bad/bad.info.yml"), "type: [unclosed\n")

		result := loadAndMergeHelper(t, "", tmpDir)

		if result.Modules["odd"] == nil {
			t.Error("expected unknown type to be treated as a module")
		}
		if result.Modules["bad"] != nil {
			t.Error("expected broken info file to be skipped")
		}
		if len(result.Warnings) != 2 {
			t.Errorf("expected 2 warnings, got %v", result.Warnings)
		}
	})

	t.Run("warns on missing explicit module root", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeTestFile(t, filepath.Join(tmpDir, ".confmod.toml"), `
[confmod]
module_roots = ["missing"]
`)

		result := loadAndMergeHelper(t, "", tmpDir)

		if len(result.Warnings) != 1 {
			t.Errorf("expected 1 warning, got %v", result.Warnings)
		}
	})
}

func TestResolveExtensionType(t *testing.T) {
	tests := []struct {
		name          string
		extType       string
		expectedName  string
		expectedShips bool
		expectedKnown bool
	}{
		{"empty is module", "", "module", true, true},
		{"module", "module", "module", true, true},
		{"profile", "profile", "profile", true, true},
		{"theme engine", "theme_engine", "theme_engine", false, true},
		{"unknown", "widget", "widget", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, known := resolveExtensionType(tt.extType)
			if ext.name != tt.expectedName {
				t.Errorf("expected name %q, got %q", tt.expectedName, ext.name)
			}
			if ext.shipsConfig != tt.expectedShips {
				t.Errorf("expected shipsConfig %v, got %v", tt.expectedShips, ext.shipsConfig)
			}
			if known != tt.expectedKnown {
				t.Errorf("expected known %v, got %v", tt.expectedKnown, known)
			}
		})
	}
}

func TestFormatUnknownTypeWarning(t *testing.T) {
	expected := "Warning: Unknown extension type 'widget' for 'odd' in odd.info.yml. " +
		"Treating it as a module. If this is incorrect, define it explicitly in .confmod.toml"

	if got := formatUnknownTypeWarning("odd", "widget", "odd.info.yml"); got != expected {
		t.Errorf("expected warning:\n%s\ngot:\n%s", expected, got)
	}
}
