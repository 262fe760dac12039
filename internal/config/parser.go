package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const infoSuffix = ".info.yml"

// Load loads and parses the confmod configuration from the specified path.
// If path is empty, it reads .confmod.toml in the current directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// First decode into a generic map to get all sections
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{
		Modules: make(map[string]ModuleConfig),
	}

	for name, value := range raw {
		if name == "confmod" {
			var settings Settings
			if err := decodeInto(value, &settings); err != nil {
				return nil, fmt.Errorf("failed to parse [confmod] section: %w", err)
			}
			cfg.Settings = &settings
			continue
		}

		var moduleCfg ModuleConfig
		if err := decodeInto(value, &moduleCfg); err != nil {
			return nil, fmt.Errorf("failed to parse [%s] section: %w", name, err)
		}
		if moduleCfg.Path == "" {
			return nil, fmt.Errorf("module [%s] has no path", name)
		}
		cfg.Modules[name] = moduleCfg
	}

	return cfg, nil
}

// decodeInto decodes a generic value into a target struct.
func decodeInto(from any, to any) error {
	// Convert to TOML and back to decode properly
	data, err := toml.Marshal(from)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, to)
}

// LoadResult contains the settings, the known modules and any warnings.
type LoadResult struct {
	Settings Settings
	Modules  map[string]*Module
	Warnings []string
}

// LoadAndMerge loads the main config and merges modules discovered from
// *.info.yml files under the module roots. Paths in the result are
// resolved against rootDir.
func LoadAndMerge(path, rootDir string) (*LoadResult, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	if rootDir == "" {
		rootDir = "."
	}

	// Only use rootDir if path is relative
	configPath := path
	if !filepath.IsAbs(path) {
		configPath = filepath.Join(rootDir, path)
	}
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Modules:  make(map[string]*Module),
		Warnings: []string{},
	}
	if cfg.Settings != nil {
		result.Settings = *cfg.Settings
	}
	result.Settings.StorePath = resolvePath(rootDir, result.Settings.StorePath)
	result.Settings.SyncDir = resolvePath(rootDir, result.Settings.SyncDir)

	for name, moduleCfg := range cfg.Modules {
		result.Modules[name] = &Module{
			Name:    name,
			Path:    resolvePath(rootDir, moduleCfg.Path),
			Version: moduleCfg.Version,
			Type:    "module",
			Source:  "config",
		}
	}

	roots := result.Settings.ModuleRoots
	explicitRoots := len(roots) > 0
	if !explicitRoots {
		roots = DefaultModuleRoots
	}
	for _, root := range roots {
		dir := resolvePath(rootDir, root)
		if _, err := os.Stat(dir); err != nil {
			if explicitRoots {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Warning: module root '%s' does not exist", root))
			}
			continue
		}
		warnings := discoverModules(dir, result.Modules)
		result.Warnings = append(result.Warnings, warnings...)
	}

	return result, nil
}

// resolvePath joins relative paths onto rootDir. Empty paths stay empty.
func resolvePath(rootDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// infoFile is the subset of an extension's <name>.info.yml read by confmod.
type infoFile struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Version string `yaml:"version"`
}

// discoverModules walks root for *.info.yml files and adds the extensions
// they describe. It doesn't override modules that are already known.
// Returns warnings about unreadable files and unknown extension types.
func discoverModules(root string, modules map[string]*Module) []string {
	var warnings []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Warning: cannot read %s: %v", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), infoSuffix) {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), infoSuffix)
		if _, exists := modules[name]; exists {
			return nil
		}

		info, err := loadInfoFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Error parsing %s: %v", path, err))
			return nil
		}

		extType, known := resolveExtensionType(info.Type)
		if !known {
			warnings = append(warnings, formatUnknownTypeWarning(name, info.Type, path))
		}
		if !extType.shipsConfig {
			return nil
		}

		modules[name] = &Module{
			Name:    name,
			Path:    filepath.Dir(path),
			Version: info.Version,
			Type:    extType.name,
			Source:  "info:" + path,
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		warnings = append(warnings, fmt.Sprintf("Error scanning %s: %v", root, err))
	}

	return warnings
}

// skipDir reports whether a directory never contains extensions.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor"
}

func loadInfoFile(path string) (*infoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info infoFile
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
