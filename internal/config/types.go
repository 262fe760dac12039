package config

// Store backends.
const (
	StoreFiles  = "files"
	StoreSQLite = "sqlite"
)

// Defaults applied when the [confmod] section leaves a setting empty.
const (
	DefaultConfigFile = ".confmod.toml"
	DefaultStorePath  = "config/active"
)

// DefaultModuleRoots are scanned for *.info.yml files when module_roots is
// not set. Missing defaults are ignored.
var DefaultModuleRoots = []string{"modules", "core/modules", "profiles", "themes"}

// Config represents the complete confmod configuration file.
type Config struct {
	Settings *Settings
	Modules  map[string]ModuleConfig
}

// Settings represents the [confmod] section of the configuration.
type Settings struct {
	Store       string   `toml:"store"`        // "files" (default) or "sqlite"
	StorePath   string   `toml:"store_path"`   // directory or database file
	Collection  string   `toml:"collection"`   // sqlite collection, "" = default
	SyncDir     string   `toml:"sync_dir"`     // shared export staging directory
	ModuleRoots []string `toml:"module_roots"` // directories scanned for *.info.yml
}

// ModuleConfig represents an explicit module section of the configuration.
type ModuleConfig struct {
	Path    string `toml:"path"`    // required: package root of the module
	Version string `toml:"version"` // optional: semantic version
}

// Module represents a module known to confmod.
type Module struct {
	Name    string // machine name
	Path    string // package root directory
	Version string // declared version (may be empty)
	Type    string // extension type from the info file ("module", "theme", ...)
	Source  string // where the module was defined ("config" or "info:<file>")
}
