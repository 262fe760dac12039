// Package module locates modules and the package directories their
// configuration is exported to.
package module

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/drape-io/confmod/internal/config"
)

// InvalidModuleError is returned for modules the registry does not know.
type InvalidModuleError struct {
	Module string
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("module '%s' does not exist", e.Module)
}

// VersionMismatchError is returned when a module does not satisfy a
// version constraint.
type VersionMismatchError struct {
	Module     string
	Constraint string
	Version    string
	Err        error // parse failure, if any
}

func (e *VersionMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module '%s': %v", e.Module, e.Err)
	}
	version := e.Version
	if version == "" {
		version = "unknown"
	}
	return fmt.Sprintf("module '%s' version %s does not satisfy '%s'", e.Module, version, e.Constraint)
}

func (e *VersionMismatchError) Unwrap() error { return e.Err }

// ConfigDir returns the configuration directory inside a module's package
// root: config/optional when optional is set, config/install otherwise.
func ConfigDir(packageRoot string, optional bool) string {
	sub := "install"
	if optional {
		sub = "optional"
	}
	return filepath.Join(packageRoot, "config", sub)
}

// Registry is the set of known modules.
type Registry struct {
	modules map[string]*config.Module
}

// NewRegistry returns a registry over modules.
func NewRegistry(modules map[string]*config.Module) *Registry {
	if modules == nil {
		modules = make(map[string]*config.Module)
	}
	return &Registry{modules: modules}
}

// Exists reports whether name is a known module.
func (r *Registry) Exists(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Get returns the module called name.
func (r *Registry) Get(name string) (*config.Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, &InvalidModuleError{Module: name}
	}
	return m, nil
}

// InstallPath returns the package root of the module.
func (r *Registry) InstallPath(name string) (string, error) {
	m, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return m.Path, nil
}

// ConfigPath returns the directory the module's configuration is exported to.
func (r *Registry) ConfigPath(name string, optional bool) (string, error) {
	root, err := r.InstallPath(name)
	if err != nil {
		return "", err
	}
	return ConfigDir(root, optional), nil
}

// Names returns the sorted module names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve resolves a module reference: either a bare module name or
// "name@constraint" with a semantic version constraint such as
// "node@^10" or "site@>=1.2, <2".
func (r *Registry) Resolve(ref string) (*config.Module, error) {
	name, constraint, hasConstraint := strings.Cut(ref, "@")
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if !hasConstraint {
		return m, nil
	}
	if err := checkVersion(m, constraint); err != nil {
		return nil, err
	}
	return m, nil
}

// checkVersion checks the module's declared version against constraint.
func checkVersion(m *config.Module, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return &VersionMismatchError{
			Module:     m.Name,
			Constraint: constraint,
			Err:        fmt.Errorf("invalid version constraint '%s': %w", constraint, err),
		}
	}

	if m.Version == "" {
		return &VersionMismatchError{Module: m.Name, Constraint: constraint}
	}

	v, err := semver.NewVersion(normalizeVersion(m.Version))
	if err != nil {
		return &VersionMismatchError{
			Module:     m.Name,
			Constraint: constraint,
			Version:    m.Version,
			Err:        fmt.Errorf("failed to parse version '%s': %w", m.Version, err),
		}
	}

	if !c.Check(v) {
		return &VersionMismatchError{Module: m.Name, Constraint: constraint, Version: m.Version}
	}
	return nil
}

// normalizeVersion turns core-prefixed versions like "8.x-1.3" into "1.3".
func normalizeVersion(version string) string {
	if _, rest, ok := strings.Cut(version, ".x-"); ok {
		return rest
	}
	return version
}
