// Package selector resolves glob patterns against configuration names.
package selector

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/drape-io/confmod/internal/depend"
	"github.com/drape-io/confmod/internal/tree"
)

// NoMatchError is returned when a pattern matches no configuration name.
type NoMatchError struct {
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no configuration matches pattern '%s'", e.Pattern)
}

// InvalidPatternError is returned for malformed glob patterns.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern '%s'", e.Pattern)
}

// NoEnforcedDependencyError is returned when no configuration enforces a
// dependency on the module.
type NoEnforcedDependencyError struct {
	Module string
}

func (e *NoEnforcedDependencyError) Error() string {
	return fmt.Sprintf("no configuration has an enforced dependency on module '%s'", e.Module)
}

// Object is a named configuration tree.
type Object struct {
	Name string
	Data *tree.Map
}

// SelectNames returns the sorted, deduplicated names in all matching any of
// patterns. With no patterns, all is returned unchanged. A pattern matching
// nothing fails the whole selection.
func SelectNames(all []string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return all, nil
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &InvalidPatternError{Pattern: pattern}
		}
	}

	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matched := 0
		for _, name := range all {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, &InvalidPatternError{Pattern: pattern}
			}
			if ok {
				seen[name] = struct{}{}
				matched++
			}
		}
		if matched == 0 {
			return nil, &NoMatchError{Pattern: pattern}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// NamesForModule selects names that carry module as an inner segment,
// such as "field.storage.node.body" for "node".
func NamesForModule(all []string, module string) ([]string, error) {
	return SelectNames(all, []string{"*." + Escape(module) + ".*"})
}

// NamesWithEnforcedDependency returns the sorted names of objects whose
// enforced module dependencies include module.
func NamesWithEnforcedDependency(objects []Object, module string) ([]string, error) {
	var names []string
	for _, obj := range objects {
		if depend.HasEnforced(obj.Data, module) {
			names = append(names, obj.Name)
		}
	}
	if len(names) == 0 {
		return nil, &NoEnforcedDependencyError{Module: module}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// HasMeta reports whether s contains glob metacharacters.
func HasMeta(s string) bool {
	return strings.ContainsAny(s, `*?[]{}\`)
}

// Escape quotes glob metacharacters in s so it matches literally.
func Escape(s string) string {
	if !HasMeta(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
