// Package depend edits the enforced module dependencies declared by a
// configuration object.
//
// Declarations live under "dependencies" in the object tree:
//
//	dependencies:
//	  module: [text]
//	  enforced:
//	    module: [node, user]
//
// The enforced module list is always deduplicated and sorted, and empty
// "module", "enforced" and "dependencies" entries are never kept.
package depend

import (
	"slices"

	"github.com/drape-io/confmod/internal/tree"
)

const (
	keyDependencies = "dependencies"
	keyEnforced     = "enforced"
	keyModule       = "module"
)

// Enforced returns the enforced module dependencies of data.
func Enforced(data *tree.Map) []string {
	v, ok := data.Lookup(keyDependencies, keyEnforced, keyModule)
	if !ok {
		return nil
	}
	return v.StringItems()
}

// HasEnforced reports whether data enforces a dependency on component.
func HasEnforced(data *tree.Map, component string) bool {
	return slices.Contains(Enforced(data), component)
}

// AddEnforced returns a copy of data with component in its enforced module
// list. Applying it twice yields the same tree as applying it once. An
// enforced module entry that is not a list is left as it is.
func AddEnforced(data *tree.Map, component string) *tree.Map {
	out := data.Clone()
	deps := childMap(out, keyDependencies)
	enforced := childMap(deps, keyEnforced)

	var names []string
	var others []tree.Value
	if v, ok := enforced.Get(keyModule); ok {
		if names, others, ok = splitModules(v); !ok {
			return out
		}
	}

	enforced.Set(keyModule, moduleList(append(names, component), others))
	deps.Set(keyEnforced, tree.Mapping(enforced))
	out.Set(keyDependencies, tree.Mapping(deps))
	return out
}

// RemoveEnforced returns a copy of data without component in its enforced
// module list, dropping any scaffolding left empty. An enforced module entry
// that is not a list is left as it is.
func RemoveEnforced(data *tree.Map, component string) *tree.Map {
	out := data.Clone()
	depsVal, ok := out.Get(keyDependencies)
	if !ok {
		return out
	}
	deps, ok := depsVal.Map()
	if !ok {
		return out
	}
	if enforcedVal, ok := deps.Get(keyEnforced); ok {
		if enforced, ok := enforcedVal.Map(); ok {
			if v, ok := enforced.Get(keyModule); ok {
				if names, others, ok := splitModules(v); ok {
					names = slices.DeleteFunc(names, func(m string) bool { return m == component })
					if len(names)+len(others) == 0 {
						enforced.Delete(keyModule)
					} else {
						enforced.Set(keyModule, moduleList(names, others))
					}
				}
			}
			if enforced.Len() == 0 {
				deps.Delete(keyEnforced)
			}
		}
	}

	if deps.Len() == 0 {
		out.Delete(keyDependencies)
	}
	return out
}

// childMap returns the mapping stored under key in parent, or a new empty
// mapping when the key is missing or holds another kind. The caller stores
// it back.
func childMap(parent *tree.Map, key string) *tree.Map {
	if v, ok := parent.Get(key); ok {
		if m, ok := v.Map(); ok {
			return m
		}
	}
	return tree.NewMap()
}

// splitModules separates the string entries of an enforced module list from
// any other items. ok is false when v is not a sequence.
func splitModules(v tree.Value) (names []string, others []tree.Value, ok bool) {
	items, ok := v.Items()
	if !ok {
		return nil, nil, false
	}
	for _, item := range items {
		if s, isString := item.Str(); isString {
			names = append(names, s)
		} else {
			others = append(others, item)
		}
	}
	return names, others, true
}

// moduleList builds the sorted, deduplicated module list. Non-string items
// follow the names unchanged.
func moduleList(names []string, others []tree.Value) tree.Value {
	slices.Sort(names)
	names = slices.Compact(names)
	items := make([]tree.Value, 0, len(names)+len(others))
	for _, name := range names {
		items = append(items, tree.String(name))
	}
	return tree.Seq(append(items, others...)...)
}
