package command

import (
	"fmt"

	"github.com/drape-io/confmod/internal/depend"
	"github.com/drape-io/confmod/internal/tree"
)

// EnforceOptions control EnforceModuleDependency.
type EnforceOptions struct {
	Remove     bool // remove the enforced dependency instead of adding it
	RemoveUUID bool // drop the top-level uuid of every touched object
	DryRun     bool
}

// EnforceModuleDependency adds (or removes) an enforced dependency on the
// module to the selected configuration objects. Only objects whose tree
// actually changes are written.
func (s *Service) EnforceModuleDependency(moduleRef string, args []string, opts EnforceOptions) (*Report, error) {
	m, err := s.Modules.Resolve(moduleRef)
	if err != nil {
		return nil, err
	}

	names, err := s.resolveNames(m.Name, args, opts.Remove && len(args) == 0)
	if err != nil {
		return nil, err
	}

	report := &Report{Command: "enforce-module-dependency", DryRun: opts.DryRun}
	updates := make(map[string]*tree.Map)
	for _, name := range names {
		data, err := s.Store.Read(name)
		if err != nil {
			return nil, err
		}

		var updated *tree.Map
		if opts.Remove {
			updated = depend.RemoveEnforced(data, m.Name)
		} else {
			updated = depend.AddEnforced(data, m.Name)
		}
		if opts.RemoveUUID {
			updated.Delete("uuid")
		}

		if updated.Equal(data) {
			report.add(Entry{Name: name, Status: StatusUnchanged})
			continue
		}
		updates[name] = updated
		report.add(Entry{Name: name, Status: StatusUpdated, Detail: enforceDetail(m.Name, opts)})
	}

	if opts.DryRun {
		for _, name := range names {
			if _, ok := updates[name]; ok {
				s.logger().Info("would update", "name", name, "module", m.Name, "dry_run", true)
			}
		}
		return report, nil
	}

	verb := "Add"
	if opts.Remove {
		verb = "Remove"
	}
	question := fmt.Sprintf("%s enforced dependency on '%s' for %s?", verb, m.Name,
		plural(len(updates), "configuration object"))
	ok, err := s.confirm(report, question)
	if err != nil || !ok {
		return report, err
	}

	for _, name := range names {
		updated, ok := updates[name]
		if !ok {
			continue
		}
		if err := s.Store.Write(name, updated); err != nil {
			return report, err
		}
		s.logger().Info("updated", "name", name, "module", m.Name)
	}
	return report, nil
}

func enforceDetail(moduleName string, opts EnforceOptions) string {
	detail := "enforces " + moduleName
	if opts.Remove {
		detail = "no longer enforces " + moduleName
	}
	if opts.RemoveUUID {
		detail += ", uuid removed"
	}
	return detail
}
