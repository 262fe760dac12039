// Package command implements the confmod operations on top of the store,
// the module registry and the filesystem. Every operation validates and
// plans before it asks for confirmation, and mutates only afterwards.
package command

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/drape-io/confmod/internal/module"
	"github.com/drape-io/confmod/internal/prompt"
	"github.com/drape-io/confmod/internal/selector"
	"github.com/drape-io/confmod/internal/store"
	"github.com/spf13/afero"
)

// Service runs commands. All fields except Log are required.
type Service struct {
	Store   store.Store
	Modules *module.Registry
	FS      afero.Fs
	Log     *log.Logger
	Confirm prompt.Confirmer
	SyncDir string // default source for MoveModuleConfig
}

func (s *Service) logger() *log.Logger {
	if s.Log == nil {
		s.Log = log.New(io.Discard)
	}
	return s.Log
}

// confirm asks once per batch. Dry runs and empty batches never ask.
func (s *Service) confirm(report *Report, question string) (bool, error) {
	if report.DryRun || report.Pending() == 0 {
		return false, nil
	}
	ok, err := s.Confirm.Confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		report.Aborted = true
		s.logger().Warn("aborted by user", "command", report.Command)
	}
	return ok, nil
}

// List returns the configuration names matching patterns, or every name
// when no pattern is given.
func (s *Service) List(patterns []string) (*Report, error) {
	all, err := s.Store.ListAll()
	if err != nil {
		return nil, err
	}
	names, err := selector.SelectNames(all, patterns)
	if err != nil {
		return nil, err
	}

	report := &Report{Command: "list"}
	for _, name := range names {
		report.add(Entry{Name: name, Status: StatusListed})
	}
	return report, nil
}

// resolveNames turns command arguments into configuration names for
// moduleName. Arguments without glob metacharacters are literal names and
// must all exist; the rest are patterns. Without arguments, names are
// selected by enforced dependency when enforced is set and by the module
// naming convention otherwise. With arguments, enforced keeps only names
// that enforce a dependency on the module.
func (s *Service) resolveNames(moduleName string, args []string, enforced bool) ([]string, error) {
	all, err := s.Store.ListAll()
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		if enforced {
			objects, err := store.ReadAll(s.Store)
			if err != nil {
				return nil, err
			}
			return selector.NamesWithEnforcedDependency(objects, moduleName)
		}
		return selector.NamesForModule(all, moduleName)
	}

	var names, patterns []string
	for _, arg := range args {
		if selector.HasMeta(arg) {
			patterns = append(patterns, arg)
			continue
		}
		if _, found := slices.BinarySearch(all, arg); !found {
			return nil, &InvalidConfigNameError{Name: arg}
		}
		names = append(names, arg)
	}
	if len(patterns) > 0 {
		matched, err := selector.SelectNames(all, patterns)
		if err != nil {
			return nil, err
		}
		names = append(names, matched...)
	}
	slices.Sort(names)
	names = slices.Compact(names)

	if !enforced {
		return names, nil
	}
	objects := make([]selector.Object, 0, len(names))
	for _, name := range names {
		data, err := s.Store.Read(name)
		if err != nil {
			return nil, err
		}
		objects = append(objects, selector.Object{Name: name, Data: data})
	}
	return selector.NamesWithEnforcedDependency(objects, moduleName)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
