package command

import (
	"errors"
	"fmt"

	"github.com/drape-io/confmod/internal/export"
	"github.com/drape-io/confmod/internal/module"
	"github.com/drape-io/confmod/internal/relocate"
)

// WriteOptions control WriteModuleConfig.
type WriteOptions struct {
	Optional bool // export to config/optional instead of config/install
	Enforced bool // select objects by enforced dependency
}

// WriteModuleConfig exports the selected configuration objects from the
// store into the module's package directory.
func (s *Service) WriteModuleConfig(moduleRef string, args []string, opts WriteOptions) (*Report, error) {
	m, err := s.Modules.Resolve(moduleRef)
	if err != nil {
		return nil, err
	}

	names, err := s.resolveNames(m.Name, args, opts.Enforced)
	if err != nil {
		return nil, err
	}

	dir := module.ConfigDir(m.Path, opts.Optional)
	report := &Report{Command: "write-module-config"}
	for _, name := range names {
		report.add(Entry{Name: name, Status: StatusExported, To: dir})
	}

	question := fmt.Sprintf("Export %s to %s?", plural(len(names), "configuration object"), dir)
	ok, err := s.confirm(report, question)
	if err != nil || !ok {
		return report, err
	}

	exporter := export.New(s.FS)
	for i, name := range names {
		data, err := s.Store.Read(name)
		if err != nil {
			report.Entries[i].Status, report.Entries[i].Error = StatusFailed, err
			return report, err
		}
		dest, err := exporter.ExportTo(name, data, dir)
		if err != nil {
			report.Entries[i].Status, report.Entries[i].Error = StatusFailed, err
			return report, err
		}
		report.Entries[i].To = dest
		s.logger().Info("exported", "name", name, "path", dest)
	}
	return report, nil
}

// MoveOptions control MoveModuleConfig.
type MoveOptions struct {
	Source   string // sync directory; defaults to Service.SyncDir
	Enforced bool   // select objects by enforced dependency
	Optional bool   // move into config/optional instead of config/install
	DryRun   bool
}

// MoveModuleConfig moves previously exported files of the selected
// configuration objects from the sync directory into the module's package
// directory. Files missing from the sync directory are reported as skipped.
func (s *Service) MoveModuleConfig(moduleRef string, args []string, opts MoveOptions) (*Report, error) {
	m, err := s.Modules.Resolve(moduleRef)
	if err != nil {
		return nil, err
	}

	source := opts.Source
	if source == "" {
		source = s.SyncDir
	}
	if source == "" {
		return nil, &UndefinedConfigSourceError{}
	}

	names, err := s.resolveNames(m.Name, args, opts.Enforced)
	if err != nil {
		return nil, err
	}

	dest := module.ConfigDir(m.Path, opts.Optional)
	engine := relocate.New(s.FS)

	// Plan first so the confirmation reflects what will actually move.
	planned, err := engine.Relocate(names, source, dest, true)
	if err != nil {
		return nil, err
	}

	report := &Report{Command: "move-module-config", DryRun: opts.DryRun}
	addRelocations(report, planned)
	for _, r := range planned {
		if r.Status == relocate.StatusSkipped {
			s.logger().Warn("skipped", "name", r.Name, "reason", r.Reason)
		} else if opts.DryRun {
			s.logger().Info("would move", "name", r.Name, "from", r.Source, "to", r.Dest, "dry_run", true)
		}
	}
	if opts.DryRun {
		return report, nil
	}

	question := fmt.Sprintf("Move %s to %s?", plural(report.Count(StatusMoved), "configuration file"), dest)
	ok, err := s.confirm(report, question)
	if err != nil || !ok {
		return report, err
	}

	results, err := engine.Relocate(names, source, dest, false)
	report.Entries = nil
	addRelocations(report, results)
	for _, r := range results {
		if r.Status == relocate.StatusMoved {
			s.logger().Info("moved", "name", r.Name, "from", r.Source, "to", r.Dest)
		}
	}
	return report, err
}

func addRelocations(report *Report, results []relocate.Result) {
	for _, r := range results {
		entry := Entry{Name: r.Name, From: r.Source, To: r.Dest, Status: StatusMoved}
		if r.Status == relocate.StatusSkipped {
			entry.Status = StatusSkipped
			entry.Detail = "source missing"
			var missing *relocate.MissingSourceFileError
			if errors.As(r.Reason, &missing) {
				entry.Detail = missing.Error()
			}
		}
		report.add(entry)
	}
}
