package command

import "fmt"

// Status is the outcome for a single configuration object.
type Status string

const (
	StatusListed    Status = "listed"
	StatusRenamed   Status = "renamed"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusExported  Status = "exported"
	StatusMoved     Status = "moved"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Entry is one line of a report.
type Entry struct {
	Name   string
	Status Status
	From   string // previous name or source path
	To     string // new name or destination path
	Detail string
	Error  error
}

// Report is the result of running a command.
type Report struct {
	Command string
	DryRun  bool
	Aborted bool // the user declined the confirmation
	Entries []Entry
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Count returns the number of entries with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Pending returns the number of entries that change something.
func (r *Report) Pending() int {
	n := 0
	for _, e := range r.Entries {
		switch e.Status {
		case StatusRenamed, StatusUpdated, StatusExported, StatusMoved:
			n++
		case StatusListed, StatusUnchanged, StatusSkipped, StatusFailed:
			// no change
		}
	}
	return n
}

// InvalidConfigNameError is returned for explicitly named configuration
// objects that are not in the store.
type InvalidConfigNameError struct {
	Name string
}

func (e *InvalidConfigNameError) Error() string {
	return fmt.Sprintf("configuration '%s' does not exist", e.Name)
}

// NameConflictError is returned when a rename would overwrite another
// configuration object.
type NameConflictError struct {
	Name   string
	Reason string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("cannot rename to '%s': %s", e.Name, e.Reason)
}

// UndefinedConfigSourceError is returned when no sync directory is
// configured and none was given.
type UndefinedConfigSourceError struct{}

func (e *UndefinedConfigSourceError) Error() string {
	return "no configuration source directory: set sync_dir in " +
		"the [confmod] section or pass --source"
}
