package command

import (
	"fmt"

	"github.com/drape-io/confmod/internal/rewrite"
	"github.com/drape-io/confmod/internal/tree"
)

// renameChange is a planned rename and/or content rewrite of one object.
type renameChange struct {
	oldName string
	newName string
	data    *tree.Map
	rewrite bool // content changed
}

func (c renameChange) renamed() bool { return c.oldName != c.newName }

// Rename rewrites from into to in every configuration name, key and string
// value. With regex set, from is a regular expression and to may reference
// its groups. Objects whose name and content are unaffected are left alone.
func (s *Service) Rename(from, to string, regex, dryRun bool) (*Report, error) {
	var rule *rewrite.Rule
	var err error
	if regex {
		rule, err = rewrite.NewRegex(from, to)
	} else {
		rule, err = rewrite.NewLiteral(from, to)
	}
	if err != nil {
		return nil, err
	}

	changes, err := s.planRename(rule)
	if err != nil {
		return nil, err
	}

	report := &Report{Command: "rename", DryRun: dryRun}
	for _, c := range changes {
		entry := Entry{Name: c.newName, Status: StatusUpdated, From: c.oldName, To: c.newName}
		if c.renamed() {
			entry.Status = StatusRenamed
			if c.rewrite {
				entry.Detail = "content rewritten"
			}
		}
		report.add(entry)
	}

	if dryRun {
		for _, c := range changes {
			s.logger().Info("would rewrite", "from", c.oldName, "to", c.newName, "dry_run", true)
		}
		return report, nil
	}

	ok, err := s.confirm(report, fmt.Sprintf("Rewrite %s?", plural(len(changes), "configuration object")))
	if err != nil || !ok {
		return report, err
	}

	for _, c := range changes {
		if c.renamed() {
			if err := s.Store.Rename(c.oldName, c.newName); err != nil {
				return report, err
			}
			s.logger().Info("renamed", "from", c.oldName, "to", c.newName)
		}
		if c.rewrite {
			if err := s.Store.Write(c.newName, c.data); err != nil {
				return report, err
			}
			s.logger().Info("updated", "name", c.newName)
		}
	}
	return report, nil
}

// planRename computes every change and orders renames so that no object is
// renamed onto a name that is still occupied. Conflicting plans fail before
// anything is written.
func (s *Service) planRename(rule *rewrite.Rule) ([]renameChange, error) {
	names, err := s.Store.ListAll()
	if err != nil {
		return nil, err
	}

	var changes []renameChange
	for _, name := range names {
		data, err := s.Store.Read(name)
		if err != nil {
			return nil, err
		}
		newName, err := rewrite.Name(name, rule)
		if err != nil {
			return nil, err
		}
		newData, err := rewrite.Tree(data, rule)
		if err != nil {
			return nil, err
		}

		c := renameChange{
			oldName: name,
			newName: newName,
			data:    newData,
			rewrite: !newData.Equal(data),
		}
		if c.renamed() || c.rewrite {
			changes = append(changes, c)
		}
	}

	return orderRenames(names, changes)
}

// orderRenames checks the targets of renames and sorts changes so each
// rename happens after the object occupying its target has moved away.
func orderRenames(existing []string, changes []renameChange) ([]renameChange, error) {
	movingAway := make(map[string]bool)
	targets := make(map[string]string)
	for _, c := range changes {
		if !c.renamed() {
			continue
		}
		if c.newName == "" {
			return nil, &NameConflictError{Name: c.newName, Reason: fmt.Sprintf("'%s' would get an empty name", c.oldName)}
		}
		if other, dup := targets[c.newName]; dup {
			return nil, &NameConflictError{
				Name:   c.newName,
				Reason: fmt.Sprintf("both '%s' and '%s' would be renamed to it", other, c.oldName),
			}
		}
		targets[c.newName] = c.oldName
		movingAway[c.oldName] = true
	}

	occupied := make(map[string]bool, len(existing))
	for _, name := range existing {
		occupied[name] = true
	}
	for target, source := range targets {
		if occupied[target] && !movingAway[target] {
			return nil, &NameConflictError{
				Name:   target,
				Reason: fmt.Sprintf("it already exists and '%s' would overwrite it", source),
			}
		}
	}

	ordered := make([]renameChange, 0, len(changes))
	pending := changes
	for len(pending) > 0 {
		var next []renameChange
		for _, c := range pending {
			if c.renamed() && occupied[c.newName] {
				next = append(next, c)
				continue
			}
			if c.renamed() {
				delete(occupied, c.oldName)
				occupied[c.newName] = true
			}
			ordered = append(ordered, c)
		}
		if len(next) == len(pending) {
			return nil, &NameConflictError{
				Name:   next[0].newName,
				Reason: "renames form a cycle",
			}
		}
		pending = next
	}
	return ordered, nil
}
