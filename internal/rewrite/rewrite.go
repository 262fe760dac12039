// Package rewrite applies search/replace rules to configuration names and
// to every key and string value of a configuration tree.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/drape-io/confmod/internal/tree"
)

// Rule is a compiled search/replace pair. Literal rules replace every
// occurrence of a substring; regex rules replace every match of a pattern.
type Rule struct {
	search  string
	replace string
	re      *regexp2.Regexp
}

// NewLiteral returns a rule replacing every occurrence of search. Neither
// search nor replace has special characters.
func NewLiteral(search, replace string) (*Rule, error) {
	if search == "" {
		return nil, errors.New("search string must not be empty")
	}
	return &Rule{search: search, replace: replace}, nil
}

// NewRegex compiles pattern once for the lifetime of the rule.
//
// The replacement references capture groups as $1, ${1} or ${name}; the
// sed-style \1 through \9 are accepted and translated to ${1}..${9}. A
// literal dollar sign is written $$ and a literal backslash \\, so \\1 is
// a backslash followed by 1.
func NewRegex(pattern, replace string) (*Rule, error) {
	if pattern == "" {
		return nil, errors.New("pattern must not be empty")
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Rule{
		search:  pattern,
		replace: translateBackrefs(replace),
		re:      re,
	}, nil
}

// translateBackrefs rewrites \N group references into ${N} and \\ into a
// single backslash. Any other backslash is kept as is.
func translateBackrefs(replace string) string {
	if !strings.Contains(replace, `\`) {
		return replace
	}
	var b strings.Builder
	for i := 0; i < len(replace); i++ {
		c := replace[i]
		if c != '\\' || i+1 == len(replace) {
			b.WriteByte(c)
			continue
		}
		next := replace[i+1]
		switch {
		case next == '\\':
			b.WriteByte('\\')
			i++
		case next >= '0' && next <= '9':
			b.WriteString("${")
			b.WriteByte(next)
			b.WriteByte('}')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsRegex reports whether r is a regex rule.
func (r *Rule) IsRegex() bool { return r.re != nil }

// String describes the rule for logs.
func (r *Rule) String() string {
	if r.re != nil {
		return fmt.Sprintf("/%s/ -> %q", r.search, r.replace)
	}
	return fmt.Sprintf("%q -> %q", r.search, r.replace)
}

// Apply rewrites s.
func (r *Rule) Apply(s string) (string, error) {
	if r.re == nil {
		return strings.ReplaceAll(s, r.search, r.replace), nil
	}
	out, err := r.re.Replace(s, r.replace, -1, -1)
	if err != nil {
		return "", fmt.Errorf("failed to apply %s to %q: %w", r, s, err)
	}
	return out, nil
}

// Name rewrites a configuration object's name. It uses the same matching
// as tree content so names and trees never disagree.
func Name(name string, r *Rule) (string, error) {
	return r.Apply(name)
}

// Tree returns a rewritten copy of m; m is not modified.
//
// Each entry's key is rewritten first, then its value: mappings are
// descended into and strings are rewritten. Sequences and other scalars are
// kept as-is, so a list of strings is not rewritten. When two keys of the
// same mapping rewrite to the same key, the later entry wins and takes the
// position of the first.
func Tree(m *tree.Map, r *Rule) (*tree.Map, error) {
	out := tree.NewMap()
	var err error
	m.Range(func(key string, v tree.Value) bool {
		var newKey string
		newKey, err = r.Apply(key)
		if err != nil {
			return false
		}
		var newVal tree.Value
		newVal, err = value(v, r)
		if err != nil {
			return false
		}
		out.Set(newKey, newVal)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func value(v tree.Value, r *Rule) (tree.Value, error) {
	switch v.Kind() {
	case tree.KindMap:
		sub, _ := v.Map()
		rewritten, err := Tree(sub, r)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Mapping(rewritten), nil
	case tree.KindString:
		s, _ := v.Str()
		rewritten, err := r.Apply(s)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.String(rewritten), nil
	case tree.KindNull, tree.KindInt, tree.KindFloat, tree.KindBool, tree.KindSeq:
		return v.Clone(), nil
	}
	return v.Clone(), nil
}
