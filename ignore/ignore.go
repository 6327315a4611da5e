// Package ignore filters normalized archive paths with gitignore-style
// patterns supplied on the command line.
package ignore

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

type Matcher struct {
	m gitignore.Matcher
}

// New builds a matcher from gitignore-style patterns. An empty pattern list
// yields a matcher that matches nothing.
func New(patterns []string) *Matcher {
	var ps []gitignore.Pattern
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(p, nil))
	}
	if len(ps) == 0 {
		return &Matcher{}
	}
	return &Matcher{m: gitignore.NewMatcher(ps)}
}

// Match reports whether a normalized forward-slash path is excluded.
func (m *Matcher) Match(p string) bool {
	if m == nil || m.m == nil {
		return false
	}
	return m.m.Match(strings.Split(p, "/"), false)
}
