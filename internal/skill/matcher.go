package skill

import (
	"strings"

	"github.com/hb-chen/skillrun/pkg/logger"
)

// Matcher resolves free-text queries to the skills a caller may invoke.
type Matcher struct {
	store *Store
}

// NewMatcher creates a matcher backed by the given store.
func NewMatcher(store *Store) *Matcher {
	return &Matcher{store: store}
}

// FindSkills returns the skills whose allowed-caller set admits the role and
// whose triggers match the query, in enumeration (directory) order. A skill
// whose descriptor fails to load is skipped with a warning so one broken
// skill cannot block discovery of the others. An empty result is a normal
// outcome, not an error.
func (m *Matcher) FindSkills(query, callerRole string) ([]*Skill, error) {
	names, err := m.store.Names()
	if err != nil {
		return nil, err
	}

	var matched []*Skill
	for _, name := range names {
		s, err := m.store.GetMetadata(name)
		if err != nil {
			logger.Warnf("Skipping skill %s during discovery: %v", name, err)
			continue
		}
		if !s.Allows(callerRole) {
			continue
		}
		if matchesTriggers(s.Triggers, query) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

// matchesTriggers reports whether any trigger phrase occurs in the query,
// compared case-insensitively. Empty triggers are rejected by the schema
// check, so an empty query can never match.
func matchesTriggers(triggers []string, query string) bool {
	q := strings.ToLower(query)
	for _, t := range triggers {
		if t == "" {
			continue
		}
		if strings.Contains(q, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
