package skill

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptorWith(name string, triggers, callers string) string {
	return fmt.Sprintf(`---
name: %s
title: %s
version: 1.0.0
triggers: %s
allowed_callers: %s
---
body`, name, name, triggers, callers)
}

func TestFindSkillsTriggerMatch(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "lcoe-calculator", descriptorWith("lcoe-calculator", "['calculate lcoe', 'levelized cost']", "['*']"))
	writeSkill(t, dir, "other", descriptorWith("other", "['unrelated phrase']", "['*']"))
	matcher := NewMatcher(NewStore(dir))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"exact", "calculate lcoe for this project", 1},
		{"case differs", "Calculate LCOE now", 1},
		{"second trigger", "what is the Levelized Cost here", 1},
		{"no trigger", "compute net present value", 0},
		{"empty query", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := matcher.FindSkills(tt.query, "analyst")
			require.NoError(t, err)
			assert.Len(t, matched, tt.want)
			if tt.want == 1 {
				assert.Equal(t, "lcoe-calculator", matched[0].Name)
			}
		})
	}
}

func TestFindSkillsAuthorization(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "open", descriptorWith("open", "['report']", "['*']"))
	writeSkill(t, dir, "restricted", descriptorWith("restricted", "['report']", "['admin']"))
	matcher := NewMatcher(NewStore(dir))

	matched, err := matcher.FindSkills("monthly report", "analyst")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "open", matched[0].Name)

	matched, err = matcher.FindSkills("monthly report", "admin")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestFindSkillsEnumerationOrder(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "zulu", descriptorWith("zulu", "['shared trigger']", "['*']"))
	writeSkill(t, dir, "alpha", descriptorWith("alpha", "['shared trigger']", "['*']"))
	matcher := NewMatcher(NewStore(dir))

	// Overlapping triggers: both match, directory order, no ranking.
	matched, err := matcher.FindSkills("uses the shared trigger", "anyone")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "alpha", matched[0].Name)
	assert.Equal(t, "zulu", matched[1].Name)
}

func TestFindSkillsSkipsBrokenDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "broken", "# not a descriptor\n")
	writeSkill(t, dir, "working", descriptorWith("working", "['calculate lcoe']", "['*']"))
	matcher := NewMatcher(NewStore(dir))

	// One broken skill must not block discovery of the others.
	matched, err := matcher.FindSkills("calculate lcoe", "analyst")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "working", matched[0].Name)
}

func TestFindSkillsEmptyTriggerListNeverMatches(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "direct-only", descriptorWith("direct-only", "[]", "['*']"))
	store := NewStore(dir)
	matcher := NewMatcher(store)

	matched, err := matcher.FindSkills("direct-only", "anyone")
	require.NoError(t, err)
	assert.Empty(t, matched)

	// Still invokable by direct reference.
	s, err := store.GetMetadata("direct-only")
	require.NoError(t, err)
	assert.Equal(t, "direct-only", s.Name)
}
