package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSKILL = `---
name: lcoe-calculator
title: LCOE Calculator
version: 1.0.0
category: energy-finance
triggers:
  - calculate lcoe
  - levelized cost
allowed_callers:
  - "*"
runtime: python3
dependencies: []
timeout_seconds: 10
max_input_size_kb: 64
---

# LCOE Calculator

Instructions body here.
`

// writeSkill writes a SKILL.md under dir/name and returns its path.
func writeSkill(t *testing.T, dir, name, content string) string {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	path := filepath.Join(skillDir, SKILLFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSKILL(t *testing.T) {
	path := writeSkill(t, t.TempDir(), "lcoe-calculator", validSKILL)

	s, err := ParseSKILL(path)
	require.NoError(t, err)

	assert.Equal(t, "lcoe-calculator", s.Name)
	assert.Equal(t, "LCOE Calculator", s.Title)
	assert.Equal(t, "1.0.0", s.Version)
	assert.Equal(t, "energy-finance", s.Category)
	assert.Equal(t, []string{"calculate lcoe", "levelized cost"}, s.Triggers)
	assert.Equal(t, []string{"*"}, s.AllowedCallers)
	assert.Equal(t, "python3", s.Runtime)
	assert.Equal(t, 10, s.TimeoutSeconds)
	assert.Equal(t, 64, s.MaxInputSizeKb)
	assert.Equal(t, filepath.Dir(path), s.BasePath)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "scripts"), s.ScriptsPath)
}

func TestParseSKILLDefaults(t *testing.T) {
	path := writeSkill(t, t.TempDir(), "minimal", `---
name: minimal
title: Minimal
version: 0.1.0
triggers:
  - minimal
allowed_callers:
  - analyst
---

Body.
`)

	s, err := ParseSKILL(path)
	require.NoError(t, err)

	assert.Equal(t, defaultTimeoutSeconds, s.TimeoutSeconds)
	assert.Equal(t, defaultMaxInputSizeKb, s.MaxInputSizeKb)
	assert.Equal(t, defaultRuntime, s.Runtime)
}

func TestParseSKILLMissing(t *testing.T) {
	_, err := ParseSKILL(filepath.Join(t.TempDir(), "nope", SKILLFileName))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Skill)
}

func TestParseSKILLMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "# Just markdown\n\nNo header block.\n"},
		{"unterminated frontmatter", "---\nname: broken\ntitle: Broken\n"},
		{"invalid yaml", "---\nname: [unclosed\n---\nbody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSkill(t, t.TempDir(), "broken", tt.content)

			_, err := ParseSKILL(path)
			var malformed *MalformedDescriptorError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, "broken", malformed.Skill)
		})
	}
}

func TestParseSKILLSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			"missing name",
			"---\ntitle: T\nversion: 1.0.0\ntriggers: [x]\nallowed_callers: ['*']\n---\nbody",
			"name",
		},
		{
			"missing title",
			"---\nname: s\nversion: 1.0.0\ntriggers: [x]\nallowed_callers: ['*']\n---\nbody",
			"title",
		},
		{
			"missing version",
			"---\nname: s\ntitle: T\ntriggers: [x]\nallowed_callers: ['*']\n---\nbody",
			"version",
		},
		{
			"missing triggers",
			"---\nname: s\ntitle: T\nversion: 1.0.0\nallowed_callers: ['*']\n---\nbody",
			"triggers",
		},
		{
			"empty trigger phrase",
			"---\nname: s\ntitle: T\nversion: 1.0.0\ntriggers: ['x', '  ']\nallowed_callers: ['*']\n---\nbody",
			"triggers",
		},
		{
			"missing allowed_callers",
			"---\nname: s\ntitle: T\nversion: 1.0.0\ntriggers: [x]\n---\nbody",
			"allowed_callers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSkill(t, t.TempDir(), "s", tt.content)

			_, err := ParseSKILL(path)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

func TestParseSKILLEmptyTriggerList(t *testing.T) {
	// An empty trigger list is valid: the skill is unmatchable by query
	// but still invokable by direct reference.
	path := writeSkill(t, t.TempDir(), "direct-only", `---
name: direct-only
title: Direct Only
version: 1.0.0
triggers: []
allowed_callers: ['*']
---
body`)

	s, err := ParseSKILL(path)
	require.NoError(t, err)
	assert.Empty(t, s.Triggers)
}

func TestParseInstructions(t *testing.T) {
	dir := t.TempDir()
	path := writeSkill(t, dir, "lcoe-calculator", validSKILL)

	body, err := ParseInstructions(path)
	require.NoError(t, err)

	assert.Contains(t, body, "# LCOE Calculator")
	assert.Contains(t, body, "Instructions body here.")
	assert.NotContains(t, body, "triggers:")
}
