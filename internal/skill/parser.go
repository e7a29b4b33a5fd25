package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeoutSeconds = 30
	defaultMaxInputSizeKb = 256
	defaultRuntime        = "auto"
)

// Metadata represents the YAML frontmatter in SKILL.md
type Metadata struct {
	Name           string   `yaml:"name"`
	Title          string   `yaml:"title"`
	Version        string   `yaml:"version"`
	Category       string   `yaml:"category"`
	Triggers       []string `yaml:"triggers"`
	AllowedCallers []string `yaml:"allowed_callers"`
	Runtime        string   `yaml:"runtime"`
	Dependencies   []string `yaml:"dependencies"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxInputSizeKb int      `yaml:"max_input_size_kb"`
}

// ParseSKILL parses a SKILL.md file and extracts the validated descriptor.
func ParseSKILL(skillPath string) (*Skill, error) {
	name := filepath.Base(filepath.Dir(skillPath))

	data, err := os.ReadFile(skillPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Skill: name}
		}
		return nil, fmt.Errorf("failed to read SKILL.md: %w", err)
	}

	frontmatter, _, err := extractFrontmatter(string(data))
	if err != nil {
		return nil, &MalformedDescriptorError{Skill: name, Err: err}
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(frontmatter), &meta); err != nil {
		return nil, &MalformedDescriptorError{Skill: name, Err: err}
	}

	if err := validateMetadata(name, &meta); err != nil {
		return nil, err
	}

	if meta.TimeoutSeconds <= 0 {
		meta.TimeoutSeconds = defaultTimeoutSeconds
	}
	if meta.MaxInputSizeKb <= 0 {
		meta.MaxInputSizeKb = defaultMaxInputSizeKb
	}
	if meta.Runtime == "" {
		meta.Runtime = defaultRuntime
	}

	basePath := filepath.Dir(skillPath)

	return &Skill{
		Name:           meta.Name,
		Title:          meta.Title,
		Version:        meta.Version,
		Category:       meta.Category,
		Triggers:       meta.Triggers,
		AllowedCallers: meta.AllowedCallers,
		Runtime:        meta.Runtime,
		Dependencies:   meta.Dependencies,
		TimeoutSeconds: meta.TimeoutSeconds,
		MaxInputSizeKb: meta.MaxInputSizeKb,
		BasePath:       basePath,
		ScriptsPath:    filepath.Join(basePath, "scripts"),
		SKILLPath:      skillPath,
		LoadedAt:       time.Now(),
	}, nil
}

// ParseInstructions returns the instructional body of a SKILL.md with the
// frontmatter block stripped, verbatim otherwise.
func ParseInstructions(skillPath string) (string, error) {
	name := filepath.Base(filepath.Dir(skillPath))

	data, err := os.ReadFile(skillPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Skill: name}
		}
		return "", fmt.Errorf("failed to read SKILL.md: %w", err)
	}

	_, body, err := extractFrontmatter(string(data))
	if err != nil {
		return "", &MalformedDescriptorError{Skill: name, Err: err}
	}

	return strings.TrimSpace(body), nil
}

// validateMetadata enforces the descriptor schema: required identity fields,
// a trigger list (may be empty, but no blank phrases) and an allowed-caller
// list. A skill with no triggers is unmatchable but still directly invokable.
func validateMetadata(skillName string, meta *Metadata) error {
	if meta.Name == "" {
		return &SchemaError{Skill: skillName, Field: "name", Reason: "is required"}
	}
	if meta.Title == "" {
		return &SchemaError{Skill: skillName, Field: "title", Reason: "is required"}
	}
	if meta.Version == "" {
		return &SchemaError{Skill: skillName, Field: "version", Reason: "is required"}
	}
	if meta.Triggers == nil {
		return &SchemaError{Skill: skillName, Field: "triggers", Reason: "is required"}
	}
	for _, t := range meta.Triggers {
		if strings.TrimSpace(t) == "" {
			return &SchemaError{Skill: skillName, Field: "triggers", Reason: "must not contain empty phrases"}
		}
	}
	if len(meta.AllowedCallers) == 0 {
		return &SchemaError{Skill: skillName, Field: "allowed_callers", Reason: "is required"}
	}
	return nil
}

// extractFrontmatter extracts YAML frontmatter from markdown content
// Returns frontmatter, body, and error
func extractFrontmatter(content string) (string, string, error) {
	if !strings.HasPrefix(content, "---") {
		return "", content, fmt.Errorf("SKILL.md must start with YAML frontmatter (---)")
	}

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return "", content, fmt.Errorf("invalid frontmatter format: first line must be ---")
	}

	// Find closing ---
	bodyStart := 1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			bodyStart = i + 1
			break
		}
	}

	if bodyStart == 1 {
		return "", content, fmt.Errorf("invalid frontmatter format: closing --- not found")
	}

	frontmatter := strings.Join(lines[1:bodyStart-1], "\n")
	body := strings.Join(lines[bodyStart:], "\n")

	return frontmatter, body, nil
}
