package skill

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/tools"
)

// ConvertSkillToTool exposes a skill to an orchestrating agent as a
// langchaingo Tool. Tool input is a JSON object with an optional "unit"
// selecting the computation unit and an "input" payload passed through to
// the subprocess.
func ConvertSkillToTool(s *Skill, rt *Runtime) tools.Tool {
	return &skillTool{
		skill:   s,
		runtime: rt,
	}
}

// skillTool implements the tools.Tool interface
type skillTool struct {
	skill   *Skill
	runtime *Runtime
}

// toolCall is the input shape an agent passes to a skill tool.
type toolCall struct {
	Unit  string          `json:"unit"`
	Input json.RawMessage `json:"input"`
}

// Name returns the tool name
func (t *skillTool) Name() string {
	return t.skill.Name
}

// Description returns the tool description
func (t *skillTool) Description() string {
	return fmt.Sprintf("%s (v%s): triggers %v", t.skill.Title, t.skill.Version, t.skill.Triggers)
}

// Call executes a computation unit of the skill and returns the envelope.
func (t *skillTool) Call(ctx context.Context, input string) (string, error) {
	var call toolCall
	if input != "" {
		if err := json.Unmarshal([]byte(input), &call); err != nil {
			// Not a structured call; treat the whole input as the payload
			call = toolCall{Input: json.RawMessage(input)}
		}
	}
	if call.Unit == "" {
		call.Unit = t.skill.Name
	}

	result := t.runtime.Execute(ctx, t.skill.Name, call.Unit, call.Input)

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal execution result: %w", err)
	}
	return string(out), nil
}

// Tools converts every discoverable skill to a langchaingo tool, matching
// the matcher's per-skill tolerance: a broken descriptor is skipped rather
// than failing the whole set.
func (r *Runtime) Tools() ([]tools.Tool, error) {
	names, err := r.store.Names()
	if err != nil {
		return nil, err
	}

	converted := make([]tools.Tool, 0, len(names))
	for _, name := range names {
		s, err := r.store.GetMetadata(name)
		if err != nil {
			continue
		}
		converted = append(converted, ConvertSkillToTool(s, r))
	}
	return converted, nil
}
