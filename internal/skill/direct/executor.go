// Package direct executes a skill's computation units as subprocesses under
// the stdin/stdout JSON protocol: one serialized request in, one serialized
// payload out, diagnostics on stderr.
package direct

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hb-chen/skillrun/internal/skill"
)

// Extensions tried when a unit id is given without one, e.g. "calculate_lcoe"
// resolving to scripts/calculate_lcoe.py.
var unitExtensions = []string{".py", ".sh"}

// DirectExecutor runs computation units belonging to a skill. Each
// invocation spawns an independent subprocess; there is no pooling, no
// global concurrency limit and no retry. A failed unit is always surfaced
// as a failure outcome, never re-executed.
type DirectExecutor struct {
	runner *ScriptRunner
}

// NewDirectExecutor creates a new direct executor
func NewDirectExecutor() *DirectExecutor {
	return &DirectExecutor{
		runner: NewScriptRunner(),
	}
}

// Run executes the named computation unit of a skill with the serialized
// input on stdin and classifies the raw result. The skill's declared
// timeout_seconds bounds the run; max_input_size_kb is enforced before the
// process is spawned.
func (e *DirectExecutor) Run(ctx context.Context, s *skill.Skill, unitID string, input json.RawMessage) (*skill.RawOutcome, error) {
	scriptPath, err := e.resolveUnit(s, unitID)
	if err != nil {
		return nil, err
	}

	if max := s.MaxInputSizeKb * 1024; len(input) > max {
		return nil, &skill.InputTooLargeError{Skill: s.Name, Size: len(input), MaxKb: s.MaxInputSizeKb}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.Timeout())
	defer cancel()

	stdout, stderr, exitCode, timedOut, err := e.runner.Run(runCtx, interpreterFor(s, scriptPath), scriptPath, input)
	if err != nil {
		return nil, err
	}

	if timedOut {
		return &skill.RawOutcome{Kind: skill.OutcomeTimeout}, nil
	}

	if exitCode != 0 {
		return &skill.RawOutcome{
			Kind:       skill.OutcomeProcessFailure,
			ExitCode:   exitCode,
			Diagnostic: strings.TrimSpace(stderr),
		}, nil
	}

	var payload skill.UnitPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return &skill.RawOutcome{
			Kind: skill.OutcomeParseFailure,
			Raw:  stdout,
		}, nil
	}

	return &skill.RawOutcome{Kind: skill.OutcomeOK, Payload: &payload}, nil
}

// resolveUnit maps a unit identifier to a script path under the skill's
// scripts directory. The identifier may carry its extension or omit it.
func (e *DirectExecutor) resolveUnit(s *skill.Skill, unitID string) (string, error) {
	// Unit ids are plain file names; reject anything that escapes the
	// scripts directory.
	if unitID == "" || unitID != filepath.Base(unitID) {
		return "", &skill.NotFoundError{Skill: s.Name, Unit: unitID}
	}

	candidate := filepath.Join(s.ScriptsPath, unitID)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	for _, ext := range unitExtensions {
		candidate := filepath.Join(s.ScriptsPath, unitID+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &skill.NotFoundError{Skill: s.Name, Unit: unitID}
}

// interpreterFor picks the interpreter for a unit: the descriptor's declared
// runtime, with the script extension as a fallback signal.
func interpreterFor(s *skill.Skill, scriptPath string) string {
	if s.Runtime != "" && s.Runtime != "auto" {
		return s.Runtime
	}
	switch filepath.Ext(scriptPath) {
	case ".py":
		return "python3"
	case ".sh":
		return "bash"
	default:
		return "binary"
	}
}
