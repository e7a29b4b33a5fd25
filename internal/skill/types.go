package skill

import (
	"context"
	"encoding/json"
	"time"
)

// WildcardCaller in a descriptor's allowed_callers grants every role access.
const WildcardCaller = "*"

// Skill represents a skill definition
type Skill struct {
	// Metadata from SKILL.md frontmatter
	Name           string
	Title          string
	Version        string
	Category       string
	Triggers       []string
	AllowedCallers []string
	Runtime        string
	Dependencies   []string
	TimeoutSeconds int
	MaxInputSizeKb int

	// Path information
	BasePath    string // Path to skill directory (e.g., skills/lcoe-calculator)
	ScriptsPath string // Path to scripts directory (e.g., skills/lcoe-calculator/scripts)
	SKILLPath   string // Path to SKILL.md file

	// Metadata
	LoadedAt time.Time
}

// Timeout returns the skill's execution budget as a duration.
func (s *Skill) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Allows reports whether the given caller role may invoke this skill.
func (s *Skill) Allows(role string) bool {
	for _, c := range s.AllowedCallers {
		if c == WildcardCaller || c == role {
			return true
		}
	}
	return false
}

// OutcomeKind discriminates the raw result of a computation unit run.
type OutcomeKind int

const (
	// OutcomeOK: exit 0 with a parseable payload on stdout.
	OutcomeOK OutcomeKind = iota
	// OutcomeParseFailure: exit 0 but stdout was not a valid payload.
	OutcomeParseFailure
	// OutcomeProcessFailure: non-zero exit.
	OutcomeProcessFailure
	// OutcomeTimeout: the unit was killed at the skill's deadline.
	OutcomeTimeout
)

// RawOutcome is the closed result variant produced by the process executor,
// before normalization. Only the fields matching Kind are meaningful.
type RawOutcome struct {
	Kind       OutcomeKind
	Payload    *UnitPayload // OutcomeOK
	Raw        string       // OutcomeParseFailure: unparseable stdout
	ExitCode   int          // OutcomeProcessFailure
	Diagnostic string       // OutcomeProcessFailure: buffered stderr
}

// UnitPayload is the envelope every computation unit writes to stdout.
// The unit is the authority on domain-level validation: it reports bad
// input via Success=false and Error while still exiting 0.
type UnitPayload struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *UnitError      `json:"error,omitempty"`
}

// UnitError is a domain-level failure reported by a computation unit.
type UnitError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Failure is the machine-readable error half of an execution envelope.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Failure envelope codes. Domain codes (e.g. VALIDATION_ERROR) come from
// the computation unit's own payload and pass through untouched.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeSchemaError = "SCHEMA_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeParseError  = "PARSE_ERROR"
	CodeExecError   = "EXECUTION_ERROR"
	CodeTimeout     = "TIMEOUT_ERROR"
)

// Result is the uniform execution envelope returned for every invocation.
// Exactly one of Data/Error is set; ExecutionTimeMs is always populated.
type Result struct {
	Success         bool            `json:"success"`
	Data            json.RawMessage `json:"data,omitempty"`
	Error           *Failure        `json:"error,omitempty"`
	Skill           string          `json:"skill"`
	Version         string          `json:"version,omitempty"`
	InvocationID    string          `json:"invocation_id,omitempty"`
	ExecutionTimeMs int64           `json:"execution_time_ms"`
}

// Executor defines the interface for running a skill's computation unit.
type Executor interface {
	Run(ctx context.Context, s *Skill, unitID string, input json.RawMessage) (*RawOutcome, error)
}
