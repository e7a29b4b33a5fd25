package skill

import (
	"errors"
	"fmt"
)

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NotFoundError indicates that no descriptor or computation unit exists at
// the expected location.
type NotFoundError struct {
	Skill string
	Unit  string // empty when the descriptor itself is missing
}

func (e *NotFoundError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("computation unit not found: %s/%s", e.Skill, e.Unit)
	}
	return fmt.Sprintf("skill not found: %s", e.Skill)
}

// MalformedDescriptorError indicates a SKILL.md whose frontmatter block is
// missing or does not parse.
type MalformedDescriptorError struct {
	Skill string
	Err   error
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("malformed descriptor for skill %s: %v", e.Skill, e.Err)
}

func (e *MalformedDescriptorError) Unwrap() error { return e.Err }

// SchemaError indicates a descriptor that parsed but is missing or violates
// a required field.
type SchemaError struct {
	Skill  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid descriptor for skill %s: field %q %s", e.Skill, e.Field, e.Reason)
}

// InputTooLargeError indicates an execution input exceeding the skill's
// declared max_input_size_kb. Raised before the subprocess is spawned.
type InputTooLargeError struct {
	Skill string
	Size  int
	MaxKb int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("input for skill %s is %d bytes, exceeds limit of %d KB", e.Skill, e.Size, e.MaxKb)
}
