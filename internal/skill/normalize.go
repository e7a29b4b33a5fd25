package skill

import (
	"fmt"
	"time"
)

// Normalize maps a raw subprocess outcome into the uniform execution
// envelope. The mapping is total: every outcome kind produces exactly one
// result, and ExecutionTimeMs is populated regardless of the outcome.
func Normalize(skillName, version string, start time.Time, outcome *RawOutcome) *Result {
	result := &Result{
		Skill:           skillName,
		Version:         version,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	switch outcome.Kind {
	case OutcomeOK:
		payload := outcome.Payload
		if payload.Success {
			result.Success = true
			result.Data = payload.Data
			return result
		}
		// The unit is the authority on domain validation failures;
		// its embedded error passes through untouched.
		failure := &Failure{Code: CodeValidation, Message: "computation unit reported failure"}
		if payload.Error != nil {
			failure = &Failure{
				Code:    payload.Error.Code,
				Message: payload.Error.Message,
				Field:   payload.Error.Field,
			}
		}
		result.Error = failure
		return result

	case OutcomeParseFailure:
		result.Error = &Failure{
			Code:    CodeParseError,
			Message: "computation unit produced unparseable output",
		}
		return result

	case OutcomeProcessFailure:
		message := outcome.Diagnostic
		if message == "" {
			message = fmt.Sprintf("computation unit exited with code %d", outcome.ExitCode)
		}
		result.Error = &Failure{
			Code:    CodeExecError,
			Message: message,
		}
		return result

	case OutcomeTimeout:
		result.Error = &Failure{
			Code:    CodeTimeout,
			Message: "execution exceeded the skill's time budget",
		}
		return result

	default:
		result.Error = &Failure{
			Code:    CodeExecError,
			Message: fmt.Sprintf("unknown outcome kind %d", outcome.Kind),
		}
		return result
	}
}
