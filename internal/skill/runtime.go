// Package skill implements the skill discovery and execution runtime:
// descriptor parsing and caching, query matching, subprocess execution of
// computation units, and normalization of every outcome into a uniform
// execution envelope.
package skill

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hb-chen/skillrun/pkg/logger"
)

// Runtime is the orchestration facade composing the store, matcher and
// executor for callers that do not need the lower-level components. It
// holds no state of its own beyond what the store caches; every method is
// safe for concurrent use.
type Runtime struct {
	store    *Store
	matcher  *Matcher
	executor Executor
}

// NewRuntime creates a runtime over the given store and executor.
func NewRuntime(store *Store, executor Executor) *Runtime {
	return &Runtime{
		store:    store,
		matcher:  NewMatcher(store),
		executor: executor,
	}
}

// Store returns the underlying metadata store.
func (r *Runtime) Store() *Store {
	return r.store
}

// Find returns the skills matching the query that the caller role is
// authorized to invoke. No result means the caller should fall back to
// default handling.
func (r *Runtime) Find(query, callerRole string) ([]*Skill, error) {
	return r.matcher.FindSkills(query, callerRole)
}

// Metadata returns the cached descriptor for a skill.
func (r *Runtime) Metadata(name string) (*Skill, error) {
	return r.store.GetMetadata(name)
}

// Instructions returns the skill's instructional body, read fresh on every
// call (progressive disclosure: fetched only after a caller has decided to
// use the skill, never during discovery).
func (r *Runtime) Instructions(name string) (string, error) {
	return r.store.GetInstructions(name)
}

// Execute runs a computation unit of a skill and returns the normalized
// envelope. Expected conditions — missing skill, invalid descriptor,
// oversized input, every execution-path failure — are reported inside the
// envelope, never as a Go error; callers have one error-handling path.
func (r *Runtime) Execute(ctx context.Context, name, unitID string, input json.RawMessage) *Result {
	start := time.Now()
	invocationID := uuid.New().String()

	s, err := r.store.GetMetadata(name)
	if err != nil {
		logger.Warnf("Execution of %s/%s rejected: %v", name, unitID, err)
		return failureResult(name, "", invocationID, start, storeFailure(err))
	}

	logger.Debugf("Executing %s/%s invocation %s", name, unitID, invocationID)

	outcome, err := r.executor.Run(ctx, s, unitID, input)
	if err != nil {
		logger.Warnf("Execution of %s/%s failed before completion: %v", name, unitID, err)
		return failureResult(s.Name, s.Version, invocationID, start, executorFailure(err))
	}

	result := Normalize(s.Name, s.Version, start, outcome)
	result.InvocationID = invocationID
	return result
}

// storeFailure maps a metadata store error onto a failure envelope.
func storeFailure(err error) *Failure {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return &Failure{Code: CodeNotFound, Message: err.Error()}
	}
	return &Failure{Code: CodeSchemaError, Message: err.Error()}
}

// executorFailure maps a pre-spawn executor error onto a failure envelope.
func executorFailure(err error) *Failure {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return &Failure{Code: CodeNotFound, Message: err.Error()}
	}
	var tooLarge *InputTooLargeError
	if errors.As(err, &tooLarge) {
		return &Failure{Code: CodeValidation, Message: err.Error(), Field: "input"}
	}
	return &Failure{Code: CodeExecError, Message: err.Error()}
}

func failureResult(name, version, invocationID string, start time.Time, failure *Failure) *Result {
	return &Result{
		Skill:           name,
		Version:         version,
		InvocationID:    invocationID,
		Error:           failure,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
}
