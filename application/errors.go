package application

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a reasoning cycle failed.
type FailureKind string

const (
	// FailureGeneration: the generation collaborator failed after every
	// configured attempt.
	FailureGeneration FailureKind = "generation"

	// FailureTool: a requested tool was missing or its execution failed.
	FailureTool FailureKind = "tool"

	// FailureTimeout: the watchdog deadline passed at a cycle boundary.
	FailureTimeout FailureKind = "timeout"

	// FailureHook: a transition hook failed while driving the machine.
	FailureHook FailureKind = "hook"

	// FailureExhausted: the cycle limit was reached without a final
	// answer.
	FailureExhausted FailureKind = "exhausted"
)

// ErrCycleFailed tags every reasoning-cycle failure.
var ErrCycleFailed = errors.New("reasoning cycle failed")

// CycleError reports a failed reasoning cycle with its cause.
type CycleError struct {
	Kind  FailureKind
	State string
	Cycle int
	Err   error
}

func (e *CycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reasoning cycle failed (%s, state %s, cycle %d): %v", e.Kind, e.State, e.Cycle, e.Err)
	}
	return fmt.Sprintf("reasoning cycle failed (%s, state %s, cycle %d)", e.Kind, e.State, e.Cycle)
}

func (e *CycleError) Unwrap() error { return ErrCycleFailed }

// Cause returns the underlying error, if any.
func (e *CycleError) Cause() error { return e.Err }

// Orchestrator construction and mode errors.
var (
	// ErrNoGenerator indicates no generation client was configured.
	ErrNoGenerator = errors.New("generation client is required")

	// ErrNotMonitorable indicates the machine could not enter the
	// monitoring state.
	ErrNotMonitorable = errors.New("machine cannot enter monitoring")

	// ErrUnknownEvent indicates an event kind outside the closed set.
	ErrUnknownEvent = errors.New("unknown event kind")
)
