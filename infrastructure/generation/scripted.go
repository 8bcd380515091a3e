package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ScriptStep pairs an expectation about the request with the response
// to return.
type ScriptStep struct {
	// ExpectContains asserts the rendered system prompt contains this
	// substring before the response is returned.
	ExpectContains string

	// Response is returned when the expectation holds.
	Response Response

	// Err is returned instead of Response when set.
	Err error
}

// Scripted validates each request against a predefined script. It is a
// deterministic stand-in for a real model in integration tests.
type Scripted struct {
	mu    sync.Mutex
	steps []ScriptStep
	index int
}

// NewScripted creates a scripted client with the given steps.
func NewScripted(steps ...ScriptStep) *Scripted {
	return &Scripted{steps: steps}
}

// Complete returns the next scripted response if the request matches.
func (s *Scripted) Complete(_ context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.steps) {
		return Response{}, &ScriptExhaustedError{Step: s.index}
	}

	step := s.steps[s.index]
	if step.ExpectContains != "" && !strings.Contains(req.System, step.ExpectContains) {
		return Response{}, &ScriptMismatchError{
			Step:     s.index,
			Expected: step.ExpectContains,
		}
	}

	s.index++
	if step.Err != nil {
		return Response{}, step.Err
	}
	return step.Response, nil
}

// Name returns the client name.
func (s *Scripted) Name() string { return "scripted" }

// Done reports whether every step has been consumed.
func (s *Scripted) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.steps)
}

// Reset rewinds the script.
func (s *Scripted) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// ScriptExhaustedError indicates a request beyond the end of the script.
type ScriptExhaustedError struct {
	Step int
}

func (e *ScriptExhaustedError) Error() string {
	return fmt.Sprintf("script exhausted at step %d", e.Step)
}

// ScriptMismatchError indicates the request did not match the step's
// expectation.
type ScriptMismatchError struct {
	Step     int
	Expected string
}

func (e *ScriptMismatchError) Error() string {
	return fmt.Sprintf("script mismatch at step %d: system prompt does not contain %q", e.Step, e.Expected)
}
