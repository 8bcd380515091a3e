package machine

import (
	"fmt"
	"time"
)

// Snapshot is the read-only view handed to guards and hooks. It carries
// copies, never live references, so a guard cannot reach back into
// mutable orchestrator state.
type Snapshot struct {
	// State is the state the machine occupied when the trigger fired.
	State string

	// Trigger is the token that initiated the lookup.
	Trigger string

	// Vars are caller-supplied values, copied per Fire call.
	Vars map[string]any
}

// Var returns a named snapshot value.
func (s Snapshot) Var(key string) (any, bool) {
	v, ok := s.Vars[key]
	return v, ok
}

// Guard decides whether a matching transition actually fires. Guards
// must be pure: no side effects, no reliance on anything outside the
// snapshot.
type Guard func(Snapshot) bool

// Hook runs synchronously with a transition. An exit hook failure
// aborts the transition before the state mutates; an enter hook failure
// is reported after the state has already mutated.
type Hook func(Snapshot) error

// Transition is a single rule in the transition table. Multiple rules
// may share a source and trigger; they are evaluated in registration
// order and the first whose guard accepts wins.
type Transition struct {
	Source  string
	Target  string
	Trigger string
	Guard   Guard
	OnExit  Hook
	OnEnter Hook
}

// Result describes the outcome of a Fire call. Transitioned is false
// both for a no-op (no matching rule) and for an exit-hook abort; the
// accompanying error distinguishes the two.
type Result struct {
	From         string
	To           string
	Trigger      string
	Transitioned bool
}

// Record is one entry in the machine's bounded transition history.
type Record struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Trigger string    `json:"trigger"`
	At      time.Time `json:"at"`
}

// HookPhase identifies which hook of a transition failed.
type HookPhase string

const (
	// PhaseExit is the hook bound to the outgoing state. A failure here
	// leaves the current state unchanged.
	PhaseExit HookPhase = "exit"

	// PhaseEnter is the hook bound to the incoming state. A failure here
	// leaves the machine in the new state; the transition is still
	// reported as failed.
	PhaseEnter HookPhase = "enter"
)

// HookError reports a hook failure during a transition, identifying the
// phase so callers can tell whether the state pointer moved.
type HookError struct {
	Phase   HookPhase
	From    string
	To      string
	Trigger string
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed on %s -> %s (trigger %s): %v",
		e.Phase, e.From, e.To, e.Trigger, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Mutated reports whether the current-state pointer moved despite the
// hook failure.
func (e *HookError) Mutated() bool {
	return e.Phase == PhaseEnter
}
