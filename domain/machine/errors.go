package machine

import "errors"

// Domain errors for the state machine.
var (
	// ErrUnknownState indicates a transition references a state that is
	// not registered.
	ErrUnknownState = errors.New("unknown state")

	// ErrStateInUse indicates an attempt to remove the current state.
	ErrStateInUse = errors.New("state is the current state")

	// ErrEmptyName indicates a state definition with no name.
	ErrEmptyName = errors.New("state name cannot be empty")
)
