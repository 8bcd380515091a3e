package tool

import "errors"

// Domain errors for the tool system.
var (
	// ErrEmptyName indicates a tool was created with an empty name.
	ErrEmptyName = errors.New("tool name cannot be empty")

	// ErrNoHandler indicates a tool was created without a handler.
	ErrNoHandler = errors.New("tool has no handler")

	// ErrNotFound indicates the requested tool is not registered.
	ErrNotFound = errors.New("tool not found")

	// ErrExists indicates a tool with the same name already exists.
	ErrExists = errors.New("tool already registered")
)
