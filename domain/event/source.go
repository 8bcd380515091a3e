package event

import "context"

// Source abstracts a pollable event origin. Poll returns the events
// observed since the last call, in arrival order; it must not block on
// anything but the context. Mutating operations (sending mail, creating
// tasks) are never part of this contract; they are exposed as tools.
type Source interface {
	// Name identifies the source in configuration and logs.
	Name() string

	// Poll returns newly observed events in arrival order.
	Poll(ctx context.Context) ([]Event, error)
}
