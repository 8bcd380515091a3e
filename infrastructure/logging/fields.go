package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for the agent kernel.

// State adds the current state name.
func State(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", name)
	}
}

// FromState adds a from_state field for transitions.
func FromState(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_state", name)
	}
}

// ToState adds a to_state field for transitions.
func ToState(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_state", name)
	}
}

// Trigger adds the trigger token driving a transition.
func Trigger(t string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("trigger", t)
	}
}

// EventKind adds the kind of an observed event.
func EventKind(kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("event_kind", kind)
	}
}

// EventID adds the stable identity of an observed event.
func EventID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("event_id", id)
	}
}

// Source adds an event source name.
func Source(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("source", name)
	}
}

// Tick adds the monitoring tick counter.
func Tick(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("tick", n)
	}
}

// Cycle adds the reasoning cycle counter.
func Cycle(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("cycle", n)
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Provider adds a generation provider name.
func Provider(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("provider", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an int field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
