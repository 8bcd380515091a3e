package config

import (
	"fmt"
	"strings"
)

// ValidationError collects everything wrong with one configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Validate checks structural invariants. Transition endpoints may name
// default states, so only custom-state duplicates and empty fields are
// rejected here; unknown endpoints surface when the rules are installed.
func (c *AgentConfig) Validate() error {
	var verr ValidationError

	if c.Name == "" {
		verr.add("name is required")
	}

	seen := make(map[string]bool, len(c.States))
	for i, s := range c.States {
		if s.Name == "" {
			verr.add("states[%d]: name is required", i)
			continue
		}
		if seen[s.Name] {
			verr.add("states[%d]: duplicate state %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.Instruction == "" {
			verr.add("states[%d] (%s): instruction is required", i, s.Name)
		}
	}

	for i, tr := range c.Transitions {
		if tr.From == "" || tr.To == "" {
			verr.add("transitions[%d]: from and to are required", i)
		}
		if tr.Trigger == "" {
			verr.add("transitions[%d]: trigger is required", i)
		}
	}

	protoSeen := make(map[string]bool, len(c.Protocols))
	for i, p := range c.Protocols {
		if p.Name == "" {
			verr.add("protocols[%d]: name is required", i)
			continue
		}
		if protoSeen[p.Name] {
			verr.add("protocols[%d]: duplicate protocol %q", i, p.Name)
		}
		protoSeen[p.Name] = true
	}

	switch c.Memory.Backend {
	case "", "inmem":
	case "redis":
		if c.Memory.Addr == "" {
			verr.add("memory: redis backend requires addr")
		}
	default:
		verr.add("memory: unknown backend %q", c.Memory.Backend)
	}

	switch c.Generation.Provider {
	case "", "mock":
	case "openai":
		if c.Generation.Model == "" {
			verr.add("generation: openai provider requires model")
		}
	default:
		verr.add("generation: unknown provider %q", c.Generation.Provider)
	}

	for i, s := range c.Sources {
		switch s.Kind {
		case "inbox", "tasks":
		case "maildir":
			if s.Path == "" {
				verr.add("sources[%d]: maildir source requires path", i)
			}
		case "":
			verr.add("sources[%d]: kind is required", i)
		default:
			verr.add("sources[%d]: unknown kind %q", i, s.Kind)
		}
	}

	if c.Watchdog.Timeout < 0 {
		verr.add("watchdog: timeout must not be negative")
	}
	if c.Watchdog.PollInterval < 0 {
		verr.add("watchdog: poll_interval must not be negative")
	}

	if len(verr.Problems) > 0 {
		return &verr
	}
	return nil
}
