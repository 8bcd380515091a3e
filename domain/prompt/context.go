// Package prompt defines the statically-shaped context record handed
// to the assembler collaborator, replacing the free-form string-keyed
// dictionary with fixed fields plus an explicit extension map.
package prompt

import (
	"github.com/vigil-agent/vigil/domain/memory"
	"github.com/vigil-agent/vigil/domain/protocol"
	"github.com/vigil-agent/vigil/domain/tool"
)

// Context is everything a reasoning cycle feeds into prompt assembly.
type Context struct {
	// State is the active state name.
	State string

	// Instruction is the active state's macro instruction.
	Instruction string

	// Input is the user utterance (synchronous mode) or the event
	// description (reactive mode) seeding this cycle.
	Input string

	// Protocols are the procedures selected by the state's protocol
	// query.
	Protocols []*protocol.Protocol

	// Tools are the descriptors of the available capabilities.
	Tools []tool.Descriptor

	// Memory is the memory collaborator's contribution.
	Memory memory.Snapshot

	// Extra holds free-form additions. Merge semantics: additive,
	// override on key collision.
	Extra map[string]string
}

// Merge folds the given entries into Extra, overriding existing keys on
// collision and leaving all other fields untouched.
func (c *Context) Merge(extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	if c.Extra == nil {
		c.Extra = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		c.Extra[k] = v
	}
}

// Set stores a single extension entry.
func (c *Context) Set(key, value string) {
	if c.Extra == nil {
		c.Extra = make(map[string]string, 1)
	}
	c.Extra[key] = value
}

// Assembler turns a context record into the system prompt payload for
// the generation backend. Implementations live in infrastructure.
type Assembler interface {
	Assemble(ctx Context) (string, error)
}
