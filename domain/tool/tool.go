// Package tool provides the domain model for agent capabilities.
package tool

import (
	"context"
	"encoding/json"
)

// Tool is a registered capability the agent can invoke from a
// reasoning cycle.
type Tool interface {
	// Name returns the stable string identifier for the tool.
	Name() string

	// Description returns a human-readable description of what the tool
	// does, surfaced to the generation backend.
	Description() string

	// Annotations returns the tool's behavioral annotations.
	Annotations() Annotations

	// Invoke runs the tool with the given JSON arguments.
	Invoke(ctx context.Context, args json.RawMessage) (Result, error)
}

// Handler is the function signature for tool execution.
type Handler func(ctx context.Context, args json.RawMessage) (Result, error)

// Descriptor is the narrow view of a tool that crosses the
// orchestration boundary: name and description, nothing else.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Definition is a concrete implementation of Tool.
type Definition struct {
	name        string
	description string
	annotations Annotations
	handler     Handler
}

// Name returns the tool name.
func (d *Definition) Name() string { return d.name }

// Description returns the tool description.
func (d *Definition) Description() string { return d.description }

// Annotations returns the tool annotations.
func (d *Definition) Annotations() Annotations { return d.annotations }

// Invoke runs the tool handler.
func (d *Definition) Invoke(ctx context.Context, args json.RawMessage) (Result, error) {
	if d.handler == nil {
		return Result{}, ErrNoHandler
	}
	return d.handler(ctx, args)
}

// Builder provides a fluent API for constructing tools.
type Builder struct {
	def *Definition
}

// NewBuilder creates a tool builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: &Definition{
			name:        name,
			annotations: DefaultAnnotations(),
		},
	}
}

// WithDescription sets the tool description.
func (b *Builder) WithDescription(desc string) *Builder {
	b.def.description = desc
	return b
}

// WithHandler sets the tool handler function.
func (b *Builder) WithHandler(handler Handler) *Builder {
	b.def.handler = handler
	return b
}

// ReadOnly marks the tool as side-effect free.
func (b *Builder) ReadOnly() *Builder {
	b.def.annotations.ReadOnly = true
	return b
}

// Idempotent marks repeated calls with the same arguments as safe.
func (b *Builder) Idempotent() *Builder {
	b.def.annotations.Idempotent = true
	return b
}

// Destructive marks the tool as hard to reverse.
func (b *Builder) Destructive() *Builder {
	b.def.annotations.Destructive = true
	return b
}

// WithTags adds categorization tags.
func (b *Builder) WithTags(tags ...string) *Builder {
	b.def.annotations.Tags = append(b.def.annotations.Tags, tags...)
	return b
}

// Build constructs the tool definition.
func (b *Builder) Build() (Tool, error) {
	if b.def.name == "" {
		return nil, ErrEmptyName
	}
	if b.def.handler == nil {
		return nil, ErrNoHandler
	}
	return b.def, nil
}

// MustBuild constructs the tool definition or panics on error.
func (b *Builder) MustBuild() Tool {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
