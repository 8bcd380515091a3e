// Package assembler renders prompt context records into system prompts.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vigil-agent/vigil/domain/prompt"
)

// Tagged renders the context as tagged sections in a fixed order, so
// identical contexts always produce identical prompts.
type Tagged struct {
	// Preamble is prepended before the first section, if set.
	Preamble string
}

// New creates a tagged assembler.
func New() *Tagged {
	return &Tagged{}
}

// Assemble implements prompt.Assembler.
func (a *Tagged) Assemble(ctx prompt.Context) (string, error) {
	var sb strings.Builder

	if a.Preamble != "" {
		sb.WriteString(a.Preamble)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Current State\n")
	fmt.Fprintf(&sb, "state: %s\n", ctx.State)
	if ctx.Instruction != "" {
		fmt.Fprintf(&sb, "instruction: %s\n", ctx.Instruction)
	}
	sb.WriteString("\n")

	if ctx.Input != "" {
		sb.WriteString("## Input\n")
		sb.WriteString(ctx.Input)
		sb.WriteString("\n\n")
	}

	if len(ctx.Protocols) > 0 {
		sb.WriteString("## Protocols\n")
		for _, p := range ctx.Protocols {
			fmt.Fprintf(&sb, "### %s\n", p.Name)
			if p.Description != "" {
				sb.WriteString(p.Description)
				sb.WriteString("\n")
			}
			for i, step := range p.Steps {
				fmt.Fprintf(&sb, "%d. %s", i+1, step.Name)
				if step.Goal != "" {
					fmt.Fprintf(&sb, " (goal: %s)", step.Goal)
				}
				sb.WriteString("\n")
				for _, instr := range step.Instructions {
					fmt.Fprintf(&sb, "   - %s\n", instr)
				}
			}
		}
		sb.WriteString("\n")
	}

	if len(ctx.Tools) > 0 {
		sb.WriteString("## Available Tools\n")
		for _, d := range ctx.Tools {
			fmt.Fprintf(&sb, "- %s: %s\n", d.Name, d.Description)
		}
		sb.WriteString("\n")
	}

	if len(ctx.Memory.Recent) > 0 || len(ctx.Memory.LongTermKeys) > 0 {
		sb.WriteString("## Memory\n")
		for _, msg := range ctx.Memory.Recent {
			fmt.Fprintf(&sb, "[%s] %s\n", msg.Role, msg.Content)
		}
		if len(ctx.Memory.LongTermKeys) > 0 {
			fmt.Fprintf(&sb, "known entries: %s\n", strings.Join(ctx.Memory.LongTermKeys, ", "))
		}
		sb.WriteString("\n")
	}

	if len(ctx.Extra) > 0 {
		keys := make([]string, 0, len(ctx.Extra))
		for k := range ctx.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("## Context\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "%s: %s\n", k, ctx.Extra[k])
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

var _ prompt.Assembler = (*Tagged)(nil)
