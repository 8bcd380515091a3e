package assembler

import (
	"strings"
	"testing"

	"github.com/vigil-agent/vigil/domain/memory"
	"github.com/vigil-agent/vigil/domain/prompt"
	"github.com/vigil-agent/vigil/domain/protocol"
	"github.com/vigil-agent/vigil/domain/tool"
)

func sampleContext() prompt.Context {
	proto := protocol.New("email-triage", "Handle incoming email",
		protocol.Step{Name: "classify", Goal: "decide urgency", Instructions: []string{"read the subject", "check the sender"}},
		protocol.Step{Name: "respond"},
	)
	c := prompt.Context{
		State:       "THINKING",
		Instruction: "Analyze the request and plan a response.",
		Input:       "New email received. Subject: server down.",
		Protocols:   []*protocol.Protocol{proto},
		Tools: []tool.Descriptor{
			{Name: "check_inbox", Description: "lists unread email"},
			{Name: "send_email", Description: "sends a reply"},
		},
		Memory: memory.Snapshot{
			Recent:       []memory.Message{{Role: "user", Content: "keep me posted"}},
			LongTermKeys: []string{"event:email:th-0"},
		},
	}
	c.Set("mode", "reactive")
	c.Set("agent", "vigil")
	return c
}

func TestAssembleSections(t *testing.T) {
	t.Parallel()

	out, err := New().Assemble(sampleContext())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for _, want := range []string{
		"## Current State",
		"state: THINKING",
		"instruction: Analyze the request and plan a response.",
		"## Input",
		"New email received. Subject: server down.",
		"### email-triage",
		"1. classify (goal: decide urgency)",
		"   - read the subject",
		"2. respond",
		"- check_inbox: lists unread email",
		"[user] keep me posted",
		"known entries: event:email:th-0",
		"## Context",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Extension entries are rendered in sorted key order.
	if strings.Index(out, "agent: vigil") > strings.Index(out, "mode: reactive") {
		t.Error("extension entries not sorted by key")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()

	a := New()
	first, err := a.Assemble(sampleContext())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := a.Assemble(sampleContext())
		if err != nil {
			t.Fatal(err)
		}
		if next != first {
			t.Fatal("Assemble() is not deterministic for identical contexts")
		}
	}
}

func TestAssembleMinimalContext(t *testing.T) {
	t.Parallel()

	out, err := New().Assemble(prompt.Context{State: "IDLE"})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if !strings.Contains(out, "state: IDLE") {
		t.Errorf("output missing state:\n%s", out)
	}
	for _, absent := range []string{"## Input", "## Protocols", "## Available Tools", "## Memory", "## Context"} {
		if strings.Contains(out, absent) {
			t.Errorf("empty section %q rendered:\n%s", absent, out)
		}
	}
}

func TestAssemblePreamble(t *testing.T) {
	t.Parallel()

	a := New()
	a.Preamble = "You are a desk assistant."
	out, err := a.Assemble(prompt.Context{State: "IDLE"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "You are a desk assistant.\n\n") {
		t.Errorf("preamble not prepended:\n%s", out)
	}
}
