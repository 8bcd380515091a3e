package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func echoTool(name string) Tool {
	return NewBuilder(name).
		WithDescription("echoes its arguments").
		ReadOnly().
		WithHandler(func(_ context.Context, args json.RawMessage) (Result, error) {
			return NewResult(args), nil
		}).
		MustBuild()
}

func TestBuilderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder("").WithHandler(func(context.Context, json.RawMessage) (Result, error) {
		return Result{}, nil
	}).Build(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Build() with empty name error = %v, want ErrEmptyName", err)
	}

	if _, err := NewBuilder("nohandler").Build(); !errors.Is(err, ErrNoHandler) {
		t.Errorf("Build() without handler error = %v, want ErrNoHandler", err)
	}
}

func TestAnnotationsCanRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Annotations
		want bool
	}{
		{"default", DefaultAnnotations(), false},
		{"read-only", Annotations{ReadOnly: true}, true},
		{"idempotent", Annotations{Idempotent: true}, true},
		{"destructive", Annotations{Destructive: true}, false},
	}
	for _, tt := range tests {
		if got := tt.a.CanRetry(); got != tt.want {
			t.Errorf("%s: CanRetry() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(echoTool("echo")); !errors.Is(err, ErrExists) {
		t.Errorf("Register(duplicate) error = %v, want ErrExists", err)
	}

	if !r.Has("echo") {
		t.Error("Has(echo) = false")
	}
	got, ok := r.Get("echo")
	if !ok || got.Name() != "echo" {
		t.Errorf("Get(echo) = %v, %v", got, ok)
	}

	if err := r.Unregister("echo"); err != nil {
		t.Errorf("Unregister() error = %v", err)
	}
	if err := r.Unregister("echo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unregister(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRegistryDescriptorsSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"send_email", "check_inbox", "create_task"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	descs := r.Descriptors()
	want := []string{"check_inbox", "create_task", "send_email"}
	if len(descs) != len(want) {
		t.Fatalf("Descriptors() returned %d entries, want %d", len(descs), len(want))
	}
	for i, d := range descs {
		if d.Name != want[i] {
			t.Errorf("Descriptors()[%d].Name = %q, want %q", i, d.Name, want[i])
		}
		if d.Description == "" {
			t.Errorf("Descriptors()[%d].Description is empty", i)
		}
	}
}

func TestDefinitionInvoke(t *testing.T) {
	t.Parallel()

	tl := echoTool("echo")
	res, err := tl.Invoke(context.Background(), json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.OutputString() != `{"x":1}` {
		t.Errorf("OutputString() = %q", res.OutputString())
	}
}
