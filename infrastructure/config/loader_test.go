package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vigil-agent/vigil/domain/config"
)

const sampleYAML = `
name: assistant
description: desk assistant
states:
  - name: TRIAGE
    instruction: Sort incoming items by urgency.
    protocols: triage
transitions:
  - from: IDLE
    to: TRIAGE
    trigger: "input:triage"
watchdog:
  timeout: 90s
  poll_interval: 10s
reasoning:
  max_cycles: 6
memory:
  backend: redis
  addr: "${VIGIL_REDIS_ADDR:-localhost:6379}"
`

func TestLoadStringYAML(t *testing.T) {
	cfg, err := NewLoader().LoadString(sampleYAML, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "assistant" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if len(cfg.States) != 1 || cfg.States[0].Name != "TRIAGE" {
		t.Fatalf("States = %+v", cfg.States)
	}
	if cfg.Watchdog.Timeout.Duration() != 90*time.Second {
		t.Errorf("Watchdog.Timeout = %v", cfg.Watchdog.Timeout)
	}
	if cfg.Reasoning.MaxCycles != 6 {
		t.Errorf("Reasoning.MaxCycles = %d", cfg.Reasoning.MaxCycles)
	}
	// Normalize fills what the file leaves out.
	if cfg.Reasoning.MaxAttempts != config.DefaultMaxAttempts {
		t.Errorf("Reasoning.MaxAttempts = %d", cfg.Reasoning.MaxAttempts)
	}
	// The env var is unset, so the fallback applies.
	if cfg.Memory.Addr != "localhost:6379" {
		t.Errorf("Memory.Addr = %q", cfg.Memory.Addr)
	}
}

func TestLoadStringJSON(t *testing.T) {
	cfg, err := NewLoader().LoadString(`{"name":"assistant"}`, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "assistant" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestLoadStringInvalid(t *testing.T) {
	if _, err := NewLoader().LoadString(`{not yaml`, FormatJSON); !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("malformed JSON error = %v, want ErrInvalidFormat", err)
	}

	if _, err := NewLoader().LoadString(`{"name":""}`, FormatJSON); !errors.Is(err, config.ErrValidation) {
		t.Errorf("invalid config error = %v, want ErrValidation", err)
	}

	if _, err := NewLoader(WithValidation(false)).LoadString(`{"name":""}`, FormatJSON); err != nil {
		t.Errorf("validation disabled error = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "assistant" {
		t.Errorf("Name = %q", cfg.Name)
	}

	if _, err := NewLoader().LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("missing file error = %v, want ErrConfigNotFound", err)
	}

	other := filepath.Join(dir, "agent.toml")
	if err := os.WriteFile(other, []byte("name = 'x'"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader().LoadFile(other); !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("unknown extension error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("VIGIL_TEST_KEY", "secret")

	got, err := expand("key: ${VIGIL_TEST_KEY}", false)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if got != "key: secret" {
		t.Errorf("expand() = %q", got)
	}

	got, err = expand("addr: ${VIGIL_TEST_UNSET:-fallback}", false)
	if err != nil {
		t.Fatalf("expand() error = %v", err)
	}
	if got != "addr: fallback" {
		t.Errorf("expand() = %q", got)
	}

	if _, err := expand("key: ${VIGIL_TEST_UNSET}", true); !errors.Is(err, config.ErrMissingEnv) {
		t.Errorf("strict expand error = %v, want ErrMissingEnv", err)
	}

	got, err = expand("key: ${VIGIL_TEST_UNSET}", false)
	if err != nil || got != "key: " {
		t.Errorf("lenient expand = %q, %v", got, err)
	}
}
