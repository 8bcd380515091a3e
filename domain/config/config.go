// Package config provides domain models for agent configuration.
package config

import "time"

// AgentConfig is the complete configuration for one agent instance.
type AgentConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the agent's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// States are additional states registered on top of the defaults.
	States []StateConfig `json:"states,omitempty" yaml:"states,omitempty"`
	// Transitions are additional transition rules.
	Transitions []TransitionConfig `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	// Protocols are procedures loaded into the protocol library.
	Protocols []ProtocolConfig `json:"protocols,omitempty" yaml:"protocols,omitempty"`

	// Watchdog contains timing settings.
	Watchdog WatchdogConfig `json:"watchdog,omitempty" yaml:"watchdog,omitempty"`
	// Reasoning bounds the reasoning cycle.
	Reasoning ReasoningConfig `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	// Generation configures the text-generation backend.
	Generation GenerationConfig `json:"generation,omitempty" yaml:"generation,omitempty"`
	// Memory configures the memory backend.
	Memory MemoryConfig `json:"memory,omitempty" yaml:"memory,omitempty"`
	// Sources configures the event sources for reactive mode.
	Sources []SourceConfig `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// StateConfig registers a custom state.
type StateConfig struct {
	// Name is the state identifier.
	Name string `json:"name" yaml:"name"`
	// Instruction is the macro instruction for this state.
	Instruction string `json:"instruction" yaml:"instruction"`
	// Requires lists capability names the state expects.
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	// Protocols is the protocol query for this state.
	Protocols string `json:"protocols,omitempty" yaml:"protocols,omitempty"`
}

// TransitionConfig registers a transition rule.
type TransitionConfig struct {
	// From is the source state.
	From string `json:"from" yaml:"from"`
	// To is the target state.
	To string `json:"to" yaml:"to"`
	// Trigger is the token that drives the rule.
	Trigger string `json:"trigger" yaml:"trigger"`
}

// ProtocolConfig declares a protocol for the library.
type ProtocolConfig struct {
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []ProtocolStepConfig `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// ProtocolStepConfig declares one protocol step.
type ProtocolStepConfig struct {
	Name         string   `json:"name" yaml:"name"`
	Goal         string   `json:"goal,omitempty" yaml:"goal,omitempty"`
	Instructions []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// WatchdogConfig contains the watchdog timings.
type WatchdogConfig struct {
	// Timeout bounds a single reasoning cycle.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// PollInterval paces the monitoring loop.
	PollInterval Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// Duration wraps time.Duration for human-readable config values ("90s",
// "2m") in both YAML and JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ReasoningConfig bounds the reasoning cycle.
type ReasoningConfig struct {
	// MaxCycles is the maximum number of generate/tool rounds per call.
	MaxCycles int `json:"max_cycles,omitempty" yaml:"max_cycles,omitempty"`
	// MaxAttempts bounds generation retries per round.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
}

// GenerationConfig configures the text-generation backend.
type GenerationConfig struct {
	// Provider selects the backend (openai, mock).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Model is the model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// MemoryConfig configures the memory backend.
type MemoryConfig struct {
	// Backend selects the implementation (inmem, redis).
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// HistoryLimit bounds the conversation history.
	HistoryLimit int `json:"history_limit,omitempty" yaml:"history_limit,omitempty"`
	// Addr is the redis address for the redis backend.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Namespace prefixes redis keys.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// SourceConfig configures one event source.
type SourceConfig struct {
	// Kind selects the source implementation (inbox, tasks, maildir).
	Kind string `json:"kind" yaml:"kind"`
	// Name overrides the source's display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Path is the watched directory for the maildir source.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default values applied by Normalize.
const (
	DefaultMaxCycles    = 10
	DefaultMaxAttempts  = 3
	DefaultTimeout      = Duration(2 * time.Minute)
	DefaultPollInterval = Duration(30 * time.Second)
	DefaultHistoryLimit = 50
)

// Normalize fills zero-valued settings with their defaults.
func (c *AgentConfig) Normalize() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Reasoning.MaxCycles <= 0 {
		c.Reasoning.MaxCycles = DefaultMaxCycles
	}
	if c.Reasoning.MaxAttempts <= 0 {
		c.Reasoning.MaxAttempts = DefaultMaxAttempts
	}
	if c.Watchdog.Timeout <= 0 {
		c.Watchdog.Timeout = DefaultTimeout
	}
	if c.Watchdog.PollInterval <= 0 {
		c.Watchdog.PollInterval = DefaultPollInterval
	}
	if c.Memory.Backend == "" {
		c.Memory.Backend = "inmem"
	}
	if c.Memory.HistoryLimit <= 0 {
		c.Memory.HistoryLimit = DefaultHistoryLimit
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = "mock"
	}
}
