package cli

import (
	"fmt"

	"github.com/vigil-agent/vigil/application"
	domaincfg "github.com/vigil-agent/vigil/domain/config"
	"github.com/vigil-agent/vigil/domain/event"
	"github.com/vigil-agent/vigil/domain/machine"
	"github.com/vigil-agent/vigil/domain/memory"
	"github.com/vigil-agent/vigil/domain/protocol"
	infracfg "github.com/vigil-agent/vigil/infrastructure/config"
	"github.com/vigil-agent/vigil/infrastructure/generation"
	"github.com/vigil-agent/vigil/infrastructure/logging"
	inframem "github.com/vigil-agent/vigil/infrastructure/memory"
	"github.com/vigil-agent/vigil/infrastructure/sources"
	"github.com/vigil-agent/vigil/infrastructure/watchdog"
)

// loadConfig reads and validates the configuration file, or returns a
// normalized default configuration when no path is given.
func loadConfig(path string, strictEnv bool) (*domaincfg.AgentConfig, error) {
	if path == "" {
		cfg := &domaincfg.AgentConfig{Name: "vigil"}
		cfg.Normalize()
		return cfg, nil
	}

	opts := []infracfg.LoaderOption{}
	if strictEnv {
		opts = append(opts, infracfg.WithStrictEnv(true))
	}
	return infracfg.NewLoader(opts...).LoadFile(path)
}

// buildOrchestrator wires the configured collaborators into an
// orchestrator plus the configured event sources.
func buildOrchestrator(cfg *domaincfg.AgentConfig) (*application.Orchestrator, []event.Source, error) {
	m := machine.NewDefault()
	for _, s := range cfg.States {
		m.RegisterState(machine.Definition{
			Name:          s.Name,
			Instruction:   s.Instruction,
			Requires:      s.Requires,
			ProtocolQuery: s.Protocols,
		})
	}
	for _, tr := range cfg.Transitions {
		if err := m.AddTransition(machine.Transition{
			Source:  tr.From,
			Target:  tr.To,
			Trigger: tr.Trigger,
		}); err != nil {
			return nil, nil, fmt.Errorf("transition %s -> %s: %w", tr.From, tr.To, err)
		}
	}

	library := protocol.NewLibrary()
	for _, p := range cfg.Protocols {
		steps := make([]protocol.Step, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = protocol.Step{
				Name:         s.Name,
				Goal:         s.Goal,
				Instructions: s.Instructions,
				Notes:        s.Notes,
			}
		}
		library.Register(protocol.New(p.Name, p.Description, steps...))
	}

	mem, err := buildMemory(cfg)
	if err != nil {
		return nil, nil, err
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, nil, err
	}

	srcs, err := buildSources(cfg)
	if err != nil {
		return nil, nil, err
	}

	orch, err := application.New(application.Config{
		Machine:     m,
		Generator:   gen,
		Memory:      mem,
		Protocols:   library,
		Watchdog:    watchdog.New(watchdog.WithPollInterval(cfg.Watchdog.PollInterval.Duration())),
		MaxCycles:   cfg.Reasoning.MaxCycles,
		MaxAttempts: cfg.Reasoning.MaxAttempts,
		Timeout:     cfg.Watchdog.Timeout.Duration(),
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	})
	if err != nil {
		return nil, nil, err
	}
	return orch, srcs, nil
}

func buildMemory(cfg *domaincfg.AgentConfig) (memory.Manager, error) {
	switch cfg.Memory.Backend {
	case "", "inmem":
		return inframem.NewInMem(cfg.Memory.HistoryLimit), nil
	case "redis":
		return inframem.NewRedis(inframem.RedisConfig{
			Addr:         cfg.Memory.Addr,
			Namespace:    cfg.Memory.Namespace,
			HistoryLimit: cfg.Memory.HistoryLimit,
		})
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Memory.Backend)
	}
}

func buildGenerator(cfg *domaincfg.AgentConfig) (generation.Client, error) {
	switch cfg.Generation.Provider {
	case "", "mock":
		return generation.NewMock(), nil
	case "openai":
		return generation.NewOpenAI(generation.OpenAIConfig{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}

func buildSources(cfg *domaincfg.AgentConfig) ([]event.Source, error) {
	var out []event.Source
	for _, s := range cfg.Sources {
		switch s.Kind {
		case "inbox":
			out = append(out, sources.NewInbox())
		case "tasks":
			out = append(out, sources.NewTaskBoard())
		case "maildir":
			src, err := sources.NewMaildir(s.Path)
			if err != nil {
				return nil, fmt.Errorf("maildir source: %w", err)
			}
			out = append(out, src)
		default:
			return nil, fmt.Errorf("unknown source kind %q", s.Kind)
		}
	}
	return out, nil
}

// initLogging configures the process logger.
func initLogging(level, format string) {
	cfg := logging.DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	logging.Init(cfg)
}
