package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate an agent configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Required fields and duplicate state names
  - Backend and source settings
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  vigil validate -c agent.yaml

  # Strict validation (fail on missing env vars)
  vigil validate -c agent.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on missing environment variables")

	return cmd
}

func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	cfg, err := loadConfig(opts.configPath, opts.strict)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
	}

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Max cycles: %d\n", cfg.Reasoning.MaxCycles)
	fmt.Fprintf(a.stdout, "  Watchdog timeout: %s\n", cfg.Watchdog.Timeout)
	fmt.Fprintf(a.stdout, "  Poll interval: %s\n", cfg.Watchdog.PollInterval)
	fmt.Fprintf(a.stdout, "  Memory backend: %s\n", cfg.Memory.Backend)
	fmt.Fprintf(a.stdout, "  Generation provider: %s\n", cfg.Generation.Provider)

	if len(cfg.States) > 0 {
		fmt.Fprintf(a.stdout, "  Custom states: %d\n", len(cfg.States))
		for _, s := range cfg.States {
			fmt.Fprintf(a.stdout, "    - %s\n", s.Name)
		}
	}
	if len(cfg.Transitions) > 0 {
		fmt.Fprintf(a.stdout, "  Custom transitions: %d\n", len(cfg.Transitions))
	}
	if len(cfg.Protocols) > 0 {
		fmt.Fprintf(a.stdout, "  Protocols: %d\n", len(cfg.Protocols))
		for _, p := range cfg.Protocols {
			fmt.Fprintf(a.stdout, "    - %s (%d steps)\n", p.Name, len(p.Steps))
		}
	}
	if len(cfg.Sources) > 0 {
		fmt.Fprintf(a.stdout, "  Event sources: %d\n", len(cfg.Sources))
		for _, s := range cfg.Sources {
			fmt.Fprintf(a.stdout, "    - %s\n", s.Kind)
		}
	}

	return nil
}
