package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// monitorOptions holds options for the monitor command.
type monitorOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// newMonitorCmd creates the monitor command.
func (a *App) newMonitorCmd() *cobra.Command {
	opts := &monitorOptions{}

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the reactive monitoring loop",
		Long: `Enter reactive mode: the agent polls the configured event sources on
the watchdog's cadence and self-triggers a reasoning cycle for each
observed event. The loop runs until interrupted (Ctrl-C).

Examples:
  # Monitor the sources from a configuration file
  vigil monitor -c agent.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging(opts.logLevel, opts.logFormat)

			cfg, err := loadConfig(opts.configPath, false)
			if err != nil {
				return err
			}
			if len(cfg.Sources) == 0 {
				return fmt.Errorf("no event sources configured")
			}

			orch, srcs, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stderr, "monitoring %d source(s), poll interval %s\n",
				len(srcs), cfg.Watchdog.PollInterval)

			// Returns once the context is cancelled by a signal.
			return orch.StartMonitoring(cmd.Context(), srcs...)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format (console or json)")

	return cmd
}
