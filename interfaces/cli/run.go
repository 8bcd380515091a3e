package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [message]",
		Short: "Process a single message synchronously",
		Long: `Run one synchronous request through the agent and print the reply.

Examples:
  # Process a message with the default configuration
  vigil run "summarize my unread email"

  # Use a configuration file
  vigil run -c agent.yaml "summarize my unread email"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initLogging(opts.logLevel, opts.logFormat)

			cfg, err := loadConfig(opts.configPath, false)
			if err != nil {
				return err
			}

			orch, _, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}

			reply, err := orch.ProcessMessage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("processing failed (state %s): %w", reply.State, err)
			}

			fmt.Fprintln(a.stdout, reply.Text)
			fmt.Fprintf(a.stderr, "session %s finished in state %s after %d cycle(s)\n",
				reply.SessionID, reply.State, reply.Cycles)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format (console or json)")

	return cmd
}
