package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
	"github.com/kubiyabot/dynatrace-mcp/internal/mcp"
	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
	sentryutil "github.com/kubiyabot/dynatrace-mcp/internal/sentry"
	"github.com/kubiyabot/dynatrace-mcp/internal/version"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var toolTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Validate and probe every configured environment, then serve MCP over stdin/stdout.

Environments that are misconfigured, unreachable or older than the minimum
supported cluster version are excluded. The server refuses to start when no
environment is usable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pterm.NewLogger()

			if err := sentryutil.Initialize("dynatrace-mcp@" + version.Version); err != nil {
				logger.Warning("sentry disabled", "error", err)
			}
			defer sentryutil.Flush(2 * time.Second)

			ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, manager, err := establish(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer manager.Close()

			if manager.Usable() == 0 {
				return dterrors.ConnectivityErrorWithContext(
					fmt.Errorf("none of the %d valid environment(s) is usable", len(manager.Statuses())),
					"Run 'dynatrace-mcp environments' to see why each environment was excluded.")
			}
			if toolTimeout > 0 {
				cfg.ToolTimeoutSeconds = int(toolTimeout.Seconds())
			}

			logger.Success("environments ready", "usable", manager.Usable(), "aliases", manager.Registry().Aliases())
			return mcp.NewServer(manager, cfg, logger).Start(ctx)
		},
	}

	cmd.Flags().DurationVar(&toolTimeout, "tool-timeout", 0, "Override the per-tool-call timeout (e.g. 90s)")
	return cmd
}
