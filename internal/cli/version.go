package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubiyabot/dynatrace-mcp/internal/version"
)

func newVersionCommand() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dynatrace-mcp %s\n", version.GetVersion())

			if !checkUpdate {
				return nil
			}
			latest, hasUpdate, err := version.CheckForUpdate(commandContext(cmd.Context()), version.ReleasesURL)
			if err != nil {
				fmt.Fprintf(out, "Could not check for updates: %v\n", err)
				return nil
			}
			if hasUpdate {
				fmt.Fprint(out, version.GetUpdateMessage(latest))
			} else {
				fmt.Fprintln(out, "You are running the latest version")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")
	return cmd
}
