package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	ptermutil "github.com/kubiyabot/dynatrace-mcp/internal/pterm"
	"github.com/kubiyabot/dynatrace-mcp/internal/types"
)

func newEnvironmentsCommand(opts *rootOptions) *cobra.Command {
	var ci bool

	cmd := &cobra.Command{
		Use:     "environments",
		Aliases: []string{"envs"},
		Short:   "Probe the configured environments and print their status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := types.OutputModeInteractive
			if ci {
				mode = types.OutputModeCI
			}
			pm := ptermutil.NewPTermManager(mode, cmd.OutOrStdout())
			logger := ptermutil.NewLogger()

			var spinner *pterm.SpinnerPrinter
			if sp := pm.Spinner("Probing environments..."); sp != nil {
				spinner, _ = sp.Start()
			}
			_, manager, err := establish(commandContext(cmd.Context()), opts, logger)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}
			defer manager.Close()

			data := pterm.TableData{{"ALIAS", "USABLE", "API URL", "PROXY", "PROBLEM"}}
			for _, st := range manager.Statuses() {
				usable := "yes"
				if !st.Valid {
					usable = "no"
				}
				proxy := st.Proxy
				if proxy == "" {
					proxy = "-"
				}
				data = append(data, []string{st.Alias, usable, st.APIURL, proxy, st.ValidationError})
			}
			if err := pm.Table().WithData(data).Render(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%d of %d environment(s) usable\n", manager.Usable(), len(manager.Statuses()))
			if configErrors := manager.ConfigErrors(); len(configErrors) > 0 {
				fmt.Fprintln(out, "\nConfiguration problems:")
				for _, e := range configErrors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ci, "ci", false, "Plain output without colors or spinners")
	return cmd
}
