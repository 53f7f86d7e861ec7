package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	fs         afero.Fs
	configFile string
	debug      bool
}

// NewRootCommand builds the dynatrace-mcp command tree reading configuration from fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "dynatrace-mcp",
		Short: "Dynatrace MCP server for one or many environments",
		Long: `dynatrace-mcp exposes Dynatrace environments to MCP clients over stdio.

Every query tool accepts environment_aliases: a ';'-separated list of
aliases, or ALL_ENVIRONMENTS to ask every usable environment at once.

Configuration is read from ~/.dynatrace-mcp/config.yaml, or from
DT_API_URL, DT_ENVIRONMENT_ID and DT_API_TOKEN for a single environment.`,
		Example: `  # Serve MCP over stdio
  dynatrace-mcp serve

  # Check which environments are reachable
  dynatrace-mcp environments --config ./environments.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to the configuration file (default ~/.dynatrace-mcp/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newEnvironmentsCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the CLI against the real filesystem
func Execute() error {
	return NewRootCommand(afero.NewOsFs()).Execute()
}
