package cli

import (
	"context"
	"errors"

	"github.com/kubiyabot/dynatrace-mcp/internal/config"
	"github.com/kubiyabot/dynatrace-mcp/internal/dynatrace"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
)

var errNoEnvironments = errors.New("no Dynatrace environments configured")

// establish loads the configuration, validates every environment and probes
// the valid ones. Invalid environments are logged, not fatal.
func establish(ctx context.Context, opts *rootOptions, logger *pterm.Logger) (*config.Config, *dynatrace.Manager, error) {
	cfg, err := config.Load(opts.fs, opts.configFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Debug || opts.debug {
		logger.SetDebug(true)
	}
	if cfg.Path != "" {
		logger.Debug("configuration loaded", "path", cfg.Path, "environments", len(cfg.Environments))
	}

	if len(cfg.Environments) == 0 {
		return nil, nil, dterrors.ConfigErrorWithContext(errNoEnvironments,
			"Add an 'environments' list to ~/.dynatrace-mcp/config.yaml, or set DT_API_URL, DT_ENVIRONMENT_ID and DT_API_TOKEN.")
	}

	result := cfg.Descriptors()
	for _, e := range result.Errors {
		logger.Warning("environment configuration rejected", "reason", e)
	}

	manager := dynatrace.NewManager(result.Valid, result.Errors, dynatrace.WithLogger(logger))
	manager.EstablishAll(ctx)
	return cfg, manager, nil
}

// commandContext returns the command context, which is nil when the command
// is executed without one.
func commandContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
