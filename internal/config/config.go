// Package config loads the server configuration: the list of Dynatrace
// environments plus the knobs of the MCP server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
)

const (
	// DefaultAlias names the environment built from DT_* variables when DT_ALIAS is unset.
	DefaultAlias = "default"

	defaultRequestsPerSecond  = 5.0
	defaultBurst              = 10
	defaultToolTimeoutSeconds = 60
)

// Config is the complete server configuration.
type Config struct {
	Environments       []environment.RawRecord `json:"environments" yaml:"environments"`
	RateLimit          RateLimitConfig         `json:"rateLimit" yaml:"rateLimit"`
	ToolTimeoutSeconds int                     `json:"toolTimeoutSeconds" yaml:"toolTimeoutSeconds"`
	Debug              bool                    `json:"debug" yaml:"debug"`

	// Path is the file the configuration was read from, empty when none was.
	Path string `json:"-" yaml:"-"`
}

// RateLimitConfig bounds tool calls per client session.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// ToolTimeout returns the deadline applied to one tool call.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

// DefaultPath returns ~/.dynatrace-mcp/config.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dynatrace-mcp", "config.yaml")
}

// Load reads the configuration file at path (the default location when path
// is empty) and applies environment variables. A missing default file is not
// an error; a missing explicit file is.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := &Config{
		RateLimit: RateLimitConfig{
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		ToolTimeoutSeconds: defaultToolTimeoutSeconds,
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(expandVars(data), cfg); err != nil {
				return nil, dterrors.ConfigErrorWithContext(
					fmt.Errorf("failed to parse %s: %w", path, err),
					"The file must be YAML or JSON with an 'environments' list.")
			}
			cfg.Path = path
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, dterrors.ConfigError(fmt.Errorf("failed to read %s: %w", path, err))
		}
	}

	if len(cfg.Environments) == 0 {
		if rec, ok := recordFromEnv(); ok {
			cfg.Environments = []environment.RawRecord{rec}
		}
	}
	applyProxyEnv(cfg.Environments)

	if v := os.Getenv("DT_MCP_DEBUG"); v != "" {
		cfg.Debug = v == "true"
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = defaultBurst
	}
	if cfg.ToolTimeoutSeconds <= 0 {
		cfg.ToolTimeoutSeconds = defaultToolTimeoutSeconds
	}

	return cfg, nil
}

// Descriptors normalizes and validates the configured environments. The valid
// descriptors keep configuration order.
func (c *Config) Descriptors() environment.ValidationResult {
	return environment.Validate(environment.Normalize(c.Environments))
}

// recordFromEnv builds a single environment from DT_* variables.
func recordFromEnv() (environment.RawRecord, bool) {
	rec := environment.RawRecord{
		APIEndpointURL: os.Getenv("DT_API_URL"),
		EnvironmentID:  os.Getenv("DT_ENVIRONMENT_ID"),
		APIToken:       os.Getenv("DT_API_TOKEN"),
		DynatraceURL:   os.Getenv("DT_DASHBOARD_URL"),
		Alias:          os.Getenv("DT_ALIAS"),
	}
	if rec.APIEndpointURL == "" && rec.EnvironmentID == "" && rec.APIToken == "" {
		return rec, false
	}
	if rec.Alias == "" {
		rec.Alias = DefaultAlias
	}
	return rec, true
}

// applyProxyEnv copies HTTP_PROXY and HTTPS_PROXY into records that configure
// neither proxy. Both are copied as-is; a record that ends up with both is
// resolved to a direct connection when its proxy is parsed.
func applyProxyEnv(records []environment.RawRecord) {
	httpProxy := firstEnv("HTTP_PROXY", "http_proxy")
	httpsProxy := firstEnv("HTTPS_PROXY", "https_proxy")
	if httpProxy == "" && httpsProxy == "" {
		return
	}
	for i := range records {
		if records[i].HTTPProxyURL != "" || records[i].HTTPSProxyURL != "" {
			continue
		}
		records[i].HTTPProxyURL = httpProxy
		records[i].HTTPSProxyURL = httpsProxy
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandVars replaces ${VAR} with the value of VAR. Bare $VAR is left alone,
// since tokens may contain dollar signs.
func expandVars(data []byte) []byte {
	return varPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := varPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
