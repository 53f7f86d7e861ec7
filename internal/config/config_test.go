package config

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubiyabot/dynatrace-mcp/internal/dynatrace"
	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
)

// clearEnv blanks every variable Load consults so the host environment does
// not leak into the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DT_API_URL", "DT_ENVIRONMENT_ID", "DT_API_TOKEN", "DT_ALIAS", "DT_DASHBOARD_URL",
		"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "DT_MCP_DEBUG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROD_TOKEN", "dt0c01.PROD")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/dt/config.yaml", []byte(`
environments:
  - apiEndpointUrl: https://prod.example.com
    environmentId: abc12345
    alias: prod
    apiToken: ${PROD_TOKEN}
  - apiUrl: https://staging.example.com/
    environmentId: def67890/
    alias: staging
    apiToken: "dt0c01.$literal"
    httpsProxyUrl: https://proxy.internal:8443
rateLimit:
  requestsPerSecond: 2
  burst: 4
toolTimeoutSeconds: 15
debug: true
`), 0o600))

	cfg, err := Load(fs, "/etc/dt/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/etc/dt/config.yaml", cfg.Path)
	require.Len(t, cfg.Environments, 2)
	assert.Equal(t, "dt0c01.PROD", cfg.Environments[0].APIToken)
	assert.Equal(t, "dt0c01.$literal", cfg.Environments[1].APIToken)
	assert.Equal(t, 2.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
	assert.Equal(t, 15, cfg.ToolTimeoutSeconds)
	assert.True(t, cfg.Debug)

	result := cfg.Descriptors()
	assert.Empty(t, result.Errors)
	require.Len(t, result.Valid, 2)
	assert.Equal(t, "staging", result.Valid[1].Alias)
	assert.Equal(t, "https://proxy.internal:8443", result.Valid[1].HTTPSProxy)
}

func TestLoadJSON(t *testing.T) {
	clearEnv(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.json", []byte(`{
  "environments": [
    {"apiEndpointUrl": "https://a.example.com", "environmentId": "a", "alias": "a", "apiToken": "t"},
    {"apiEndpointUrl": "https://b.example.com", "environmentId": "b", "alias": "b;c", "apiToken": "t"}
  ]
}`), 0o600))

	cfg, err := Load(fs, "/config.json")
	require.NoError(t, err)

	result := cfg.Descriptors()
	require.Len(t, result.Valid, 1)
	assert.Equal(t, "a", result.Valid[0].Alias)
	assert.Equal(t, []string{`Invalid alias found: "b;c". Aliases are mandatory and cannot contain semicolons.`}, result.Errors)

	// Defaults survive a file that does not mention them.
	assert.Equal(t, defaultBurst, cfg.RateLimit.Burst)
	assert.Equal(t, defaultToolTimeoutSeconds, cfg.ToolTimeoutSeconds)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/broken.yaml", []byte("environments: [unclosed"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"explicit file missing", "/nope.yaml"},
		{"unparseable file", "/broken.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(fs, tt.path)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Equal(t, dterrors.ErrorTypeConfig, dterrors.TypeOf(err))
		})
	}
}

func TestLoadFromEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/nobody")
	t.Setenv("DT_API_URL", "https://env.example.com")
	t.Setenv("DT_ENVIRONMENT_ID", "xyz")
	t.Setenv("DT_API_TOKEN", "dt0c01.ENV")
	t.Setenv("HTTP_PROXY", "http://proxy.internal:3128")

	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Empty(t, cfg.Path)
	require.Len(t, cfg.Environments, 1)
	rec := cfg.Environments[0]
	assert.Equal(t, DefaultAlias, rec.Alias)
	assert.Equal(t, "https://env.example.com", rec.APIEndpointURL)
	assert.Equal(t, "http://proxy.internal:3128", rec.HTTPProxyURL)
	assert.Empty(t, rec.HTTPSProxyURL)

	result := cfg.Descriptors()
	require.Len(t, result.Valid, 1)
	assert.Equal(t, "https://env.example.com/e/xyz", result.Valid[0].APIURL)
}

func TestLoadNothingConfigured(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/nobody")

	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Environments)
	assert.Equal(t, defaultRequestsPerSecond, cfg.RateLimit.RequestsPerSecond)
}

func TestApplyProxyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PROXY", "http://plain.internal:3128")
	t.Setenv("HTTPS_PROXY", "https://secure.internal:8443")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte(`
environments:
  - alias: own
    httpProxyUrl: http://own.internal:1
  - alias: inherited
`), 0o600))

	cfg, err := Load(fs, "/c.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Environments, 2)

	assert.Equal(t, "http://own.internal:1", cfg.Environments[0].HTTPProxyURL)
	assert.Empty(t, cfg.Environments[0].HTTPSProxyURL)
	assert.Equal(t, "http://plain.internal:3128", cfg.Environments[1].HTTPProxyURL)
	assert.Equal(t, "https://secure.internal:8443", cfg.Environments[1].HTTPSProxyURL)
}

func TestBothProxyEnvVarsConnectDirectly(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PROXY", "http://plain.internal:3128")
	t.Setenv("HTTPS_PROXY", "https://secure.internal:8443")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte(`
environments:
  - alias: prod
    apiEndpointUrl: https://prod.example.com
    environmentId: abc
    apiToken: dt0c01.PROD
`), 0o600))

	cfg, err := Load(fs, "/c.yaml")
	require.NoError(t, err)

	result := cfg.Descriptors()
	require.Len(t, result.Valid, 1)

	var out bytes.Buffer
	m := dynatrace.NewManager(result.Valid, result.Errors, dynatrace.WithLogger(pterm.NewPlainLogger(&out, false)))
	t.Cleanup(m.Close)

	statuses := m.Statuses()
	require.Len(t, statuses, 1)
	assert.Empty(t, statuses[0].Proxy)
	assert.Empty(t, m.ConfigErrors())
	assert.Contains(t, out.String(), "both HTTP and HTTPS proxy URLs are configured")
}

func TestSingleProxyEnvVarIsUsed(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTPS_PROXY", "https://secure.internal:8443")

	rec := environment.RawRecord{Alias: "prod"}
	records := []environment.RawRecord{rec}
	applyProxyEnv(records)

	assert.Empty(t, records[0].HTTPProxyURL)
	assert.Equal(t, "https://secure.internal:8443", records[0].HTTPSProxyURL)

	p, err := environment.ParseProxy(records[0].HTTPProxyURL, records[0].HTTPSProxyURL, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "secure.internal", p.Host)
	assert.Equal(t, 8443, p.Port)
}

func TestToolTimeout(t *testing.T) {
	cfg := &Config{ToolTimeoutSeconds: 3}
	assert.Equal(t, "3s", cfg.ToolTimeout().String())
}
