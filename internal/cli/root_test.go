package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
)

func rootExecuteCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// newTenant serves the cluster version endpoint under any environment prefix.
func newTenant(t *testing.T, version string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/v1/config/clusterversion") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, fs afero.Fs, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/config.yaml", []byte(body), 0o600))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DT_API_URL", "DT_ENVIRONMENT_ID", "DT_API_TOKEN", "DT_ALIAS", "HTTP_PROXY", "HTTPS_PROXY", "http_proxy", "https_proxy"} {
		t.Setenv(k, "")
	}
	t.Setenv("DT_MCP_PTERM", "false")
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain string
	}{
		{
			name:        "help command",
			args:        []string{"--help"},
			wantContain: "Available Commands:",
		},
		{
			name:        "lists subcommands",
			args:        []string{"--help"},
			wantContain: "environments",
		},
		{
			name:        "version",
			args:        []string{"version"},
			wantContain: "dynatrace-mcp ",
		},
		{
			name:    "invalid command",
			args:    []string{"invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := rootExecuteCommand(NewRootCommand(afero.NewMemMapFs()), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, tt.wantContain)
		})
	}
}

func TestEnvironmentsCommand(t *testing.T) {
	clearEnv(t)
	current := newTenant(t, "1.330.0")
	old := newTenant(t, "1.200.0")

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, fmt.Sprintf(`
environments:
  - apiEndpointUrl: %s
    environmentId: abc
    alias: prod
    apiToken: dt0c01.SECRET
  - apiEndpointUrl: %s
    environmentId: def
    alias: legacy
    apiToken: dt0c01.SECRET
  - apiEndpointUrl: https://missing-token.example.com
    environmentId: ghi
    alias: broken
`, current.URL, old.URL))

	output, err := rootExecuteCommand(NewRootCommand(fs), "environments", "--ci", "--config", "/config.yaml")
	require.NoError(t, err)

	assert.Contains(t, output, "ALIAS")
	assert.Contains(t, output, "prod")
	assert.Contains(t, output, current.URL+"/e/abc")
	assert.Contains(t, output, "legacy")
	assert.Contains(t, output, "1 of 2 environment(s) usable")
	assert.Contains(t, output, `Key "apiToken" is empty or missing (environment #2, alias: broken)`)
	assert.NotContains(t, output, "dt0c01.SECRET")
}

func TestServeWithoutEnvironments(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "environments: []\n")

	_, err := rootExecuteCommand(NewRootCommand(fs), "serve", "--config", "/config.yaml")
	require.Error(t, err)
	assert.Equal(t, dterrors.ExitCodeConfig, dterrors.ExitCodeFromError(err))
}

func TestServeWithNothingUsable(t *testing.T) {
	clearEnv(t)
	old := newTenant(t, "1.100.0")

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, fmt.Sprintf(`
environments:
  - apiEndpointUrl: %s
    environmentId: abc
    alias: legacy
    apiToken: dt0c01.SECRET
`, old.URL))

	_, err := rootExecuteCommand(NewRootCommand(fs), "serve", "--config", "/config.yaml")
	require.Error(t, err)
	assert.Equal(t, dterrors.ExitCodeConnectivity, dterrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "none of the 1 valid environment(s) is usable")
}

func TestMissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := rootExecuteCommand(NewRootCommand(afero.NewMemMapFs()), "environments", "--config", "/absent.yaml")
	require.Error(t, err)
	assert.Equal(t, dterrors.ErrorTypeConfig, dterrors.TypeOf(err))
}
