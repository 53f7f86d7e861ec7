package dynatrace

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
)

const testToken = "dt0c01.TESTTOKEN"

type fakeEnv struct {
	version string
	delay   time.Duration
	status  int
}

// newFakeDynatrace serves the cluster version endpoint and echoes the alias
// on every other API path.
func newFakeDynatrace(t *testing.T, alias string, env fakeEnv) *httptest.Server {
	t.Helper()
	if env.status == 0 {
		env.status = http.StatusOK
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if env.delay > 0 {
			select {
			case <-time.After(env.delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == clusterVersionPath {
			_ = json.NewEncoder(w).Encode(map[string]string{"version": env.version})
			return
		}
		w.WriteHeader(env.status)
		_ = json.NewEncoder(w).Encode(map[string]string{"alias": alias, "path": r.URL.Path})
	}))
	t.Cleanup(server.Close)
	return server
}

func testDescriptor(alias, url string) environment.Descriptor {
	return environment.Descriptor{
		EnvironmentID: alias,
		APIURL:        url,
		DashboardURL:  url + "/ui",
		APIToken:      testToken,
		Alias:         alias,
	}
}

func quietLogger() Option {
	return WithLogger(pterm.NewPlainLogger(io.Discard, false))
}
