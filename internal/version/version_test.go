package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
		wantErr bool
	}{
		{"patch update", "v0.6.0", "v0.6.1", true, false},
		{"double digit minor", "v0.9.0", "v0.10.0", true, false},
		{"same version", "v1.2.0", "v1.2.0", false, false},
		{"older release", "v1.3.0", "v1.2.0", false, false},
		{"without prefix", "1.0.0", "v1.1.0", true, false},
		{"dev build", "dev", "v9.9.9", false, false},
		{"garbage latest", "v1.0.0", "latest", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsNewer(tt.current, tt.latest)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckForUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"v1.5.0"}`))
	}))
	defer server.Close()

	old := Version
	Version = "v1.4.2"
	defer func() { Version = old }()

	latest, hasUpdate, err := CheckForUpdate(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "v1.5.0", latest)
	assert.True(t, hasUpdate)
	assert.Contains(t, GetUpdateMessage(latest), "v1.5.0")
}

func TestGetVersion(t *testing.T) {
	SetBuildInfo("abc123", "2026-01-01", "ci")
	assert.Contains(t, GetVersion(), "commit: abc123")
}
