package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	descs := Normalize([]RawRecord{
		{
			APIEndpointURL: "https://managed.example.com",
			EnvironmentID:  "abc123/",
			Alias:          "prod",
			APIToken:       "dt0c01.secret",
		},
		{
			APIURL:        "https://legacy.example.com/",
			DynatraceURL:  "https://ui.example.com/",
			EnvironmentID: "xyz",
			Alias:         "legacy",
			APIToken:      "t",
			HTTPProxyURL:  "http://proxy:3128",
		},
		{EnvironmentID: "orphan"},
	})

	require.Len(t, descs, 3)

	assert.Equal(t, 0, descs[0].Index)
	assert.Equal(t, "abc123", descs[0].EnvironmentID)
	assert.Equal(t, "https://managed.example.com/e/abc123", descs[0].APIURL)
	assert.Equal(t, "https://managed.example.com/e/abc123", descs[0].DashboardURL, "dashboard URL defaults to the API base")

	assert.Equal(t, "https://legacy.example.com/e/xyz", descs[1].APIURL)
	assert.Equal(t, "https://ui.example.com/e/xyz", descs[1].DashboardURL)
	assert.Equal(t, "http://proxy:3128", descs[1].HTTPProxy)

	assert.Empty(t, descs[2].APIURL)
	assert.Equal(t, 2, descs[2].Index)
}

func TestDescriptorStringRedactsToken(t *testing.T) {
	d := Normalize([]RawRecord{{APIEndpointURL: "https://x", EnvironmentID: "e", APIToken: "dt0c01.secret"}})[0]
	assert.NotContains(t, d.String(), "secret")
	assert.Contains(t, d.String(), "alias=N/A")
}

func TestValidate(t *testing.T) {
	complete := RawRecord{APIEndpointURL: "https://x", EnvironmentID: "e1", Alias: "prod", APIToken: "t"}

	tests := []struct {
		name       string
		record     RawRecord
		wantValid  bool
		wantErrors []string
	}{
		{
			name:      "complete record",
			record:    complete,
			wantValid: true,
		},
		{
			name:   "missing token",
			record: RawRecord{APIEndpointURL: "https://x", EnvironmentID: "e1", Alias: "prod"},
			wantErrors: []string{
				`Key "apiToken" is empty or missing (environment #0, alias: prod)`,
			},
		},
		{
			name:   "missing everything",
			record: RawRecord{},
			wantErrors: []string{
				`Key "apiEndpointUrl" is empty or missing (environment #0, alias: N/A)`,
				`Key "environmentId" is empty or missing (environment #0, alias: N/A)`,
				`Key "alias" is empty or missing (environment #0, alias: N/A)`,
				`Key "apiToken" is empty or missing (environment #0, alias: N/A)`,
			},
		},
		{
			name:   "semicolon alias on complete record",
			record: RawRecord{APIEndpointURL: "https://x", EnvironmentID: "e1", Alias: "a;b", APIToken: "t"},
			wantErrors: []string{
				`Invalid alias found: "a;b". Aliases are mandatory and cannot contain semicolons.`,
			},
		},
		{
			name:   "semicolon alias with missing url",
			record: RawRecord{EnvironmentID: "e1", Alias: "a;b", APIToken: "t"},
			wantErrors: []string{
				`Key "apiEndpointUrl" is empty or missing (environment #0, alias: a;b)`,
				`Invalid alias found: "a;b". Aliases are mandatory and cannot contain semicolons.`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(Normalize([]RawRecord{tt.record}))

			if tt.wantValid {
				assert.Len(t, result.Valid, 1)
			} else {
				assert.Empty(t, result.Valid)
			}
			assert.Equal(t, tt.wantErrors, result.Errors)
		})
	}
}

func TestValidatePartitionsMixedInput(t *testing.T) {
	result := Validate(Normalize([]RawRecord{
		{APIEndpointURL: "https://x", EnvironmentID: "e1", Alias: "prod", APIToken: "t"},
		{APIEndpointURL: "https://x", EnvironmentID: "e2", Alias: "broken"},
		{APIEndpointURL: "https://x", EnvironmentID: "e3", Alias: "staging", APIToken: "t"},
	}))

	require.Len(t, result.Valid, 2)
	assert.Equal(t, "prod", result.Valid[0].Alias)
	assert.Equal(t, "staging", result.Valid[1].Alias)
	assert.Equal(t, 2, result.Valid[1].Index, "index refers to the position in configuration")
	assert.Equal(t, []string{`Key "apiToken" is empty or missing (environment #1, alias: broken)`}, result.Errors)
}
