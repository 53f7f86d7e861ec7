// Package environment normalizes and validates the configured Dynatrace
// environments and parses the per-query environment selector.
package environment

import (
	"fmt"
	"strings"
)

// Field names as they appear in configuration. Diagnostics refer to these.
const (
	FieldAPIEndpointURL = "apiEndpointUrl"
	FieldEnvironmentID  = "environmentId"
	FieldAlias          = "alias"
	FieldAPIToken       = "apiToken"
)

// RawRecord is one environment entry as read from configuration.
type RawRecord struct {
	APIEndpointURL string `json:"apiEndpointUrl,omitempty" yaml:"apiEndpointUrl,omitempty"`
	// APIURL is the legacy name of APIEndpointURL.
	APIURL        string `json:"apiUrl,omitempty" yaml:"apiUrl,omitempty"`
	EnvironmentID string `json:"environmentId,omitempty" yaml:"environmentId,omitempty"`
	Alias         string `json:"alias,omitempty" yaml:"alias,omitempty"`
	APIToken      string `json:"apiToken,omitempty" yaml:"apiToken,omitempty"`
	DynatraceURL  string `json:"dynatraceUrl,omitempty" yaml:"dynatraceUrl,omitempty"`
	HTTPProxyURL  string `json:"httpProxyUrl,omitempty" yaml:"httpProxyUrl,omitempty"`
	HTTPSProxyURL string `json:"httpsProxyUrl,omitempty" yaml:"httpsProxyUrl,omitempty"`
}

// Descriptor is the canonical form of one configured environment.
type Descriptor struct {
	Index         int
	EnvironmentID string
	APIURL        string
	DashboardURL  string
	APIToken      string
	Alias         string
	HTTPProxy     string
	HTTPSProxy    string
}

// String never includes the token.
func (d Descriptor) String() string {
	return fmt.Sprintf("environment #%d (alias=%s, url=%s)", d.Index, aliasOrNA(d.Alias), d.APIURL)
}

// Normalize extracts fields and derives the API and dashboard URLs. It rejects
// nothing; see Validate.
func Normalize(records []RawRecord) []Descriptor {
	descs := make([]Descriptor, 0, len(records))
	for i, r := range records {
		apiBase := strings.TrimSpace(r.APIEndpointURL)
		if apiBase == "" {
			apiBase = strings.TrimSpace(r.APIURL)
		}
		dashboardBase := strings.TrimSpace(r.DynatraceURL)
		if dashboardBase == "" {
			dashboardBase = apiBase
		}
		envID := strings.TrimRight(strings.TrimSpace(r.EnvironmentID), "/")

		descs = append(descs, Descriptor{
			Index:         i,
			EnvironmentID: envID,
			APIURL:        environmentURL(apiBase, envID),
			DashboardURL:  environmentURL(dashboardBase, envID),
			APIToken:      strings.TrimSpace(r.APIToken),
			Alias:         strings.TrimSpace(r.Alias),
			HTTPProxy:     strings.TrimSpace(r.HTTPProxyURL),
			HTTPSProxy:    strings.TrimSpace(r.HTTPSProxyURL),
		})
	}
	return descs
}

// environmentURL appends e/<environmentId> to base. An empty base stays empty.
func environmentURL(base, envID string) string {
	if base == "" {
		return ""
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "e/" + envID
}

func aliasOrNA(alias string) string {
	if alias == "" {
		return "N/A"
	}
	return alias
}
