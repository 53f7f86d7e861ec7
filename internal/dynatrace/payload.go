package dynatrace

// clusterVersionPayload is the body of /api/v1/config/clusterversion.
// Fields are pointers so that absence can be told apart from empty.
type clusterVersionPayload struct {
	Version *string `json:"version,omitempty"`
}

// GetVersion returns the version and whether the field was present.
func (p clusterVersionPayload) GetVersion() (string, bool) {
	if p.Version == nil || *p.Version == "" {
		return "", false
	}
	return *p.Version, true
}
