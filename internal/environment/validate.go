package environment

import (
	"fmt"
	"strings"
)

// ValidationResult partitions descriptors into usable ones and diagnostics.
type ValidationResult struct {
	Valid  []Descriptor
	Errors []string
}

// Validate checks every descriptor independently. Partial configuration is
// expected, so problems are reported as diagnostics and never as an error.
func Validate(descs []Descriptor) ValidationResult {
	var result ValidationResult

	for _, d := range descs {
		ok := true

		required := []struct {
			field string
			value string
		}{
			{FieldAPIEndpointURL, d.APIURL},
			{FieldEnvironmentID, d.EnvironmentID},
			{FieldAlias, d.Alias},
			{FieldAPIToken, d.APIToken},
		}
		for _, r := range required {
			if r.value == "" {
				result.Errors = append(result.Errors, fmt.Sprintf(
					"Key %q is empty or missing (environment #%d, alias: %s)", r.field, d.Index, aliasOrNA(d.Alias)))
				ok = false
			}
		}

		if strings.Contains(d.Alias, Separator) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Invalid alias found: %q. Aliases are mandatory and cannot contain semicolons.", d.Alias))
			ok = false
		}

		if ok {
			result.Valid = append(result.Valid, d)
		}
	}

	return result
}
