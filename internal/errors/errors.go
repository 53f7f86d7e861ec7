package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrorTypeUnknown represents an unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeValidation represents argument/flag validation errors
	ErrorTypeValidation
	// ErrorTypeConfig represents configuration errors (missing fields, invalid alias, malformed proxy)
	ErrorTypeConfig
	// ErrorTypeConnectivity represents probe failures and version-incompatible clusters
	ErrorTypeConnectivity
	// ErrorTypeTransport represents query-time failures against a single environment
	ErrorTypeTransport
	// ErrorTypeSelector represents unknown aliases in an environment selector
	ErrorTypeSelector
	// ErrorTypeRuntime represents general runtime errors
	ErrorTypeRuntime
)

// CLIError wraps errors with type information and context for better UX
type CLIError struct {
	Type    ErrorType
	Err     error
	Context string // Additional context or help text for the user
}

// Error implements the error interface
func (e *CLIError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%v\n%s", e.Err, e.Context)
	}
	return e.Err.Error()
}

// Unwrap implements error unwrapping for Go 1.13+ error chains
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ConfigError creates a configuration error
func ConfigError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeConfig,
		Err:  err,
	}
}

// ConfigErrorWithContext creates a configuration error with context
func ConfigErrorWithContext(err error, context string) *CLIError {
	return &CLIError{
		Type:    ErrorTypeConfig,
		Err:     err,
		Context: context,
	}
}

// ConnectivityError creates a connectivity error
func ConnectivityError(err error) *CLIError {
	return &CLIError{
		Type: ErrorTypeConnectivity,
		Err:  err,
	}
}

// ConnectivityErrorWithContext creates a connectivity error with context
func ConnectivityErrorWithContext(err error, context string) *CLIError {
	return &CLIError{
		Type:    ErrorTypeConnectivity,
		Err:     err,
		Context: context,
	}
}

// TransportError is a query-time failure of one environment. It is returned
// unchanged through a fan-out so the caller sees which environment failed.
type TransportError struct {
	Alias      string
	Path       string
	StatusCode int    // 0 when no response was received
	Body       string // response body, truncated
	Err        error  // underlying transport error, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("environment %q: GET %s failed: %v", e.Alias, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("environment %q: GET %s returned status %d: %v", e.Alias, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("environment %q: GET %s returned status %d: %s", e.Alias, e.Path, e.StatusCode, e.Body)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SelectorError reports aliases that are not part of the usable set.
type SelectorError struct {
	Unknown   []string
	Available []string
}

func (e *SelectorError) Error() string {
	available := "none"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("unknown environment alias(es): %s (available: %s)",
		strings.Join(quoteAll(e.Unknown), ", "), available)
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return quoted
}

// TypeOf classifies any error into an ErrorType
func TypeOf(err error) ErrorType {
	switch e := err.(type) {
	case nil:
		return ErrorTypeUnknown
	case *CLIError:
		return e.Type
	case *TransportError:
		return ErrorTypeTransport
	case *SelectorError:
		return ErrorTypeSelector
	}
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return TypeOf(u.Unwrap())
	}
	return ErrorTypeUnknown
}
