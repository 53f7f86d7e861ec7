package errors

const (
	// ExitCodeSuccess indicates successful execution
	ExitCodeSuccess = 0

	// ExitCodeRuntime indicates a general runtime error
	ExitCodeRuntime = 1

	// ExitCodeValidation indicates a usage/validation error (follows bash convention)
	ExitCodeValidation = 2

	// ExitCodeConfig indicates a configuration error
	ExitCodeConfig = 3

	// ExitCodeConnectivity indicates that no environment could be reached
	ExitCodeConnectivity = 4

	// ExitCodeTransport indicates a failed query against an environment
	ExitCodeTransport = 5
)

// ExitCode returns the appropriate exit code for an error type
func ExitCode(t ErrorType) int {
	switch t {
	case ErrorTypeValidation, ErrorTypeSelector:
		return ExitCodeValidation
	case ErrorTypeConfig:
		return ExitCodeConfig
	case ErrorTypeConnectivity:
		return ExitCodeConnectivity
	case ErrorTypeTransport:
		return ExitCodeTransport
	default:
		return ExitCodeRuntime
	}
}

// ExitCodeFromError extracts the exit code from an error
// Returns ExitCodeRuntime for unclassified errors
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	return ExitCode(TypeOf(err))
}
