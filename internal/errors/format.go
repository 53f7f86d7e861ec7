package errors

import (
	"fmt"
	"strings"
)

// FormatError formats a CLIError for display to the user
// Returns a user-friendly error message with context
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(prefix(err.Type))
	sb.WriteString(err.Err.Error())

	if err.Context != "" {
		sb.WriteString("\n\n")
		sb.WriteString(err.Context)
	}

	return sb.String()
}

// FormatSimple formats any error with its type prefix
func FormatSimple(err error) string {
	if err == nil {
		return ""
	}

	if cliErr, ok := err.(*CLIError); ok {
		return FormatError(cliErr)
	}

	return fmt.Sprintf("%s%v", prefix(TypeOf(err)), err)
}

func prefix(t ErrorType) string {
	switch t {
	case ErrorTypeValidation:
		return "✗ Validation Error: "
	case ErrorTypeConfig:
		return "✗ Configuration Error: "
	case ErrorTypeConnectivity:
		return "✗ Connectivity Error: "
	case ErrorTypeTransport:
		return "✗ Request Error: "
	case ErrorTypeSelector:
		return "✗ Unknown Environment: "
	default:
		return "✗ Error: "
	}
}
