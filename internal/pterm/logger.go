package pterm

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Logger provides structured logging with PTerm.
// It never writes to stdout: the MCP stdio transport owns that stream.
type Logger struct {
	debugEnabled bool
	disabled     bool
	out          io.Writer

	// mu serializes writes; connections log from concurrent probes
	mu sync.Mutex
}

// NewLogger creates a logger writing to stderr. Styling is disabled when
// stderr is not a terminal or DT_MCP_PTERM=false.
func NewLogger() *Logger {
	disabled := os.Getenv("DT_MCP_PTERM") == "false" || !isatty.IsTerminal(os.Stderr.Fd())
	return &Logger{
		debugEnabled: os.Getenv("DT_MCP_DEBUG") == "true",
		disabled:     disabled,
		out:          os.Stderr,
	}
}

// NewPlainLogger creates an unstyled logger writing to w
func NewPlainLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		debugEnabled: debug,
		disabled:     true,
		out:          w,
	}
}

// SetDebug toggles debug output
func (l *Logger) SetDebug(enabled bool) {
	l.debugEnabled = enabled
}

// Debug logs a debug message (only if debug is enabled)
func (l *Logger) Debug(message string, args ...interface{}) {
	if !l.debugEnabled {
		return
	}
	l.print(pterm.Debug, "[DEBUG]", l.formatMessage(message, args...))
}

// Info logs an informational message
func (l *Logger) Info(message string, args ...interface{}) {
	l.print(pterm.Info, "[INFO]", l.formatMessage(message, args...))
}

// Success logs a success message
func (l *Logger) Success(message string, args ...interface{}) {
	l.print(pterm.Success, "[SUCCESS] ✓", l.formatMessage(message, args...))
}

// Warning logs a warning message
func (l *Logger) Warning(message string, args ...interface{}) {
	l.print(pterm.Warning, "[WARNING] ⚠", l.formatMessage(message, args...))
}

// Error logs an error message
func (l *Logger) Error(message string, args ...interface{}) {
	l.print(pterm.Error, "[ERROR] ✗", l.formatMessage(message, args...))
}

// Debugf logs a formatted debug message (only if debug is enabled)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debugEnabled {
		return
	}
	l.print(pterm.Debug, "[DEBUG]", strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Warnf logs a formatted warning message. Together with Errorf and Debugf
// it satisfies resty.Logger.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.print(pterm.Warning, "[WARNING] ⚠", strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.print(pterm.Error, "[ERROR] ✗", strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l *Logger) print(printer pterm.PrefixPrinter, plainPrefix, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disabled {
		fmt.Fprintf(l.out, "%s %s\n", plainPrefix, message)
		return
	}
	printer.WithWriter(l.out).Println(message)
}

// formatMessage formats a message with optional key-value pairs
func (l *Logger) formatMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}

	// Support structured logging with key-value pairs
	var pairs []string
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			key := fmt.Sprint(args[i])
			value := fmt.Sprint(args[i+1])
			pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
		}
	}

	if len(pairs) > 0 {
		return fmt.Sprintf("%s (%s)", message, strings.Join(pairs, ", "))
	}

	return message
}

// Logger method for PTermManager
func (pm *PTermManager) Logger() *Logger {
	l := NewLogger()
	l.disabled = pm.disabled
	return l
}
