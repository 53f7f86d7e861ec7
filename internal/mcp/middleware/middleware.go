package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	sentryutil "github.com/kubiyabot/dynatrace-mcp/internal/sentry"
)

// ToolHandler is the handler function for tools
type ToolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Middleware is a function that wraps a ToolHandler
type Middleware func(ToolHandler) ToolHandler

// Logger is the subset of the pterm logger used here
type Logger interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})
}

// Chain chains multiple middleware together. The first one is outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next ToolHandler) ToolHandler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// SessionID returns the MCP client session of ctx, or "anonymous".
func SessionID(ctx context.Context) string {
	if sess := server.ClientSessionFromContext(ctx); sess != nil && sess.SessionID() != "" {
		return sess.SessionID()
	}
	return "anonymous"
}

// LoggingMiddleware logs all tool calls
type LoggingMiddleware struct {
	logger Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Apply applies the logging middleware
func (m *LoggingMiddleware) Apply(next ToolHandler) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		sessionID := SessionID(ctx)
		tool := req.Params.Name

		span, ctx := sentryutil.StartSpan(ctx, "mcp.tool."+tool)
		if span != nil {
			span.SetTag("tool.name", tool)
			span.SetTag("session.id", sessionID)
			defer span.Finish()
		}

		// Arguments carry selectors and queries only, never credentials.
		sentryutil.AddBreadcrumb("tool_call", "Calling tool: "+tool, map[string]interface{}{
			"session": sessionID,
			"args":    req.GetArguments(),
		})
		m.logger.Debug("tool call started", "tool", tool, "session", sessionID)

		result, err := next(ctx, req)
		duration := time.Since(start)

		switch {
		case err != nil:
			m.logger.Error("tool call failed", "tool", tool, "session", sessionID, "duration", duration, "error", err)
			sentryutil.CaptureError(err, map[string]string{
				"tool":    tool,
				"session": sessionID,
			}, map[string]interface{}{
				"duration": duration.String(),
			})
			if span != nil {
				span.Status = sentry.SpanStatusInternalError
			}
		case result != nil && result.IsError:
			m.logger.Warning("tool call returned an error result", "tool", tool, "session", sessionID, "duration", duration)
			if span != nil {
				span.Status = sentry.SpanStatusInvalidArgument
			}
		default:
			m.logger.Info("tool call finished", "tool", tool, "session", sessionID, "duration", duration)
			if span != nil {
				span.Status = sentry.SpanStatusOK
			}
		}

		return result, err
	}
}

// RateLimitMiddleware implements rate limiting per session
type RateLimitMiddleware struct {
	limiters map[string]*rate.Limiter
	mutex    sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(requestsPerSecond float64, burst int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter gets or creates a rate limiter for a session
func (m *RateLimitMiddleware) getLimiter(sessionID string) *rate.Limiter {
	m.mutex.RLock()
	limiter, exists := m.limiters[sessionID]
	m.mutex.RUnlock()

	if !exists {
		m.mutex.Lock()
		if limiter, exists = m.limiters[sessionID]; !exists {
			limiter = rate.NewLimiter(m.rate, m.burst)
			m.limiters[sessionID] = limiter
		}
		m.mutex.Unlock()
	}

	return limiter
}

// Apply applies the rate limit middleware
func (m *RateLimitMiddleware) Apply(next ToolHandler) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := SessionID(ctx)

		if !m.getLimiter(sessionID).Allow() {
			sentryutil.CaptureMessage("Rate limit exceeded", sentry.LevelWarning, map[string]string{
				"session": sessionID,
				"tool":    req.Params.Name,
			})
			return mcp.NewToolResultError("Rate limit exceeded. Please wait before making more requests."), nil
		}

		return next(ctx, req)
	}
}

// Cleanup removes the limiter of a session that has ended
func (m *RateLimitMiddleware) Cleanup(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.limiters, sessionID)
}

// ErrorRecoveryMiddleware recovers from panics
type ErrorRecoveryMiddleware struct {
	logger Logger
}

// NewErrorRecoveryMiddleware creates error recovery middleware
func NewErrorRecoveryMiddleware(logger Logger) *ErrorRecoveryMiddleware {
	return &ErrorRecoveryMiddleware{logger: logger}
}

// Apply applies the error recovery middleware
func (m *ErrorRecoveryMiddleware) Apply(next ToolHandler) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("tool panicked", "tool", req.Params.Name, "session", SessionID(ctx), "panic", r)
				sentryutil.CaptureRecovered(ctx, r, map[string]interface{}{
					"tool":    req.Params.Name,
					"session": SessionID(ctx),
				})

				// Don't return error to prevent server crash
				result = mcp.NewToolResultError(fmt.Sprintf("Internal error occurred while executing tool %s", req.Params.Name))
				err = nil
			}
		}()

		return next(ctx, req)
	}
}

// TimeoutMiddleware bounds tool execution
type TimeoutMiddleware struct {
	timeout time.Duration
}

// NewTimeoutMiddleware creates timeout middleware
func NewTimeoutMiddleware(timeout time.Duration) *TimeoutMiddleware {
	return &TimeoutMiddleware{timeout: timeout}
}

// Apply applies the timeout middleware. The handler must honour ctx; an
// in-flight fan-out is cancelled when the deadline passes.
func (m *TimeoutMiddleware) Apply(next ToolHandler) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		timeout := m.timeout
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result, err := next(timeoutCtx, req)
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			sentryutil.CaptureMessage("Tool execution timeout", sentry.LevelWarning, map[string]string{
				"tool":    req.Params.Name,
				"timeout": timeout.String(),
			})
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution timed out after %v", timeout)), nil
		}
		return result, err
	}
}
