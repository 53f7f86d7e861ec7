package sentry

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// Initialize sets up Sentry if SENTRY_DSN is provided
func Initialize(release string) error {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		// Sentry not configured, skip initialization
		return nil
	}

	environment := os.Getenv("SENTRY_ENVIRONMENT")
	if environment == "" {
		environment = "production"
	}

	sampleRate := 1.0
	if rate := os.Getenv("SENTRY_TRACES_SAMPLE_RATE"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			sampleRate = v
		}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		TracesSampleRate: sampleRate,
		Debug:            os.Getenv("SENTRY_DEBUG") == "true",
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// API tokens travel in the Authorization header only
			if event.Request != nil {
				delete(event.Request.Headers, "Authorization")
			}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// Enabled reports whether a Sentry client is configured
func Enabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Flush waits for all events to be sent
func Flush(timeout time.Duration) {
	if Enabled() {
		sentry.Flush(timeout)
	}
}

// StartSpan starts a new span for tracing
func StartSpan(ctx context.Context, operation string, opts ...sentry.SpanOption) (*sentry.Span, context.Context) {
	if !Enabled() {
		return nil, ctx
	}
	span := sentry.StartSpan(ctx, operation, opts...)
	return span, span.Context()
}

// CaptureError captures an error with additional context
func CaptureError(err error, tags map[string]string, extras map[string]interface{}) {
	if !Enabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// CaptureMessage captures a message with level
func CaptureMessage(message string, level sentry.Level, tags map[string]string) {
	if !Enabled() {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(level)
		sentry.CaptureMessage(message)
	})
}

// CaptureRecovered reports a value obtained from recover()
func CaptureRecovered(ctx context.Context, recovered interface{}, extras map[string]interface{}) {
	if !Enabled() || recovered == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range extras {
			scope.SetExtra(k, v)
		}
		sentry.CurrentHub().RecoverWithContext(ctx, recovered)
	})
}

// AddBreadcrumb adds a breadcrumb for debugging
func AddBreadcrumb(category, message string, data map[string]interface{}) {
	if Enabled() {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Category:  category,
			Message:   message,
			Level:     sentry.LevelInfo,
			Data:      data,
			Timestamp: time.Now(),
		})
	}
}
