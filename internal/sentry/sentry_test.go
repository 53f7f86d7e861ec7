package sentry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithoutDSNIsNoop(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	require.NoError(t, Initialize("test"))

	// None of these may panic without a client
	assert.NotPanics(t, func() {
		CaptureError(errors.New("boom"), map[string]string{"alias": "prod"}, nil)
		CaptureMessage("hello", sentry.LevelInfo, nil)
		CaptureRecovered(context.Background(), "panic value", nil)
		AddBreadcrumb("environment", "excluded", nil)
		Flush(10 * time.Millisecond)
	})

	span, ctx := StartSpan(context.Background(), "op")
	assert.Nil(t, span)
	assert.NotNil(t, ctx)
}
