package dynatrace

import (
	"time"

	"github.com/kubiyabot/dynatrace-mcp/internal/pterm"
	"github.com/kubiyabot/dynatrace-mcp/internal/version"
)

const (
	// DefaultTimeout bounds every request to an environment.
	DefaultTimeout = 30 * time.Second
	// DefaultConcurrency bounds how many environments are probed at once.
	DefaultConcurrency = 8
)

// Logger is what connections and the manager log through. It also satisfies
// resty.Logger.
type Logger interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type options struct {
	logger      Logger
	timeout     time.Duration
	userAgent   string
	concurrency int
}

// Option configures connections and the manager.
type Option func(*options)

// WithLogger sets the logger
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithConcurrency limits how many environments are probed in parallel
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:     DefaultTimeout,
		userAgent:   "dynatrace-mcp/" + version.Version,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = pterm.NewLogger()
	}
	return o
}
