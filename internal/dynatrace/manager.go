package dynatrace

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	sentryutil "github.com/kubiyabot/dynatrace-mcp/internal/sentry"
)

// Manager holds one Connection per configured environment and routes
// queries to the usable ones.
type Manager struct {
	connections  []*Connection
	configErrors []string
	opts         options

	registry  atomic.Pointer[Registry]
	establish sync.Once
	closeOnce sync.Once
}

// NewManager builds a connection per descriptor without touching the network.
// A descriptor whose connection cannot be built (malformed proxy) is left out
// and its error joins configErrors.
func NewManager(valid []environment.Descriptor, configErrors []string, opts ...Option) *Manager {
	m := &Manager{
		configErrors: append([]string(nil), configErrors...),
		opts:         newOptions(opts),
	}

	for _, desc := range valid {
		conn, err := newConnection(desc, m.opts)
		if err != nil {
			m.opts.logger.Error("environment skipped", "alias", desc.Alias, "error", err)
			m.configErrors = append(m.configErrors, err.Error())
			continue
		}
		m.connections = append(m.connections, conn)
	}

	m.registry.Store(newRegistry(nil))
	return m
}

// EstablishAll probes every connection concurrently and publishes the
// registry of usable environments. Failures exclude that environment only.
// Only the first call probes; later calls return the published registry.
func (m *Manager) EstablishAll(ctx context.Context) *Registry {
	m.establish.Do(func() {
		var g errgroup.Group
		g.SetLimit(m.opts.concurrency)
		for _, conn := range m.connections {
			g.Go(func() error {
				conn.Establish(ctx)
				return nil
			})
		}
		_ = g.Wait()

		usable := make([]*Connection, 0, len(m.connections))
		for _, conn := range m.connections {
			if conn.IsValid() {
				m.opts.logger.Debug("environment usable", "alias", conn.Alias())
				usable = append(usable, conn)
				continue
			}
			m.opts.logger.Warning("environment excluded", "alias", conn.Alias(), "reason", conn.ValidationError())
			sentryutil.AddBreadcrumb("environment", "Environment excluded", map[string]interface{}{
				"alias":  conn.Alias(),
				"reason": conn.ValidationError(),
			})
		}

		reg := newRegistry(usable)
		if reg.Len() == 0 {
			m.opts.logger.Error("no usable environments", "configured", len(m.connections))
		}
		m.registry.Store(reg)
	})
	return m.Registry()
}

// Registry returns the current snapshot. Before EstablishAll it is empty.
func (m *Manager) Registry() *Registry {
	return m.registry.Load()
}

// Resolve validates a raw selector against the usable environments. Query
// handlers call it before dispatching.
func (m *Manager) Resolve(selector string) ([]string, error) {
	return m.Registry().Resolve(environment.ParseSelector(selector))
}

// FanOut runs the same GET against every selected environment. The first
// failure cancels the remaining requests and is returned as is; a partial
// result is never returned.
func (m *Manager) FanOut(ctx context.Context, path string, params map[string]string, sel environment.Selector) (*Results, error) {
	targets, err := m.Registry().targets(sel)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	m.opts.logger.Debug("fan-out", "request_id", requestID, "path", path, "environments", len(targets))

	bodies := make([]json.RawMessage, len(targets))
	g, gctx := errgroup.WithContext(WithRequestID(ctx, requestID))
	for i, conn := range targets {
		g.Go(func() error {
			body, err := conn.Request(gctx, path, params)
			if err != nil {
				return err
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.opts.logger.Debug("fan-out failed", "request_id", requestID, "error", err)
		return nil, err
	}

	results := &Results{entries: make([]Result, len(targets))}
	for i, conn := range targets {
		results.entries[i] = Result{Alias: conn.Alias(), Body: bodies[i]}
	}
	return results, nil
}

// DashboardURLFor returns the dashboard base URL of a usable environment, or
// "" when alias is unknown.
func (m *Manager) DashboardURLFor(alias string) string {
	if c := m.Registry().lookup(alias); c != nil {
		return c.DashboardURL()
	}
	return ""
}

// Statuses reports every constructed connection, usable or not.
func (m *Manager) Statuses() []ConnectionStatus {
	statuses := make([]ConnectionStatus, 0, len(m.connections))
	for _, c := range m.connections {
		statuses = append(statuses, c.Status())
	}
	return statuses
}

// ConfigErrors returns validation and construction diagnostics.
func (m *Manager) ConfigErrors() []string {
	return append([]string(nil), m.configErrors...)
}

// Usable returns the number of usable environments.
func (m *Manager) Usable() int {
	return m.Registry().Len()
}

// Close releases every connection.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		for _, c := range m.connections {
			c.Release()
		}
	})
}
