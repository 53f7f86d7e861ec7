// Package dynatrace owns the authenticated connections to the configured
// Dynatrace environments and fans queries out across them.
package dynatrace

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/kubiyabot/dynatrace-mcp/internal/environment"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
)

const (
	// MinimumClusterVersion is the oldest cluster version the server talks to.
	MinimumClusterVersion = "1.328.0"

	clusterVersionPath = "/api/v1/config/clusterversion"
	metricsPath        = "/api/v2/metrics"

	maxErrorBody = 512
)

// ErrReleased is returned by requests on a connection that has been released.
var ErrReleased = stderrors.New("connection released")

var errMalformedBody = stderrors.New("response body is not valid JSON")

// Connection is one authenticated channel to one environment. Apart from its
// validity, set once by Establish, it is immutable after construction.
type Connection struct {
	desc   environment.Descriptor
	client *resty.Client
	proxy  *environment.ProxyConfig
	logger Logger

	// ctx is cancelled by Release; every request is bound to it.
	ctx      context.Context
	cancel   context.CancelFunc
	released atomic.Bool
	once     sync.Once

	mu              sync.RWMutex
	valid           bool
	validationError string
}

// ConnectionStatus is the operator-facing view of one connection.
type ConnectionStatus struct {
	Alias           string `json:"alias"`
	APIURL          string `json:"apiUrl"`
	DashboardURL    string `json:"dashboardUrl"`
	Proxy           string `json:"proxy,omitempty"`
	Valid           bool   `json:"valid"`
	ValidationError string `json:"validationError,omitempty"`
}

// NewConnection builds the HTTP channel for a validated descriptor. No network
// I/O happens here. A proxy URL that cannot be parsed is a configuration error.
func NewConnection(desc environment.Descriptor, opts ...Option) (*Connection, error) {
	return newConnection(desc, newOptions(opts))
}

func newConnection(desc environment.Descriptor, o options) (*Connection, error) {
	proxy, err := environment.ParseProxy(desc.HTTPProxy, desc.HTTPSProxy, o.logger)
	if err != nil {
		return nil, dterrors.ConfigErrorWithContext(
			fmt.Errorf("environment %q: %w", desc.Alias, err),
			"Fix httpProxyUrl/httpsProxyUrl (scheme://[user:pass@]host[:port]) or remove it.")
	}

	client := resty.New().
		SetBaseURL(desc.APIURL).
		SetAuthToken(desc.APIToken).
		SetTimeout(o.timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", o.userAgent).
		SetLogger(o.logger)

	if proxy != nil {
		client.SetProxy(proxy.URL().String())
		o.logger.Debug("using proxy", "alias", desc.Alias, "proxy", proxy.String())
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		desc:   desc,
		client: client,
		proxy:  proxy,
		logger: o.logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Alias returns the environment alias
func (c *Connection) Alias() string { return c.desc.Alias }

// APIURL returns the environment API base URL
func (c *Connection) APIURL() string { return c.desc.APIURL }

// DashboardURL returns the base URL for human-facing links
func (c *Connection) DashboardURL() string { return c.desc.DashboardURL }

// Proxy returns the parsed proxy, nil when connecting directly
func (c *Connection) Proxy() *environment.ProxyConfig { return c.proxy }

// IsValid reports whether Establish succeeded
func (c *Connection) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

// ValidationError is empty when the connection is valid or not yet established
func (c *Connection) ValidationError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validationError
}

// Status returns a snapshot for status reports
func (c *Connection) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := ConnectionStatus{
		Alias:           c.desc.Alias,
		APIURL:          c.desc.APIURL,
		DashboardURL:    c.desc.DashboardURL,
		Valid:           c.valid,
		ValidationError: c.validationError,
	}
	if c.proxy != nil {
		s.Proxy = c.proxy.String()
	}
	return s
}

func (c *Connection) setValidity(valid bool, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = valid
	c.validationError = msg
}

// Probe checks connectivity. Not every deployment exposes the cluster version
// endpoint, so a minimal metrics listing is tried next; HTTP 200 from either
// counts as reachable.
func (c *Connection) Probe(ctx context.Context) bool {
	resp, err := c.get(ctx, clusterVersionPath, nil)
	if err == nil && resp.StatusCode() == http.StatusOK {
		return true
	}
	c.logger.Debug("cluster version probe failed, trying metrics", "alias", c.desc.Alias, "error", probeFailure(resp, err))

	resp, err = c.get(ctx, metricsPath, map[string]string{"pageSize": "1"})
	if err == nil && resp.StatusCode() == http.StatusOK {
		return true
	}
	c.logger.Debug("metrics probe failed", "alias", c.desc.Alias, "error", probeFailure(resp, err))
	return false
}

func probeFailure(resp *resty.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return resp.Status()
}

// ClusterVersion fetches the version string of the cluster.
func (c *Connection) ClusterVersion(ctx context.Context) (string, error) {
	body, err := c.Request(ctx, clusterVersionPath, nil)
	if err != nil {
		return "", err
	}

	var payload clusterVersionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode cluster version: %w", err)
	}
	v, ok := payload.GetVersion()
	if !ok {
		return "", fmt.Errorf("cluster version missing from response")
	}
	return v, nil
}

// Establish probes the environment and checks its version. It records the
// outcome on the connection and never returns an error: an unreachable or
// too-old cluster is simply not usable.
func (c *Connection) Establish(ctx context.Context) bool {
	if !c.Probe(ctx) {
		c.setValidity(false, fmt.Sprintf(
			"Could not connect to %s: neither the cluster version nor the metrics endpoint answered with HTTP 200. Check the URL, token and proxy settings.",
			c.desc.APIURL))
		return false
	}

	v, err := c.ClusterVersion(ctx)
	if err != nil {
		c.setValidity(false, fmt.Sprintf("Connected to %s but could not determine the cluster version: %v", c.desc.APIURL, err))
		return false
	}

	if !environment.IsCompatible(v, MinimumClusterVersion) {
		c.setValidity(false, fmt.Sprintf(
			"Cluster version %s of %s is older than the minimum supported version %s; the environment is excluded.",
			v, c.desc.APIURL, MinimumClusterVersion))
		return false
	}

	c.logger.Debug("environment established", "alias", c.desc.Alias, "version", v)
	c.setValidity(true, "")
	return true
}

// Request issues a GET against the environment and returns the JSON body.
// Failures come back as *errors.TransportError; nothing is retried.
func (c *Connection) Request(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, &dterrors.TransportError{Alias: c.desc.Alias, Path: path, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &dterrors.TransportError{
			Alias:      c.desc.Alias,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), maxErrorBody),
		}
	}

	body := resp.Body()
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, &dterrors.TransportError{
			Alias:      c.desc.Alias,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Err:        errMalformedBody,
		}
	}
	return json.RawMessage(body), nil
}

func (c *Connection) get(ctx context.Context, path string, params map[string]string) (*resty.Response, error) {
	if c.released.Load() {
		return nil, ErrReleased
	}

	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(c.ctx, func() { cancel(ErrReleased) })
	defer func() {
		stop()
		cancel(nil)
	}()

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if id, ok := requestIDFromContext(ctx); ok {
		req.SetHeader("X-Request-Id", id)
	}

	resp, err := req.Get(path)
	if err != nil {
		if cause := context.Cause(ctx); stderrors.Is(cause, ErrReleased) {
			return nil, fmt.Errorf("%w: %w", ErrReleased, err)
		}
		return nil, err
	}
	return resp, nil
}

// Release closes the channel: in-flight requests are cancelled and later
// requests fail with ErrReleased. Safe to call more than once.
func (c *Connection) Release() {
	c.once.Do(func() {
		c.released.Store(true)
		c.cancel()
		c.client.GetClient().CloseIdleConnections()
	})
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
