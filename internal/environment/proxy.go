package environment

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Warner receives configuration warnings that are not errors.
type Warner interface {
	Warning(message string, args ...interface{})
}

// ProxyAuth holds decoded proxy credentials.
type ProxyAuth struct {
	Username string
	Password string
}

// ProxyConfig is a parsed proxy URL.
type ProxyConfig struct {
	Scheme string
	Host   string
	Port   int
	Auth   *ProxyAuth
}

// Protocol returns the scheme in URL protocol form, e.g. "http:".
func (p *ProxyConfig) Protocol() string {
	return p.Scheme + ":"
}

// URL rebuilds the proxy URL for the HTTP transport, credentials included.
func (p *ProxyConfig) URL() *url.URL {
	u := &url.URL{
		Scheme: p.Scheme,
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
	}
	if p.Auth != nil {
		u.User = url.UserPassword(p.Auth.Username, p.Auth.Password)
	}
	return u
}

// String renders the proxy without credentials.
func (p *ProxyConfig) String() string {
	return fmt.Sprintf("%s//%s", p.Protocol(), net.JoinHostPort(p.Host, strconv.Itoa(p.Port)))
}

// ParseProxy turns the configured proxy URLs into a ProxyConfig. Setting both
// is a conflict: it is reported through warn and no proxy is used. A URL that
// cannot be parsed is an error.
func ParseProxy(httpProxy, httpsProxy string, warn Warner) (*ProxyConfig, error) {
	httpProxy, httpsProxy = strings.TrimSpace(httpProxy), strings.TrimSpace(httpsProxy)

	switch {
	case httpProxy != "" && httpsProxy != "":
		if warn != nil {
			warn.Warning("both HTTP and HTTPS proxy URLs are configured, ignoring both and connecting directly")
		}
		return nil, nil
	case httpProxy == "" && httpsProxy == "":
		return nil, nil
	}

	raw := httpProxy
	if raw == "" {
		raw = httpsProxy
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("invalid proxy URL %q: scheme must be http or https", u.Redacted())
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("invalid proxy URL %q: missing host", u.Redacted())
	}

	port := 80
	if scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid proxy URL %q: bad port %q", u.Redacted(), p)
		}
	}

	cfg := &ProxyConfig{Scheme: scheme, Host: host, Port: port}
	if u.User != nil {
		password, _ := u.User.Password()
		cfg.Auth = &ProxyAuth{Username: u.User.Username(), Password: password}
	}
	return cfg, nil
}
