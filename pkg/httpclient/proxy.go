package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Default ports per proxy scheme. socks5h sends hostnames to the proxy
// unresolved; the transport already passes hostnames, so it dials like
// socks5.
var proxyDefaultPorts = map[string]string{
	"http":    "8080",
	"https":   "8443",
	"socks5":  "1080",
	"socks5h": "1080",
}

// ProxyConfig is a validated proxy URL. URL.Host always carries a port.
type ProxyConfig struct {
	URL     *url.URL
	Scheme  string
	IsSOCKS bool
}

// ParseProxyURL validates a proxy URL; an empty string yields nil, nil.
// A missing scheme means http.
func ParseProxyURL(raw string) (*ProxyConfig, error) {
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	scheme := strings.ToLower(u.Scheme)
	defaultPort, ok := proxyDefaultPorts[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported scheme %q (want http, https, socks5 or socks5h)", ErrInvalidProxy, scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidProxy)
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), defaultPort)
	}
	u.Scheme = scheme

	return &ProxyConfig{
		URL:     u,
		Scheme:  scheme,
		IsSOCKS: scheme == "socks5" || scheme == "socks5h",
	}, nil
}

// Address returns the proxy's host:port.
func (p *ProxyConfig) Address() string {
	if p == nil {
		return ""
	}
	return p.URL.Host
}

// socksDialer bounds each proxied dial, SOCKS handshake included, by
// timeout.
type socksDialer struct {
	dialer  proxy.ContextDialer
	timeout time.Duration
}

func (d *socksDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	conn, err := d.dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProxyConnect, err)
	}
	return conn, nil
}

// CreateSOCKSDialer returns a dialer that tunnels through the SOCKS5
// proxy in cfg, credentials included.
func CreateSOCKSDialer(cfg *ProxyConfig, timeout time.Duration) (proxy.ContextDialer, error) {
	if cfg == nil || !cfg.IsSOCKS {
		return nil, fmt.Errorf("%w: not a SOCKS proxy", ErrInvalidProxy)
	}

	d, err := proxy.FromURL(&url.URL{Scheme: "socks5", Host: cfg.URL.Host, User: cfg.URL.User}, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("%w: SOCKS dialer lacks context support", ErrInvalidProxy)
	}
	return &socksDialer{dialer: cd, timeout: timeout}, nil
}
