// Package resolve turns fully qualified names into resolution evidence:
// address records first, canonical-name records as a fallback.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
	"github.com/submap/submap/pkg/duration"
)

// Kind classifies a resolution outcome.
type Kind int

const (
	KindNotFound Kind = iota
	KindAddresses
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindAddresses:
		return "addresses"
	case KindAlias:
		return "alias"
	default:
		return "not_found"
	}
}

// Result is the evidence for one name. Records holds A addresses for
// KindAddresses and CNAME targets (without trailing dot) for KindAlias.
type Result struct {
	Kind    Kind
	Records []string
}

// Found reports whether the name resolved.
func (r Result) Found() bool {
	return r.Kind != KindNotFound && len(r.Records) > 0
}

// NotFound is the zero Result.
func NotFound() Result { return Result{} }

// Addresses builds an address Result.
func Addresses(ips ...string) Result { return Result{Kind: KindAddresses, Records: ips} }

// Alias builds a canonical-name Result.
func Alias(targets ...string) Result { return Result{Kind: KindAlias, Records: targets} }

// Resolver produces exactly one Result per name and never fails.
type Resolver interface {
	Resolve(ctx context.Context, name string) Result
}

// Config configures a DNSResolver.
type Config struct {
	Servers []string      // host or host:port; empty = system, then public
	Timeout time.Duration // per exchange (default: 5s)
	Net     string        // "udp" (default) or "tcp"
	Logger  *slog.Logger
}

// DNSResolver queries upstream servers directly, one attempt per record
// type, rotating servers round-robin across queries.
type DNSResolver struct {
	client  *dns.Client
	servers []string
	timeout time.Duration
	next    atomic.Uint64
	logger  *slog.Logger
}

// Compile-time interface check.
var _ Resolver = (*DNSResolver)(nil)

// New creates a DNSResolver.
func New(cfg Config) (*DNSResolver, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = duration.ProbeTimeout
	}
	if cfg.Net == "" {
		cfg.Net = "udp"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, NormalizeServer(s))
		}
	}
	if len(servers) == 0 {
		servers = SystemServers()
	}
	if len(servers) == 0 {
		return nil, ErrNoServers
	}

	return &DNSResolver{
		client: &dns.Client{
			Net:     cfg.Net,
			Timeout: cfg.Timeout,
		},
		servers: servers,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

// Servers returns the upstream servers in rotation order.
func (r *DNSResolver) Servers() []string {
	out := make([]string, len(r.servers))
	copy(out, r.servers)
	return out
}

// Resolve tries an A lookup, then a CNAME lookup. Any failure of the A
// lookup, including ErrNoRecords, falls through to CNAME; failure of both
// yields NotFound.
func (r *DNSResolver) Resolve(ctx context.Context, name string) Result {
	ips, err := r.Lookup(ctx, name, dns.TypeA)
	if err == nil {
		return Addresses(ips...)
	}
	r.logger.Debug("A lookup failed", slog.String("name", name), slog.String("error", err.Error()))

	targets, err := r.Lookup(ctx, name, dns.TypeCNAME)
	if err == nil {
		return Alias(targets...)
	}
	r.logger.Debug("CNAME lookup failed", slog.String("name", name), slog.String("error", err.Error()))

	return NotFound()
}

// Lookup performs a single exchange for qtype (A or CNAME) and returns the
// matching records. A NOERROR answer with no matching record is ErrNoRecords.
func (r *DNSResolver) Lookup(ctx context.Context, name string, qtype uint16) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	server := r.servers[r.next.Add(1)%uint64(len(r.servers))]
	resp, _, err := r.client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("resolve: %s %s via %s: %w", dns.TypeToString[qtype], name, server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: %s", ErrRcode, dns.RcodeToString[resp.Rcode])
	}

	var records []string
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				records = append(records, v.A.String())
			}
		case *dns.CNAME:
			if qtype == dns.TypeCNAME {
				records = append(records, strings.TrimSuffix(v.Target, "."))
			}
		}
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// DefaultServers returns public DNS resolvers used when the system
// configuration is unavailable.
func DefaultServers() []string {
	return []string{
		"8.8.8.8:53",        // Google
		"8.8.4.4:53",        // Google
		"1.1.1.1:53",        // Cloudflare
		"1.0.0.1:53",        // Cloudflare
		"9.9.9.9:53",        // Quad9
		"208.67.222.222:53", // OpenDNS
		"208.67.220.220:53", // OpenDNS
	}
}

// SystemServers reads nameservers from /etc/resolv.conf, falling back to
// DefaultServers.
func SystemServers() []string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return DefaultServers()
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}

// NormalizeServer appends port 53 when s has no port.
func NormalizeServer(s string) string {
	if _, _, err := net.SplitHostPort(s); err == nil {
		return s
	}
	return net.JoinHostPort(strings.Trim(s, "[]"), "53")
}
