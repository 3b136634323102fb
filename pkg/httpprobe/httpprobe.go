// Package httpprobe checks whether a discovered host serves HTTPS or HTTP
// and collects its status code, page title and Server header.
package httpprobe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
	"github.com/submap/submap/pkg/httpclient"
	"github.com/submap/submap/pkg/iohelper"
	"golang.org/x/net/html/charset"
)

var titleRe = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)

// Info is the HTTP evidence for one host. Each field is set only when that
// signal was obtained.
type Info struct {
	HTTPStatus  *int    `json:"http_status,omitempty"`
	HTTPSStatus *int    `json:"https_status,omitempty"`
	Title       *string `json:"title,omitempty"`
	Server      *string `json:"server,omitempty"`
}

// Empty reports whether no signal was obtained.
func (i Info) Empty() bool {
	return i.HTTPStatus == nil && i.HTTPSStatus == nil && i.Title == nil && i.Server == nil
}

// Config configures a Prober.
type Config struct {
	// Client overrides the pooled client built from Timeout and Proxy.
	Client *http.Client

	Timeout   time.Duration // per request (default: 5s)
	UserAgent string        // default: defaults.UserAgent
	Proxy     string        // applied to HTTP probes only
	Logger    *slog.Logger

	// OnAttempt is called after every request with its scheme and error.
	OnAttempt func(scheme string, err error)
}

// Prober runs HTTP probes over one shared connection pool.
type Prober struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	onAttempt func(string, error)
}

// New creates a Prober.
func New(cfg Config) (*Prober, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = duration.ProbeTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := cfg.Client
	if client == nil {
		hc := httpclient.DefaultConfig()
		hc.Timeout = cfg.Timeout
		hc.DialTimeout = cfg.Timeout
		hc.TLSHandshakeTimeout = cfg.Timeout
		hc.Proxy = cfg.Proxy
		var err error
		if client, err = httpclient.New(hc); err != nil {
			return nil, fmt.Errorf("httpprobe: %w", err)
		}
	}

	return &Prober{
		client:    client,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
		onAttempt: cfg.OnAttempt,
	}, nil
}

// Probe requests https://host and, only if that fails, http://host.
// It returns false when neither produced a response.
func (p *Prober) Probe(ctx context.Context, host string) (Info, bool) {
	for _, scheme := range []string{"https", "http"} {
		resp, err := p.fetch(ctx, scheme+"://"+host)
		if p.onAttempt != nil {
			p.onAttempt(scheme, err)
		}
		if err != nil {
			p.logger.Debug("HTTP probe failed",
				slog.String("url", scheme+"://"+host),
				slog.String("error", httpclient.Classify(err).Error()))
			continue
		}

		info := Info{Server: resp.server, Title: resp.title}
		status := resp.status
		if scheme == "https" {
			info.HTTPSStatus = &status
		} else {
			info.HTTPStatus = &status
		}
		return info, true
	}
	return Info{}, false
}

// Close releases pooled connections. Call once after all probes settle.
func (p *Prober) Close() {
	p.client.CloseIdleConnections()
}

type response struct {
	status int
	server *string
	title  *string
}

func (p *Prober) fetch(ctx context.Context, url string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return response{}, err
	}
	defer iohelper.DrainAndClose(resp.Body)

	out := response{status: resp.StatusCode}
	if values := resp.Header.Values("Server"); len(values) > 0 {
		server := values[0]
		out.server = &server
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(contentType), "html") {
		if title, ok := readTitle(resp.Body, contentType); ok {
			out.title = &title
		}
	}
	return out, nil
}

// readTitle decodes at most defaults.BodyLimit bytes using the declared
// charset. Read or decode errors mean no title.
func readTitle(body io.Reader, contentType string) (string, bool) {
	reader, err := charset.NewReader(io.LimitReader(body, defaults.BodyLimit), contentType)
	if err != nil {
		return "", false
	}
	data, err := iohelper.ReadBody(reader, defaults.BodyLimit)
	if err != nil && len(data) == 0 {
		return "", false
	}
	return ExtractTitle(string(data))
}

// ExtractTitle returns the trimmed text of the first <title> element,
// matched case-insensitively. It never fails; a missing or blank title
// yields false.
func ExtractTitle(body string) (string, bool) {
	m := titleRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return "", false
	}
	return title, true
}
