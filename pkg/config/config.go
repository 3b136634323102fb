// Package config holds the run configuration shared by the CLI and the
// probing engine, with YAML file loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
	"github.com/submap/submap/pkg/httpclient"
	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

// Config holds all run options.
type Config struct {
	// Target settings
	Domain   string `yaml:"domain"`
	Wordlist string `yaml:"wordlist"` // Empty = built-in list

	// Execution settings
	Concurrency    int      `yaml:"threads"`    // Probe chains in flight (default: 50)
	TimeoutSeconds int      `yaml:"timeout"`    // Per-operation timeout (default: 5)
	RateLimit      int      `yaml:"rate_limit"` // Chains started per second (0 = unlimited)
	Resolvers      []string `yaml:"resolvers"`
	WildcardFilter bool     `yaml:"wildcard_filter"`

	// HTTP probe settings
	CheckHTTP bool   `yaml:"check_http"`
	UserAgent string `yaml:"user_agent"`
	Proxy     string `yaml:"proxy"`

	// Output settings
	Output    string `yaml:"output"` // .json, .csv, anything else = text
	Verbose   bool   `yaml:"verbose"`
	ResolveIP bool   `yaml:"resolve_ip"`
	NoBanner  bool   `yaml:"no_banner"`
	NoColor   bool   `yaml:"no_color"`

	// Telemetry
	MetricsAddr  string `yaml:"metrics_addr"`
	OTelEndpoint string `yaml:"otel_endpoint"`
	OTelInsecure bool   `yaml:"otel_insecure"`
}

// Default returns a Config populated with the canonical defaults.
func Default() *Config {
	return &Config{
		Concurrency:    defaults.Concurrency,
		TimeoutSeconds: int(duration.ProbeTimeout / time.Second),
		UserAgent:      defaults.UserAgent,
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Timeout returns the per-operation timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return duration.Seconds(c.TimeoutSeconds)
}

// Validate checks limits and normalizes the domain in place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("%w: domain", ErrMissingRequired)
	}
	domain, err := NormalizeDomain(c.Domain)
	if err != nil {
		return err
	}
	c.Domain = domain

	if c.Concurrency <= 0 || c.Concurrency > defaults.ConcurrencyMax {
		return fmt.Errorf("%w: threads must be between 1 and %d, got %d",
			ErrInvalidConfig, defaults.ConcurrencyMax, c.Concurrency)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrInvalidConfig, c.TimeoutSeconds)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative, got %d", ErrInvalidConfig, c.RateLimit)
	}
	if _, err := httpclient.ParseProxyURL(c.Proxy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	return nil
}

// NormalizeDomain strips scheme, path and port, lowercases, and converts
// internationalized names to their ASCII form. The result must contain a dot.
func NormalizeDomain(raw string) (string, error) {
	domain := strings.TrimSpace(raw)
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.IndexByte(domain, ':'); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")

	if domain == "" || !strings.Contains(domain, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}

	ascii, err := idna.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDomain, raw, err)
	}
	return ascii, nil
}
