// Package metrics exposes probe counters for Prometheus scraping. Every
// method is safe on a nil *Collector, so callers need no enabled checks.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
)

// Candidate outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeWildcard = "wildcard"
)

// Collector holds the run's metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	candidatesTotal *prometheus.CounterVec
	httpProbesTotal *prometheus.CounterVec
	inflightChains  prometheus.Gauge
	chainSeconds    prometheus.Histogram

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	closed   bool
}

// New creates a Collector and registers its metrics.
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		candidatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: defaults.ToolName,
				Name:      "candidates_total",
				Help:      "Candidates probed, by resolution outcome",
			},
			[]string{"outcome"},
		),
		httpProbesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: defaults.ToolName,
				Name:      "http_probes_total",
				Help:      "HTTP probe requests, by scheme and outcome",
			},
			[]string{"scheme", "outcome"},
		),
		inflightChains: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: defaults.ToolName,
			Name:      "inflight_chains",
			Help:      "Probe chains currently executing",
		}),
		chainSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: defaults.ToolName,
			Name:      "chain_duration_seconds",
			Help:      "Duration of one resolve-then-probe chain",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
	}

	collectors := []prometheus.Collector{
		c.candidatesTotal,
		c.httpProbesTotal,
		c.inflightChains,
		c.chainSeconds,
	}
	for _, col := range collectors {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveCandidate counts one finished candidate.
func (c *Collector) ObserveCandidate(outcome string) {
	if c == nil {
		return
	}
	c.candidatesTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTP counts one HTTP probe request.
func (c *Collector) ObserveHTTP(scheme string, err error) {
	if c == nil {
		return
	}
	outcome := "response"
	if err != nil {
		outcome = "error"
	}
	c.httpProbesTotal.WithLabelValues(scheme, outcome).Inc()
}

// ChainStarted marks a chain as in flight.
func (c *Collector) ChainStarted() {
	if c == nil {
		return
	}
	c.inflightChains.Inc()
}

// ChainFinished records a chain's duration and clears it from in flight.
func (c *Collector) ChainFinished(d time.Duration) {
	if c == nil {
		return
	}
	c.inflightChains.Dec()
	c.chainSeconds.Observe(d.Seconds())
}

// Serve exposes the registry at defaults.MetricsPath on addr. It returns
// once the listener is bound.
func (c *Collector) Serve(addr string, logger *slog.Logger) error {
	if c == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(defaults.MetricsPath, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  duration.MetricsReadTimeout,
		WriteTimeout: duration.MetricsWriteTimeout,
	}

	c.mu.Lock()
	c.server = server
	c.listener = ln
	c.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Addr returns the bound listener address, or "" when not serving.
func (c *Collector) Addr() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listener == nil {
		return ""
	}
	return c.listener.Addr().String()
}

// Close shuts down the metrics server.
func (c *Collector) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duration.MetricsShutdown)
		defer cancel()
		return c.server.Shutdown(ctx)
	}
	return nil
}
