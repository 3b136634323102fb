// Package duration provides canonical time constants for submap.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.ProbeTimeout)
//
// Do not hardcode time.Duration values like `5 * time.Second` elsewhere.
package duration

import "time"

// ============================================================================
// PROBE TIMEOUTS
// ============================================================================

const (
	// ProbeTimeout is the per-operation network timeout for DNS and HTTP (5s)
	ProbeTimeout = 5 * time.Second

	// DialTimeout bounds TCP connects inside an HTTP probe (5s)
	DialTimeout = 5 * time.Second

	// TLSHandshake bounds the TLS handshake inside an HTTP probe (5s)
	TLSHandshake = 5 * time.Second

	// IdleConn is how long idle pooled connections are kept (90s)
	IdleConn = 90 * time.Second
)

// ============================================================================
// SHUTDOWN
// ============================================================================

const (
	// MetricsShutdown bounds the metrics server shutdown (5s)
	MetricsShutdown = 5 * time.Second

	// TracerShutdown bounds the trace exporter flush (5s)
	TracerShutdown = 5 * time.Second

	// ExporterConnect bounds the OTLP exporter connection setup (10s)
	ExporterConnect = 10 * time.Second

	// MetricsReadTimeout is the metrics server read timeout (5s)
	MetricsReadTimeout = 5 * time.Second

	// MetricsWriteTimeout is the metrics server write timeout (10s)
	MetricsWriteTimeout = 10 * time.Second
)

// Seconds converts a whole-second CLI value into a duration.
// Non-positive input yields zero so callers can apply their own default.
func Seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
