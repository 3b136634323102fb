// Package defaults provides canonical default values for submap.
// This is the single source of truth for runtime configuration defaults.
//
// Usage:
//
//	cfg.Concurrency = defaults.Concurrency
//	req.Header.Set("User-Agent", defaults.UserAgent)
//
// Do not hardcode values like `Concurrency: 50` anywhere else.
package defaults

// ToolName is used for the binary, metric namespaces and trace service names.
const ToolName = "submap"

// Version is the current submap version
const Version = "2.0.0"

// ============================================================================
// CONCURRENCY SETTINGS
// ============================================================================

const (
	// Concurrency is the default number of probe chains in flight (50)
	Concurrency = 50

	// ConcurrencyMax guards against accidental resource exhaustion (10000)
	ConcurrencyMax = 10000
)

// ============================================================================
// PROGRESS & BUFFERS
// ============================================================================

const (
	// ProgressEvery throttles progress reports to every N completions (100)
	ProgressEvery = 100

	// BodyLimit caps how much of an HTTP body is read for title extraction (1MB)
	BodyLimit = 1024 * 1024

	// PermutationSeeds is how many built-in words receive suffix permutations (20)
	PermutationSeeds = 20
)

// ============================================================================
// HTTP
// ============================================================================

// UserAgent is sent with every HTTP probe unless overridden.
const UserAgent = "SubMap/2.0 (Subdomain Scanner)"

const (
	// MaxRedirects is the redirect depth the HTTP probe follows (10)
	MaxRedirects = 10

	// MaxIdleConns bounds the shared connection pool (100)
	MaxIdleConns = 100
)

// ============================================================================
// TELEMETRY
// ============================================================================

const (
	// MetricsPath is where the Prometheus handler is mounted
	MetricsPath = "/metrics"

	// TracerName is the instrumentation scope for probe spans
	TracerName = "github.com/submap/submap/runner"
)
