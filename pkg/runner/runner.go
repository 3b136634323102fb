// Package runner schedules probe chains (resolve, then optionally probe
// HTTP) over a fixed worker pool and aggregates the hits.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/metrics"
	"github.com/submap/submap/pkg/resolve"
	"github.com/submap/submap/pkg/results"
	"github.com/submap/submap/pkg/workerpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

// HTTPProber probes a resolved host. *httpprobe.Prober implements it.
type HTTPProber interface {
	Probe(ctx context.Context, host string) (httpprobe.Info, bool)
}

// Config configures a Runner.
type Config struct {
	Domain         string
	Concurrency    int  // chains in flight (default: 50)
	CheckHTTP      bool // probe HTTP for every hit
	RateLimit      int  // chains started per second (0 = unlimited)
	ProgressEvery  int  // progress throttle (default: 100)
	WildcardFilter bool // drop hits that match the domain's wildcard records
}

// Progress is reported after every ProgressEvery completions and after
// the final one.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns completion as 0-100.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Discovery is emitted once per inserted name, before its HTTP probe.
type Discovery struct {
	Name   string
	Result resolve.Result
}

// Stats summarizes a run.
type Stats struct {
	Total       int64         `json:"total"`
	Completed   int64         `json:"completed"`
	Found       int64         `json:"found"`
	Wildcards   int64         `json:"wildcards"`
	HTTPAlive   int64         `json:"http_alive"`
	Interrupted bool          `json:"interrupted"`
	Duration    time.Duration `json:"duration"`
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithMetrics records chain metrics on c.
func WithMetrics(c *metrics.Collector) Option { return func(r *Runner) { r.metrics = c } }

// WithTracer wraps each chain in a span.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// WithOnProgress sets the progress callback.
func WithOnProgress(fn func(Progress)) Option { return func(r *Runner) { r.onProgress = fn } }

// WithOnFound sets the discovery callback.
func WithOnFound(fn func(Discovery)) Option { return func(r *Runner) { r.onFound = fn } }

// WithOnHTTP sets the callback for attached HTTP info.
func WithOnHTTP(fn func(name string, info httpprobe.Info)) Option {
	return func(r *Runner) { r.onHTTP = fn }
}

// Runner drives candidates through the probes. Callbacks are never
// invoked concurrently.
type Runner struct {
	cfg      Config
	resolver resolve.Resolver
	prober   HTTPProber
	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   trace.Tracer

	onProgress func(Progress)
	onFound    func(Discovery)
	onHTTP     func(string, httpprobe.Info)

	running  atomic.Bool
	wildcard *resolve.Wildcard

	// cbMu serializes callbacks and orders progress reports.
	cbMu      sync.Mutex
	total     atomic.Int64
	completed atomic.Int64
	found     atomic.Int64
	wildcards atomic.Int64
	httpAlive atomic.Int64

	statsMu sync.Mutex
	stats   Stats
}

// New creates a Runner. prober may be nil when cfg.CheckHTTP is false.
func New(cfg Config, resolver resolve.Resolver, prober HTTPProber, opts ...Option) (*Runner, error) {
	if resolver == nil {
		return nil, fmt.Errorf("%w: nil resolver", ErrInvalidConfig)
	}
	if cfg.Domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidConfig)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency %d", ErrInvalidConfig, cfg.Concurrency)
	}
	if cfg.CheckHTTP && prober == nil {
		return nil, fmt.Errorf("%w: HTTP checking needs a prober", ErrInvalidConfig)
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = defaults.ProgressEvery
	}

	r := &Runner{
		cfg:      cfg,
		resolver: resolver,
		prober:   prober,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(defaults.TracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// FQDN joins a candidate label with the base domain, lowercased.
func FQDN(label, domain string) string {
	return strings.ToLower(strings.Trim(label, ".") + "." + domain)
}

// Run probes every candidate and returns the hits. Cancelling ctx stops
// admission of new chains; chains already running see the cancelled
// context, and Run returns the partial set with Stats().Interrupted set.
// Individual probe failures never produce an error.
func (r *Runner) Run(ctx context.Context, candidates []string) (*results.Set, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer r.running.Store(false)

	start := time.Now()
	set := results.NewSet(r.logger)
	total := len(candidates)
	r.reset(total)

	if total == 0 {
		r.finish(start, false)
		return set, nil
	}

	r.wildcard = nil
	if r.cfg.WildcardFilter {
		wc, err := resolve.DetectWildcard(ctx, r.resolver, r.cfg.Domain)
		if err != nil {
			r.logger.Warn("wildcard detection failed", slog.String("error", err.Error()))
		} else if wc != nil {
			r.logger.Info("wildcard DNS detected",
				slog.String("domain", r.cfg.Domain),
				slog.Any("records", wc.Records()))
			r.wildcard = wc
		}
	}

	workers := r.cfg.Concurrency
	if workers > total {
		workers = total
	}
	pool := workerpool.New(workers, workerpool.WithPanicHandler(func(v any) {
		r.logger.Error("probe chain panicked", slog.Any("panic", v))
	}))
	r.logger.Debug("enumeration started",
		slog.String("domain", r.cfg.Domain),
		slog.Int("candidates", total),
		slog.Int("workers", pool.Cap()))

	var limiter *rate.Limiter
	if r.cfg.RateLimit > 0 {
		burst := r.cfg.RateLimit / 5
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), burst)
	}

	for _, label := range candidates {
		if ctx.Err() != nil {
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}
		name := FQDN(label, r.cfg.Domain)
		if err := pool.Submit(ctx, func() { r.chain(ctx, set, name) }); err != nil {
			break
		}
	}
	pool.Close()

	interrupted := ctx.Err() != nil && r.completed.Load() < int64(total)
	if interrupted {
		r.logger.Info("run interrupted",
			slog.Int64("completed", r.completed.Load()),
			slog.Int("total", total))
	}
	r.finish(start, interrupted)
	return set, nil
}

// chain runs one candidate: resolve, insert, notify, then optionally
// probe HTTP and attach the result.
func (r *Runner) chain(ctx context.Context, set *results.Set, name string) {
	start := time.Now()
	r.metrics.ChainStarted()
	ctx, span := r.tracer.Start(ctx, "submap.probe", trace.WithAttributes(attribute.String("submap.name", name)))
	// Runs on panic too; the pool recovers after the chain is counted.
	defer func() {
		span.End()
		r.metrics.ChainFinished(time.Since(start))
		r.complete()
	}()

	res := r.resolver.Resolve(ctx, name)
	span.SetAttributes(attribute.String("submap.resolution", res.Kind.String()))
	if !res.Found() {
		r.metrics.ObserveCandidate(metrics.OutcomeNotFound)
		return
	}
	if r.wildcard.Matches(res) {
		r.wildcards.Add(1)
		r.metrics.ObserveCandidate(metrics.OutcomeWildcard)
		r.logger.Debug("wildcard hit dropped", slog.String("name", name))
		return
	}
	if !set.Insert(name, res) {
		return
	}
	r.found.Add(1)
	r.metrics.ObserveCandidate(metrics.OutcomeFound)
	if r.onFound != nil {
		r.emit(func() { r.onFound(Discovery{Name: name, Result: res}) })
	}

	if !r.cfg.CheckHTTP {
		return
	}
	info, ok := r.prober.Probe(ctx, name)
	if !ok || info.Empty() {
		return
	}
	if err := set.AttachHTTPInfo(name, info); err != nil {
		r.logger.Warn("attach HTTP info", slog.String("name", name), slog.String("error", err.Error()))
		return
	}
	r.httpAlive.Add(1)
	span.SetAttributes(attribute.Bool("submap.http_alive", true))
	if r.onHTTP != nil {
		r.emit(func() { r.onHTTP(name, info) })
	}
}

func (r *Runner) emit(fn func()) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	fn()
}

// complete counts a finished chain. Counting and reporting share cbMu so
// progress values are delivered in increasing order.
func (r *Runner) complete() {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()

	n := r.completed.Add(1)
	total := r.total.Load()
	if r.onProgress != nil && (n%int64(r.cfg.ProgressEvery) == 0 || n == total) {
		r.onProgress(Progress{Completed: int(n), Total: int(total)})
	}
}

func (r *Runner) reset(total int) {
	r.total.Store(int64(total))
	r.completed.Store(0)
	r.found.Store(0)
	r.wildcards.Store(0)
	r.httpAlive.Store(0)

	r.statsMu.Lock()
	r.stats = Stats{Total: int64(total)}
	r.statsMu.Unlock()
}

func (r *Runner) finish(start time.Time, interrupted bool) {
	r.statsMu.Lock()
	r.stats.Interrupted = interrupted
	r.stats.Duration = time.Since(start)
	r.statsMu.Unlock()
}

// Stats returns a snapshot. Counters are live while Run executes.
func (r *Runner) Stats() Stats {
	r.statsMu.Lock()
	s := r.stats
	r.statsMu.Unlock()

	s.Total = r.total.Load()
	s.Completed = r.completed.Load()
	s.Found = r.found.Load()
	s.Wildcards = r.wildcards.Load()
	s.HTTPAlive = r.httpAlive.Load()
	return s
}
