package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/metrics"
	"github.com/submap/submap/pkg/resolve"
	"github.com/submap/submap/pkg/results"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func names(set *results.Set) []string {
	var out []string
	for _, rec := range set.Records() {
		out = append(out, rec.Name)
	}
	return out
}

func TestFQDN(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "www.example.com", FQDN("www", "example.com"))
	assert.Equal(t, "api.example.com", FQDN("API", "example.com"))
	assert.Equal(t, "dev.example.com", FQDN(".dev.", "example.com"))
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{}

	_, err := New(Config{Domain: "example.com"}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{}, res, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Domain: "example.com", Concurrency: -1}, res, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Domain: "example.com", CheckHTTP: true}, res, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	r, err := New(Config{Domain: "example.com"}, res, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, r.cfg.Concurrency)
	assert.Equal(t, 100, r.cfg.ProgressEvery)
}

func TestRunFoundAndMissing(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{answers: map[string]resolve.Result{
		"www.example.com": resolve.Addresses("93.184.216.34"),
	}}
	r, err := New(Config{Domain: "example.com"}, res, nil)
	require.NoError(t, err)

	set, err := r.Run(context.Background(), []string{"www", "doesnotexist123"})
	require.NoError(t, err)

	assert.Equal(t, []string{"www.example.com"}, names(set))
	rec, ok := set.Get("www.example.com")
	require.True(t, ok)
	assert.Equal(t, []string{"93.184.216.34"}, rec.Addresses)
	assert.Nil(t, rec.Aliases)
	assert.Nil(t, rec.HTTP)

	stats := r.Stats()
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.Completed)
	assert.EqualValues(t, 1, stats.Found)
	assert.False(t, stats.Interrupted)
}

func TestRunLogsWorkerCount(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := New(Config{Domain: "example.com", Concurrency: 8}, &fakeResolver{}, nil, WithLogger(logger))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	// Workers are capped at the candidate count.
	assert.Contains(t, buf.String(), "msg=\"enumeration started\"")
	assert.Contains(t, buf.String(), "candidates=3 workers=3")
}

func TestRunAliasEvidence(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{answers: map[string]resolve.Result{
		"cdn.example.com": resolve.Alias("example.edgecdn.net"),
	}}
	r, err := New(Config{Domain: "example.com"}, res, nil)
	require.NoError(t, err)

	set, err := r.Run(context.Background(), []string{"cdn"})
	require.NoError(t, err)
	rec, ok := set.Get("cdn.example.com")
	require.True(t, ok)
	assert.Empty(t, rec.Addresses)
	assert.Equal(t, []string{"example.edgecdn.net"}, rec.Aliases)
}

func TestRunNeverExceedsConcurrency(t *testing.T) {
	t.Parallel()
	const limit = 7
	const n = 300

	answers := make(map[string]resolve.Result, n)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("h%d", i)
		answers[labels[i]+".example.com"] = resolve.Addresses("10.0.0.1")
	}

	var active, peak atomic.Int32
	res := &fakeResolver{
		answers: answers,
		hook: func(ctx context.Context, name string) {
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
		},
		delay: func(string) time.Duration { return time.Millisecond },
	}
	// A chain ends when its HTTP probe returns.
	prober := &fakeProber{onDone: func() { active.Add(-1) }}

	r, err := New(Config{Domain: "example.com", Concurrency: limit, CheckHTTP: true}, res, prober)
	require.NoError(t, err)

	set, err := r.Run(context.Background(), labels)
	require.NoError(t, err)

	assert.Equal(t, n, set.Len())
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Positive(t, peak.Load())
	assert.EqualValues(t, n, prober.calls.Load())
}

func TestRunProgressThrottled(t *testing.T) {
	t.Parallel()
	labels := make([]string, 250)
	for i := range labels {
		labels[i] = fmt.Sprintf("w%d", i)
	}

	var got []Progress
	r, err := New(Config{Domain: "example.com", Concurrency: 16}, &fakeResolver{}, nil,
		WithOnProgress(func(p Progress) { got = append(got, p) }))
	require.NoError(t, err)

	_, err = r.Run(context.Background(), labels)
	require.NoError(t, err)

	assert.Equal(t, []Progress{{100, 250}, {200, 250}, {250, 250}}, got)
	assert.InDelta(t, 100.0, got[2].Percent(), 0.001)
	assert.InDelta(t, 40.0, got[0].Percent(), 0.001)
}

func TestRunHTTPAttached(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{answers: map[string]resolve.Result{
		"www.example.com":  resolve.Addresses("93.184.216.34"),
		"mail.example.com": resolve.Addresses("93.184.216.35"),
	}}
	prober := &fakeProber{
		log: res,
		infos: map[string]httpprobe.Info{
			"www.example.com": {HTTPSStatus: intPtr(200), Server: strPtr("nginx"), Title: strPtr("Example Domain")},
		},
	}

	var mu sync.Mutex
	var order []string
	r, err := New(Config{Domain: "example.com", CheckHTTP: true, Concurrency: 4}, res, prober,
		WithOnFound(func(d Discovery) {
			mu.Lock()
			order = append(order, "found:"+d.Name)
			mu.Unlock()
		}),
		WithOnHTTP(func(name string, info httpprobe.Info) {
			mu.Lock()
			order = append(order, "http:"+name)
			mu.Unlock()
		}))
	require.NoError(t, err)

	set, err := r.Run(context.Background(), []string{"www", "mail", "nothing"})
	require.NoError(t, err)

	www, _ := set.Get("www.example.com")
	require.NotNil(t, www.HTTP)
	assert.Equal(t, 200, *www.HTTP.HTTPSStatus)
	assert.Equal(t, "nginx", *www.HTTP.Server)

	mail, _ := set.Get("mail.example.com")
	assert.Nil(t, mail.HTTP, "no HTTP evidence is never stored")

	assert.EqualValues(t, 2, prober.calls.Load(), "only resolved names are probed")
	assert.EqualValues(t, 1, r.Stats().HTTPAlive)

	// Resolution precedes the HTTP probe within every chain.
	index := func(entries []string, v string) int {
		for i, e := range entries {
			if e == v {
				return i
			}
		}
		return -1
	}
	for _, host := range []string{"www.example.com", "mail.example.com"} {
		assert.Less(t, index(res.calls, "resolve:"+host), index(res.calls, "probe:"+host))
	}
	assert.Less(t, index(order, "found:www.example.com"), index(order, "http:www.example.com"))
	assert.Equal(t, -1, index(res.calls, "probe:nothing.example.com"))
}

func TestRunOrderIndependent(t *testing.T) {
	t.Parallel()
	const n = 40
	answers := make(map[string]resolve.Result)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("n%02d", i)
		if i%3 != 0 {
			answers[labels[i]+".example.com"] = resolve.Addresses(fmt.Sprintf("10.0.0.%d", i))
		}
	}
	delayFor := func(reverse bool) func(string) time.Duration {
		return func(name string) time.Duration {
			var i int
			fmt.Sscanf(strings.TrimPrefix(name, "n"), "%02d", &i)
			if reverse {
				i = n - i
			}
			return time.Duration(i) * 200 * time.Microsecond
		}
	}

	run := func(reverse bool) []results.Record {
		res := &fakeResolver{answers: answers, delay: delayFor(reverse)}
		r, err := New(Config{Domain: "example.com", Concurrency: n}, res, nil)
		require.NoError(t, err)
		set, err := r.Run(context.Background(), labels)
		require.NoError(t, err)
		return set.Records()
	}

	forward := run(false)
	reverse := run(true)
	assert.Equal(t, forward, reverse)
	assert.Len(t, forward, n-(n+2)/3)
}

func TestRunInterrupt(t *testing.T) {
	t.Parallel()
	answers := make(map[string]resolve.Result)
	var labels []string
	for i := 0; i < 10; i++ {
		labels = append(labels, fmt.Sprintf("fast%d", i))
		answers[fmt.Sprintf("fast%d.example.com", i)] = resolve.Addresses("10.0.0.1")
	}
	for i := 0; i < 40; i++ {
		labels = append(labels, fmt.Sprintf("slow%d", i))
		answers[fmt.Sprintf("slow%d.example.com", i)] = resolve.Addresses("10.0.0.2")
	}

	var blocked atomic.Int32
	res := &fakeResolver{
		answers: answers,
		hook: func(ctx context.Context, name string) {
			if strings.HasPrefix(name, "slow") {
				blocked.Add(1)
				<-ctx.Done()
			}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := New(Config{Domain: "example.com", Concurrency: 5, ProgressEvery: 1}, res, nil)
	require.NoError(t, err)

	type outcome struct {
		set *results.Set
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		set, err := r.Run(ctx, labels)
		done <- outcome{set, err}
	}()

	require.Eventually(t, func() bool {
		return blocked.Load() == 5 && r.Stats().Completed == 10
	}, 2*time.Second, time.Millisecond)
	cancel()

	var out outcome
	select {
	case out = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after interrupt")
	}
	require.NoError(t, out.err)

	var want []string
	for i := 0; i < 10; i++ {
		want = append(want, fmt.Sprintf("fast%d.example.com", i))
	}
	assert.ElementsMatch(t, want, names(out.set))

	stats := r.Stats()
	assert.True(t, stats.Interrupted)
	// A submit racing the cancel may admit one more chain.
	started := blocked.Load()
	assert.GreaterOrEqual(t, started, int32(5))
	assert.LessOrEqual(t, started, int32(6))
	assert.EqualValues(t, 10+int64(started), stats.Completed, "in-flight chains settle")
	assert.Less(t, stats.Completed, stats.Total)
}

func TestRunSurvivesPanic(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{
		answers: map[string]resolve.Result{
			"ok.example.com": resolve.Addresses("10.0.0.1"),
		},
		hook: func(ctx context.Context, name string) {
			if name == "boom.example.com" {
				panic("resolver exploded")
			}
		},
	}
	var last Progress
	r, err := New(Config{Domain: "example.com", Concurrency: 1}, res, nil,
		WithOnProgress(func(p Progress) { last = p }))
	require.NoError(t, err)

	set, err := r.Run(context.Background(), []string{"boom", "ok"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.example.com"}, names(set))
	assert.Equal(t, Progress{Completed: 2, Total: 2}, last)
}

func TestRunWildcardFilter(t *testing.T) {
	t.Parallel()
	res := &fakeResolver{answers: map[string]resolve.Result{
		"*":                resolve.Addresses("10.9.9.9"),
		"junk.example.com": resolve.Addresses("10.9.9.9"),
		"www.example.com":  resolve.Addresses("93.184.216.34"),
	}}
	r, err := New(Config{Domain: "example.com", WildcardFilter: true}, res, nil)
	require.NoError(t, err)

	set, err := r.Run(context.Background(), []string{"junk", "www"})
	require.NoError(t, err)
	assert.Equal(t, []string{"www.example.com"}, names(set))
	assert.EqualValues(t, 1, r.Stats().Wildcards)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()
	called := false
	r, err := New(Config{Domain: "example.com"}, &fakeResolver{}, nil,
		WithOnProgress(func(Progress) { called = true }))
	require.NoError(t, err)

	set, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, set.Len())
	assert.False(t, called)
}

func TestRunRateLimited(t *testing.T) {
	t.Parallel()
	r, err := New(Config{Domain: "example.com", RateLimit: 20}, &fakeResolver{}, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = r.Run(context.Background(), []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"})
	require.NoError(t, err)
	// Burst of 4, then 6 more at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
}

func TestRunRecordsMetrics(t *testing.T) {
	t.Parallel()
	c, err := metrics.New()
	require.NoError(t, err)

	res := &fakeResolver{answers: map[string]resolve.Result{
		"www.example.com": resolve.Addresses("93.184.216.34"),
	}}
	r, err := New(Config{Domain: "example.com"}, res, nil, WithMetrics(c))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []string{"www", "nope", "gone"})
	require.NoError(t, err)

	expected := `
# HELP submap_candidates_total Candidates probed, by resolution outcome
# TYPE submap_candidates_total counter
submap_candidates_total{outcome="found"} 1
submap_candidates_total{outcome="not_found"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "submap_candidates_total"))
}

func TestRunCreatesSpans(t *testing.T) {
	t.Parallel()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	r, err := New(Config{Domain: "example.com"}, &fakeResolver{}, nil, WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	for _, s := range spans {
		assert.Equal(t, "submap.probe", s.Name())
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	res := &fakeResolver{hook: func(ctx context.Context, name string) { <-release }}
	r, err := New(Config{Domain: "example.com"}, res, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Run(context.Background(), []string{"a"})
	}()
	require.Eventually(t, func() bool { return r.running.Load() }, time.Second, time.Millisecond)

	_, err = r.Run(context.Background(), []string{"b"})
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	<-done
}
