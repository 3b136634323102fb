package runner

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/resolve"
)

// fakeResolver answers from a fixed table. Names missing from the table
// are NotFound. delay, when set, runs before answering and honours ctx.
type fakeResolver struct {
	answers map[string]resolve.Result
	delay   func(name string) time.Duration
	hook    func(ctx context.Context, name string)

	mu    sync.Mutex
	calls []string
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) resolve.Result {
	f.mu.Lock()
	f.calls = append(f.calls, "resolve:"+name)
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(ctx, name)
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(name)):
		case <-ctx.Done():
			return resolve.NotFound()
		}
	}
	if ctx.Err() != nil {
		return resolve.NotFound()
	}
	if res, ok := f.answers[name]; ok {
		return res
	}
	// Wildcard answers for random detection labels.
	if res, ok := f.answers["*"]; ok && strings.HasPrefix(name, "wc") {
		return res
	}
	return resolve.NotFound()
}

// fakeProber returns canned info per host and logs calls into the
// resolver's call log so tests can check ordering.
type fakeProber struct {
	infos  map[string]httpprobe.Info
	log    *fakeResolver
	onDone func()
	calls  atomic.Int64
}

func (f *fakeProber) Probe(ctx context.Context, host string) (httpprobe.Info, bool) {
	f.calls.Add(1)
	if f.log != nil {
		f.log.mu.Lock()
		f.log.calls = append(f.log.calls, "probe:"+host)
		f.log.mu.Unlock()
	}
	if f.onDone != nil {
		defer f.onDone()
	}
	info, ok := f.infos[host]
	return info, ok
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
