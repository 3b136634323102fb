package resolve

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
)

// wildcardProbes is how many random labels are resolved during detection.
// Load-balanced wildcards can return different records per query.
const wildcardProbes = 2

// Wildcard holds the records a wildcard DNS entry answers with.
type Wildcard struct {
	records map[string]struct{}
}

// DetectWildcard resolves random labels under domain. It returns nil when
// none of them resolve.
func DetectWildcard(ctx context.Context, r Resolver, domain string) (*Wildcard, error) {
	w := &Wildcard{records: make(map[string]struct{})}
	for i := 0; i < wildcardProbes; i++ {
		label, err := randomLabel()
		if err != nil {
			return nil, err
		}
		res := r.Resolve(ctx, label+"."+domain)
		if !res.Found() {
			continue
		}
		for _, rec := range res.Records {
			w.records[rec] = struct{}{}
		}
	}
	if len(w.records) == 0 {
		return nil, nil
	}
	return w, nil
}

// Matches reports whether every record in res belongs to the wildcard.
// A nil Wildcard matches nothing.
func (w *Wildcard) Matches(res Result) bool {
	if w == nil || !res.Found() {
		return false
	}
	for _, rec := range res.Records {
		if _, ok := w.records[rec]; !ok {
			return false
		}
	}
	return true
}

// Records returns the wildcard records, sorted.
func (w *Wildcard) Records() []string {
	if w == nil {
		return nil
	}
	out := make([]string, 0, len(w.records))
	for rec := range w.records {
		out = append(out, rec)
	}
	sort.Strings(out)
	return out
}

func randomLabel() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("resolve: random label: %w", err)
	}
	return "wc" + hex.EncodeToString(buf), nil
}
