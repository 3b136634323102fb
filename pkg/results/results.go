// Package results aggregates discovered subdomains. Resolution evidence is
// write-once per name; HTTP info may be attached afterwards.
package results

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/resolve"
)

// Record is one discovered subdomain. Exactly one of Addresses or Aliases
// is set.
type Record struct {
	Name      string
	Addresses []string
	Aliases   []string
	HTTP      *httpprobe.Info
}

// Evidence returns the addresses, or the aliases when the name only
// resolved through a CNAME.
func (r Record) Evidence() []string {
	if len(r.Addresses) > 0 {
		return r.Addresses
	}
	return r.Aliases
}

// Set maps fully qualified names to records. Safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	records map[string]*Record
	logger  *slog.Logger
}

// NewSet creates an empty Set. A nil logger uses slog.Default().
func NewSet(logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	return &Set{
		records: make(map[string]*Record),
		logger:  logger,
	}
}

// Insert stores the evidence for name. It returns false, leaving the set
// unchanged, when name is already present or res is not a hit.
func (s *Set) Insert(name string, res resolve.Result) bool {
	if !res.Found() {
		return false
	}

	rec := &Record{Name: name}
	evidence := append([]string(nil), res.Records...)
	switch res.Kind {
	case resolve.KindAddresses:
		rec.Addresses = evidence
	case resolve.KindAlias:
		rec.Aliases = evidence
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[name]; exists {
		s.logger.Debug("duplicate insert ignored", slog.String("name", name))
		return false
	}
	s.records[name] = rec
	return true
}

// AttachHTTPInfo sets the HTTP info for an inserted name, replacing any
// earlier info. Empty info is ignored.
func (s *Set) AttachHTTPInfo(name string, info httpprobe.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	if info.Empty() {
		return nil
	}
	rec.HTTP = &info
	return nil
}

// Get returns a copy of the record for name.
func (s *Set) Get(name string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[name]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of records.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns copies of all records in ascending name order.
func (s *Set) Records() []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
