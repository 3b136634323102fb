package output

import (
	"fmt"
	"io"
	"os"

	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/jsonutil"
)

// JSONReport is the on-disk JSON document.
type JSONReport struct {
	Domain     string      `json:"domain"`
	TotalFound int         `json:"total_found"`
	Subdomains []JSONEntry `json:"subdomains"`
}

// JSONEntry is one subdomain in a JSONReport.
type JSONEntry struct {
	Subdomain string          `json:"subdomain"`
	IPs       []string        `json:"ips"`
	HTTPInfo  *httpprobe.Info `json:"http_info,omitempty"`
}

func toJSON(r Report) JSONReport {
	doc := JSONReport{
		Domain:     r.Domain,
		TotalFound: len(r.Records),
		Subdomains: make([]JSONEntry, 0, len(r.Records)),
	}
	for _, rec := range r.Records {
		ips := rec.Evidence()
		if ips == nil {
			ips = []string{}
		}
		doc.Subdomains = append(doc.Subdomains, JSONEntry{
			Subdomain: rec.Name,
			IPs:       ips,
			HTTPInfo:  rec.HTTP,
		})
	}
	return doc
}

func writeJSON(w io.Writer, r Report) error {
	return jsonutil.WriteIndent(w, toJSON(r), "  ")
}

// ReadJSON loads a report written by Save with a .json path.
func ReadJSON(path string) (*JSONReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc JSONReport
	if err := jsonutil.ReadFrom(f, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
