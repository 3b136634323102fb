// Package output exports discovered subdomains as JSON, CSV or plain
// text, chosen by the output file extension.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/submap/submap/pkg/results"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// FormatFor picks the format from the file extension, case-insensitively.
// Unknown extensions get plain text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

// Report is what gets exported.
type Report struct {
	Domain string
	// CheckHTTP adds the HTTP columns to CSV output.
	CheckHTTP bool
	// Records must be in ascending name order, as returned by
	// results.Set.Records.
	Records []results.Record
}

// Write encodes r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	default:
		return writeText(w, r)
	}
}

// Save writes r to path in the format implied by its extension. An empty
// report is not written.
func Save(path string, r Report) (err error) {
	if len(r.Records) == 0 {
		return ErrNoResults
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, FormatFor(path), r); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
