// Package jsonutil wraps github.com/go-json-experiment/json behind the
// small surface the exporters need.
//
// Usage:
//
//	import "github.com/submap/submap/pkg/jsonutil"
//
//	err := jsonutil.WriteIndent(w, report, "  ")
//	err = jsonutil.ReadFrom(r, &report)
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// WriteIndent encodes v to w, one member per line with nested levels
// indented by indent, and terminates the document with a newline.
func WriteIndent(w io.Writer, v any, indent string) error {
	if err := json.MarshalWrite(w, v, jsontext.WithIndent(indent)); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// ReadFrom decodes a single JSON value from r into v.
func ReadFrom(r io.Reader, v any) error {
	return json.UnmarshalRead(r, v)
}
