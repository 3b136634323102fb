// Package iohelper reads and releases HTTP response bodies within fixed
// limits so a hostile server cannot exhaust memory or hold a connection.
package iohelper

import "io"

// DrainLimit caps how much of an unread body is discarded before close.
// Longer bodies lose their keep-alive connection.
const DrainLimit int64 = 64 * 1024

// ReadBody reads at most maxSize bytes from r. A nil reader yields an
// empty body.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose discards up to DrainLimit remaining bytes and closes rc.
// Safe to defer with a nil body.
func DrainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, DrainLimit))
	_ = rc.Close()
}
