// Package flushio provides buffered output that callers flush at points of
// their choosing, such as after each program or before each prompt.
package flushio

import (
	"bufio"
	"io"
	"io/ioutil"
)

// WriteFlusher is an io.Writer that may hold output back until flushed.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher returns w itself if it is already a WriteFlusher. Writers
// that gain nothing from buffering, ioutil.Discard and in-memory buffers like
// strings.Builder, get a no-op Flush. Anything else is wrapped in a
// bufio.Writer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if w == ioutil.Discard {
		return nopFlusher{w}
	}
	if wf, ok := w.(WriteFlusher); ok {
		return wf
	}
	if _, ok := w.(inMemory); ok {
		return nopFlusher{w}
	}
	return bufio.NewWriter(w)
}

type inMemory interface {
	io.Writer
	Len() int
	Grow(n int)
	Reset()
}

type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

// WriteFlushers returns a WriteFlusher that writes to, and flushes, every one
// of wfs in order; nil entries are skipped.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	var all teeFlushers
	for _, wf := range wfs {
		switch impl := wf.(type) {
		case nil:
		case teeFlushers:
			all = append(all, impl...)
		default:
			all = append(all, impl)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type teeFlushers []WriteFlusher

func (wfs teeFlushers) Write(p []byte) (int, error) {
	for _, wf := range wfs {
		n, err := wf.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}

// Flush flushes every writer, returning the first error.
func (wfs teeFlushers) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
