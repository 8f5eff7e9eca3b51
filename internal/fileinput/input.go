// Package fileinput reads runes from a sequence of named streams, keeping
// track of where each rune came from.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
)

// Input reads runes through a Queue of one or more streams, in order, as if
// they were one. Line and column numbers restart with each stream.
type Input struct {
	Queue []io.Reader

	rr   io.RuneReader
	name string
	line int
	col  int
}

// ReadRune reads the next rune, moving on to the next stream in Queue as each
// one ends. It returns io.EOF once all streams are done.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if r == '\n' {
				in.line++
				in.col = 0
			} else {
				in.col++
			}
			return r, n, nil
		}
		if err != io.EOF {
			return 0, 0, err
		}
		in.rr = nil
	}
}

// Name returns the name of the current stream, taken from its Name() method
// if it has one.
func (in *Input) Name() string { return in.name }

// Line returns the 1-based line number of the current position.
func (in *Input) Line() int { return in.line }

// Column returns the 1-based column of the most recently read rune; it is 0
// just after a line feed.
func (in *Input) Column() int { return in.col }

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.rr = runeReader(r)
	in.name = nameOf(r)
	in.line, in.col = 1, 0
	return true
}

// runeReader returns r if it can already read runes, or a buffered reader
// around it otherwise.
func runeReader(r io.Reader) io.RuneReader {
	if rr, ok := r.(io.RuneReader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

// Named attaches a name to r, reported by Input.Name while reading it.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
