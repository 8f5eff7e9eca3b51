package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jcorbin/minforth/internal/fileinput"
)

// Pos locates a token in its source.
type Pos struct {
	Name string
	Line int
	Col  int
}

func (pos Pos) String() string { return fmt.Sprintf("%v:%v:%v", pos.Name, pos.Line, pos.Col) }

type token struct {
	Pos
	text string
}

// scanner splits input into whitespace delimited words, skipping
// "( ... )" and "\ ..." comments.
type scanner struct {
	in  fileinput.Input
	sep rune  // rune that ended the last word, 0 at end of input
	err error // sticky non-EOF read error
}

func (sc *scanner) readRune() (rune, bool) {
	if sc.err != nil {
		return 0, false
	}
	r, _, err := sc.in.ReadRune()
	if err != nil {
		if err != io.EOF {
			sc.err = err
		}
		return 0, false
	}
	return r, true
}

func (sc *scanner) pos() Pos {
	return Pos{sc.in.Name(), sc.in.Line(), sc.in.Column()}
}

// next returns the next word; ok is false at the end of input.
func (sc *scanner) next() (tok token, ok bool) {
	var r rune
	for {
		if r, ok = sc.readRune(); !ok {
			return tok, false
		}
		if !unicode.IsSpace(r) {
			break
		}
	}

	tok.Pos = sc.pos()
	var sb strings.Builder
	sb.WriteRune(r)
	for {
		// a word ends at the first space; reading it rolls the line over for
		// a newline, which is fine since the word's position is already known
		if r, ok = sc.readRune(); !ok || unicode.IsSpace(r) {
			break
		}
		sb.WriteRune(r)
	}
	sc.sep = r
	if !ok {
		sc.sep = 0
	}
	tok.text = sb.String()
	return tok, true
}

// skipComment consumes runes through the closing paren of a comment opened
// by a "(" word; it returns false if input ended first.
func (sc *scanner) skipComment() bool {
	for {
		r, ok := sc.readRune()
		if !ok {
			return false
		}
		if r == ')' {
			return true
		}
	}
}

// skipLine consumes the remainder of the current line.
func (sc *scanner) skipLine() {
	if sc.sep == '\n' || sc.sep == 0 {
		return
	}
	for {
		if r, ok := sc.readRune(); !ok || r == '\n' {
			return
		}
	}
}
