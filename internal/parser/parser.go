// Package parser turns program text into an ast.Block.
//
// Words are separated by whitespace. Besides the builtin operations known to
// package ast, the parser handles numbers, "if ... [else ...] then",
// ": name ... ;" definitions, and "( ... )" / "\ ..." comments. Any other word
// becomes a call. Every syntax error found is reported, each with its
// position; a program with errors must not be evaluated.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/minforth/internal/ast"
	"github.com/jcorbin/minforth/internal/fileinput"
)

// Error is a single syntax error.
type Error struct {
	Pos
	Message string
}

func (err Error) Error() string { return fmt.Sprintf("%v: %v", err.Pos, err.Message) }

// Errors collects all syntax errors found in one parse.
type Errors []Error

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no syntax errors"
	case 1:
		return errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v syntax errors:", len(errs))
	for _, err := range errs {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Parse reads all of r and parses it as a program. If r has a Name() string
// method, it names error positions.
//
// A non-nil error is either Errors, or an error from reading r.
func Parse(r io.Reader) (ast.Block, error) {
	var p parser
	p.sc.in.Queue = []io.Reader{r}
	prog := p.parseProgram()
	if p.sc.err != nil {
		return nil, fmt.Errorf("read failed: %w", p.sc.err)
	}
	if len(p.errs) > 0 {
		return prog, p.errs
	}
	return prog, nil
}

// ParseString parses src, naming positions after name.
func ParseString(name, src string) (ast.Block, error) {
	return Parse(fileinput.Named(name, strings.NewReader(src)))
}

type parser struct {
	sc       scanner
	errs     Errors
	defining *token // the ":" of the definition being parsed
}

func (p *parser) errorf(pos Pos, mess string, args ...interface{}) {
	p.errs = append(p.errs, Error{pos, fmt.Sprintf(mess, args...)})
}

// next returns the next word, skipping comments.
func (p *parser) next() (token, bool) {
	for {
		tok, ok := p.sc.next()
		if !ok {
			return tok, false
		}
		switch tok.text {
		case "(":
			if !p.sc.skipComment() {
				p.errorf(tok.Pos, "unterminated comment")
				return tok, false
			}
		case "\\":
			p.sc.skipLine()
		default:
			return tok, true
		}
	}
}

func (p *parser) parseProgram() (prog ast.Block) {
	for {
		tok, ok := p.next()
		if !ok {
			return prog
		}
		switch tok.text {
		case ";", "else", "then":
			p.errorf(tok.Pos, "unexpected %q", tok.text)
		default:
			if n := p.parseNode(tok); n != nil {
				prog = append(prog, n)
			}
		}
	}
}

// parseBlock collects nodes up to one of the given terminator words, which is
// returned; ok is false if input ended first.
func (p *parser) parseBlock(terms ...string) (blk ast.Block, term token, ok bool) {
	blk = ast.Block{}
	for {
		tok, more := p.next()
		if !more {
			return blk, tok, false
		}
		for _, t := range terms {
			if tok.text == t {
				return blk, tok, true
			}
		}
		switch tok.text {
		case ";", "else", "then":
			p.errorf(tok.Pos, "unexpected %q", tok.text)
			continue
		}
		if n := p.parseNode(tok); n != nil {
			blk = append(blk, n)
		}
	}
}

func (p *parser) parseNode(tok token) ast.Node {
	switch tok.text {
	case ":":
		return p.parseDef(tok)
	case "if":
		return p.parseIf(tok)
	}

	if n, ok := ast.Builtin(tok.text); ok {
		return n
	}

	if isNumber(tok.text) {
		val, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "number %v out of range", tok.text)
			return nil
		}
		return ast.Number{Value: val}
	}

	return ast.WordCall{Name: tok.text}
}

func (p *parser) parseIf(start token) ast.Node {
	var n ast.IfElse
	var ok bool
	var term token
	n.Then, term, ok = p.parseBlock("else", "then")
	if ok && term.text == "else" {
		n.Else, _, ok = p.parseBlock("then")
	}
	if !ok {
		p.errorf(start.Pos, "unterminated if")
		return nil
	}
	return n
}

func (p *parser) parseDef(start token) ast.Node {
	if p.defining != nil {
		p.errorf(start.Pos, "nested definition inside %q started at %v", ":", p.defining.Pos)
	}
	defer func(prior *token) { p.defining = prior }(p.defining)
	p.defining = &start

	name, ok := p.next()
	if !ok {
		p.errorf(start.Pos, "missing name for definition")
		return nil
	}
	if reason := invalidName(name.text); reason != "" {
		p.errorf(name.Pos, "invalid word name %q: %v", name.text, reason)
		if name.text == ";" {
			return nil
		}
	}

	body, _, ok := p.parseBlock(";")
	if !ok {
		p.errorf(start.Pos, "unterminated definition of %q", name.text)
		return nil
	}
	return ast.WordDef{Name: name.text, Body: body}
}

func invalidName(name string) string {
	switch name {
	case ":", ";", "if", "else", "then", "(", "\\":
		return "reserved word"
	}
	if _, ok := ast.Builtin(name); ok {
		return "builtin word"
	}
	if isNumber(name) {
		return "number"
	}
	return ""
}

func isNumber(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
