package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jcorbin/minforth/internal/ast"
	"github.com/jcorbin/minforth/internal/eval"
	"github.com/jcorbin/minforth/internal/fileinput"
	"github.com/jcorbin/minforth/internal/flushio"
	"github.com/jcorbin/minforth/internal/panicerr"
	"github.com/jcorbin/minforth/internal/parser"
)

const banner = "Mini Forth Interpreter (type 'exit' to quit)"

// Session evaluates a series of programs against one word table, writing
// their output along with a one line message for every failure.
type Session struct {
	out    lineWriter
	logfn  func(mess string, args ...interface{})
	errorf func(mess string, args ...interface{})

	evalOpts []eval.Option
	timeout  time.Duration
	prompt   string
	banner   bool

	ev     *eval.Evaluator
	astEnc *yaml.Encoder
}

// NewSession creates a session with an empty word table.
func NewSession(opts ...SessionOption) *Session {
	var s Session
	SessionOptions(defaultSessionOptions...).apply(&s)
	SessionOptions(opts...).apply(&s)
	evalOpts := append([]eval.Option{eval.WithOutput(&s.out)}, s.evalOpts...)
	if s.logfn != nil {
		evalOpts = append(evalOpts, eval.WithLogf(s.logfn))
	}
	s.ev = eval.New(eval.NewWords(), evalOpts...)
	return &s
}

// Words returns the session's word table.
func (s *Session) Words() *eval.Words { return s.ev.Words() }

// Interpret reads all of r as one program, then evaluates it unless it has
// syntax errors. The returned error has already been reported as a line of
// output; it is returned for callers that want more detail than that.
func (s *Session) Interpret(ctx context.Context, name string, r io.Reader) error {
	err := s.interpret(ctx, name, r)
	if ferr := s.out.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("output flush failed: %w", ferr)
	}
	return err
}

func (s *Session) interpret(ctx context.Context, name string, r io.Reader) error {
	prog, err := s.parse(name, r)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err = panicerr.Recover(name, func() error {
		return s.ev.Eval(ctx, prog)
	})
	switch {
	case err == nil:
		return nil
	case eval.IsRuntime(err):
		s.report("Runtime Error: "+err.Error(), "%v: %v", name, err)
	default:
		s.report("Error: "+err.Error(), "%v: %+v", name, err)
	}
	return err
}

func (s *Session) parse(name string, r io.Reader) (ast.Block, error) {
	prog, err := parser.Parse(fileinput.Named(name, r))
	var syntax parser.Errors
	switch {
	case err == nil:
		s.logf("parsed %v: %v", name, prog)
		return prog, nil
	case errors.As(err, &syntax):
		s.report("Syntax Error", "%v", err)
	default:
		s.report("Error: "+err.Error(), "%v: %v", name, err)
	}
	return nil, err
}

// report writes line on its own line of output, and passes the detailed form
// on to any errorf function.
func (s *Session) report(line string, mess string, args ...interface{}) {
	s.out.println(line)
	if s.errorf != nil {
		s.errorf(mess, args...)
	}
}

// Interact runs a read-evaluate-print loop: each line read is a whole program,
// evaluated against every word defined by prior lines. The loop ends at end
// of input, or when a line reads "exit".
func (s *Session) Interact(ctx context.Context, lines LineReader) error {
	if s.banner {
		s.out.println(banner)
		if err := s.out.Flush(); err != nil {
			return fmt.Errorf("output flush failed: %w", err)
		}
	}
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := lines.ReadLine()
		if errors.Is(err, ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		if strings.TrimSpace(line) == "exit" {
			return nil
		}

		s.interpret(ctx, fmt.Sprintf("<input %v>", n), strings.NewReader(line))
		io.WriteString(&s.out, "\n")
		if err := s.out.Flush(); err != nil {
			return fmt.Errorf("output flush failed: %w", err)
		}
	}
}

// PromptLines returns a LineReader that writes the session prompt before
// reading each line from r.
func (s *Session) PromptLines(r io.Reader) LineReader {
	return newPromptLines(s.prompt, s.out.WriteFlusher, r)
}

// WriteAST parses all of r and writes its program tree as a YAML document,
// without evaluating it.
func (s *Session) WriteAST(name string, r io.Reader) error {
	prog, err := s.parse(name, r)
	if err != nil {
		s.out.Flush()
		return err
	}
	if s.astEnc == nil {
		s.astEnc = yaml.NewEncoder(&s.out)
		s.astEnc.SetIndent(2)
	}
	if err := s.astEnc.Encode(astDocument{Name: name, Program: prog}); err != nil {
		return fmt.Errorf("ast encode failed: %w", err)
	}
	return s.out.Flush()
}

type astDocument struct {
	Name    string    `yaml:"name"`
	Program ast.Block `yaml:"program"`
}

// Dump writes the stack left by the last program, and all defined words.
func (s *Session) Dump() error {
	s.out.endLine()
	s.ev.Dump(&s.out)
	return s.out.Flush()
}

// Close finishes any partial output line and flushes.
func (s *Session) Close() error {
	if s.astEnc != nil {
		if err := s.astEnc.Close(); err != nil {
			return fmt.Errorf("ast encode failed: %w", err)
		}
		s.astEnc = nil
	}
	s.out.endLine()
	return s.out.Flush()
}

func (s *Session) logf(mess string, args ...interface{}) {
	if s.logfn != nil {
		s.logfn(mess, args...)
	}
}

// lineWriter tracks whether output stopped part way through a line, so that
// driver messages can start on a line of their own.
type lineWriter struct {
	flushio.WriteFlusher
	midLine bool
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		lw.midLine = p[len(p)-1] != '\n'
	}
	return lw.WriteFlusher.Write(p)
}

func (lw *lineWriter) endLine() {
	if lw.midLine {
		io.WriteString(lw, "\n")
	}
}

func (lw *lineWriter) println(line string) {
	lw.endLine()
	io.WriteString(lw, line+"\n")
}
