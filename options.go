package main

import (
	"io"
	"io/ioutil"
	"time"

	"github.com/jcorbin/minforth/internal/eval"
	"github.com/jcorbin/minforth/internal/flushio"
)

// SessionOption configures a Session.
type SessionOption interface{ apply(s *Session) }

var defaultSessionOptions = []SessionOption{
	withOutput(ioutil.Discard),
	withPrompt("? "),
	withBanner(true),
}

// SessionOptions combines any number of options into one; nil options are
// ignored.
func SessionOptions(opts ...SessionOption) SessionOption {
	var flat sessionOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case sessionOptions:
			flat = append(flat, impl...)
		default:
			flat = append(flat, impl)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return flat
}

type sessionOptions []SessionOption

func (opts sessionOptions) apply(s *Session) {
	for _, opt := range opts {
		opt.apply(s)
	}
}

// WithOutput sets where program output and driver messages are written.
func WithOutput(w io.Writer) SessionOption { return withOutput(w) }

// WithTee copies all output written after it is applied into w as well.
func WithTee(w io.Writer) SessionOption { return teeOption{w} }

// WithLogf enables trace logging of parsing and evaluation.
func WithLogf(logfn func(mess string, args ...interface{})) SessionOption {
	return withLogfn(logfn)
}

// WithErrorf sets a function that is told about every failed program, with
// full detail, in addition to the one line message written to the output.
func WithErrorf(errorf func(mess string, args ...interface{})) SessionOption {
	return withErrorf(errorf)
}

// WithEvalOptions passes options through to the session's evaluator.
func WithEvalOptions(opts ...eval.Option) SessionOption { return evalOptions(opts) }

// WithTimeout limits how long each top-level program may run; 0 means no
// limit.
func WithTimeout(timeout time.Duration) SessionOption { return timeoutOption(timeout) }

// WithPrompt sets the interactive prompt.
func WithPrompt(prompt string) SessionOption { return withPrompt(prompt) }

// WithBanner controls whether an interactive session starts by printing a
// greeting.
func WithBanner(show bool) SessionOption { return withBanner(show) }

type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type withLogfn func(mess string, args ...interface{})
type withErrorf func(mess string, args ...interface{})
type evalOptions []eval.Option
type timeoutOption time.Duration
type withPrompt string
type withBanner bool

func withOutput(w io.Writer) outputOption { return outputOption{w} }

func (o outputOption) apply(s *Session) {
	if s.out.WriteFlusher != nil {
		s.out.Flush()
	}
	s.out.WriteFlusher = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(s *Session) {
	s.out.WriteFlusher = flushio.WriteFlushers(s.out.WriteFlusher, flushio.NewWriteFlusher(o.Writer))
}

func (logfn withLogfn) apply(s *Session)       { s.logfn = logfn }
func (errorf withErrorf) apply(s *Session)     { s.errorf = errorf }
func (opts evalOptions) apply(s *Session)      { s.evalOpts = append(s.evalOpts, opts...) }
func (timeout timeoutOption) apply(s *Session) { s.timeout = time.Duration(timeout) }
func (prompt withPrompt) apply(s *Session)     { s.prompt = string(prompt) }
func (show withBanner) apply(s *Session)       { s.banner = bool(show) }
