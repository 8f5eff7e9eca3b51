package eval

import (
	"io"
	"io/ioutil"
)

// Option configures an Evaluator.
type Option interface{ apply(ev *Evaluator) }

// DefaultMaxDepth is the frame depth limit used unless WithMaxDepth says
// otherwise.
const DefaultMaxDepth = 10000

var defaults = []Option{
	withOutput(ioutil.Discard),
	maxDepthOption(DefaultMaxDepth),
}

// Options combines any number of options into one; nil options are ignored.
func Options(opts ...Option) Option {
	var flat options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
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

type options []Option

func (opts options) apply(ev *Evaluator) {
	for _, opt := range opts {
		opt.apply(ev)
	}
}

// WithOutput sets where "." and ".s" write.
func WithOutput(w io.Writer) Option { return withOutput(w) }

// WithLogf sets a trace logging function; nil disables tracing.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithOverflow sets the integer overflow policy.
func WithOverflow(ov Overflow) Option { return ov }

// WithMaxDepth limits how many frames (word calls, recursions, and branches
// in progress) may be nested; 0 removes the limit.
func WithMaxDepth(depth int) Option { return maxDepthOption(depth) }

// WithStackLimit limits the value stack depth; 0 removes the limit.
func WithStackLimit(limit int) Option { return stackLimitOption(limit) }

type outputOption struct{ io.Writer }
type withLogfn func(mess string, args ...interface{})
type maxDepthOption int
type stackLimitOption int

func withOutput(w io.Writer) outputOption { return outputOption{w} }

func (o outputOption) apply(ev *Evaluator)     { ev.out = o.Writer }
func (logfn withLogfn) apply(ev *Evaluator)    { ev.logfn = logfn }
func (ov Overflow) apply(ev *Evaluator)        { ev.overflow = ov }
func (lim maxDepthOption) apply(ev *Evaluator) { ev.maxDepth = int(lim) }
func (lim stackLimitOption) apply(ev *Evaluator) {
	ev.stack.Limit = int(lim)
}
