// Package eval interprets programs parsed into ast.Block form.
//
// An Evaluator owns a value stack and a call context, and shares a Words
// table handed to it at construction. Evaluation does not use Go recursion:
// pending work is an explicit stack of frames, each a block plus a program
// counter. Calling a word pushes a frame that owns a call context entry;
// recurse and if/else push frames that do not. The frame stack is bounded,
// so runaway recursion fails with ErrRecursionLimitExceeded rather than
// exhausting the host.
package eval

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jcorbin/minforth/internal/ast"
)

// Evaluator runs programs against a word table.
type Evaluator struct {
	words *Words
	out   io.Writer
	logfn func(mess string, args ...interface{})

	overflow Overflow
	maxDepth int

	stack  Stack
	calls  []string // call context, innermost last
	frames []frame

	buf []byte
}

type frame struct {
	body ast.Block
	pc   int
	word string // call context entry owned by this frame, if any
}

// New creates an evaluator around the given word table; a nil table gets a
// fresh one.
func New(words *Words, opts ...Option) *Evaluator {
	if words == nil {
		words = NewWords()
	}
	ev := &Evaluator{words: words}
	Options(defaults...).apply(ev)
	Options(opts...).apply(ev)
	return ev
}

// Words returns the table that the evaluator defines into and calls from.
func (ev *Evaluator) Words() *Words { return ev.words }

// Stack returns the value stack contents, bottom first, as left by the most
// recent Eval.
func (ev *Evaluator) Stack() []int64 { return ev.stack.Values() }

// Eval evaluates prog with a fresh value stack and call context. Words
// defined before any failure stay defined, and output already written stays
// written.
//
// The context is checked between steps; cancelling it aborts evaluation with
// the context's error.
func (ev *Evaluator) Eval(ctx context.Context, prog ast.Block) error {
	ev.stack.Reset()
	ev.calls = ev.calls[:0]
	ev.frames = ev.frames[:0]
	defer func() {
		ev.calls = ev.calls[:0]
		ev.frames = ev.frames[:0]
	}()
	if err := ev.enter(prog, ""); err != nil {
		return err
	}
	return ev.run(ctx)
}

func (ev *Evaluator) run(ctx context.Context) error {
	for len(ev.frames) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fr := &ev.frames[len(ev.frames)-1]
		if fr.pc >= len(fr.body) {
			ev.leave()
			continue
		}
		node := fr.body[fr.pc]
		fr.pc++
		if ev.logfn != nil {
			ev.logf("exec %v -- s:%v c:%v", traceName(node), ev.stack.values, ev.calls)
		}
		if err := ev.step(node); err != nil {
			ev.logf("abort %v: %v", traceName(node), err)
			return err
		}
	}
	return nil
}

// enter pushes a frame for body; a non-empty word also enters the call
// context, until the frame is left.
func (ev *Evaluator) enter(body ast.Block, word string) error {
	// exhausted frames that own nothing have no more work; dropping them
	// keeps tail positions from growing the frame stack
	for i := len(ev.frames) - 1; i >= 0; i-- {
		if fr := ev.frames[i]; fr.word != "" || fr.pc < len(fr.body) {
			break
		}
		ev.frames = ev.frames[:i]
	}
	if ev.maxDepth > 0 && len(ev.frames) >= ev.maxDepth {
		return ErrRecursionLimitExceeded
	}
	ev.frames = append(ev.frames, frame{body: body, word: word})
	if word != "" {
		ev.calls = append(ev.calls, word)
		ev.logf("enter %v depth:%v", word, len(ev.frames))
	}
	return nil
}

func (ev *Evaluator) leave() {
	i := len(ev.frames) - 1
	if word := ev.frames[i].word; word != "" {
		ev.calls = ev.calls[:len(ev.calls)-1]
		ev.logf("leave %v", word)
	}
	ev.frames = ev.frames[:i]
}

func (ev *Evaluator) step(node ast.Node) error {
	switch n := node.(type) {
	case ast.Number:
		return ev.stack.Push(n.Value)

	case ast.PrintTop:
		v, err := ev.stack.Pop()
		if err != nil {
			return err
		}
		ev.buf = strconv.AppendInt(ev.buf[:0], v, 10)
		return ev.write(ev.buf)

	case ast.PrintStack:
		return ev.printStack()

	case ast.Arith:
		ab, err := ev.stack.top(2)
		if err != nil {
			return err
		}
		r, overflow, err := arith(n.Op, ab[0], ab[1])
		if err != nil {
			return err
		}
		if overflow && ev.overflow == Trap {
			return ErrIntegerOverflow
		}
		ev.stack.replace(2, r)
		return nil

	case ast.Shuffle:
		return ev.stack.shuffle(n.Op)

	case ast.Compare:
		ab, err := ev.stack.top(2)
		if err != nil {
			return err
		}
		holds, err := compare(n.Op, ab[0], ab[1])
		if err != nil {
			return err
		}
		ev.stack.replace(2, truth(holds))
		return nil

	case ast.Logic:
		return ev.logic(n.Op)

	case ast.IfElse:
		cond, err := ev.stack.Pop()
		if err != nil {
			return err
		}
		if cond != 0 {
			return ev.branch(n.Then)
		}
		return ev.branch(n.Else)

	case ast.WordDef:
		ev.words.Define(n.Name, n.Body)
		ev.logf("define %v", n.Name)
		return nil

	case ast.WordCall:
		body, err := ev.words.Lookup(n.Name)
		if err != nil {
			return err
		}
		return ev.enter(body, n.Name)

	case ast.Recurse:
		i := len(ev.calls) - 1
		if i < 0 {
			return ErrRecurseOutsideDefinition
		}
		body, err := ev.words.Lookup(ev.calls[i])
		if err != nil {
			return err
		}
		return ev.enter(body, "")

	case ast.Block:
		return ev.branch(n)

	default:
		return fmt.Errorf("unhandled program node %T", node)
	}
}

func (ev *Evaluator) branch(blk ast.Block) error {
	if len(blk) == 0 {
		return nil
	}
	return ev.enter(blk, "")
}

func (ev *Evaluator) logic(op ast.LogicOp) error {
	switch op {
	case ast.Not:
		vs, err := ev.stack.top(1)
		if err != nil {
			return err
		}
		vs[0] = ^vs[0]
		return nil
	case ast.And, ast.Or:
		ab, err := ev.stack.top(2)
		if err != nil {
			return err
		}
		if op == ast.And {
			ev.stack.replace(2, ab[0]&ab[1])
		} else {
			ev.stack.replace(2, ab[0]|ab[1])
		}
		return nil
	}
	return fmt.Errorf("invalid logic op %v", op)
}

// printStack writes "<depth> [v1 v2 ...]" bottom first, plus a newline.
func (ev *Evaluator) printStack() error {
	buf := append(ev.buf[:0], '<')
	buf = strconv.AppendInt(buf, int64(ev.stack.Depth()), 10)
	buf = append(buf, '>', ' ', '[')
	for i, v := range ev.stack.values {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, v, 10)
	}
	buf = append(buf, ']', '\n')
	ev.buf = buf
	return ev.write(buf)
}

func (ev *Evaluator) write(p []byte) error {
	if _, err := ev.out.Write(p); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}
	return nil
}

func (ev *Evaluator) logf(mess string, args ...interface{}) {
	if ev.logfn != nil {
		ev.logfn(mess, args...)
	}
}

func traceName(node ast.Node) string {
	switch n := node.(type) {
	case nil:
		return "<nil>"
	case ast.IfElse:
		return "if"
	case ast.WordDef:
		return ": " + n.Name
	case ast.Block:
		return "block"
	}
	return node.String()
}
