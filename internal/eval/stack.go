package eval

import (
	"fmt"

	"github.com/jcorbin/minforth/internal/ast"
)

// Stack is the LIFO value stack that all data flows through.
type Stack struct {
	values []int64

	// Limit, when non-zero, caps the depth; pushing past it fails with
	// ErrStackOverflow.
	Limit int
}

// Depth returns the number of values on the stack.
func (st *Stack) Depth() int { return len(st.values) }

// Values returns a copy of the stack contents, bottom first.
func (st *Stack) Values() []int64 {
	vs := make([]int64, len(st.values))
	copy(vs, st.values)
	return vs
}

// Reset empties the stack.
func (st *Stack) Reset() { st.values = st.values[:0] }

// Push adds v to the top.
func (st *Stack) Push(v int64) error { return st.push(v) }

// Pop removes and returns the top value.
func (st *Stack) Pop() (int64, error) {
	i := len(st.values) - 1
	if i < 0 {
		return 0, ErrStackUnderflow
	}
	v := st.values[i]
	st.values = st.values[:i]
	return v, nil
}

// Peek returns the value k places below the top without removing it;
// Peek(0) is the top.
func (st *Stack) Peek(k int) (int64, error) {
	if err := st.need(k + 1); err != nil {
		return 0, err
	}
	return st.values[len(st.values)-1-k], nil
}

// need checks that at least n values are present.
func (st *Stack) need(n int) error {
	if len(st.values) < n {
		return ErrStackUnderflow
	}
	return nil
}

// top returns the topmost n values as a slice aliasing the stack, after
// checking that they exist.
func (st *Stack) top(n int) ([]int64, error) {
	if err := st.need(n); err != nil {
		return nil, err
	}
	return st.values[len(st.values)-n:], nil
}

// replace drops the topmost n values, which must exist, and pushes v.
func (st *Stack) replace(n int, v int64) {
	i := len(st.values) - n
	st.values = append(st.values[:i], v)
}

// push adds all of vs, or none of them if that would exceed Limit.
func (st *Stack) push(vs ...int64) error {
	if st.Limit != 0 && len(st.values)+len(vs) > st.Limit {
		return ErrStackOverflow
	}
	st.values = append(st.values, vs...)
	return nil
}

// shuffle applies a stack manipulation; on failure the stack is unchanged.
func (st *Stack) shuffle(op ast.ShuffleOp) error {
	vs, err := st.top(op.Depth())
	if err != nil {
		return err
	}
	switch op {
	case ast.Dup: // a -- a a
		return st.push(vs[0])
	case ast.Drop: // a --
		st.values = st.values[:len(st.values)-1]
	case ast.Swap: // a b -- b a
		vs[0], vs[1] = vs[1], vs[0]
	case ast.Over: // a b -- a b a
		return st.push(vs[0])
	case ast.Rot: // a b c -- b c a
		vs[0], vs[1], vs[2] = vs[1], vs[2], vs[0]
	case ast.TwoDup: // a b -- a b a b
		return st.push(vs[0], vs[1])
	case ast.TwoDrop: // a b --
		st.values = st.values[:len(st.values)-2]
	case ast.TwoSwap: // a b c d -- c d a b
		vs[0], vs[1], vs[2], vs[3] = vs[2], vs[3], vs[0], vs[1]
	case ast.TwoOver: // a b c d -- a b c d a b
		return st.push(vs[0], vs[1])
	default:
		return fmt.Errorf("invalid stack op %v", op)
	}
	return nil
}
