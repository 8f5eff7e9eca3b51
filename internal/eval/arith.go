package eval

import (
	"fmt"
	"math"

	"github.com/jcorbin/minforth/internal/ast"
)

// Overflow selects what happens when an arithmetic result does not fit in
// 64 bits.
type Overflow uint8

const (
	// Wrap keeps the low 64 bits of the result, two's complement.
	Wrap Overflow = iota

	// Trap fails the operation with ErrIntegerOverflow.
	Trap
)

func (ov Overflow) String() string {
	switch ov {
	case Wrap:
		return "wrap"
	case Trap:
		return "error"
	}
	return fmt.Sprintf("Overflow(%d)", uint8(ov))
}

// ParseOverflow parses the names printed by Overflow.String.
func ParseOverflow(s string) (Overflow, error) {
	switch s {
	case "wrap", "":
		return Wrap, nil
	case "error", "trap":
		return Trap, nil
	}
	return 0, fmt.Errorf("invalid overflow policy %q, want wrap or error", s)
}

// Set implements flag.Value.
func (ov *Overflow) Set(s string) (err error) {
	*ov, err = ParseOverflow(s)
	return err
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ov *Overflow) UnmarshalText(b []byte) error { return ov.Set(string(b)) }

// arith computes a op b. The overflow flag reports whether the true result
// did not fit; the returned value is then the wrapped result.
func arith(op ast.ArithOp, a, b int64) (r int64, overflow bool, err error) {
	switch op {
	case ast.Add:
		r = a + b
		return r, (b > 0 && r < a) || (b < 0 && r > a), nil
	case ast.Sub:
		r = a - b
		return r, (b < 0 && r < a) || (b > 0 && r > a), nil
	case ast.Mul:
		r = a * b
		if a == 0 || b == 0 {
			return 0, false, nil
		}
		return r, r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64), nil
	case ast.Div:
		if b == 0 {
			return 0, false, ErrDivisionByZero
		}
		q, _ := floorDivMod(a, b)
		return q, a == math.MinInt64 && b == -1, nil
	case ast.Mod:
		if b == 0 {
			return 0, false, ErrDivisionByZero
		}
		_, m := floorDivMod(a, b)
		return m, false, nil
	}
	return 0, false, fmt.Errorf("invalid arithmetic op %v", op)
}

// floorDivMod divides rounding the quotient toward negative infinity, so that
// the remainder takes the sign of the divisor and q*b + m == a.
func floorDivMod(a, b int64) (q, m int64) {
	q, m = a/b, a%b
	if m != 0 && (m < 0) != (b < 0) {
		q--
		m += b
	}
	return q, m
}

func compare(op ast.CompareOp, a, b int64) (bool, error) {
	switch op {
	case ast.Eq:
		return a == b, nil
	case ast.Ne:
		return a != b, nil
	case ast.Lt:
		return a < b, nil
	case ast.Gt:
		return a > b, nil
	}
	return false, fmt.Errorf("invalid compare op %v", op)
}

// truth encodes a boolean: all bits set for true, zero for false.
func truth(b bool) int64 {
	if b {
		return -1
	}
	return 0
}
