package eval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/minforth/internal/ast"
	"github.com/jcorbin/minforth/internal/parser"
)

func TestEval(t *testing.T) {
	evalTestCases{
		evalTest("empty program").
			do("").
			expectStack().
			expectOutput(""),

		evalTest("numbers").
			do("1 2 3 -4").
			expectStack(1, 2, 3, -4),

		evalTest("print top").
			do("1 2 3 . .").
			expectStack(1).
			expectOutput("32"),

		evalTest("print stack").
			do("1 2 3 .s").
			expectStack(1, 2, 3).
			expectOutput("<3> [1 2 3]\n"),

		evalTest("print empty stack").
			do(".s").
			expectOutput("<0> []\n"),

		evalTest("print underflow").
			do(".").
			expectError(ErrStackUnderflow).
			expectOutput(""),

		evalTest("partial output before failure").
			do("1 . foo 2 .").
			expectError(UnknownWordError{"foo"}).
			expectOutput("1"),

		// arithmetic
		evalTest("add").do("2 3 +").expectStack(5),
		evalTest("sub").do("2 3 -").expectStack(-1),
		evalTest("mul").do("-4 3 *").expectStack(-12),
		evalTest("div").do("7 2 /").expectStack(3),
		evalTest("div floors").do("-7 2 /").expectStack(-4),
		evalTest("div floors negative divisor").do("7 -2 /").expectStack(-4),
		evalTest("div both negative").do("-7 -2 /").expectStack(3),
		evalTest("mod").do("7 3 mod").expectStack(1),
		evalTest("mod takes divisor sign").do("-7 3 mod").expectStack(2),
		evalTest("mod negative divisor").do("7 -3 mod").expectStack(-2),
		evalTest("mod exact").do("-6 3 mod").expectStack(0),

		evalTest("div by zero").
			do("1 5 0 /").
			expectError(ErrDivisionByZero).
			expectStack(1, 5, 0),
		evalTest("mod by zero").
			do("5 0 mod").
			expectError(ErrDivisionByZero).
			expectStack(5, 0),

		evalTest("arith underflow").
			do("1 +").
			expectError(ErrStackUnderflow).
			expectStack(1),

		evalTest("add wraps").
			do("9223372036854775807 1 +").
			expectStack(-9223372036854775808),
		evalTest("add traps").
			withOptions(WithOverflow(Trap)).
			do("9223372036854775807 1 +").
			expectError(ErrIntegerOverflow).
			expectStack(9223372036854775807, 1),
		evalTest("sub traps").
			withOptions(WithOverflow(Trap)).
			do("0 9223372036854775807 - 2 -").
			expectError(ErrIntegerOverflow).
			expectStack(-9223372036854775807, 2),
		evalTest("mul traps").
			withOptions(WithOverflow(Trap)).
			do("4611686018427387904 2 *").
			expectError(ErrIntegerOverflow),
		evalTest("div min by -1 traps").
			withOptions(WithOverflow(Trap)).
			do("0 9223372036854775807 - 1 - -1 /").
			expectError(ErrIntegerOverflow),
		evalTest("div min by -1 wraps").
			do("0 9223372036854775807 - 1 - -1 /").
			expectStack(-9223372036854775808),
		evalTest("trap allows in range").
			withOptions(WithOverflow(Trap)).
			do("9223372036854775806 1 + 100 1 + -3 *").
			expectStack(9223372036854775807, -303),

		// stack shuffles
		evalTest("dup").do("1 2 dup").expectStack(1, 2, 2),
		evalTest("drop").do("1 2 drop").expectStack(1),
		evalTest("swap").do("1 2 swap").expectStack(2, 1),
		evalTest("over").do("1 2 over").expectStack(1, 2, 1),
		evalTest("rot").do("1 2 3 rot").expectStack(2, 3, 1),
		evalTest("2dup").do("1 2 2dup").expectStack(1, 2, 1, 2),
		evalTest("2drop").do("1 2 3 2drop").expectStack(1),
		evalTest("2swap").do("1 2 3 4 2swap").expectStack(3, 4, 1, 2),
		evalTest("2over").do("1 2 3 4 2over").expectStack(1, 2, 3, 4, 1, 2),

		evalTest("dup underflow").do("dup").expectError(ErrStackUnderflow).expectStack(),
		evalTest("drop underflow").do("drop").expectError(ErrStackUnderflow).expectStack(),
		evalTest("swap underflow").do("1 swap").expectError(ErrStackUnderflow).expectStack(1),
		evalTest("over underflow").do("1 over").expectError(ErrStackUnderflow).expectStack(1),
		evalTest("rot underflow").do("1 2 rot").expectError(ErrStackUnderflow).expectStack(1, 2),
		evalTest("2dup underflow").do("1 2dup").expectError(ErrStackUnderflow).expectStack(1),
		evalTest("2drop underflow").do("1 2drop").expectError(ErrStackUnderflow).expectStack(1),
		evalTest("2swap underflow").do("1 2 3 2swap").expectError(ErrStackUnderflow).expectStack(1, 2, 3),
		evalTest("2over underflow").do("1 2 3 2over").expectError(ErrStackUnderflow).expectStack(1, 2, 3),

		// comparison and logic
		evalTest("eq").do("2 2 = 2 3 =").expectStack(-1, 0),
		evalTest("ne").do("2 2 <> 2 3 <>").expectStack(0, -1),
		evalTest("lt").do("1 2 < 2 1 < 2 2 <").expectStack(-1, 0, 0),
		evalTest("gt").do("1 2 > 2 1 > 2 2 >").expectStack(0, -1, 0),
		evalTest("and").do("12 10 and").expectStack(8),
		evalTest("or").do("12 10 or").expectStack(14),
		evalTest("not").do("0 not -1 not 5 not").expectStack(-1, 0, -6),
		evalTest("not underflow").do("not").expectError(ErrStackUnderflow),
		evalTest("compare underflow").do("1 <").expectError(ErrStackUnderflow).expectStack(1),
		evalTest("and underflow").do("1 and").expectError(ErrStackUnderflow).expectStack(1),

		// conditionals
		evalTest("if true").do("1 if 10 then").expectStack(10),
		evalTest("if false").do("0 if 10 then").expectStack(),
		evalTest("if else true").do("-1 if 10 else 20 then").expectStack(10),
		evalTest("if else false").do("0 if 10 else 20 then").expectStack(20),
		evalTest("if any non-zero").do("7 if 1 else 2 then").expectStack(1),
		evalTest("if continues after").do("1 if 10 then 20").expectStack(10, 20),
		evalTest("nested if").
			do("1 0 if 10 else if 20 else 30 then then").
			expectStack(20),
		evalTest("empty branches").do("1 if else then 2").expectStack(2),
		evalTest("if underflow").do("if 1 then").expectError(ErrStackUnderflow),
		evalTest("untaken branch is not run").
			do("0 if foo . recurse else 3 then").
			expectStack(3),
		evalTest("if compare").
			do("5 3 > if 100 else 200 then .").
			expectOutput("100"),

		// definitions
		evalTest("define and call").
			do(": square dup * ; 7 square").
			expectStack(49).
			expectWord("square", "dup *"),
		evalTest("define only").
			do(": nothing ;").
			expectStack().
			expectWord("nothing", ""),
		evalTest("words persist across programs").
			do(": double 2 * ;").
			do("21 double .").
			expectOutput("42"),
		evalTest("redefine").
			do(": x 1 ;").
			do(": x 2 ; x").
			expectStack(2).
			expectWord("x", "2"),
		evalTest("callers see redefinition").
			do(": x 1 ; : y x ;").
			do(": x 2 ; y").
			expectStack(2),
		evalTest("call before define").
			do("f : f 1 ;").
			expectError(UnknownWordError{"f"}).
			expectNoWord("f"),
		evalTest("words persist after failure").
			do(": a 1 ; foo : b 2 ;").
			expectError(UnknownWordError{"foo"}).
			do("a").
			expectStack(1).
			expectNoWord("b"),
		evalTest("stack reset between programs").
			do("1 2 3").
			do("4").
			expectStack(4),
		evalTest("unknown word").
			do("1 foo").
			expectError(UnknownWordError{"foo"}).
			expectStack(1),

		// recursion
		evalTest("recurse outside definition").
			do("recurse").
			expectError(ErrRecurseOutsideDefinition),
		evalTest("recurse in top level if").
			do("1 if recurse then").
			expectError(ErrRecurseOutsideDefinition),
		evalTest("factorial").
			do(": fact dup 1 > if dup 1 - recurse * then ; 5 fact .").
			expectOutput("120").
			expectStack(),
		evalTest("factorial by name").
			do(": fact dup 1 > if dup 1 - fact * then ; 10 fact").
			expectStack(3628800),
		evalTest("fib").
			do(": fib dup 1 > if dup 1 - recurse swap 2 - recurse + then ; 15 fib").
			expectStack(610),
		evalTest("countdown").
			do(": down dup . dup 0 > if 1 - recurse then ; 3 down").
			expectOutput("3210").
			expectStack(0),
		evalTest("tail recursion runs in bounded depth").
			withOptions(WithMaxDepth(16)).
			do(": down dup 0 > if 1 - recurse then ; 100000 down").
			expectStack(0),
		evalTest("named self call grows depth").
			withOptions(WithMaxDepth(16)).
			do(": down dup 0 > if 1 - down then ; 100000 down").
			expectError(ErrRecursionLimitExceeded),
		evalTest("deep recursion exceeds limit").
			withOptions(WithMaxDepth(100)).
			do(": sum dup 0 > if dup 1 - recurse + then ; 1000 sum").
			expectError(ErrRecursionLimitExceeded).
			expectNoCalls(),
		evalTest("deep recursion within limit").
			withOptions(WithMaxDepth(5000)).
			do(": sum dup 0 > if dup 1 - recurse + then ; 1000 sum").
			expectStack(500500),
		evalTest("self call exceeds limit").
			do(": f f ; f").
			expectError(ErrRecursionLimitExceeded),
		evalTest("recurse resolves to innermost word").
			do(": inner dup 0 > if 1 - recurse then ; : outer inner 100 ; 3 outer").
			expectStack(0, 100),
		evalTest("recurse in word called from another word").
			do(": g 1 - dup 0 > if recurse then ;").
			do(": h 5 g ; h").
			expectStack(0),

		// limits
		evalTest("stack limit").
			withOptions(WithStackLimit(3)).
			do("1 2 3 4").
			expectError(ErrStackOverflow).
			expectStack(1, 2, 3),
		evalTest("stack limit dup").
			withOptions(WithStackLimit(2)).
			do("1 2 dup").
			expectError(ErrStackOverflow).
			expectStack(1, 2),
		evalTest("stack limit 2over").
			withOptions(WithStackLimit(5)).
			do("1 2 3 4 2over").
			expectError(ErrStackOverflow).
			expectStack(1, 2, 3, 4),
		evalTest("endless loop times out").
			withTimeout(10 * time.Millisecond).
			do(": spin recurse ; spin").
			expectError(context.DeadlineExceeded),
	}.run(t)
}

func TestEval_cancel(t *testing.T) {
	prog, err := parser.ParseString(t.Name(), "1 2 3")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := New(nil)
	assert.True(t, errors.Is(ev.Eval(ctx, prog), context.Canceled), "expected canceled")
	assert.Equal(t, []int64{}, ev.Stack(), "expected nothing to run")
}

func TestEval_invalidNode(t *testing.T) {
	ev := New(nil)
	err := ev.Eval(context.Background(), ast.Block{ast.Number{Value: 1}, nil})
	require.Error(t, err)
	assert.False(t, IsRuntime(err), "expected a non-runtime error, got %v", err)
	assert.Equal(t, []int64{1}, ev.Stack())
}

func TestEval_nestedBlock(t *testing.T) {
	ev := New(nil)
	prog := ast.Block{
		ast.Number{Value: 1},
		ast.Block{ast.Number{Value: 2}, ast.Block{}, ast.Number{Value: 3}},
		ast.Number{Value: 4},
	}
	require.NoError(t, ev.Eval(context.Background(), prog))
	assert.Equal(t, []int64{1, 2, 3, 4}, ev.Stack())
}

func TestEval_outputError(t *testing.T) {
	prog, err := parser.ParseString(t.Name(), "1 .")
	require.NoError(t, err)

	ev := New(nil, WithOutput(errWriter{errors.New("disk full")}))
	err = ev.Eval(context.Background(), prog)
	assert.EqualError(t, err, "output failed: disk full")
	assert.False(t, IsRuntime(err))
}

func TestEval_sharedWords(t *testing.T) {
	words := NewWords()
	a := New(words)
	b := New(words)

	prog, err := parser.ParseString("a", ": seven 7 ;")
	require.NoError(t, err)
	require.NoError(t, a.Eval(context.Background(), prog))

	prog, err = parser.ParseString("b", "seven seven +")
	require.NoError(t, err)
	require.NoError(t, b.Eval(context.Background(), prog))

	assert.Equal(t, []int64{14}, b.Stack())
	assert.Equal(t, []int64{}, a.Stack())
	assert.Same(t, words, a.Words())
}

func TestEval_trace(t *testing.T) {
	var trace []string
	ev := New(nil, WithLogf(func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	}))
	prog, err := parser.ParseString(t.Name(), ": one 1 ; one")
	require.NoError(t, err)
	require.NoError(t, ev.Eval(context.Background(), prog))
	assert.Equal(t, []string{
		"exec : one -- s:[] c:[]",
		"define one",
		"exec one -- s:[] c:[]",
		"enter one depth:1",
		"exec 1 -- s:[] c:[one]",
		"leave one",
	}, trace)
}

func TestIsRuntime(t *testing.T) {
	for _, err := range []error{
		ErrStackUnderflow,
		ErrStackOverflow,
		ErrDivisionByZero,
		ErrIntegerOverflow,
		ErrRecurseOutsideDefinition,
		ErrRecursionLimitExceeded,
		UnknownWordError{"foo"},
		fmt.Errorf("wrapped: %w", ErrDivisionByZero),
	} {
		assert.True(t, IsRuntime(err), "expected %v to be a runtime error", err)
	}
	assert.False(t, IsRuntime(nil))
	assert.False(t, IsRuntime(errors.New("other")))
	assert.False(t, IsRuntime(context.Canceled))
	assert.EqualError(t, UnknownWordError{"foo"}, "Unknown word: foo")
}

//// test builder

type evalTestCases []evalTestCase

func (ets evalTestCases) run(t *testing.T) {
	for _, et := range ets {
		t.Run(et.name, et.run)
	}
}

func evalTest(name string) (et evalTestCase) {
	et.name = name
	return et
}

type evalStep struct {
	src     string
	wantErr error
}

type evalTestCase struct {
	name    string
	opts    []Option
	steps   []evalStep
	expect  []func(t *testing.T, ev *Evaluator, out string)
	timeout time.Duration
}

func (et evalTestCase) withOptions(opts ...Option) evalTestCase {
	et.opts = append(et.opts[:len(et.opts):len(et.opts)], opts...)
	return et
}

func (et evalTestCase) withTimeout(timeout time.Duration) evalTestCase {
	et.timeout = timeout
	return et
}

// do adds a program to evaluate after any prior ones, against the same words.
func (et evalTestCase) do(src string) evalTestCase {
	et.steps = append(et.steps[:len(et.steps):len(et.steps)], evalStep{src: src})
	return et
}

// expectError sets the error expected from the last program added by do.
func (et evalTestCase) expectError(err error) evalTestCase {
	steps := append([]evalStep(nil), et.steps...)
	steps[len(steps)-1].wantErr = err
	et.steps = steps
	return et
}

func (et evalTestCase) with(expect func(t *testing.T, ev *Evaluator, out string)) evalTestCase {
	et.expect = append(et.expect[:len(et.expect):len(et.expect)], expect)
	return et
}

func (et evalTestCase) expectStack(values ...int64) evalTestCase {
	if values == nil {
		values = []int64{}
	}
	return et.with(func(t *testing.T, ev *Evaluator, _ string) {
		assert.Equal(t, values, ev.Stack(), "expected stack values")
	})
}

func (et evalTestCase) expectOutput(output string) evalTestCase {
	return et.with(func(t *testing.T, _ *Evaluator, out string) {
		assert.Equal(t, output, out, "expected output")
	})
}

func (et evalTestCase) expectWord(name, body string) evalTestCase {
	return et.with(func(t *testing.T, ev *Evaluator, _ string) {
		def, err := ev.Words().Lookup(name)
		if assert.NoError(t, err, "expected word %q", name) {
			assert.Equal(t, body, def.String(), "expected %q body", name)
		}
	})
}

func (et evalTestCase) expectNoWord(name string) evalTestCase {
	return et.with(func(t *testing.T, ev *Evaluator, _ string) {
		_, err := ev.Words().Lookup(name)
		assert.Equal(t, UnknownWordError{name}, err, "expected no word %q", name)
	})
}

func (et evalTestCase) expectNoCalls() evalTestCase {
	return et.with(func(t *testing.T, ev *Evaluator, _ string) {
		assert.Empty(t, ev.calls, "expected empty call context")
		assert.Empty(t, ev.frames, "expected no pending frames")
	})
}

func (et evalTestCase) run(t *testing.T) {
	const defaultTimeout = 5 * time.Second
	timeout := et.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	const maxTrace = 200
	var (
		out   strings.Builder
		trace []string
	)
	ev := New(nil, Options(et.opts...), WithOutput(&out), WithLogf(func(mess string, args ...interface{}) {
		if len(trace) < maxTrace {
			trace = append(trace, fmt.Sprintf(mess, args...))
		}
	}))

	defer func() {
		if t.Failed() {
			for _, line := range trace {
				t.Logf("trace: %v", line)
			}
			var dump strings.Builder
			ev.Dump(&dump)
			for _, line := range strings.Split(strings.TrimSuffix(dump.String(), "\n"), "\n") {
				t.Logf("dump: %v", line)
			}
		}
	}()

	for i, step := range et.steps {
		prog, err := parser.ParseString(fmt.Sprintf("%v[%v]", t.Name(), i), step.src)
		require.NoError(t, err, "unexpected parse error")
		err = ev.Eval(ctx, prog)
		if step.wantErr != nil {
			assert.True(t, errors.Is(err, step.wantErr), "expected error: %v\ngot: %+v", step.wantErr, err)
		} else {
			assert.NoError(t, err, "unexpected eval error")
		}
	}

	if !t.Failed() {
		for _, expect := range et.expect {
			expect(t, ev, out.String())
		}
	}
}

type errWriter struct{ err error }

func (w errWriter) Write(p []byte) (int, error) { return 0, w.err }
