// Package ast defines the program tree that the evaluator walks.
//
// The set of node types is closed: Node carries an unexported method, so only
// the types declared here can appear in a Block. Nodes are immutable once
// built; nothing downstream of the parser rewrites them.
package ast

import (
	"strconv"
	"strings"
)

// Node is one element of a program.
type Node interface {
	// String renders the node back into source text.
	String() string
	node()
}

// Block is an ordered sequence of nodes, evaluated strictly left to right.
// A whole program is a Block.
type Block []Node

// Number pushes its literal value.
type Number struct{ Value int64 }

// PrintTop pops and prints the top of stack: "."
type PrintTop struct{}

// PrintStack prints the whole stack without changing it: ".s"
type PrintStack struct{}

// Arith is a binary arithmetic operator, ( a b -- a op b ).
type Arith struct{ Op ArithOp }

// Shuffle is a stack manipulation word like dup or 2swap.
type Shuffle struct{ Op ShuffleOp }

// Compare is a relational operator, ( a b -- flag ).
type Compare struct{ Op CompareOp }

// Logic is a bitwise logic operator.
type Logic struct{ Op LogicOp }

// IfElse pops a condition and evaluates Then when it is non-zero, Else
// otherwise. A nil Else means the source had no else clause.
type IfElse struct {
	Then Block
	Else Block
}

// WordDef binds Name to Body in the word table; Body is not evaluated.
type WordDef struct {
	Name string
	Body Block
}

// WordCall evaluates the body currently bound to Name.
type WordCall struct{ Name string }

// Recurse re-evaluates the body of the innermost word being called.
type Recurse struct{}

func (Block) node()      {}
func (Number) node()     {}
func (PrintTop) node()   {}
func (PrintStack) node() {}
func (Arith) node()      {}
func (Shuffle) node()    {}
func (Compare) node()    {}
func (Logic) node()      {}
func (IfElse) node()     {}
func (WordDef) node()    {}
func (WordCall) node()   {}
func (Recurse) node()    {}

func (blk Block) String() string {
	var sb strings.Builder
	blk.writeTo(&sb)
	return sb.String()
}

func (blk Block) writeTo(sb *strings.Builder) {
	for i, n := range blk {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(n.String())
	}
}

func (n Number) String() string   { return strconv.FormatInt(n.Value, 10) }
func (PrintTop) String() string   { return "." }
func (PrintStack) String() string { return ".s" }
func (n Arith) String() string    { return n.Op.String() }
func (n Shuffle) String() string  { return n.Op.String() }
func (n Compare) String() string  { return n.Op.String() }
func (n Logic) String() string    { return n.Op.String() }
func (n WordCall) String() string { return n.Name }
func (Recurse) String() string    { return "recurse" }

func (n IfElse) String() string {
	var sb strings.Builder
	sb.WriteString("if")
	if len(n.Then) > 0 {
		sb.WriteByte(' ')
		n.Then.writeTo(&sb)
	}
	if n.Else != nil {
		sb.WriteString(" else")
		if len(n.Else) > 0 {
			sb.WriteByte(' ')
			n.Else.writeTo(&sb)
		}
	}
	sb.WriteString(" then")
	return sb.String()
}

func (n WordDef) String() string {
	var sb strings.Builder
	sb.WriteString(": ")
	sb.WriteString(n.Name)
	if len(n.Body) > 0 {
		sb.WriteByte(' ')
		n.Body.writeTo(&sb)
	}
	sb.WriteString(" ;")
	return sb.String()
}
