package ast

// ArithOp selects a binary arithmetic operation.
type ArithOp uint8

// ShuffleOp selects a stack manipulation.
type ShuffleOp uint8

// CompareOp selects a relational comparison.
type CompareOp uint8

// LogicOp selects a bitwise logic operation.
type LogicOp uint8

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

const (
	Dup ShuffleOp = iota
	Drop
	Swap
	Over
	Rot
	TwoDup
	TwoDrop
	TwoSwap
	TwoOver
)

const (
	Eq CompareOp = iota
	Ne
	Lt
	Gt
)

const (
	And LogicOp = iota
	Or
	Not
)

var arithNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "mod",
}

var shuffleNames = [...]string{
	Dup:     "dup",
	Drop:    "drop",
	Swap:    "swap",
	Over:    "over",
	Rot:     "rot",
	TwoDup:  "2dup",
	TwoDrop: "2drop",
	TwoSwap: "2swap",
	TwoOver: "2over",
}

var compareNames = [...]string{
	Eq: "=",
	Ne: "<>",
	Lt: "<",
	Gt: ">",
}

var logicNames = [...]string{
	And: "and",
	Or:  "or",
	Not: "not",
}

func (op ArithOp) String() string   { return opName(arithNames[:], int(op)) }
func (op ShuffleOp) String() string { return opName(shuffleNames[:], int(op)) }
func (op CompareOp) String() string { return opName(compareNames[:], int(op)) }
func (op LogicOp) String() string   { return opName(logicNames[:], int(op)) }

func opName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "<invalid>"
}

// Depth returns how many values the shuffle needs on the stack.
func (op ShuffleOp) Depth() int {
	switch op {
	case Dup, Drop:
		return 1
	case Swap, Over, TwoDup, TwoDrop:
		return 2
	case Rot:
		return 3
	case TwoSwap, TwoOver:
		return 4
	}
	return 0
}

var builtins map[string]Node

func init() {
	builtins = map[string]Node{
		".":       PrintTop{},
		".s":      PrintStack{},
		"recurse": Recurse{},
	}
	for op := range arithNames {
		builtins[arithNames[op]] = Arith{ArithOp(op)}
	}
	for op := range shuffleNames {
		builtins[shuffleNames[op]] = Shuffle{ShuffleOp(op)}
	}
	for op := range compareNames {
		builtins[compareNames[op]] = Compare{CompareOp(op)}
	}
	for op := range logicNames {
		builtins[logicNames[op]] = Logic{LogicOp(op)}
	}
}

// Builtin returns the leaf node spelled by word, if word names one of the
// built in operations.
func Builtin(word string) (Node, bool) {
	n, ok := builtins[word]
	return n, ok
}
