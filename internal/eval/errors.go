package eval

import (
	"errors"
	"fmt"
)

// Runtime errors abort the current top-level evaluation only; the session
// may carry on with further input.
var (
	ErrStackUnderflow           = runtimeError("Stack underflow")
	ErrStackOverflow            = runtimeError("Stack overflow")
	ErrDivisionByZero           = runtimeError("Division by zero")
	ErrIntegerOverflow          = runtimeError("Integer overflow")
	ErrRecurseOutsideDefinition = runtimeError("recurse used outside of a function definition")
	ErrRecursionLimitExceeded   = runtimeError("Recursion limit exceeded")
)

type runtimeError string

func (err runtimeError) Error() string { return string(err) }
func (runtimeError) runtime()          {}

// UnknownWordError is returned when calling a word that has no definition.
type UnknownWordError struct{ Name string }

func (err UnknownWordError) Error() string { return fmt.Sprintf("Unknown word: %v", err.Name) }
func (UnknownWordError) runtime()          {}

// IsRuntime returns true if err is, or wraps, one of the runtime errors
// defined by this package.
func IsRuntime(err error) bool {
	var re interface{ runtime() }
	return errors.As(err, &re)
}
