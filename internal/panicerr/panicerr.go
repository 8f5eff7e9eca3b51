// Package panicerr turns a panic, or a runtime.Goexit, inside a function into
// an ordinary error return.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f on its own goroutine and returns its error. If f panics or
// calls runtime.Goexit instead of returning, that becomes the error; name
// identifies f in its message.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer func() {
			select {
			case errch <- exitError(name):
			default: // f returned, or panicked
			}
		}()
		defer func() {
			if e := recover(); e != nil {
				errch <- panicError{name: name, value: e, stack: debug.Stack()}
			}
		}()
		errch <- f()
	}()
	return <-errch
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format adds the panic stack trace under %+v.
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "panicked: %v", pe.value)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", pe.name, pe.value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\npanic stack: %s", pe.stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

// IsPanic returns true if err is, or wraps, a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// IsExit returns true if err is, or wraps, a recovered runtime.Goexit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

// PanicStack returns the stack trace of a recovered panic, or "" if err is
// not one.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
