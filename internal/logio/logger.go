// Package logio provides the leveled, line oriented logging used by the
// minforth command, and an io.Writer that feeds lines back into a logging
// function.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger writes "LEVEL: message" lines to an output stream. It remembers
// whether any error was logged, so that a command can exit non-zero.
type Logger struct {
	mu       sync.Mutex
	output   io.WriteCloser
	buf      bytes.Buffer
	exitCode int
}

// SetOutput sets the logger's output stream, closing any prior one.
func (log *Logger) SetOutput(out io.WriteCloser) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.output != nil {
		log.output.Close()
	}
	log.output = out
}

// ExitCode returns 0 if nothing was logged through Errorf, 1 if something
// was, or 2 if writing a log line failed.
func (log *Logger) ExitCode() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.exitCode
}

// Close closes the output stream, if any.
func (log *Logger) Close() error {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.output == nil {
		return nil
	}
	err := log.output.Close()
	log.output = nil
	return err
}

// Leveledf returns a printf-style function that logs at the given level,
// suitable as a trace or warning hook.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// Errorf logs at "ERROR" level and marks the exit code non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.exitCode == 0 {
		log.exitCode = 1
	}
	if err := log.printf("ERROR", mess, args...); err != nil {
		log.exitCode = 2
	}
}

// Printf logs one line at the given level; an empty level omits the prefix.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if err := log.printf(level, mess, args...); err != nil {
		log.exitCode = 2
	}
}

func (log *Logger) printf(level, mess string, args ...interface{}) error {
	if log.output == nil {
		return nil
	}
	log.buf.Reset()
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	_, err := log.buf.WriteTo(log.output)
	return err
}
