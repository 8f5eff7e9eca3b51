package main

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jcorbin/minforth/internal/flushio"
)

// LineReader supplies interactive input one line at a time. It returns
// io.EOF once input ends, and ErrInterrupt when the user abandoned the line
// being typed.
type LineReader interface {
	ReadLine() (string, error)
}

// ErrInterrupt is returned by a LineReader when the current line was
// cancelled, e.g. by Ctrl-C.
var ErrInterrupt = errors.New("interrupt")

// readlineLines reads from a terminal with line editing and history.
type readlineLines struct{ *readline.Instance }

func newReadlineLines(prompt, historyFile string) (readlineLines, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	return readlineLines{rl}, err
}

func (rl readlineLines) ReadLine() (string, error) {
	line, err := rl.Readline()
	if err == readline.ErrInterrupt {
		return line, ErrInterrupt
	}
	return line, err
}

// promptLines writes a prompt, then reads a line from a plain stream.
type promptLines struct {
	prompt string
	out    flushio.WriteFlusher
	in     *bufio.Reader
}

func newPromptLines(prompt string, out flushio.WriteFlusher, in io.Reader) promptLines {
	return promptLines{prompt, out, bufio.NewReader(in)}
}

func (pl promptLines) ReadLine() (string, error) {
	if pl.prompt != "" {
		io.WriteString(pl.out, pl.prompt)
		if err := pl.out.Flush(); err != nil {
			return "", err
		}
	}
	line, err := pl.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, err
}
