package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/jcorbin/minforth/internal/logio"
)

func main() {
	var log logio.Logger
	log.SetOutput(os.Stderr)

	err := run(context.Background(), &log, os.Args[1:], os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Errorf("%+v", err)
	}
	os.Exit(log.ExitCode())
}

type cliFlags struct {
	config  string
	trace   bool
	timeout time.Duration
	ast     bool
	dump    bool
	tee     string
}

func (cli *cliFlags) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&cli.config, "config", "", "load settings from a TOML file")
	fs.BoolVar(&cli.trace, "trace", false, "enable trace logging")
	fs.DurationVar(&cli.timeout, "timeout", 0, "limit how long each program may run")
	fs.BoolVar(&cli.ast, "ast", false, "print the parsed program tree as YAML instead of running it")
	fs.BoolVar(&cli.dump, "dump", false, "print the final stack and defined words after running")
	fs.StringVar(&cli.tee, "tee", "", "copy all output to a file")
}

func run(ctx context.Context, log *logio.Logger, args []string, stdin *os.File, stdout io.Writer) (rerr error) {
	fs := flag.NewFlagSet("minforth", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: minforth [options] [FILE ...]\n\n")
		fmt.Fprintf(fs.Output(), "Runs each FILE as a program, or standard input when none given;\n")
		fmt.Fprintf(fs.Output(), "reads lines interactively when standard input is a terminal.\n\n")
		fs.PrintDefaults()
	}

	var cli cliFlags
	cfg := DefaultConfig()
	cli.bindFlags(fs)
	cfg.bindFlags(fs)
	if err := parseFlags(fs, args, &cfg, &cli.config); err != nil {
		return err
	}

	opts := []SessionOption{
		WithOutput(stdout),
		cfg.sessionOptions(),
		WithTimeout(cli.timeout),
		WithErrorf(log.Leveledf("WARN")),
	}
	if cli.trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	if cli.tee != "" {
		f, err := os.Create(cli.tee)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); rerr == nil {
				rerr = cerr
			}
		}()
		opts = append(opts, WithTee(f))
	}

	sess := NewSession(opts...)
	defer func() {
		if cerr := sess.Close(); rerr == nil {
			rerr = cerr
		}
	}()

	inputs := fs.Args()
	interactive := len(inputs) == 0 && !cli.ast && term.IsTerminal(int(stdin.Fd()))

	var err error
	switch {
	case interactive:
		err = interact(ctx, log, sess, cfg.REPL, stdin)
	case len(inputs) == 0:
		err = runInput(ctx, sess, cli.ast, "<stdin>", stdin)
	default:
		err = runFiles(ctx, sess, cli.ast, inputs)
	}
	if err == nil && cli.dump {
		err = sess.Dump()
	}
	return err
}

func interact(ctx context.Context, log *logio.Logger, sess *Session, cfg REPLConfig, stdin io.Reader) error {
	rl, err := newReadlineLines(cfg.Prompt, cfg.HistoryFile)
	if err != nil {
		log.Printf("WARN", "line editing unavailable: %v", err)
		return sess.Interact(ctx, sess.PromptLines(stdin))
	}
	defer rl.Close()
	return sess.Interact(ctx, rl)
}

// runFiles runs each named file as its own program, in order, all against
// the same words. A failing file does not stop later ones; the first failure
// is returned.
func runFiles(ctx context.Context, sess *Session, ast bool, names []string) (first error) {
	for _, name := range names {
		err := runFile(ctx, sess, ast, name)
		if first == nil {
			first = err
		}
	}
	return first
}

func runFile(ctx context.Context, sess *Session, ast bool, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return runInput(ctx, sess, ast, name, f)
}

func runInput(ctx context.Context, sess *Session, ast bool, name string, r io.Reader) error {
	if ast {
		return sess.WriteAST(name, r)
	}
	return sess.Interpret(ctx, name, r)
}
