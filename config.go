package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/minforth/internal/eval"
)

// Config holds the settings that may come from a TOML file as well as from
// command line flags.
type Config struct {
	Eval EvalConfig `toml:"eval"`
	REPL REPLConfig `toml:"repl"`
}

// EvalConfig controls evaluation limits and arithmetic.
type EvalConfig struct {
	Overflow   eval.Overflow `toml:"overflow"`
	MaxDepth   int           `toml:"max-depth"`
	StackLimit int           `toml:"stack-limit"`
}

// REPLConfig controls the interactive loop.
type REPLConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history-file"`
	Banner      bool   `toml:"banner"`
}

// DefaultConfig returns the settings used when neither a file nor a flag says
// otherwise.
func DefaultConfig() Config {
	return Config{
		Eval: EvalConfig{
			Overflow: eval.Wrap,
			MaxDepth: eval.DefaultMaxDepth,
		},
		REPL: REPLConfig{
			Prompt: "? ",
			Banner: true,
		},
	}
}

// LoadFile overlays settings read from the TOML file at path; keys absent
// from the file keep their current value. Unknown keys are an error.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config: %w", err)
	}
	return cfg.load(path, string(data))
}

func (cfg *Config) load(name, data string) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return fmt.Errorf("parse error in %v: %w", name, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("unknown keys in %v: %v", name, strings.Join(keys, ", "))
	}
	if cfg.Eval.MaxDepth < 0 || cfg.Eval.StackLimit < 0 {
		return fmt.Errorf("invalid limits in %v: must not be negative", name)
	}
	return nil
}

// bindFlags defines flags that override fields of cfg.
func (cfg *Config) bindFlags(fs *flag.FlagSet) {
	fs.Var(&cfg.Eval.Overflow, "overflow", "integer overflow policy: wrap or error")
	fs.IntVar(&cfg.Eval.MaxDepth, "max-depth", cfg.Eval.MaxDepth, "limit nested calls and recursion; 0 for no limit")
	fs.IntVar(&cfg.Eval.StackLimit, "stack-limit", cfg.Eval.StackLimit, "limit value stack depth; 0 for no limit")
}

// evalOptions converts the evaluation settings into evaluator options.
func (ec EvalConfig) evalOptions() eval.Option {
	return eval.Options(
		eval.WithOverflow(ec.Overflow),
		eval.WithMaxDepth(ec.MaxDepth),
		eval.WithStackLimit(ec.StackLimit),
	)
}

// sessionOptions converts the settings into session options.
func (cfg Config) sessionOptions() SessionOption {
	return SessionOptions(
		WithEvalOptions(cfg.Eval.evalOptions()),
		WithPrompt(cfg.REPL.Prompt),
		WithBanner(cfg.REPL.Banner),
	)
}

// parseFlags parses args into cfg and any other flags bound in fs. If the
// flag bound to configPath names a file, that file is loaded, and args are
// parsed again so that explicit flags take precedence over it.
func parseFlags(fs *flag.FlagSet, args []string, cfg *Config, configPath *string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return nil
	}
	if err := cfg.LoadFile(*configPath); err != nil {
		return err
	}
	return fs.Parse(args)
}
