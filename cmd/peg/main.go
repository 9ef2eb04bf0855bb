package main

import (
	"errors"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-hclog"

	"github.com/clarete/peg"
	"github.com/clarete/peg/ascii"
)

var (
	ErrParseFailed     = errors.New("input did not match the grammar")
	ErrGrammarProblems = errors.New("grammar has problems")
	ErrUnknownEncoding = errors.New("unknown input encoding")
)

// Context represents the global context for commands
type Context struct {
	Config *peg.Config
	Logger hclog.Logger
	Theme  ascii.Theme
	Out    io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config   string `help:"Configuration file path" type:"path"`
	LogLevel string `help:"Log level (trace, debug, info, warn, error)" name:"log-level"`
	NoColor  bool   `help:"Disable colored output"`
	Mmap     bool   `help:"Map input files into memory instead of reading them"`
	Encoding string `help:"Encoding of the input files (utf-8, utf-16, utf-16le, utf-16be)"`

	Parse   ParseCmd   `cmd:"" help:"Parse files with a grammar"`
	Trace   TraceCmd   `cmd:"" help:"Parse files logging every named rule"`
	Tree    TreeCmd    `cmd:"" help:"Parse files and print their parse trees"`
	Analyze AnalyzeCmd `cmd:"" help:"Look for rules that can loop forever"`
	Print   PrintCmd   `cmd:"" help:"Print how the grammar rules are composed"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("peg"),
		kong.Description("Run PEG grammars written in YAML"),
		kong.UsageOnError(),
	)

	appCtx, err := newContext()
	if err == nil {
		err = ctx.Run(appCtx)
	}
	if err != nil {
		ascii.DefaultTheme.Error.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newContext loads the configuration file, then applies the global
// flags on top of it
func newContext() (*Context, error) {
	cfg := peg.NewConfig()
	if CLI.Config != "" {
		if err := cfg.LoadYAML(CLI.Config); err != nil {
			return nil, err
		}
	}
	if CLI.LogLevel != "" {
		cfg.SetString("log.level", CLI.LogLevel)
	}
	if CLI.NoColor {
		cfg.SetBool("output.color", false)
	}
	if CLI.Mmap {
		cfg.SetBool("input.mmap", true)
	}
	if CLI.Encoding != "" {
		cfg.SetString("input.encoding", CLI.Encoding)
	}
	if _, err := decoder(cfg.GetString("input.encoding")); err != nil {
		return nil, err
	}

	if !cfg.GetBool("output.color") {
		ascii.Enable(false)
	}
	colorOpt := hclog.AutoColor
	if !cfg.GetBool("output.color") {
		colorOpt = hclog.ColorOff
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "peg",
		Level:  hclog.LevelFromString(cfg.GetString("log.level")),
		Output: os.Stderr,
		Color:  colorOpt,
	})
	if logger.IsDebug() {
		cfg.Debug(os.Stderr)
	}

	return &Context{
		Config: cfg,
		Logger: logger,
		Theme:  ascii.DefaultTheme,
		Out:    os.Stdout,
	}, nil
}
