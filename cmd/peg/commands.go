package main

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/clarete/peg"
	"github.com/clarete/peg/pegyaml"
)

// GrammarFlags selects the grammar and the rule parsing starts from
type GrammarFlags struct {
	Grammar string `help:"Grammar file (YAML)" short:"g" required:"" type:"existingfile"`
	Start   string `help:"Rule to start parsing from, defaults to the grammar's start rule"`
}

// load reads the grammar and picks the start rule.  The flag wins
// over the configuration, which wins over the grammar.
func (f *GrammarFlags) load(ctx *Context) (*pegyaml.Grammar, *peg.Def, error) {
	g, err := pegyaml.Load(f.Grammar)
	if err != nil {
		return nil, nil, err
	}
	start := f.Start
	if start == "" {
		start = ctx.Config.GetString("parse.start")
	}
	if start == "" {
		return g, g.StartRule(), nil
	}
	r, err := g.Rule(start)
	if err != nil {
		return nil, nil, err
	}
	return g, r, nil
}

// ParseCmd represents the parse command
type ParseCmd struct {
	GrammarFlags `embed:""`
	Files        []string `arg:"" help:"Files to parse" type:"existingfile"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	g, start, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	var control peg.Control = g.Control()
	if ctx.Config.GetBool("parse.trace") {
		tracer := peg.NewTracer(ctx.Logger.Named("trace"))
		tracer.Normal = g.Control()
		control = tracer
	}
	return parseFiles(ctx, cmd.Files, func(in *peg.Input) (bool, error) {
		return peg.ParseInput(start, in, peg.WithControlOption(control))
	})
}

// TraceCmd represents the trace command
type TraceCmd struct {
	GrammarFlags `embed:""`
	Files        []string `arg:"" help:"Files to parse" type:"existingfile"`
}

// Run executes the trace command
func (cmd *TraceCmd) Run(ctx *Context) error {
	g, start, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	log := ctx.Logger.Named("trace")
	log.SetLevel(hclog.Trace)
	return parseFiles(ctx, cmd.Files, func(in *peg.Input) (bool, error) {
		return peg.TraceInput(start, in,
			peg.WithControlOption(g.Control()),
			peg.WithLogger(log))
	})
}

// TreeCmd represents the tree command
type TreeCmd struct {
	GrammarFlags `embed:""`
	Files        []string `arg:"" help:"Files to parse" type:"existingfile"`
}

// Run executes the tree command
func (cmd *TreeCmd) Run(ctx *Context) error {
	g, start, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	builder := peg.NewTreeBuilder()
	builder.Normal = g.Control()
	return parseFiles(ctx, cmd.Files, func(in *peg.Input) (bool, error) {
		builder.Reset()
		ok, err := peg.ParseInput(start, in, peg.WithControlOption(builder))
		if ok {
			if root := builder.Root(); root != nil {
				fmt.Fprintln(ctx.Out, root.Format(ctx.Theme.Format))
			}
		}
		return ok, err
	})
}

// parseFiles runs `parse` on each file and reports how it went.  It
// goes through all files before returning an error for the ones that
// failed.
func parseFiles(ctx *Context, files []string, parse func(in *peg.Input) (bool, error)) error {
	failed := 0
	for _, path := range files {
		in, err := openInput(ctx.Config, path)
		if err != nil {
			return err
		}
		ok, err := parse(in)
		switch {
		case peg.IsParseError(err):
			failed++
			ctx.Theme.Error.Fprintf(ctx.Out, "%s\n", err)
		case err != nil:
			return err
		case !ok:
			failed++
			ctx.Theme.Error.Fprintf(ctx.Out, "%s: %s\n", path, ErrParseFailed)
		case !in.Empty():
			ctx.Theme.Warning.Fprintf(ctx.Out, "%s: ok, input left unparsed at %s\n", path, in.Position())
		default:
			ctx.Theme.Success.Fprintf(ctx.Out, "%s: ok\n", path)
		}
		ctx.Logger.Debug("parsed", "file", path, "ok", ok, "offset", in.Offset())
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrParseFailed, failed, len(files))
	}
	return nil
}

// AnalyzeCmd represents the analyze command
type AnalyzeCmd struct {
	GrammarFlags `embed:""`
	Verbose      bool `help:"Also print whether each rule always consumes input" short:"v"`
}

// Run executes the analyze command
func (cmd *AnalyzeCmd) Run(ctx *Context) error {
	g, start, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	a := peg.Analyze(start)
	a.Log(ctx.Logger.Named("analyze"))

	limit := ctx.Config.GetInt("analysis.max_findings")
	for i, f := range a.Findings() {
		if limit > 0 && i == limit {
			ctx.Theme.Muted.Fprintf(ctx.Out, "... %d more\n", a.Problems()-limit)
			break
		}
		ctx.Theme.Error.Fprintln(ctx.Out, f)
	}

	if cmd.Verbose || ctx.Config.GetBool("analysis.verbose") {
		for _, name := range g.Order {
			r := g.Rules[name]
			consumes := ctx.Theme.Muted.Sprint("may succeed without consuming")
			if a.Consumes(r) {
				consumes = ctx.Theme.Success.Sprint("always consumes")
			}
			fmt.Fprintf(ctx.Out, "%s: %s\n", ctx.Theme.Accent.Sprint(name), consumes)
		}
	}

	if a.Problems() > 0 {
		return fmt.Errorf("%w: %d found in %d rules", ErrGrammarProblems, a.Problems(), a.Rules())
	}
	ctx.Theme.Success.Fprintf(ctx.Out, "%s: no problems in %d rules\n", cmd.Grammar, a.Rules())
	return nil
}

// PrintCmd represents the print command
type PrintCmd struct {
	GrammarFlags `embed:""`
	Rules        []string `arg:"" optional:"" help:"Rules to print, all of them by default"`
}

// Run executes the print command
func (cmd *PrintCmd) Run(ctx *Context) error {
	g, _, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	names := cmd.Rules
	if len(names) == 0 {
		names = g.Order
	}
	var errs []error
	for _, name := range names {
		r, err := g.Rule(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(ctx.Out, peg.FormatRule(r, ctx.Theme.Format))
	}
	return errors.Join(errs...)
}
