package peg

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

type options struct {
	actions Actions
	control Control
	states  []any
	log     hclog.Logger
}

// Option customizes a parse
type Option func(o *options)

// WithActionsOption sets the actions applied during the parse
func WithActionsOption(actions Actions) Option {
	return func(o *options) { o.actions = actions }
}

// WithControlOption sets the control notified during the parse
func WithControlOption(control Control) Option {
	return func(o *options) { o.control = control }
}

// WithStates sets the states handed to actions
func WithStates(st ...any) Option {
	return func(o *options) { o.states = st }
}

// WithLogger sets where Trace writes to
func WithLogger(log hclog.Logger) Option {
	return func(o *options) { o.log = log }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ParseInput matches `r` against `in`.  It returns false when the
// input doesn't match and a *ParseError when the parse failed hard.
// The input is left wherever `r` stopped matching, which isn't
// necessarily its end.
func ParseInput(r Rule, in *Input, opts ...Option) (bool, error) {
	o := newOptions(opts)
	return NewContext(o.actions, o.control, o.states...).Match(r, in)
}

// Parse matches `r` against `data`, labelled `source` in errors
func Parse(r Rule, data []byte, source string, opts ...Option) (bool, error) {
	return ParseInput(r, NewInput(data, source), opts...)
}

// ParseString matches `r` against `s`
func ParseString(r Rule, s, source string, opts ...Option) (bool, error) {
	return ParseInput(r, NewStringInput(s, source), opts...)
}

// ParseNested matches `r` against `data` as a source included from
// the current position of `parent`.  Errors carry the positions of
// both.
func ParseNested(parent *Input, r Rule, data []byte, source string, opts ...Option) (bool, error) {
	return ParseInput(r, NewInput(data, source, WithParent(parent)), opts...)
}

// ParseArg matches `r` against the command line argument at index
// `i`, labelled after its position within `args`
func ParseArg(r Rule, args []string, i int, opts ...Option) (bool, error) {
	source := fmt.Sprintf("argv[%d]", i)
	return ParseInput(r, NewStringInput(args[i], source), opts...)
}

// ParseFile matches `r` against the contents of the file at `path`
func ParseFile(r Rule, path string, opts ...Option) (bool, error) {
	in, err := ReadFile(path)
	if err != nil {
		return false, err
	}
	return ParseInput(r, in, opts...)
}

// TraceInput is ParseInput logging every observable rule through a
// Tracer.  Error messages set by a Normal control are kept.
func TraceInput(r Rule, in *Input, opts ...Option) (bool, error) {
	o := newOptions(opts)
	tracer := NewTracer(o.log)
	if n, ok := o.control.(Normal); ok {
		tracer.Normal = n
	}
	return NewContext(o.actions, tracer, o.states...).Match(r, in)
}

// Trace is Parse logging every observable rule through a Tracer
func Trace(r Rule, data []byte, source string, opts ...Option) (bool, error) {
	return TraceInput(r, NewInput(data, source), opts...)
}
