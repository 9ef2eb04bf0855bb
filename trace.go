package peg

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// Tracer is a control that logs every start, success and failure of
// the observable rules.  It raises errors the same way Normal does.
type Tracer struct {
	Normal
	log   hclog.Logger
	depth int
}

// NewTracer creates a tracer that writes to `log`.  A nil logger
// writes to stderr at trace level.
func NewTracer(log hclog.Logger) *Tracer {
	if log == nil {
		log = hclog.New(&hclog.LoggerOptions{
			Name:   "peg",
			Level:  hclog.Trace,
			Output: os.Stderr,
		})
	}
	return &Tracer{log: log}
}

func (t *Tracer) Start(in *Input, r Rule, _ ...any) {
	t.log.Trace("start", "rule", Name(r), "pos", in.Position().String(), "depth", t.depth)
	t.depth++
}

func (t *Tracer) Success(in *Input, r Rule, _ ...any) {
	t.depth--
	t.log.Trace("success", "rule", Name(r), "pos", in.Position().String(), "depth", t.depth)
}

func (t *Tracer) Failure(in *Input, r Rule, _ ...any) {
	t.depth--
	t.log.Trace("failure", "rule", Name(r), "pos", in.Position().String(), "depth", t.depth)
}

func (t *Tracer) Raise(in *Input, r Rule, st ...any) error {
	err := t.Normal.Raise(in, r, st...)
	t.log.Debug("raise", "rule", Name(r), "error", err)
	return err
}
