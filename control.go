package peg

// Control is notified around every match of an observable rule and
// decides which error a failed Must turns into.  The hooks receive the
// input as it is at the time of the call and must not move it.
type Control interface {
	Start(in *Input, r Rule, st ...any)
	Success(in *Input, r Rule, st ...any)
	Failure(in *Input, r Rule, st ...any)

	// Raise returns the hard failure reported when `r` was required
	// at the current position but didn't match
	Raise(in *Input, r Rule, st ...any) error
}

// Normal is the default control.  All hooks are no-ops and errors are
// built from the message table when there's an entry for the rule.
type Normal struct {
	// Messages maps rule names to the message of the error raised
	// when that rule is required and fails
	Messages map[string]string
}

func (Normal) Start(*Input, Rule, ...any)   {}
func (Normal) Success(*Input, Rule, ...any) {}
func (Normal) Failure(*Input, Rule, ...any) {}

func (n Normal) Raise(in *Input, r Rule, _ ...any) error {
	name := Name(r)
	if msg, ok := n.Messages[name]; ok {
		return NewParseError(msg, in)
	}
	return NewParseError("parse error matching "+name, in)
}

// ActionFunc receives the input consumed by the rule it's attached to
// along with the states of the running parse.  Returning an error
// aborts the parse with a hard failure.
type ActionFunc func(in *Input, states ...any) error

// Actions maps rule names to the function to call after each
// successful match of that rule
type Actions map[string]ActionFunc
