package peg

import (
	"errors"
	"fmt"
)

// composite is implemented by rules built out of other rules.  The
// parts are the rules as the grammar author wrote them, which is what
// gets printed, and may differ from what is described to the analyzer.
type composite interface {
	title() string
	parts() []Rule
}

type seqRule struct {
	builtin
	rules []Rule
}

// Seq matches all `rules` one after the other.  If any of them fails
// the input is rewound to where the sequence started.  An empty
// sequence always matches.
func Seq(rules ...Rule) Rule { return &seqRule{rules: rules} }

func (r *seqRule) Match(in *Input, c *Context) (bool, error) {
	if len(r.rules) == 0 {
		return true, nil
	}
	m := in.Mark()
	for _, rule := range r.rules {
		ok, err := c.Match(rule, in)
		if err != nil || !ok {
			return m.Result(ok, err)
		}
	}
	return m.Success(), nil
}

func (r *seqRule) Describe() Descriptor { return describe(KindSeq, r.rules...) }
func (r *seqRule) parts() []Rule        { return r.rules }
func (r *seqRule) title() string        { return "Seq" }
func (r *seqRule) String() string       { return "Seq(" + names(r.rules) + ")" }

type sorRule struct {
	builtin
	rules []Rule
}

// Sor tries each of `rules` in order and succeeds with the first one
// that matches.  An empty choice never matches.
func Sor(rules ...Rule) Rule { return &sorRule{rules: rules} }

func (r *sorRule) Match(in *Input, c *Context) (bool, error) {
	for _, rule := range r.rules {
		ok, err := c.Match(rule, in)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (r *sorRule) Describe() Descriptor { return describe(KindSor, r.rules...) }
func (r *sorRule) parts() []Rule        { return r.rules }
func (r *sorRule) title() string        { return "Sor" }
func (r *sorRule) String() string       { return "Sor(" + names(r.rules) + ")" }

// unary is the base of rules that wrap a single body.  Multiple rules
// given to their constructors are matched as a sequence.
type unary struct {
	builtin
	label string
	body  Rule
	rules []Rule
}

func newUnary(label string, rules []Rule) unary {
	return unary{label: label, body: seqOf(rules), rules: rules}
}

func (u *unary) parts() []Rule  { return u.rules }
func (u *unary) title() string  { return u.label }
func (u *unary) String() string { return u.label + "(" + names(u.rules) + ")" }

type optRule struct{ unary }

// Opt tries to match `rules` once and succeeds either way
func Opt(rules ...Rule) Rule { return &optRule{newUnary("Opt", rules)} }

func (r *optRule) Match(in *Input, c *Context) (bool, error) {
	if _, err := c.Match(r.body, in); err != nil {
		return false, err
	}
	return true, nil
}

func (r *optRule) Describe() Descriptor { return describe(KindOpt, r.body) }

type atRule struct {
	unary
	want bool
}

// At succeeds if `rules` match here.  The input is never consumed and
// actions are not applied.
func At(rules ...Rule) Rule { return &atRule{newUnary("At", rules), true} }

// NotAt succeeds if `rules` don't match here.  The input is never
// consumed and actions are not applied.
func NotAt(rules ...Rule) Rule { return &atRule{newUnary("NotAt", rules), false} }

func (r *atRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	defer m.Rewind()
	ok, err := c.disabled().Match(r.body, in)
	if err != nil {
		return false, err
	}
	return ok == r.want, nil
}

func (r *atRule) Describe() Descriptor { return describe(KindOpt, r.body) }

type mustRule struct{ unary }

// Must matches `rules` one after the other and turns the failure of
// any of them into a hard failure.  Once a Must is reached the parse
// can't backtrack out of it.
func Must(rules ...Rule) Rule {
	if len(rules) == 1 {
		return &mustRule{newUnary("Must", rules)}
	}
	musts := make([]Rule, len(rules))
	for i, rule := range rules {
		musts[i] = Must(rule)
	}
	return &aliasRule{label: "Must", impl: Seq(musts...), rules: rules}
}

func (r *mustRule) Match(in *Input, c *Context) (bool, error) {
	ok, err := c.Match(r.body, in)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, c.Raise(r.body, in)
	}
	return true, nil
}

func (r *mustRule) Describe() Descriptor { return r.body.Describe() }

type untilRule struct {
	unary
	cond Rule
	desc Descriptor
}

// Until matches `body` (or any single byte when no body is given)
// until `cond` matches.  It fails if the input runs out first.
func Until(cond Rule, body ...Rule) Rule {
	r := &untilRule{
		unary: newUnary("Until", append([]Rule{cond}, body...)),
		cond:  cond,
	}
	step := Bytes(1)
	if len(body) > 0 {
		step = seqOf(body)
	}
	r.body = step
	r.desc = describe(KindSeq, Star(NotAt(cond), NotAt(Eof()), step), cond)
	return r
}

func (r *untilRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	for {
		ok, err := c.Match(r.cond, in)
		if err != nil {
			return m.Result(false, err)
		}
		if ok {
			return m.Success(), nil
		}
		if in.Empty() {
			return m.Failure(), nil
		}
		if ok, err = c.Match(r.body, in); err != nil || !ok {
			return m.Result(false, err)
		}
	}
}

func (r *untilRule) Describe() Descriptor { return r.desc }

type applyRule struct {
	unary
	apply bool
}

// Disable matches `rules` without applying actions
func Disable(rules ...Rule) Rule { return &applyRule{newUnary("Disable", rules), false} }

// Enable matches `rules` applying actions, even within a Disable or a
// lookahead
func Enable(rules ...Rule) Rule { return &applyRule{newUnary("Enable", rules), true} }

func (r *applyRule) Match(in *Input, c *Context) (bool, error) {
	if c.apply == r.apply {
		return c.Match(r.body, in)
	}
	cc := c.with()
	cc.apply = r.apply
	return cc.Match(r.body, in)
}

func (r *applyRule) Describe() Descriptor { return describe(KindSeq, r.body) }

// Accumulator collects the results of the actions that run within a
// State rule.  Success is called once its rules matched so the result
// can be handed to the states of the enclosing parse.
type Accumulator interface {
	Success(in *Input, st ...any) error
}

type stateRule struct {
	unary
	newState func(in *Input, st ...any) Accumulator
}

// State matches `rules` with a fresh accumulator as the only state the
// actions within see.  When the rules match, the accumulator's Success
// method folds it into the enclosing states.  When they don't it's
// thrown away.
func State(newState func(in *Input, st ...any) Accumulator, rules ...Rule) Rule {
	return &stateRule{newUnary("State", rules), newState}
}

func (r *stateRule) Match(in *Input, c *Context) (bool, error) {
	acc := r.newState(in, c.states...)
	cc := c.with()
	cc.states = []any{acc}

	m := in.Mark()
	ok, err := cc.Match(r.body, in)
	if err != nil || !ok {
		return m.Result(ok, err)
	}
	if err := acc.Success(in, c.states...); err != nil {
		return m.Result(false, err)
	}
	return m.Success(), nil
}

func (r *stateRule) Describe() Descriptor { return describe(KindSeq, r.body) }

type tryCatchRule struct{ unary }

// TryCatch matches `rules` and turns a ParseError raised within them
// into a soft failure
func TryCatch(rules ...Rule) Rule { return &tryCatchRule{newUnary("TryCatch", rules)} }

func (r *tryCatchRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	ok, err := c.Match(r.body, in)
	var pe *ParseError
	if errors.As(err, &pe) {
		return m.Failure(), nil
	}
	return m.Result(ok, err)
}

func (r *tryCatchRule) Describe() Descriptor { return describe(KindSeq, r.body) }

type withRule struct {
	unary
	actions Actions
	control Control
}

// WithActions matches `rules` applying `actions` instead of the ones
// of the enclosing parse
func WithActions(actions Actions, rules ...Rule) Rule {
	return &withRule{unary: newUnary("WithActions", rules), actions: actions}
}

// WithControl matches `rules` reporting to `control` instead of the
// control of the enclosing parse
func WithControl(control Control, rules ...Rule) Rule {
	return &withRule{unary: newUnary("WithControl", rules), control: control}
}

func (r *withRule) Match(in *Input, c *Context) (bool, error) {
	cc := c.with()
	if r.actions != nil {
		cc.actions = r.actions
	}
	if r.control != nil {
		cc.control = r.control
	}
	return cc.Match(r.body, in)
}

func (r *withRule) Describe() Descriptor { return describe(KindSeq, r.body) }

type ifThenElseRule struct {
	builtin
	label           string
	cond, then, els Rule
	desc            Descriptor
}

// IfThenElse matches `then` when `cond` matches and `els` otherwise.
// The input consumed by `cond` is kept if `then` matches.
func IfThenElse(cond, then, els Rule) Rule {
	return newIfThenElse("IfThenElse", cond, then, els)
}

// IfMustElse is IfThenElse where both branches are required
func IfMustElse(cond, then, els Rule) Rule {
	return newIfThenElse("IfMustElse", cond, Must(then), Must(els))
}

func newIfThenElse(label string, cond, then, els Rule) Rule {
	return &ifThenElseRule{
		label: label,
		cond:  cond,
		then:  then,
		els:   els,
		desc:  describe(KindSor, Seq(cond, then), Seq(NotAt(cond), els)),
	}
}

func (r *ifThenElseRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	ok, err := c.Match(r.cond, in)
	if err != nil {
		return m.Result(false, err)
	}
	if ok {
		return m.Result(c.Match(r.then, in))
	}
	return m.Result(c.Match(r.els, in))
}

func (r *ifThenElseRule) Describe() Descriptor { return r.desc }
func (r *ifThenElseRule) parts() []Rule        { return []Rule{r.cond, r.then, r.els} }
func (r *ifThenElseRule) title() string        { return r.label }

func (r *ifThenElseRule) String() string {
	return fmt.Sprintf("%s(%s)", r.label, names(r.parts()))
}

// aliasRule is a rule defined entirely in terms of other rules.  It
// matches and describes itself as its implementation, but prints as
// what the grammar author wrote.
type aliasRule struct {
	builtin
	label string
	impl  Rule
	rules []Rule
}

func (r *aliasRule) Match(in *Input, c *Context) (bool, error) { return r.impl.Match(in, c) }
func (r *aliasRule) Describe() Descriptor                      { return r.impl.Describe() }
func (r *aliasRule) parts() []Rule                             { return r.rules }
func (r *aliasRule) title() string                             { return r.label }
func (r *aliasRule) String() string                            { return r.label + "(" + names(r.rules) + ")" }

// IfMust matches `rules` as required once `cond` matched
func IfMust(cond Rule, rules ...Rule) Rule {
	return &aliasRule{
		label: "IfMust",
		impl:  Seq(cond, Must(rules...)),
		rules: append([]Rule{cond}, rules...),
	}
}

// List matches one or more `r` separated by `sep`
func List(r, sep Rule) Rule {
	return &aliasRule{label: "List", impl: Seq(r, Star(sep, r)), rules: []Rule{r, sep}}
}

// ListMust is List where an element is required after each separator
func ListMust(r, sep Rule) Rule {
	return &aliasRule{label: "ListMust", impl: Seq(r, Star(sep, Must(r))), rules: []Rule{r, sep}}
}

// ListTail is List that also accepts a trailing separator
func ListTail(r, sep Rule) Rule {
	return &aliasRule{label: "ListTail", impl: Seq(List(r, sep), Opt(sep)), rules: []Rule{r, sep}}
}

// Pad matches `r` with any amount of `pad` around it
func Pad(r, pad Rule) Rule {
	return &aliasRule{label: "Pad", impl: Seq(Star(pad), r, Star(pad)), rules: []Rule{r, pad}}
}

// PadOpt is Pad where `r` itself is optional
func PadOpt(r, pad Rule) Rule {
	return &aliasRule{label: "PadOpt", impl: Seq(Star(pad), Opt(r), Star(pad)), rules: []Rule{r, pad}}
}

// StarMust repeats IfMust(cond, rules...) as long as `cond` matches
func StarMust(cond Rule, rules ...Rule) Rule {
	return &aliasRule{
		label: "StarMust",
		impl:  Star(IfMust(cond, rules...)),
		rules: append([]Rule{cond}, rules...),
	}
}
