package peg

import "reflect"

// Context holds what rules need to know about the running parse
// besides the input: the actions and control in effect, whether
// actions are currently applied and the states handed to them.
//
// Rules that change any of those for their sub-rules (Disable, State,
// WithActions, ...) match them with a copy, so changes never leak out
// of the subtree.
type Context struct {
	actions Actions
	control Control
	apply   bool
	states  []any

	// names caches Name for rules that aren't a Def.  It's shared by
	// every copy made for a subtree.
	names map[Rule]string
}

// NewContext creates a context that applies `actions` and reports to
// `control`.  A nil control means Normal.
func NewContext(actions Actions, control Control, states ...any) *Context {
	if control == nil {
		control = Normal{}
	}
	return &Context{
		actions: actions,
		control: control,
		apply:   true,
		states:  states,
		names:   make(map[Rule]string),
	}
}

func (c *Context) States() []any    { return c.states }
func (c *Context) Applying() bool   { return c.apply }
func (c *Context) Control() Control { return c.control }
func (c *Context) Actions() Actions { return c.actions }

// with returns a copy for a subtree to modify
func (c *Context) with() *Context {
	cc := *c
	return &cc
}

// disabled returns a context that doesn't apply actions
func (c *Context) disabled() *Context {
	if !c.apply {
		return c
	}
	cc := c.with()
	cc.apply = false
	return cc
}

// Match runs `r` against the input at the cursor.
//
// Built-in rules are matched straight away.  Any other rule is
// observable: control is told when the match starts and how it ended,
// and when actions are being applied and there's one registered for
// the rule's name, it's called with exactly the input the rule
// consumed.  An action error rewinds the input and becomes the result
// of the match.
func (c *Context) Match(r Rule, in *Input) (bool, error) {
	if _, ok := r.(structural); ok {
		return r.Match(in, c)
	}

	action := c.action(r)
	if action == nil {
		return c.observe(r, in)
	}

	m := in.Mark()
	ok, err := c.observe(r, in)
	if err != nil || !ok {
		return m.Result(ok, err)
	}
	if err := action(in.Matched(m), c.states...); err != nil {
		return m.Result(false, err)
	}
	return m.Success(), nil
}

func (c *Context) observe(r Rule, in *Input) (bool, error) {
	c.control.Start(in, r, c.states...)
	ok, err := r.Match(in, c)
	if err != nil {
		// every Start is closed, TryCatch may still recover
		c.control.Failure(in, r, c.states...)
		return false, err
	}
	if ok {
		c.control.Success(in, r, c.states...)
	} else {
		c.control.Failure(in, r, c.states...)
	}
	return ok, nil
}

func (c *Context) action(r Rule) ActionFunc {
	if !c.apply || len(c.actions) == 0 {
		return nil
	}
	return c.actions[c.name(r)]
}

// name is Name resolved once per rule for the whole parse
func (c *Context) name(r Rule) string {
	if d, ok := r.(*Def); ok {
		return d.name
	}
	if c.names == nil || !reflect.TypeOf(r).Comparable() {
		return Name(r)
	}
	if n, ok := c.names[r]; ok {
		return n
	}
	n := Name(r)
	c.names[r] = n
	return n
}

// Raise asks control for the error reported when `r` is required but
// didn't match at the cursor
func (c *Context) Raise(r Rule, in *Input) error {
	return c.control.Raise(in, r, c.states...)
}
