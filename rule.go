package peg

import (
	"fmt"
	"strings"
)

// Rule is a grammar production.  Matching returns `true` when the rule
// accepted the input at the cursor and moved the cursor past what it
// consumed.  A `false, nil` return is a soft failure: the cursor is
// left where it was and an enclosing rule is free to try something
// else.  A non-nil error is a hard failure that no rule recovers from
// (except TryCatch) and always wins over the boolean.
//
// Rules must not call each other's Match method directly.  Sub-rules
// are matched through Context.Match so hooks and actions fire.
type Rule interface {
	Match(in *Input, c *Context) (bool, error)

	// Describe tells the analyzer what kind of rule this is and
	// which rules it's made of.  The returned rules must be the same
	// values on every call.
	Describe() Descriptor
}

// Kind classifies rules by whether success implies consuming input
type Kind int

const (
	// KindAny rules always consume input when they succeed
	KindAny Kind = iota

	// KindOpt rules may succeed without consuming anything
	KindOpt

	// KindSeq rules consume input when any of their sub-rules do
	KindSeq

	// KindSor rules consume input when all of their sub-rules do
	KindSor
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindOpt:
		return "opt"
	case KindSeq:
		return "seq"
	case KindSor:
		return "sor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor is the shape of a rule as seen by the analyzer
type Descriptor struct {
	Kind  Kind
	Rules []Rule
}

func describe(kind Kind, rules ...Rule) Descriptor {
	return Descriptor{Kind: kind, Rules: rules}
}

// counted is the descriptor of rules that repeat their body a fixed
// minimum number of times.  With a minimum of zero nothing has to be
// consumed.
func counted(kind Kind, n int, rules ...Rule) Descriptor {
	if n == 0 {
		kind = KindOpt
	}
	return describe(kind, rules...)
}

// structural is implemented by the built-in rules.  They're matched
// without calling into Control or Actions, so only rules that the
// grammar author named show up in traces and get actions attached.
type structural interface {
	skipControl()
}

type builtin struct{}

func (builtin) skipControl() {}

// Def is a named rule.  Names are how actions, error messages and
// traces refer to rules, so every production the grammar author cares
// about observing should be a Def.
type Def struct {
	name string
	body Rule
}

// Define creates a named rule matching all `rules` in sequence
func Define(name string, rules ...Rule) *Def {
	return Declare(name).Set(rules...)
}

// Declare creates a named rule without a body.  It's how recursive
// grammars are built: declare the rule, use it, then call Set.
func Declare(name string) *Def {
	return &Def{name: name}
}

// Set assigns the body of a declared rule.  A rule can only be set
// once.
func (d *Def) Set(rules ...Rule) *Def {
	if d.body != nil {
		panic(fmt.Sprintf("rule `%s` is already defined", d.name))
	}
	d.body = seqOf(rules)
	return d
}

func (d *Def) Name() string   { return d.name }
func (d *Def) String() string { return d.name }

// Body returns the rule assigned with Set or nil for a rule that was
// only declared
func (d *Def) Body() Rule { return d.body }

func (d *Def) Match(in *Input, c *Context) (bool, error) {
	if d.body == nil {
		panic(fmt.Sprintf("rule `%s` was declared but never defined", d.name))
	}
	return c.Match(d.body, in)
}

// Describe borrows the shape of the body so a named rule is analyzed
// the same way as what it's made of.  Undefined rules look optional.
func (d *Def) Describe() Descriptor {
	if d.body == nil {
		return describe(KindOpt)
	}
	return d.body.Describe()
}

// Name returns how a rule is referred to in actions, messages and
// traces
func Name(r Rule) string {
	switch v := r.(type) {
	case *Def:
		return v.name
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", r)
	}
}

// seqOf collapses a list of rules into a single one.  A single rule is
// returned as is so wrapping it doesn't add a mark.
func seqOf(rules []Rule) Rule {
	if len(rules) == 1 {
		return rules[0]
	}
	return Seq(rules...)
}

func names(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = Name(r)
	}
	return strings.Join(parts, ", ")
}
