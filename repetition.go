package peg

import (
	"fmt"
)

type starRule struct{ unary }

// Star matches `rules` as many times as possible, including none.  A
// body that succeeds without consuming input loops forever on
// non-empty input, which is what Analyze looks for.
func Star(rules ...Rule) Rule { return &starRule{newUnary("Star", rules)} }

func (r *starRule) Match(in *Input, c *Context) (bool, error) {
	if err := repeat(in, c, r.body); err != nil {
		return false, err
	}
	return true, nil
}

// The repetition is part of its own description so a body that can
// match the empty string shows up as a cycle without progress
func (r *starRule) Describe() Descriptor { return describe(KindOpt, r.body, r) }

// repeat matches `body` until it fails or there's no input left
func repeat(in *Input, c *Context, body Rule) error {
	for !in.Empty() {
		ok, err := c.Match(body, in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}

type plusRule struct {
	unary
	rest Rule
}

// Plus matches `rules` at least once and then as many times as
// possible
func Plus(rules ...Rule) Rule {
	r := &plusRule{unary: newUnary("Plus", rules)}
	r.rest = Opt(r)
	return r
}

func (r *plusRule) Match(in *Input, c *Context) (bool, error) {
	ok, err := c.Match(r.body, in)
	if err != nil || !ok {
		return false, err
	}
	if err := repeat(in, c, r.body); err != nil {
		return false, err
	}
	return true, nil
}

func (r *plusRule) Describe() Descriptor { return describe(KindSeq, r.body, r.rest) }

type repRule struct {
	unary
	n int
}

// Rep matches `rules` exactly `n` times in a row.  It doesn't look at
// what follows, so more matches of the body may be left in the input.
func Rep(n int, rules ...Rule) Rule {
	if n < 0 {
		panic(fmt.Sprintf("invalid repetition count %d", n))
	}
	return &repRule{newUnary(fmt.Sprintf("Rep<%d>", n), rules), n}
}

func (r *repRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	for i := 0; i < r.n; i++ {
		ok, err := c.Match(r.body, in)
		if err != nil || !ok {
			return m.Result(ok, err)
		}
	}
	return m.Success(), nil
}

func (r *repRule) Describe() Descriptor { return counted(KindSeq, r.n, r.body) }

type repMinMaxRule struct {
	unary
	min, max int
}

// RepMinMax matches `rules` at least `min` and at most `max` times.
// After `max` matches the body must not match again, so the rule
// fails on input with more repetitions than allowed rather than
// leaving them behind.  With both bounds at zero it's NotAt(rules...).
func RepMinMax(min, max int, rules ...Rule) Rule {
	if min < 0 || min > max {
		panic(fmt.Sprintf("invalid repetition bounds %d..%d", min, max))
	}
	label := fmt.Sprintf("RepMinMax<%d,%d>", min, max)
	if max == 0 {
		return &aliasRule{label: label, impl: NotAt(rules...), rules: rules}
	}
	return &repMinMaxRule{newUnary(label, rules), min, max}
}

func (r *repMinMaxRule) Match(in *Input, c *Context) (bool, error) {
	m := in.Mark()
	for i := 0; i < r.min; i++ {
		ok, err := c.Match(r.body, in)
		if err != nil || !ok {
			return m.Result(ok, err)
		}
	}
	for i := r.min; i < r.max; i++ {
		ok, err := c.Match(r.body, in)
		if err != nil {
			return m.Result(false, err)
		}
		if !ok {
			return m.Success(), nil
		}
	}
	ok, err := c.disabled().Match(r.body, in)
	if err != nil {
		return m.Result(false, err)
	}
	if ok {
		return m.Failure(), nil
	}
	return m.Success(), nil
}

func (r *repMinMaxRule) Describe() Descriptor { return counted(KindSeq, r.min, r.body) }

// RepMin matches `rules` at least `min` times and then as many times
// as possible
func RepMin(min int, rules ...Rule) Rule {
	return &aliasRule{
		label: fmt.Sprintf("RepMin<%d>", min),
		impl:  Seq(Rep(min, rules...), Star(rules...)),
		rules: rules,
	}
}

// RepMax is RepMinMax without a lower bound
func RepMax(max int, rules ...Rule) Rule {
	return RepMinMax(0, max, rules...)
}

type repOptRule struct {
	unary
	max int
}

// RepOpt matches `rules` up to `max` times.  Unlike RepMax it doesn't
// care about what comes after the last match.
func RepOpt(max int, rules ...Rule) Rule {
	return &repOptRule{newUnary(fmt.Sprintf("RepOpt<%d>", max), rules), max}
}

func (r *repOptRule) Match(in *Input, c *Context) (bool, error) {
	for i := 0; i < r.max; i++ {
		ok, err := c.Match(r.body, in)
		if err != nil {
			return false, err
		}
		if !ok {
			break
		}
	}
	return true, nil
}

func (r *repOptRule) Describe() Descriptor { return describe(KindOpt, r.body) }
