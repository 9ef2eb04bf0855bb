package pegyaml

import (
	"fmt"
	"math"

	"github.com/clarete/peg"
)

type builder struct {
	grammar *Grammar
}

var scalars = map[string]func() peg.Rule{
	"any":      peg.Any,
	"eof":      peg.Eof,
	"eol":      peg.Eol,
	"eolf":     peg.Eolf,
	"success":  peg.Success,
	"failure":  peg.Failure,
	"utf8_any": peg.UTF8.Any,
}

// list builds a combinator out of one expression or a list of them
type list func(rules ...peg.Rule) peg.Rule

var lists = map[string]list{
	"seq":     peg.Seq,
	"sor":     peg.Sor,
	"opt":     peg.Opt,
	"star":    peg.Star,
	"plus":    peg.Plus,
	"must":    peg.Must,
	"at":      peg.At,
	"not_at":  peg.NotAt,
	"disable": peg.Disable,
	"enable":  peg.Enable,
	"try":     peg.TryCatch,
}

type set func(rs ...rune) peg.Rule

var sets = map[string]set{
	"one":          peg.One,
	"not_one":      peg.NotOne,
	"utf8_one":     peg.UTF8.One,
	"utf8_not_one": peg.UTF8.NotOne,
}

type span func(lo, hi rune) peg.Rule

var spans = map[string]span{
	"range":          peg.Range,
	"not_range":      peg.NotRange,
	"utf8_range":     peg.UTF8.Range,
	"utf8_not_range": peg.UTF8.NotRange,
}

func (b *builder) expr(v any) (peg.Rule, error) {
	if name, ok := v.(string); ok {
		return b.ref(name)
	}
	items, ok := entries(v)
	if !ok || len(items) != 1 {
		return nil, fmt.Errorf("%w: expected a rule name or a mapping with a single key, got %v", ErrInvalidExpression, v)
	}
	key, arg := items[0].key, items[0].value

	if mk, ok := lists[key]; ok {
		rules, err := b.exprs(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return mk(rules...), nil
	}
	if mk, ok := sets[key]; ok {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string", ErrInvalidExpression, key)
		}
		return mk([]rune(s)...), nil
	}
	if mk, ok := spans[key]; ok {
		s, ok := arg.(string)
		rs := []rune(s)
		if !ok || len(rs) != 3 || rs[1] != '-' || rs[0] > rs[2] {
			return nil, fmt.Errorf("%w: %s expects a range like \"a-z\"", ErrInvalidExpression, key)
		}
		return mk(rs[0], rs[2]), nil
	}

	switch key {
	case "ranges":
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string", ErrInvalidExpression, key)
		}
		bounds, err := parseRanges(s)
		if err != nil {
			return nil, err
		}
		return peg.Ranges(bounds...), nil
	case "string", "istring":
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a string", ErrInvalidExpression, key)
		}
		if key == "istring" {
			return peg.IString(s), nil
		}
		return peg.String(s), nil
	case "bytes", "require":
		n, err := count(key, arg)
		if err != nil {
			return nil, err
		}
		if key == "bytes" {
			return peg.Bytes(n), nil
		}
		return peg.Require(n), nil
	case "rep", "rep_min", "rep_max", "rep_opt", "rep_min_max":
		return b.rep(key, arg)
	case "until":
		return b.until(arg)
	case "list", "list_must", "list_tail":
		f, err := b.fields(key, arg, "rule", "sep")
		if err != nil {
			return nil, err
		}
		switch key {
		case "list_must":
			return peg.ListMust(f["rule"], f["sep"]), nil
		case "list_tail":
			return peg.ListTail(f["rule"], f["sep"]), nil
		}
		return peg.List(f["rule"], f["sep"]), nil
	case "pad", "pad_opt":
		f, err := b.fields(key, arg, "rule", "pad")
		if err != nil {
			return nil, err
		}
		if key == "pad_opt" {
			return peg.PadOpt(f["rule"], f["pad"]), nil
		}
		return peg.Pad(f["rule"], f["pad"]), nil
	case "if_must":
		f, err := b.fields(key, arg, "cond", "then")
		if err != nil {
			return nil, err
		}
		return peg.IfMust(f["cond"], f["then"]), nil
	case "if_then_else", "if_must_else":
		f, err := b.fields(key, arg, "cond", "then", "else")
		if err != nil {
			return nil, err
		}
		if key == "if_must_else" {
			return peg.IfMustElse(f["cond"], f["then"], f["else"]), nil
		}
		return peg.IfThenElse(f["cond"], f["then"], f["else"]), nil
	case "raise":
		r, err := b.expr(arg)
		if err != nil {
			return nil, fmt.Errorf("raise: %w", err)
		}
		return peg.Raise(r), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

func (b *builder) ref(name string) (peg.Rule, error) {
	if r, ok := b.grammar.Rules[name]; ok {
		return r, nil
	}
	if r, ok := peg.Builtins[name]; ok {
		return r, nil
	}
	if mk, ok := scalars[name]; ok {
		return mk(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
}

// exprs builds either a list of expressions or a single one
func (b *builder) exprs(v any) ([]peg.Rule, error) {
	items, ok := v.([]any)
	if !ok {
		r, err := b.expr(v)
		if err != nil {
			return nil, err
		}
		return []peg.Rule{r}, nil
	}
	rules := make([]peg.Rule, 0, len(items))
	for _, item := range items {
		r, err := b.expr(item)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// fields builds the expressions of a mapping with the given keys, all
// of which are required
func (b *builder) fields(key string, v any, names ...string) (map[string]peg.Rule, error) {
	items, ok := entries(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a mapping", ErrInvalidExpression, key)
	}
	values := make(map[string]any, len(items))
	for _, item := range items {
		values[item.key] = item.value
	}
	out := make(map[string]peg.Rule, len(names))
	for _, name := range names {
		value, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing `%s`", ErrInvalidExpression, key, name)
		}
		r, err := b.expr(value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", key, name, err)
		}
		out[name] = r
	}
	return out, nil
}

func (b *builder) rep(key string, v any) (peg.Rule, error) {
	items, ok := entries(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a mapping", ErrInvalidExpression, key)
	}
	values := make(map[string]any, len(items))
	for _, item := range items {
		values[item.key] = item.value
	}
	body, ok := values["rule"]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing `rule`", ErrInvalidExpression, key)
	}
	rules, err := b.exprs(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	arg := func(name string) (int, error) {
		n, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s is missing `%s`", ErrInvalidExpression, key, name)
		}
		return count(key+"."+name, n)
	}

	switch key {
	case "rep":
		n, err := arg("count")
		if err != nil {
			return nil, err
		}
		return peg.Rep(n, rules...), nil
	case "rep_min":
		n, err := arg("min")
		if err != nil {
			return nil, err
		}
		return peg.RepMin(n, rules...), nil
	case "rep_max":
		n, err := arg("max")
		if err != nil {
			return nil, err
		}
		return peg.RepMax(n, rules...), nil
	case "rep_opt":
		n, err := arg("max")
		if err != nil {
			return nil, err
		}
		return peg.RepOpt(n, rules...), nil
	}

	lo, err := arg("min")
	if err != nil {
		return nil, err
	}
	hi, err := arg("max")
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: %s has min %d greater than max %d", ErrInvalidExpression, key, lo, hi)
	}
	return peg.RepMinMax(lo, hi, rules...), nil
}

// until takes either the condition alone or a mapping with `cond`
// and an optional `body`
func (b *builder) until(v any) (peg.Rule, error) {
	items, ok := entries(v)
	if !ok || len(items) == 0 || !hasKey(items, "cond") {
		cond, err := b.expr(v)
		if err != nil {
			return nil, fmt.Errorf("until: %w", err)
		}
		return peg.Until(cond), nil
	}
	var cond peg.Rule
	var body []peg.Rule
	for _, item := range items {
		var err error
		switch item.key {
		case "cond":
			cond, err = b.expr(item.value)
		case "body":
			body, err = b.exprs(item.value)
		default:
			err = fmt.Errorf("%w: until.%s", ErrUnknownKey, item.key)
		}
		if err != nil {
			return nil, fmt.Errorf("until: %w", err)
		}
	}
	return peg.Until(cond, body...), nil
}

func hasKey(items []entry, key string) bool {
	for _, item := range items {
		if item.key == key {
			return true
		}
	}
	return false
}

func count(key string, v any) (int, error) {
	var n int64
	switch i := v.(type) {
	case int:
		n = int64(i)
	case int64:
		n = i
	case uint64:
		if i > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s is too large", ErrInvalidExpression, key)
		}
		n = int64(i)
	default:
		return 0, fmt.Errorf("%w: %s expects a number", ErrInvalidExpression, key)
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidExpression, key)
	}
	return int(n), nil
}

// parseRanges reads character classes written as in regular
// expressions: `a-zA-Z_` is the bounds a, z, A, Z, _ and _.
func parseRanges(s string) ([]rune, error) {
	rs := []rune(s)
	var bounds []rune
	for i := 0; i < len(rs); i++ {
		if i+2 < len(rs) && rs[i+1] == '-' {
			if rs[i] > rs[i+2] {
				return nil, fmt.Errorf("%w: range %c-%c starts after it ends", ErrInvalidExpression, rs[i], rs[i+2])
			}
			bounds = append(bounds, rs[i], rs[i+2])
			i += 2
			continue
		}
		bounds = append(bounds, rs[i], rs[i])
	}
	if len(bounds) == 0 {
		return nil, fmt.Errorf("%w: ranges expects at least one character", ErrInvalidExpression)
	}
	return bounds, nil
}
