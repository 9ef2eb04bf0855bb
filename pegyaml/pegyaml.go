// Package pegyaml builds grammars out of YAML documents.
//
// A document names its rules under `rules` and may pick the rule
// parsing starts from with `start` and set the messages of the errors
// raised by required rules with `messages`:
//
//	start: greeting
//	messages:
//	  name: "expected a name"
//	rules:
//	  greeting: {seq: [{string: "Hello, "}, {must: name}, {one: "!"}, eof]}
//	  name: {plus: alpha}
//
// A rule expression is either the name of another rule, the name of a
// builtin (`any`, `eof`, `alpha`, ...) or a mapping with a single key
// naming a combinator.
package pegyaml

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/clarete/peg"
)

var (
	ErrUnknownRule       = errors.New("unknown rule")
	ErrUnknownKey        = errors.New("unknown expression")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrNoRules           = errors.New("grammar has no rules")
)

// Grammar is a set of named rules loaded from a document
type Grammar struct {
	Start    string
	Messages map[string]string
	Rules    map[string]*peg.Def

	// Order holds the rule names in the order they were written
	Order []string
}

type document struct {
	Start    string            `yaml:"start"`
	Messages map[string]string `yaml:"messages"`
	Rules    any               `yaml:"rules"`
}

// Load reads the grammar from the file at `path`
func Load(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse builds the grammar described by `data`
func Parse(data []byte) (*Grammar, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse grammar: %w", err)
	}
	items, ok := entries(doc.Rules)
	if !ok {
		return nil, fmt.Errorf("%w: `rules` must be a mapping", ErrInvalidExpression)
	}
	if len(items) == 0 {
		return nil, ErrNoRules
	}

	g := &Grammar{
		Start:    doc.Start,
		Messages: doc.Messages,
		Rules:    make(map[string]*peg.Def, len(items)),
	}
	for _, item := range items {
		if _, dup := g.Rules[item.key]; dup {
			return nil, fmt.Errorf("rule %s: defined more than once", item.key)
		}
		g.Rules[item.key] = peg.Declare(item.key)
		g.Order = append(g.Order, item.key)
	}

	b := &builder{grammar: g}
	for _, item := range items {
		r, err := b.expr(item.value)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", item.key, err)
		}
		g.Rules[item.key].Set(r)
	}

	if g.Start != "" {
		if _, ok := g.Rules[g.Start]; !ok {
			return nil, fmt.Errorf("start rule %s: %w", g.Start, ErrUnknownRule)
		}
	}
	return g, nil
}

// Rule returns the rule called `name`
func (g *Grammar) Rule(name string) (*peg.Def, error) {
	r, ok := g.Rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	return r, nil
}

// StartRule returns the rule named by `start` or the first rule of
// the document when there's no `start`
func (g *Grammar) StartRule() *peg.Def {
	if g.Start != "" {
		return g.Rules[g.Start]
	}
	return g.Rules[g.Order[0]]
}

// Control returns a control that raises errors with the messages of
// the grammar
func (g *Grammar) Control() peg.Normal {
	return peg.Normal{Messages: g.Messages}
}

type entry struct {
	key   string
	value any
}

// entries returns the items of a mapping in the order they were
// written, whichever way it was decoded
func entries(v any) ([]entry, bool) {
	switch m := v.(type) {
	case yaml.MapSlice:
		out := make([]entry, 0, len(m))
		for _, item := range m {
			k, ok := item.Key.(string)
			if !ok {
				return nil, false
			}
			out = append(out, entry{k, item.Value})
		}
		return out, true
	case map[string]any:
		out := make([]entry, 0, len(m))
		for k, v := range m {
			out = append(out, entry{k, v})
		}
		return out, true
	case nil:
		return nil, true
	}
	return nil, false
}
