package peg

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
)

// Finding is a problem found in a grammar by Analyze
type Finding struct {
	Rule    string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("problem: %s at rule %s", f.Message, f.Rule)
}

type ruleInfo struct {
	kind  Kind
	rules []Rule
}

// Analysis is the result of checking a grammar for rules that can
// loop forever: repetitions of rules that succeed without consuming
// input and recursion that isn't preceded by consuming input.
type Analysis struct {
	info  map[Rule]*ruleInfo
	order []Rule

	stack    map[Rule]struct{}
	cache    map[Rule]bool
	results  map[Rule]bool
	seen     map[Finding]struct{}
	findings []Finding
}

// Analyze walks the rules reachable from `root` without matching any
// input
func Analyze(root Rule) *Analysis {
	a := &Analysis{
		info:    make(map[Rule]*ruleInfo),
		stack:   make(map[Rule]struct{}),
		results: make(map[Rule]bool),
		seen:    make(map[Finding]struct{}),
	}
	a.insert(root)
	for _, r := range a.order {
		if d, ok := r.(*Def); ok && d.Body() == nil {
			a.report(r, "rule declared but never defined")
		}
	}
	for _, r := range a.order {
		a.cache = make(map[Rule]bool)
		a.results[r] = a.work(r, false)
	}
	return a
}

// AnalyzeCount returns the number of problems found in the grammar
// reachable from `root`
func AnalyzeCount(root Rule) int {
	return Analyze(root).Problems()
}

// insert records the descriptors of `r` and everything reachable from
// it, in the order they're first seen
func (a *Analysis) insert(r Rule) {
	if _, ok := a.info[r]; ok {
		return
	}
	d := r.Describe()
	a.info[r] = &ruleInfo{kind: d.Kind, rules: d.Rules}
	a.order = append(a.order, r)
	for _, sub := range d.Rules {
		a.insert(sub)
	}
}

// work returns whether a successful match of `r` always consumes
// input.  `accum` tells if input was already consumed on the way from
// the rule the pass started at, which makes reaching a rule that's
// still being visited safe.  Without it the grammar would recurse
// forever.
func (a *Analysis) work(r Rule, accum bool) bool {
	if v, ok := a.cache[r]; ok {
		return v
	}
	if _, visiting := a.stack[r]; visiting {
		if !accum {
			a.report(r, "cycle without progress detected")
		}
		a.cache[r] = accum
		return accum
	}

	a.stack[r] = struct{}{}
	defer delete(a.stack, r)

	info := a.info[r]
	var result bool
	switch info.kind {
	case KindAny, KindOpt, KindSeq:
		// rules after the first one that consumes are never
		// reached without progress, so they're left to their own
		// pass
		consumed := false
		for _, sub := range info.rules {
			if consumed {
				break
			}
			consumed = a.work(sub, accum)
		}
		switch info.kind {
		case KindAny:
			result = true
		case KindOpt:
			result = false
		default:
			result = consumed
		}
	case KindSor:
		result = true
		for _, sub := range info.rules {
			result = a.work(sub, accum) && result
		}
	}
	a.cache[r] = result
	return result
}

// report records a problem.  A cycle is found again from every rule
// on it, so each problem is only kept the first time.
func (a *Analysis) report(r Rule, message string) {
	f := Finding{Rule: Name(r), Message: message}
	if _, ok := a.seen[f]; ok {
		return
	}
	a.seen[f] = struct{}{}
	a.findings = append(a.findings, f)
}

// Problems returns how many problems were found.  Zero means the
// grammar is safe from infinite loops.
func (a *Analysis) Problems() int { return len(a.findings) }

func (a *Analysis) Findings() []Finding { return a.findings }

// Rules returns the number of distinct rules reachable from the root
func (a *Analysis) Rules() int { return len(a.order) }

// Consumes reports whether a successful match of `r` always consumes
// input.  Rules that aren't reachable from the root return false.
func (a *Analysis) Consumes(r Rule) bool { return a.results[r] }

// Report writes one line per problem found to `w`
func (a *Analysis) Report(w io.Writer) error {
	for _, f := range a.findings {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}

// Log writes each problem found as a warning
func (a *Analysis) Log(log hclog.Logger) {
	for _, f := range a.findings {
		log.Warn(f.Message, "rule", f.Rule)
	}
	log.Debug("analysis done", "rules", len(a.order), "problems", len(a.findings))
}
