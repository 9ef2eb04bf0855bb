package peg

import (
	"bytes"
	"fmt"
	"strconv"
)

type stringRule struct {
	builtin
	lit  []byte
	fold bool
	eol  bool
}

// String matches the exact sequence of bytes in `s`.  The whole literal
// is consumed or nothing is.
func String(s string) Rule {
	return &stringRule{lit: []byte(s), eol: bytes.IndexByte([]byte(s), '\n') >= 0}
}

// IString is String with ASCII letters compared without regard to case
func IString(s string) Rule {
	return &stringRule{lit: []byte(s), fold: true, eol: bytes.IndexByte([]byte(s), '\n') >= 0}
}

func (r *stringRule) Match(in *Input, _ *Context) (bool, error) {
	n := len(r.lit)
	if in.Size() < n {
		return false, nil
	}
	prefix := in.Bytes()[:n]
	if r.fold {
		for i, c := range r.lit {
			if toLower(prefix[i]) != toLower(c) {
				return false, nil
			}
		}
	} else if !bytes.Equal(prefix, r.lit) {
		return false, nil
	}
	if r.eol {
		in.Bump(n)
	} else {
		in.BumpInLine(n)
	}
	return true, nil
}

func (r *stringRule) Describe() Descriptor {
	return counted(KindAny, len(r.lit))
}

func (r *stringRule) String() string {
	s := `"` + escapeLiteral(string(r.lit)) + `"`
	if r.fold {
		s += "i"
	}
	return s
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Two matches the byte `c` twice in a row
func Two(c byte) Rule {
	return String(string([]byte{c, c}))
}

type bytesRule struct {
	builtin
	n int
}

// Bytes matches any `n` bytes
func Bytes(n int) Rule { return &bytesRule{n: n} }

func (r *bytesRule) Match(in *Input, _ *Context) (bool, error) {
	if in.Size() < r.n {
		return false, nil
	}
	in.Bump(r.n)
	return true, nil
}

func (r *bytesRule) Describe() Descriptor { return counted(KindAny, r.n) }
func (r *bytesRule) String() string       { return "Bytes(" + strconv.Itoa(r.n) + ")" }

type requireRule struct {
	builtin
	n int
}

// Require succeeds when at least `n` bytes are left.  It doesn't
// consume anything.
func Require(n int) Rule { return &requireRule{n: n} }

func (r *requireRule) Match(in *Input, _ *Context) (bool, error) {
	return in.Size() >= r.n, nil
}

func (r *requireRule) Describe() Descriptor { return describe(KindOpt) }
func (r *requireRule) String() string       { return "Require(" + strconv.Itoa(r.n) + ")" }

// positional rules look at the input without consuming it, except for
// the optional line terminator consumed by Eolf
type positionalRule struct {
	builtin
	name  string
	kind  Kind
	match func(in *Input) bool
}

func (r *positionalRule) Match(in *Input, _ *Context) (bool, error) {
	return r.match(in), nil
}

func (r *positionalRule) Describe() Descriptor { return describe(r.kind) }
func (r *positionalRule) String() string       { return r.name }

var (
	eofRule = &positionalRule{name: "Eof", kind: KindOpt, match: func(in *Input) bool {
		return in.Empty()
	}}
	eolRule = &positionalRule{name: "Eol", kind: KindAny, match: func(in *Input) bool {
		if in.Empty() || in.PeekByte(0) != '\n' {
			return false
		}
		in.Bump(1)
		return true
	}}
	eolfRule = &positionalRule{name: "Eolf", kind: KindOpt, match: func(in *Input) bool {
		if in.Empty() {
			return true
		}
		if in.PeekByte(0) != '\n' {
			return false
		}
		in.Bump(1)
		return true
	}}
	successRule = &positionalRule{name: "Success", kind: KindOpt, match: func(*Input) bool {
		return true
	}}
	failureRule = &positionalRule{name: "Failure", kind: KindAny, match: func(*Input) bool {
		return false
	}}
)

// Eof succeeds at the end of the input
func Eof() Rule { return eofRule }

// Eol matches a line feed
func Eol() Rule { return eolRule }

// Eolf matches a line feed or the end of the input
func Eolf() Rule { return eolfRule }

// Success always matches without consuming anything
func Success() Rule { return successRule }

// Failure never matches
func Failure() Rule { return failureRule }

type raiseRule struct {
	builtin
	rule Rule
}

// Raise fails hard with the error control reports for `r`, without
// trying to match anything
func Raise(r Rule) Rule { return &raiseRule{rule: r} }

func (r *raiseRule) Match(in *Input, c *Context) (bool, error) {
	return false, c.Raise(r.rule, in)
}

func (r *raiseRule) Describe() Descriptor { return describe(KindAny) }
func (r *raiseRule) String() string       { return fmt.Sprintf("Raise(%s)", Name(r.rule)) }
