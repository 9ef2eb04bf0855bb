package peg

import (
	"fmt"
	"strings"
)

// Encoding builds character class rules that decode the input with a
// given Peek strategy
type Encoding struct {
	name string
	peek Peek
}

var (
	ASCII   = NewEncoding("ascii", PeekByte)
	UTF8    = NewEncoding("utf8", PeekUTF8)
	UTF16LE = NewEncoding("utf16le", PeekUTF16LE)
	UTF16BE = NewEncoding("utf16be", PeekUTF16BE)
	UTF32LE = NewEncoding("utf32le", PeekUTF32LE)
	UTF32BE = NewEncoding("utf32be", PeekUTF32BE)
)

// NewEncoding creates an encoding for a custom peek strategy
func NewEncoding(name string, peek Peek) Encoding {
	return Encoding{name: name, peek: peek}
}

func (e Encoding) Name() string { return e.name }

// Any matches any single valid unit
func (e Encoding) Any() Rule { return &anyRule{enc: e} }

// One matches a single unit that is any of `rs`
func (e Encoding) One(rs ...rune) Rule { return newOneRule(e, true, rs) }

// NotOne matches a single valid unit that is none of `rs`
func (e Encoding) NotOne(rs ...rune) Rule { return newOneRule(e, false, rs) }

// Range matches a single unit within `lo` and `hi`, both inclusive
func (e Encoding) Range(lo, hi rune) Rule { return newRangeRule(e, true, lo, hi) }

// NotRange matches a single valid unit outside of `lo` and `hi`
func (e Encoding) NotRange(lo, hi rune) Rule { return newRangeRule(e, false, lo, hi) }

// Ranges matches a single unit within any of the ranges in `bounds`.
// Bounds come in pairs and a trailing odd bound is a single unit.
func (e Encoding) Ranges(bounds ...rune) Rule {
	cs := newCharsetFromRanges(bounds)
	return &setRule{enc: e, set: cs, want: true, eol: cs.has('\n')}
}

// decode reads the unit under the cursor.  It fails on empty input and
// on bytes that don't form a valid unit.
func (e Encoding) decode(in *Input) (rune, int, bool) {
	if in.Empty() {
		return 0, 0, false
	}
	r, w := e.peek(in, 0)
	return r, w, w > 0
}

func (e Encoding) label(s string) string {
	if e.name == ASCII.name {
		return s
	}
	return e.name + ":" + s
}

// bump consumes a unit that was accepted.  Rules that can't accept a
// line terminator take the fast path.
func bump(in *Input, eol bool, r rune, w int) {
	if eol {
		in.BumpRune(r, w)
	} else {
		in.BumpInLine(w)
	}
}

type anyRule struct {
	builtin
	enc Encoding
}

func (r *anyRule) Match(in *Input, _ *Context) (bool, error) {
	c, w, ok := r.enc.decode(in)
	if !ok {
		return false, nil
	}
	bump(in, true, c, w)
	return true, nil
}

func (r *anyRule) Describe() Descriptor { return describe(KindAny) }
func (r *anyRule) String() string       { return r.enc.label(".") }

// setRule tests membership in a charset.  With `want` false it
// accepts everything the charset doesn't have.
type setRule struct {
	builtin
	enc  Encoding
	set  *charset
	want bool
	eol  bool
}

func newOneRule(e Encoding, want bool, rs []rune) *setRule {
	cs := newCharsetFromRunes(rs)
	return &setRule{enc: e, set: cs, want: want, eol: cs.has('\n') == want}
}

func (r *setRule) Match(in *Input, _ *Context) (bool, error) {
	c, w, ok := r.enc.decode(in)
	if !ok || r.set.has(c) != r.want {
		return false, nil
	}
	bump(in, r.eol, c, w)
	return true, nil
}

func (r *setRule) Describe() Descriptor { return describe(KindAny) }

func (r *setRule) String() string {
	s := r.set.String()
	if !r.want {
		s = "[^" + strings.TrimPrefix(s, "[")
	}
	return r.enc.label(s)
}

type rangeRule struct {
	builtin
	enc    Encoding
	lo, hi rune
	want   bool
	eol    bool
}

func newRangeRule(e Encoding, want bool, lo, hi rune) *rangeRule {
	if lo > hi {
		panic(fmt.Sprintf("invalid range `U+%X-U+%X`: start after end", lo, hi))
	}
	has := lo <= '\n' && '\n' <= hi
	return &rangeRule{enc: e, lo: lo, hi: hi, want: want, eol: has == want}
}

func (r *rangeRule) Match(in *Input, _ *Context) (bool, error) {
	c, w, ok := r.enc.decode(in)
	if !ok || (r.lo <= c && c <= r.hi) != r.want {
		return false, nil
	}
	bump(in, r.eol, c, w)
	return true, nil
}

func (r *rangeRule) Describe() Descriptor { return describe(KindAny) }

func (r *rangeRule) String() string {
	neg := ""
	if !r.want {
		neg = "^"
	}
	lo, hi := escapeLiteral(string(r.lo)), escapeLiteral(string(r.hi))
	return r.enc.label(fmt.Sprintf("[%s%s-%s]", neg, lo, hi))
}

// Any matches any single byte
func Any() Rule { return ASCII.Any() }

// One matches a single byte that is any of `rs`
func One(rs ...rune) Rule { return ASCII.One(rs...) }

// NotOne matches a single byte that is none of `rs`
func NotOne(rs ...rune) Rule { return ASCII.NotOne(rs...) }

// Range matches a single byte within `lo` and `hi`
func Range(lo, hi rune) Rule { return ASCII.Range(lo, hi) }

// NotRange matches a single byte outside of `lo` and `hi`
func NotRange(lo, hi rune) Rule { return ASCII.NotRange(lo, hi) }

// Ranges matches a single byte within any of the ranges in `bounds`
func Ranges(bounds ...rune) Rule { return ASCII.Ranges(bounds...) }
