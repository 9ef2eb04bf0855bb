// Package unescape has actions for grammars of quoted strings.  They
// build the string the quotes stand for in a State while the escape
// sequences are matched.
package unescape

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clarete/peg"
)

var (
	ErrNoState          = errors.New("no unescape state")
	ErrInvalidCodePoint = errors.New("invalid escaped unicode code point")
)

// State accumulates the unescaped string
type State struct {
	Unescaped strings.Builder
}

// NewState creates an empty state.  It has the signature peg.State
// expects so it can be used to scope a string body.
func NewState(*peg.Input, ...any) peg.Accumulator {
	return &State{}
}

func (s *State) String() string { return s.Unescaped.String() }

// Success hands the unescaped string to the enclosing states.  A
// *string is replaced by it, a *[]string gets it appended and another
// *State gets it appended to its own string.
func (s *State) Success(_ *peg.Input, st ...any) error {
	for _, v := range st {
		switch out := v.(type) {
		case *string:
			*out = s.String()
		case *[]string:
			*out = append(*out, s.String())
		case *State:
			out.Unescaped.WriteString(s.String())
		}
	}
	return nil
}

func stateOf(in *peg.Input, states []any) (*State, error) {
	for _, v := range states {
		if s, ok := v.(*State); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w at %s", ErrNoState, in.Position())
}

// AppendAll appends the matched text as is
func AppendAll(in *peg.Input, states ...any) error {
	s, err := stateOf(in, states)
	if err != nil {
		return err
	}
	s.Unescaped.Write(in.Bytes())
	return nil
}

// UnescapeC returns an action for single character escapes.  The
// matched byte is looked up in `escaped` and replaced by the byte at
// the same index within `replacement`.
func UnescapeC(escaped, replacement string) peg.ActionFunc {
	if len(escaped) != len(replacement) {
		panic(fmt.Sprintf("size mismatch between escaped characters %q and their replacements %q", escaped, replacement))
	}
	return func(in *peg.Input, states ...any) error {
		s, err := stateOf(in, states)
		if err != nil {
			return err
		}
		if in.Size() != 1 {
			return peg.NewParseError("expected a single escaped character", in)
		}
		i := strings.IndexByte(escaped, in.PeekByte(0))
		if i < 0 {
			return peg.NewParseError(fmt.Sprintf("unknown escape character %q", in.PeekByte(0)), in)
		}
		s.Unescaped.WriteByte(replacement[i])
		return nil
	}
}

// UnescapeU appends the code point written in hex after the first
// matched character, usually `u` or `U`
func UnescapeU(in *peg.Input, states ...any) error {
	s, err := stateOf(in, states)
	if err != nil {
		return err
	}
	digits := in.Bytes()
	if len(digits) < 2 {
		return peg.NewParseError(ErrInvalidCodePoint.Error(), in)
	}
	cp, ok := UnhexString(digits[1:])
	if !ok || !AppendUTF32(&s.Unescaped, cp) {
		return peg.NewParseError(ErrInvalidCodePoint.Error(), in)
	}
	return nil
}

// UnescapeX appends the byte written in hex after the first matched
// character, usually `x`
func UnescapeX(in *peg.Input, states ...any) error {
	s, err := stateOf(in, states)
	if err != nil {
		return err
	}
	digits := in.Bytes()
	b, ok := UnhexString(digits[min(1, len(digits)):])
	if !ok || b > 0xff {
		return peg.NewParseError("invalid escaped byte", in)
	}
	s.Unescaped.WriteByte(byte(b))
	return nil
}

// UnescapeJ appends one or more JSON style `\uXXXX` escapes.  The
// backslash of the first escape is expected to be left out of the
// match.  Surrogate pairs are combined into one code point.
func UnescapeJ(in *peg.Input, states ...any) error {
	s, err := stateOf(in, states)
	if err != nil {
		return err
	}
	text := in.Bytes()
	if (len(text)+1)%6 != 0 {
		return peg.NewParseError("malformed json unicode escape", in)
	}
	for i := 1; i < len(text); i += 6 {
		c, ok := UnhexString(text[i : i+4])
		if !ok {
			return peg.NewParseError("malformed json unicode escape", in)
		}
		if 0xd800 <= c && c <= 0xdbff && i+6 < len(text) {
			if d, ok := UnhexString(text[i+6 : i+10]); ok && 0xdc00 <= d && d <= 0xdfff {
				i += 6
				AppendUTF32(&s.Unescaped, (((c & 0x03ff) << 10) | (d & 0x03ff)) + 0x10000)
				continue
			}
		}
		AppendUTF32(&s.Unescaped, c)
	}
	return nil
}

// AppendUTF32 appends the UTF-8 encoding of `cp`.  It returns false
// for values beyond the last code point.  Surrogate halves are
// encoded as they are, which JSON relies on for unpaired escapes.
func AppendUTF32(b *strings.Builder, cp uint32) bool {
	switch {
	case cp <= 0x7f:
		b.WriteByte(byte(cp))
	case cp <= 0x7ff:
		b.WriteByte(byte(0xc0 | (cp >> 6)))
		b.WriteByte(byte(0x80 | (cp & 0x3f)))
	case cp <= 0xffff:
		b.WriteByte(byte(0xe0 | (cp >> 12)))
		b.WriteByte(byte(0x80 | ((cp >> 6) & 0x3f)))
		b.WriteByte(byte(0x80 | (cp & 0x3f)))
	case cp <= utf8.MaxRune:
		b.WriteByte(byte(0xf0 | (cp >> 18)))
		b.WriteByte(byte(0x80 | ((cp >> 12) & 0x3f)))
		b.WriteByte(byte(0x80 | ((cp >> 6) & 0x3f)))
		b.WriteByte(byte(0x80 | (cp & 0x3f)))
	default:
		return false
	}
	return true
}

// UnhexString decodes a run of hex digits.  It fails on anything that
// isn't a hex digit and on values that don't fit 32 bits.
func UnhexString(digits []byte) (uint32, bool) {
	if len(digits) == 0 || len(digits) > 8 {
		return 0, false
	}
	var r uint32
	for _, c := range digits {
		v, ok := unhex(c)
		if !ok {
			return 0, false
		}
		r = r<<4 | uint32(v)
	}
	return r, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
