package peg

import (
	"fmt"
	"strings"
)

// A charset is a bitmap that uses one bit per code point within a
// given range.  Character class rules build one when they're created
// so matching a decoded code point is a single lookup.
//
// Name        | Range         | bits      | bytes
// ------------+---------------+-----------+-------
// ASCII       | U+0000–007F   |       128 | 16
// Latin1      | U+0000–00FF   |       256 | 32
// BMP         | U+0000–FFFF   |    65_536 | 8192b (8k)
// Unicode     | U+0000–10FFFF | 1_114_112 | 139264 (136 Kb)
type charsetSize int

const (
	charsetSize_ASCII   charsetSize = 16
	charsetSize_Latin1  charsetSize = 32
	charsetSize_BMP     charsetSize = 8_192
	charsetSize_Unicode charsetSize = 139_264
)

var charsetSizeName = map[charsetSize]string{
	charsetSize_ASCII:   "ascii",
	charsetSize_Latin1:  "latin1",
	charsetSize_BMP:     "bmp",
	charsetSize_Unicode: "unicode",
}

type charset struct {
	// mcp holds the `maxCodePoint` bucket the bitmap was sized for
	mcp charsetSize

	// bits hold all the codepoints of this charset up to `mcp`
	bits []byte
}

func newCharSet(mcp charsetSize) *charset {
	return &charset{mcp: mcp, bits: make([]byte, mcp)}
}

// newCharsetFromRanges takes pairs of inclusive bounds.  A trailing
// odd element is added as a single code point.
func newCharsetFromRanges(bounds []rune) *charset {
	var top rune
	for _, r := range bounds {
		if r < 0 {
			panic(fmt.Sprintf("negative code point `%d` in character class", r))
		}
		top = max(top, r)
	}
	cs := newCharSet(charsetSizeForRune(top))
	for i := 0; i+1 < len(bounds); i += 2 {
		cs.addRange(bounds[i], bounds[i+1])
	}
	if len(bounds)%2 == 1 {
		cs.add(bounds[len(bounds)-1])
	}
	return cs
}

func newCharsetFromRunes(runes []rune) *charset {
	var top rune
	for _, r := range runes {
		top = max(top, r)
	}
	cs := newCharSet(charsetSizeForRune(top))
	for _, r := range runes {
		cs.add(r)
	}
	return cs
}

func charsetSizeForRune(r rune) charsetSize {
	rpos := int(r) >> 3
	switch {
	case rpos < int(charsetSize_ASCII):
		return charsetSize_ASCII
	case rpos < int(charsetSize_Latin1):
		return charsetSize_Latin1
	case rpos < int(charsetSize_BMP):
		return charsetSize_BMP
	default:
		return charsetSize_Unicode
	}
}

func (cs *charset) begin() int              { return 0 }
func (cs *charset) end() int                { return int(cs.mcp) << 3 }
func (cs *charset) outOfBounds(r rune) bool { return int(r) < cs.begin() || int(r) >= cs.end() }

func (cs *charset) add(r rune) {
	if cs.outOfBounds(r) {
		panic(fmt.Sprintf("code point `U+%X` (%c) is out of bounds `%s`", r, r, charsetSizeName[cs.mcp]))
	}
	i := int(r)
	cs.bits[i>>3] |= 1 << (i & 7)
}

func (cs *charset) addRange(start, end rune) {
	if start > end {
		panic(fmt.Sprintf("invalid range `U+%X-U+%X`: start after end", start, end))
	}
	if cs.outOfBounds(start) || cs.outOfBounds(end) {
		panic(fmt.Sprintf("range out of charset bounds `%s`", charsetSizeName[cs.mcp]))
	}
	for r := start; r <= end; r++ {
		cs.add(r)
	}
}

func (cs *charset) has(r rune) bool {
	i := int(r)
	if i < 0 {
		return false
	}

	// writing `i/8` as `i>>3` and and `i%8` as `i&7` because
	// division is usually slower than bit shifting operators.
	x := i >> 3

	// accounts for different charset sizes.
	if x >= len(cs.bits) {
		return false
	}
	return cs.bits[x]&(1<<(i&7)) != 0
}

func (cs *charset) String() string {
	var (
		s  strings.Builder
		rg bool
		st rune
		pr rune = -2
	)
	s.WriteString("[")

	for i := cs.begin(); i < cs.end(); i++ {
		r := rune(i)
		has := cs.has(r)
		if has {
			if !rg {
				rg = true
				st = r
			}
			pr = r
		} else if rg {
			rg = false
			addRange(&s, st, pr)
		}
	}
	if rg {
		addRange(&s, st, pr)
	}

	s.WriteString("]")
	return s.String()
}

func addRange(s *strings.Builder, start, end rune) {
	if start == end {
		s.WriteString(escapeLiteral(string(start)))
	} else if end == start+1 {
		s.WriteString(escapeLiteral(string(start)))
		s.WriteString(escapeLiteral(string(end)))
	} else {
		s.WriteString(escapeLiteral(string(start)))
		s.WriteString("-")
		s.WriteString(escapeLiteral(string(end)))
	}
}
