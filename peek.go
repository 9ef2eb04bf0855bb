package peg

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"
)

// Peek decodes the unit found `offset` bytes after the cursor without
// consuming it.  A zero width means the bytes there don't form a
// valid unit, which rules treat as a plain mismatch.
type Peek func(in *Input, offset int) (r rune, width int)

// PeekByte reads a single byte as a code point
func PeekByte(in *Input, offset int) (rune, int) {
	if in.Size() <= offset {
		return 0, 0
	}
	return rune(in.PeekByte(offset)), 1
}

// PeekUTF8 decodes one UTF-8 encoded code point.  Overlong forms,
// surrogate halves and truncated sequences have zero width.
func PeekUTF8(in *Input, offset int) (rune, int) {
	if in.Size() <= offset {
		return 0, 0
	}
	if c := in.PeekByte(offset); c < utf8.RuneSelf {
		return rune(c), 1
	}
	r, size := utf8.DecodeRune(in.Bytes()[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0
	}
	return r, size
}

// PeekUTF16LE decodes one little endian UTF-16 code point
func PeekUTF16LE(in *Input, offset int) (rune, int) {
	return peekUTF16(in, offset, binary.LittleEndian)
}

// PeekUTF16BE decodes one big endian UTF-16 code point
func PeekUTF16BE(in *Input, offset int) (rune, int) {
	return peekUTF16(in, offset, binary.BigEndian)
}

// peekUTF16 combines surrogate pairs.  A high surrogate that isn't
// followed by a low one is returned on its own, two bytes wide.
func peekUTF16(in *Input, offset int, order binary.ByteOrder) (rune, int) {
	size := in.Size() - offset
	if size < 2 {
		return 0, 0
	}
	b := in.Bytes()[offset:]
	t := rune(order.Uint16(b))
	if t < 0xd800 || t > 0xdbff || size < 4 {
		return t, 2
	}
	u := rune(order.Uint16(b[2:]))
	if u < 0xdc00 || u > 0xdfff {
		return t, 2
	}
	return utf16.DecodeRune(t, u), 4
}

// PeekUTF32LE decodes one little endian UTF-32 code point
func PeekUTF32LE(in *Input, offset int) (rune, int) {
	return peekUTF32(in, offset, binary.LittleEndian)
}

// PeekUTF32BE decodes one big endian UTF-32 code point
func PeekUTF32BE(in *Input, offset int) (rune, int) {
	return peekUTF32(in, offset, binary.BigEndian)
}

func peekUTF32(in *Input, offset int, order binary.ByteOrder) (rune, int) {
	if in.Size()-offset < 4 {
		return 0, 0
	}
	t := order.Uint32(in.Bytes()[offset:])
	if t > utf8.MaxRune {
		return 0, 0
	}
	return rune(t), 4
}
