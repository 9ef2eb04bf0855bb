package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharset(t *testing.T) {
	t.Run("sized after the largest code point", func(t *testing.T) {
		assert.Equal(t, charsetSize_ASCII, newCharsetFromRunes([]rune("az")).mcp)
		assert.Equal(t, charsetSize_Latin1, newCharsetFromRunes([]rune("é")).mcp)
		assert.Equal(t, charsetSize_BMP, newCharsetFromRunes([]rune("€")).mcp)
		assert.Equal(t, charsetSize_Unicode, newCharsetFromRunes([]rune("😀")).mcp)
	})

	t.Run("membership", func(t *testing.T) {
		cs := newCharsetFromRanges([]rune{'a', 'c', 'x'})
		for _, r := range "abcx" {
			assert.True(t, cs.has(r), "%c", r)
		}
		for _, r := range "dwyz" {
			assert.False(t, cs.has(r), "%c", r)
		}
		assert.False(t, cs.has(-1))
		assert.False(t, cs.has('😀'))
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "[a-z]", newCharsetFromRanges([]rune{'a', 'z'}).String())
		assert.Equal(t, "[abx]", newCharsetFromRunes([]rune("xba")).String())
		assert.Equal(t, `[\t\n]`, newCharsetFromRunes([]rune("\n\t")).String())
	})

	t.Run("invalid range panics", func(t *testing.T) {
		assert.Panics(t, func() { newCharsetFromRanges([]rune{'z', 'a'}) })
		assert.Panics(t, func() { newCharsetFromRanges([]rune{-1}) })
	})
}
