package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeBuilder(t *testing.T) {
	key := Define("key", Plus(Range('a', 'z')))
	value := Define("value", Plus(Range('0', '9')))
	pair := Define("pair", key, One('='), value)

	t.Run("records successful matches", func(t *testing.T) {
		builder := NewTreeBuilder()
		data := []byte("ab=12")
		ok, err := Parse(pair, data, "test", WithControlOption(builder))
		require.NoError(t, err)
		require.True(t, ok)

		root := builder.Root()
		require.NotNil(t, root)
		assert.Equal(t, "pair", root.Name)
		require.Len(t, root.Children, 2)
		assert.Equal(t, "ab", root.Children[0].Text(data))
		assert.Equal(t, "12", root.Children[1].Text(data))
		assert.Equal(t, "pair (0..5)\n├── key (0..2)\n└── value (3..5)", root.String())
	})

	t.Run("recovered hard failures", func(t *testing.T) {
		builder := NewTreeBuilder()
		tail := Define("tail", One('c'))
		root := Define("root", Sor(TryCatch(Define("inner", One('a'), Must(One('x')))), Seq(One('a'), tail)))
		ok, err := ParseString(root, "ac", "test", WithControlOption(builder))
		require.NoError(t, err)
		require.True(t, ok)

		assert.Empty(t, builder.stack)
		require.NotNil(t, builder.Root())
		assert.Equal(t, "root (0..2)\n└── tail (1..2)", builder.Root().String())
	})

	t.Run("drops failed matches", func(t *testing.T) {
		builder := NewTreeBuilder()
		r := Sor(Seq(key, One(';')), value)
		ok, err := ParseString(r, "12", "test", WithControlOption(builder))
		require.NoError(t, err)
		require.True(t, ok)

		require.Len(t, builder.Roots(), 1)
		assert.Equal(t, "value (0..2)", builder.Root().String())
	})

	t.Run("drops what matched within a failed rule", func(t *testing.T) {
		builder := NewTreeBuilder()
		r := Sor(Define("pair", key, One('='), value), key)
		ok, err := ParseString(r, "ab=", "test", WithControlOption(builder))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "key (0..2)", builder.Root().String())
	})

	t.Run("reset", func(t *testing.T) {
		builder := NewTreeBuilder()
		_, err := ParseString(pair, "a=1", "test", WithControlOption(builder))
		require.NoError(t, err)
		builder.Reset()
		assert.Nil(t, builder.Root())
		assert.Empty(t, builder.Roots())
	})

	t.Run("spans over several lines", func(t *testing.T) {
		builder := NewTreeBuilder()
		lines := Define("lines", List(key, Eol()))
		ok, err := ParseString(lines, "ab\ncd", "test", WithControlOption(builder))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "lines (1:0..2:2)\n├── key (0..2)\n└── key (2:0..2:2)", builder.Root().String())
	})
}

func TestPrintRule(t *testing.T) {
	key := Define("key", Plus(Range('a', 'z')))
	value := Define("value", Plus(Range('0', '9')))

	t.Run("named rule", func(t *testing.T) {
		pair := Define("pair", key, One('='), value)
		assert.Equal(t, "pair\n└── Seq\n    ├── key\n    ├── [=]\n    └── value", PrintRule(pair))
	})

	t.Run("nested composites", func(t *testing.T) {
		r := Sor(Seq(key, Opt(One(';'))), Eof())
		assert.Equal(t, "Sor\n├── Seq\n│   ├── key\n│   └── Opt\n│       └── [;]\n└── Eof", PrintRule(r))
	})

	t.Run("undefined rule", func(t *testing.T) {
		assert.Equal(t, "x (undefined)", PrintRule(Declare("x")))
	})

	t.Run("format", func(t *testing.T) {
		format := func(input string, token FormatToken) string {
			if token == FormatToken_Operand {
				return "<" + input + ">"
			}
			return input
		}
		assert.Equal(t, "Opt\n└── <key>", FormatRule(Opt(key), format))
	})
}
