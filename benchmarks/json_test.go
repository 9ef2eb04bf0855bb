package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarete/peg"
)

func TestJSON(t *testing.T) {
	t.Run("grammar is safe from infinite loops", func(t *testing.T) {
		assert.Zero(t, peg.AnalyzeCount(JSON))
	})

	t.Run("valid documents", func(t *testing.T) {
		for _, doc := range []string{
			`null`,
			` true `,
			`-0.5e+10`,
			`"x"`,
			`[]`,
			`{}`,
			`[1, [2, [3]], {"a": {"b": []}}]`,
			"{\n  \"key\": \"value\",\n  \"n\": 12\n}\n",
			`"\u00e9\ud83d\ude00\"\\\/\b\f\n\r\t"`,
			`"raw é😀"`,
		} {
			assert.NoError(t, Validate([]byte(doc)), doc)
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, test := range []struct {
			doc string
			err string
		}{
			{``, "json:1:0: expected value"},
			{`[1,]`, "json:1:3: expected value"},
			{`[1 2]`, "json:1:3: incomplete array, expected ']'"},
			{`{"a" 1}`, "json:1:5: expected ':'"},
			{`{"a": 1,}`, "json:1:8: expected member"},
			{`{"a": 1 "b"}`, "json:1:8: incomplete object, expected '}'"},
			{`"abc`, "json:1:1: unterminated string"},
			{`"\q"`, "json:1:2: unknown escape sequence"},
			{`"\u12"`, "json:1:5: incomplete universal character name"},
			{"\"a\x01\"", "json:1:2: invalid character in string"},
			{`1.`, "json:1:2: expected at least one digit"},
			{`1 x`, "json:1:2: unexpected character after JSON value"},
		} {
			err := Validate([]byte(test.doc))
			require.Error(t, err, test.doc)
			assert.True(t, peg.IsParseError(err), test.doc)
			assert.Equal(t, test.err, err.Error(), test.doc)
		}
	})

	t.Run("lines and columns", func(t *testing.T) {
		err := Validate([]byte("[\n  1,\n  ]"))
		require.Error(t, err)
		var pe *peg.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 3, pe.Position().Line)
		assert.Equal(t, 2, pe.Position().Column)
	})
}

func TestStrings(t *testing.T) {
	t.Run("keys and values in order", func(t *testing.T) {
		got, err := Strings([]byte(`{"a\u00e9": ["x\n", 1, true, "y\"z"], "b": {"c": "\ud83d\ude00"}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"aé", "x\n", "y\"z", "b", "c", "😀"}, got)
	})

	t.Run("surrogate pairs", func(t *testing.T) {
		got, err := Strings([]byte(`["\ud83d\ude00!"]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"😀!"}, got)
	})

	t.Run("empty string", func(t *testing.T) {
		got, err := Strings([]byte(`[""]`))
		require.NoError(t, err)
		assert.Equal(t, []string{""}, got)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Strings([]byte(`["a`))
		assert.True(t, peg.IsParseError(err))
	})
}
