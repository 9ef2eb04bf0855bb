package peg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinators(t *testing.T) {
	ab := Seq(One('a'), One('b'))

	for _, test := range []struct {
		name  string
		rule  Rule
		input string
		ok    bool
		rest  string
	}{
		{"seq", ab, "abc", true, "c"},
		{"seq rewinds on failure", ab, "ac", false, "ac"},
		{"empty seq", Seq(), "a", true, "a"},
		{"sor first", Sor(One('a'), Any()), "ab", true, "b"},
		{"sor falls through", Sor(One('a'), Any()), "b", true, ""},
		{"sor mismatch", Sor(One('a'), One('b')), "c", false, "c"},
		{"sor rewinds each alternative", Sor(ab, One('a')), "ac", true, "c"},
		{"empty sor", Sor(), "a", false, "a"},
		{"opt match", Opt(One('a')), "ab", true, "b"},
		{"opt mismatch", Opt(One('a')), "b", true, "b"},
		{"opt several", Opt(One('a'), One('b')), "ac", true, "ac"},
		{"at", At(ab), "ab", true, "ab"},
		{"at mismatch", At(ab), "ac", false, "ac"},
		{"not at", NotAt(ab), "ac", true, "ac"},
		{"not at mismatch", NotAt(ab), "ab", false, "ab"},
		{"until", Until(One(';')), "abc;d", true, "d"},
		{"until runs out", Until(One(';')), "abc", false, "abc"},
		{"until with body", Until(One(';'), Range('a', 'z')), "ab;", true, ""},
		{"until body mismatch", Until(One(';'), Range('a', 'z')), "a1;", false, "a1;"},
		{"until right away", Until(Eof()), "", true, ""},
		{"if then else then", IfThenElse(One('a'), One('b'), One('c')), "abx", true, "x"},
		{"if then else else", IfThenElse(One('a'), One('b'), One('c')), "cx", true, "x"},
		{"if then else no going back", IfThenElse(One('a'), One('b'), One('a')), "ac", false, "ac"},
		{"list", List(Range('0', '9'), One(',')), "1,2,3;", true, ";"},
		{"list leaves a trailing separator", List(Range('0', '9'), One(',')), "1,2,", true, ","},
		{"list tail", ListTail(Range('0', '9'), One(',')), "1,2,", true, ""},
		{"list needs one element", List(Range('0', '9'), One(',')), ",", false, ","},
		{"pad", Pad(One('x'), One(' ')), "  x  y", true, "y"},
		{"pad opt", PadOpt(One('x'), One(' ')), "   y", true, "y"},
		{"star must", StarMust(One('+'), Range('0', '9')), "+1+2;", true, ";"},
		{"disable", Disable(ab), "ab", true, ""},
		{"try catch", TryCatch(One('a'), Must(One('b'))), "ac", false, "ac"},
		{"try catch match", TryCatch(One('a'), Must(One('b'))), "ab", true, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			ok, rest := match(t, test.rule, test.input)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.rest, rest)
		})
	}

	t.Run("lookahead is idempotent", func(t *testing.T) {
		in := NewStringInput("ab", "test")
		for i := 0; i < 3; i++ {
			ok, err := ParseInput(At(ab), in)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 0, in.Offset())
		}
	})

	t.Run("must raises where the rule failed", func(t *testing.T) {
		in := NewStringInput("ac", "test")
		ok, err := ParseInput(Seq(One('a'), Must(One('b'))), in)
		assert.False(t, ok)
		require.Error(t, err)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 1, pe.Position().Column)
		assert.Equal(t, "parse error matching [b]", pe.Message)
		assert.Equal(t, 0, in.Offset())
	})

	t.Run("must with several rules raises for the first that fails", func(t *testing.T) {
		in := NewStringInput("abd", "test")
		_, err := ParseInput(Must(One('a'), One('b'), One('c')), in)
		require.Error(t, err)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "parse error matching [c]", pe.Message)
		assert.Equal(t, 2, pe.Position().Offset)
	})

	t.Run("must error escapes sor", func(t *testing.T) {
		_, err := ParseString(Sor(Seq(One('a'), Must(One('b'))), Any()), "ac", "test")
		assert.True(t, IsParseError(err))
	})

	t.Run("must error escapes opt and star", func(t *testing.T) {
		_, err := ParseString(Opt(One('a'), Must(One('b'))), "ac", "test")
		assert.True(t, IsParseError(err))
		_, err = ParseString(Star(One('a'), Must(One('b'))), "abac", "test")
		assert.True(t, IsParseError(err))
	})

	t.Run("if must", func(t *testing.T) {
		ok, rest := match(t, IfMust(One('a'), One('b')), "c")
		assert.False(t, ok)
		assert.Equal(t, "c", rest)

		_, err := ParseString(IfMust(One('a'), One('b')), "ac", "test")
		assert.True(t, IsParseError(err))
	})

	t.Run("if must else", func(t *testing.T) {
		r := IfMustElse(One('a'), One('b'), One('c'))
		ok, rest := match(t, r, "ab")
		assert.True(t, ok)
		assert.Equal(t, "", rest)

		_, err := ParseString(r, "ax", "test")
		assert.True(t, IsParseError(err))
		_, err = ParseString(r, "x", "test")
		assert.True(t, IsParseError(err))
	})

	t.Run("list must", func(t *testing.T) {
		r := ListMust(Range('0', '9'), One(','))
		ok, rest := match(t, r, "1,2")
		assert.True(t, ok)
		assert.Equal(t, "", rest)

		_, err := ParseString(r, "1,", "test")
		assert.True(t, IsParseError(err))
	})

	t.Run("try catch keeps errors that aren't parse errors", func(t *testing.T) {
		boom := errors.New("boom")
		r := TryCatch(Define("word", Plus(Range('a', 'z'))))
		_, err := ParseString(r, "abc", "test", WithActionsOption(Actions{
			"word": func(*Input, ...any) error { return boom },
		}))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, "Seq([a], [b])", Name(ab))
		assert.Equal(t, "Sor([a], .)", Name(Sor(One('a'), Any())))
		assert.Equal(t, "Opt([a])", Name(Opt(One('a'))))
		assert.Equal(t, "NotAt(Eof)", Name(NotAt(Eof())))
		assert.Equal(t, "Must([a], [b])", Name(Must(One('a'), One('b'))))
		assert.Equal(t, "List([a], [,])", Name(List(One('a'), One(','))))
		assert.Equal(t, "IfThenElse([a], [b], [c])", Name(IfThenElse(One('a'), One('b'), One('c'))))
	})
}

func TestRepetition(t *testing.T) {
	a := One('a')

	for _, test := range []struct {
		name  string
		rule  Rule
		input string
		ok    bool
		rest  string
	}{
		{"star none", Star(a), "b", true, "b"},
		{"star many", Star(a), "aaab", true, "b"},
		{"star to the end", Star(a), "aaa", true, ""},
		{"star several rules", Star(a, One('b')), "ababa", true, "a"},
		{"plus", Plus(a), "aab", true, "b"},
		{"plus none", Plus(a), "b", false, "b"},
		{"rep", Rep(2, a), "aaa", true, "a"},
		{"rep too few", Rep(3, a), "aab", false, "aab"},
		{"rep zero", Rep(0, a), "aaa", true, "aaa"},
		{"rep min max within bounds", RepMinMax(1, 2, a), "aab", true, "b"},
		{"rep min max too many", RepMinMax(1, 2, a), "aaa", false, "aaa"},
		{"rep min max too few", RepMinMax(2, 3, a), "ab", false, "ab"},
		{"rep min max at the end", RepMinMax(1, 2, a), "aa", true, ""},
		{"rep min max zero", RepMinMax(0, 0, a), "b", true, "b"},
		{"rep min max zero mismatch", RepMinMax(0, 0, a), "a", false, "a"},
		{"rep min", RepMin(2, a), "aaaab", true, "b"},
		{"rep min too few", RepMin(2, a), "ab", false, "ab"},
		{"rep max", RepMax(2, a), "b", true, "b"},
		{"rep max too many", RepMax(2, a), "aaa", false, "aaa"},
		{"rep opt", RepOpt(2, a), "aaa", true, "a"},
		{"rep opt none", RepOpt(2, a), "b", true, "b"},
	} {
		t.Run(test.name, func(t *testing.T) {
			ok, rest := match(t, test.rule, test.input)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.rest, rest)
		})
	}

	t.Run("invalid bounds panic", func(t *testing.T) {
		assert.Panics(t, func() { Rep(-1, a) })
		assert.Panics(t, func() { RepMinMax(3, 2, a) })
		assert.Panics(t, func() { RepMinMax(-1, 2, a) })
	})

	t.Run("the extra match doesn't run actions", func(t *testing.T) {
		calls := 0
		r := RepMinMax(1, 2, Define("a", a))
		ok, _ := match(t, r, "aaa", WithActionsOption(Actions{
			"a": func(*Input, ...any) error { calls++; return nil },
		}))
		assert.False(t, ok)
		assert.Equal(t, 2, calls)
	})

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, "Star([a])", Name(Star(a)))
		assert.Equal(t, "Rep<3>([a])", Name(Rep(3, a)))
		assert.Equal(t, "RepMinMax<1,2>([a])", Name(RepMinMax(1, 2, a)))
		assert.Equal(t, "RepMin<2>([a])", Name(RepMin(2, a)))
		assert.Equal(t, "RepOpt<2>([a])", Name(RepOpt(2, a)))
	})
}
