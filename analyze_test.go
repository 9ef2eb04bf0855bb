package peg

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	t.Run("left recursion", func(t *testing.T) {
		x := Declare("x")
		x.Set(Sor(x, One('a')))

		a := Analyze(x)
		require.Equal(t, 1, a.Problems())
		assert.Equal(t, "problem: cycle without progress detected at rule x", a.Findings()[0].String())
	})

	t.Run("recursion after consuming input", func(t *testing.T) {
		x := Declare("x")
		x.Set(One('a'), Opt(x))

		a := Analyze(x)
		assert.Equal(t, 0, a.Problems())
		assert.True(t, a.Consumes(x))
	})

	t.Run("recursion after optional input", func(t *testing.T) {
		x := Declare("x")
		x.Set(Opt(One('a')), x, One('b'))
		assert.Equal(t, 1, AnalyzeCount(x))
	})

	t.Run("recursion through every alternative", func(t *testing.T) {
		x := Declare("x")
		x.Set(Sor(One('a'), Seq(Opt(One('b')), x)))
		assert.NotZero(t, AnalyzeCount(x))
	})

	t.Run("star of a rule that may not consume", func(t *testing.T) {
		assert.Equal(t, 1, AnalyzeCount(Star(Opt(One('a')))))
		assert.Equal(t, 1, AnalyzeCount(Star(Eof())))
		assert.NotZero(t, AnalyzeCount(Plus(Success())))
		assert.NotZero(t, AnalyzeCount(Until(Eof(), Opt(One('a')))))
	})

	t.Run("repetitions that consume", func(t *testing.T) {
		for _, r := range []Rule{
			Star(One('a')),
			Plus(One('a')),
			Star(Seq(Opt(One('a')), One('b'))),
			Until(Eof()),
			Until(One(';'), Range('a', 'z')),
			List(Alpha, One(',')),
			Pad(Identifier, Space),
			RepMin(2, Digit),
			Star(IfThenElse(One('a'), One('b'), One('c'))),
		} {
			assert.Equal(t, 0, AnalyzeCount(r), Name(r))
		}
	})

	t.Run("each problem is reported once", func(t *testing.T) {
		// the star is reached again from the pass starting at Until
		a := Analyze(Until(Eof(), Opt(One('a'))))
		assert.Equal(t, 1, a.Problems())
	})

	t.Run("zero repetitions may not consume", func(t *testing.T) {
		assert.Equal(t, 1, AnalyzeCount(Star(String(""))))
		assert.Equal(t, 0, AnalyzeCount(Star(String("a"))))
		assert.Equal(t, 1, AnalyzeCount(Star(Rep(0, One('a')))))
		assert.Equal(t, 1, AnalyzeCount(Star(RepMinMax(0, 2, One('a')))))
	})

	t.Run("declared but never defined", func(t *testing.T) {
		y := Declare("y")
		a := Analyze(Seq(One('a'), y))
		require.Equal(t, 1, a.Problems())
		assert.Equal(t, Finding{Rule: "y", Message: "rule declared but never defined"}, a.Findings()[0])
	})

	t.Run("consumes", func(t *testing.T) {
		opt := Opt(One('a'))
		one := One('b')
		a := Analyze(Seq(opt, one))
		assert.False(t, a.Consumes(opt))
		assert.True(t, a.Consumes(one))
		assert.False(t, a.Consumes(One('c')))
		assert.Equal(t, 4, a.Rules())
	})

	t.Run("report", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Analyze(Star(Eof())).Report(&buf))
		assert.Equal(t, "problem: cycle without progress detected at rule Star(Eof)\n", buf.String())
	})

	t.Run("log", func(t *testing.T) {
		var buf bytes.Buffer
		log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn, DisableTime: true})
		Analyze(Star(Eof())).Log(log)
		assert.Contains(t, buf.String(), "[WARN]")
		assert.Contains(t, buf.String(), "cycle without progress detected")
		assert.Contains(t, buf.String(), "Star(Eof)")
	})
}
