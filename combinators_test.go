package peg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(s string) Parser { return Lit(s, DefaultWhitespace) }

func attempt(p Parser, in string, hide bool) (Result, bool, *ParseErrors) {
	errs := NewParseErrors()
	res, ok := p.Parse(in, 0, NewMemo(8, len(in)), errs, hide)
	return res, ok, errs
}

func TestCat(t *testing.T) {
	t.Run("matches in sequence", func(t *testing.T) {
		res, ok, _ := attempt(Cat(lit("a"), lit("b")), "a b", false)
		require.True(t, ok)
		assert.Equal(t, 3, res.Next)
		assert.Equal(t, []any{"a", "b"}, Data(res.Value))
	})

	t.Run("fails as a whole", func(t *testing.T) {
		_, ok, errs := attempt(Cat(lit("a"), lit("b")), "a c", false)
		require.False(t, ok)
		assert.Equal(t, 2, errs.Index())
		assert.Equal(t, []string{"b"}, errs.Expected())
	})

	t.Run("hidden", func(t *testing.T) {
		res, ok, _ := attempt(Cat(lit("a"), lit("b")), "ab", true)
		require.True(t, ok)
		assert.Equal(t, 2, res.Next)
		assert.Equal(t, 0, res.Value.Len())
	})
}

func TestOrd(t *testing.T) {
	t.Run("first match wins even if a later one is longer", func(t *testing.T) {
		res, ok, _ := attempt(Ord(lit("a"), lit("ab")), "ab", false)
		require.True(t, ok)
		assert.Equal(t, 1, res.Next)
		assert.Equal(t, []any{"a"}, Data(res.Value))
	})

	t.Run("later alternatives aren't attempted after a match", func(t *testing.T) {
		second := &counting{Parser: lit("a")}
		_, ok, _ := attempt(Ord(lit("a"), second), "a", false)
		require.True(t, ok)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("fails when nothing matches", func(t *testing.T) {
		_, ok, errs := attempt(Ord(lit("x"), lit("y")), "z", false)
		require.False(t, ok)
		assert.Equal(t, []string{"x", "y"}, errs.Expected())
	})
}

func TestAlt(t *testing.T) {
	t.Run("longest match wins", func(t *testing.T) {
		res, ok, _ := attempt(Alt(lit("a"), lit("ab")), "ab", false)
		require.True(t, ok)
		assert.Equal(t, 2, res.Next)
		assert.Equal(t, []any{"ab"}, Data(res.Value))
	})

	t.Run("first match wins ties", func(t *testing.T) {
		word := MustRegexp(`[a-z]+`, "", func(m Match) Fragment { return Of("word:" + m.Text()) }, nil)
		res, ok, _ := attempt(Alt(word, lit("ab")), "ab", false)
		require.True(t, ok)
		assert.Equal(t, 2, res.Next)
		assert.Equal(t, []any{"word:ab"}, Data(res.Value))
	})

	t.Run("every alternative is attempted", func(t *testing.T) {
		last := &counting{Parser: lit("x")}
		_, ok, errs := attempt(Alt(lit("ab"), lit("a"), last), "ab", false)
		require.True(t, ok)
		assert.Equal(t, 1, last.calls)
		assert.Equal(t, []string{"x"}, errs.Expected())
	})

	t.Run("fails when nothing matches", func(t *testing.T) {
		_, ok, errs := attempt(Alt(lit("x"), lit("y")), "z", false)
		require.False(t, ok)
		assert.Equal(t, []string{"x", "y"}, errs.Expected())
	})
}

func TestOpt(t *testing.T) {
	res, ok, _ := attempt(Opt(lit("a")), "b", false)
	require.True(t, ok)
	assert.Equal(t, 0, res.Next)
	assert.Equal(t, 0, res.Value.Len())

	res, ok, _ = attempt(Opt(lit("a")), "a", false)
	require.True(t, ok)
	assert.Equal(t, 1, res.Next)
}

func TestRepeat(t *testing.T) {
	t.Run("star matches nothing", func(t *testing.T) {
		res, ok, _ := attempt(Star(lit("a")), "b", false)
		require.True(t, ok)
		assert.Equal(t, 0, res.Next)
		assert.Equal(t, 0, res.Value.Len())
	})

	t.Run("star matches as much as it can", func(t *testing.T) {
		res, ok, _ := attempt(Star(lit("a")), "a a a", false)
		require.True(t, ok)
		assert.Equal(t, 5, res.Next)
		assert.Equal(t, []any{"a", "a", "a"}, Data(res.Value))
	})

	t.Run("plus needs a match", func(t *testing.T) {
		_, ok, errs := attempt(Plus(lit("a")), "b", false)
		require.False(t, ok)
		assert.Equal(t, []string{"a"}, errs.Expected())

		res, ok, _ := attempt(Plus(lit("a")), "aa", false)
		require.True(t, ok)
		assert.Equal(t, 2, res.Next)
		assert.Equal(t, []any{"a", "a"}, Data(res.Value))
	})

	t.Run("stops on matches that consume nothing", func(t *testing.T) {
		res, ok, _ := attempt(Star(Opt(lit("a"))), "b", false)
		require.True(t, ok)
		assert.Equal(t, 0, res.Next)

		res, ok, _ = attempt(Plus(Opt(lit("a"))), "a a b", false)
		require.True(t, ok)
		assert.Equal(t, 4, res.Next)
	})

	t.Run("hidden", func(t *testing.T) {
		res, ok, _ := attempt(Star(lit("a")), "aaa", true)
		require.True(t, ok)
		assert.Equal(t, 3, res.Next)
		assert.Equal(t, 0, res.Value.Len())
	})
}

func TestNeg(t *testing.T) {
	t.Run("fails with what the parser would have consumed", func(t *testing.T) {
		_, ok, errs := attempt(Neg(lit("select")), "select x", false)
		require.False(t, ok)
		assert.Equal(t, 0, errs.Index())
		assert.Equal(t, []ErrorRecord{UnexpectedRecord("select ")}, errs.Errors())
	})

	t.Run("matches without consuming where the parser fails", func(t *testing.T) {
		res, ok, errs := attempt(Neg(lit("select")), "foo", false)
		require.True(t, ok)
		assert.Equal(t, 0, res.Next)
		assert.Equal(t, 0, res.Value.Len())
		assert.Empty(t, errs.Errors())
	})

	t.Run("reports at the index it was attempted", func(t *testing.T) {
		p := Cat(lit("a"), Neg(lit("b")), MustRegexp(`[a-z]+`, "<word>", nil, nil))
		_, ok, errs := attempt(p, "a bc", false)
		require.False(t, ok)
		assert.Equal(t, 2, errs.Index())
		assert.Equal(t, []ErrorRecord{UnexpectedRecord("b")}, errs.Errors())
	})
}

func TestHide(t *testing.T) {
	res, ok, _ := attempt(Cat(Hide(Cat(lit("a"), lit("b"))), lit("c")), "abc", false)
	require.True(t, ok)
	assert.Equal(t, 3, res.Next)
	assert.Equal(t, []any{"c"}, Data(res.Value))
}

func TestFurthestFailure(t *testing.T) {
	p := Ord(
		Cat(lit("abc"), lit("x")),
		Cat(lit("abcde"), lit("y")),
	)
	_, ok, errs := attempt(p, "abcdez", false)
	require.False(t, ok)
	assert.Equal(t, 5, errs.Index())
	assert.Equal(t, []ErrorRecord{ExpectedRecord("y")}, errs.Errors())
}

// counting tracks how many times its parser is attempted
type counting struct {
	Parser
	calls int
}

func (c *counting) Parse(in string, idx int, memo *Memo, errs ErrorSink, hide bool) (Result, bool) {
	c.calls++
	return c.Parser.Parse(in, idx, memo, errs, hide)
}
