package diag

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtdb/peg"
)

func keywordGrammar(t *testing.T) *peg.Grammar {
	b, err := peg.NewBuilder(nil)
	require.NoError(t, err)
	ident := peg.Cat(peg.Neg(b.Lit("from")), b.Regexp(`[a-z]+`, "<identifier>", nil))
	b.Define("query", peg.AlwaysWrap, peg.Cat(b.Lit("select"), ident, b.Lit("from"), ident))
	g, err := b.Build("query")
	require.NoError(t, err)
	return g
}

func TestFromError(t *testing.T) {
	g := keywordGrammar(t)

	t.Run("expected", func(t *testing.T) {
		input := "select a\nfrom"
		_, err := g.Parse(input)
		require.Error(t, err)

		d := FromError(err, input)
		assert.Equal(t, 2, d.Line())
		assert.Equal(t, 5, d.Column())
		assert.Equal(t, d.Start, d.End)
		assert.Equal(t, "expected <identifier>", d.Message)
		assert.Equal(t, []string{"<identifier>"}, d.Expected)
		assert.Equal(t, "q.sql:2:5: expected <identifier>", d.Format("q.sql"))
		assert.Equal(t, "2:5: error: expected <identifier>", d.String())
	})

	t.Run("unexpected input spans what was found", func(t *testing.T) {
		input := "select from from t"
		_, err := g.Parse(input)
		require.Error(t, err)

		d := FromError(err, input)
		assert.Equal(t, 1, d.Line())
		assert.Equal(t, 8, d.Column())
		assert.Equal(t, 13, d.End.Column)
		assert.Equal(t, []string{"from "}, d.Unexpected)
		assert.Equal(t, `unexpected "from "`, d.Message)
	})

	t.Run("wrapped parse errors", func(t *testing.T) {
		input := "select a from"
		_, err := g.Parse(input)
		d := FromError(errors.Wrap(err, "query.sql"), input)
		assert.Equal(t, 1, d.Line())
		assert.Equal(t, 14, d.Column())
	})

	t.Run("other errors", func(t *testing.T) {
		d := FromError(errors.New("boom"), "abc")
		assert.Equal(t, Location{Line: 1, Column: 1}, d.Start)
		assert.Equal(t, "boom", d.Message)
		assert.Empty(t, d.Expected)
		assert.Equal(t, SeverityError, d.Severity)
	})
}
