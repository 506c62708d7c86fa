package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/xtdb/peg/sql"
)

const uri = "file:///tmp/query.sql"

func newEngine(t *testing.T) *Engine {
	g, err := sql.NewGrammar(nil)
	require.NoError(t, err)
	return NewEngine(g)
}

func TestEngine_DidOpen(t *testing.T) {
	t.Run("valid documents have no diagnostics", func(t *testing.T) {
		e := newEngine(t)
		out := e.DidOpen(uri, "select a from t")
		assert.Equal(t, uri, out.URI)
		assert.NotNil(t, out.Diagnostics)
		assert.Empty(t, out.Diagnostics)

		text, ok := e.Text(uri)
		require.True(t, ok)
		assert.Equal(t, "select a from t", text)
	})

	t.Run("unexpected input is highlighted", func(t *testing.T) {
		e := newEngine(t)
		out := e.DidOpen(uri, "select a\nfrom from")
		require.Len(t, out.Diagnostics, 1)

		d := out.Diagnostics[0]
		assert.Equal(t, protocol.Range{
			Start: protocol.Position{Line: 1, Character: 5},
			End:   protocol.Position{Line: 1, Character: 9},
		}, d.Range)
		assert.Equal(t, `unexpected "from"`, d.Message)
		require.NotNil(t, d.Severity)
		assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
		require.NotNil(t, d.Source)
		assert.Equal(t, "peg", *d.Source)
	})

	t.Run("columns count UTF-16 code units", func(t *testing.T) {
		e := newEngine(t)
		out := e.DidOpen(uri, "select 'é😀' from")
		require.Len(t, out.Diagnostics, 1)
		assert.Equal(t, protocol.Position{Line: 0, Character: 17}, out.Diagnostics[0].Range.Start)
		assert.Equal(t, "expected <identifier>", out.Diagnostics[0].Message)
	})
}

func TestEngine_DidChange(t *testing.T) {
	e := newEngine(t)
	out := e.DidOpen(uri, "select")
	require.Len(t, out.Diagnostics, 1)

	out, ok := e.DidChange(uri, []any{protocol.TextDocumentContentChangeEventWhole{Text: "select a from t"}})
	require.True(t, ok)
	assert.Empty(t, out.Diagnostics)

	_, ok = e.DidChange(uri, []any{protocol.TextDocumentContentChangeEvent{Text: "b"}})
	assert.False(t, ok)
	_, ok = e.DidChange(uri, nil)
	assert.False(t, ok)

	text, _ := e.Text(uri)
	assert.Equal(t, "select a from t", text)
}

func TestEngine_DidSave(t *testing.T) {
	e := newEngine(t)
	e.DidOpen(uri, "select a from t")

	saved := "select a from"
	out := e.DidSave(uri, &saved)
	assert.Len(t, out.Diagnostics, 1)

	out = e.DidSave(uri, nil)
	assert.Len(t, out.Diagnostics, 1)
}

func TestEngine_DidClose(t *testing.T) {
	e := newEngine(t)
	e.DidOpen(uri, "select")

	out := e.DidClose(uri)
	assert.Equal(t, uri, out.URI)
	assert.NotNil(t, out.Diagnostics)
	assert.Empty(t, out.Diagnostics)

	_, ok := e.Text(uri)
	assert.False(t, ok)
}
