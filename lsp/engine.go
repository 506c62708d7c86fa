package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/xtdb/peg"
	"github.com/xtdb/peg/diag"
)

var log = commonlog.GetLogger("peg.lsp")

const source = "peg"

// Engine is the transport-independent core of the language server.
// It keeps the text of the open documents and turns parse failures
// into LSP diagnostics.
type Engine struct {
	grammar *peg.Grammar

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

func NewEngine(g *peg.Grammar) *Engine {
	return &Engine{grammar: g, docs: map[protocol.DocumentUri]string{}}
}

func (e *Engine) DidOpen(uri protocol.DocumentUri, text string) protocol.PublishDiagnosticsParams {
	e.set(uri, text)
	return e.Diagnose(uri, text)
}

// DidChange only supports full document sync.  Changes carrying
// ranges are ignored and ok is false.
func (e *Engine) DidChange(uri protocol.DocumentUri, changes []any) (params protocol.PublishDiagnosticsParams, ok bool) {
	if len(changes) == 0 {
		return params, false
	}
	whole, ok := changes[len(changes)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return params, false
	}
	e.set(uri, whole.Text)
	return e.Diagnose(uri, whole.Text), true
}

// DidSave diagnoses the saved text when the client sends it, and the
// text known from the last change otherwise
func (e *Engine) DidSave(uri protocol.DocumentUri, text *string) protocol.PublishDiagnosticsParams {
	if text != nil {
		e.set(uri, *text)
		return e.Diagnose(uri, *text)
	}
	current, _ := e.Text(uri)
	return e.Diagnose(uri, current)
}

// DidClose forgets the document and clears its diagnostics
func (e *Engine) DidClose(uri protocol.DocumentUri) protocol.PublishDiagnosticsParams {
	e.mu.Lock()
	delete(e.docs, uri)
	e.mu.Unlock()
	return protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: []protocol.Diagnostic{}}
}

// Text returns the last known text of an open document
func (e *Engine) Text(uri protocol.DocumentUri) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, ok := e.docs[uri]
	return text, ok
}

func (e *Engine) set(uri protocol.DocumentUri, text string) {
	e.mu.Lock()
	e.docs[uri] = text
	e.mu.Unlock()
}

// Diagnose parses `text` and reports at most one diagnostic, for the
// furthest failure.  A successful parse publishes an empty list so
// stale diagnostics are cleared.
func (e *Engine) Diagnose(uri protocol.DocumentUri, text string) protocol.PublishDiagnosticsParams {
	out := protocol.PublishDiagnosticsParams{URI: uri, Diagnostics: []protocol.Diagnostic{}}
	if _, err := e.grammar.Parse(text); err != nil {
		ix := diag.NewIndex(text)
		d := ix.FromError(err)
		log.Debugf("%s: %s", uri, d)
		out.Diagnostics = append(out.Diagnostics, toLspDiagnostic(ix, d))
	}
	return out
}

func toLspDiagnostic(ix *diag.Index, d diag.Diagnostic) protocol.Diagnostic {
	var (
		severity = toLspSeverity(d.Severity)
		src      = source
	)
	return protocol.Diagnostic{
		Range:    toLspRange(ix, d.Span),
		Severity: &severity,
		Source:   &src,
		Message:  d.Message,
	}
}

func toLspRange(ix *diag.Index, s diag.Span) protocol.Range {
	return protocol.Range{
		Start: toLspPosition(ix, s.Start.Cursor),
		End:   toLspPosition(ix, s.End.Cursor),
	}
}

func toLspPosition(ix *diag.Index, cursor int) protocol.Position {
	line, char := ix.UTF16At(cursor)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func toLspSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}
