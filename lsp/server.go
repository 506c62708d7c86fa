package lsp

import (
	"github.com/pkg/errors"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/xtdb/peg"
)

const lsName = "peg"

// Server speaks LSP over stdio and publishes the diagnostics computed
// by its Engine
type Server struct {
	engine  *Engine
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(g *peg.Grammar, version string) *Server {
	s := &Server{engine: NewEngine(g), version: version}
	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return errors.Wrap(s.server.RunStdio(), "lsp")
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("%s %s ready", lsName, s.version)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	publish(ctx, s.engine.DidOpen(params.TextDocument.URI, params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if out, ok := s.engine.DidChange(params.TextDocument.URI, params.ContentChanges); ok {
		publish(ctx, out)
	} else {
		log.Warningf("%s: ignoring incremental change", params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	publish(ctx, s.engine.DidClose(params.TextDocument.URI))
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	publish(ctx, s.engine.DidSave(params.TextDocument.URI, params.Text))
	return nil
}

func publish(ctx *glsp.Context, params protocol.PublishDiagnosticsParams) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
