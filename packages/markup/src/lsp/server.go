package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"markup-go/packages/markup/src/ml_parser"
)

const lsName = "markup"

var lspLog = commonlog.GetLogger("markup.lsp")

// Server is a language server publishing the diagnostics, symbols and
// folding ranges of markup documents
type Server struct {
	handler protocol.Handler
	server  *server.Server
	parser  *ml_parser.Parser
	version string

	mu        sync.Mutex
	documents map[protocol.DocumentUri]*Document
}

// NewServer creates a new Server parsing documents with parser
func NewServer(version string, parser *ml_parser.Parser) *Server {
	ls := &Server{
		parser:    parser,
		version:   version,
		documents: make(map[protocol.DocumentUri]*Document),
	}
	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
	}
	ls.server = server.NewServer(&ls.handler, lsName, false)
	return ls
}

// RunStdio serves the protocol over standard input and output
func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Document returns the open document uri, or nil
func (ls *Server) Document(uri protocol.DocumentUri) *Document {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.documents[uri]
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	lspLog.Info("initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := NewDocument(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text, ls.parser)
	ls.mu.Lock()
	ls.documents[doc.URI] = doc
	ls.mu.Unlock()
	lspLog.Debugf("opened %s", doc.URI)
	ls.publishDiagnostics(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc := ls.Document(params.TextDocument.URI)
	if doc == nil {
		lspLog.Warningf("change to unopened document %s", params.TextDocument.URI)
		return nil
	}
	ls.mu.Lock()
	doc.ApplyChanges(params.TextDocument.Version, params.ContentChanges)
	ls.mu.Unlock()
	ls.publishDiagnostics(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.Document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return doc.Symbols(), nil
}

func (ls *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := ls.Document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return doc.FoldingRanges(), nil
}

func (ls *Server) publishDiagnostics(ctx *glsp.Context, doc *Document) {
	ls.mu.Lock()
	diagnostics := doc.Diagnostics()
	version := protocol.UInteger(doc.Version)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
