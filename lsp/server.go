// Package lsp serves recovered syntax errors and name completion for Python
// files over the Language Server Protocol.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/pyparse/codebase"
	"github.com/dhamidi/pyparse/python/parser"
)

const lsName = "pyparse"

var log = commonlog.GetLogger("pyparse.lsp")

type Server struct {
	codebase *codebase.Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu      sync.Mutex
	notify  glsp.NotifyFunc
	watcher *codebase.FileWatcher
}

func NewServer(version string) *Server {
	ls := &Server{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	log.Infof("workspace root: %s", rootDir)

	ls.codebase = codebase.New(rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}

	w, err := codebase.NewFileWatcher(ls.codebase, ls.publishFromWatcher)
	if err != nil {
		log.Errorf("watch %s: %s", ls.codebase.RootDir(), err)
		return nil
	}
	w.Start()
	ls.mu.Lock()
	ls.watcher = w
	ls.mu.Unlock()
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	w := ls.watcher
	ls.watcher = nil
	ls.mu.Unlock()
	if w != nil {
		return w.Stop()
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx.Notify, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx.Notify, params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx.Notify, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		log.Errorf("scan %s: %s", path, err)
		return nil
	}
	ls.publish(ctx.Notify, params.TextDocument.URI, path)
	return nil
}

func (ls *Server) update(notify glsp.NotifyFunc, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		log.Errorf("bad document URI %q: %s", uri, err)
		return
	}
	if err := ls.codebase.UpdateFile(path, content); err != nil {
		log.Errorf("update %s: %s", path, err)
		return
	}
	ls.publish(notify, uri, path)
}

func (ls *Server) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, path string) {
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(ls.codebase.Diagnostics(path)),
	})
}

func (ls *Server) publishFromWatcher(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	ls.publish(notify, pathToURI(path), path)
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText

		items = append(items, protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		})
	}

	return items, nil
}

// toDiagnostics converts syntax errors to zero-based LSP ranges that cover the
// offending token.
func toDiagnostics(errs []*parser.SyntaxError) []protocol.Diagnostic {
	diags := make([]protocol.Diagnostic, 0, len(errs))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, e := range errs {
		start := protocol.Position{
			Line:      protocol.UInteger(e.Pos.Line - 1),
			Character: protocol.UInteger(e.Pos.Column),
		}
		end := start
		if !strings.Contains(e.Token, "\n") {
			end.Character += protocol.UInteger(len(e.Token))
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Source:   &source,
			Message:  e.Msg,
		})
	}
	return diags
}

func toProtocolKind(kind codebase.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case codebase.CompletionKindName:
		return protocol.CompletionItemKindVariable
	case codebase.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
