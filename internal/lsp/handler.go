package lsp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/compiler"
)

var log = commonlog.GetLogger("power.lsp")

// Define the set of supported semantic token types advertised in the legend
var SemanticTokenTypes = []string{
	"function",
	"variable",
	"keyword",
	"number",
	"operator",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// Keywords offered by completion
var Keywords = []string{
	"const", "else", "export", "false", "if", "import", "let", "return", "true", "var", "while",
}

// PowerHandler implements the LSP server handlers for power sources
type PowerHandler struct {
	mu      sync.RWMutex
	content map[string]string
	asts    map[string]ast.Program
}

// NewPowerHandler creates and returns a new PowerHandler instance
func NewPowerHandler() *PowerHandler {
	return &PowerHandler{
		content: make(map[string]string),
		asts:    make(map[string]ast.Program),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *PowerHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *PowerHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("power LSP initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *PowerHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("power LSP shutdown")
	return nil
}

func (h *PowerHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	log.Debugf("trace set to %s", params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *PowerHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened file: %s", params.TextDocument.URI)

	diagnostics, err := h.update(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		return fmt.Errorf("failed to update AST: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *PowerHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.asts, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server advertises full sync, so the last change carries the whole text.
func (h *PowerHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed file: %s", params.TextDocument.URI)

	text, ok := lastFullText(params.ContentChanges)
	if !ok {
		return nil
	}

	diagnostics, err := h.update(params.TextDocument.URI, text)
	if err != nil {
		return fmt.Errorf("failed to update AST: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

func lastFullText(changes []any) (string, bool) {
	for i := len(changes) - 1; i >= 0; i-- {
		switch change := changes[i].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			return change.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			return change.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				return change.Text, true
			}
		case *protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				return change.Text, true
			}
		}
	}
	return "", false
}

// TextDocumentCompletion offers keywords, intrinsics and the top-level bindings of the document
func (h *PowerHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	var items []protocol.CompletionItem

	for _, kw := range Keywords {
		items = append(items, completionItem(kw, protocol.CompletionItemKindKeyword, "keyword"))
	}
	for _, name := range compiler.IntrinsicNames() {
		items = append(items, completionItem(name, protocol.CompletionItemKindFunction, "intrinsic"))
	}

	path, err := uriToPath(params.TextDocument.URI)
	if err == nil {
		h.mu.RLock()
		program := h.asts[path]
		h.mu.RUnlock()

		for _, name := range topLevelBindings(program) {
			items = append(items, completionItem(name, protocol.CompletionItemKindVariable, "binding"))
		}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func completionItem(label string, kind protocol.CompletionItemKind, detail string) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:  label,
		Kind:   &kind,
		Detail: ptrString(detail),
	}
}

func topLevelBindings(program ast.Program) []string {
	var stmts []ast.Stmt
	switch p := program.(type) {
	case *ast.Script:
		stmts = p.Body
	case *ast.Module:
		for _, item := range p.Body {
			if si, ok := item.(*ast.StmtItem); ok {
				stmts = append(stmts, si.Stmt)
			}
		}
	}

	seen := make(map[string]bool)
	var names []string
	for _, stmt := range stmts {
		decl, ok := stmt.(*ast.VarDecl)
		if !ok {
			continue
		}
		for _, d := range decl.Decls {
			if !seen[d.Name.Name] {
				seen[d.Name.Name] = true
				names = append(names, d.Name.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *PowerHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Debugf("semantic tokens requested for %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	program, err := h.getOrUpdateAST(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(program)),
	}, nil
}

// getOrUpdateAST falls back to reading the file from disk when the editor never opened it
func (h *PowerHandler) getOrUpdateAST(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (ast.Program, error) {
	h.mu.RLock()
	program, ok := h.asts[path]
	h.mu.RUnlock()

	if ok {
		return program, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	diagnostics, err := h.update(rawURI, string(content))
	if err != nil {
		return nil, err
	}
	sendDiagnosticNotification(ctx, rawURI, diagnostics)

	h.mu.RLock()
	program = h.asts[path]
	h.mu.RUnlock()

	return program, nil
}

func (h *PowerHandler) update(rawURI protocol.DocumentUri, content string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	program, diagnostics := Analyze(path, content)

	h.mu.Lock()
	h.content[path] = content
	if program != nil {
		h.asts[path] = program
	} else if _, ok := h.asts[path]; !ok {
		// keep the last good tree across syntax errors
		h.asts[path] = nil
	}
	h.mu.Unlock()

	return diagnostics, nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	if log.AllowLevel(commonlog.Debug) {
		diagnosticsJSON, err := json.MarshalIndent(diagnostics, "", "  ")
		if err == nil {
			log.Debugf("sending diagnostics: %s", diagnosticsJSON)
		}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
