// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/minsk-dev/power/internal/lsp"
)

const lsName = "power" // Name identifier for the language server

var handler protocol.Handler

func main() {
	// 1 = info level, nil = stderr
	commonlog.Configure(1, nil)
	log := commonlog.GetLogger("power.lsp")

	powerHandler := lsp.NewPowerHandler()

	handler = protocol.Handler{
		Initialize:                     powerHandler.Initialize,
		Initialized:                    powerHandler.Initialized,
		Shutdown:                       powerHandler.Shutdown,
		SetTrace:                       powerHandler.SetTrace,
		TextDocumentDidOpen:            powerHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           powerHandler.TextDocumentDidClose,
		TextDocumentDidChange:          powerHandler.TextDocumentDidChange,
		TextDocumentCompletion:         powerHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: powerHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting power LSP server")

	// editors talk to the server over stdin/stdout
	if err := s.RunStdio(); err != nil {
		log.Errorf("power LSP server stopped: %s", err)
		os.Exit(1)
	}
}
