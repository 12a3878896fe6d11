// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/minsk-dev/power/grammar"
	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/compiler"
	"github.com/minsk-dev/power/internal/ir"
)

const (
	PROMPT      = ">> "
	CONT_PROMPT = ".. "

	historyFile = ".power_history"

	// StepLimit keeps a runaway loop from freezing the prompt
	StepLimit = 1_000_000
)

// Result is what one accepted entry produced
type Result struct {
	Value    int32  // main's return value, or the value of a bare expression
	HasValue bool   // false for entries that only declare or assign
	Output   string // putchar output written by this entry
	IR       string // the module compiled for this entry
}

// Session accumulates the statements entered so far. Every entry is
// compiled together with its predecessors as a fresh script.
type Session struct {
	entries []string
	output  string
	lastIR  string
}

func NewSession() *Session {
	return &Session{}
}

// Eval compiles and runs entry on top of the session. Entries that fail to
// compile or run leave the session unchanged. An entry that returns is
// evaluated but not kept, since nothing could follow it.
func (s *Session) Eval(entry string) (*Result, error) {
	parsed, err := grammar.ParseSource("<repl>", entry, grammar.ModeScript)
	if err != nil {
		return nil, err
	}
	script := parsed.(*ast.Script)

	probe := entry
	hasValue := false
	commit := true
	if expr, ok := bareExpression(script, entry); ok {
		probe = "return (" + expr + ");"
		hasValue = true
	}
	for _, stmt := range script.Body {
		if _, ok := stmt.(*ast.ReturnStmt); ok {
			hasValue = true
			commit = false
		}
	}

	source := strings.Join(append(append([]string{}, s.entries...), probe), "\n")
	program, err := grammar.ParseSource("<repl>", source, grammar.ModeScript)
	if err != nil {
		return nil, err
	}

	module, err := compiler.CompileProgram(ir.NewContext(), program, compiler.WithModuleName("repl"))
	if err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	value, err := ir.NewMachine(module, &stdout).WithStepLimit(StepLimit).Run(compiler.EntryPoint)
	if err != nil {
		return nil, err
	}

	out := stdout.String()
	result := &Result{
		Value:    value,
		HasValue: hasValue,
		Output:   strings.TrimPrefix(out, s.output),
		IR:       module.String(),
	}

	s.lastIR = result.IR
	if commit {
		s.entries = append(s.entries, entry)
		s.output = out
	}
	return result, nil
}

// Reset forgets every entry
func (s *Session) Reset() {
	s.entries = nil
	s.output = ""
	s.lastIR = ""
}

// LastIR returns the module compiled for the most recent successful entry
func (s *Session) LastIR() string {
	return s.lastIR
}

// bareExpression returns the source of the expression when the entry is a
// single expression statement
func bareExpression(script *ast.Script, entry string) (string, bool) {
	if len(script.Body) != 1 {
		return "", false
	}
	stmt, ok := script.Body[0].(*ast.ExprStmt)
	if !ok {
		return "", false
	}

	start, end := stmt.Pos.Offset, stmt.EndPos.Offset
	if start < 0 || end > len(entry) || start >= end {
		return "", false
	}
	text := strings.TrimSpace(entry[start:end])
	return strings.TrimSpace(strings.TrimSuffix(text, ";")), true
}

// IsIncomplete reports whether src still has unclosed braces or parentheses
func IsIncomplete(src string) bool {
	lex, err := grammar.PowerLexer.LexString("<repl>", src)
	if err != nil {
		return false
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return false
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Value {
		case "{", "(":
			depth++
		case "}", ")":
			depth--
		}
	}
	return depth > 0
}

// Start runs an interactive session on the terminal until EOF or :quit
func Start(stdout io.Writer) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := NewSession()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for {
		code, ok := readEntry(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return
			case ":ir":
				fmt.Fprintln(stdout, session.LastIR())
			case ":reset":
				session.Reset()
			default:
				fmt.Fprintln(stdout, "unknown command. Try :ir, :reset or :quit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		result, err := session.Eval(code)
		if err != nil {
			fmt.Fprintln(stdout, red(err.Error()))
			continue
		}

		fmt.Fprint(stdout, result.Output)
		if result.HasValue {
			fmt.Fprintln(stdout, cyan(result.Value))
		}
	}
}

func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONT_PROMPT
		}

		line, err := ln.Prompt(prompt)
		if goerrors.Is(err, io.EOF) || goerrors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !IsIncomplete(b.String()) {
			return b.String(), true
		}
	}
}
