// Package repl implements bramble's interactive read-eval-print loop.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/interpreter"
	"github.com/bramblelang/bramble/pkg/bramble/lexer"
	"github.com/bramblelang/bramble/pkg/bramble/parser"
	"github.com/bramblelang/bramble/pkg/bramble/resolver"
)

// Prompt is the raw-mode REPL prompt: one line in, one line evaluated.
const Prompt = ":> "

var keywordCompletions = []string{
	"and", "class", "else", "false", "for", "fun", "if", "nil", "or",
	"print", "return", "super", "this", "true", "var", "while",
}

// Start runs the REPL, reading lines with history and tab completion
// until EOF (Ctrl+D) or another prompt error; Ctrl+C abandons the
// current line and prompts again.
func Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var matches []string
		for _, kw := range keywordCompletions {
			if len(input) <= len(kw) && kw[:len(input)] == input {
				matches = append(matches, kw)
			}
		}
		return matches
	})

	historyFile := filepath.Join(os.TempDir(), ".bramble_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	reporter := errors.NewReporter(out)
	interp := interpreter.New(reporter, out)

	for {
		input, err := line.Prompt(Prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				return
			}
			return
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		run(input, reporter, interp)
		reporter.ResetCompile()
	}
}

func run(source string, reporter *errors.Reporter, interp *interpreter.Interpreter) {
	scan := lexer.New(source, reporter)
	tokens := scan.ScanTokens()

	p := parser.New(tokens, reporter)
	statements := p.Parse()
	if reporter.HadCompileError() {
		return
	}

	res := resolver.New(reporter)
	locals := res.Resolve(statements)
	if reporter.HadCompileError() {
		return
	}

	interp.Interpret(statements, locals)
}

// RunSource is a non-interactive helper used by tests: it runs source
// against a fresh interpreter and returns program output and
// diagnostics separately.
func RunSource(source string) (stdout string, diagnostics string, reporter *errors.Reporter) {
	var out, diag bytes.Buffer
	reporter = errors.NewReporter(&diag)
	interp := interpreter.New(reporter, &out)
	run(source, reporter, interp)
	return out.String(), diag.String(), reporter
}
