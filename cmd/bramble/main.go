// Command bramble is the CLI entry point for the bramble interpreter:
// zero arguments drop into the REPL, one argument runs a script file,
// and anything else prints a usage message.
package main

import (
	"fmt"
	"os"

	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/interpreter"
	"github.com/bramblelang/bramble/pkg/bramble/lexer"
	"github.com/bramblelang/bramble/pkg/bramble/parser"
	"github.com/bramblelang/bramble/pkg/bramble/repl"
	"github.com/bramblelang/bramble/pkg/bramble/resolver"
)

const (
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
)

func main() {
	args := os.Args[1:]

	switch len(args) {
	case 0:
		repl.Start(os.Stdout)
	case 1:
		runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: bramble [script]")
		os.Exit(exitUsage)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bramble: %v\n", err)
		os.Exit(exitUsage)
	}

	reporter := errors.NewReporter(os.Stderr)

	scan := lexer.New(string(source), reporter)
	tokens := scan.ScanTokens()

	p := parser.New(tokens, reporter)
	statements := p.Parse()

	if !reporter.HadCompileError() {
		res := resolver.New(reporter)
		locals := res.Resolve(statements)

		if !reporter.HadCompileError() {
			interp := interpreter.New(reporter, os.Stdout)
			interp.Interpret(statements, locals)
		}
	}

	switch {
	case reporter.HadCompileError():
		os.Exit(exitCompileError)
	case reporter.HadRuntimeError():
		os.Exit(exitRuntimeError)
	}
}
