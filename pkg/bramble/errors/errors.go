// Package errors provides the structured diagnostic sink shared by every
// stage of the bramble pipeline: scanner, parser, resolver, and
// interpreter all report through the same Reporter rather than through
// process-wide globals.
package errors

import (
	"fmt"
	"io"
)

// Class categorizes where in the pipeline a diagnostic originated.
type Class string

const (
	ClassLex     Class = "lex"
	ClassParse   Class = "parse"
	ClassResolve Class = "resolve"
	ClassRuntime Class = "runtime"
)

// Diagnostic is one reported compile-time problem.
type Diagnostic struct {
	Class   Class
	Code    string // short machine-readable tag, e.g. "unterminated-string"
	Line    int
	Where   string // "" for scanner errors, " at end" at EOF, " at '<lexeme>'" otherwise
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// RuntimeError is a single runtime fault, carrying the most specific
// token available so the reporter can print its line.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] RuntimeError: %s", e.Line, e.Message)
}

// Reporter is the explicit, constructed-once-per-run diagnostic sink.
// It is threaded into the scanner, parser, resolver, and interpreter
// instead of relying on package-level mutable state.
type Reporter struct {
	out io.Writer

	hadCompileError bool
	hadRuntimeError bool
}

// NewReporter returns a Reporter that writes diagnostics to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Compile reports a lex/parse/resolve-time diagnostic.
func (r *Reporter) Compile(class Class, code string, line int, where, message string) {
	r.hadCompileError = true
	d := &Diagnostic{Class: class, Code: code, Line: line, Where: where, Message: message}
	fmt.Fprintln(r.out, d.Error())
}

// Runtime reports a runtime fault.
func (r *Reporter) Runtime(line int, message string) {
	r.hadRuntimeError = true
	e := &RuntimeError{Line: line, Message: message}
	fmt.Fprintln(r.out, e.Error())
}

// HadCompileError reports whether any Compile diagnostic has been recorded.
func (r *Reporter) HadCompileError() bool { return r.hadCompileError }

// HadRuntimeError reports whether any Runtime diagnostic has been recorded.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// ResetCompile clears the compile-error flag. The REPL calls this between
// lines; the runtime-error flag is never cleared mid-process.
func (r *Reporter) ResetCompile() {
	r.hadCompileError = false
}
