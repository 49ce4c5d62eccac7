package resolver

import (
	"bytes"
	"testing"

	"github.com/bramblelang/bramble/pkg/bramble/ast"
	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/lexer"
	"github.com/bramblelang/bramble/pkg/bramble/parser"
)

func resolve(t *testing.T, source string) (Locals, []ast.Stmt, *errors.Reporter) {
	t.Helper()
	var buf bytes.Buffer
	reporter := errors.NewReporter(&buf)
	tokens := lexer.New(source, reporter).ScanTokens()
	statements := parser.New(tokens, reporter).Parse()
	locals := New(reporter).Resolve(statements)
	return locals, statements, reporter
}

func TestLocalVariableGetsHopCount(t *testing.T) {
	locals, statements, reporter := resolve(t, `{ var a = 1; print a; }`)
	if reporter.HadCompileError() {
		t.Fatalf("unexpected compile error")
	}
	block := statements[0].(*ast.Block)
	printStmt := block.Statements[1].(*ast.Print)
	variable := printStmt.Expression.(*ast.Variable)
	if dist, ok := locals[variable]; !ok || dist != 0 {
		t.Fatalf("hop-count = (%d, %v), want (0, true)", dist, ok)
	}
}

func TestGlobalVariableHasNoEntry(t *testing.T) {
	locals, statements, reporter := resolve(t, `var a = 1; print a;`)
	if reporter.HadCompileError() {
		t.Fatalf("unexpected compile error")
	}
	printStmt := statements[1].(*ast.Print)
	variable := printStmt.Expression.(*ast.Variable)
	if _, ok := locals[variable]; ok {
		t.Fatalf("expected no hop-count entry for a global reference")
	}
}

func TestSelfReferentialInitializerIsError(t *testing.T) {
	_, _, reporter := resolve(t, `{ var a = a; }`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for reading a variable in its own initializer")
	}
}

func TestDuplicateLocalIsError(t *testing.T) {
	_, _, reporter := resolve(t, `{ var a = 1; var a = 2; }`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for a duplicate local")
	}
}

func TestReturnAtTopLevelIsError(t *testing.T) {
	_, _, reporter := resolve(t, `return 1;`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for a top-level return")
	}
}

func TestReturnValueFromInitializerIsError(t *testing.T) {
	_, _, reporter := resolve(t, `class K { init() { return 1; } }`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for returning a value from an initializer")
	}
}

func TestBareReturnFromInitializerIsAllowed(t *testing.T) {
	_, _, reporter := resolve(t, `class K { init() { return; } }`)
	if reporter.HadCompileError() {
		t.Fatalf("unexpected compile error for a bare return inside an initializer")
	}
}

func TestThisOutsideClassIsError(t *testing.T) {
	_, _, reporter := resolve(t, `print this;`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for 'this' outside a class")
	}
}

func TestSuperWithoutSuperclassIsError(t *testing.T) {
	_, _, reporter := resolve(t, `class A { m() { super.m(); } }`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for 'super' in a class with no superclass")
	}
}

func TestSuperclassCannotBeSelf(t *testing.T) {
	_, _, reporter := resolve(t, `class A < A {}`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error for a class inheriting from itself")
	}
}
