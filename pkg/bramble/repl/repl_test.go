package repl

import (
	"bytes"
	"testing"

	"github.com/bramblelang/bramble/pkg/bramble/errors"
	"github.com/bramblelang/bramble/pkg/bramble/interpreter"
)

func TestPromptIsRawColonArrow(t *testing.T) {
	if Prompt != ":> " {
		t.Fatalf("Prompt = %q, want %q", Prompt, ":> ")
	}
}

func TestRunSourceReportsCompileErrorWithoutRunning(t *testing.T) {
	out, diag, reporter := RunSource(`print ;`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a compile error, diagnostics: %s", diag)
	}
	if out != "" {
		t.Fatalf("expected no program output when compilation fails, got %q", out)
	}
}

func TestRunSourceStopsAfterResolverError(t *testing.T) {
	out, diag, reporter := RunSource(`{ var a = a; }`)
	if !reporter.HadCompileError() {
		t.Fatalf("expected a resolver error, diagnostics: %s", diag)
	}
	if out != "" {
		t.Fatalf("expected no program output when resolution fails, got %q", out)
	}
}

func TestTwoLinesShareGlobalState(t *testing.T) {
	// Each call to run() against the same interpreter should see
	// earlier definitions, matching REPL line-by-line semantics.
	var diag, out bytes.Buffer
	reporter := errors.NewReporter(&diag)
	interp := interpreter.New(reporter, &out)

	run("var a = 1;", reporter, interp)
	reporter.ResetCompile()
	run("print a;", reporter, interp)

	if out.String() != "1\n" {
		t.Fatalf("got %q, want %q", out.String(), "1\n")
	}
}
