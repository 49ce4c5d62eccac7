package lexer

import (
	"bytes"
	"testing"

	"github.com/bramblelang/bramble/pkg/bramble/errors"
)

func TestNextTokenBasicProgram(t *testing.T) {
	input := `var a = 1;
var b = 2;
print a + b;
fun add(x, y) {
  return x + y;
}
class Foo < Bar {
  greet() {
    print "hi";
  }
}
!-*/ < <= >= > == !=
`

	tests := []struct {
		expectedType   TokenType
		expectedLexeme string
	}{
		{VAR, "var"}, {IDENTIFIER, "a"}, {EQUAL, "="}, {NUMBER, "1"}, {SEMICOLON, ";"},
		{VAR, "var"}, {IDENTIFIER, "b"}, {EQUAL, "="}, {NUMBER, "2"}, {SEMICOLON, ";"},
		{PRINT, "print"}, {IDENTIFIER, "a"}, {PLUS, "+"}, {IDENTIFIER, "b"}, {SEMICOLON, ";"},
		{FUN, "fun"}, {IDENTIFIER, "add"}, {LEFT_PAREN, "("}, {IDENTIFIER, "x"}, {COMMA, ","},
		{IDENTIFIER, "y"}, {RIGHT_PAREN, ")"}, {LEFT_BRACE, "{"},
		{RETURN, "return"}, {IDENTIFIER, "x"}, {PLUS, "+"}, {IDENTIFIER, "y"}, {SEMICOLON, ";"},
		{RIGHT_BRACE, "}"},
		{CLASS, "class"}, {IDENTIFIER, "Foo"}, {LESS, "<"}, {IDENTIFIER, "Bar"}, {LEFT_BRACE, "{"},
		{IDENTIFIER, "greet"}, {LEFT_PAREN, "("}, {RIGHT_PAREN, ")"}, {LEFT_BRACE, "{"},
		{PRINT, "print"}, {STRING, `"hi"`}, {SEMICOLON, ";"},
		{RIGHT_BRACE, "}"},
		{RIGHT_BRACE, "}"},
		{BANG, "!"}, {MINUS, "-"}, {STAR, "*"}, {SLASH, "/"},
		{LESS, "<"}, {LESS_EQUAL, "<="}, {GREATER_EQUAL, ">="}, {GREATER, ">"},
		{EQUAL_EQUAL, "=="}, {BANG_EQUAL, "!="},
		{EOF, ""},
	}

	var buf bytes.Buffer
	s := New(input, errors.NewReporter(&buf))
	toks := s.ScanTokens()

	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d\n%v", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Type != tt.expectedType {
			t.Fatalf("token %d: type = %s, want %s", i, toks[i].Type, tt.expectedType)
		}
		if toks[i].Lexeme != tt.expectedLexeme {
			t.Fatalf("token %d: lexeme = %q, want %q", i, toks[i].Lexeme, tt.expectedLexeme)
		}
	}
	if toks[39].Literal.(string) != "hi" {
		t.Fatalf("string literal = %q, want %q", toks[39].Literal, "hi")
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", buf.String())
	}
}

func TestNestedBlockComments(t *testing.T) {
	var buf bytes.Buffer
	s := New("/* /* x */ */", errors.NewReporter(&buf))
	toks := s.ScanTokens()
	if len(toks) != 1 || toks[0].Type != EOF {
		t.Fatalf("expected only EOF, got %v", toks)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", buf.String())
	}
}

func TestUnterminatedNestedBlockComment(t *testing.T) {
	var buf bytes.Buffer
	r := errors.NewReporter(&buf)
	s := New("/* /* */", r)
	s.ScanTokens()
	if !r.HadCompileError() {
		t.Fatalf("expected a compile error for unterminated nested comment")
	}
}

func TestBlockCommentCountsNewlines(t *testing.T) {
	var buf bytes.Buffer
	s := New("/* one\ntwo\nthree */\nvar x = 1;", errors.NewReporter(&buf))
	toks := s.ScanTokens()
	// "var" should be reported on line 4: two newlines consumed inside
	// the comment, then one more before the statement starts.
	var varTok Token
	for _, tok := range toks {
		if tok.Type == VAR {
			varTok = tok
			break
		}
	}
	if varTok.Line != 4 {
		t.Fatalf("var token line = %d, want 4", varTok.Line)
	}
}

func TestSlashDoesNotFallThrough(t *testing.T) {
	var buf bytes.Buffer
	s := New("// a comment\nvar x = 1;", errors.NewReporter(&buf))
	toks := s.ScanTokens()
	if toks[0].Type != VAR {
		t.Fatalf("expected VAR as first token after a line comment, got %s", toks[0].Type)
	}
	if toks[0].Line != 2 {
		t.Fatalf("var token line = %d, want 2", toks[0].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	var buf bytes.Buffer
	r := errors.NewReporter(&buf)
	s := New(`"unterminated`, r)
	s.ScanTokens()
	if !r.HadCompileError() {
		t.Fatalf("expected a compile error for unterminated string")
	}
}

func TestNumberLiteral(t *testing.T) {
	var buf bytes.Buffer
	s := New("3.5 10", errors.NewReporter(&buf))
	toks := s.ScanTokens()
	if toks[0].Literal.(float64) != 3.5 {
		t.Fatalf("got %v, want 3.5", toks[0].Literal)
	}
	if toks[1].Literal.(float64) != 10 {
		t.Fatalf("got %v, want 10", toks[1].Literal)
	}
}
