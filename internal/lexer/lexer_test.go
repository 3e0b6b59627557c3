package lexer

import (
	"testing"

	"github.com/go-pasc/pasc/internal/token"
)

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	src := `( ) ; . : , + - * / // % = <> < <= > >= :=`
	want := []token.Kind{
		token.LPAREN, token.RPAREN, token.SEMI, token.DOT, token.COLON, token.COMMA,
		token.PLUS, token.MINUS, token.MUL, token.FLOAT_DIV, token.INTEGER_DIV, token.MOD,
		token.EQUALS, token.NOT_EQUALS, token.LESS, token.LESS_EQUALS, token.GREATER, token.GREATER_EQUALS,
		token.ASSIGN, token.EOF,
	}

	l := New(src)
	for i, kind := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Kind != kind {
			t.Fatalf("token %d: got %s, want %s", i, tok.Kind, kind)
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("42 3.14")

	intTok, err := l.NextToken()
	if err != nil || intTok.Kind != token.INTEGER_CONST || intTok.Value != "42" {
		t.Fatalf("got %v, err %v", intTok, err)
	}

	realTok, err := l.NextToken()
	if err != nil || realTok.Kind != token.REAL_CONST || realTok.Value != "3.14" {
		t.Fatalf("got %v, err %v", realTok, err)
	}
}

func TestNextTokenKeywordsAreUppercased(t *testing.T) {
	l := New("begin END While")
	for _, want := range []string{"BEGIN", "END", "WHILE"} {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Value != want {
			t.Fatalf("got %q, want %q", tok.Value, want)
		}
	}
}

func TestNextTokenIdentifierPreservesCase(t *testing.T) {
	l := New("myVar")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.ID || tok.Value != "myVar" {
		t.Fatalf("got %v", tok)
	}
}

func TestNextTokenSkipsComments(t *testing.T) {
	l := New("{ a comment } x")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.ID || tok.Value != "x" {
		t.Fatalf("got %v", tok)
	}
}

func TestNextTokenUnclosedCommentIsError(t *testing.T) {
	l := New("{ unterminated")
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected an unclosed-comment error")
	}
}

func TestNextTokenIllegalCharacterIsError(t *testing.T) {
	l := New("@")
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected an illegal-character error")
	}
}

func TestNextTokenLineAndColumnTracking(t *testing.T) {
	l := New("x\ny")
	first, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("got %v", first.Pos)
	}
	second, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Fatalf("got %v", second.Pos)
	}
}

// Round-trip invariant (spec §8): re-lexing the concatenation of lexeme
// values (space-joined, comments already gone) reproduces the same
// sequence of kinds.
func TestNextTokenRoundTrip(t *testing.T) {
	src := "program p ; var x : integer ; begin x := 1 + 2 end ."
	l := New(src)
	var kinds []token.Kind
	var lexemes []string
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
		lexemes = append(lexemes, tok.Value)
	}

	rejoined := ""
	for i, lexeme := range lexemes {
		if i > 0 {
			rejoined += " "
		}
		rejoined += lexeme
	}

	l2 := New(rejoined)
	for i, wantKind := range kinds {
		tok, err := l2.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind != wantKind {
			t.Fatalf("position %d: got %s, want %s", i, tok.Kind, wantKind)
		}
	}
}
