package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peano-lang/peano/pkgs/token"
)

type tok struct {
	Type  token.Type
	Value string
}

func lexAll(t *testing.T, input string) []tok {
	t.Helper()
	l := New(input)
	var out []tok
	for {
		next, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if next.Type == token.EOF {
			return out
		}
		out = append(out, tok{next.Type, next.Value})
	}
}

func TestTokenStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "declaration",
			input: "def id (A : Prop) : A := x;",
			want: []tok{
				{token.DEF, "def"},
				{token.IDENT, "id"},
				{token.LPAREN, "("},
				{token.IDENT, "A"},
				{token.COLON, ":"},
				{token.PROP, "Prop"},
				{token.RPAREN, ")"},
				{token.COLON, ":"},
				{token.IDENT, "A"},
				{token.ASSIGN, ":="},
				{token.IDENT, "x"},
				{token.SEMICOLON, ";"},
			},
		},
		{
			name:  "all punctuation",
			input: "=> -> := .1 .2 ( ) : , < > & ;",
			want: []tok{
				{token.DARROW, "=>"},
				{token.ARROW, "->"},
				{token.ASSIGN, ":="},
				{token.DOT_ONE, ".1"},
				{token.DOT_TWO, ".2"},
				{token.LPAREN, "("},
				{token.RPAREN, ")"},
				{token.COLON, ":"},
				{token.COMMA, ","},
				{token.LANGLE, "<"},
				{token.RANGLE, ">"},
				{token.AMP, "&"},
				{token.SEMICOLON, ";"},
			},
		},
		{
			name:  "keywords",
			input: "def var Prop Type fun forall exist let in",
			want: []tok{
				{token.DEF, "def"},
				{token.VAR, "var"},
				{token.PROP, "Prop"},
				{token.TYPE, "Type"},
				{token.FUN, "fun"},
				{token.FORALL, "forall"},
				{token.EXIST, "exist"},
				{token.LET, "let"},
				{token.IN, "in"},
			},
		},
		{
			name:  "keyword followed by identifier character is an identifier",
			input: "letx defs fun' in0 _f x'",
			want: []tok{
				{token.IDENT, "letx"},
				{token.IDENT, "defs"},
				{token.IDENT, "fun'"},
				{token.IDENT, "in0"},
				{token.IDENT, "_f"},
				{token.IDENT, "x'"},
			},
		},
		{
			name:  "projection chains",
			input: "p.1.2",
			want: []tok{
				{token.IDENT, "p"},
				{token.DOT_ONE, ".1"},
				{token.DOT_TWO, ".2"},
			},
		},
		{
			name:  "line comments",
			input: "a -- the rest is ignored ;;;\nb",
			want:  []tok{{token.IDENT, "a"}, {token.IDENT, "b"}},
		},
		{
			name:  "nested block comments",
			input: "a {- one {- two -} still one -} b",
			want:  []tok{{token.IDENT, "a"}, {token.IDENT, "b"}},
		},
		{
			name:  "crlf input",
			input: "a\r\nb",
			want:  []tok{{token.IDENT, "a"}, {token.IDENT, "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexAll(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("token stream mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	l := New("fun x\n  => x")
	want := []struct {
		value string
		span  string
	}{
		{"fun", "1:1-4"},
		{"x", "1:5-6"},
		{"=>", "2:3-5"},
		{"x", "2:6-7"},
	}
	for _, w := range want {
		got, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Value != w.value || got.Span.String() != w.span {
			t.Errorf("got %q at %s, want %q at %s", got.Value, got.Span, w.value, w.span)
		}
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("x")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Type != token.EOF {
			t.Fatalf("call %d: got %v, want EOF", i, got.Type)
		}
		if got.Span.Start != got.Span.End {
			t.Fatalf("EOF span must be zero-width, got %s", got.Span)
		}
	}
}

func TestUnexpectedChar(t *testing.T) {
	l := New("x $ y")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := l.Next()
	var lexErr *UnexpectedCharError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %v, want UnexpectedCharError", err)
	}
	if lexErr.Char != '$' {
		t.Errorf("got char %q, want '$'", lexErr.Char)
	}
	if lexErr.Pos.Line != 1 || lexErr.Pos.Column != 3 {
		t.Errorf("got position %s, want 1:3", lexErr.Pos)
	}
}

func TestUnclosedComment(t *testing.T) {
	l := New("x {- open {- nested -}")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := l.Next()
	var lexErr *UnclosedCommentError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %v, want UnclosedCommentError", err)
	}
	if lexErr.Open.Line != 1 || lexErr.Open.Column != 3 {
		t.Errorf("got opening position %s, want 1:3", lexErr.Open)
	}
}

// Concatenating the covered slices of all tokens must reproduce the source
// with whitespace and comments removed.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"def id (A : Prop) : A := x;", "defid(A:Prop):A:=x;"},
		{"a {- gone -} b -- gone\nc", "abc"},
		{"<a, b>.1 & c -> d", "<a,b>.1&c->d"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		for _, tok := range lexAll(t, tt.input) {
			sb.WriteString(tok.Value)
		}
		if sb.String() != tt.want {
			t.Errorf("round trip of %q: got %q, want %q", tt.input, sb.String(), tt.want)
		}
	}
}
