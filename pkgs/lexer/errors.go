package lexer

import (
	"fmt"

	"github.com/peano-lang/peano/pkgs/token"
)

// UnexpectedCharError reports a character no token pattern matches.
type UnexpectedCharError struct {
	Char rune
	Pos  token.Position
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected character %q at %s", e.Char, e.Pos)
}

// Span returns the zero-width span of the offending character.
func (e *UnexpectedCharError) Span() token.Span {
	return token.Span{Start: e.Pos, End: e.Pos}
}

// UnclosedCommentError reports a block comment still open at end of input.
type UnclosedCommentError struct {
	Open token.Position // position of the opening {-
}

func (e *UnclosedCommentError) Error() string {
	return fmt.Sprintf("unclosed block comment opened at %s", e.Open)
}

func (e *UnclosedCommentError) Span() token.Span {
	return token.Span{Start: e.Open, End: e.Open}
}
