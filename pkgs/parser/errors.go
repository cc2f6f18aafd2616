package parser

import (
	"fmt"

	"github.com/peano-lang/peano/pkgs/diag"
	"github.com/peano-lang/peano/pkgs/token"
)

// UnexpectedTokenError reports a token that no production accepts at the
// current position. The parser does not recover; the first error is final.
type UnexpectedTokenError struct {
	Expected string      // what would have been valid, e.g. "';'" or "a term"
	Got      token.Token // the token actually found
	Input    string      // full source, for the snippet
}

func (e *UnexpectedTokenError) Error() string {
	msg := fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	if snippet := diag.Snippet(e.Input, e.Got.Span); snippet != "" {
		return msg + "\n" + snippet
	}
	return msg
}

// Span returns the span of the offending token.
func (e *UnexpectedTokenError) Span() token.Span {
	return e.Got.Span
}
