// Package kernel wires the pipeline together: tokenize and parse, scope and
// dependency analysis, elaboration, and type checking. A call to Check is a
// pure computation over its input with no shared state and no recovery; the
// first error of the first failing phase is the result.
package kernel

import (
	"errors"

	"github.com/peano-lang/peano/pkgs/check"
	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/diag"
	"github.com/peano-lang/peano/pkgs/elab"
	"github.com/peano-lang/peano/pkgs/lexer"
	"github.com/peano-lang/peano/pkgs/parser"
	"github.com/peano-lang/peano/pkgs/scope"
	"github.com/peano-lang/peano/pkgs/token"
)

// Phase identifies the pipeline stage a diagnostic came from.
type Phase int

const (
	PhaseTokenize Phase = iota
	PhaseParse
	PhaseContext
	PhaseTypecheck
)

func (p Phase) String() string {
	switch p {
	case PhaseTokenize:
		return "tokenize"
	case PhaseParse:
		return "parse"
	case PhaseContext:
		return "context"
	default:
		return "typecheck"
	}
}

// Diagnostic is the structured failure result of a run: the phase that
// failed and its structured error value.
type Diagnostic struct {
	Phase Phase
	Err   error
}

func (d *Diagnostic) Error() string {
	return d.Phase.String() + " error: " + d.Err.Error()
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Span returns the source span of the underlying error, if it has one.
func (d *Diagnostic) Span() (token.Span, bool) {
	var spanned diag.Spanned
	if errors.As(d.Err, &spanned) {
		return spanned.Span(), true
	}
	return token.Span{}, false
}

// Check runs the whole pipeline over source and returns the well-formed
// global context, or the first diagnostic.
func Check(source string) (*core.Context, *Diagnostic) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, &Diagnostic{Phase: parsePhase(err), Err: err}
	}

	if err := scope.Check(prog); err != nil {
		return nil, &Diagnostic{Phase: PhaseContext, Err: err}
	}

	globals := elab.Program(prog)
	ctx, err := check.WellFormed(globals, nil)
	if err != nil {
		return nil, &Diagnostic{Phase: PhaseTypecheck, Err: err}
	}
	return ctx, nil
}

// parsePhase classifies a parser failure: tokenizer errors pass through the
// parser verbatim and keep their own phase.
func parsePhase(err error) Phase {
	var unexpectedChar *lexer.UnexpectedCharError
	var unclosed *lexer.UnclosedCommentError
	if errors.As(err, &unexpectedChar) || errors.As(err, &unclosed) {
		return PhaseTokenize
	}
	return PhaseParse
}
