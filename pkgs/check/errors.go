package check

import (
	"fmt"

	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/diag"
)

// TypeHasNoTypeError reports Sort(Type) in a position that must be typed.
type TypeHasNoTypeError struct{}

func (e *TypeHasNoTypeError) Error() string {
	return "'Type' has no type"
}

// UnboundVariableError reports a name missing from the judgment context.
type UnboundVariableError struct {
	Name        string
	Suggestions []string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable '%s'%s", e.Name, diag.FormatSuggestions(e.Suggestions))
}

// ExpectedSortError reports a type whose type does not normalize to a sort.
type ExpectedSortError struct {
	Actual core.Term
}

func (e *ExpectedSortError) Error() string {
	return fmt.Sprintf("expected a sort, got %s", e.Actual)
}

// ExpectedPiError reports an application whose head is not a function.
type ExpectedPiError struct {
	Fun    core.Term // the term in function position
	Actual core.Term // its inferred type
}

func (e *ExpectedPiError) Error() string {
	return fmt.Sprintf("%s is applied but has type %s, not a function type", e.Fun, e.Actual)
}

// ExpectedSigmaError reports a projection or ascription whose subject is not
// a pair type.
type ExpectedSigmaError struct {
	Term   core.Term
	Actual core.Term
}

func (e *ExpectedSigmaError) Error() string {
	return fmt.Sprintf("%s has type %s, not a pair type", e.Term, e.Actual)
}

// ImpossibleCombinationError reports a Σ formation over an unsupported sort
// combination.
type ImpossibleCombinationError struct {
	S0 core.SortKind
	S1 core.SortKind
}

func (e *ImpossibleCombinationError) Error() string {
	return fmt.Sprintf("a pair type cannot combine sorts %s and %s", e.S0, e.S1)
}

// TypeMismatchError reports a failed conversion between an expected and an
// inferred type.
type TypeMismatchError struct {
	Expected core.Term
	Actual   core.Term
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// WFError wraps a typing error with the context element it occurred at.
type WFError struct {
	At  string
	Err error
}

func (e *WFError) Error() string {
	return fmt.Sprintf("in '%s': %s", e.At, e.Err)
}

func (e *WFError) Unwrap() error {
	return e.Err
}
