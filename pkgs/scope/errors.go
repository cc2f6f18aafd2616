package scope

import (
	"fmt"
	"strings"

	"github.com/peano-lang/peano/pkgs/diag"
	"github.com/peano-lang/peano/pkgs/token"
)

// DuplicateGlobalError reports a global name declared twice.
type DuplicateGlobalError struct {
	Name string
	Loc  token.Span
}

func (e *DuplicateGlobalError) Error() string {
	return fmt.Sprintf("duplicate global '%s'", e.Name)
}

func (e *DuplicateGlobalError) Span() token.Span { return e.Loc }

// DuplicateLocalError reports a parameter name bound twice in one
// declaration.
type DuplicateLocalError struct {
	Name string
	In   string // enclosing declaration
	Loc  token.Span
}

func (e *DuplicateLocalError) Error() string {
	return fmt.Sprintf("duplicate parameter '%s' in '%s'", e.Name, e.In)
}

func (e *DuplicateLocalError) Span() token.Span { return e.Loc }

// SelfReferenceError reports a declaration or parameter referring to itself.
type SelfReferenceError struct {
	Name string
	Kind Kind
	Loc  token.Span
}

func (e *SelfReferenceError) Error() string {
	return fmt.Sprintf("'%s' refers to itself in its %s", e.Name, e.Kind)
}

func (e *SelfReferenceError) Span() token.Span { return e.Loc }

// UndefinedError reports a name that resolves to nothing in scope.
type UndefinedError struct {
	Name        string
	In          string // enclosing declaration
	Kind        Kind
	Loc         token.Span
	Suggestions []string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined name '%s' in the %s of '%s'%s",
		e.Name, e.Kind, e.In, diag.FormatSuggestions(e.Suggestions))
}

func (e *UndefinedError) Span() token.Span { return e.Loc }

// Edge is one step of a reported cycle.
type Edge struct {
	From string
	To   string
	Kind Kind
}

// CycleError reports a dependency cycle as the list of edges between the two
// visits of the re-encountered node.
type CycleError struct {
	Path []Edge
	Loc  token.Span
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Path)+1)
	if len(e.Path) > 0 {
		parts = append(parts, e.Path[0].From)
	}
	for _, edge := range e.Path {
		parts = append(parts, edge.To)
	}
	return "dependency cycle: " + strings.Join(parts, " -> ")
}

func (e *CycleError) Span() token.Span { return e.Loc }
