// Package ast defines the surface syntax tree produced by the parser:
// grouped binders, n-ary application, arrow and product shorthands, and the
// global declaration list. Every node carries the source span of the tokens
// it covers. Surface nodes are produced once by the parser and read-only
// afterwards; the elaborator lowers them into the core language.
package ast

import (
	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/token"
)

// Term is a surface term.
type Term interface {
	Span() token.Span
	term()
}

// SortTerm is a universe literal: Prop or Type.
type SortTerm struct {
	Kind core.SortKind
	Loc  token.Span
}

// Ident is a free reference to a name.
type Ident struct {
	Name string
	Loc  token.Span
}

// Lambda is "fun B1 B2 ... => body".
type Lambda struct {
	Binders []Binder
	Body    Term
	Loc     token.Span
}

// Pi is "forall B1 B2 ..., body".
type Pi struct {
	Binders []Binder
	Body    Term
	Loc     token.Span
}

// Arrow is the non-dependent function shorthand "in -> out".
type Arrow struct {
	Domain   Term
	Codomain Term
	Loc      token.Span
}

// Pair is "<a, b>" with an optional ascription "<a, b> : T" (Ann nil when
// absent).
type Pair struct {
	First  Term
	Second Term
	Ann    Term
	Loc    token.Span
}

// First is the projection ".1".
type First struct {
	Arg Term
	Loc token.Span
}

// Second is the projection ".2".
type Second struct {
	Arg Term
	Loc token.Span
}

// Sigma is "exist B1 B2 ..., body".
type Sigma struct {
	Binders []Binder
	Body    Term
	Loc     token.Span
}

// Prod is the non-dependent pair-type shorthand "A & B".
type Prod struct {
	First  Term
	Second Term
	Loc    token.Span
}

// Let is "let name B1 ... : T := def in body". Type is nil when no
// ascription was written; Params holds the closed parameter binders.
type Let struct {
	Name    string
	NameLoc token.Span
	Params  []Binder
	Type    Term
	Def     Term
	Body    Term
	Loc     token.Span
}

// Apply is n-ary juxtaposition; Items has at least two entries.
type Apply struct {
	Items []Term
	Loc   token.Span
}

func (t *SortTerm) Span() token.Span { return t.Loc }
func (t *Ident) Span() token.Span    { return t.Loc }
func (t *Lambda) Span() token.Span   { return t.Loc }
func (t *Pi) Span() token.Span       { return t.Loc }
func (t *Arrow) Span() token.Span    { return t.Loc }
func (t *Pair) Span() token.Span     { return t.Loc }
func (t *First) Span() token.Span    { return t.Loc }
func (t *Second) Span() token.Span   { return t.Loc }
func (t *Sigma) Span() token.Span    { return t.Loc }
func (t *Prod) Span() token.Span     { return t.Loc }
func (t *Let) Span() token.Span      { return t.Loc }
func (t *Apply) Span() token.Span    { return t.Loc }

func (*SortTerm) term() {}
func (*Ident) term()    {}
func (*Lambda) term()   {}
func (*Pi) term()       {}
func (*Arrow) term()    {}
func (*Pair) term()     {}
func (*First) term()    {}
func (*Second) term()   {}
func (*Sigma) term()    {}
func (*Prod) term()     {}
func (*Let) term()      {}
func (*Apply) term()    {}

// BoundName is one name introduced by a binder, with its own span.
type BoundName struct {
	Name string
	Loc  token.Span
}

// Binder is either a variable binder "(x1 x2 ... : T)" binding several names
// to one type, or a definition binder "(x : T := d)" / "(x := d)" binding a
// single local let. Def is nil for variable binders; Type is nil only for
// the ascription-free definition form.
type Binder struct {
	Names []BoundName
	Type  Term
	Def   Term
	Loc   token.Span
}

// IsDef reports whether the binder is a definition binder.
func (b Binder) IsDef() bool {
	return b.Def != nil
}

// DeclKind distinguishes transparent definitions from opaque variables.
type DeclKind int

const (
	DeclDef DeclKind = iota // def NAME ... : TYPE := BODY;
	DeclVar                 // var NAME ... : TYPE;
)

func (k DeclKind) String() string {
	if k == DeclVar {
		return "var"
	}
	return "def"
}

// Decl is a surface global declaration.
type Decl struct {
	Kind    DeclKind
	Name    string
	NameLoc token.Span
	Params  []Binder // closed parameter binders
	Type    Term
	Def     Term // nil for var declarations
	Loc     token.Span
}

// Param is one flattened parameter element: one entry per bound name, each
// carrying its source span. Definition binders keep their definition.
type Param struct {
	Name string
	Type Term // nil only for "(x := d)"
	Def  Term // nil for variable binders
	Loc  token.Span
}

// FlatParams flattens the declaration's parameter binders, one entry per
// bound name in left-to-right scope order.
func (d *Decl) FlatParams() []Param {
	var params []Param
	for _, b := range d.Params {
		for _, n := range b.Names {
			params = append(params, Param{Name: n.Name, Type: b.Type, Def: b.Def, Loc: n.Loc})
		}
	}
	return params
}

// Program is an ordered list of global declarations.
type Program struct {
	Decls []Decl
}
