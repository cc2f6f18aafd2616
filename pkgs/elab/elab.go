// Package elab lowers the surface syntax into the core language: grouped
// binders become nested single-name binders, n-ary application becomes binary
// application, and the arrow and product shorthands become anonymous Pi and
// Sig. Elaboration is a pure function; the same surface term always yields
// α-equal core terms.
package elab

import (
	"github.com/peano-lang/peano/pkgs/ast"
	"github.com/peano-lang/peano/pkgs/core"
)

// Term lowers a surface term.
func Term(t ast.Term) core.Term {
	switch t := t.(type) {
	case *ast.SortTerm:
		return &core.Sort{Kind: t.Kind}
	case *ast.Ident:
		return &core.Var{Name: t.Name}
	case *ast.Arrow:
		return &core.Pi{Name: core.Anonymous, Type: Term(t.Domain), Body: Term(t.Codomain)}
	case *ast.Prod:
		return &core.Sig{Name: core.Anonymous, Type: Term(t.First), Body: Term(t.Second)}
	case *ast.Apply:
		app := Term(t.Items[0])
		for _, arg := range t.Items[1:] {
			app = &core.App{Fun: app, Arg: Term(arg)}
		}
		return app
	case *ast.Lambda:
		return foldBinders(t.Binders, Term(t.Body), mkLam)
	case *ast.Pi:
		return foldBinders(t.Binders, Term(t.Body), mkPi)
	case *ast.Sigma:
		return foldBinders(t.Binders, Term(t.Body), mkSig)
	case *ast.Let:
		return letTerm(t)
	case *ast.Pair:
		var ann core.Term
		if t.Ann != nil {
			ann = Term(t.Ann)
		}
		return &core.Pair{Fst: Term(t.First), Snd: Term(t.Second), Ann: ann}
	case *ast.First:
		return &core.Fst{Pair: Term(t.Arg)}
	case *ast.Second:
		return &core.Snd{Pair: Term(t.Arg)}
	}
	return nil
}

// letTerm desugars "let f (x:A) : B := body in rest" into
// "let f : forall x:A, B := fun x:A => body in rest": the parameter binders
// wrap the declared type with Pi and the definition with Lam.
func letTerm(t *ast.Let) core.Term {
	var ty core.Term
	if t.Type != nil {
		ty = foldBinders(t.Params, Term(t.Type), mkPi)
	}
	def := foldBinders(t.Params, Term(t.Def), mkLam)
	return &core.Let{Name: t.Name, Type: ty, Def: def, Body: Term(t.Body)}
}

// Decl lowers a global declaration to a context element: the type is the Pi
// over all parameter binders, the definition (if any) the Lam over the same
// binders.
func Decl(d *ast.Decl) core.Elem {
	elem := core.Elem{
		Name: d.Name,
		Type: foldBinders(d.Params, Term(d.Type), mkPi),
	}
	if d.Def != nil {
		elem.Def = foldBinders(d.Params, Term(d.Def), mkLam)
	}
	return elem
}

// Program lowers every declaration in order.
func Program(p *ast.Program) []core.Elem {
	elems := make([]core.Elem, 0, len(p.Decls))
	for i := range p.Decls {
		elems = append(elems, Decl(&p.Decls[i]))
	}
	return elems
}

func mkLam(name string, ty, body core.Term) core.Term {
	return &core.Lam{Name: name, Type: ty, Body: body}
}

func mkPi(name string, ty, body core.Term) core.Term {
	return &core.Pi{Name: name, Type: ty, Body: body}
}

func mkSig(name string, ty, body core.Term) core.Term {
	return &core.Sig{Name: name, Type: ty, Body: body}
}

// foldBinders right-folds a binder list over body. A variable binder expands
// to one nested binding per bound name; a definition binder becomes a Let in
// every binding position.
func foldBinders(binders []ast.Binder, body core.Term, mk func(string, core.Term, core.Term) core.Term) core.Term {
	for i := len(binders) - 1; i >= 0; i-- {
		b := binders[i]
		if b.IsDef() {
			var ty core.Term
			if b.Type != nil {
				ty = Term(b.Type)
			}
			body = &core.Let{Name: b.Names[0].Name, Type: ty, Def: Term(b.Def), Body: body}
			continue
		}
		ty := Term(b.Type)
		for j := len(b.Names) - 1; j >= 0; j-- {
			body = mk(b.Names[j].Name, ty, body)
		}
	}
	return body
}
