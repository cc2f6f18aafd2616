package core

// Whnf reduces t to weak-head normal form: β-reduction of head applications,
// Σ-projection on pair constructors, and ζ-reduction of head lets. It never
// reduces under binders.
//
// Termination is only guaranteed on well-typed terms; callers must not
// normalize terms the checker has not accepted.
func Whnf(t Term) Term {
	switch t := t.(type) {
	case *App:
		fun := Whnf(t.Fun)
		if lam, ok := fun.(*Lam); ok {
			return Whnf(Subst(lam.Body, lam.Name, t.Arg))
		}
		return &App{Fun: fun, Arg: t.Arg}
	case *Fst:
		pair := Whnf(t.Pair)
		if p, ok := pair.(*Pair); ok {
			return Whnf(p.Fst)
		}
		return &Fst{Pair: pair}
	case *Snd:
		pair := Whnf(t.Pair)
		if p, ok := pair.(*Pair); ok {
			return Whnf(p.Snd)
		}
		return &Snd{Pair: pair}
	case *Let:
		return Whnf(Subst(t.Body, t.Name, t.Def))
	}
	return t
}

// DefNF computes the δ+ζ normal form of t under ctx: transparent definitions
// are expanded by name and lets are reduced, everywhere in the term. β-redexes
// are left alone; Whnf handles those at the head.
func DefNF(ctx *Context, t Term) Term {
	switch t := t.(type) {
	case *Sort:
		return t
	case *Var:
		if e := ctx.Lookup(t.Name); e != nil && e.IsDef() {
			return DefNF(ctx, e.Def)
		}
		return t
	case *Lam:
		name, ty, body, inner := defNFBinder(ctx, t.Name, t.Type, t.Body)
		return &Lam{Name: name, Type: ty, Body: DefNF(inner, body)}
	case *Pi:
		name, ty, body, inner := defNFBinder(ctx, t.Name, t.Type, t.Body)
		return &Pi{Name: name, Type: ty, Body: DefNF(inner, body)}
	case *Sig:
		name, ty, body, inner := defNFBinder(ctx, t.Name, t.Type, t.Body)
		return &Sig{Name: name, Type: ty, Body: DefNF(inner, body)}
	case *Let:
		return DefNF(ctx, Subst(t.Body, t.Name, t.Def))
	case *Pair:
		var ann Term
		if t.Ann != nil {
			ann = DefNF(ctx, t.Ann)
		}
		return &Pair{Fst: DefNF(ctx, t.Fst), Snd: DefNF(ctx, t.Snd), Ann: ann}
	case *Fst:
		return &Fst{Pair: DefNF(ctx, t.Pair)}
	case *Snd:
		return &Snd{Pair: DefNF(ctx, t.Pair)}
	case *App:
		return &App{Fun: DefNF(ctx, t.Fun), Arg: DefNF(ctx, t.Arg)}
	}
	return t
}

// defNFBinder normalizes the type of a binding form and prepares the context
// for its body. A bound name that shadows a context entry is renamed first,
// so definition bodies expanded inside the body cannot be captured.
func defNFBinder(ctx *Context, name string, ty, body Term) (string, Term, Term, *Context) {
	ty = DefNF(ctx, ty)
	if name != Anonymous && ctx.Lookup(name) != nil {
		avoid := make(map[string]bool)
		for n := range FreeVars(body) {
			avoid[n] = true
		}
		for _, n := range ctx.Names() {
			avoid[n] = true
		}
		fresh := Fresh(name, avoid)
		body = Subst(body, name, &Var{Name: fresh})
		name = fresh
	}
	inner := ctx.WithLocal(Elem{Name: name, Type: ty})
	return name, ty, body, inner
}

// Conv decides definitional equality of t and u under ctx: both sides are
// taken to Whnf ∘ DefNF, a lone λ triggers η-expansion of the other side, and
// the remaining comparison is α-equivalence.
func Conv(ctx *Context, t, u Term) bool {
	tn := Whnf(DefNF(ctx, t))
	un := Whnf(DefNF(ctx, u))

	lamT, okT := tn.(*Lam)
	lamU, okU := un.(*Lam)
	switch {
	case okT && !okU:
		return etaConv(ctx, lamT, un)
	case okU && !okT:
		return etaConv(ctx, lamU, tn)
	}
	return AlphaEq(tn, un)
}

// etaConv compares a λ with a non-λ by η-expanding the latter: under the
// extended context the body must convert with (other x).
func etaConv(ctx *Context, lam *Lam, other Term) bool {
	name := lam.Name
	body := lam.Body
	if ctx.Lookup(name) != nil {
		avoid := make(map[string]bool)
		for n := range FreeVars(body) {
			avoid[n] = true
		}
		for n := range FreeVars(other) {
			avoid[n] = true
		}
		for _, n := range ctx.Names() {
			avoid[n] = true
		}
		fresh := Fresh(name, avoid)
		body = Subst(body, name, &Var{Name: fresh})
		name = fresh
	}
	inner := ctx.WithLocal(Elem{Name: name, Type: lam.Type})
	return Conv(inner, body, &App{Fun: other, Arg: &Var{Name: name}})
}
