package core

// AlphaEq reports equality of t and u up to renaming of bound names. At a
// binding form whose two bound names differ, both bodies are rewritten onto a
// shared fresh name before comparison, so the anonymous binder is never
// distinguished from any other bound name.
func AlphaEq(t, u Term) bool {
	switch t := t.(type) {
	case *Sort:
		u, ok := u.(*Sort)
		return ok && t.Kind == u.Kind
	case *Var:
		u, ok := u.(*Var)
		return ok && t.Name == u.Name
	case *App:
		u, ok := u.(*App)
		return ok && AlphaEq(t.Fun, u.Fun) && AlphaEq(t.Arg, u.Arg)
	case *Pair:
		u, ok := u.(*Pair)
		if !ok || !AlphaEq(t.Fst, u.Fst) || !AlphaEq(t.Snd, u.Snd) {
			return false
		}
		return optAlphaEq(t.Ann, u.Ann)
	case *Fst:
		u, ok := u.(*Fst)
		return ok && AlphaEq(t.Pair, u.Pair)
	case *Snd:
		u, ok := u.(*Snd)
		return ok && AlphaEq(t.Pair, u.Pair)
	case *Lam:
		u, ok := u.(*Lam)
		return ok && AlphaEq(t.Type, u.Type) && bodiesAlphaEq(t.Name, t.Body, u.Name, u.Body)
	case *Pi:
		u, ok := u.(*Pi)
		return ok && AlphaEq(t.Type, u.Type) && bodiesAlphaEq(t.Name, t.Body, u.Name, u.Body)
	case *Sig:
		u, ok := u.(*Sig)
		return ok && AlphaEq(t.Type, u.Type) && bodiesAlphaEq(t.Name, t.Body, u.Name, u.Body)
	case *Let:
		u, ok := u.(*Let)
		if !ok || !optAlphaEq(t.Type, u.Type) || !AlphaEq(t.Def, u.Def) {
			return false
		}
		return bodiesAlphaEq(t.Name, t.Body, u.Name, u.Body)
	}
	return false
}

// optAlphaEq compares optional sub-terms: both absent, or both present and
// α-equal.
func optAlphaEq(t, u Term) bool {
	if t == nil || u == nil {
		return t == nil && u == nil
	}
	return AlphaEq(t, u)
}

// bodiesAlphaEq compares the bodies directly when the bound names agree;
// otherwise it rewrites both bodies onto a name fresh for either side and
// compares the results.
func bodiesAlphaEq(nameT string, bodyT Term, nameU string, bodyU Term) bool {
	if nameT == nameU {
		return AlphaEq(bodyT, bodyU)
	}
	avoid := make(map[string]bool)
	for n := range FreeVars(bodyT) {
		avoid[n] = true
	}
	for n := range FreeVars(bodyU) {
		avoid[n] = true
	}
	for n := range BoundNames(bodyT) {
		avoid[n] = true
	}
	for n := range BoundNames(bodyU) {
		avoid[n] = true
	}
	avoid[nameT] = true
	avoid[nameU] = true
	fresh := Fresh(nameT, avoid)
	v := &Var{Name: fresh}
	return AlphaEq(Subst(bodyT, nameT, v), Subst(bodyU, nameU, v))
}
