package core

import (
	"strconv"
	"strings"
)

// FreeVars collects the names that occur unbound in t.
func FreeVars(t Term) map[string]bool {
	fv := make(map[string]bool)
	collectFree(t, make(map[string]int), fv)
	return fv
}

// collectFree walks t, counting enclosing binders per name in bound.
func collectFree(t Term, bound map[string]int, fv map[string]bool) {
	switch t := t.(type) {
	case *Sort:
	case *Var:
		if bound[t.Name] == 0 {
			fv[t.Name] = true
		}
	case *Lam:
		collectFree(t.Type, bound, fv)
		bound[t.Name]++
		collectFree(t.Body, bound, fv)
		bound[t.Name]--
	case *Pi:
		collectFree(t.Type, bound, fv)
		bound[t.Name]++
		collectFree(t.Body, bound, fv)
		bound[t.Name]--
	case *Sig:
		collectFree(t.Type, bound, fv)
		bound[t.Name]++
		collectFree(t.Body, bound, fv)
		bound[t.Name]--
	case *Let:
		if t.Type != nil {
			collectFree(t.Type, bound, fv)
		}
		collectFree(t.Def, bound, fv)
		bound[t.Name]++
		collectFree(t.Body, bound, fv)
		bound[t.Name]--
	case *Pair:
		collectFree(t.Fst, bound, fv)
		collectFree(t.Snd, bound, fv)
		if t.Ann != nil {
			collectFree(t.Ann, bound, fv)
		}
	case *Fst:
		collectFree(t.Pair, bound, fv)
	case *Snd:
		collectFree(t.Pair, bound, fv)
	case *App:
		collectFree(t.Fun, bound, fv)
		collectFree(t.Arg, bound, fv)
	}
}

// BoundNames collects every name that appears in binder position in t.
func BoundNames(t Term) map[string]bool {
	names := make(map[string]bool)
	collectBound(t, names)
	return names
}

func collectBound(t Term, names map[string]bool) {
	switch t := t.(type) {
	case *Lam:
		names[t.Name] = true
		collectBound(t.Type, names)
		collectBound(t.Body, names)
	case *Pi:
		names[t.Name] = true
		collectBound(t.Type, names)
		collectBound(t.Body, names)
	case *Sig:
		names[t.Name] = true
		collectBound(t.Type, names)
		collectBound(t.Body, names)
	case *Let:
		names[t.Name] = true
		if t.Type != nil {
			collectBound(t.Type, names)
		}
		collectBound(t.Def, names)
		collectBound(t.Body, names)
	case *Pair:
		collectBound(t.Fst, names)
		collectBound(t.Snd, names)
		if t.Ann != nil {
			collectBound(t.Ann, names)
		}
	case *Fst:
		collectBound(t.Pair, names)
	case *Snd:
		collectBound(t.Pair, names)
	case *App:
		collectBound(t.Fun, names)
		collectBound(t.Arg, names)
	}
}

// Fresh derives a name from base that does not occur in avoid. The candidate
// stem comes from stripping an optional trailing _<digits> suffix; the suffix
// counter is incremented until the name is free.
func Fresh(base string, avoid map[string]bool) string {
	stem, n := splitSuffix(base)
	for {
		n++
		candidate := stem + "_" + strconv.Itoa(n)
		if !avoid[candidate] {
			return candidate
		}
	}
}

func splitSuffix(name string) (string, int) {
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return name, 0
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil || n < 0 {
		return name, 0
	}
	return name[:idx], n
}

// Subst replaces free occurrences of v in t with u, avoiding capture. Bound
// names that would capture a free variable of u are α-renamed on the way
// down, so no pre-emptive copy of t is ever made.
func Subst(t Term, v string, u Term) Term {
	if !FreeVars(t)[v] {
		return t
	}
	switch t := t.(type) {
	case *Var:
		if t.Name == v {
			return u
		}
		return t
	case *Lam:
		name, body := substUnder(t.Name, t.Body, v, u)
		return &Lam{Name: name, Type: Subst(t.Type, v, u), Body: body}
	case *Pi:
		name, body := substUnder(t.Name, t.Body, v, u)
		return &Pi{Name: name, Type: Subst(t.Type, v, u), Body: body}
	case *Sig:
		name, body := substUnder(t.Name, t.Body, v, u)
		return &Sig{Name: name, Type: Subst(t.Type, v, u), Body: body}
	case *Let:
		var ty Term
		if t.Type != nil {
			ty = Subst(t.Type, v, u)
		}
		name, body := substUnder(t.Name, t.Body, v, u)
		return &Let{Name: name, Type: ty, Def: Subst(t.Def, v, u), Body: body}
	case *Pair:
		var ann Term
		if t.Ann != nil {
			ann = Subst(t.Ann, v, u)
		}
		return &Pair{Fst: Subst(t.Fst, v, u), Snd: Subst(t.Snd, v, u), Ann: ann}
	case *Fst:
		return &Fst{Pair: Subst(t.Pair, v, u)}
	case *Snd:
		return &Snd{Pair: Subst(t.Pair, v, u)}
	case *App:
		return &App{Fun: Subst(t.Fun, v, u), Arg: Subst(t.Arg, v, u)}
	}
	return t
}

// substUnder handles the body of a binding position shared by Lam, Pi, Sig
// and Let: either stop (shadowed), descend, or rename the bound name to dodge
// capture.
func substUnder(name string, body Term, v string, u Term) (string, Term) {
	if name == v {
		return name, body
	}
	fvU := FreeVars(u)
	if !fvU[name] {
		return name, Subst(body, v, u)
	}
	avoid := make(map[string]bool)
	for n := range fvU {
		avoid[n] = true
	}
	for n := range FreeVars(body) {
		avoid[n] = true
	}
	avoid[v] = true
	fresh := Fresh(name, avoid)
	renamed := Subst(body, name, &Var{Name: fresh})
	return fresh, Subst(renamed, v, u)
}
