// Package check implements the bidirectional typing judgments over a
// judgment context, and well-formedness of the context itself. The first
// error aborts the whole check; there is no recovery and no partial success.
package check

import (
	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/diag"
)

// Infer synthesizes the type of t under ctx.
func Infer(ctx *core.Context, t core.Term) (core.Term, error) {
	switch t := t.(type) {
	case *core.Sort:
		if t.Kind == core.Prop {
			return &core.Sort{Kind: core.Type}, nil
		}
		return nil, &TypeHasNoTypeError{}

	case *core.Var:
		if e := ctx.Lookup(t.Name); e != nil {
			return e.Type, nil
		}
		return nil, &UnboundVariableError{
			Name:        t.Name,
			Suggestions: diag.Suggest(t.Name, ctx.Names()),
		}

	case *core.Lam:
		// The domain must be a well-sorted type before the body may use it.
		if _, err := sortOf(ctx, t.Type); err != nil {
			return nil, err
		}
		inner := ctx.WithLocal(core.Elem{Name: t.Name, Type: t.Type})
		bodyTy, err := Infer(inner, t.Body)
		if err != nil {
			return nil, err
		}
		pi := &core.Pi{Name: t.Name, Type: t.Type, Body: bodyTy}
		if _, err := Infer(ctx, pi); err != nil {
			return nil, err
		}
		return pi, nil

	case *core.Pi:
		if _, err := sortOf(ctx, t.Type); err != nil {
			return nil, err
		}
		inner := ctx.WithLocal(core.Elem{Name: t.Name, Type: t.Type})
		s1, err := sortOf(inner, t.Body)
		if err != nil {
			return nil, err
		}
		return &core.Sort{Kind: s1}, nil

	case *core.Sig:
		s0, err := sortOf(ctx, t.Type)
		if err != nil {
			return nil, err
		}
		inner := ctx.WithLocal(core.Elem{Name: t.Name, Type: t.Type})
		s1, err := sortOf(inner, t.Body)
		if err != nil {
			return nil, err
		}
		if !(s0 == core.Prop && s1 == core.Prop) && s1 != core.Type {
			return nil, &ImpossibleCombinationError{S0: s0, S1: s1}
		}
		return &core.Sort{Kind: s1}, nil

	case *core.Pair:
		if t.Ann != nil {
			// The ascription must be a well-sorted type before it is safe to
			// normalize it.
			if _, err := sortOf(ctx, t.Ann); err != nil {
				return nil, err
			}
			annNorm := core.Whnf(core.DefNF(ctx, t.Ann))
			sig, ok := annNorm.(*core.Sig)
			if !ok {
				return nil, &ExpectedSigmaError{Term: t, Actual: t.Ann}
			}
			if err := checkPair(ctx, t, sig); err != nil {
				return nil, err
			}
			return t.Ann, nil
		}
		fstTy, err := Infer(ctx, t.Fst)
		if err != nil {
			return nil, err
		}
		sndTy, err := Infer(ctx, t.Snd)
		if err != nil {
			return nil, err
		}
		return &core.Sig{Name: core.Anonymous, Type: fstTy, Body: sndTy}, nil

	case *core.Fst:
		sig, err := inferSigma(ctx, t.Pair)
		if err != nil {
			return nil, err
		}
		return sig.Type, nil

	case *core.Snd:
		sig, err := inferSigma(ctx, t.Pair)
		if err != nil {
			return nil, err
		}
		return core.Subst(sig.Body, sig.Name, &core.Fst{Pair: t.Pair}), nil

	case *core.Let:
		ty := t.Type
		if ty != nil {
			if _, err := sortOf(ctx, ty); err != nil {
				return nil, err
			}
			if err := Check(ctx, t.Def, ty); err != nil {
				return nil, err
			}
		} else {
			inferred, err := Infer(ctx, t.Def)
			if err != nil {
				return nil, err
			}
			ty = inferred
		}
		inner := ctx.WithLocal(core.Elem{Name: t.Name, Type: ty, Def: t.Def})
		bodyTy, err := Infer(inner, t.Body)
		if err != nil {
			return nil, err
		}
		return core.Subst(bodyTy, t.Name, t.Def), nil

	case *core.App:
		funTy, err := Infer(ctx, t.Fun)
		if err != nil {
			return nil, err
		}
		funNorm := core.Whnf(core.DefNF(ctx, funTy))
		pi, ok := funNorm.(*core.Pi)
		if !ok {
			return nil, &ExpectedPiError{Fun: t.Fun, Actual: funTy}
		}
		argTy, err := Infer(ctx, t.Arg)
		if err != nil {
			return nil, err
		}
		if !core.Conv(ctx, argTy, pi.Type) {
			return nil, &TypeMismatchError{Expected: pi.Type, Actual: argTy}
		}
		return core.Subst(pi.Body, pi.Name, t.Arg), nil
	}
	return nil, &TypeHasNoTypeError{}
}

// Check verifies t against expected under ctx. Pairs are checked
// componentwise against a Σ expectation; every other shape falls back to
// inference plus conversion.
func Check(ctx *core.Context, t core.Term, expected core.Term) error {
	if p, ok := t.(*core.Pair); ok {
		expNorm := core.Whnf(core.DefNF(ctx, expected))
		if sig, ok := expNorm.(*core.Sig); ok {
			if err := checkPair(ctx, p, sig); err != nil {
				return err
			}
			if p.Ann != nil && !core.Conv(ctx, p.Ann, expected) {
				return &TypeMismatchError{Expected: expected, Actual: p.Ann}
			}
			return nil
		}
	}
	actual, err := Infer(ctx, t)
	if err != nil {
		return err
	}
	if !core.Conv(ctx, actual, expected) {
		return &TypeMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}

// checkPair checks a pair against a Σ type: first component against the
// domain, second against the instantiated body, which must itself be a type.
func checkPair(ctx *core.Context, p *core.Pair, sig *core.Sig) error {
	if err := Check(ctx, p.Fst, sig.Type); err != nil {
		return err
	}
	instantiated := core.Subst(sig.Body, sig.Name, p.Fst)
	if err := Check(ctx, p.Snd, instantiated); err != nil {
		return err
	}
	_, err := sortOf(ctx, instantiated)
	return err
}

// inferSigma infers the type of a projected term and requires it to be a Σ.
func inferSigma(ctx *core.Context, pair core.Term) (*core.Sig, error) {
	pairTy, err := Infer(ctx, pair)
	if err != nil {
		return nil, err
	}
	norm := core.Whnf(core.DefNF(ctx, pairTy))
	sig, ok := norm.(*core.Sig)
	if !ok {
		return nil, &ExpectedSigmaError{Term: pair, Actual: pairTy}
	}
	return sig, nil
}

// sortOf infers the type of t and requires it to normalize to a sort.
func sortOf(ctx *core.Context, t core.Term) (core.SortKind, error) {
	ty, err := Infer(ctx, t)
	if err != nil {
		return core.Prop, err
	}
	norm := core.Whnf(core.DefNF(ctx, ty))
	s, ok := norm.(*core.Sort)
	if !ok {
		return core.Prop, &ExpectedSortError{Actual: norm}
	}
	return s.Kind, nil
}

// WellFormed checks a whole judgment context, globals then locals. Each
// element is checked against the running prefix and then appended. The first
// failure is returned with the offending element attached.
func WellFormed(globals, locals []core.Elem) (*core.Context, error) {
	ctx := core.NewContext()
	for _, e := range globals {
		if err := checkElem(ctx, e); err != nil {
			return nil, &WFError{At: e.Name, Err: err}
		}
		ctx = ctx.WithGlobal(e)
	}
	for _, e := range locals {
		if err := checkElem(ctx, e); err != nil {
			return nil, &WFError{At: e.Name, Err: err}
		}
		ctx = ctx.WithLocal(e)
	}
	return ctx, nil
}

func checkElem(ctx *core.Context, e core.Elem) error {
	if _, err := sortOf(ctx, e.Type); err != nil {
		return err
	}
	if !e.IsDef() {
		return nil
	}
	return Check(ctx, e.Def, e.Type)
}
