package core

import "testing"

func TestAlphaEq(t *testing.T) {
	tests := []struct {
		name string
		a, b Term
		want bool
	}{
		{"identical sorts", prop(), prop(), true},
		{"different sorts", prop(), &Sort{Kind: Type}, false},
		{"same free variable", v("x"), v("x"), true},
		{"different free variables", v("x"), v("y"), false},
		{
			"renamed lambda binder",
			lam("x", v("A"), v("x")),
			lam("y", v("A"), v("y")),
			true,
		},
		{
			"anonymous binder equals any unused name",
			pi("_", v("A"), v("B")),
			pi("z", v("A"), v("B")),
			true,
		},
		{
			"free occurrence is not a binder",
			lam("x", v("A"), v("y")),
			lam("x", v("A"), v("z")),
			false,
		},
		{
			"types must match",
			lam("x", v("A"), v("x")),
			lam("x", v("B"), v("x")),
			false,
		},
		{
			"nested binders",
			lam("x", v("A"), lam("y", v("B"), app(v("x"), v("y")))),
			lam("u", v("A"), lam("w", v("B"), app(v("u"), v("w")))),
			true,
		},
		{
			"swapped bodies differ",
			lam("x", v("A"), lam("y", v("B"), app(v("x"), v("y")))),
			lam("x", v("A"), lam("y", v("B"), app(v("y"), v("x")))),
			false,
		},
		{
			"let definitions must match",
			let("x", nil, v("a"), v("x")),
			let("y", nil, v("b"), v("y")),
			false,
		},
		{
			"let with and without ascription differ",
			let("x", prop(), v("a"), v("x")),
			let("x", nil, v("a"), v("x")),
			false,
		},
		{
			"renamed let",
			let("x", prop(), v("a"), v("x")),
			let("y", prop(), v("a"), v("y")),
			true,
		},
		{
			"sigma binder renaming",
			sig("p", v("A"), app(v("P"), v("p"))),
			sig("q", v("A"), app(v("P"), v("q"))),
			true,
		},
		{
			"pair ascriptions must both be present",
			&Pair{Fst: v("a"), Snd: v("b"), Ann: v("T")},
			&Pair{Fst: v("a"), Snd: v("b")},
			false,
		},
		{
			"binder name colliding with the other side's free variable",
			lam("y", v("A"), v("x")),
			lam("x", v("A"), v("x")),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlphaEq(tt.a, tt.b); got != tt.want {
				t.Errorf("AlphaEq(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// α-equivalence is symmetric.
			if got := AlphaEq(tt.b, tt.a); got != tt.want {
				t.Errorf("AlphaEq(%s, %s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestAlphaEqIsEquivalence(t *testing.T) {
	a := lam("x", v("A"), v("x"))
	b := lam("y", v("A"), v("y"))
	c := lam("z", v("A"), v("z"))
	if !AlphaEq(a, a) {
		t.Error("reflexivity failed")
	}
	if !AlphaEq(a, b) || !AlphaEq(b, a) {
		t.Error("symmetry failed")
	}
	if !AlphaEq(a, b) || !AlphaEq(b, c) || !AlphaEq(a, c) {
		t.Error("transitivity failed")
	}
}
