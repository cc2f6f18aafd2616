package core

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func v(name string) *Var               { return &Var{Name: name} }
func lam(n string, ty, b Term) *Lam    { return &Lam{Name: n, Type: ty, Body: b} }
func pi(n string, ty, b Term) *Pi      { return &Pi{Name: n, Type: ty, Body: b} }
func sig(n string, ty, b Term) *Sig    { return &Sig{Name: n, Type: ty, Body: b} }
func app(f, a Term) *App               { return &App{Fun: f, Arg: a} }
func let(n string, ty, d, b Term) *Let { return &Let{Name: n, Type: ty, Def: d, Body: b} }
func prop() *Sort                      { return &Sort{Kind: Prop} }

func names(set map[string]bool) []string {
	var out []string
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func TestFreeVars(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want []string
	}{
		{"variable", v("x"), []string{"x"}},
		{"sort", prop(), nil},
		{"lambda binds its name", lam("x", v("A"), v("x")), []string{"A"}},
		{"lambda type is outside the binder", lam("x", v("x"), v("x")), []string{"x"}},
		{"application", app(v("f"), v("x")), []string{"f", "x"}},
		{"let binds only the body", let("x", nil, v("d"), app(v("x"), v("y"))), []string{"d", "y"}},
		{"shadowing", lam("x", v("A"), lam("x", v("B"), v("x"))), []string{"A", "B"}},
		{"projection", &Fst{Pair: v("p")}, []string{"p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(FreeVars(tt.term))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("free variables mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFresh(t *testing.T) {
	tests := []struct {
		base  string
		avoid []string
		want  string
	}{
		{"x", nil, "x_1"},
		{"x", []string{"x_1"}, "x_2"},
		{"x_3", nil, "x_4"},
		{"x_3", []string{"x_4", "x_5"}, "x_6"},
		{"a_b", nil, "a_b_1"},
	}
	for _, tt := range tests {
		avoid := make(map[string]bool)
		for _, n := range tt.avoid {
			avoid[n] = true
		}
		if got := Fresh(tt.base, avoid); got != tt.want {
			t.Errorf("Fresh(%q, %v): got %q, want %q", tt.base, tt.avoid, got, tt.want)
		}
	}
}

func TestSubst(t *testing.T) {
	tests := []struct {
		name string
		term Term
		v    string
		u    Term
		want Term
	}{
		{
			name: "replaces free occurrences",
			term: app(v("x"), v("y")),
			v:    "x",
			u:    v("z"),
			want: app(v("z"), v("y")),
		},
		{
			name: "missing variable returns the term unchanged",
			term: app(v("a"), v("b")),
			v:    "x",
			u:    v("z"),
			want: app(v("a"), v("b")),
		},
		{
			name: "binder shadows the substitution",
			term: lam("x", v("x"), v("x")),
			v:    "x",
			u:    v("z"),
			want: lam("x", v("z"), v("x")),
		},
		{
			name: "let definition is substituted under shadowing",
			term: let("x", nil, v("x"), v("x")),
			v:    "x",
			u:    v("z"),
			want: let("x", nil, v("z"), v("x")),
		},
		{
			name: "capture is avoided by renaming the binder",
			term: lam("y", prop(), app(v("x"), v("y"))),
			v:    "x",
			u:    v("y"),
			want: lam("y_1", prop(), app(v("y"), v("y_1"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subst(tt.term, tt.v, tt.u)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("substitution mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// fv(subst(t, v, u)) ⊆ (fv(t) \ {v}) ∪ fv(u)
func TestSubstFreeVarBound(t *testing.T) {
	cases := []struct {
		term Term
		v    string
		u    Term
	}{
		{lam("y", prop(), app(v("x"), v("y"))), "x", v("y")},
		{pi("y", v("x"), app(v("x"), v("y"))), "x", app(v("y"), v("z"))},
		{let("y", v("x"), v("x"), app(v("y"), v("x"))), "x", v("y")},
		{sig("p", v("x"), app(v("p"), v("x"))), "x", v("p")},
		{app(lam("x", prop(), v("x")), v("x")), "x", lam("q", prop(), v("q"))},
	}
	for _, c := range cases {
		allowed := make(map[string]bool)
		for n := range FreeVars(c.term) {
			if n != c.v {
				allowed[n] = true
			}
		}
		for n := range FreeVars(c.u) {
			allowed[n] = true
		}
		for n := range FreeVars(Subst(c.term, c.v, c.u)) {
			if !allowed[n] {
				t.Errorf("subst(%s, %s, %s) leaked free variable %q", c.term, c.v, c.u, n)
			}
		}
	}
}

// Substitution must be invariant under renaming of bound names in t.
func TestSubstRespectsAlpha(t *testing.T) {
	t1 := lam("a", prop(), app(v("x"), v("a")))
	t2 := lam("b", prop(), app(v("x"), v("b")))
	u := app(v("f"), v("a"))
	if !AlphaEq(Subst(t1, "x", u), Subst(t2, "x", u)) {
		t.Error("substitution distinguished α-equal inputs")
	}
}
