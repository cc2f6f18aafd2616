package elab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peano-lang/peano/pkgs/ast"
	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/parser"
	"github.com/stretchr/testify/require"
)

func surface(t *testing.T, src string) ast.Term {
	t.Helper()
	parsed, err := parser.ParseTerm(src)
	require.NoError(t, err)
	return parsed
}

func lower(t *testing.T, src string) core.Term {
	t.Helper()
	return Term(surface(t, src))
}

func TestTermLowering(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  core.Term
	}{
		{
			"sorts and variables",
			"Prop",
			&core.Sort{Kind: core.Prop},
		},
		{
			"arrow becomes an anonymous pi",
			"A -> B",
			&core.Pi{Name: "_", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "B"}},
		},
		{
			"product becomes an anonymous sigma",
			"A & B",
			&core.Sig{Name: "_", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "B"}},
		},
		{
			"application left-folds",
			"f a b",
			&core.App{
				Fun: &core.App{Fun: &core.Var{Name: "f"}, Arg: &core.Var{Name: "a"}},
				Arg: &core.Var{Name: "b"},
			},
		},
		{
			"grouped binder expands to nested lambdas",
			"fun (x y : A) => x",
			&core.Lam{
				Name: "x", Type: &core.Var{Name: "A"},
				Body: &core.Lam{
					Name: "y", Type: &core.Var{Name: "A"},
					Body: &core.Var{Name: "x"},
				},
			},
		},
		{
			"definition binder becomes a let",
			"fun (x := a) => x",
			&core.Let{Name: "x", Def: &core.Var{Name: "a"}, Body: &core.Var{Name: "x"}},
		},
		{
			"pair and projections",
			"<a, b>.1",
			&core.Fst{Pair: &core.Pair{Fst: &core.Var{Name: "a"}, Snd: &core.Var{Name: "b"}}},
		},
		{
			"let with parameters wraps type and definition",
			"let f (x : A) : B := b in f",
			&core.Let{
				Name: "f",
				Type: &core.Pi{Name: "x", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "B"}},
				Def:  &core.Lam{Name: "x", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "b"}},
				Body: &core.Var{Name: "f"},
			},
		},
		{
			"let without ascription keeps a nil type",
			"let f (x : A) := b in f",
			&core.Let{
				Name: "f",
				Def:  &core.Lam{Name: "x", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "b"}},
				Body: &core.Var{Name: "f"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lower(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lowering mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Elaborating grouped binders equals elaborating the unfolded spelling.
func TestGroupedBinderEquality(t *testing.T) {
	pairs := [][2]string{
		{"fun (x y : A) => b", "fun (x : A) => fun (y : A) => b"},
		{"forall (x y : A), b", "forall (x : A), forall (y : A), b"},
		{"exist (x y : A), b", "exist (x : A), exist (y : A), b"},
		{"fun x y : A => b", "fun (x : A) (y : A) => b"},
	}
	for _, p := range pairs {
		if !core.AlphaEq(lower(t, p[0]), lower(t, p[1])) {
			t.Errorf("%q and %q must elaborate to α-equal terms", p[0], p[1])
		}
	}
}

func TestLoweringIsDeterministic(t *testing.T) {
	src := "fun (A : Prop) (x : A) => <x, x> : A & A"
	if !core.AlphaEq(lower(t, src), lower(t, src)) {
		t.Error("elaboration must be a pure function")
	}
}

func TestDeclLowering(t *testing.T) {
	prog, err := parser.Parse("def id (A : Prop) (x : A) : A := x; var axiom : Prop;")
	require.NoError(t, err)
	elems := Program(prog)
	require.Len(t, elems, 2)

	id := elems[0]
	require.Equal(t, "id", id.Name)
	wantType := &core.Pi{
		Name: "A", Type: &core.Sort{Kind: core.Prop},
		Body: &core.Pi{Name: "x", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "A"}},
	}
	if diff := cmp.Diff(core.Term(wantType), id.Type); diff != "" {
		t.Errorf("id type mismatch (-want +got):\n%s", diff)
	}
	wantDef := &core.Lam{
		Name: "A", Type: &core.Sort{Kind: core.Prop},
		Body: &core.Lam{Name: "x", Type: &core.Var{Name: "A"}, Body: &core.Var{Name: "x"}},
	}
	if diff := cmp.Diff(core.Term(wantDef), id.Def); diff != "" {
		t.Errorf("id definition mismatch (-want +got):\n%s", diff)
	}

	axiom := elems[1]
	require.Equal(t, "axiom", axiom.Name)
	require.Nil(t, axiom.Def)
	require.False(t, axiom.IsDef())
}

func TestDeclLoweringWithDefinitionBinder(t *testing.T) {
	prog, err := parser.Parse("def g (A : Prop) (B : Prop := A) : Prop := B;")
	require.NoError(t, err)
	elem := Program(prog)[0]

	wantType := &core.Pi{
		Name: "A", Type: &core.Sort{Kind: core.Prop},
		Body: &core.Let{
			Name: "B", Type: &core.Sort{Kind: core.Prop}, Def: &core.Var{Name: "A"},
			Body: &core.Sort{Kind: core.Prop},
		},
	}
	if diff := cmp.Diff(core.Term(wantType), elem.Type); diff != "" {
		t.Errorf("type with definition binder mismatch (-want +got):\n%s", diff)
	}
}
