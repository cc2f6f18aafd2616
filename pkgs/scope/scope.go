// Package scope validates the global declaration list before elaboration:
// duplicate names, unbound identifiers, self-references, and cycles in the
// use graph. Forward references between globals are allowed; forward
// references inside one declaration's parameter list are not.
package scope

import (
	"github.com/peano-lang/peano/pkgs/ast"
	"github.com/peano-lang/peano/pkgs/diag"
	"github.com/peano-lang/peano/pkgs/token"
)

// Kind tags a dependency with the slot it was found in.
type Kind string

const (
	KindType Kind = "type"
	KindDef  Kind = "def"
)

// Dep is one use of a name, tagged with the slot and the span of the
// referencing occurrence.
type Dep struct {
	To   string
	Kind Kind
	Loc  token.Span
}

// Check validates the program. It returns the first violation found, or nil
// when the program is well-scoped.
func Check(prog *ast.Program) error {
	c := &checker{prog: prog, globalIdx: make(map[string]int)}
	if err := c.checkUniqueness(); err != nil {
		return err
	}
	if err := c.buildGraph(); err != nil {
		return err
	}
	return c.findCycle()
}

type checker struct {
	prog      *ast.Program
	globalIdx map[string]int
	nodes     []node
}

type node struct {
	display string
	loc     token.Span
	edges   []graphEdge
}

type graphEdge struct {
	to   int
	kind Kind
	loc  token.Span
}

func (c *checker) checkUniqueness() error {
	for i := range c.prog.Decls {
		d := &c.prog.Decls[i]
		if _, dup := c.globalIdx[d.Name]; dup {
			return &DuplicateGlobalError{Name: d.Name, Loc: d.NameLoc}
		}
		c.globalIdx[d.Name] = i

		seen := make(map[string]bool)
		for _, p := range d.FlatParams() {
			if seen[p.Name] {
				return &DuplicateLocalError{Name: p.Name, In: d.Name, Loc: p.Loc}
			}
			seen[p.Name] = true
		}
	}
	return nil
}

// buildGraph allocates one node per global and one per flattened parameter,
// then validates and records every dependency as an edge.
func (c *checker) buildGraph() error {
	type localKey struct {
		decl int
		name string
	}
	localIdx := make(map[localKey]int)

	// Allocate global nodes first so edges can point forward.
	for i := range c.prog.Decls {
		d := &c.prog.Decls[i]
		c.nodes = append(c.nodes, node{display: d.Name, loc: d.NameLoc})
	}
	for i := range c.prog.Decls {
		d := &c.prog.Decls[i]
		for _, p := range d.FlatParams() {
			localIdx[localKey{i, p.Name}] = len(c.nodes)
			c.nodes = append(c.nodes, node{display: d.Name + "." + p.Name, loc: p.Loc})
		}
	}

	for i := range c.prog.Decls {
		d := &c.prog.Decls[i]
		params := d.FlatParams()
		paramNames := make(map[string]bool, len(params))
		for _, p := range params {
			paramNames[p.Name] = true
		}

		// The declaration's own slots: dependencies may name any other
		// global; its parameters are subtracted.
		slots := []struct {
			term ast.Term
			kind Kind
		}{
			{d.Type, KindType},
			{d.Def, KindDef},
		}
		for _, slot := range slots {
			if slot.term == nil {
				continue
			}
			for _, dep := range freeDeps(slot.term, paramNames, slot.kind) {
				if dep.To == d.Name {
					return &SelfReferenceError{Name: d.Name, Kind: dep.Kind, Loc: dep.Loc}
				}
				to, ok := c.globalIdx[dep.To]
				if !ok {
					return c.undefined(dep, d.Name)
				}
				c.addEdge(i, to, dep)
			}
		}

		// Parameter slots: dependencies may name a global or a previously
		// seen parameter of the same declaration.
		prev := make(map[string]int)
		for _, p := range params {
			self := localIdx[localKey{i, p.Name}]
			// The parameter list is part of the declaration's signature.
			c.addEdge(i, self, Dep{To: p.Name, Kind: KindType, Loc: p.Loc})

			var deps []Dep
			if p.Type != nil {
				deps = append(deps, freeDeps(p.Type, nil, KindType)...)
			}
			if p.Def != nil {
				deps = append(deps, freeDeps(p.Def, nil, KindDef)...)
			}
			for _, dep := range deps {
				if dep.To == p.Name {
					return &SelfReferenceError{Name: p.Name, Kind: dep.Kind, Loc: dep.Loc}
				}
				if to, ok := prev[dep.To]; ok {
					c.addEdge(self, to, dep)
					continue
				}
				if to, ok := c.globalIdx[dep.To]; ok {
					c.addEdge(self, to, dep)
					continue
				}
				return c.undefined(dep, d.Name)
			}
			prev[p.Name] = self
		}
	}
	return nil
}

func (c *checker) addEdge(from, to int, dep Dep) {
	c.nodes[from].edges = append(c.nodes[from].edges, graphEdge{to: to, kind: dep.Kind, loc: dep.Loc})
}

func (c *checker) undefined(dep Dep, in string) error {
	candidates := make([]string, 0, len(c.globalIdx))
	for name := range c.globalIdx {
		candidates = append(candidates, name)
	}
	return &UndefinedError{
		Name:        dep.To,
		In:          in,
		Kind:        dep.Kind,
		Loc:         dep.Loc,
		Suggestions: diag.Suggest(dep.To, candidates),
	}
}

// DFS colors for cycle detection.
const (
	white = iota // unvisited
	gray         // on stack
	black        // done
)

func (c *checker) findCycle() error {
	color := make([]int, len(c.nodes))
	var pathNodes []int
	var pathEdges []graphEdge

	var visit func(n int) *CycleError
	visit = func(n int) *CycleError {
		color[n] = gray
		pathNodes = append(pathNodes, n)
		for _, e := range c.nodes[n].edges {
			switch color[e.to] {
			case gray:
				return c.cycleError(pathNodes, append(pathEdges, e), e.to)
			case white:
				pathEdges = append(pathEdges, e)
				if cyc := visit(e.to); cyc != nil {
					return cyc
				}
				pathEdges = pathEdges[:len(pathEdges)-1]
			}
		}
		pathNodes = pathNodes[:len(pathNodes)-1]
		color[n] = black
		return nil
	}

	for n := range c.nodes {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// cycleError reports the edges between the two visits of the re-encountered
// node.
func (c *checker) cycleError(pathNodes []int, pathEdges []graphEdge, target int) *CycleError {
	start := 0
	for i, n := range pathNodes {
		if n == target {
			start = i
			break
		}
	}
	edges := make([]Edge, 0, len(pathEdges)-start)
	for i := start; i < len(pathEdges); i++ {
		from := pathNodes[i]
		edges = append(edges, Edge{
			From: c.nodes[from].display,
			To:   c.nodes[pathEdges[i].to].display,
			Kind: pathEdges[i].kind,
		})
	}
	loc := c.nodes[target].loc
	if len(pathEdges) > start {
		loc = pathEdges[start].loc
	}
	return &CycleError{Path: edges, Loc: loc}
}

// freeDeps collects the free identifier occurrences of a surface term, one
// dependency per distinct name (first occurrence wins), skipping names in
// bound.
func freeDeps(t ast.Term, bound map[string]bool, kind Kind) []Dep {
	var deps []Dep
	seen := make(map[string]bool)
	inner := make(map[string]int)
	for name := range bound {
		inner[name] = 1
	}
	collectDeps(t, inner, func(name string, loc token.Span) {
		if seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, Dep{To: name, Kind: kind, Loc: loc})
	})
	return deps
}

// collectDeps walks a surface term tracking binder nesting per name.
func collectDeps(t ast.Term, bound map[string]int, emit func(string, token.Span)) {
	switch t := t.(type) {
	case *ast.SortTerm:
	case *ast.Ident:
		if bound[t.Name] == 0 {
			emit(t.Name, t.Loc)
		}
	case *ast.Arrow:
		collectDeps(t.Domain, bound, emit)
		collectDeps(t.Codomain, bound, emit)
	case *ast.Prod:
		collectDeps(t.First, bound, emit)
		collectDeps(t.Second, bound, emit)
	case *ast.Apply:
		for _, item := range t.Items {
			collectDeps(item, bound, emit)
		}
	case *ast.Pair:
		collectDeps(t.First, bound, emit)
		collectDeps(t.Second, bound, emit)
		if t.Ann != nil {
			collectDeps(t.Ann, bound, emit)
		}
	case *ast.First:
		collectDeps(t.Arg, bound, emit)
	case *ast.Second:
		collectDeps(t.Arg, bound, emit)
	case *ast.Lambda:
		collectBinderDeps(t.Binders, t.Body, bound, emit)
	case *ast.Pi:
		collectBinderDeps(t.Binders, t.Body, bound, emit)
	case *ast.Sigma:
		collectBinderDeps(t.Binders, t.Body, bound, emit)
	case *ast.Let:
		collectLetDeps(t, bound, emit)
	}
}

// collectBinderDeps visits binder types and definitions in scope order, then
// the body under all bound names.
func collectBinderDeps(binders []ast.Binder, body ast.Term, bound map[string]int, emit func(string, token.Span)) {
	introduced := make([]string, 0, len(binders))
	for _, b := range binders {
		if b.Type != nil {
			collectDeps(b.Type, bound, emit)
		}
		if b.Def != nil {
			collectDeps(b.Def, bound, emit)
		}
		for _, n := range b.Names {
			bound[n.Name]++
			introduced = append(introduced, n.Name)
		}
	}
	collectDeps(body, bound, emit)
	for _, n := range introduced {
		bound[n]--
	}
}

// collectLetDeps visits the let's parameter binders, declared type and
// definition under the parameters, then the body under the let name.
func collectLetDeps(t *ast.Let, bound map[string]int, emit func(string, token.Span)) {
	introduced := make([]string, 0, len(t.Params))
	for _, b := range t.Params {
		if b.Type != nil {
			collectDeps(b.Type, bound, emit)
		}
		if b.Def != nil {
			collectDeps(b.Def, bound, emit)
		}
		for _, n := range b.Names {
			bound[n.Name]++
			introduced = append(introduced, n.Name)
		}
	}
	if t.Type != nil {
		collectDeps(t.Type, bound, emit)
	}
	collectDeps(t.Def, bound, emit)
	for _, n := range introduced {
		bound[n]--
	}
	bound[t.Name]++
	collectDeps(t.Body, bound, emit)
	bound[t.Name]--
}
