package core

// Elem is a context element: an opaque variable when Def is nil, a
// transparent definition otherwise.
type Elem struct {
	Name string
	Type Term
	Def  Term
}

// IsDef reports whether the element is a transparent definition.
func (e Elem) IsDef() bool {
	return e.Def != nil
}

// Context is a judgment context: an ordered global list and an ordered local
// list. Rightmost wins on lookup; globals precede locals in scope. Contexts
// are logically immutable; extension returns a new context sharing the
// unchanged prefix.
type Context struct {
	Globals []Elem
	Locals  []Elem
}

// NewContext returns an empty judgment context.
func NewContext() *Context {
	return &Context{}
}

// Lookup searches the local list from right to left, then the global list
// from right to left. It returns nil when the name is not in scope.
func (c *Context) Lookup(name string) *Elem {
	for i := len(c.Locals) - 1; i >= 0; i-- {
		if c.Locals[i].Name == name {
			return &c.Locals[i]
		}
	}
	for i := len(c.Globals) - 1; i >= 0; i-- {
		if c.Globals[i].Name == name {
			return &c.Globals[i]
		}
	}
	return nil
}

// WithLocal returns a context extended by one local element. The receiver is
// not modified.
func (c *Context) WithLocal(e Elem) *Context {
	locals := append(c.Locals[:len(c.Locals):len(c.Locals)], e)
	return &Context{Globals: c.Globals, Locals: locals}
}

// WithGlobal returns a context extended by one global element. The receiver
// is not modified.
func (c *Context) WithGlobal(e Elem) *Context {
	globals := append(c.Globals[:len(c.Globals):len(c.Globals)], e)
	return &Context{Globals: globals, Locals: c.Locals}
}

// Names returns every name in scope, globals first, locals after.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.Globals)+len(c.Locals))
	for _, e := range c.Globals {
		names = append(names, e.Name)
	}
	for _, e := range c.Locals {
		names = append(names, e.Name)
	}
	return names
}
