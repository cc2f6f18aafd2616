package core

import "strings"

// Printer precedence levels, weakest binding first. They mirror the surface
// grammar: quantifiers and let, then ->, then &, then application, then
// projection.
const (
	precTerm = iota
	precArrow
	precProd
	precApp
	precProj
)

func (t *Sort) String() string { return sprint(t) }
func (t *Var) String() string  { return sprint(t) }
func (t *Lam) String() string  { return sprint(t) }
func (t *Pi) String() string   { return sprint(t) }
func (t *Pair) String() string { return sprint(t) }
func (t *Fst) String() string  { return sprint(t) }
func (t *Snd) String() string  { return sprint(t) }
func (t *Sig) String() string  { return sprint(t) }
func (t *Let) String() string  { return sprint(t) }
func (t *App) String() string  { return sprint(t) }

func sprint(t Term) string {
	var sb strings.Builder
	writeTerm(&sb, t, precTerm)
	return sb.String()
}

func writeTerm(sb *strings.Builder, t Term, prec int) {
	switch t := t.(type) {
	case *Sort:
		sb.WriteString(t.Kind.String())
	case *Var:
		sb.WriteString(t.Name)
	case *Lam:
		open := prec > precTerm
		paren(sb, open, func() {
			sb.WriteString("fun ")
			sb.WriteString(t.Name)
			sb.WriteString(" : ")
			writeTerm(sb, t.Type, precTerm)
			sb.WriteString(" => ")
			writeTerm(sb, t.Body, precTerm)
		})
	case *Pi:
		if binderUnused(t.Name, t.Body) {
			open := prec > precArrow
			paren(sb, open, func() {
				writeTerm(sb, t.Type, precProd)
				sb.WriteString(" -> ")
				writeTerm(sb, t.Body, precArrow)
			})
			return
		}
		open := prec > precTerm
		paren(sb, open, func() {
			sb.WriteString("forall ")
			sb.WriteString(t.Name)
			sb.WriteString(" : ")
			writeTerm(sb, t.Type, precTerm)
			sb.WriteString(", ")
			writeTerm(sb, t.Body, precTerm)
		})
	case *Sig:
		if binderUnused(t.Name, t.Body) {
			open := prec > precProd
			paren(sb, open, func() {
				writeTerm(sb, t.Type, precProd)
				sb.WriteString(" & ")
				writeTerm(sb, t.Body, precApp)
			})
			return
		}
		open := prec > precTerm
		paren(sb, open, func() {
			sb.WriteString("exist ")
			sb.WriteString(t.Name)
			sb.WriteString(" : ")
			writeTerm(sb, t.Type, precTerm)
			sb.WriteString(", ")
			writeTerm(sb, t.Body, precTerm)
		})
	case *Let:
		open := prec > precTerm
		paren(sb, open, func() {
			sb.WriteString("let ")
			sb.WriteString(t.Name)
			if t.Type != nil {
				sb.WriteString(" : ")
				writeTerm(sb, t.Type, precTerm)
			}
			sb.WriteString(" := ")
			writeTerm(sb, t.Def, precTerm)
			sb.WriteString(" in ")
			writeTerm(sb, t.Body, precTerm)
		})
	case *Pair:
		open := t.Ann != nil && prec > precTerm
		paren(sb, open, func() {
			sb.WriteString("<")
			writeTerm(sb, t.Fst, precTerm)
			sb.WriteString(", ")
			writeTerm(sb, t.Snd, precTerm)
			sb.WriteString(">")
			if t.Ann != nil {
				sb.WriteString(" : ")
				writeTerm(sb, t.Ann, precTerm)
			}
		})
	case *Fst:
		writeTerm(sb, t.Pair, precProj)
		sb.WriteString(".1")
	case *Snd:
		writeTerm(sb, t.Pair, precProj)
		sb.WriteString(".2")
	case *App:
		open := prec > precApp
		paren(sb, open, func() {
			writeTerm(sb, t.Fun, precApp)
			sb.WriteString(" ")
			writeTerm(sb, t.Arg, precProj)
		})
	}
}

func paren(sb *strings.Builder, open bool, body func()) {
	if open {
		sb.WriteString("(")
	}
	body()
	if open {
		sb.WriteString(")")
	}
}

func binderUnused(name string, body Term) bool {
	return name == Anonymous || !FreeVars(body)[name]
}
