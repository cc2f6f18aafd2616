// Package parser implements a recursive-descent LL(1) parser for the
// declaration language. Precedence, weakest binding first: quantifier/let,
// ->, &, application, projection, atom. Every node carries the span from its
// first to its last consumed token.
package parser

import (
	"log/slog"
	"os"

	"github.com/peano-lang/peano/pkgs/ast"
	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/lexer"
	"github.com/peano-lang/peano/pkgs/token"
)

// Option configures a Parser.
type Option func(*Parser)

// WithTrace enables the production trace tree.
func WithTrace() Option {
	return func(p *Parser) { p.tracing = true }
}

// Parser holds one token of lookahead over the lexer.
type Parser struct {
	input string
	lex   *lexer.Lexer
	tok   token.Token // lookahead
	prev  token.Token // last consumed token

	tracing    bool
	traceRoots []*TraceNode
	traceStack []*TraceNode

	logger *slog.Logger
}

// New creates a parser over input.
func New(input string, opts ...Option) *Parser {
	logLevel := slog.LevelInfo
	if os.Getenv("PEANO_DEBUG_PARSER") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	p := &Parser{
		input:  input,
		lex:    lexer.New(input),
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Trace returns the recorded production trace, one root per declaration
// attempt. Empty unless WithTrace was given.
func (p *Parser) Trace() []*TraceNode {
	return p.traceRoots
}

// Parse consumes the whole input and returns the declaration list. The first
// error, whether from the lexer or the grammar, aborts the parse.
func Parse(input string) (*ast.Program, error) {
	return New(input).Parse()
}

// ParseTerm parses a single term covering the whole input. Mostly useful for
// tools and tests; source programs go through Parse.
func ParseTerm(input string) (ast.Term, error) {
	p := New(input)
	if err := p.advance(); err != nil {
		return nil, err
	}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != token.EOF {
		return nil, p.unexpected("'" + token.EOF.Symbol() + "'")
	}
	return t, nil
}

// Parse runs Program ::= Decl* EOF.
func (p *Parser) Parse() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for p.tok.Type != token.EOF {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func (p *Parser) advance() error {
	p.prev = p.tok
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expect consumes a token of the given type or fails.
func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.tok.Type != tt {
		return p.tok, p.unexpected("'" + tt.Symbol() + "'")
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return tok, err
	}
	return tok, nil
}

func (p *Parser) unexpected(expected string) error {
	return &UnexpectedTokenError{Expected: expected, Got: p.tok, Input: p.input}
}

// span closes a node span that started at start, ending at the last consumed
// token.
func (p *Parser) span(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prev.Span.End}
}

// parseDecl parses
//
//	Decl ::= ("def" | "var")? IDENT ClosedBinder* ":" Term (":=" Term)? ";"
//
// where "def" requires the ":=" clause, "var" forbids it, and an omitted
// prefix means "def".
func (p *Parser) parseDecl() (decl ast.Decl, err error) {
	tn := p.enter("Decl")
	defer func() { p.exit(tn, err) }()

	start := p.tok.Span.Start
	kind := ast.DeclDef
	switch p.tok.Type {
	case token.DEF:
		if err = p.advance(); err != nil {
			return decl, err
		}
	case token.VAR:
		kind = ast.DeclVar
		if err = p.advance(); err != nil {
			return decl, err
		}
	}

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return decl, err
	}

	var params []ast.Binder
	for p.tok.Type == token.LPAREN {
		b, berr := p.parseClosedBinder()
		if berr != nil {
			return decl, berr
		}
		params = append(params, b)
	}

	if _, err = p.expect(token.COLON); err != nil {
		return decl, err
	}
	ty, err := p.parseTerm()
	if err != nil {
		return decl, err
	}

	var def ast.Term
	if kind == ast.DeclVar {
		if p.tok.Type == token.ASSIGN {
			return decl, p.unexpected("';' (a var declaration has no definition)")
		}
	} else {
		if _, err = p.expect(token.ASSIGN); err != nil {
			return decl, err
		}
		if def, err = p.parseTerm(); err != nil {
			return decl, err
		}
	}

	if _, err = p.expect(token.SEMICOLON); err != nil {
		return decl, err
	}

	decl = ast.Decl{
		Kind:    kind,
		Name:    nameTok.Value,
		NameLoc: nameTok.Span,
		Params:  params,
		Type:    ty,
		Def:     def,
		Loc:     p.span(start),
	}
	p.logger.Debug("parsed declaration", "kind", kind.String(), "name", decl.Name, "span", decl.Loc.String())
	return decl, nil
}

// parseTerm dispatches on the weakest precedence level.
func (p *Parser) parseTerm() (t ast.Term, err error) {
	tn := p.enter("Term")
	defer func() { p.exit(tn, err) }()

	switch p.tok.Type {
	case token.FUN:
		return p.parseQuantifier(token.FUN)
	case token.FORALL:
		return p.parseQuantifier(token.FORALL)
	case token.EXIST:
		return p.parseQuantifier(token.EXIST)
	case token.LET:
		return p.parseLet()
	default:
		return p.parseArrow()
	}
}

// parseQuantifier parses "fun Binder+ => Term", "forall Binder+ , Term" and
// "exist Binder+ , Term".
func (p *Parser) parseQuantifier(kw token.Type) (t ast.Term, err error) {
	start := p.tok.Span.Start
	if err = p.advance(); err != nil {
		return nil, err
	}
	binders, err := p.parseBinders()
	if err != nil {
		return nil, err
	}
	sep := token.COMMA
	if kw == token.FUN {
		sep = token.DARROW
	}
	if _, err = p.expect(sep); err != nil {
		return nil, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	switch kw {
	case token.FUN:
		return &ast.Lambda{Binders: binders, Body: body, Loc: p.span(start)}, nil
	case token.FORALL:
		return &ast.Pi{Binders: binders, Body: body, Loc: p.span(start)}, nil
	default:
		return &ast.Sigma{Binders: binders, Body: body, Loc: p.span(start)}, nil
	}
}

// parseLet parses "let IDENT ClosedBinder* (":" Term)? ":=" Term "in" Term".
func (p *Parser) parseLet() (t ast.Term, err error) {
	start := p.tok.Span.Start
	if err = p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var params []ast.Binder
	for p.tok.Type == token.LPAREN {
		b, berr := p.parseClosedBinder()
		if berr != nil {
			return nil, berr
		}
		params = append(params, b)
	}
	var ty ast.Term
	if p.tok.Type == token.COLON {
		if err = p.advance(); err != nil {
			return nil, err
		}
		if ty, err = p.parseTerm(); err != nil {
			return nil, err
		}
	}
	if _, err = p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	def, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(token.IN); err != nil {
		return nil, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &ast.Let{
		Name:    nameTok.Value,
		NameLoc: nameTok.Span,
		Params:  params,
		Type:    ty,
		Def:     def,
		Body:    body,
		Loc:     p.span(start),
	}, nil
}

// parseBinders parses Binder+. An open binder "x y : T" is only legal as the
// sole binder group directly after the quantifier keyword; closed binders may
// repeat.
func (p *Parser) parseBinders() ([]ast.Binder, error) {
	if p.tok.Type == token.IDENT {
		b, err := p.parseOpenBinder()
		if err != nil {
			return nil, err
		}
		return []ast.Binder{b}, nil
	}
	var binders []ast.Binder
	for p.tok.Type == token.LPAREN {
		b, err := p.parseClosedBinder()
		if err != nil {
			return nil, err
		}
		binders = append(binders, b)
	}
	if len(binders) == 0 {
		return nil, p.unexpected("a binder")
	}
	return binders, nil
}

// parseOpenBinder parses "IDENT+ : Term".
func (p *Parser) parseOpenBinder() (b ast.Binder, err error) {
	tn := p.enter("OpenBinder")
	defer func() { p.exit(tn, err) }()

	start := p.tok.Span.Start
	names, err := p.parseBoundNames()
	if err != nil {
		return b, err
	}
	if _, err = p.expect(token.COLON); err != nil {
		return b, err
	}
	ty, err := p.parseTerm()
	if err != nil {
		return b, err
	}
	return ast.Binder{Names: names, Type: ty, Loc: p.span(start)}, nil
}

// parseClosedBinder parses
//
//	"(" IDENT+ ":" Term ")" | "(" IDENT ":" Term ":=" Term ")" | "(" IDENT ":=" Term ")"
func (p *Parser) parseClosedBinder() (b ast.Binder, err error) {
	tn := p.enter("ClosedBinder")
	defer func() { p.exit(tn, err) }()

	start := p.tok.Span.Start
	if _, err = p.expect(token.LPAREN); err != nil {
		return b, err
	}
	names, err := p.parseBoundNames()
	if err != nil {
		return b, err
	}

	var ty, def ast.Term
	if p.tok.Type == token.ASSIGN {
		if len(names) != 1 {
			return b, p.unexpected("':' (a definition binder binds a single name)")
		}
		if err = p.advance(); err != nil {
			return b, err
		}
		if def, err = p.parseTerm(); err != nil {
			return b, err
		}
	} else {
		if _, err = p.expect(token.COLON); err != nil {
			return b, err
		}
		if ty, err = p.parseTerm(); err != nil {
			return b, err
		}
		if p.tok.Type == token.ASSIGN {
			if len(names) != 1 {
				return b, p.unexpected("')' (a definition binder binds a single name)")
			}
			if err = p.advance(); err != nil {
				return b, err
			}
			if def, err = p.parseTerm(); err != nil {
				return b, err
			}
		}
	}

	if _, err = p.expect(token.RPAREN); err != nil {
		return b, err
	}
	return ast.Binder{Names: names, Type: ty, Def: def, Loc: p.span(start)}, nil
}

func (p *Parser) parseBoundNames() ([]ast.BoundName, error) {
	var names []ast.BoundName
	for p.tok.Type == token.IDENT {
		names = append(names, ast.BoundName{Name: p.tok.Value, Loc: p.tok.Span})
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, p.unexpected("identifier")
	}
	return names, nil
}

// parseArrow parses Arrow ::= Prod ("->" Term)?, right-associative.
func (p *Parser) parseArrow() (t ast.Term, err error) {
	tn := p.enter("Arrow")
	defer func() { p.exit(tn, err) }()

	start := p.tok.Span.Start
	lhs, err := p.parseProd()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != token.ARROW {
		return lhs, nil
	}
	if err = p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &ast.Arrow{Domain: lhs, Codomain: rhs, Loc: p.span(start)}, nil
}

// parseProd parses Prod ::= App ("&" App)*, left-associative.
func (p *Parser) parseProd() (t ast.Term, err error) {
	start := p.tok.Span.Start
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == token.AMP {
		if err = p.advance(); err != nil {
			return nil, err
		}
		rhs, rerr := p.parseApp()
		if rerr != nil {
			return nil, rerr
		}
		lhs = &ast.Prod{First: lhs, Second: rhs, Loc: p.span(start)}
	}
	return lhs, nil
}

// parseApp parses App ::= Proj Proj*, left-associative juxtaposition kept
// n-ary in the surface tree.
func (p *Parser) parseApp() (t ast.Term, err error) {
	start := p.tok.Span.Start
	first, err := p.parseProj()
	if err != nil {
		return nil, err
	}
	items := []ast.Term{first}
	for atomStart(p.tok.Type) {
		next, perr := p.parseProj()
		if perr != nil {
			return nil, perr
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &ast.Apply{Items: items, Loc: p.span(start)}, nil
}

// parseProj parses Proj ::= Atom (".1" | ".2")*.
func (p *Parser) parseProj() (t ast.Term, err error) {
	start := p.tok.Span.Start
	t, err = p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == token.DOT_ONE || p.tok.Type == token.DOT_TWO {
		first := p.tok.Type == token.DOT_ONE
		if err = p.advance(); err != nil {
			return nil, err
		}
		if first {
			t = &ast.First{Arg: t, Loc: p.span(start)}
		} else {
			t = &ast.Second{Arg: t, Loc: p.span(start)}
		}
	}
	return t, nil
}

func atomStart(tt token.Type) bool {
	switch tt {
	case token.PROP, token.TYPE, token.IDENT, token.LPAREN, token.LANGLE:
		return true
	default:
		return false
	}
}

// parseAtom parses
//
//	Atom ::= "Prop" | "Type" | IDENT | "(" Term ")" | "<" Term "," Term ">" (":" Term)?
func (p *Parser) parseAtom() (t ast.Term, err error) {
	tn := p.enter("Atom")
	defer func() { p.exit(tn, err) }()

	start := p.tok.Span.Start
	switch p.tok.Type {
	case token.PROP:
		loc := p.tok.Span
		if err = p.advance(); err != nil {
			return nil, err
		}
		return &ast.SortTerm{Kind: core.Prop, Loc: loc}, nil
	case token.TYPE:
		loc := p.tok.Span
		if err = p.advance(); err != nil {
			return nil, err
		}
		return &ast.SortTerm{Kind: core.Type, Loc: loc}, nil
	case token.IDENT:
		name := p.tok.Value
		loc := p.tok.Span
		if err = p.advance(); err != nil {
			return nil, err
		}
		return &ast.Ident{Name: name, Loc: loc}, nil
	case token.LPAREN:
		if err = p.advance(); err != nil {
			return nil, err
		}
		inner, ierr := p.parseTerm()
		if ierr != nil {
			return nil, ierr
		}
		if _, err = p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LANGLE:
		if err = p.advance(); err != nil {
			return nil, err
		}
		first, ferr := p.parseTerm()
		if ferr != nil {
			return nil, ferr
		}
		if _, err = p.expect(token.COMMA); err != nil {
			return nil, err
		}
		second, serr := p.parseTerm()
		if serr != nil {
			return nil, serr
		}
		if _, err = p.expect(token.RANGLE); err != nil {
			return nil, err
		}
		var ann ast.Term
		if p.tok.Type == token.COLON {
			if err = p.advance(); err != nil {
				return nil, err
			}
			if ann, err = p.parseTerm(); err != nil {
				return nil, err
			}
		}
		return &ast.Pair{First: first, Second: second, Ann: ann, Loc: p.span(start)}, nil
	default:
		return nil, p.unexpected("a term")
	}
}
