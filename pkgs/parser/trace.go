package parser

import (
	"fmt"
	"strings"

	"github.com/peano-lang/peano/pkgs/token"
)

// TraceNode records one production attempt for diagnostics. The trace is an
// observer: it is retrievable after parsing but never consulted by the parser
// or any later phase.
type TraceNode struct {
	Production string
	Loc        token.Span
	Failed     bool
	Children   []*TraceNode
}

// Dump renders the trace as an indented tree.
func (n *TraceNode) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *TraceNode) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	status := "ok"
	if n.Failed {
		status = "error"
	}
	sb.WriteString(fmt.Sprintf("%s %s [%s]\n", n.Production, n.Loc, status))
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}

// enter pushes a trace node for the named production. It returns nil when
// tracing is disabled; exit tolerates that.
func (p *Parser) enter(production string) *TraceNode {
	if !p.tracing {
		return nil
	}
	n := &TraceNode{
		Production: production,
		Loc:        token.Span{Start: p.tok.Span.Start},
	}
	if len(p.traceStack) > 0 {
		parent := p.traceStack[len(p.traceStack)-1]
		parent.Children = append(parent.Children, n)
	} else {
		p.traceRoots = append(p.traceRoots, n)
	}
	p.traceStack = append(p.traceStack, n)
	return n
}

// exit records the production's covered range and outcome.
func (p *Parser) exit(n *TraceNode, err error) {
	if n == nil {
		return
	}
	n.Loc.End = p.prev.Span.End
	n.Failed = err != nil
	p.traceStack = p.traceStack[:len(p.traceStack)-1]
}
