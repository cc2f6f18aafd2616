// Package diag holds presentation helpers shared by the phases: source code
// snippets for positioned errors and did-you-mean suggestion ranking. Nothing
// in here affects checking results.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/peano-lang/peano/pkgs/token"
)

// MaxSuggestions bounds the did-you-mean candidate list.
const MaxSuggestions = 3

// Spanned is implemented by errors that know their source location.
type Spanned interface {
	Span() token.Span
}

// Snippet renders the error location in caret style:
//
//	  --> 5:13
//	   |
//	 5 | def id (A : Prop) : A := x;
//	   |             ^
func Snippet(input string, span token.Span) string {
	if input == "" || span.Start.Line == 0 {
		return ""
	}
	lines := strings.Split(input, "\n")
	if span.Start.Line > len(lines) {
		return ""
	}
	lineContent := lines[span.Start.Line-1]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  --> %d:%d\n", span.Start.Line, span.Start.Column))
	sb.WriteString("   |\n")
	sb.WriteString(fmt.Sprintf("%2d | %s\n", span.Start.Line, lineContent))
	sb.WriteString("   | ")
	if span.Start.Column > 0 && span.Start.Column <= len(lineContent)+1 {
		sb.WriteString(strings.Repeat(" ", span.Start.Column-1))
		width := 1
		if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
			width = span.End.Column - span.Start.Column
		}
		sb.WriteString(strings.Repeat("^", width))
	}
	return sb.String()
}

// maxEditDistance is the furthest typo Suggest still considers plausible.
const maxEditDistance = 2

// Suggest ranks candidates against name and returns the closest few. It keeps
// candidates within a small edit distance or containing name as a fuzzy
// subsequence, ordered by edit distance and then alphabetically.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	var close []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := fuzzy.LevenshteinDistance(name, c)
		if d <= maxEditDistance || fuzzy.MatchFold(name, c) {
			close = append(close, scored{name: c, dist: d})
		}
	}
	sort.Slice(close, func(i, j int) bool {
		if close[i].dist != close[j].dist {
			return close[i].dist < close[j].dist
		}
		return close[i].name < close[j].name
	})
	if len(close) > MaxSuggestions {
		close = close[:MaxSuggestions]
	}
	out := make([]string, 0, len(close))
	for _, s := range close {
		out = append(out, s.name)
	}
	return out
}

// FormatSuggestions renders a "did you mean" clause, empty when there is
// nothing to offer.
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s + "'"
	}
	return " (did you mean " + strings.Join(quoted, " or ") + "?)"
}
