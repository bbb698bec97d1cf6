// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

// Segmentation boundaries: sentence enders, semicolons, blank lines, and
// line-leading clause markers like "(a)", "1.2", or "Section 4.01".
var (
	boundaryRe = regexp.MustCompile(`[.!?]+\s+|;\s+|\n{2,}`)

	// markerRe strips the numbering prefix a clause may start with.
	markerRe = regexp.MustCompile(`(?i)^(?:\([a-z0-9]{1,3}\)|\d+(?:\.\d+)*[.)]?|section\s+\d+(?:\.\d+)*[.:]?)\s+`)
)

// rawClause is a candidate clause: a contiguous span of source text. It
// exists only during extraction.
type rawClause struct {
	span types.Span
	text string
}

// segment splits text into candidate clauses, preserving document offsets.
// Clauses with fewer than minTokens whitespace-separated tokens are dropped
// as likely fragments. A clause that genuinely spans a boundary (e.g. an
// abbreviation ending in a period) stays split; segmentation does not try
// to recover it.
func segment(text string, minTokens int) []rawClause {
	var clauses []rawClause

	start := 0
	for _, b := range boundaryRe.FindAllStringIndex(text, -1) {
		if c, ok := makeClause(text, start, b[0], minTokens); ok {
			clauses = append(clauses, c)
		}
		start = b[1]
	}
	if c, ok := makeClause(text, start, len(text), minTokens); ok {
		clauses = append(clauses, c)
	}

	return clauses
}

// makeClause trims whitespace and any leading clause marker from
// text[start:end], adjusting the span to the trimmed region.
func makeClause(text string, start, end, minTokens int) (rawClause, bool) {
	raw := text[start:end]

	trimmed := strings.TrimLeft(raw, " \t\r\n")
	start += len(raw) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	end = start + len(trimmed)

	if m := markerRe.FindString(trimmed); m != "" {
		start += len(m)
		trimmed = trimmed[len(m):]
	}

	if len(strings.Fields(trimmed)) < minTokens {
		return rawClause{}, false
	}

	return rawClause{span: types.Span{Start: start, End: end}, text: trimmed}, true
}
