// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract segments loan-agreement text into candidate clauses and
// classifies each against an ordered rule table, emitting structured
// obligation records in source order.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

const defaultMinClauseTokens = 4

// idNamespace seeds obligation IDs. SHA1-UUIDs over the normalized clause
// text keep IDs identical across re-runs on the same document.
var idNamespace = uuid.MustParse("9c1f2f5e-0d5a-4b62-8a3f-6e1c24c0b7d1")

// partyRe captures the obligor when a party name leads into an obligation
// verb, e.g. "the Guarantor shall".
var partyRe = regexp.MustCompile(`(?i)\b(borrower|guarantor|lender)\b[^.;]{0,60}?\b(?:shall|must|will|agrees|covenants|is\s+required)\b`)

// compiledRule is a Rule with its keywords and exclusions compiled to
// case-insensitive word-boundary patterns.
type compiledRule struct {
	keywords   []*regexp.Regexp
	exclusions []*regexp.Regexp
}

// Extractor applies a compiled rule table to document text. It is immutable
// after construction and safe for concurrent use across documents.
type Extractor struct {
	minTokens int
	// rules grouped by category; types.Categories fixes the priority order.
	rules map[types.ObligationCategory][]compiledRule
}

// New compiles the rule table. It fails on an empty table, a rule with an
// unknown category, or a rule without keywords, so a broken configuration
// surfaces before any document is processed.
func New(cfg types.ExtractionConfig) (*Extractor, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("rule table is empty")
	}

	minTokens := cfg.MinClauseTokens
	if minTokens <= 0 {
		minTokens = defaultMinClauseTokens
	}

	known := make(map[types.ObligationCategory]bool, len(types.Categories))
	for _, c := range types.Categories {
		known[c] = true
	}

	rules := make(map[types.ObligationCategory][]compiledRule)
	for i, r := range cfg.Rules {
		if !known[r.Category] {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Category)
		}
		var cr compiledRule
		for _, kw := range r.Keywords {
			re, err := compileKeyword(kw)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): keyword %q: %w", i, r.Category, kw, err)
			}
			cr.keywords = append(cr.keywords, re)
		}
		for _, ex := range r.Exclusions {
			re, err := compileKeyword(ex)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): exclusion %q: %w", i, r.Category, ex, err)
			}
			cr.exclusions = append(cr.exclusions, re)
		}
		rules[r.Category] = append(rules[r.Category], cr)
	}

	return &Extractor{minTokens: minTokens, rules: rules}, nil
}

// compileKeyword builds a case-insensitive pattern matching the phrase on
// word boundaries, tolerant of whitespace variation between words.
func compileKeyword(phrase string) (*regexp.Regexp, error) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty keyword")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(words, `\s+`) + `\b`)
}

// Extract scans text and returns one obligation per qualifying clause, in
// source order. Clauses matching no rule are discarded; near-duplicate
// clauses keep only their first occurrence. Deadline, risk, and status
// fields are left zero for the later pipeline stages.
func (e *Extractor) Extract(text string) []types.Obligation {
	var out []types.Obligation
	seen := make(map[string]bool)

	for _, clause := range segment(text, e.minTokens) {
		category, evidence, ok := e.classify(clause)
		if !ok {
			continue
		}

		description := cleanDescription(clause.text)
		key := normalizeKey(description)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, types.Obligation{
			ID:               uuid.NewSHA1(idNamespace, []byte(key)).String(),
			Category:         category,
			Description:      description,
			Span:             clause.span,
			Evidence:         evidence,
			ResponsibleParty: responsibleParty(clause.text),
		})
	}

	return out
}

// classify evaluates rules in fixed category priority order and returns the
// first category with a matching rule. When several rules of that category
// match, their keyword evidence is merged rather than duplicating the
// obligation. Evidence spans use document offsets.
func (e *Extractor) classify(c rawClause) (types.ObligationCategory, []types.Span, bool) {
	for _, category := range types.Categories {
		var evidence []types.Span
		for _, rule := range e.rules[category] {
			evidence = append(evidence, rule.match(c)...)
		}
		if evidence != nil {
			return category, mergeSpans(evidence), true
		}
	}
	return "", nil, false
}

// match returns the keyword spans this rule matched in the clause, or nil
// when no keyword matched or an exclusion vetoed the rule.
func (r compiledRule) match(c rawClause) []types.Span {
	for _, ex := range r.exclusions {
		if ex.MatchString(c.text) {
			return nil
		}
	}
	var spans []types.Span
	for _, kw := range r.keywords {
		for _, loc := range kw.FindAllStringIndex(c.text, -1) {
			spans = append(spans, types.Span{
				Start: c.span.Start + loc[0],
				End:   c.span.Start + loc[1],
			})
		}
	}
	return spans
}

// mergeSpans sorts spans and coalesces overlaps so merged evidence from
// several rules of the same category reads as a clean union.
func mergeSpans(spans []types.Span) []types.Span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// cleanDescription collapses internal whitespace runs.
func cleanDescription(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// normalizeKey lowercases and strips non-alphanumerics, giving the dedupe
// and ID key for a clause.
func normalizeKey(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// responsibleParty names the obligor from the clause's leading party cue,
// defaulting to Borrower.
func responsibleParty(text string) string {
	if m := partyRe.FindStringSubmatch(text); m != nil {
		name := strings.ToLower(m[1])
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return "Borrower"
}
