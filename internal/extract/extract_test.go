// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"testing"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(types.ExtractionConfig{
		MinClauseTokens: 4,
		Rules:           types.DefaultRules(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// --- segmentation ---

func TestSegment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		minTokens int
		want      []string
	}{
		{
			"sentence boundaries",
			"The Borrower shall pay promptly. The Lender may inspect the books.",
			3,
			[]string{"The Borrower shall pay promptly", "The Lender may inspect the books."},
		},
		{
			"semicolons split clauses",
			"maintain the collateral in good repair; provide evidence of insurance annually",
			3,
			[]string{"maintain the collateral in good repair", "provide evidence of insurance annually"},
		},
		{
			"numbered markers are stripped",
			"5.1 The Borrower shall maintain records.",
			3,
			[]string{"The Borrower shall maintain records."},
		},
		{
			"short fragments dropped",
			"ARTICLE V. The Borrower shall deliver annual statements.",
			4,
			[]string{"The Borrower shall deliver annual statements."},
		},
		{
			"blank line boundary",
			"The Borrower shall keep books of record\n\nThe Borrower shall permit inspections",
			4,
			[]string{"The Borrower shall keep books of record", "The Borrower shall permit inspections"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses := segment(tt.text, tt.minTokens)
			if len(clauses) != len(tt.want) {
				t.Fatalf("got %d clauses %v, want %d", len(clauses), clauseTexts(clauses), len(tt.want))
			}
			for i, c := range clauses {
				if c.text != tt.want[i] {
					t.Errorf("clause %d = %q, want %q", i, c.text, tt.want[i])
				}
			}
		})
	}
}

func TestSegmentSpansIndexSource(t *testing.T) {
	text := "Preamble text here. 5.2 The Borrower shall deliver audited financial statements."
	for _, c := range segment(text, 3) {
		if got := text[c.span.Start:c.span.End]; got != c.text {
			t.Errorf("span %+v yields %q, want %q", c.span, got, c.text)
		}
	}
}

func clauseTexts(clauses []rawClause) []string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = c.text
	}
	return out
}

// --- classification ---

func TestExtractClassification(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ObligationCategory
	}{
		{
			"financial covenant",
			"The Borrower shall maintain a debt service coverage ratio of at least 1.25 to 1.00.",
			types.CategoryFinancialCovenant,
		},
		{
			"reporting requirement",
			"The Borrower shall deliver audited financial statements within 90 days after each fiscal year end.",
			types.CategoryReporting,
		},
		{
			"notification duty",
			"The Borrower shall promptly notify the Lender of any material adverse change.",
			types.CategoryNotification,
		},
		{
			"generic obligation falls to other",
			"The Borrower shall keep the collateral free of liens at all times.",
			types.CategoryOther,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newTestExtractor(t).Extract(tt.text)
			if len(obs) != 1 {
				t.Fatalf("got %d obligations, want 1", len(obs))
			}
			if obs[0].Category != tt.want {
				t.Errorf("category = %s, want %s", obs[0].Category, tt.want)
			}
		})
	}
}

func TestExtractCategoryPriority(t *testing.T) {
	// Matches both a financial-covenant rule ("leverage ratio") and a
	// notification rule ("notify"); the higher-priority category wins.
	text := "The Borrower shall notify the Lender if the leverage ratio exceeds 3.0 to 1.0."
	obs := newTestExtractor(t).Extract(text)
	if len(obs) != 1 {
		t.Fatalf("got %d obligations, want 1", len(obs))
	}
	if obs[0].Category != types.CategoryFinancialCovenant {
		t.Errorf("category = %s, want %s", obs[0].Category, types.CategoryFinancialCovenant)
	}
}

func TestExtractDiscardsNonObligations(t *testing.T) {
	text := "This Agreement is governed by the laws of the State of New York."
	if obs := newTestExtractor(t).Extract(text); len(obs) != 0 {
		t.Errorf("got %d obligations, want 0: %+v", len(obs), obs)
	}
}

func TestExtractMergesEvidenceForSameCategory(t *testing.T) {
	// Two financial-covenant keywords in one clause produce a single
	// obligation with merged evidence spans, not two obligations.
	text := "The Borrower shall maintain the leverage ratio and the interest coverage required hereunder."
	obs := newTestExtractor(t).Extract(text)
	if len(obs) != 1 {
		t.Fatalf("got %d obligations, want 1", len(obs))
	}
	if len(obs[0].Evidence) < 2 {
		t.Fatalf("evidence = %+v, want at least two keyword spans", obs[0].Evidence)
	}
	for i := 1; i < len(obs[0].Evidence); i++ {
		if obs[0].Evidence[i].Start < obs[0].Evidence[i-1].End {
			t.Errorf("evidence spans overlap or are unsorted: %+v", obs[0].Evidence)
		}
	}
}

func TestExtractOrderAndDedupe(t *testing.T) {
	text := "The Borrower shall maintain minimum liquidity at all times. " +
		"The Borrower shall deliver a compliance certificate quarterly. " +
		"The Borrower shall maintain minimum liquidity at all times."
	obs := newTestExtractor(t).Extract(text)
	if len(obs) != 2 {
		t.Fatalf("got %d obligations, want 2 (duplicate dropped)", len(obs))
	}
	if obs[0].Span.Start >= obs[1].Span.Start {
		t.Errorf("obligations out of source order: %+v then %+v", obs[0].Span, obs[1].Span)
	}
	if obs[0].Category != types.CategoryFinancialCovenant {
		t.Errorf("first obligation category = %s, want %s", obs[0].Category, types.CategoryFinancialCovenant)
	}
}

func TestExtractStableIDs(t *testing.T) {
	text := "The Borrower shall deliver audited financial statements annually."
	a := newTestExtractor(t).Extract(text)
	b := newTestExtractor(t).Extract(text)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("got %d and %d obligations, want 1 each", len(a), len(b))
	}
	if a[0].ID != b[0].ID {
		t.Errorf("IDs differ across runs: %s vs %s", a[0].ID, b[0].ID)
	}
	if a[0].ID == "" {
		t.Error("ID is empty")
	}
}

func TestResponsibleParty(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"borrower", "The Borrower shall maintain adequate insurance coverage.", "Borrower"},
		{"guarantor", "The Guarantor shall maintain minimum liquidity of $1,000,000.", "Guarantor"},
		{"default when unnamed", "Audited financial statements shall be delivered annually.", "Borrower"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newTestExtractor(t).Extract(tt.text)
			if len(obs) != 1 {
				t.Fatalf("got %d obligations, want 1", len(obs))
			}
			if obs[0].ResponsibleParty != tt.want {
				t.Errorf("party = %q, want %q", obs[0].ResponsibleParty, tt.want)
			}
		})
	}
}

// --- configuration validation ---

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.ExtractionConfig
		want string
	}{
		{"empty table", types.ExtractionConfig{}, "empty"},
		{
			"unknown category",
			types.ExtractionConfig{Rules: []types.Rule{{Category: "exotic", Keywords: []string{"x"}}}},
			"unknown category",
		},
		{
			"rule without keywords",
			types.ExtractionConfig{Rules: []types.Rule{{Category: types.CategoryOther}}},
			"no keywords",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("New succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}
