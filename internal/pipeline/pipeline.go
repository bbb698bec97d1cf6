// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the extraction, deadline, risk, and compliance
// stages into one pure transformation: agreement text in, enriched
// obligation records and a portfolio summary out. A pipeline holds no
// mutable state between runs; independent runs are safe to parallelize.
package pipeline

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/covenant-tracker/internal/compliance"
	"github.com/pdiddy/covenant-tracker/internal/deadline"
	"github.com/pdiddy/covenant-tracker/internal/extract"
	"github.com/pdiddy/covenant-tracker/internal/risk"
	"github.com/pdiddy/covenant-tracker/pkg/types"
)

// Diagnostic is a non-fatal condition recorded during a run, with enough
// context (stage, clause span, source text) for a reviewer to correct the
// rule configuration.
type Diagnostic struct {
	// Stage names the pipeline stage that raised the condition.
	Stage string `json:"stage" yaml:"stage"`

	// Span locates the affected clause in the document.
	Span types.Span `json:"span" yaml:"span"`

	// SourceText is the text fragment the condition concerns.
	SourceText string `json:"source_text" yaml:"source_text"`

	// Message explains the condition.
	Message string `json:"message" yaml:"message"`
}

// Result is the complete output of one document run.
type Result struct {
	Obligations []types.Obligation     `json:"obligations" yaml:"obligations"`
	Summary     types.PortfolioSummary `json:"summary" yaml:"summary"`
	Diagnostics []Diagnostic           `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Pipeline runs the full obligation analysis for one configuration. It is
// immutable after construction and safe for concurrent use.
type Pipeline struct {
	cfg       types.PipelineConfig
	extractor *extract.Extractor
	scorer    *risk.Scorer
}

// New validates cfg and compiles the rule tables. All configuration
// failures surface here as *ConfigurationError, never mid-run.
func New(cfg types.PipelineConfig) (*Pipeline, error) {
	extractor, err := extract.New(cfg.Extraction)
	if err != nil {
		return nil, &ConfigurationError{Section: "extraction", Reason: err.Error()}
	}

	scorer, err := risk.NewScorer(cfg.Risk)
	if err != nil {
		return nil, &ConfigurationError{Section: "risk", Reason: err.Error()}
	}

	if cfg.Deadline.AgreementDate.IsZero() || cfg.Deadline.FiscalYearEnd.IsZero() {
		return nil, &ConfigurationError{Section: "deadline", Reason: "agreement_date and fiscal_year_end anchors are required"}
	}

	if cfg.Compliance.DueSoonWindowDays < 0 {
		return nil, &ConfigurationError{
			Section: "compliance",
			Reason:  fmt.Sprintf("due_soon_window_days must be non-negative, got %d", cfg.Compliance.DueSoonWindowDays),
		}
	}

	return &Pipeline{cfg: cfg, extractor: extractor, scorer: scorer}, nil
}

// Run analyzes one document as of asOf. Empty text yields an empty result;
// non-text input returns *InputError. Obligations come back in source
// order, each carrying deadlines, risk, and status; running twice on the
// same text and date produces identical output.
func (p *Pipeline) Run(text string, asOf time.Time) (Result, error) {
	if err := checkText(text); err != nil {
		return Result{}, err
	}

	obligations := p.extractor.Extract(text)

	var diags []Diagnostic
	for i := range obligations {
		ob := &obligations[i]
		clause := text[ob.Span.Start:ob.Span.End]

		descs, problems := deadline.Parse(clause, p.cfg.Deadline)
		ob.Deadlines = descs
		ob.Frequency = frequencyOf(descs)
		for _, pr := range problems {
			diags = append(diags, Diagnostic{
				Stage:      "deadline",
				Span:       ob.Span,
				SourceText: pr.SourceText,
				Message:    pr.Reason,
			})
		}
		if d, ok := spilloverDiagnostic(ob); ok {
			diags = append(diags, d)
		}

		ob.RiskScore, ob.RiskTier = p.scorer.Score(*ob)
		ob.Status = compliance.Evaluate(*ob, asOf, p.cfg.Compliance.DueSoonWindowDays)
	}

	return Result{
		Obligations: obligations,
		Summary:     compliance.Summarize(obligations),
		Diagnostics: diags,
	}, nil
}

// checkText rejects input that cannot be agreement text: invalid UTF-8,
// NUL bytes, or a majority of non-printable characters.
func checkText(text string) error {
	if !utf8.ValidString(text) {
		return &InputError{Reason: "not valid UTF-8"}
	}
	if strings.ContainsRune(text, 0) {
		return &InputError{Reason: "contains NUL bytes"}
	}
	if text == "" {
		return nil
	}
	printable := 0
	total := 0
	for _, r := range text {
		total++
		if r == '\n' || r == '\r' || r == '\t' || r >= 0x20 {
			printable++
		}
	}
	if printable*2 < total {
		return &InputError{Reason: "content is mostly non-printable"}
	}
	return nil
}

// frequencyOf derives the obligation's headline cadence: the first
// recurrence descriptor's period, or event-based when there is none.
func frequencyOf(descs []types.DeadlineDescriptor) types.Frequency {
	for _, d := range descs {
		if d.Kind == types.DeadlineRecurrence {
			return d.Period
		}
	}
	return types.FreqEventBased
}

// spilloverDiagnostic flags a clause whose text yielded more than one
// absolute deadline. That often means segmentation pulled in a date
// expression belonging to a neighbouring clause; the descriptors are kept
// as parsed and surfaced for rule-author review rather than merged away.
func spilloverDiagnostic(ob *types.Obligation) (Diagnostic, bool) {
	absolutes := 0
	for _, d := range ob.Deadlines {
		if d.Kind == types.DeadlineAbsolute {
			absolutes++
		}
	}
	if absolutes <= 1 {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Stage:      "deadline",
		Span:       ob.Span,
		SourceText: ob.Description,
		Message:    fmt.Sprintf("clause carries %d absolute deadlines; possible segmentation spillover", absolutes),
	}, true
}
