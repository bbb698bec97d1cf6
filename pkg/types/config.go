// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Rule is one category-matching pattern: a clause matches when any keyword
// matches and no exclusion does. Rules are evaluated in category priority
// order regardless of their position in the table.
type Rule struct {
	// Category is the ObligationCategory this rule assigns.
	Category ObligationCategory `json:"category" yaml:"category"`

	// Keywords are case-insensitive phrases matched on word boundaries.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Exclusions veto the rule when present in the clause.
	Exclusions []string `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
}

// ExtractionConfig holds the clause segmentation and classification settings.
type ExtractionConfig struct {
	// MinClauseTokens skips candidate clauses with fewer whitespace-separated
	// tokens, filtering fragments from bad segmentation (default 4).
	MinClauseTokens int `json:"min_clause_tokens" yaml:"min_clause_tokens"`

	// Rules is the category-matching table. Must contain at least one rule
	// per category in Categories.
	Rules []Rule `json:"rules" yaml:"rules"`
}

// DeadlineConfig supplies the anchor dates relative deadlines and
// recurrences are computed against. Neither is derivable from clause text.
type DeadlineConfig struct {
	// AgreementDate anchors offsets like "within 30 days of closing".
	AgreementDate time.Time `json:"agreement_date" yaml:"agreement_date"`

	// FiscalYearEnd anchors fiscal-period offsets and recurrences.
	FiscalYearEnd time.Time `json:"fiscal_year_end" yaml:"fiscal_year_end"`
}

// TierThresholds maps scores to tiers. A score ≤ LowMax is low, ≤ MediumMax
// is medium, anything above is high (band upper bounds are closed).
type TierThresholds struct {
	LowMax    int `json:"low_max" yaml:"low_max"`
	MediumMax int `json:"medium_max" yaml:"medium_max"`
}

// RiskConfig holds the scoring tables for the risk engine.
type RiskConfig struct {
	// BaseScores gives the starting score per category. Every category in
	// Categories must have an entry.
	BaseScores map[ObligationCategory]int `json:"base_scores" yaml:"base_scores"`

	// SeverityKeywords maps consequence cue phrases to additive bonus
	// weights. Each cue counts once per obligation.
	SeverityKeywords map[string]int `json:"severity_keywords" yaml:"severity_keywords"`

	// SeverityCap bounds the total severity bonus.
	SeverityCap int `json:"severity_cap" yaml:"severity_cap"`

	// Thresholds buckets the clamped score into tiers.
	Thresholds TierThresholds `json:"tier_thresholds" yaml:"tier_thresholds"`
}

// ComplianceConfig holds the status-derivation settings.
type ComplianceConfig struct {
	// DueSoonWindowDays is the calendar-day window before a deadline during
	// which an obligation is flagged DueSoon.
	DueSoonWindowDays int `json:"due_soon_window_days" yaml:"due_soon_window_days"`
}

// PipelineConfig groups all stage configurations. It is validated once at
// pipeline construction; a broken table fails fast before any document runs.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Deadline   DeadlineConfig   `json:"deadline" yaml:"deadline"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Compliance ComplianceConfig `json:"compliance" yaml:"compliance"`
}
