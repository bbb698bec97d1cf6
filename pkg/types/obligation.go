// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared entities of the covenant-tracker pipeline.
package types

import "time"

// ObligationCategory classifies a borrower obligation. The set is closed;
// the extractor assigns a category once and it is never reassigned.
type ObligationCategory string

const (
	CategoryFinancialCovenant ObligationCategory = "financial_covenant"
	CategoryReporting         ObligationCategory = "reporting_requirement"
	CategoryNotification      ObligationCategory = "notification"
	CategoryOther             ObligationCategory = "other"
)

// Categories lists all categories in classification priority order:
// a clause matching rules of several categories takes the first.
var Categories = []ObligationCategory{
	CategoryFinancialCovenant,
	CategoryReporting,
	CategoryNotification,
	CategoryOther,
}

// RiskTier is the coarse Low/Medium/High bucket derived from a risk score.
type RiskTier string

const (
	TierLow    RiskTier = "low"
	TierMedium RiskTier = "medium"
	TierHigh   RiskTier = "high"
)

// ComplianceStatus is the derived state of an obligation relative to an
// as-of date. It is recomputed on demand, never stored durably.
type ComplianceStatus string

const (
	StatusCompliant     ComplianceStatus = "compliant"
	StatusDueSoon       ComplianceStatus = "due_soon"
	StatusMissed        ComplianceStatus = "missed"
	StatusNotApplicable ComplianceStatus = "not_applicable"
)

// statusSeverity orders statuses from least to most severe. When an
// obligation carries several deadline descriptors the most severe
// per-descriptor status wins.
var statusSeverity = map[ComplianceStatus]int{
	StatusNotApplicable: 0,
	StatusCompliant:     1,
	StatusDueSoon:       2,
	StatusMissed:        3,
}

// MoreSevere reports whether a is a worse status than b.
func MoreSevere(a, b ComplianceStatus) bool {
	return statusSeverity[a] > statusSeverity[b]
}

// Frequency labels how often a recurring obligation falls due.
type Frequency string

const (
	FreqMonthly    Frequency = "monthly"
	FreqQuarterly  Frequency = "quarterly"
	FreqSemiannual Frequency = "semiannual"
	FreqAnnual     Frequency = "annual"
	FreqEventBased Frequency = "event_based"
)

// Months returns the period length in months, or 0 for event-based.
func (f Frequency) Months() int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqQuarterly:
		return 3
	case FreqSemiannual:
		return 6
	case FreqAnnual:
		return 12
	}
	return 0
}

// Span is a half-open [Start, End) byte range into the source document.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// DeadlineKind distinguishes one-time dates from recurrence rules.
type DeadlineKind string

const (
	DeadlineAbsolute   DeadlineKind = "absolute"
	DeadlineRecurrence DeadlineKind = "recurrence"
)

// DeadlineDescriptor is either a single calendar deadline or a recurrence
// rule (period plus anchor). An obligation may carry zero or more
// descriptors; one with none is still valid and evaluates to NotApplicable.
type DeadlineDescriptor struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind DeadlineKind `json:"kind" yaml:"kind"`

	// Due is the calendar deadline. Set only for absolute descriptors.
	Due time.Time `json:"due,omitempty" yaml:"due,omitempty"`

	// Period is the recurrence period. Set only for recurrence descriptors.
	Period Frequency `json:"period,omitempty" yaml:"period,omitempty"`

	// Anchor is the event the recurrence advances from (agreement date or
	// fiscal year end). Set only for recurrence descriptors.
	Anchor time.Time `json:"anchor,omitempty" yaml:"anchor,omitempty"`

	// BusinessDays records that the deadline was computed with
	// business-day arithmetic (weekends skipped).
	BusinessDays bool `json:"business_days,omitempty" yaml:"business_days,omitempty"`

	// SourceText is the matched phrase the descriptor was parsed from.
	SourceText string `json:"source_text" yaml:"source_text"`
}

// Obligation is a structured record of one borrower duty extracted from
// agreement text. ID and Category are fixed at extraction; deadlines, risk,
// and status are filled by the later pipeline stages in order.
type Obligation struct {
	// ID is a stable identifier derived from the normalized clause text,
	// identical across re-runs on the same document.
	ID string `json:"id" yaml:"id"`

	// Category is the obligation classification, assigned once.
	Category ObligationCategory `json:"category" yaml:"category"`

	// Description is the cleaned clause text.
	Description string `json:"description" yaml:"description"`

	// Span locates the source clause within the document.
	Span Span `json:"span" yaml:"span"`

	// Evidence lists the keyword spans (document offsets) that matched the
	// classification rules. Rules of the same category merge their evidence.
	Evidence []Span `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// ResponsibleParty names the obligor, default "Borrower".
	ResponsibleParty string `json:"responsible_party" yaml:"responsible_party"`

	// Frequency is the headline cadence derived from the descriptors;
	// event_based when no recurrence descriptor exists.
	Frequency Frequency `json:"frequency" yaml:"frequency"`

	// Deadlines holds zero or more parsed deadline descriptors.
	Deadlines []DeadlineDescriptor `json:"deadlines,omitempty" yaml:"deadlines,omitempty"`

	// RiskScore is the numeric risk in [0,100].
	RiskScore int `json:"risk_score" yaml:"risk_score"`

	// RiskTier is the bucketed risk level.
	RiskTier RiskTier `json:"risk_tier" yaml:"risk_tier"`

	// Status is the compliance state for the run's as-of date.
	Status ComplianceStatus `json:"status" yaml:"status"`
}

// PortfolioSummary aggregates one pipeline run. Derived, never persisted
// by the core.
type PortfolioSummary struct {
	// Total is the number of obligations extracted.
	Total int `json:"total" yaml:"total"`

	// ByCategory counts obligations per category.
	ByCategory map[ObligationCategory]int `json:"by_category" yaml:"by_category"`

	// ByStatus counts obligations per compliance status.
	ByStatus map[ComplianceStatus]int `json:"by_status" yaml:"by_status"`

	// ByTier counts obligations per risk tier.
	ByTier map[RiskTier]int `json:"by_tier" yaml:"by_tier"`

	// RiskIndex is the mean obligation risk score, 0 for an empty run.
	RiskIndex float64 `json:"risk_index" yaml:"risk_index"`

	// Missed and DueSoon repeat the headline alert counts.
	Missed  int `json:"missed" yaml:"missed"`
	DueSoon int `json:"due_soon" yaml:"due_soon"`
}

// HasAlerts reports whether any obligation is missed or due soon.
func (s PortfolioSummary) HasAlerts() bool {
	return s.Missed > 0 || s.DueSoon > 0
}
