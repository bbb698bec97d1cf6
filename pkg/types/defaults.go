// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultConfig returns the built-in rule and scoring tables. Callers
// typically overlay a rules file on top; the anchors here are placeholders
// and should always come from the loan being analyzed.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Extraction: ExtractionConfig{
			MinClauseTokens: 4,
			Rules:           DefaultRules(),
		},
		Deadline: DeadlineConfig{
			AgreementDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			FiscalYearEnd: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		Risk: RiskConfig{
			BaseScores: map[ObligationCategory]int{
				CategoryFinancialCovenant: 55,
				CategoryReporting:         35,
				CategoryNotification:      25,
				CategoryOther:             15,
			},
			SeverityKeywords: map[string]int{
				"event of default":  20,
				"default":           15,
				"acceleration":      15,
				"accelerate":        15,
				"cross-default":     15,
				"foreclosure":       15,
				"terminate":         12,
				"termination":       12,
				"penalty":           10,
				"forfeit":           10,
				"material adverse":  10,
				"cure period":       5,
				"waiver":            5,
				"consent":           5,
				"fee":               5,
			},
			SeverityCap: 40,
			Thresholds:  TierThresholds{LowMax: 33, MediumMax: 67},
		},
		Compliance: ComplianceConfig{
			DueSoonWindowDays: 14,
		},
	}
}

// DefaultRules is the built-in category-matching table. Keyword vocabularies
// cover the covenant, reporting, and notification language typical of
// syndicated loan agreements.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: CategoryFinancialCovenant,
			Keywords: []string{
				"debt service coverage",
				"interest coverage",
				"leverage ratio",
				"current ratio",
				"quick ratio",
				"working capital",
				"debt to equity",
				"total debt",
				"net worth",
				"financial covenant",
				"ratio covenant",
				"minimum liquidity",
				"capital expenditure",
			},
		},
		{
			Category: CategoryReporting,
			Keywords: []string{
				"financial statements",
				"income statement",
				"balance sheet",
				"cash flow statement",
				"compliance certificate",
				"tax returns",
				"audited",
				"annual report",
				"quarterly report",
				"monthly report",
				"budget",
			},
			Exclusions: []string{"press release"},
		},
		{
			Category: CategoryNotification,
			Keywords: []string{
				"notify",
				"notice of",
				"notification",
				"inform",
				"advise",
				"promptly notify",
				"material adverse change",
				"event of default",
			},
		},
		{
			Category: CategoryOther,
			Keywords: []string{
				"shall",
				"must",
				"agrees to",
				"is required to",
				"covenants to",
			},
		},
	}
}
