// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compliance derives per-obligation compliance status against an
// as-of date and rolls runs up into portfolio summaries. Status is a pure
// function of the deadline descriptors, the reference date, and the
// due-soon window; nothing here is persisted.
package compliance

import (
	"time"

	"github.com/pdiddy/covenant-tracker/internal/deadline"
	"github.com/pdiddy/covenant-tracker/pkg/types"
)

// Evaluate derives the compliance status of one obligation as of asOf.
// An obligation without descriptors is NotApplicable. With several
// descriptors each is evaluated independently and the most severe status
// wins, so callers always see the worst case.
func Evaluate(ob types.Obligation, asOf time.Time, dueSoonWindowDays int) types.ComplianceStatus {
	if len(ob.Deadlines) == 0 {
		return types.StatusNotApplicable
	}

	ref := deadline.DayOf(asOf)
	status := types.StatusNotApplicable
	for _, d := range ob.Deadlines {
		if s := evaluateDescriptor(d, ref, dueSoonWindowDays); types.MoreSevere(s, status) {
			status = s
		}
	}
	return status
}

// evaluateDescriptor derives the status of a single descriptor. For a
// recurrence the relevant date is the next occurrence on or after the
// reference date; past recurring instances are not individually tracked,
// so a recurrence can never be Missed.
func evaluateDescriptor(d types.DeadlineDescriptor, ref deadline.Day, windowDays int) types.ComplianceStatus {
	var due deadline.Day
	switch d.Kind {
	case types.DeadlineAbsolute:
		due = deadline.DayOf(d.Due)
	case types.DeadlineRecurrence:
		months := d.Period.Months()
		if months == 0 {
			return types.StatusNotApplicable
		}
		due = deadline.NextOccurrence(deadline.DayOf(d.Anchor), months, ref)
	default:
		return types.StatusNotApplicable
	}

	switch {
	case due < ref:
		return types.StatusMissed
	case due <= ref.AddDays(windowDays):
		return types.StatusDueSoon
	default:
		return types.StatusCompliant
	}
}

// Summarize aggregates obligations into a portfolio summary: counts per
// category, status, and tier, the mean risk score, and the headline
// Missed/DueSoon alert counts. Statuses are read from the obligations as
// given; run Evaluate first.
func Summarize(obs []types.Obligation) types.PortfolioSummary {
	s := types.PortfolioSummary{
		Total:      len(obs),
		ByCategory: make(map[types.ObligationCategory]int),
		ByStatus:   make(map[types.ComplianceStatus]int),
		ByTier:     make(map[types.RiskTier]int),
	}

	sum := 0
	for _, ob := range obs {
		s.ByCategory[ob.Category]++
		s.ByStatus[ob.Status]++
		s.ByTier[ob.RiskTier]++
		sum += ob.RiskScore
		switch ob.Status {
		case types.StatusMissed:
			s.Missed++
		case types.StatusDueSoon:
			s.DueSoon++
		}
	}
	if len(obs) > 0 {
		s.RiskIndex = float64(sum) / float64(len(obs))
	}

	return s
}
