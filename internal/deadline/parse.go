// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deadline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/covenant-tracker/pkg/types"
)

// Pattern families, in precedence order: explicit calendar dates, relative
// offsets against a supplied anchor, recurrence phrases. A clause may match
// several families; all resulting descriptors are returned.
var (
	// monthNameRe matches dates like "March 15, 2024" or "March 15 2024".
	monthNameRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	// isoRe matches dates like "2024-03-15".
	isoRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	// slashRe matches month/day/year dates like "3/15/2024".
	slashRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// relativeRe matches offsets like "within 30 days of closing" or
	// "no later than 90 days after each fiscal year end".
	relativeRe = regexp.MustCompile(`(?i)\b(?:within|no\s+later\s+than|not\s+later\s+than)\s+(\d+)\s+(business\s+)?(days?|weeks?|months?)\s+(?:of|after|following)\s+([a-z][a-z' -]*[a-z])`)

	// recurAdverbRe matches bare cadence adverbs. Alternation order keeps
	// "annually" from matching inside "semi-annually".
	recurAdverbRe = regexp.MustCompile(`(?i)\b(semi-annually|semiannually|monthly|quarterly|annually|yearly)\b`)

	// recurEachRe matches phrasings like "each fiscal quarter".
	recurEachRe = regexp.MustCompile(`(?i)\beach\s+(calendar\s+|fiscal\s+)?(month|quarter|year)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var adverbPeriods = map[string]types.Frequency{
	"monthly":       types.FreqMonthly,
	"quarterly":     types.FreqQuarterly,
	"semi-annually": types.FreqSemiannual,
	"semiannually":  types.FreqSemiannual,
	"annually":      types.FreqAnnual,
	"yearly":        types.FreqAnnual,
}

var eachPeriods = map[string]types.Frequency{
	"month":   types.FreqMonthly,
	"quarter": types.FreqQuarterly,
	"year":    types.FreqAnnual,
}

// Problem records a deadline expression that partially matched a pattern but
// could not be resolved to a descriptor. The obligation is still created;
// only the descriptor is skipped.
type Problem struct {
	// SourceText is the offending matched phrase.
	SourceText string

	// Reason explains why resolution failed.
	Reason string
}

// Parse extracts deadline descriptors from clause text. Relative offsets and
// recurrences resolve against the anchors in cfg. An empty result is valid:
// a clause with no date-bearing phrase yields no descriptors, not an error.
func Parse(clause string, cfg types.DeadlineConfig) ([]types.DeadlineDescriptor, []Problem) {
	var (
		descs    []types.DeadlineDescriptor
		problems []Problem
	)

	add := func(d types.DeadlineDescriptor) {
		for _, have := range descs {
			if have.Kind == d.Kind && have.Due.Equal(d.Due) &&
				have.Period == d.Period && have.Anchor.Equal(d.Anchor) {
				return
			}
		}
		descs = append(descs, d)
	}

	// Family 1: explicit calendar dates.
	for _, m := range monthNameRe.FindAllStringSubmatch(clause, -1) {
		month := monthsByName[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		emitAbsolute(year, month, day, m[0], false, add, &problems)
	}
	for _, m := range isoRe.FindAllStringSubmatch(clause, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		emitAbsolute(year, time.Month(month), day, m[0], false, add, &problems)
	}
	for _, m := range slashRe.FindAllStringSubmatch(clause, -1) {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		emitAbsolute(year, time.Month(month), day, m[0], false, add, &problems)
	}

	// Family 2: relative offsets against a supplied anchor.
	for _, m := range relativeRe.FindAllStringSubmatch(clause, -1) {
		d, problem := resolveRelative(m, cfg)
		if problem != nil {
			problems = append(problems, *problem)
			continue
		}
		add(d)
	}

	// Family 3: recurrence phrases.
	for _, m := range recurAdverbRe.FindAllStringSubmatch(clause, -1) {
		period := adverbPeriods[strings.ToLower(m[1])]
		add(recurrence(period, m[0], anchorFor(clause, cfg)))
	}
	for _, m := range recurEachRe.FindAllStringSubmatch(clause, -1) {
		period := eachPeriods[strings.ToLower(m[2])]
		anchor := cfg.AgreementDate
		if strings.EqualFold(strings.TrimSpace(m[1]), "fiscal") {
			anchor = cfg.FiscalYearEnd
		}
		add(recurrence(period, m[0], anchor))
	}

	return descs, problems
}

// emitAbsolute validates calendar components and either adds an absolute
// descriptor or records a problem for an impossible date (e.g. "2/30/2024").
func emitAbsolute(year int, month time.Month, day int, source string, business bool, add func(types.DeadlineDescriptor), problems *[]Problem) {
	if month < time.January || month > time.December || !validDate(year, month, day) {
		*problems = append(*problems, Problem{
			SourceText: source,
			Reason:     "matched a date pattern but is not a real calendar date",
		})
		return
	}
	add(types.DeadlineDescriptor{
		Kind:         types.DeadlineAbsolute,
		Due:          time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		BusinessDays: business,
		SourceText:   source,
	})
}

// validDate reports whether the components name a real date: time.Date
// normalizes overflow, so a round-trip mismatch means an impossible date.
func validDate(year int, month time.Month, day int) bool {
	if day < 1 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}

// resolveRelative turns a relativeRe match into an absolute descriptor, or
// a Problem when the reference event is not one of the supplied anchors.
func resolveRelative(m []string, cfg types.DeadlineConfig) (types.DeadlineDescriptor, *Problem) {
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty <= 0 {
		return types.DeadlineDescriptor{}, &Problem{SourceText: m[0], Reason: "offset quantity is not a positive integer"}
	}

	business := strings.TrimSpace(m[2]) != ""
	unit := strings.ToLower(strings.TrimSuffix(m[3], "s"))
	reference := strings.ToLower(m[4])

	anchor, ok := resolveAnchor(reference, cfg)
	if !ok {
		return types.DeadlineDescriptor{}, &Problem{
			SourceText: m[0],
			Reason:     fmt.Sprintf("reference event %q matches no configured anchor", strings.TrimSpace(m[4])),
		}
	}

	start := DayOf(anchor)
	var due Day
	switch unit {
	case "day":
		if business {
			due = start.AddBusinessDays(qty)
		} else {
			due = start.AddDays(qty)
		}
	case "week":
		if business {
			return types.DeadlineDescriptor{}, &Problem{SourceText: m[0], Reason: "business-day arithmetic applies to day counts only"}
		}
		due = start.AddDays(qty * 7)
	case "month":
		if business {
			return types.DeadlineDescriptor{}, &Problem{SourceText: m[0], Reason: "business-day arithmetic applies to day counts only"}
		}
		due = start.AddMonths(qty)
	}

	return types.DeadlineDescriptor{
		Kind:         types.DeadlineAbsolute,
		Due:          due.Time(),
		BusinessDays: business,
		SourceText:   m[0],
	}, nil
}

// resolveAnchor maps an offset's reference phrase to a configured anchor
// date. Fiscal-period references take the fiscal year end; closing and
// agreement references take the agreement date. Anything else (quarter
// ends, delivery events) is unresolvable from configuration alone.
func resolveAnchor(reference string, cfg types.DeadlineConfig) (time.Time, bool) {
	switch {
	case strings.Contains(reference, "fiscal year") ||
		strings.Contains(reference, "year end") ||
		strings.Contains(reference, "year-end"):
		return cfg.FiscalYearEnd, true
	case strings.Contains(reference, "closing") ||
		strings.Contains(reference, "agreement") ||
		strings.Contains(reference, "date hereof") ||
		strings.Contains(reference, "execution"):
		return cfg.AgreementDate, true
	}
	return time.Time{}, false
}

// anchorFor picks the recurrence anchor for a bare cadence adverb: fiscal
// phrasing anywhere in the clause selects the fiscal year end.
func anchorFor(clause string, cfg types.DeadlineConfig) time.Time {
	if strings.Contains(strings.ToLower(clause), "fiscal") {
		return cfg.FiscalYearEnd
	}
	return cfg.AgreementDate
}

// recurrence builds a recurrence descriptor.
func recurrence(period types.Frequency, source string, anchor time.Time) types.DeadlineDescriptor {
	return types.DeadlineDescriptor{
		Kind:       types.DeadlineRecurrence,
		Period:     period,
		Anchor:     anchor,
		SourceText: source,
	}
}
