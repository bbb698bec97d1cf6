// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deadline parses natural-language deadline expressions into
// normalized descriptors and provides the day-count calendar arithmetic
// the compliance stage evaluates them with.
package deadline

import "time"

// Day is a calendar date as days since 1970-01-01 UTC. Period and window
// arithmetic runs on Day values; time.Time appears only at the boundary.
type Day int

// DayOf truncates t to its UTC calendar date.
func DayOf(t time.Time) Day {
	u := t.In(time.UTC)
	secs := u.Unix()
	d := secs / 86400
	if secs < 0 && secs%86400 != 0 {
		d--
	}
	return Day(d)
}

// Date builds a Day from calendar components.
func Date(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Time converts back to a UTC midnight time.Time.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday {
	// 1970-01-01 was a Thursday.
	w := (int(d) + 4) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

// AddDays moves d by n calendar days.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// AddBusinessDays moves d forward by n business days, skipping Saturdays
// and Sundays. Holidays are not observed.
func (d Day) AddBusinessDays(n int) Day {
	out := d
	for i := 0; i < n; i++ {
		out++
		for out.Weekday() == time.Saturday || out.Weekday() == time.Sunday {
			out++
		}
	}
	return out
}

// AddMonths moves d by n calendar months using Go's date normalization
// (overflowing days roll into the next month).
func (d Day) AddMonths(n int) Day {
	return DayOf(d.Time().AddDate(0, n, 0))
}

// NextOccurrence returns the first recurrence instance on or after ref,
// advancing from anchor by whole periods of periodMonths. Past instances
// are never returned; the first instance considered is anchor plus one
// period, since the anchor itself is the reference event, not a deadline.
func NextOccurrence(anchor Day, periodMonths int, ref Day) Day {
	if periodMonths <= 0 {
		return anchor
	}

	// Estimate the period count from the month delta, then correct with a
	// short walk. AddDate is always applied to the anchor so day-of-month
	// normalization cannot accumulate.
	at, rt := anchor.Time(), ref.Time()
	monthsApart := (rt.Year()-at.Year())*12 + int(rt.Month()) - int(at.Month())
	n := monthsApart/periodMonths - 1
	if n < 1 {
		n = 1
	}
	for {
		occ := anchor.AddMonths(n * periodMonths)
		if occ >= ref && n > 1 {
			// Step back while the previous instance still qualifies.
			if prev := anchor.AddMonths((n - 1) * periodMonths); prev >= ref {
				n--
				continue
			}
		}
		if occ >= ref {
			return occ
		}
		n++
	}
}
