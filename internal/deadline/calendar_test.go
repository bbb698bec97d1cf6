// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deadline

import (
	"testing"
	"time"
)

func TestDayRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"epoch", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"modern date", time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{"time of day truncates", time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DayOf(tt.in)
			want := time.Date(tt.in.Year(), tt.in.Month(), tt.in.Day(), 0, 0, 0, 0, time.UTC)
			if got := d.Time(); !got.Equal(want) {
				t.Errorf("round trip = %v, want %v", got, want)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	// 1970-01-01 was a Thursday; 2025-01-15 a Wednesday.
	if got := Day(0).Weekday(); got != time.Thursday {
		t.Errorf("epoch weekday = %v, want Thursday", got)
	}
	if got := Date(2025, time.January, 15).Weekday(); got != time.Wednesday {
		t.Errorf("2025-01-15 weekday = %v, want Wednesday", got)
	}
}

func TestAddBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start Day
		n     int
		want  Day
	}{
		{"zero is identity", Date(2025, time.January, 15), 0, Date(2025, time.January, 15)},
		{"within a week", Date(2025, time.January, 15), 2, Date(2025, time.January, 17)},
		{"skips one weekend", Date(2025, time.January, 17), 1, Date(2025, time.January, 20)},
		{"ten business days", Date(2025, time.January, 15), 10, Date(2025, time.January, 29)},
		{"start on saturday", Date(2025, time.January, 18), 1, Date(2025, time.January, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.AddBusinessDays(tt.n); got != tt.want {
				t.Errorf("AddBusinessDays(%d) = %v, want %v", tt.n, got.Time(), tt.want.Time())
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	anchor := Date(2025, time.January, 15)
	tests := []struct {
		name   string
		months int
		ref    Day
		want   Day
	}{
		{"first quarter after anchor", 3, Date(2025, time.February, 1), Date(2025, time.April, 15)},
		{"ref far past anchor", 3, Date(2026, time.February, 15), Date(2026, time.April, 15)},
		{"ref on an occurrence", 3, Date(2025, time.July, 15), Date(2025, time.July, 15)},
		{"ref before anchor", 3, Date(2024, time.June, 1), Date(2025, time.April, 15)},
		{"annual", 12, Date(2025, time.June, 1), Date(2026, time.January, 15)},
		{"monthly across year boundary", 1, Date(2025, time.December, 20), Date(2026, time.January, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(anchor, tt.months, tt.ref)
			if got != tt.want {
				t.Errorf("NextOccurrence = %v, want %v", got.Time(), tt.want.Time())
			}
			if got < tt.ref {
				t.Errorf("NextOccurrence returned a past occurrence %v before ref %v", got.Time(), tt.ref.Time())
			}
		})
	}
}
