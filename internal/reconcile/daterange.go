package reconcile

import (
	"slices"
	"strings"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/hr"
)

// DateRange selects how far back a termination may have taken effect.
type DateRange int

const (
	All DateRange = iota
	LastYear
	LastQuarter
	LastMonth
	LastWeek
	LastDay
)

var dateRangeNames = map[DateRange]string{
	All:         "All",
	LastYear:    "LastYear",
	LastQuarter: "LastQuarter",
	LastMonth:   "LastMonth",
	LastWeek:    "LastWeek",
	LastDay:     "LastDay",
}

func (r DateRange) String() string {
	if name, ok := dateRangeNames[r]; ok {
		return name
	}
	return "All"
}

// ParseDateRange maps a selector name (case-insensitive) to a DateRange.
// Empty input is All. Unknown input is also All, with ok=false so the
// caller can say so.
func ParseDateRange(s string) (DateRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return All, true
	}
	for r, name := range dateRangeNames {
		if strings.EqualFold(s, name) {
			return r, true
		}
	}
	return All, false
}

// Start returns the lower bound of the window ending at now.
// All has no lower bound.
func (r DateRange) Start(now time.Time) (time.Time, bool) {
	switch r {
	case LastYear:
		return now.AddDate(-1, 0, 0), true
	case LastQuarter:
		return now.AddDate(0, -3, 0), true
	case LastMonth:
		return now.AddDate(0, -1, 0), true
	case LastWeek:
		return now.AddDate(0, 0, -7), true
	case LastDay:
		return now.AddDate(0, 0, -1), true
	default:
		return time.Time{}, false
	}
}

// Contains reports whether date falls in [Start(now), now].
func (r DateRange) Contains(date, now time.Time) bool {
	start, bounded := r.Start(now)
	if !bounded {
		return true
	}
	return !date.Before(start) && !date.After(now)
}

// FilterByWindow sorts records by StatusEffDate, newest first (stable), and
// keeps those inside the window. The input slice is not modified.
func FilterByWindow(records []hr.EmployeeRecord, r DateRange, now time.Time) []hr.EmployeeRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b hr.EmployeeRecord) int {
		return b.StatusEffDate.Compare(a.StatusEffDate)
	})

	out := make([]hr.EmployeeRecord, 0, len(sorted))
	for _, rec := range sorted {
		if r.Contains(rec.StatusEffDate, now) {
			out = append(out, rec)
		}
	}
	return out
}
