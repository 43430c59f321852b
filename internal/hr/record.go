package hr

import (
	"fmt"
	"strings"
	"time"
)

// HR export column headers.
const (
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColStatusType    = "Status Type"
	ColStatusEffDate = "Status Eff Date"
	ColEmployeeID    = "Employee ID"
)

// StatusTerminated is the Status Type value that marks a termination.
const StatusTerminated = "Terminated"

// Date layouts for Status Eff Date. The strict form is what the export
// documents; the lenient one accepts unpadded months and days.
const (
	StatusDateLayout        = "01/02/2006"
	statusDateLayoutLenient = "1/2/2006"
)

var requiredColumns = []string{ColFirstName, ColLastName, ColStatusType, ColStatusEffDate}

// EmployeeRecord is one row of the HR export.
type EmployeeRecord struct {
	Row           int // 1-indexed data row, header excluded
	FirstName     string
	LastName      string
	StatusType    string
	EmployeeID    string
	StatusEffDate time.Time
	DateRaw       string
	DateErr       error // set when Status Eff Date did not parse
}

// FullName joins first and last name with a single space, as-is.
func (r EmployeeRecord) FullName() string {
	return r.FirstName + " " + r.LastName
}

// IsTerminated reports whether the row's status is Terminated.
// The comparison ignores case and surrounding whitespace.
func (r EmployeeRecord) IsTerminated() bool {
	return strings.EqualFold(strings.TrimSpace(r.StatusType), StatusTerminated)
}

// HasDate reports whether Status Eff Date parsed.
func (r EmployeeRecord) HasDate() bool {
	return r.DateErr == nil
}

// ParseStatusDate parses a Status Eff Date value as a calendar date in loc.
func ParseStatusDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty %s", ColStatusEffDate)
	}
	if t, err := time.ParseInLocation(StatusDateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(statusDateLayoutLenient, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected MM/DD/YYYY", ColStatusEffDate, value)
	}
	return t, nil
}
