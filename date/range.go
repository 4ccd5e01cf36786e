package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange returns the smallest range containing all the given dates.
func NewRange(days ...Date) Range {
	var r Range
	for i, d := range days {
		if i == 0 || d.Before(r.From) {
			r.From = d
		}
		if i == 0 || d.After(r.To) {
			r.To = d
		}
	}
	return r
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// IsZero reports whether the range is empty.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Days returns the number of calendar days in the range, boundaries included.
func (r Range) Days() int {
	if r.IsZero() {
		return 0
	}
	return int(r.To.time().Sub(r.From.time())/Day) + 1
}

// Identifier compute a short identifier for the Range.
// A range within a single month is identified by that month ("2024-05").
func (r Range) Identifier() string {
	if r.IsZero() {
		return ""
	}
	if r.From.Year() == r.To.Year() && r.From.Month() == r.To.Month() {
		return r.From.Format("2006-01")
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}
