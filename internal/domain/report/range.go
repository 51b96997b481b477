package report

import "time"

// Range bounds a report by inclusive calendar day. A nil bound is open.
type Range struct {
	Start *time.Time `json:"startDate,omitempty"`
	End   *time.Time `json:"endDate,omitempty"`
}

// Contains reports whether t falls on a day inside the range
func (r Range) Contains(t time.Time) bool {
	day := dayOf(t)
	if r.Start != nil && day.Before(dayOf(*r.Start)) {
		return false
	}
	if r.End != nil && day.After(dayOf(*r.End)) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
