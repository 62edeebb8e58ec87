// Package schedule provides pure pay-interval date arithmetic by cadence.
package schedule

import (
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/domain"
)

// Span is one concrete pay interval, endpoints inclusive
type Span struct {
	Start        time.Time
	End          time.Time
	DaysInPeriod int
}

// FirstSpan computes the first pay interval for an income profile, seeded from
// its anchor (start) date. For semi-monthly, monthly, quarterly and annual
// cadences the interval snaps to the calendar period containing the anchor.
func FirstSpan(cadence domain.Cadence, anchor time.Time) (Span, error) {
	anchor = dateOnly(anchor)

	switch cadence {
	case domain.CadenceWeekly:
		return newSpan(anchor, anchor.AddDate(0, 0, 6)), nil
	case domain.CadenceBiWeekly:
		return newSpan(anchor, anchor.AddDate(0, 0, 13)), nil
	case domain.CadenceSemiMonthly:
		// First-interval branch keys on the anchor's day of month. This is
		// deliberately independent from the next-interval branch below.
		if anchor.Day() <= 15 {
			start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
			return newSpan(start, start.AddDate(0, 0, 14)), nil
		}
		start := time.Date(anchor.Year(), anchor.Month(), 16, 0, 0, 0, 0, time.UTC)
		return newSpan(start, lastDayOfMonth(anchor)), nil
	case domain.CadenceMonthly:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return newSpan(start, lastDayOfMonth(anchor)), nil
	case domain.CadenceQuarterly:
		start := quarterStart(anchor)
		return newSpan(start, lastDayOfMonth(start.AddDate(0, 2, 0))), nil
	case domain.CadenceAnnual:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return newSpan(start, time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)), nil
	}
	return Span{}, domain.ErrUnsupportedCadence
}

// NextSpan computes the interval following a previous interval's end date. The
// new interval always begins the day after prevEnd.
func NextSpan(cadence domain.Cadence, prevEnd time.Time) (Span, error) {
	start := dateOnly(prevEnd).AddDate(0, 0, 1)

	switch cadence {
	case domain.CadenceWeekly:
		return newSpan(start, start.AddDate(0, 0, 6)), nil
	case domain.CadenceBiWeekly:
		return newSpan(start, start.AddDate(0, 0, 13)), nil
	case domain.CadenceSemiMonthly:
		// Next-interval branch keys on the new start landing on the 1st
		// (previous interval ended on the last day of a month) rather than on
		// the day-of-month test used for first intervals.
		if start.Day() == 1 {
			return newSpan(start, start.AddDate(0, 0, 14)), nil
		}
		return newSpan(start, lastDayOfMonth(start)), nil
	case domain.CadenceMonthly:
		return newSpan(start, lastDayOfMonth(start)), nil
	case domain.CadenceQuarterly:
		qs := quarterStart(start)
		return newSpan(start, lastDayOfMonth(qs.AddDate(0, 2, 0))), nil
	case domain.CadenceAnnual:
		return newSpan(start, time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)), nil
	}
	return Span{}, domain.ErrUnsupportedCadence
}

func newSpan(start, end time.Time) Span {
	return Span{
		Start:        start,
		End:          end,
		DaysInPeriod: daysBetween(start, end) + 1,
	}
}

// daysBetween returns the whole number of days from start to end
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// lastDayOfMonth returns the last day of t's month by going to day 0 of the
// next month
func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func quarterStart(t time.Time) time.Time {
	month := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}
