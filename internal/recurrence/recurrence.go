// Package recurrence resolves the occurrences of a recurring due date.
//
// Occurrence k of a schedule is derived directly from the anchor, never from
// occurrence k-1, so month-end and leap-day clamping cannot drift. Negative k
// walks backward with the same rules.
package recurrence

import (
	"time"

	"github.com/theirongolddev/subtrack/internal/model"
)

// Schedule is an anchor date plus the rule that repeats it.
type Schedule struct {
	Anchor model.Date
	Rule   model.Recurrence
}

// For returns the schedule of a subscription.
func For(s model.Subscription) Schedule {
	return Schedule{Anchor: s.Anchor, Rule: s.Recurrence}
}

// At returns occurrence k. For RecurNone every k maps to the anchor.
func (s Schedule) At(k int) model.Date {
	a := s.Anchor
	switch s.Rule {
	case model.RecurNone:
		return a
	case model.RecurDaily:
		return a.AddDays(k)
	case model.RecurWeekly:
		return a.AddDays(7 * k)
	case model.RecurMonthly:
		return addMonthsClamped(a, k)
	case model.RecurYearly:
		return addMonthsClamped(a, 12*k)
	}
	panic("recurrence: unknown rule " + s.Rule.String())
}

// addMonthsClamped moves a by n months and clamps the day to the target
// month's length, always starting from a's own day.
func addMonthsClamped(a model.Date, n int) model.Date {
	total := int(a.Month()) - 1 + n
	year := a.Year() + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	day := a.Day()
	if last := model.DaysIn(year, month); day > last {
		day = last
	}
	return model.NewDate(year, month, day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// IndexOnOrAfter returns the smallest k >= 0 with At(k) >= ref.
// For RecurNone it is always 0.
func (s Schedule) IndexOnOrAfter(ref model.Date) int {
	if s.Rule == model.RecurNone || !s.Anchor.Before(ref) {
		return 0
	}
	days := s.Anchor.DaysUntil(ref)
	var k int
	switch s.Rule {
	case model.RecurDaily:
		return days
	case model.RecurWeekly:
		return (days + 6) / 7
	case model.RecurMonthly:
		k = monthsBetween(s.Anchor, ref) - 1
	case model.RecurYearly:
		k = ref.Year() - s.Anchor.Year() - 1
	}
	if k < 0 {
		k = 0
	}
	for s.At(k).Before(ref) {
		k++
	}
	return k
}

func monthsBetween(a, b model.Date) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Next returns the first occurrence on or after ref. A one-time schedule
// returns its anchor even when that is already in the past.
func (s Schedule) Next(ref model.Date) model.Date {
	return s.At(s.IndexOnOrAfter(ref))
}

// Next is the free-function form of Schedule.Next.
func Next(anchor model.Date, rule model.Recurrence, ref model.Date) model.Date {
	return Schedule{Anchor: anchor, Rule: rule}.Next(ref)
}

// NextFor resolves a subscription's next occurrence relative to today.
func NextFor(s model.Subscription, today model.Date) model.Date {
	return For(s).Next(today)
}

// Cursor walks a schedule one occurrence at a time.
type Cursor struct {
	sched Schedule
	k     int
}

// CursorAt positions a cursor on the first occurrence on or after ref.
func (s Schedule) CursorAt(ref model.Date) *Cursor {
	return &Cursor{sched: s, k: s.IndexOnOrAfter(ref)}
}

// Date returns the current occurrence.
func (c *Cursor) Date() model.Date {
	return c.sched.At(c.k)
}

// Next advances one step. It returns false for a one-time schedule, which
// has no further occurrences.
func (c *Cursor) Next() bool {
	if c.sched.Rule == model.RecurNone {
		return false
	}
	c.k++
	return true
}

// Prev steps back one occurrence, mirroring Next.
func (c *Cursor) Prev() bool {
	if c.sched.Rule == model.RecurNone {
		return false
	}
	c.k--
	return true
}

// Between returns every occurrence in w, starting from the first occurrence
// on or after from. Dates before w.Start are skipped but still stepped over.
func (s Schedule) Between(from model.Date, w model.Window) []model.Date {
	var out []model.Date
	c := s.CursorAt(from)
	for d := c.Date(); !d.After(w.End); d = c.Date() {
		if !d.Before(w.Start) {
			out = append(out, d)
		}
		if !c.Next() {
			break
		}
	}
	return out
}
