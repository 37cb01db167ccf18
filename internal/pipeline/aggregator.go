// Package pipeline aggregates subscriptions into forward-looking spend metrics.
//
// Every function is pure: it reads a snapshot of records plus an explicit
// "today" and returns plain values. Archived subscriptions never contribute
// to forward-looking figures.
package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/recurrence"
)

// MaxForecastMonths bounds ForecastSeries.
const MaxForecastMonths = 12

// TrendMonths is the length of the simulated spending trend.
const TrendMonths = 6

// SimulatedSpendMonths is how many months of current terms "total spent" assumes.
const SimulatedSpendMonths = 6

// NextPayment finds the nearest next occurrence among active subscriptions
// and sums every subscription due on that exact date.
func NextPayment(subs []model.Subscription, today model.Date) model.NextPayment {
	var np model.NextPayment
	for _, s := range subs {
		if s.Archived {
			continue
		}
		next := recurrence.NextFor(s, today)
		switch {
		case np.Count == 0 || next.Before(np.Date):
			np = model.NextPayment{Date: next, Amount: s.Amount, Count: 1, Names: []string{s.Name}}
		case next.Equal(np.Date):
			np.Amount += s.Amount
			np.Count++
			np.Names = append(np.Names, s.Name)
		}
	}
	return np
}

// ForecastWindow sums the occurrences of active subscriptions falling in w,
// stepping forward from each one's next occurrence on or after today.
func ForecastWindow(subs []model.Subscription, today model.Date, w model.Window) float64 {
	total, _ := forecastWindow(subs, today, w)
	return total
}

func forecastWindow(subs []model.Subscription, today model.Date, w model.Window) (float64, int) {
	var total float64
	var payments int
	for _, s := range subs {
		if s.Archived {
			continue
		}
		n := len(recurrence.For(s).Between(today, w))
		total += float64(n) * s.Amount
		payments += n
	}
	return total, payments
}

// MonthlyForecast is the spend expected in the calendar month after today's.
func MonthlyForecast(subs []model.Subscription, today model.Date) float64 {
	next := today.MonthStart().Time().AddDate(0, 1, 0)
	return ForecastWindow(subs, today, model.MonthWindow(next.Year(), next.Month()))
}

// YearlyForecast is the spend expected in the calendar year after today's.
func YearlyForecast(subs []model.Subscription, today model.Date) float64 {
	return ForecastWindow(subs, today, model.YearWindow(today.Year()+1))
}

// ForecastSeries returns per-month and cumulative spend for the given number
// of calendar months, starting with the current one. months is clamped to
// [1, MaxForecastMonths].
func ForecastSeries(subs []model.Subscription, today model.Date, months int) []model.ForecastPoint {
	months = clamp(months, 1, MaxForecastMonths)
	start := today.MonthStart()
	points := make([]model.ForecastPoint, 0, months)
	var cumulative float64
	for i := 0; i < months; i++ {
		m := start.Time().AddDate(0, i, 0)
		amount, payments := forecastWindow(subs, today, model.MonthWindow(m.Year(), m.Month()))
		cumulative += amount
		points = append(points, model.ForecastPoint{
			Month:      model.DateOf(m),
			Amount:     amount,
			Cumulative: cumulative,
			Payments:   payments,
		})
	}
	return points
}

// RenewalCalendar lays out which active subscriptions fall due on each day
// of the given month. Only each subscription's next occurrence relative to
// today is placed.
func RenewalCalendar(subs []model.Subscription, today model.Date, year int, month time.Month) model.Calendar {
	first := model.NewDate(year, month, 1)
	days := model.DaysIn(year, month)
	cal := model.Calendar{
		Year:   first.Year(),
		Month:  first.Month(),
		Offset: int(first.Weekday()),
		Days:   make([]model.CalendarDay, days),
	}
	for i := range cal.Days {
		cal.Days[i].Date = first.AddDays(i)
	}

	for _, s := range subs {
		if s.Archived {
			continue
		}
		next := recurrence.NextFor(s, today)
		if next.Year() != cal.Year || next.Month() != cal.Month {
			continue
		}
		day := &cal.Days[next.Day()-1]
		day.Count++
		day.Amount += s.Amount
		day.Names = append(day.Names, s.Name)
	}

	for _, d := range cal.Days {
		if d.Count > cal.Max {
			cal.Max = d.Count
		}
	}
	for i := range cal.Days {
		cal.Days[i].Intensity = Intensity(cal.Days[i].Count, cal.Max)
	}
	return cal
}

// Intensity buckets count into heat levels 0-4 relative to max.
func Intensity(count, max int) int {
	if count <= 0 {
		return 0
	}
	if max < 1 {
		max = 1
	}
	return int(math.Ceil(float64(count) / float64(max) * 4))
}

// SpendingTrend simulates spend for the last TrendMonths months, ending with
// the current one, by walking each active subscription backward from its
// next occurrence. It assumes current terms held for the whole lookback.
func SpendingTrend(subs []model.Subscription, today model.Date) []model.TrendPoint {
	points := make([]model.TrendPoint, 0, TrendMonths)
	current := today.MonthStart()
	for i := TrendMonths - 1; i >= 0; i-- {
		m := model.DateOf(current.Time().AddDate(0, -i, 0))
		w := model.MonthWindow(m.Year(), m.Month())
		horizon := m.AddDays(-365)

		var amount float64
		for _, s := range subs {
			if s.Archived {
				continue
			}
			c := recurrence.For(s).CursorAt(today)
			for d := c.Date(); d.After(horizon); d = c.Date() {
				if w.Contains(d) {
					amount += s.Amount
				}
				if !c.Prev() {
					break
				}
			}
		}
		points = append(points, model.TrendPoint{Month: m, Amount: amount})
	}
	return points
}

// Summarize builds the collection overview.
func Summarize(subs []model.Subscription, folders []model.Folder, today model.Date) model.Summary {
	active := model.Active(subs)
	monthly := TotalMonthlyEquivalent(active)
	return model.Summary{
		Today:           today,
		ActiveCount:     len(active),
		ArchivedCount:   len(subs) - len(active),
		FolderCount:     len(folders),
		TagCount:        len(Tags(active)),
		Next:            NextPayment(active, today),
		MonthlyForecast: MonthlyForecast(active, today),
		YearlyForecast:  YearlyForecast(active, today),
		MonthlyTotal:    monthly,
		SimulatedSpent:  monthly * SimulatedSpendMonths,
		ArchivedSavings: TotalMonthlyEquivalent(model.Archived(subs)),
		Tiers:           countdown.Tally(active, today),
	}
}

// FolderOverview summarizes each folder's active subscriptions, in folder order.
func FolderOverview(subs []model.Subscription, folders []model.Folder, today model.Date) []model.FolderCard {
	cards := make([]model.FolderCard, 0, len(folders))
	for _, f := range folders {
		members := InFolder(model.Active(subs), f.ID)
		cards = append(cards, model.FolderCard{
			Folder:  f,
			Active:  len(members),
			Monthly: TotalMonthlyEquivalent(members),
			Tiers:   countdown.Tally(members, today),
		})
	}
	return cards
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
