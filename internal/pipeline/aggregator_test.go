package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/subtrack/internal/model"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sub(name string, amount float64, anchor string, rule model.Recurrence) model.Subscription {
	return model.Subscription{
		ID:         name,
		Name:       name,
		Amount:     amount,
		Anchor:     model.MustDate(anchor),
		Recurrence: rule,
		Tag:        model.DefaultTag,
	}
}

func forecastFixture() []model.Subscription {
	archived := sub("Old", 50, "2025-01-01", model.RecurMonthly)
	archived.Archived = true
	return []model.Subscription{
		sub("Monthly", 10, "2025-01-31", model.RecurMonthly),
		sub("Weekly", 2, "2025-06-02", model.RecurWeekly),
		sub("Once", 100, "2025-07-04", model.RecurNone),
		archived,
	}
}

func TestNextPayment_SumsTies(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	archived := sub("Archived", 99, "2025-06-11", model.RecurNone)
	archived.Archived = true
	subs := []model.Subscription{
		sub("A", 10, "2025-01-15", model.RecurMonthly),
		sub("B", 5.5, "2024-06-15", model.RecurYearly),
		sub("C", 7, "2025-05-20", model.RecurMonthly),
		archived,
	}

	np := NextPayment(subs, today)
	if np.Date.String() != "2025-06-15" {
		t.Fatalf("Date = %s, want 2025-06-15", np.Date)
	}
	if !approx(np.Amount, 15.5) {
		t.Fatalf("Amount = %.2f, want 15.50", np.Amount)
	}
	if np.Count != 2 {
		t.Fatalf("Count = %d, want 2", np.Count)
	}
}

func TestNextPayment_Empty(t *testing.T) {
	np := NextPayment(nil, mustDate(t, "2025-06-10"))
	if np.Count != 0 || np.Amount != 0 || !np.Date.IsZero() {
		t.Fatalf("NextPayment(nil) = %+v, want zero", np)
	}
}

func TestMonthlyAndYearlyForecast(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := forecastFixture()

	if got := MonthlyForecast(subs, today); !approx(got, 118) {
		t.Fatalf("MonthlyForecast = %.2f, want 118.00", got)
	}
	if got := YearlyForecast(subs, today); !approx(got, 224) {
		t.Fatalf("YearlyForecast = %.2f, want 224.00", got)
	}
}

func TestForecastSeries(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	series := ForecastSeries(forecastFixture(), today, 3)
	if len(series) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(series))
	}

	wantAmounts := []float64{16, 118, 18}
	wantCum := []float64{16, 134, 152}
	for i := range series {
		if !approx(series[i].Amount, wantAmounts[i]) {
			t.Fatalf("series[%d].Amount = %.2f, want %.2f", i, series[i].Amount, wantAmounts[i])
		}
		if !approx(series[i].Cumulative, wantCum[i]) {
			t.Fatalf("series[%d].Cumulative = %.2f, want %.2f", i, series[i].Cumulative, wantCum[i])
		}
	}
	if series[0].Month.String() != "2025-06-01" {
		t.Fatalf("first month = %s, want 2025-06-01", series[0].Month)
	}
	if series[0].Payments != 4 {
		t.Fatalf("June payments = %d, want 4", series[0].Payments)
	}
}

func TestForecastSeries_SumEqualsCumulative(t *testing.T) {
	today := mustDate(t, "2025-11-20")
	subs := []model.Subscription{
		sub("d", 1.25, "2025-01-01", model.RecurDaily),
		sub("w", 9.99, "2024-02-29", model.RecurWeekly),
		sub("m", 15.49, "2023-01-31", model.RecurMonthly),
		sub("y", 139, "2024-02-29", model.RecurYearly),
	}
	for _, n := range []int{1, 6, 12, 40} {
		series := ForecastSeries(subs, today, n)
		var sum float64
		for _, p := range series {
			sum += p.Amount
		}
		last := series[len(series)-1].Cumulative
		if math.Abs(sum-last) > 1e-6 {
			t.Fatalf("months=%d: sum %.4f != cumulative %.4f", n, sum, last)
		}
	}
	if got := len(ForecastSeries(subs, today, 40)); got != MaxForecastMonths {
		t.Fatalf("len(ForecastSeries(40)) = %d, want %d", got, MaxForecastMonths)
	}
}

func TestRenewalCalendar(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := []model.Subscription{
		sub("A", 10, "2025-01-15", model.RecurMonthly),
		sub("B", 5, "2024-06-15", model.RecurYearly),
		sub("C", 7, "2025-05-20", model.RecurMonthly),
	}
	cal := RenewalCalendar(subs, today, 2025, time.June)

	if len(cal.Days) != 30 {
		t.Fatalf("len(Days) = %d, want 30", len(cal.Days))
	}
	if cal.Offset != 0 {
		t.Fatalf("Offset = %d, want 0 (June 1 2025 is a Sunday)", cal.Offset)
	}
	if cal.Max != 2 {
		t.Fatalf("Max = %d, want 2", cal.Max)
	}
	d15 := cal.Days[14]
	if d15.Count != 2 || !approx(d15.Amount, 15) || d15.Intensity != 4 {
		t.Fatalf("day 15 = %+v, want count 2 amount 15 intensity 4", d15)
	}
	if d20 := cal.Days[19]; d20.Count != 1 || d20.Intensity != 2 {
		t.Fatalf("day 20 = %+v, want count 1 intensity 2", d20)
	}
	if cal.Days[0].Intensity != 0 {
		t.Fatalf("empty day intensity = %d, want 0", cal.Days[0].Intensity)
	}

	july := RenewalCalendar(subs, today, 2025, time.July)
	if july.Max != 0 {
		t.Fatalf("July Max = %d, want 0 (only next occurrences are placed)", july.Max)
	}
}

func TestIntensityBuckets(t *testing.T) {
	tests := []struct{ count, max, want int }{
		{0, 4, 0}, {1, 4, 1}, {2, 4, 2}, {3, 4, 3}, {4, 4, 4}, {1, 3, 2}, {1, 0, 4},
	}
	for _, tt := range tests {
		if got := Intensity(tt.count, tt.max); got != tt.want {
			t.Fatalf("Intensity(%d, %d) = %d, want %d", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestSpendingTrend(t *testing.T) {
	today := mustDate(t, "2025-06-10")

	// Each rule walks backward from its next occurrence (2025-06-16 for
	// the Monday weekly, today for the daily).
	tests := []struct {
		sub  model.Subscription
		want []float64
	}{
		{sub("Monthly", 10, "2025-01-15", model.RecurMonthly), []float64{10, 10, 10, 10, 10, 10}},
		{sub("Yearly", 120, "2024-03-01", model.RecurYearly), []float64{0, 0, 120, 0, 0, 0}},
		{sub("Weekly", 1, "2025-06-02", model.RecurWeekly), []float64{4, 4, 5, 4, 4, 3}},
		{sub("Daily", 0.5, "2024-12-01", model.RecurDaily), []float64{15.5, 14, 15.5, 15, 15.5, 5}},
		{sub("Once", 7, "2025-03-12", model.RecurNone), []float64{0, 0, 7, 0, 0, 0}},
	}

	var all []model.Subscription
	total := make([]float64, TrendMonths)
	for _, tt := range tests {
		trend := SpendingTrend([]model.Subscription{tt.sub}, today)
		if len(trend) != TrendMonths {
			t.Fatalf("%s: len(trend) = %d, want %d", tt.sub.Name, len(trend), TrendMonths)
		}
		for i, p := range trend {
			if !approx(p.Amount, tt.want[i]) {
				t.Fatalf("%s: trend[%d] (%s) = %.2f, want %.2f", tt.sub.Name, i, p.Month, p.Amount, tt.want[i])
			}
			total[i] += tt.want[i]
		}
		all = append(all, tt.sub)
	}

	trend := SpendingTrend(all, today)
	if trend[0].Month.String() != "2025-01-01" || trend[5].Month.String() != "2025-06-01" {
		t.Fatalf("trend spans %s..%s, want 2025-01-01..2025-06-01", trend[0].Month, trend[5].Month)
	}
	for i, p := range trend {
		if !approx(p.Amount, total[i]) {
			t.Fatalf("combined trend[%d] (%s) = %.2f, want %.2f", i, p.Month, p.Amount, total[i])
		}
	}

	archived := sub("Archived", 99, "2025-01-01", model.RecurMonthly)
	archived.Archived = true
	for i, p := range SpendingTrend([]model.Subscription{archived}, today) {
		if p.Amount != 0 {
			t.Fatalf("archived trend[%d] = %.2f, want 0", i, p.Amount)
		}
	}
}

func TestSummarize(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := forecastFixture()
	folders := []model.Folder{{ID: "f1", Name: "Media"}}

	s := Summarize(subs, folders, today)
	if s.ActiveCount != 3 || s.ArchivedCount != 1 {
		t.Fatalf("counts = %d active / %d archived, want 3 / 1", s.ActiveCount, s.ArchivedCount)
	}
	wantMonthly := 10 + 2*WeeksPerMonth
	if !approx(s.MonthlyTotal, wantMonthly) {
		t.Fatalf("MonthlyTotal = %.4f, want %.4f", s.MonthlyTotal, wantMonthly)
	}
	if !approx(s.SimulatedSpent, wantMonthly*SimulatedSpendMonths) {
		t.Fatalf("SimulatedSpent = %.4f", s.SimulatedSpent)
	}
	if !approx(s.ArchivedSavings, 50) {
		t.Fatalf("ArchivedSavings = %.2f, want 50", s.ArchivedSavings)
	}
	if s.Next.Date.String() != "2025-06-16" {
		t.Fatalf("Next.Date = %s, want 2025-06-16", s.Next.Date)
	}
	if s.Tiers.Total() != 3 {
		t.Fatalf("Tiers.Total = %d, want 3", s.Tiers.Total())
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, mustDate(t, "2025-06-10"))
	if s.ActiveCount != 0 || s.MonthlyForecast != 0 || s.Next.Count != 0 {
		t.Fatalf("Summarize(nil) = %+v, want zero figures", s)
	}
}
