package pipeline

import (
	"fmt"
	"testing"

	"golang.org/x/text/language"

	"github.com/theirongolddev/subtrack/internal/model"
)

// benchSubs builds n subscriptions spread over every recurrence and anchor day.
func benchSubs(n int) []model.Subscription {
	subs := make([]model.Subscription, n)
	anchor := model.MustDate("2020-01-31")
	for i := range subs {
		subs[i] = model.Subscription{
			ID:         fmt.Sprintf("s-%04d", i),
			Name:       fmt.Sprintf("Service %d", n-i),
			Amount:     float64(i%50) + 0.99,
			Anchor:     anchor.AddDays(i * 7),
			Recurrence: model.Recurrences[1+i%4],
			Tag:        fmt.Sprintf("tag-%d", i%12),
			Archived:   i%10 == 0,
		}
	}
	return subs
}

func BenchmarkForecastSeries(b *testing.B) {
	subs := benchSubs(1000)
	today := model.MustDate("2025-06-15")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if pts := ForecastSeries(subs, today, 12); len(pts) != 12 {
			b.Fatalf("points = %d", len(pts))
		}
	}
}

func BenchmarkRenewalCalendar(b *testing.B) {
	subs := benchSubs(1000)
	today := model.MustDate("2025-06-15")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RenewalCalendar(subs, today, 2025, 7)
	}
}

func BenchmarkSortLocale(b *testing.B) {
	subs := benchSubs(1000)
	today := model.MustDate("2025-06-15")
	by := model.SortSettings{Field: model.SortByName, Direction: model.SortAsc}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SortLocale(subs, by, today, language.German)
	}
}
