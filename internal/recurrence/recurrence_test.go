package recurrence

import (
	"testing"

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

func TestNext_NoneReturnsAnchor(t *testing.T) {
	anchor := mustDate(t, "2024-03-15")
	for _, ref := range []string{"2020-01-01", "2024-03-15", "2030-12-31"} {
		got := Next(anchor, model.RecurNone, mustDate(t, ref))
		if !got.Equal(anchor) {
			t.Fatalf("Next(none, %s) = %s, want %s", ref, got, anchor)
		}
	}
}

func TestNext_Basic(t *testing.T) {
	tests := []struct {
		anchor string
		rule   model.Recurrence
		ref    string
		want   string
	}{
		{"2025-01-01", model.RecurDaily, "2025-01-10", "2025-01-10"},
		{"2025-01-10", model.RecurDaily, "2025-01-01", "2025-01-10"},
		{"2025-01-01", model.RecurWeekly, "2025-01-09", "2025-01-15"},
		{"2025-01-01", model.RecurWeekly, "2025-01-08", "2025-01-08"},
		{"2025-01-15", model.RecurMonthly, "2025-03-16", "2025-04-15"},
		{"2025-01-15", model.RecurMonthly, "2025-03-15", "2025-03-15"},
		{"2020-06-01", model.RecurYearly, "2025-06-02", "2026-06-01"},
		{"2024-12-31", model.RecurMonthly, "2025-02-01", "2025-02-28"},
	}
	for _, tt := range tests {
		got := Next(mustDate(t, tt.anchor), tt.rule, mustDate(t, tt.ref))
		if got.String() != tt.want {
			t.Fatalf("Next(%s, %s, %s) = %s, want %s", tt.anchor, tt.rule, tt.ref, got, tt.want)
		}
	}
}

func TestNext_NeverBeforeReference(t *testing.T) {
	anchors := []string{"2023-01-31", "2024-02-29", "2024-07-04", "2025-12-31"}
	refs := []string{"2023-01-01", "2024-03-01", "2025-02-28", "2028-02-29", "2031-11-30"}
	rules := []model.Recurrence{model.RecurDaily, model.RecurWeekly, model.RecurMonthly, model.RecurYearly}
	for _, a := range anchors {
		for _, r := range refs {
			for _, rule := range rules {
				ref := mustDate(t, r)
				got := Next(mustDate(t, a), rule, ref)
				if got.Before(ref) {
					t.Fatalf("Next(%s, %s, %s) = %s, before reference", a, rule, r, got)
				}
			}
		}
	}
}

func TestMonthlyClampUsesAnchorDay(t *testing.T) {
	s := Schedule{Anchor: mustDate(t, "2025-01-31"), Rule: model.RecurMonthly}
	want := []string{"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30", "2025-05-31", "2025-06-30"}
	for k, w := range want {
		if got := s.At(k); got.String() != w {
			t.Fatalf("At(%d) = %s, want %s", k, got, w)
		}
	}

	leap := Schedule{Anchor: mustDate(t, "2024-01-31"), Rule: model.RecurMonthly}
	if got := leap.At(1).String(); got != "2024-02-29" {
		t.Fatalf("leap February = %s, want 2024-02-29", got)
	}
}

func TestYearlyLeapClamp(t *testing.T) {
	anchor := mustDate(t, "2024-02-29")

	got := Next(anchor, model.RecurYearly, mustDate(t, "2025-01-01"))
	if got.String() != "2025-02-28" {
		t.Fatalf("Next after 2025-01-01 = %s, want 2025-02-28", got)
	}

	got = Next(anchor, model.RecurYearly, mustDate(t, "2027-03-01"))
	if got.String() != "2028-02-29" {
		t.Fatalf("Next after 2027-03-01 = %s, want 2028-02-29", got)
	}

	got = Next(anchor, model.RecurYearly, mustDate(t, "2029-01-01"))
	if got.String() != "2029-02-28" {
		t.Fatalf("Next after 2029-01-01 = %s, want 2029-02-28", got)
	}
}

func TestCursorReverseMirrorsForward(t *testing.T) {
	s := Schedule{Anchor: mustDate(t, "2025-03-31"), Rule: model.RecurMonthly}
	c := s.CursorAt(mustDate(t, "2025-03-31"))

	var back []string
	for i := 0; i < 4; i++ {
		c.Prev()
		back = append(back, c.Date().String())
	}
	want := []string{"2025-02-28", "2025-01-31", "2024-12-31", "2024-11-30"}
	for i := range want {
		if back[i] != want[i] {
			t.Fatalf("Prev step %d = %s, want %s", i+1, back[i], want[i])
		}
	}

	for i := 0; i < 4; i++ {
		c.Next()
	}
	if got := c.Date().String(); got != "2025-03-31" {
		t.Fatalf("round trip = %s, want 2025-03-31", got)
	}
}

func TestCursorNoneHasSingleOccurrence(t *testing.T) {
	s := Schedule{Anchor: mustDate(t, "2025-05-05"), Rule: model.RecurNone}
	c := s.CursorAt(mustDate(t, "2026-01-01"))
	if c.Next() {
		t.Fatal("Next on one-time schedule returned true")
	}
	if c.Prev() {
		t.Fatal("Prev on one-time schedule returned true")
	}
	if got := c.Date().String(); got != "2025-05-05" {
		t.Fatalf("Date = %s, want 2025-05-05", got)
	}
}

func TestBetween(t *testing.T) {
	s := Schedule{Anchor: mustDate(t, "2025-01-01"), Rule: model.RecurWeekly}
	w := model.MonthWindow(2025, 2)
	got := s.Between(mustDate(t, "2025-01-20"), w)
	want := []string{"2025-02-05", "2025-02-12", "2025-02-19", "2025-02-26"}
	if len(got) != len(want) {
		t.Fatalf("Between returned %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("Between[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
