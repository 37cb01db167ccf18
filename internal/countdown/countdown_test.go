package countdown

import (
	"testing"

	"github.com/theirongolddev/subtrack/internal/model"
)

func TestClassify(t *testing.T) {
	today := model.MustDate("2025-06-10")
	tests := []struct {
		offset int
		label  string
		tier   model.Tier
	}{
		{-1, "Overdue!", model.TierCritical},
		{0, "Today!", model.TierCritical},
		{1, "Tomorrow", model.TierCritical},
		{2, "2 days left", model.TierWarning},
		{3, "3 days left", model.TierWarning},
		{4, "4 days left", model.TierNormal},
		{30, "30 days left", model.TierNormal},
	}
	for _, tt := range tests {
		c := Classify(today.AddDays(tt.offset), today)
		if c.Label != tt.label {
			t.Fatalf("offset %d: Label = %q, want %q", tt.offset, c.Label, tt.label)
		}
		if c.Tier != tt.tier {
			t.Fatalf("offset %d: Tier = %s, want %s", tt.offset, c.Tier, tt.tier)
		}
		if c.DaysLeft != tt.offset {
			t.Fatalf("offset %d: DaysLeft = %d", tt.offset, c.DaysLeft)
		}
	}
}

func TestForOneTimeInPastIsOverdue(t *testing.T) {
	today := model.MustDate("2025-06-10")
	s := model.Subscription{Name: "Course", Amount: 99, Anchor: model.MustDate("2025-06-01"), Recurrence: model.RecurNone}
	c := For(s, today)
	if c.Label != "Overdue!" || c.DaysLeft != -9 {
		t.Fatalf("For = %+v, want Overdue! with -9 days", c)
	}
}

func TestTallySkipsArchived(t *testing.T) {
	today := model.MustDate("2025-06-10")
	subs := []model.Subscription{
		{Name: "a", Anchor: model.MustDate("2025-06-10"), Recurrence: model.RecurMonthly},
		{Name: "b", Anchor: model.MustDate("2025-06-12"), Recurrence: model.RecurMonthly},
		{Name: "c", Anchor: model.MustDate("2025-06-20"), Recurrence: model.RecurMonthly},
		{Name: "d", Anchor: model.MustDate("2025-06-10"), Recurrence: model.RecurMonthly, Archived: true},
	}
	got := Tally(subs, today)
	want := model.TierTally{Critical: 1, Warning: 1, Normal: 1}
	if got != want {
		t.Fatalf("Tally = %+v, want %+v", got, want)
	}
}

func TestWithinOrdersSoonestFirst(t *testing.T) {
	today := model.MustDate("2025-06-10")
	subs := []model.Subscription{
		{Name: "later", Anchor: model.MustDate("2025-06-15"), Recurrence: model.RecurMonthly},
		{Name: "soon", Anchor: model.MustDate("2025-06-11"), Recurrence: model.RecurMonthly},
		{Name: "far", Anchor: model.MustDate("2025-06-30"), Recurrence: model.RecurMonthly},
	}
	got := Within(subs, today, 7)
	if len(got) != 2 {
		t.Fatalf("Within returned %d items, want 2", len(got))
	}
	if got[0].Subscription.Name != "soon" || got[1].Subscription.Name != "later" {
		t.Fatalf("Within order = %s, %s", got[0].Subscription.Name, got[1].Subscription.Name)
	}
}
