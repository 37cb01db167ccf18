package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/subtrack/internal/config"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/state"
)

func testCollection() *state.Container {
	return state.New(model.Snapshot{
		Folders: []model.Folder{{ID: "f-media", Name: "Media", Icon: "🎬"}},
		Subscriptions: []model.Subscription{
			{ID: "s-netflix", Name: "Netflix", Amount: 15.49, Anchor: model.MustDate("2025-01-17"), Recurrence: model.RecurMonthly, Tag: "Streaming", FolderID: "f-media"},
			{ID: "s-gym", Name: "Gym", Amount: 40, Anchor: model.MustDate("2025-01-01"), Recurrence: model.RecurMonthly, Tag: "Health"},
			{ID: "s-old", Name: "Old Cloud", Amount: 120, Anchor: model.MustDate("2024-03-01"), Recurrence: model.RecurYearly, Tag: "Work", Archived: true},
		},
	})
}

func newTestApp(t *testing.T, coll *state.Container) App {
	t.Helper()
	a := NewApp(coll, Options{
		Config: config.DefaultConfig(),
		Clock:  func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) },
		SaveConfig: func(config.Config) error {
			t.Fatal("config should not be saved")
			return nil
		},
	})
	t.Cleanup(a.Close)
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		a = m.(App)
	}
	return a
}

func TestSubscriptionsArchiveAndDelete(t *testing.T) {
	coll := testCollection()
	a := press(t, newTestApp(t, coll), "s")
	if a.activeTab != tabSubscriptions {
		t.Fatalf("activeTab = %d, want subscriptions", a.activeTab)
	}

	// Soonest due first: Netflix (Jan 17) then Gym (Feb 1).
	if s, _ := a.selected(); s.Name != "Netflix" {
		t.Fatalf("selected = %q, want Netflix", s.Name)
	}

	a = press(t, a, "a")
	if s, _ := coll.Subscription("s-netflix"); !s.Archived {
		t.Fatal("Netflix not archived")
	}
	if a.notice != "Archived Netflix" {
		t.Fatalf("notice = %q", a.notice)
	}

	a = press(t, a, "d")
	if len(coll.Subscriptions()) != 3 {
		t.Fatal("first d deleted without confirmation")
	}
	a = press(t, a, "j", "d")
	if len(coll.Subscriptions()) != 3 {
		t.Fatal("moving the cursor should cancel a pending delete")
	}
	a = press(t, a, "d")
	if _, err := coll.Subscription("s-gym"); err == nil {
		t.Fatal("Gym still present after d d")
	}
	if a.notice != "Deleted Gym" {
		t.Fatalf("notice = %q", a.notice)
	}
}

func TestSubscriptionsArchivedViewAndSort(t *testing.T) {
	coll := testCollection()
	a := press(t, newTestApp(t, coll), "s", "v")
	subs := a.visibleSubscriptions()
	if len(subs) != 1 || subs[0].Name != "Old Cloud" {
		t.Fatalf("archived view = %+v", subs)
	}

	a = press(t, a, "v", "S")
	if by := coll.Sort(); by.Field != model.SortByName {
		t.Fatalf("sort after S = %+v, want name", by)
	}
	if subs := a.visibleSubscriptions(); subs[0].Name != "Gym" {
		t.Fatalf("first by name = %q, want Gym", subs[0].Name)
	}
	a = press(t, a, "D")
	if subs := a.visibleSubscriptions(); subs[0].Name != "Netflix" {
		t.Fatalf("first by name desc = %q, want Netflix", subs[0].Name)
	}
}

func TestCalendarNavigation(t *testing.T) {
	a := press(t, newTestApp(t, testCollection()), "c", "]", "]")
	if a.cal.offset != 2 {
		t.Fatalf("offset = %d, want 2", a.cal.offset)
	}
	if got := a.cal.month(a.today).String(); got != "2025-03-01" {
		t.Fatalf("month = %s, want 2025-03-01", got)
	}
	a = press(t, a, "t")
	if a.cal.offset != 0 {
		t.Fatalf("offset after t = %d", a.cal.offset)
	}
}

func TestDateRolloverRecomputes(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)
	coll := testCollection()
	a := NewApp(coll, Options{Config: config.DefaultConfig(), Clock: func() time.Time { return now }})
	defer a.Close()

	if a.summary.Next.Date.String() != "2025-01-17" {
		t.Fatalf("next = %s", a.summary.Next.Date)
	}
	now = time.Date(2025, 1, 18, 0, 1, 0, 0, time.UTC)
	m, _ := a.Update(tickMsg(now))
	a = m.(App)
	if a.summary.Next.Date.String() != "2025-02-01" {
		t.Fatalf("next after rollover = %s, want 2025-02-01", a.summary.Next.Date)
	}
}

func TestViewRendersEachTab(t *testing.T) {
	a := newTestApp(t, testCollection())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	a = m.(App)

	want := map[string]string{
		"o": "Monthly equivalent",
		"s": "Netflix",
		"c": "January 2025",
		"b": "By folder",
	}
	for key, text := range want {
		a = press(t, a, key)
		if view := a.View(); !strings.Contains(view, text) {
			t.Errorf("tab %q view missing %q", key, text)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t, testCollection())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if view := m.(App).View(); strings.Contains(view, "Netflix") {
		t.Fatal("narrow terminal should not render the dashboard")
	}
}
