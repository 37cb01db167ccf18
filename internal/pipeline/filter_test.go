package pipeline

import (
	"testing"

	"github.com/theirongolddev/subtrack/internal/model"
)

func names(subs []model.Subscription) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.Name
	}
	return out
}

func equalNames(got []model.Subscription, want ...string) bool {
	n := names(got)
	if len(n) != len(want) {
		return false
	}
	for i := range want {
		if n[i] != want[i] {
			return false
		}
	}
	return true
}

func TestMatchesSearch(t *testing.T) {
	s := model.Subscription{Name: "Netflix", Tag: "Entertainment"}
	for _, q := range []string{"", "net", "FLIX", "enter", "  tain "} {
		if !MatchesSearch(s, q) {
			t.Fatalf("MatchesSearch(%q) = false, want true", q)
		}
	}
	if MatchesSearch(s, "spotify") {
		t.Fatal("MatchesSearch(spotify) = true, want false")
	}
}

func TestHasTag(t *testing.T) {
	s := model.Subscription{Name: "Gym", Tag: "Health"}
	if !HasTag(s, nil) {
		t.Fatal("empty tag set should admit everything")
	}
	if !HasTag(s, []string{"Work", "Health"}) {
		t.Fatal("HasTag(Work, Health) = false, want true")
	}
	if HasTag(s, []string{"health"}) {
		t.Fatal("HasTag(health) = true, want exact match only")
	}
	if HasTag(s, []string{"Work"}) {
		t.Fatal("HasTag(Work) = true, want false")
	}
}

func TestFilter(t *testing.T) {
	subs, _ := breakdownFixture()

	if got := Filter(subs, Query{}); len(got) != 6 {
		t.Fatalf("default filter = %d items, want 6 active", len(got))
	}
	if got := Filter(subs, Query{Archived: true}); !equalNames(got, "Old") {
		t.Fatalf("archived filter = %v, want [Old]", names(got))
	}
	if got := Filter(subs, Query{Tags: []string{"Health"}}); !equalNames(got, "Gym", "Ghost") {
		t.Fatalf("tag filter = %v", names(got))
	}
	if got := Filter(subs, Query{FolderID: "f1", Search: "spot"}); !equalNames(got, "Spotify") {
		t.Fatalf("folder+search filter = %v", names(got))
	}
	if got := Filter(subs, Query{FolderID: UnfiledOnly}); !equalNames(got, "Gym", "Course") {
		t.Fatalf("unfiled filter = %v", names(got))
	}
	if got := Filter(subs, Query{AnyState: true}); len(got) != 7 {
		t.Fatalf("any-state filter = %d items, want 7", len(got))
	}
}

func TestSortByNameIsCaseInsensitive(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := []model.Subscription{
		sub("cherry", 1, "2025-01-01", model.RecurMonthly),
		sub("Banana", 1, "2025-01-01", model.RecurMonthly),
		sub("apple", 1, "2025-01-01", model.RecurMonthly),
	}
	got := Sort(subs, model.SortSettings{Field: model.SortByName, Direction: model.SortAsc}, today)
	if !equalNames(got, "apple", "Banana", "cherry") {
		t.Fatalf("asc = %v", names(got))
	}
	got = Sort(subs, model.SortSettings{Field: model.SortByName, Direction: model.SortDesc}, today)
	if !equalNames(got, "cherry", "Banana", "apple") {
		t.Fatalf("desc = %v", names(got))
	}
	if subs[0].Name != "cherry" {
		t.Fatal("Sort modified its input")
	}
}

func TestSortByAmountIsStable(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := []model.Subscription{
		sub("a", 5, "2025-01-01", model.RecurMonthly),
		sub("b", 10, "2025-01-01", model.RecurMonthly),
		sub("c", 5, "2025-01-01", model.RecurMonthly),
		sub("d", 10, "2025-01-01", model.RecurMonthly),
	}
	got := Sort(subs, model.SortSettings{Field: model.SortByAmount, Direction: model.SortAsc}, today)
	if !equalNames(got, "a", "c", "b", "d") {
		t.Fatalf("asc = %v", names(got))
	}
	got = Sort(subs, model.SortSettings{Field: model.SortByAmount, Direction: model.SortDesc}, today)
	if !equalNames(got, "b", "d", "a", "c") {
		t.Fatalf("desc = %v", names(got))
	}
}

func TestSortByDateUsesNextOccurrence(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs := []model.Subscription{
		// Anchored earliest but next due latest.
		sub("early-anchor", 1, "2020-06-09", model.RecurYearly),
		sub("mid", 1, "2025-06-20", model.RecurNone),
		sub("soon", 1, "2025-06-01", model.RecurWeekly),
	}
	got := Sort(subs, model.SortSettings{Field: model.SortByDate, Direction: model.SortAsc}, today)
	if !equalNames(got, "soon", "mid", "early-anchor") {
		t.Fatalf("date asc = %v", names(got))
	}
}

func TestSortByTag(t *testing.T) {
	today := mustDate(t, "2025-06-10")
	subs, _ := breakdownFixture()
	got := Sort(model.Active(subs), model.SortSettings{Field: model.SortByTag, Direction: model.SortAsc}, today)
	if got[0].Tag != "Education" || got[len(got)-1].Tag != "Work" {
		t.Fatalf("tag order = first %s, last %s", got[0].Tag, got[len(got)-1].Tag)
	}
}

func TestTagsAndSearchFolders(t *testing.T) {
	subs, folders := breakdownFixture()
	tags := Tags(subs)
	want := []string{"Education", "Entertainment", "Health", "Work"}
	if len(tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("Tags = %v, want %v", tags, want)
		}
	}

	if got := SearchFolders(folders, "WOR"); len(got) != 1 || got[0].ID != "f2" {
		t.Fatalf("SearchFolders(WOR) = %+v", got)
	}
	if got := SearchFolders(folders, ""); len(got) != 3 {
		t.Fatalf("SearchFolders('') = %d folders, want 3", len(got))
	}
}
