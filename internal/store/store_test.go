package store

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/subtrack/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "subtrack.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSnapshot() model.Snapshot {
	sort := model.SortSettings{Field: model.SortByAmount, Direction: model.SortDesc}
	return model.Snapshot{
		Folders: []model.Folder{
			{ID: "f1", Name: "Streaming", Icon: "📺"},
			{ID: "f2", Name: "Work", Icon: "💼"},
		},
		Subscriptions: []model.Subscription{
			{ID: "s1", Name: "Netflix", Amount: 15.49, Anchor: model.MustDate("2025-01-31"), Recurrence: model.RecurMonthly, Tag: "Entertainment", FolderID: "f1", Link: "https://netflix.com"},
			{ID: "s2", Name: "Domain", Amount: 12, Anchor: model.MustDate("2024-02-29"), Recurrence: model.RecurYearly, Tag: "Work", Archived: true},
		},
		Sort: &sort,
	}
}

func TestEmptyLoad(t *testing.T) {
	s := openTemp(t)
	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Subscriptions) != 0 || len(snap.Folders) != 0 || snap.Sort != nil {
		t.Fatalf("empty Load = %+v", snap)
	}
	if rev, err := s.Revision(); err != nil || rev != 0 {
		t.Fatalf("Revision = %d, %v; want 0", rev, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	want := sampleSnapshot()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Subscriptions) != 2 || len(got.Folders) != 2 {
		t.Fatalf("Load counts = %d subs, %d folders", len(got.Subscriptions), len(got.Folders))
	}
	for i := range want.Subscriptions {
		if got.Subscriptions[i] != want.Subscriptions[i] {
			t.Fatalf("subscription %d = %+v, want %+v", i, got.Subscriptions[i], want.Subscriptions[i])
		}
	}
	for i := range want.Folders {
		if got.Folders[i] != want.Folders[i] {
			t.Fatalf("folder %d = %+v, want %+v", i, got.Folders[i], want.Folders[i])
		}
	}
	if got.Sort == nil || *got.Sort != *want.Sort {
		t.Fatalf("Sort = %+v, want %+v", got.Sort, want.Sort)
	}
}

func TestSaveReplacesAndBumpsRevision(t *testing.T) {
	s := openTemp(t)
	if err := s.Save(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	smaller := sampleSnapshot()
	smaller.Subscriptions = smaller.Subscriptions[:1]
	smaller.Folders = nil
	smaller.Subscriptions[0].FolderID = ""
	if err := s.Save(smaller); err != nil {
		t.Fatal(err)
	}

	subs, folders, err := s.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if subs != 1 || folders != 0 {
		t.Fatalf("Counts = %d, %d; want 1, 0", subs, folders)
	}
	if rev, err := s.Revision(); err != nil || rev != 2 {
		t.Fatalf("Revision = %d, %v; want 2", rev, err)
	}
	if at, err := s.SavedAt(); err != nil || at.IsZero() {
		t.Fatalf("SavedAt = %v, %v", at, err)
	}
}
