package state

import (
	"testing"

	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
)

func TestSampleLoadsAndCoversEveryTier(t *testing.T) {
	today := model.MustDate("2025-03-30")
	c := New(model.Snapshot{})
	if _, err := c.Dispatch(Load{Snapshot: Sample(today)}); err != nil {
		t.Fatalf("Load(Sample) = %v", err)
	}

	got := countdown.Tally(c.Subscriptions(), today)
	want := model.TierTally{Critical: 2, Warning: 2, Normal: 1}
	if got != want {
		t.Fatalf("tally = %+v, want %+v", got, want)
	}
	if n := len(model.Archived(c.Subscriptions())); n != 1 {
		t.Fatalf("archived = %d, want 1", n)
	}
}
