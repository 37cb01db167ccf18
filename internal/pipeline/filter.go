package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/recurrence"
)

// Query selects a subset of subscriptions. The zero Query lists active ones.
type Query struct {
	Search   string
	Tags     []string
	Archived bool   // list archived instead of active
	FolderID string // restrict to one folder; UnfiledOnly for no folder
	AnyState bool   // ignore Archived and list both
}

// UnfiledOnly as Query.FolderID restricts results to subscriptions without a folder.
const UnfiledOnly = "-"

// MatchesSearch reports whether q is a case-insensitive substring of the
// subscription's name or tag. An empty q matches everything.
func MatchesSearch(s model.Subscription, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return containsIgnoreCase(s.Name, q) || containsIgnoreCase(s.Tag, q)
}

// HasTag reports whether the subscription's tag is in tags. Tags compare
// exactly. An empty set admits every subscription.
func HasTag(s model.Subscription, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t == s.Tag {
			return true
		}
	}
	return false
}

// InFolder returns the subscriptions filed under folderID.
func InFolder(subs []model.Subscription, folderID string) []model.Subscription {
	var out []model.Subscription
	for _, s := range subs {
		if s.FolderID == folderID {
			out = append(out, s)
		}
	}
	return out
}

// Filter applies q, preserving input order.
func Filter(subs []model.Subscription, q Query) []model.Subscription {
	out := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if !q.AnyState && s.Archived != q.Archived {
			continue
		}
		switch q.FolderID {
		case "":
		case UnfiledOnly:
			if s.FolderID != "" {
				continue
			}
		default:
			if s.FolderID != q.FolderID {
				continue
			}
		}
		if !MatchesSearch(s, q.Search) || !HasTag(s, q.Tags) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SearchFolders returns folders whose name contains q, ignoring case.
func SearchFolders(folders []model.Folder, q string) []model.Folder {
	q = strings.TrimSpace(q)
	if q == "" {
		return folders
	}
	var out []model.Folder
	for _, f := range folders {
		if containsIgnoreCase(f.Name, q) {
			out = append(out, f)
		}
	}
	return out
}

// Tags returns the distinct tags of subs in collation order.
func Tags(subs []model.Subscription) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, s := range subs {
		if _, ok := seen[s.Tag]; ok {
			continue
		}
		seen[s.Tag] = struct{}{}
		tags = append(tags, s.Tag)
	}
	c := newCollator(language.Und)
	sort.SliceStable(tags, func(i, j int) bool {
		return c.CompareString(tags[i], tags[j]) < 0
	})
	return tags
}

// Sort orders a copy of subs by the given settings. Ties keep their input
// order in both directions. Date sorting uses each subscription's next
// occurrence relative to today, not its anchor.
func Sort(subs []model.Subscription, by model.SortSettings, today model.Date) []model.Subscription {
	return SortLocale(subs, by, today, language.Und)
}

// SortLocale is Sort with an explicit collation locale for name and tag.
func SortLocale(subs []model.Subscription, by model.SortSettings, today model.Date, locale language.Tag) []model.Subscription {
	out := append([]model.Subscription(nil), subs...)
	cmp := comparator(out, by.Field, today, locale)
	desc := by.Direction == model.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return cmp(j, i) < 0
		}
		return cmp(i, j) < 0
	})
	return out
}

func comparator(subs []model.Subscription, field model.SortField, today model.Date, locale language.Tag) func(i, j int) int {
	switch field {
	case model.SortByAmount:
		return func(i, j int) int {
			switch {
			case subs[i].Amount < subs[j].Amount:
				return -1
			case subs[i].Amount > subs[j].Amount:
				return 1
			}
			return 0
		}
	case model.SortByDate:
		next := make(map[string]model.Date, len(subs))
		key := func(s model.Subscription) model.Date {
			if d, ok := next[s.ID]; ok && s.ID != "" {
				return d
			}
			d := recurrence.NextFor(s, today)
			next[s.ID] = d
			return d
		}
		return func(i, j int) int {
			return key(subs[i]).Compare(key(subs[j]))
		}
	case model.SortByTag:
		c := newCollator(locale)
		return func(i, j int) int {
			return c.CompareString(subs[i].Tag, subs[j].Tag)
		}
	default:
		c := newCollator(locale)
		return func(i, j int) int {
			return c.CompareString(subs[i].Name, subs[j].Name)
		}
	}
}

func newCollator(locale language.Tag) *collate.Collator {
	return collate.New(locale, collate.IgnoreCase)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
