package pipeline

import (
	"sort"

	"github.com/theirongolddev/subtrack/internal/model"
)

// Normalization constants for monthly-equivalent amounts.
const (
	WeeksPerMonth = 4.33
	DaysPerMonth  = 30
)

// UnfiledKey and UnfiledName label the folder breakdown bucket for
// subscriptions without a (live) folder.
const (
	UnfiledKey   = ""
	UnfiledName  = "Unfiled"
	UnfiledColor = "#6B7280"
)

// Palette colours breakdown groups by their order.
var Palette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#EC4899", "#14B8A6", "#F97316", "#6366F1", "#84CC16",
}

// PaletteColor returns the palette entry for the i-th group.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// MonthlyEquivalent normalizes a subscription's amount to a monthly figure.
// One-time payments have no monthly equivalent.
func MonthlyEquivalent(s model.Subscription) float64 {
	switch s.Recurrence {
	case model.RecurMonthly:
		return s.Amount
	case model.RecurYearly:
		return s.Amount / 12
	case model.RecurWeekly:
		return s.Amount * WeeksPerMonth
	case model.RecurDaily:
		return s.Amount * DaysPerMonth
	case model.RecurNone:
		return 0
	}
	return 0
}

// TotalMonthlyEquivalent sums MonthlyEquivalent over subs, archived included.
// Callers pick the subset.
func TotalMonthlyEquivalent(subs []model.Subscription) float64 {
	var total float64
	for _, s := range subs {
		total += MonthlyEquivalent(s)
	}
	return total
}

// BreakdownByFolder groups active subscriptions by folder, in folder order.
// Zero-amount folders are dropped. Subscriptions with no folder, or whose
// folder no longer exists, land in a trailing Unfiled bucket.
func BreakdownByFolder(subs []model.Subscription, folders []model.Folder) []model.Slice {
	index := make(map[string]int, len(folders))
	slices := make([]model.Slice, len(folders))
	for i, f := range folders {
		index[f.ID] = i
		slices[i] = model.Slice{Key: f.ID, Name: f.Name, Icon: f.Icon}
	}

	unfiled := model.Slice{Key: UnfiledKey, Name: UnfiledName, Color: UnfiledColor}
	for _, s := range subs {
		if s.Archived {
			continue
		}
		i, ok := index[s.FolderID]
		if s.FolderID == "" || !ok {
			unfiled.Amount += MonthlyEquivalent(s)
			unfiled.Count++
			continue
		}
		slices[i].Amount += MonthlyEquivalent(s)
		slices[i].Count++
	}

	out := make([]model.Slice, 0, len(slices)+1)
	for _, sl := range slices {
		if sl.Amount <= 0 {
			continue
		}
		sl.Color = PaletteColor(len(out))
		out = append(out, sl)
	}
	if unfiled.Count > 0 {
		out = append(out, unfiled)
	}
	return out
}

// BreakdownByTag groups active subscriptions by tag in first-seen order,
// dropping zero-amount tags.
func BreakdownByTag(subs []model.Subscription) []model.Slice {
	index := make(map[string]int)
	var groups []model.Slice
	for _, s := range subs {
		if s.Archived {
			continue
		}
		tag := s.Tag
		if tag == "" {
			tag = model.DefaultTag
		}
		i, ok := index[tag]
		if !ok {
			i = len(groups)
			index[tag] = i
			groups = append(groups, model.Slice{Key: tag, Name: tag})
		}
		groups[i].Amount += MonthlyEquivalent(s)
		groups[i].Count++
	}

	out := groups[:0]
	for _, g := range groups {
		if g.Amount <= 0 {
			continue
		}
		g.Color = PaletteColor(len(out))
		out = append(out, g)
	}
	return out
}

// Lifetime projects each active subscription over one and ten years,
// most expensive first.
func Lifetime(subs []model.Subscription) []model.LifetimeValue {
	var out []model.LifetimeValue
	for _, s := range subs {
		if s.Archived {
			continue
		}
		m := MonthlyEquivalent(s)
		out = append(out, model.LifetimeValue{
			ID:      s.ID,
			Name:    s.Name,
			Monthly: m,
			Yearly:  m * 12,
			TenYear: m * 120,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TenYear > out[j].TenYear
	})
	return out
}

// Savings lists what cancelling each active subscription would save per
// year, largest first.
func Savings(subs []model.Subscription) []model.SavingsValue {
	var out []model.SavingsValue
	for _, s := range subs {
		if s.Archived {
			continue
		}
		m := MonthlyEquivalent(s)
		out = append(out, model.SavingsValue{ID: s.ID, Name: s.Name, Monthly: m, Annual: m * 12})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Annual > out[j].Annual
	})
	return out
}
