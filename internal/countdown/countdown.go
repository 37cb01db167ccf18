// Package countdown turns a next due date into an urgency tier and label.
package countdown

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/recurrence"
)

// WarningDays is the largest day count still classed as a warning.
const WarningDays = 3

// Classify derives the countdown for a due date relative to today.
func Classify(next, today model.Date) model.Countdown {
	days := today.DaysUntil(next)
	c := model.Countdown{DaysLeft: days, NextDue: next}
	switch {
	case days < 0:
		c.Tier, c.Label = model.TierCritical, "Overdue!"
	case days == 0:
		c.Tier, c.Label = model.TierCritical, "Today!"
	case days == 1:
		c.Tier, c.Label = model.TierCritical, "Tomorrow"
	case days <= WarningDays:
		c.Tier, c.Label = model.TierWarning, fmt.Sprintf("%d days left", days)
	default:
		c.Tier, c.Label = model.TierNormal, fmt.Sprintf("%d days left", days)
	}
	return c
}

// For resolves the subscription's next occurrence and classifies it.
func For(s model.Subscription, today model.Date) model.Countdown {
	return Classify(recurrence.NextFor(s, today), today)
}

// Tally counts the active subscriptions in each tier.
func Tally(subs []model.Subscription, today model.Date) model.TierTally {
	var t model.TierTally
	for _, s := range subs {
		if s.Archived {
			continue
		}
		switch For(s, today).Tier {
		case model.TierCritical:
			t.Critical++
		case model.TierWarning:
			t.Warning++
		default:
			t.Normal++
		}
	}
	return t
}

// Upcoming pairs a subscription with its countdown.
type Upcoming struct {
	Subscription model.Subscription `json:"subscription"`
	Countdown    model.Countdown    `json:"countdown"`
}

// Within returns active subscriptions due in at most days days (overdue
// one-time items included), soonest first.
func Within(subs []model.Subscription, today model.Date, days int) []Upcoming {
	var out []Upcoming
	for _, s := range subs {
		if s.Archived {
			continue
		}
		c := For(s, today)
		if c.DaysLeft <= days {
			out = append(out, Upcoming{Subscription: s, Countdown: c})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Countdown.DaysLeft < out[j].Countdown.DaysLeft
	})
	return out
}
