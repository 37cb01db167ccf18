package pipeline

import "github.com/theirongolddev/subtrack/internal/model"

// Budget compares the active monthly-equivalent total against limit.
func Budget(subs []model.Subscription, limit float64) model.BudgetStatus {
	spend := TotalMonthlyEquivalent(model.Active(subs))
	b := model.BudgetStatus{
		Limit:     limit,
		Spend:     spend,
		Remaining: limit - spend,
		Over:      spend > limit,
	}
	if limit > 0 {
		b.UsedPercent = spend / limit * 100
	}
	return b
}
