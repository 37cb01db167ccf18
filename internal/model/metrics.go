package model

import "time"

// Tier is a countdown urgency level.
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierWarning:
		return "warning"
	default:
		return "normal"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Countdown is the urgency state of one subscription.
type Countdown struct {
	Label    string `json:"label"`
	Tier     Tier   `json:"tier"`
	DaysLeft int    `json:"daysLeft"`
	NextDue  Date   `json:"nextDue"`
}

// TierTally counts subscriptions per urgency tier.
type TierTally struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Normal   int `json:"normal"`
}

// Total returns the number of tallied items.
func (t TierTally) Total() int {
	return t.Critical + t.Warning + t.Normal
}

// NextPayment is the nearest due date and everything due on it.
type NextPayment struct {
	Date   Date     `json:"date"`
	Amount float64  `json:"amount"`
	Count  int      `json:"count"`
	Names  []string `json:"names"`
}

// Window is a closed range of calendar days.
type Window struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d lies within the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// MonthWindow returns the window covering a calendar month.
func MonthWindow(year int, month time.Month) Window {
	start := NewDate(year, month, 1)
	return Window{Start: start, End: start.MonthEnd()}
}

// YearWindow returns the window covering a calendar year.
func YearWindow(year int) Window {
	return Window{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}

// ForecastPoint is one month of a forecast series.
type ForecastPoint struct {
	Month      Date    `json:"month"`
	Amount     float64 `json:"amount"`
	Cumulative float64 `json:"cumulative"`
	Payments   int     `json:"payments"`
}

// CalendarDay is one cell of the renewal calendar.
type CalendarDay struct {
	Date      Date     `json:"date"`
	Count     int      `json:"count"`
	Amount    float64  `json:"amount"`
	Names     []string `json:"names"`
	Intensity int      `json:"intensity"`
}

// Calendar is the renewal density of one month.
type Calendar struct {
	Year   int           `json:"year"`
	Month  time.Month    `json:"month"`
	Offset int           `json:"offset"` // weekday of day 1, Sunday = 0
	Max    int           `json:"max"`
	Days   []CalendarDay `json:"days"`
}

// Slice is one group of a folder or tag breakdown.
type Slice struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Icon   string  `json:"icon,omitempty"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
	Color  string  `json:"color"`
}

// LifetimeValue projects one subscription's cost over time.
type LifetimeValue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
	TenYear float64 `json:"tenYear"`
}

// SavingsValue is what cancelling one subscription would save.
type SavingsValue struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// TrendPoint is one month of the simulated spending trend.
type TrendPoint struct {
	Month  Date    `json:"month"`
	Amount float64 `json:"amount"`
}

// Summary is the collection-level overview.
type Summary struct {
	Today           Date        `json:"today"`
	ActiveCount     int         `json:"activeCount"`
	ArchivedCount   int         `json:"archivedCount"`
	FolderCount     int         `json:"folderCount"`
	TagCount        int         `json:"tagCount"`
	Next            NextPayment `json:"nextPayment"`
	MonthlyForecast float64     `json:"monthlyForecast"`
	YearlyForecast  float64     `json:"yearlyForecast"`
	MonthlyTotal    float64     `json:"monthlyEquivalent"`
	SimulatedSpent  float64     `json:"simulatedSpent"`
	ArchivedSavings float64     `json:"archivedMonthlySavings"`
	Tiers           TierTally   `json:"tiers"`
}

// FolderCard summarizes one folder.
type FolderCard struct {
	Folder  Folder    `json:"folder"`
	Active  int       `json:"active"`
	Monthly float64   `json:"monthly"`
	Tiers   TierTally `json:"tiers"`
}

// BudgetStatus compares monthly-equivalent spend with a monthly limit.
type BudgetStatus struct {
	Limit       float64 `json:"limit"`
	Spend       float64 `json:"spend"`
	Remaining   float64 `json:"remaining"`
	UsedPercent float64 `json:"usedPercent"`
	Over        bool    `json:"over"`
}
