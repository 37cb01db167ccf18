package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/tui/components"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

const maxUpcomingRows = 8

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	var b strings.Builder

	// Row 1: Metric cards
	next := "-"
	nextDelta := "nothing scheduled"
	if !sum.Next.Date.IsZero() {
		next = cli.FormatMoney(sum.Next.Amount)
		nextDelta = fmt.Sprintf("%s · %s", sum.Next.Date.Format("Jan 2"), strings.Join(sum.Next.Names, ", "))
	}
	metrics := []components.Metric{
		{Label: "Monthly equivalent", Value: cli.FormatMoney(sum.MonthlyTotal), Delta: fmt.Sprintf("%d active · %d archived", sum.ActiveCount, sum.ArchivedCount), Color: t.AccentBright},
		{Label: "Next payment", Value: next, Delta: nextDelta},
		{Label: "Next month", Value: cli.FormatMoney(sum.MonthlyForecast), Delta: "forecast"},
		{Label: "Next year", Value: cli.FormatMoney(sum.YearlyForecast), Delta: "forecast"},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: Upcoming renewals + forecast chart
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}
	upcomingCard := components.ContentCard(
		fmt.Sprintf("Due within %d days", a.cfg.General.UpcomingDays),
		a.renderUpcoming(components.CardInnerWidth(halves[0])),
		halves[0],
	)

	vals := make([]float64, len(a.forecast))
	labels := make([]string, len(a.forecast))
	for i, p := range a.forecast {
		vals[i] = p.Amount
		labels[i] = p.Month.Format("Jan")
	}
	total := 0.0
	if n := len(a.forecast); n > 0 {
		total = a.forecast[n-1].Cumulative
	}
	forecastCard := components.ContentCard(
		fmt.Sprintf("Forecast · %d months · %s", len(a.forecast), cli.FormatMoney(total)),
		components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(halves[1]), 8),
		halves[1],
	)

	if a.isCompactLayout() {
		b.WriteString(upcomingCard + "\n" + forecastCard + "\n")
	} else {
		b.WriteString(components.CardRow([]string{upcomingCard, forecastCard}))
		b.WriteString("\n")
	}

	// Row 3: Folders + spending
	folderCard := components.ContentCard("Folders", a.renderFolderCards(components.CardInnerWidth(halves[0])), halves[0])
	spendCard := components.ContentCard("Spending", a.renderSpending(components.CardInnerWidth(halves[1])), halves[1])
	if a.isCompactLayout() {
		b.WriteString(folderCard + "\n" + spendCard)
	} else {
		b.WriteString(components.CardRow([]string{folderCard, spendCard}))
	}

	return b.String()
}

func (a App) renderUpcoming(innerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.upcoming) == 0 {
		return mutedStyle.Render("Nothing due soon.")
	}

	const priceW, labelW = 12, 14
	nameW := max(innerW-priceW-labelW-2, 8)

	var b strings.Builder
	for i, u := range a.upcoming {
		if i == maxUpcomingRows {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("+%d more", len(a.upcoming)-i)))
			break
		}
		tier := lipgloss.NewStyle().Foreground(t.TierColor(u.Countdown.Tier)).Background(t.Surface).Bold(true)
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s ", nameW, cli.Truncate(u.Subscription.Name, nameW))))
		b.WriteString(tier.Render(fmt.Sprintf("%-*s", labelW, u.Countdown.Label)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %*s", priceW, cli.FormatMoney(u.Subscription.Amount))))
	}
	return b.String()
}

func (a App) renderFolderCards(innerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.folderCards) == 0 {
		return mutedStyle.Render("No folders. Use `subtrack folder add` to group subscriptions.")
	}

	const moneyW = 12
	nameW := max(innerW-moneyW-12, 8)

	var b strings.Builder
	for i, fc := range a.folderCards {
		if i > 0 {
			b.WriteString("\n")
		}
		name := cli.Truncate(fc.Folder.Icon+" "+fc.Folder.Name, nameW)
		b.WriteString(rowStyle.Render(name + strings.Repeat(" ", max(0, nameW-lipgloss.Width(name)))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %3d", fc.Active)))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatMoney(fc.Monthly))))
		if fc.Tiers.Critical > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(fmt.Sprintf(" ●%d", fc.Tiers.Critical)))
		} else if fc.Tiers.Warning > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Render(fmt.Sprintf(" ●%d", fc.Tiers.Warning)))
		}
	}
	return b.String()
}

func (a App) renderSpending(innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	vals := make([]float64, len(a.trend))
	for i, p := range a.trend {
		vals[i] = p.Amount
	}

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-22s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		row("Trend (6 months)", "") + components.Sparkline(vals, t.Accent),
		row("Spent so far (est.)", cli.FormatMoney(a.summary.SimulatedSpent)),
		row("Saved by archiving", cli.FormatMoney(a.summary.ArchivedSavings)+"/mo"),
	}
	if a.budget != nil {
		barW := max(innerW-28, 10)
		lines = append(lines,
			row("Budget", fmt.Sprintf("%s of %s", cli.FormatMoney(a.budget.Spend), cli.FormatMoney(a.budget.Limit))),
			components.BudgetBar(*a.budget, barW),
		)
	}
	return strings.Join(lines, "\n")
}
