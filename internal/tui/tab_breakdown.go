package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/tui/components"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

func (a App) renderBreakdownTab(cw int) string {
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	folderCard := components.ContentCard("By folder · monthly", a.renderSlices(a.byFolder, components.CardInnerWidth(halves[0])), halves[0])
	tagCard := components.ContentCard("By tag · monthly", a.renderSlices(a.byTag, components.CardInnerWidth(halves[1])), halves[1])
	lifetimeCard := components.ContentCard("Lifetime cost", a.renderLifetime(components.CardInnerWidth(halves[0])), halves[0])
	savingsCard := components.ContentCard("Savings from archived", a.renderSavings(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		return strings.Join([]string{folderCard, tagCard, lifetimeCard, savingsCard}, "\n")
	}
	return components.CardRow([]string{folderCard, tagCard}) + "\n" +
		components.CardRow([]string{lifetimeCard, savingsCard})
}

// renderSlices draws one horizontal bar per slice, in the slice's colour.
func (a App) renderSlices(slices []model.Slice, innerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(slices) == 0 {
		return mutedStyle.Render("No active subscriptions.")
	}

	total, peak := 0.0, 0.0
	for _, s := range slices {
		total += s.Amount
		peak = max(peak, s.Amount)
	}

	const moneyW, pctW = 11, 5
	labelW := min(16, max(innerW/3, 8))
	barMax := max(innerW-labelW-moneyW-pctW-3, 4)

	var b strings.Builder
	for i, s := range slices {
		if i > 0 {
			b.WriteString("\n")
		}
		label := s.Name
		if s.Icon != "" {
			label = s.Icon + " " + label
		}
		label = cli.Truncate(label, labelW)
		b.WriteString(rowStyle.Render(label + strings.Repeat(" ", max(0, labelW-lipgloss.Width(label)))))
		b.WriteString(spaceStyle.Render(" "))

		barLen := 0
		if peak > 0 {
			barLen = int(s.Amount / peak * float64(barMax))
		}
		if s.Amount > 0 && barLen == 0 {
			barLen = 1
		}
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Background(t.Surface)
		b.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(spaceStyle.Render(strings.Repeat(" ", barMax-barLen)))

		share := 0.0
		if total > 0 {
			share = s.Amount / total * 100
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatMoney(s.Amount))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %*.0f%%", pctW-1, share)))
	}
	return b.String()
}

func (a App) renderLifetime(innerW int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	if len(a.lifetime) == 0 {
		return mutedStyle.Render("No active subscriptions.")
	}

	const colW = 11
	nameW := max(innerW-3*(colW+1), 8)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s", nameW, "Name", colW, "Monthly", colW, "Yearly", colW, "10 years")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))

	var monthly, yearly, tenYear float64
	for _, v := range a.lifetime {
		monthly += v.Monthly
		yearly += v.Yearly
		tenYear += v.TenYear
		b.WriteString("\n")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %*s %*s ",
			nameW, cli.Truncate(v.Name, nameW),
			colW, cli.FormatMoney(v.Monthly),
			colW, cli.FormatMoney(v.Yearly))))
		b.WriteString(costStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(v.TenYear))))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s",
		nameW, "Total",
		colW, cli.FormatMoney(monthly),
		colW, cli.FormatMoney(yearly),
		colW, cli.FormatMoney(tenYear))))
	return b.String()
}

func (a App) renderSavings(innerW int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	saveStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	if len(a.savings) == 0 {
		return mutedStyle.Render("Archive a subscription to see what it saves you.")
	}

	const colW = 12
	nameW := max(innerW-2*(colW+1), 8)

	var b strings.Builder
	var annual float64
	for i, v := range a.savings {
		annual += v.Annual
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s ", nameW, cli.Truncate(v.Name, nameW))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s ", colW, cli.FormatMoney(v.Monthly)+"/mo")))
		b.WriteString(saveStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(v.Annual)+"/yr")))
	}
	b.WriteString("\n\n")
	b.WriteString(saveStyle.Bold(true).Render(fmt.Sprintf("Saving %s a year", cli.FormatMoney(annual))))
	return b.String()
}
