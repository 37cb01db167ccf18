package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// ColorForPct returns green/yellow/orange/red based on utilization level.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Red
	case pct >= 0.9:
		return t.Orange
	case pct >= 0.7:
		return t.Yellow
	default:
		return t.Green
	}
}

// BudgetBar renders monthly spend against the configured limit.
func BudgetBar(b model.BudgetStatus, barWidth int) string {
	t := theme.Active

	pct := b.UsedPercent / 100
	color := ColorForPct(pct)
	fill := max(0, min(pct, 1))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(fill) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%3.0f%%", b.UsedPercent))
}
