package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
	"github.com/theirongolddev/subtrack/internal/tui/components"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// calendarState holds the calendar tab state.
type calendarState struct {
	offset int // months from the current one
}

// month is the first day of the displayed month.
func (c calendarState) month(today model.Date) model.Date {
	return model.DateOf(today.MonthStart().Time().AddDate(0, c.offset, 0))
}

func (a App) updateCalendarKey(key string) (App, bool) {
	switch key {
	case "[", "h", "pgup":
		a.cal.offset--
	case "]", "l", "pgdown":
		a.cal.offset++
	case "t":
		a.cal.offset = 0
	default:
		return a, false
	}
	return a, true
}

func (a App) renderCalendarTab(cw int) string {
	m := a.cal.month(a.today)
	cal := pipeline.RenewalCalendar(a.subs, a.today, m.Year(), m.Month())

	total := 0.0
	for _, d := range cal.Days {
		total += d.Amount
	}

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	title := fmt.Sprintf("%s %d · %s due", m.Month(), m.Year(), cli.FormatMoney(total))
	gridCard := components.ContentCard(title, a.renderCalendarGrid(cal), halves[0])
	listCard := components.ContentCard("Renewals", a.renderCalendarList(cal, components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		return gridCard + "\n" + listCard
	}
	return components.CardRow([]string{gridCard, listCard})
}

func (a App) renderCalendarGrid(cal model.Calendar) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(headStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa "))
	b.WriteString("\n")

	col := 0
	for ; col < cal.Offset; col++ {
		b.WriteString(spaceStyle.Render("    "))
	}
	for _, d := range cal.Days {
		style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		if d.Intensity > 0 {
			style = style.Foreground(t.TextPrimary).Background(t.HeatColor(d.Intensity)).Bold(true)
		}
		if d.Date.Equal(a.today) {
			style = style.Underline(true).Foreground(t.AccentBright)
		}
		b.WriteString(style.Render(fmt.Sprintf(" %2d ", d.Date.Day())))
		col++
		if col%7 == 0 && col < cal.Offset+len(cal.Days) {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(headStyle.Render("less "))
	for lvl := 0; lvl <= 4; lvl++ {
		b.WriteString(lipgloss.NewStyle().Background(t.HeatColor(lvl)).Render("  "))
		b.WriteString(spaceStyle.Render(" "))
	}
	b.WriteString(headStyle.Render("more"))
	return b.String()
}

func (a App) renderCalendarList(cal model.Calendar, innerW int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dateStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	const dateW, moneyW = 8, 12
	namesW := max(innerW-dateW-moneyW-2, 8)

	var lines []string
	for _, d := range cal.Days {
		if d.Count == 0 {
			continue
		}
		lines = append(lines,
			dateStyle.Render(fmt.Sprintf("%-*s", dateW, d.Date.Format("Mon 2")))+
				rowStyle.Render(fmt.Sprintf(" %-*s", namesW, cli.Truncate(strings.Join(d.Names, ", "), namesW)))+
				mutedStyle.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatMoney(d.Amount))))
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("No renewals this month."))
	}
	lines = append(lines, "", mutedStyle.Render("[ ] change month · t today"))
	return strings.Join(lines, "\n")
}
