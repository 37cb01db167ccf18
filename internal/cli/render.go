package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// heat levels 0-4 for the renewal calendar
var heatColors = []lipgloss.Color{"#282726", "#1F3A36", "#24625B", "#2F8A80", "#3AA99F"}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	tierStyles = map[model.Tier]lipgloss.Style{
		model.TierCritical: lipgloss.NewStyle().Bold(true).Foreground(ColorRed),
		model.TierWarning:  lipgloss.NewStyle().Foreground(ColorOrange),
		model.TierNormal:   lipgloss.NewStyle().Foreground(ColorGreen),
	}
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks columns to right-align; amounts usually are.
	RightAlign map[int]bool
}

// Separator is a row value that renders as a horizontal rule.
var Separator = []string{"---"}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. Cell widths
// are measured in terminal cells so styled and wide glyphs line up.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	pad := func(cell string, i int) string {
		gap := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if t.RightAlign[i] {
			return " " + gap + cell + " "
		}
		return " " + cell + gap + " "
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		bar := dimStyle.Render("│")
		b.WriteString(bar)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, i)) + bar)
		}
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == Separator[0] {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		bar := dimStyle.Render("│")
		b.WriteString(bar)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(pad(cell, i)) + bar)
		}
		b.WriteString("\n")
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

// RenderTier colours a countdown label by its tier.
func RenderTier(c model.Countdown) string {
	return tierStyles[c.Tier].Render(c.Label)
}

// RenderMoney colours an amount.
func RenderMoney(v float64) string {
	return moneyStyle.Render(FormatMoney(v))
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// RenderBudgetBar renders a budget usage bar, turning red when over.
func RenderBudgetBar(b model.BudgetStatus, width int) string {
	if b.Limit <= 0 {
		return ""
	}
	pct := b.Spend / b.Limit
	filled := int(min(pct, 1) * float64(width))
	style := moneyStyle
	if b.Over {
		style = tierStyles[model.TierCritical]
	} else if pct >= 0.8 {
		style = tierStyles[model.TierWarning]
	}
	bar := style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s of %s", bar, FormatMoney(b.Spend), FormatMoney(b.Limit))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders a labelled bar followed by its amount.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	barLen = max(0, min(barLen, maxWidth))
	name := Truncate(label, labelWidth)
	name += strings.Repeat(" ", max(0, labelWidth-lipgloss.Width(name)))
	return fmt.Sprintf("  %s %s%s %s",
		valueStyle.Render(name),
		headerStyle.Render(strings.Repeat("█", barLen)),
		strings.Repeat(" ", maxWidth-barLen),
		RenderMoney(value),
	)
}

// RenderCalendar draws a month grid, Sunday first, shading each day by its
// renewal intensity and marking today.
func RenderCalendar(cal model.Calendar, today model.Date) string {
	var b strings.Builder
	b.WriteString("  " + dimStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa") + "\n  ")

	col := 0
	for ; col < cal.Offset; col++ {
		b.WriteString("    ")
	}
	for _, d := range cal.Days {
		label := fmt.Sprintf(" %2d ", d.Date.Day())
		style := lipgloss.NewStyle().Foreground(ColorText)
		if d.Intensity > 0 {
			style = style.Background(heatColors[min(d.Intensity, len(heatColors)-1)]).Bold(true)
		} else {
			style = style.Foreground(ColorTextMuted)
		}
		if d.Date.Equal(today) {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(label))
		col++
		if col%7 == 0 {
			b.WriteString("\n  ")
		}
	}
	b.WriteString("\n")

	legend := make([]string, len(heatColors))
	for i, c := range heatColors {
		legend[i] = lipgloss.NewStyle().Background(c).Render("  ")
	}
	b.WriteString("  " + dimStyle.Render("less ") + strings.Join(legend, " ") + dimStyle.Render(" more") + "\n")
	return b.String()
}
