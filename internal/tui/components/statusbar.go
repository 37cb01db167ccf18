package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Today  string
	Hint   string
	Notice string
	Error  bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	if info.Error {
		noticeStyle = noticeStyle.Foreground(t.Red)
	}

	hint := info.Hint
	if hint == "" {
		hint = "[?]help  [q]uit"
	}
	left := base.Render(" " + hint)
	if info.Notice != "" {
		left += base.Render("  ") + noticeStyle.Render(info.Notice)
	}
	right := ""
	if info.Today != "" {
		right = base.Render(info.Today + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
