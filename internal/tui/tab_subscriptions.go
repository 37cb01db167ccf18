package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
	"github.com/theirongolddev/subtrack/internal/state"
	"github.com/theirongolddev/subtrack/internal/tui/components"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// listState holds the subscriptions tab state.
type listState struct {
	cursor   int
	offset   int // scroll offset for the list
	archived bool

	searching   bool
	searchInput textinput.Model
	query       string

	pendingDelete string // id awaiting a second "d"
}

var sortFields = []model.SortField{model.SortByDate, model.SortByName, model.SortByAmount, model.SortByTag}

// visibleSubscriptions is the filtered, sorted list the tab shows.
func (a App) visibleSubscriptions() []model.Subscription {
	q := pipeline.Query{Search: a.list.query, Archived: a.list.archived}
	return pipeline.SortLocale(pipeline.Filter(a.subs, q), a.coll.Sort(), a.today, a.locale)
}

func (a App) selected() (model.Subscription, bool) {
	subs := a.visibleSubscriptions()
	if a.list.cursor < 0 || a.list.cursor >= len(subs) {
		return model.Subscription{}, false
	}
	return subs[a.list.cursor], true
}

func (a App) updateSubscriptionsKey(key string) (App, tea.Cmd, bool) {
	n := len(a.visibleSubscriptions())

	if key != "d" {
		a.list.pendingDelete = ""
	}

	switch key {
	case "/":
		a.list.searching = true
		a.list.searchInput = newSearchInput()
		a.list.searchInput.SetValue(a.list.query)
		return a, a.list.searchInput.Focus(), true
	case "esc":
		if a.list.query != "" {
			a.list.query = ""
			a.list.cursor, a.list.offset = 0, 0
		}
		return a, nil, true
	case "j", "down":
		if a.list.cursor < n-1 {
			a.list.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.list.cursor > 0 {
			a.list.cursor--
		}
		return a, nil, true
	case "g", "home":
		a.list.cursor = 0
		return a, nil, true
	case "G", "end":
		a.list.cursor = max(0, n-1)
		return a, nil, true
	case "v":
		a.list.archived = !a.list.archived
		a.list.cursor, a.list.offset = 0, 0
		return a, nil, true
	case "S":
		by := a.coll.Sort()
		for i, f := range sortFields {
			if f == by.Field {
				by.Field = sortFields[(i+1)%len(sortFields)]
				break
			}
		}
		a.dispatch(state.SetSort{Sort: by}, "Sorted by "+string(by.Field))
		return a, nil, true
	case "D":
		by := a.coll.Sort()
		if by.Direction == model.SortAsc {
			by.Direction = model.SortDesc
		} else {
			by.Direction = model.SortAsc
		}
		a.dispatch(state.SetSort{Sort: by}, "Sorted "+string(by.Direction))
		return a, nil, true
	}

	s, ok := a.selected()
	if !ok {
		return a, nil, false
	}
	switch key {
	case "enter", "e":
		next, cmd := a.openEditForm(s)
		return next.(App), cmd, true
	case "a":
		verb := "Archived "
		if s.Archived {
			verb = "Restored "
		}
		a.dispatch(state.ToggleArchive{ID: s.ID}, verb+s.Name)
		return a, nil, true
	case "d":
		if a.list.pendingDelete != s.ID {
			a.list.pendingDelete = s.ID
			a.notice = fmt.Sprintf("Press d again to delete %s", s.Name)
			return a, nil, true
		}
		a.list.pendingDelete = ""
		a.dispatch(state.RemoveSubscription{ID: s.ID}, "Deleted "+s.Name)
		return a, nil, true
	}
	return a, nil, false
}

// updateSearch handles key events while in search mode.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.list.query = strings.TrimSpace(a.list.searchInput.Value())
		a.list.searching = false
		a.list.cursor, a.list.offset = 0, 0
		return a, nil
	case "esc":
		a.list.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.list.searchInput, cmd = a.list.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderSubscriptionsTab(cw, h int) string {
	t := theme.Active
	subs := a.visibleSubscriptions()

	title := "Subscriptions"
	if a.list.archived {
		title = "Archived"
	}
	by := a.coll.Sort()
	title += fmt.Sprintf(" (%d) · sorted by %s %s", len(subs), by.Field, by.Direction)
	if a.list.query != "" {
		title += fmt.Sprintf(" · matching %q", a.list.query)
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var top string
	if a.list.searching {
		top = a.list.searchInput.View() + "\n"
	}

	if len(subs) == 0 {
		empty := "No subscriptions yet. Press n to add one."
		if a.list.query != "" || a.list.archived {
			empty = "Nothing matches."
		}
		return components.ContentCard(title, top+mutedStyle.Render(empty), cw)
	}

	inner := components.CardInnerWidth(cw)
	compact := a.isCompactLayout()

	const (
		priceW = 14
		dueW   = 13
		leftW  = 14
		tagW   = 12
	)
	nameW := inner - priceW - dueW - leftW - 3
	if !compact {
		nameW -= tagW + 1
	}
	nameW = max(nameW, 10)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	var body strings.Builder
	body.WriteString(top)
	header := fmt.Sprintf("%-*s %*s %*s %-*s", nameW, "Name", priceW, "Price", dueW, "Next due", leftW, "Countdown")
	if !compact {
		header += fmt.Sprintf(" %-*s", tagW, "Tag")
	}
	body.WriteString(headerStyle.Render(header))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", inner)))
	body.WriteString("\n")

	visible := max(h-6, 3) // border, title, header, rule, trailing line
	if a.list.searching {
		visible--
	}
	offset := a.list.offset
	if a.list.cursor < offset {
		offset = a.list.cursor
	}
	if a.list.cursor >= offset+visible {
		offset = a.list.cursor - visible + 1
	}

	end := min(offset+visible, len(subs))
	for i := offset; i < end; i++ {
		s := subs[i]
		c := countdown.For(s, a.today)

		style := rowStyle
		if i == a.list.cursor {
			style = selStyle
		}
		tierStyle := style.Foreground(t.TierColor(c.Tier))
		if s.Archived {
			tierStyle = style.Foreground(t.TextDim)
		}

		line := style.Render(fmt.Sprintf("%-*s %*s %*s ",
			nameW, cli.Truncate(s.Name, nameW),
			priceW, cli.FormatPrice(s),
			dueW, cli.FormatDate(c.NextDue)))
		line += tierStyle.Render(fmt.Sprintf("%-*s", leftW, c.Label))
		if !compact {
			line += style.Render(fmt.Sprintf(" %-*s", tagW, cli.Truncate(s.Tag, tagW)))
		}
		body.WriteString(line)
		if i < end-1 {
			body.WriteString("\n")
		}
	}

	return components.ContentCard(title, body.String(), cw)
}
