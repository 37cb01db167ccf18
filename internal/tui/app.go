// Package tui provides the interactive Bubble Tea dashboard for subtrack.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/theirongolddev/subtrack/internal/config"
	"github.com/theirongolddev/subtrack/internal/countdown"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/pipeline"
	"github.com/theirongolddev/subtrack/internal/state"
	"github.com/theirongolddev/subtrack/internal/tui/components"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabSubscriptions
	tabCalendar
	tabBreakdown
)

// StateChangedMsg is sent when the collection changes.
type StateChangedMsg struct {
	Event state.Event
}

type tickMsg time.Time

// formKind says what an open form will do on submit.
type formKind int

const (
	formNone formKind = iota
	formSetup
	formAdd
	formEdit
)

// Options configures the dashboard.
type Options struct {
	Config     config.Config
	Clock      func() time.Time
	FirstRun   bool // open the setup form before the dashboard
	SaveConfig func(config.Config) error
}

// App is the root Bubble Tea model.
type App struct {
	coll   *state.Container
	cfg    config.Config
	clock  func() time.Time
	locale language.Tag
	save   func(config.Config) error

	events      <-chan state.Event
	unsubscribe func()

	// Pre-computed for the current day and collection
	today       model.Date
	subs        []model.Subscription
	folders     []model.Folder
	summary     model.Summary
	upcoming    []countdown.Upcoming
	forecast    []model.ForecastPoint
	trend       []model.TrendPoint
	folderCards []model.FolderCard
	byFolder    []model.Slice
	byTag       []model.Slice
	lifetime    []model.LifetimeValue
	savings     []model.SavingsValue
	budget      *model.BudgetStatus

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string
	noticeErr bool

	// Per-tab state
	list listState
	cal  calendarState

	// Open huh form, if any
	form      *huh.Form
	formKind  formKind
	subVals   *SubscriptionValues
	setupVals *SetupValues
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// NewApp creates a new TUI app model over coll.
func NewApp(coll *state.Container, opts Options) App {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.SaveConfig == nil {
		opts.SaveConfig = config.Save
	}
	locale, err := language.Parse(opts.Config.General.Locale)
	if err != nil {
		locale = language.Und
	}
	theme.SetActive(opts.Config.Appearance.Theme)

	events, unsubscribe := coll.Subscribe()
	a := App{
		coll:        coll,
		cfg:         opts.Config,
		clock:       opts.Clock,
		locale:      locale,
		save:        opts.SaveConfig,
		events:      events,
		unsubscribe: unsubscribe,
		list:        listState{searchInput: newSearchInput()},
	}
	a.recompute()

	if opts.FirstRun {
		a.setupVals = SetupValuesFrom(a.cfg)
		a.form = NewSetupForm(a.setupVals)
		a.formKind = formSetup
	}
	return a
}

// Close stops listening for collection changes.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		waitForEvent(a.events),
		tickCmd(),
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.today = model.DateOf(a.clock())
	snap := a.coll.Snapshot()
	a.subs = snap.Subscriptions
	a.folders = snap.Folders

	active := model.Active(a.subs)
	a.summary = pipeline.Summarize(a.subs, a.folders, a.today)
	a.upcoming = countdown.Within(active, a.today, a.cfg.General.UpcomingDays)
	a.forecast = pipeline.ForecastSeries(active, a.today, a.cfg.General.ForecastMonths)
	a.trend = pipeline.SpendingTrend(a.subs, a.today)
	a.folderCards = pipeline.FolderOverview(a.subs, a.folders, a.today)
	a.byFolder = pipeline.BreakdownByFolder(a.subs, a.folders)
	a.byTag = pipeline.BreakdownByTag(a.subs)
	a.lifetime = pipeline.Lifetime(a.subs)
	a.savings = pipeline.Savings(a.subs)

	a.budget = nil
	if a.cfg.Budget.Monthly != nil {
		b := pipeline.Budget(a.subs, *a.cfg.Budget.Monthly)
		a.budget = &b
	}

	// Clamp the list cursor to the new bounds
	n := len(a.visibleSubscriptions())
	if a.list.cursor >= n {
		a.list.cursor = n - 1
	}
	if a.list.cursor < 0 {
		a.list.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72)).WithHeight(msg.Height)
		}
		return a, nil

	case StateChangedMsg:
		a.recompute()
		return a, waitForEvent(a.events)

	case tickMsg:
		if !model.DateOf(time.Time(msg)).Equal(a.today) {
			a.recompute()
		}
		return a, tickCmd()

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKey(msg)
	}

	// Forward unhandled messages to the open form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.list.searching {
		var cmd tea.Cmd
		a.list.searchInput, cmd = a.list.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Search mode intercepts all keys when active
	if a.activeTab == tabSubscriptions && a.list.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.notice, a.noticeErr = "", false
	switch a.activeTab {
	case tabSubscriptions:
		if next, cmd, handled := a.updateSubscriptionsKey(key); handled {
			return next, cmd
		}
	case tabCalendar:
		if next, handled := a.updateCalendarKey(key); handled {
			return next, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "n":
		return a.openAddForm()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabSubscriptions && a.list.cursor > 0 {
			a.list.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabSubscriptions && a.list.cursor < len(a.visibleSubscriptions())-1 {
			a.list.cursor++
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	a.subVals = &SubscriptionValues{Date: a.today.String()}
	a.form = NewSubscriptionForm(a.subVals, a.folders)
	a.formKind = formAdd
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) openEditForm(s model.Subscription) (tea.Model, tea.Cmd) {
	a.subVals = ValuesFrom(s)
	a.form = NewSubscriptionForm(a.subVals, a.folders)
	a.formKind = formEdit
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 72)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" && a.formKind != formSetup {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.submitForm()
		a.closeForm()
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.subVals = nil
	a.setupVals = nil
}

func (a *App) submitForm() {
	a.noticeErr = false
	switch a.formKind {
	case formSetup:
		cfg := a.cfg
		if err := a.setupVals.Apply(&cfg); err != nil {
			a.setNotice(err)
			return
		}
		a.cfg = cfg
		theme.SetActive(cfg.Appearance.Theme)
		if err := a.save(cfg); err != nil {
			a.setNotice(fmt.Errorf("settings apply to this session only: %w", err))
			return
		}
		a.notice = "Settings saved"

	case formAdd, formEdit:
		s, err := a.subVals.Subscription()
		if err != nil {
			a.setNotice(err)
			return
		}
		var cmd state.Command = state.AddSubscription{Subscription: s}
		if a.formKind == formEdit {
			cmd = state.UpdateSubscription{Subscription: s}
		}
		if _, err := a.coll.Dispatch(cmd); err != nil {
			a.setNotice(err)
			return
		}
		a.notice = "Saved " + s.Name
	}
}

func (a *App) setNotice(err error) {
	a.notice = err.Error()
	a.noticeErr = true
}

func (a *App) dispatch(cmd state.Command, ok string) {
	a.noticeErr = false
	if _, err := a.coll.Dispatch(cmd); err != nil {
		a.setNotice(err)
		return
	}
	a.notice = ok
	a.recompute()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  subtrack needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o s c b", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in the list"},
			{"[ ]", "Previous / Next calendar month"},
		}},
		{"Subscriptions", [][2]string{
			{"/", "Search by name or tag"},
			{"n", "New subscription"},
			{"Enter e", "Edit selected"},
			{"a", "Archive / restore selected"},
			{"d d", "Delete selected"},
			{"v", "Show active / archived"},
			{"S D", "Cycle sort field / direction"},
		}},
		{"General", [][2]string{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Today:  a.today.Format("Mon Jan 2, 2006"),
		Notice: a.notice,
		Error:  a.noticeErr,
	}
	if a.activeTab == tabSubscriptions {
		info.Hint = "[/]search [n]ew [e]dit [a]rchive [S]ort  [?]help"
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSubscriptions:
		content = a.renderSubscriptionsTab(cw, contentH)
	case tabCalendar:
		content = a.renderCalendarTab(cw)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks until the container reports the next change.
func waitForEvent(events <-chan state.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return StateChangedMsg{Event: ev}
	}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name or tag"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
