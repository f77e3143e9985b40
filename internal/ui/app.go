// Package ui provides the terminal user interface for habitstreak.
// This file contains the main App model which coordinates the habit list and
// the calendar and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/config"
	"habitstreak/internal/greeting"
	"habitstreak/internal/logger"
	"habitstreak/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneHabits PaneID = iota
	PaneCalendar
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows the habit list and calendar side by side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

const calendarWidth = 30

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowWelcome           bool
	NarrowLayoutThreshold int
}

// App is the main application model.
type App struct {
	store        *store.Store
	styles       *Styles
	config       *AppConfig
	habitsPane   *HabitsPane
	calendarPane *CalendarPane
	helpOverlay  *HelpOverlay
	confirmDel   *confirmDeleteState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showWelcome  bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	banner       string
	bannerUntil  time.Time
	today        calendar.Day
	quitting     bool
	unsubscribe  func()

	keys     GlobalKeyMap
	helpKeys HelpKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	id    string
}

// NewApp creates a new application over s and subscribes to its milestone
// events.
func NewApp(s *store.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowWelcome:           true,
			NarrowLayoutThreshold: 90,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	habitsPane := NewHabitsPane(s, styles, cfg.Keys)
	calendarPane := NewCalendarPane(s, styles, cfg.Keys)
	keys := NewGlobalKeyMap(cfg.Keys)
	helpOverlay := NewHelpOverlay(styles, keys, habitsPane.keys, calendarPane.keys, habitsPane.inputKeys)

	app := &App{
		store:        s,
		styles:       styles,
		config:       cfg,
		habitsPane:   habitsPane,
		calendarPane: calendarPane,
		helpOverlay:  helpOverlay,
		activePane:   PaneHabits,
		showWelcome:  cfg.ShowWelcome && s.FirstLaunch(),
		today:        s.Today(),
		keys:         keys,
		helpKeys:     DefaultHelpKeyMap(),
	}
	app.unsubscribe = s.Subscribe(app.onStoreEvent)

	habitsPane.SetFocused(true)
	calendarPane.SetFocused(false)

	return app
}

// onStoreEvent runs synchronously inside the store call made from Update.
func (a *App) onStoreEvent(e store.Event) {
	if e.Kind == store.MilestoneReached && e.Milestone != nil {
		a.banner = "🎉 " + e.Milestone.Message()
		a.bannerUntil = time.Now().Add(6 * time.Second)
	}
}

// Init starts the clock.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		a.SetStatus(msg.text, msg.err)
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		a.onTick(time.Time(msg))
		return a, tickCmd()

	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			if err := a.store.MarkLaunched(); err != nil {
				a.SetStatus("Save state: "+err.Error(), true)
			}
			return a, nil
		}

		if a.confirmDel != nil {
			return a, a.handleConfirm(msg)
		}

		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		a.banner = ""

		if !a.habitsPane.IsEditing() {
			if a.config.ConfirmDeletions && a.activePane == PaneHabits &&
				key.Matches(msg, a.habitsPane.keys.Delete) {
				h, ok := a.habitsPane.Selected()
				if !ok {
					a.SetStatus("No habit selected", true)
					return a, nil
				}
				a.confirmDel = &confirmDeleteState{
					title: "Delete habit?",
					body:  fmt.Sprintf("%s %s and its whole history", h.Emoji, truncateText(h.Name, 40)),
					id:    h.ID,
				}
				return a, nil
			}

			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				if a.unsubscribe != nil {
					a.unsubscribe()
				}
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.Calendar):
				a.switchPane()
				return a, nil
			}
		}
	}

	switch a.activePane {
	case PaneCalendar:
		return a, a.calendarPane.Update(msg)
	default:
		return a, a.habitsPane.Update(msg)
	}
}

func (a *App) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		id := a.confirmDel.id
		a.confirmDel = nil
		if h, ok := a.store.Habit(id); ok {
			return a.habitsPane.delete(h)
		}
	case "n", "N", "esc":
		a.confirmDel = nil
		a.SetStatus("Canceled", false)
	}
	return nil
}

// onTick expires the status line and banner and follows the date when the
// app stays open past midnight.
func (a *App) onTick(now time.Time) {
	if a.status != "" && !a.statusUntil.IsZero() && now.After(a.statusUntil) {
		a.status = ""
		a.statusErr = false
		a.statusUntil = time.Time{}
	}
	if a.banner != "" && now.After(a.bannerUntil) {
		a.banner = ""
	}

	if today := a.store.Today(); today != a.today {
		logger.Debug("day changed", "from", a.today, "to", today)
		if a.calendarPane.Month() == calendar.MonthOf(a.today) {
			a.calendarPane.SetMonth(calendar.MonthOf(today))
		}
		a.today = today
	}
}

// switchPane toggles between the habit list and the calendar.
func (a *App) switchPane() {
	if a.activePane == PaneHabits {
		a.setActivePane(PaneCalendar)
	} else {
		a.setActivePane(PaneHabits)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.habitsPane.SetFocused(pane == PaneHabits)
	a.calendarPane.SetFocused(pane == PaneCalendar)
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// title bar (1) + greeting (1) + help bar (1) + spacing
	contentHeight := max(a.height-5, 10)

	a.helpOverlay.SetSize(a.width, a.height)

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 90
	}

	totalWidth := a.width - 2
	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		paneWidth := max(totalWidth, 30)
		a.habitsPane.SetSize(paneWidth, contentHeight-1)
		a.calendarPane.SetSize(paneWidth, contentHeight-1)
		return
	}

	a.layoutMode = LayoutWide
	a.calendarPane.SetSize(calendarWidth, contentHeight)
	a.habitsPane.SetSize(totalWidth-calendarWidth-1, contentHeight)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showWelcome {
		return a.renderWelcome()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.renderGreeting())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderPaneTabs())
		b.WriteString("\n")
		if a.activePane == PaneCalendar {
			b.WriteString(a.calendarPane.View())
		} else {
			b.WriteString(a.habitsPane.View())
		}
	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			a.habitsPane.View(), " ", a.calendarPane.View()))
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) overlay(border lipgloss.Color, content string) string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(overlayWidth)
	return RenderCentered(style.Render(content), a.width, a.height)
}

func (a *App) renderWelcome() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(a.styles.ColorPrimary)
	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	mutedStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(greeting.For(a.store.Now())))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Welcome to habitstreak. Check off your habits every day\nand watch your streaks grow 🔥"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(fmt.Sprintf("Add your first habit with '%s'. %s opens help.",
		a.habitsPane.keys.Add.Help().Key, a.keys.Help.Help().Key)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	return a.overlay(a.styles.ColorPrimary, b.String())
}

func (a *App) renderConfirmDelete() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(a.styles.ColorDanger)
	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	hintStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return a.overlay(a.styles.ColorDanger, b.String())
}

// renderPaneTabs renders the tab bar used in the narrow layout.
func (a *App) renderPaneTabs() string {
	activeTab := lipgloss.NewStyle().Foreground(a.styles.ColorPrimary).Bold(true)
	inactiveTab := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneHabits, "Habits"},
		{PaneCalendar, "Calendar"},
	}
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if tab.id == a.activePane {
			parts[i] = activeTab.Render("[" + tab.label + "]")
		} else {
			parts[i] = inactiveTab.Render(" " + tab.label + " ")
		}
	}
	bar := strings.Join(parts, "  ")
	if pad := (a.width - lipgloss.Width(bar)) / 2; pad > 0 {
		bar = strings.Repeat(" ", pad) + bar
	}
	return bar
}

// renderGoodbye shows an exit message with today's progress.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n  See you tomorrow!\n\n")
	if total := a.store.Len(); total > 0 {
		done := a.store.CompletedToday()
		b.WriteString(fmt.Sprintf("  Today's habits: %d/%d (%d%%)\n\n", done, total, done*100/total))
	}
	return b.String()
}

// renderTitleBar creates the top bar with today's progress and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" habitstreak ")

	var progress string
	if total := a.store.Len(); total > 0 {
		progress = a.styles.StatLabelStyle.Render(
			fmt.Sprintf("Today: %d/%d", a.store.CompletedToday(), total))
	}

	date := a.styles.DateStyle.Render(greeting.FormatDate(a.store.Today()))

	used := lipgloss.Width(title) + lipgloss.Width(progress) + lipgloss.Width(date) + 2
	spacer := strings.Repeat(" ", max(a.width-used, 2))

	return title + "  " + progress + spacer + date
}

// renderGreeting shows the time-of-day greeting and the message of the day.
func (a *App) renderGreeting() string {
	line := a.styles.GreetingStyle.Render(greeting.For(a.store.Now()))
	if a.store.AllCompletedToday() {
		line += "  " + a.styles.StatusStyle.Render("All habits done today! 🎉")
	} else {
		line += "  " + a.styles.StatLabelStyle.Render(greeting.Daily(a.store.Today()))
	}
	return line
}

// renderHelpBar creates the bottom bar: milestone banner, status or
// context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.banner != "" {
		return a.styles.BannerStyle.Render(a.banner)
	}
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.habitsPane.IsEditing() {
		return a.styles.RenderHelp(
			a.habitsPane.inputKeys.Confirm.Help().Key, "next/save",
			a.habitsPane.inputKeys.Cancel.Help().Key, "cancel",
		)
	}

	var hints []string
	switch a.activePane {
	case PaneCalendar:
		k := a.calendarPane.keys
		hints = []string{
			k.PrevMonth.Help().Key + "/" + k.NextMonth.Help().Key, "month",
			k.ThisMonth.Help().Key, "today",
		}
	default:
		k := a.habitsPane.keys
		hints = []string{
			k.Add.Help().Key, "add",
			k.Toggle.Help().Key, "toggle",
			k.Edit.Help().Key, "edit",
			k.Delete.Help().Key, "del",
			k.Down.Help().Key + "/" + k.Up.Help().Key, "nav",
		}
	}
	hints = append(hints,
		a.keys.Calendar.Help().Key, "pane",
		a.keys.Help.Help().Key, "help",
	)
	return a.styles.RenderHelp(hints...)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program over s.
func Run(s *store.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(s, styles, cfg)
	defer app.unsubscribe()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
