package ui

import (
	"fmt"
	"strings"

	"habitstreak/internal/calendar"
	"habitstreak/internal/config"
	"habitstreak/internal/stats"
	"habitstreak/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CalendarPane shows one month with every day colored by its status and
// the month's statistics underneath.
type CalendarPane struct {
	store   *store.Store
	styles  *Styles
	month   calendar.Month
	focused bool
	width   int
	height  int
	keys    CalendarKeyMap
}

// NewCalendarPane creates a calendar opened on the current month.
func NewCalendarPane(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *CalendarPane {
	return &CalendarPane{
		store:  s,
		styles: styles,
		month:  calendar.MonthOf(s.Today()),
		keys:   NewCalendarKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *CalendarPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *CalendarPane) SetFocused(focused bool) { p.focused = focused }

// Month returns the displayed month.
func (p *CalendarPane) Month() calendar.Month { return p.month }

// SetMonth changes the displayed month.
func (p *CalendarPane) SetMonth(m calendar.Month) { p.month = m }

// Update handles month navigation.
func (p *CalendarPane) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return nil
	}
	switch {
	case key.Matches(keyMsg, p.keys.PrevMonth):
		p.month = p.month.Prev()
	case key.Matches(keyMsg, p.keys.NextMonth):
		p.month = p.month.Next()
	case key.Matches(keyMsg, p.keys.ThisMonth):
		p.month = calendar.MonthOf(p.store.Today())
	}
	return nil
}

// View renders the month grid and summary.
func (p *CalendarPane) View() string {
	var b strings.Builder
	today := p.store.Today()
	summary := p.store.Summary(p.month)

	b.WriteString(p.styles.PaneTitleStyle.Render("📅 " + p.month.Title()))
	b.WriteString("\n\n")
	b.WriteString(p.styles.StatLabelStyle.Render(" Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	for _, week := range p.month.Weeks() {
		for _, n := range week {
			b.WriteString(" ")
			if n == 0 {
				b.WriteString("  ")
				continue
			}
			day := p.month.Day(n)
			style := p.styles.DayStyle(summary.Days[n-1].Status)
			if day == today {
				style = style.Inherit(p.styles.DayTodayStyle)
			}
			b.WriteString(style.Render(fmt.Sprintf("%2d", n)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.legend())
	b.WriteString("\n\n")

	b.WriteString(p.stat("Completion", fmt.Sprintf("%.0f%%", summary.CompletionRate*100)))
	b.WriteString(p.stat("Perfect days", fmt.Sprintf("%d", summary.PerfectDays)))
	b.WriteString(p.stat("Best streak", pluralDays(summary.BestStreak)))

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	if p.width > 0 {
		style = style.Width(p.width)
	}
	if p.height > 0 {
		style = style.Height(p.height)
	}
	return style.Render(b.String())
}

func (p *CalendarPane) legend() string {
	items := []struct {
		status stats.DayStatus
		label  string
	}{
		{stats.AllCompleted, "all"},
		{stats.SomeCompleted, "some"},
		{stats.NoneCompleted, "none"},
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = p.styles.DayStyle(it.status).Render("■") + " " + p.styles.StatLabelStyle.Render(it.label)
	}
	return " " + strings.Join(parts, "  ")
}

func (p *CalendarPane) stat(label, value string) string {
	return " " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%-13s", label)) +
		p.styles.StatValueStyle.Render(value) + "\n"
}
