package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSection is one titled group of bindings in the overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpOverlay renders a help screen built from the active key bindings, so
// remapped keys show up as configured.
type HelpOverlay struct {
	width    int
	height   int
	styles   *Styles
	sections []helpSection
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, habits HabitKeyMap, cal CalendarKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		sections: []helpSection{
			{"Global", []key.Binding{global.Calendar, global.Help, global.Quit}},
			{"Habits", []key.Binding{
				habits.Toggle, habits.Add, habits.Edit, habits.Delete,
				habits.Up, habits.Down, habits.Top, habits.Bottom,
				habits.MoveUp, habits.MoveDown,
			}},
			{"Calendar", []key.Binding{cal.PrevMonth, cal.NextMonth, cal.ThisMonth}},
			{"Input Mode", []key.Binding{input.Confirm, input.Cancel}},
		},
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// keysText lists every key of a binding, e.g. "k / up".
func keysText(b key.Binding) string {
	keys := make([]string, 0, len(b.Keys()))
	for _, k := range b.Keys() {
		if k == " " {
			k = "space"
		}
		keys = append(keys, k)
	}
	return strings.Join(keys, " / ")
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(18)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("📖 habitstreak - Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, sec := range h.sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, kb := range sec.bindings {
			b.WriteString(keyStyle.Render(keysText(kb)) + descStyle.Render(kb.Help().Desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return RenderCentered(overlayStyle.Render(b.String()), h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
