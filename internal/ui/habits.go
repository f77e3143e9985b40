package ui

import (
	"fmt"
	"strings"

	"habitstreak/internal/calendar"
	"habitstreak/internal/config"
	"habitstreak/internal/habit"
	"habitstreak/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formMode int

const (
	formNone formMode = iota
	formAdd
	formEdit
)

const (
	namePlaceholder  = "Habit name (e.g., Read 10 pages)"
	emojiPlaceholder = "Emoji (default " + habit.DefaultEmoji + ")"
)

// HabitsPane lists habits with the last week of completions and the
// current streak, and hosts the add/edit form.
type HabitsPane struct {
	store   *store.Store
	styles  *Styles
	cursor  int
	focused bool
	width   int
	height  int

	mode    formMode
	step    int // 0 = name, 1 = emoji
	editID  string
	newName string
	input   textinput.Model

	keys      HabitKeyMap
	inputKeys InputKeyMap
}

// NewHabitsPane creates a habit list bound to s.
func NewHabitsPane(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *HabitsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = namePlaceholder
	ti.CharLimit = 40
	ti.Width = 30

	return &HabitsPane{
		store:     s,
		styles:    styles,
		input:     ti,
		keys:      NewHabitKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-12)
}

// SetFocused sets whether this pane is focused.
func (p *HabitsPane) SetFocused(focused bool) { p.focused = focused }

// IsFocused returns whether this pane is focused.
func (p *HabitsPane) IsFocused() bool { return p.focused }

// IsEditing reports whether the add/edit form is open.
func (p *HabitsPane) IsEditing() bool { return p.mode != formNone }

// Selected returns the habit under the cursor.
func (p *HabitsPane) Selected() (habit.Habit, bool) {
	habits := p.store.Habits()
	p.clamp(len(habits))
	if len(habits) == 0 {
		return habit.Habit{}, false
	}
	return habits[p.cursor], true
}

func (p *HabitsPane) clamp(n int) {
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Update handles messages for the habit list.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	if p.mode != formNone {
		return p.updateForm(msg)
	}
	if !p.focused {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	n := p.store.Len()
	p.clamp(n)

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		p.cursor = min(p.cursor+1, max(n-1, 0))

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(keyMsg, p.keys.Top):
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Bottom):
		p.cursor = max(n-1, 0)

	case key.Matches(keyMsg, p.keys.Add):
		return p.openForm(formAdd, habit.Habit{})

	case key.Matches(keyMsg, p.keys.Edit):
		if h, ok := p.Selected(); ok {
			return p.openForm(formEdit, h)
		}

	case key.Matches(keyMsg, p.keys.Toggle):
		if h, ok := p.Selected(); ok {
			if err := p.store.Toggle(h.ID); err != nil {
				return statusCmd("Toggle habit: "+err.Error(), true)
			}
		}

	case key.Matches(keyMsg, p.keys.Delete):
		if h, ok := p.Selected(); ok {
			return p.delete(h)
		}

	case key.Matches(keyMsg, p.keys.MoveUp):
		return p.move(-1)

	case key.Matches(keyMsg, p.keys.MoveDown):
		return p.move(1)
	}

	return nil
}

func (p *HabitsPane) delete(h habit.Habit) tea.Cmd {
	if err := p.store.Delete(h.ID); err != nil {
		return statusCmd("Delete habit: "+err.Error(), true)
	}
	p.clamp(p.store.Len())
	return statusCmd("Deleted "+h.Name, false)
}

func (p *HabitsPane) move(delta int) tea.Cmd {
	to := p.cursor + delta
	if to < 0 || to >= p.store.Len() {
		return nil
	}
	if err := p.store.Move(p.cursor, to); err != nil {
		return statusCmd("Move habit: "+err.Error(), true)
	}
	p.cursor = to
	return nil
}

func (p *HabitsPane) openForm(mode formMode, h habit.Habit) tea.Cmd {
	p.mode = mode
	p.step = 0
	p.editID = h.ID
	p.input.Reset()
	p.input.Placeholder = namePlaceholder
	p.input.CharLimit = 40
	if mode == formEdit {
		p.input.SetValue(h.Name)
	}
	p.input.Focus()
	return textinput.Blink
}

func (p *HabitsPane) closeForm() {
	p.mode = formNone
	p.step = 0
	p.editID = ""
	p.newName = ""
	p.input.Reset()
	p.input.Blur()
}

func (p *HabitsPane) updateForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.closeForm()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			if p.step == 0 {
				return p.confirmName()
			}
			return p.confirmEmoji()
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *HabitsPane) confirmName() tea.Cmd {
	name := strings.TrimSpace(p.input.Value())
	if name == "" {
		return statusCmd("Name can't be empty", true)
	}
	if p.store.HasDuplicateName(name, p.editID) {
		return statusCmd(fmt.Sprintf("A habit named %q already exists", name), true)
	}

	p.newName = name
	p.step = 1
	p.input.Reset()
	p.input.Placeholder = emojiPlaceholder
	p.input.CharLimit = 8
	if p.mode == formEdit {
		if h, ok := p.store.Habit(p.editID); ok {
			p.input.SetValue(h.Emoji)
		}
	}
	return nil
}

func (p *HabitsPane) confirmEmoji() tea.Cmd {
	emoji := strings.TrimSpace(p.input.Value())
	name, mode, id := p.newName, p.mode, p.editID
	p.closeForm()

	if mode == formEdit {
		if err := p.store.Update(id, name, emoji); err != nil {
			return statusCmd("Edit habit: "+err.Error(), true)
		}
		return statusCmd("Saved "+name, false)
	}

	if _, err := p.store.Add(name, emoji); err != nil {
		return statusCmd("Add habit: "+err.Error(), true)
	}
	p.cursor = p.store.Len() - 1
	return statusCmd("Added "+name, false)
}

// View renders the habit list.
func (p *HabitsPane) View() string {
	var b strings.Builder
	habits := p.store.Habits()
	today := p.store.Today()
	p.clamp(len(habits))

	title := p.styles.PaneTitleStyle.Render("🔥 HABITS")
	if len(habits) > 0 {
		title += "  " + p.styles.StatLabelStyle.Render(
			fmt.Sprintf("%d/%d today", p.store.CompletedToday(), len(habits)))
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", max(p.width-4, 10))))
	b.WriteString("\n")

	if len(habits) == 0 && p.mode == formNone {
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render("  No habits yet."))
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render(
			fmt.Sprintf("  Press '%s' to add one.", p.keys.Add.Help().Key)))
		b.WriteString("\n")
	} else if len(habits) > 0 {
		b.WriteString(p.styles.StatLabelStyle.Render(p.dayLabels(today)))
		b.WriteString("\n")
		for i, h := range habits {
			selected := i == p.cursor && p.focused && p.mode == formNone
			b.WriteString(p.renderHabit(h, today, selected))
			b.WriteString("\n")
		}

		if best := p.store.BestStreak(); best > 0 {
			b.WriteString("\n")
			b.WriteString("  " + p.styles.StatLabelStyle.Render("Best streak: ") +
				p.styles.HabitStreakStyle.Render(pluralDays(best)))
			b.WriteString("\n")
		}
	}

	if p.mode != formNone {
		b.WriteString("\n")
		verb := "New habit"
		if p.mode == formEdit {
			verb = "Edit habit"
		}
		b.WriteString("  " + p.styles.PaneTitleStyle.Render(verb))
		b.WriteString("\n")
		prompt := "Name:  "
		if p.step == 1 {
			prompt = "Emoji: "
		}
		b.WriteString("  " + p.styles.InputPromptStyle.Render(prompt) + p.input.View())
		b.WriteString("\n")
	}

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

// renderHabit draws one row: emoji, name, the last seven days and the
// current streak.
func (p *HabitsPane) renderHabit(h habit.Habit, today calendar.Day, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "▶ "
	}

	week := make([]string, 7)
	for i := range week {
		if h.CompletedOn(today.AddDays(i - 6)) {
			week[i] = p.styles.HabitDoneIcon
		} else {
			week[i] = p.styles.HabitUndoneIcon
		}
	}

	name := truncateText(h.Name, 18)
	line := fmt.Sprintf("%s%s %-18s %s  ", prefix, h.Emoji, name, strings.Join(week, " "))

	if streak := h.CurrentStreak(today); streak > 0 {
		line += p.styles.HabitStreakStyle.Render(fmt.Sprintf("%s %d", h.StreakTier(today).Flames(), streak))
	} else {
		line += p.styles.HabitHintStyle.Render("Start your streak!")
	}

	if selected {
		return p.styles.HabitSelectedStyle.Render(line)
	}
	return line
}

// dayLabels returns the weekday initials above the week columns.
func (p *HabitsPane) dayLabels(today calendar.Day) string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = today.AddDays(i - 6).Weekday().String()[:1]
	}
	// prefix (2) + emoji (2) + space + name (18) + space
	return strings.Repeat(" ", 24) + strings.Join(labels, " ")
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// truncateText shortens s to at most n runes, ending with an ellipsis.
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
