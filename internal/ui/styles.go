package ui

import (
	"habitstreak/internal/config"
	"habitstreak/internal/stats"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorFlame     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	GreetingStyle    lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	HabitSelectedStyle lipgloss.Style
	HabitNameStyle     lipgloss.Style
	HabitDoneIcon      string
	HabitUndoneIcon    string
	HabitStreakStyle   lipgloss.Style
	HabitHintStyle     lipgloss.Style

	// Calendar cells by day status
	DayAllStyle    lipgloss.Style
	DaySomeStyle   lipgloss.Style
	DayNoneStyle   lipgloss.Style
	DayFutureStyle lipgloss.Style
	DayEmptyStyle  lipgloss.Style
	DayTodayStyle  lipgloss.Style

	BannerStyle lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style

	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorFlame = colorOrDefault(theme.Flame, "#F97316")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.GreetingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	// Habit list
	s.HabitSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.HabitNameStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.HabitDoneIcon = lipgloss.NewStyle().Foreground(s.ColorAccent).Render("●")
	s.HabitUndoneIcon = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("○")

	s.HabitStreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorFlame).
		Bold(true)

	s.HabitHintStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	// Calendar
	s.DayAllStyle = lipgloss.NewStyle().
		Foreground(s.ColorBg).
		Background(s.ColorAccent).
		Bold(true)

	s.DaySomeStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.DayNoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger)

	s.DayFutureStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.DayEmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.DayTodayStyle = lipgloss.NewStyle().
		Underline(true)

	s.BannerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorBg).
		Background(s.ColorFlame).
		Padding(0, 2)

	// Help bar
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)
}

// DayStyle picks the calendar cell style for a day status.
func (s *Styles) DayStyle(status stats.DayStatus) lipgloss.Style {
	switch status {
	case stats.AllCompleted:
		return s.DayAllStyle
	case stats.SomeCompleted:
		return s.DaySomeStyle
	case stats.NoneCompleted:
		return s.DayNoneStyle
	case stats.Future:
		return s.DayFutureStyle
	default:
		return s.DayEmptyStyle
	}
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
