package reports

import (
	"fmt"
	"strings"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
	"habitstreak/internal/stats"
)

// StatusSymbol is the calendar cell glyph for a day status.
func StatusSymbol(s stats.DayStatus) string {
	switch s {
	case stats.AllCompleted:
		return "●"
	case stats.SomeCompleted:
		return "◐"
	case stats.NoneCompleted:
		return "○"
	case stats.Future:
		return "·"
	default:
		return " "
	}
}

// Percent renders a 0..1 rate as a whole percentage.
func Percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// FormatMonthlyMarkdown formats a monthly report as Markdown.
func FormatMonthlyMarkdown(r *MonthlyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Habit report: %s\n\n", r.Title)
	fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Completion rate | %s |\n", Percent(r.CompletionRate))
	fmt.Fprintf(&b, "| Perfect days | %d of %d |\n", r.PerfectDays, r.DaysElapsed)
	fmt.Fprintf(&b, "| Best streak | %s |\n", days(r.BestStreak))
	if r.month.Contains(r.Today) {
		fmt.Fprintf(&b, "| Done today | %d of %d |\n", r.CompletedToday, r.TotalHabits)
	}

	b.WriteString("\n## Habits\n\n")
	if len(r.Habits) == 0 {
		b.WriteString("No habits yet.\n")
	} else {
		b.WriteString("| Habit | Done | Rate | Current streak | Longest streak |\n")
		b.WriteString("|---|---:|---:|---|---:|\n")
		for _, h := range r.Habits {
			rate := 0.0
			if h.DaysActive > 0 {
				rate = float64(h.DaysCompleted) / float64(h.DaysActive)
			}
			fmt.Fprintf(&b, "| %s %s | %d/%d | %s | %s | %d |\n",
				h.Emoji, escapeCell(h.Name), h.DaysCompleted, h.DaysActive, Percent(rate),
				streakCell(h.CurrentStreak), h.LongestStreak)
		}
	}

	b.WriteString("\n## Calendar\n\n```\n")
	b.WriteString(CalendarGrid(r.month, r.Days))
	b.WriteString("```\n\n")
	b.WriteString(Legend())
	b.WriteByte('\n')

	return b.String()
}

// Legend explains the glyphs used by CalendarGrid.
func Legend() string {
	return fmt.Sprintf("%s all done  %s some done  %s none done  %s upcoming",
		StatusSymbol(stats.AllCompleted), StatusSymbol(stats.SomeCompleted),
		StatusSymbol(stats.NoneCompleted), StatusSymbol(stats.Future))
}

// CalendarGrid draws the month as a Sunday-first text grid with a status
// glyph after each day number.
func CalendarGrid(month calendar.Month, days []stats.DaySummary) string {
	var b strings.Builder
	b.WriteString(" Su   Mo   Tu   We   Th   Fr   Sa\n")
	for _, week := range month.Weeks() {
		cells := make([]string, 0, 7)
		for _, n := range week {
			if n == 0 || n > len(days) {
				cells = append(cells, "    ")
				continue
			}
			cells = append(cells, fmt.Sprintf("%2d%s ", n, StatusSymbol(days[n-1].Status)))
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func streakCell(streak int) string {
	if streak == 0 {
		return "-"
	}
	return fmt.Sprintf("%s %s", habit.TierFor(streak).Flames(), days(streak))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
