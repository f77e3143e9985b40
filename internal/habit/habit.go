// Package habit holds the Habit entity and its derived streak metrics.
//
// Every derived value is a pure function of the completion days and the
// caller-supplied "today"; nothing here reads the clock. Completion days are
// treated as a set: duplicates are collapsed before any computation.
package habit

import (
	"slices"
	"strings"

	"habitstreak/internal/calendar"

	"github.com/google/uuid"
)

// DefaultEmoji is used when a habit is created without a glyph.
const DefaultEmoji = "⭐"

// Habit is a trackable daily habit.
type Habit struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Emoji           string         `json:"emoji"`
	CreatedDate     calendar.Day   `json:"created_date"`
	CompletionDates []calendar.Day `json:"completion_dates"`
}

// New returns a habit with a fresh ID, a trimmed name and no completions.
// An empty emoji falls back to DefaultEmoji.
func New(name, emoji string, created calendar.Day) Habit {
	return Habit{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(name),
		Emoji:           EmojiOrDefault(emoji),
		CreatedDate:     created,
		CompletionDates: []calendar.Day{},
	}
}

// EmojiOrDefault trims emoji and substitutes DefaultEmoji when it is empty.
func EmojiOrDefault(emoji string) string {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return DefaultEmoji
	}
	return emoji
}

// CompletedOn reports whether the habit was completed on day.
func (h Habit) CompletedOn(day calendar.Day) bool {
	return slices.Contains(h.CompletionDates, day)
}

// IsCompletedToday reports whether today is among the completion days.
func (h Habit) IsCompletedToday(today calendar.Day) bool {
	return h.CompletedOn(today)
}

// ActiveOn reports whether the habit existed on day.
func (h Habit) ActiveOn(day calendar.Day) bool {
	return !day.Before(h.CreatedDate)
}

// ToggleDay returns a copy of h with day removed if it was completed, or
// added if it was not. Toggling the same day twice restores the original
// completion state.
func (h Habit) ToggleDay(day calendar.Day) Habit {
	out := h
	if h.CompletedOn(day) {
		out.CompletionDates = make([]calendar.Day, 0, len(h.CompletionDates))
		for _, d := range h.CompletionDates {
			if d != day {
				out.CompletionDates = append(out.CompletionDates, d)
			}
		}
		return out
	}
	out.CompletionDates = append(slices.Clone(h.CompletionDates), day)
	return out
}

// UniqueDays returns the completion days sorted ascending with duplicates removed.
func (h Habit) UniqueDays() []calendar.Day {
	days := slices.Clone(h.CompletionDates)
	slices.Sort(days)
	return slices.Compact(days)
}

// CurrentStreak returns the length of the run of consecutive completion days
// ending at the most recent one. The run only counts when that most recent
// day is today or yesterday; an older run is broken and yields 0.
func (h Habit) CurrentStreak(today calendar.Day) int {
	days := h.UniqueDays()
	if len(days) == 0 {
		return 0
	}

	last := len(days) - 1
	mostRecent := days[last]
	if mostRecent != today && mostRecent != today.AddDays(-1) {
		return 0
	}

	streak := 1
	for i := last - 1; i >= 0; i-- {
		if days[i] != mostRecent.AddDays(-(last - i)) {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completion days ever
// recorded, regardless of how long ago it ended.
func (h Habit) LongestStreak() int {
	days := h.UniqueDays()
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1].AddDays(1) {
			run++
			longest = max(longest, run)
			continue
		}
		run = 1
	}
	return longest
}

// StreakTier buckets the current streak for display.
func (h Habit) StreakTier(today calendar.Day) Tier {
	return TierFor(h.CurrentStreak(today))
}
