// Package stats aggregates habit metrics across a collection.
//
// A habit only counts on days on or after its created day, and days after
// "today" are skipped entirely rather than counted as misses.
package stats

import (
	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
)

// DayStatus classifies one calendar day across all habits.
type DayStatus int

const (
	NoHabits DayStatus = iota
	AllCompleted
	SomeCompleted
	NoneCompleted
	Future
)

func (s DayStatus) String() string {
	switch s {
	case AllCompleted:
		return "all_completed"
	case SomeCompleted:
		return "some_completed"
	case NoneCompleted:
		return "none_completed"
	case Future:
		return "future"
	default:
		return "no_habits"
	}
}

// MarshalText encodes the status by name.
func (s DayStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CompletionRate returns completed slots over possible slots for month, where
// each active habit on each elapsed day is one slot. It is 0 when there are no
// possible slots.
func CompletionRate(habits []habit.Habit, month calendar.Month, today calendar.Day) float64 {
	possible, completed := 0, 0
	for _, day := range elapsedDays(month, today) {
		for _, h := range habits {
			if !h.ActiveOn(day) {
				continue
			}
			possible++
			if h.CompletedOn(day) {
				completed++
			}
		}
	}
	if possible == 0 {
		return 0
	}
	return float64(completed) / float64(possible)
}

// PerfectDays counts the elapsed days of month on which at least one habit
// was active and every active habit was completed.
func PerfectDays(habits []habit.Habit, month calendar.Month, today calendar.Day) int {
	count := 0
	for _, day := range elapsedDays(month, today) {
		if StatusOn(habits, day, today) == AllCompleted {
			count++
		}
	}
	return count
}

// BestStreak returns the highest LongestStreak among habits. It is not
// limited to any month.
func BestStreak(habits []habit.Habit) int {
	best := 0
	for _, h := range habits {
		best = max(best, h.LongestStreak())
	}
	return best
}

// StatusOn classifies date relative to today.
func StatusOn(habits []habit.Habit, date, today calendar.Day) DayStatus {
	if date.After(today) {
		return Future
	}

	active, completed := 0, 0
	for _, h := range habits {
		if !h.ActiveOn(date) {
			continue
		}
		active++
		if h.CompletedOn(date) {
			completed++
		}
	}

	switch {
	case active == 0:
		return NoHabits
	case completed == active:
		return AllCompleted
	case completed == 0:
		return NoneCompleted
	default:
		return SomeCompleted
	}
}

// CompletedToday counts habits completed today.
func CompletedToday(habits []habit.Habit, today calendar.Day) int {
	n := 0
	for _, h := range habits {
		if h.IsCompletedToday(today) {
			n++
		}
	}
	return n
}

// RemainingToday counts habits not yet completed today.
func RemainingToday(habits []habit.Habit, today calendar.Day) int {
	return len(habits) - CompletedToday(habits, today)
}

// AllCompletedToday reports whether there is at least one habit and all of
// them are done today.
func AllCompletedToday(habits []habit.Habit, today calendar.Day) bool {
	return len(habits) > 0 && CompletedToday(habits, today) == len(habits)
}

// elapsedDays returns the days of month up to and including today.
func elapsedDays(month calendar.Month, today calendar.Day) []calendar.Day {
	days := month.Days()
	for i, d := range days {
		if d.After(today) {
			return days[:i]
		}
	}
	return days
}
