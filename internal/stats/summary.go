package stats

import (
	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
)

// MonthSummary bundles the month-level numbers shown by the calendar view and
// the monthly report.
type MonthSummary struct {
	Month          string           `json:"month"`
	CompletionRate float64          `json:"completion_rate"`
	PerfectDays    int              `json:"perfect_days"`
	BestStreak     int              `json:"best_streak"`
	Days           []DaySummary     `json:"days"`
	Habits         []HabitMonthStat `json:"habits"`
}

// DaySummary is the status of a single day in the month.
type DaySummary struct {
	Date      calendar.Day `json:"date"`
	Status    DayStatus    `json:"status"`
	Completed int          `json:"completed"`
	Active    int          `json:"active"`
}

// HabitMonthStat is one habit's contribution to the month.
type HabitMonthStat struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Emoji         string `json:"emoji"`
	DaysCompleted int    `json:"days_completed"`
	DaysActive    int    `json:"days_active"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// Summarize computes every month-level statistic in one pass over the
// calendar. Future days are listed with status Future and zero counts.
func Summarize(habits []habit.Habit, month calendar.Month, today calendar.Day) MonthSummary {
	summary := MonthSummary{
		Month:          month.String(),
		CompletionRate: CompletionRate(habits, month, today),
		PerfectDays:    PerfectDays(habits, month, today),
		BestStreak:     BestStreak(habits),
	}

	per := make([]HabitMonthStat, len(habits))
	for i, h := range habits {
		per[i] = HabitMonthStat{
			ID:            h.ID,
			Name:          h.Name,
			Emoji:         h.Emoji,
			CurrentStreak: h.CurrentStreak(today),
			LongestStreak: h.LongestStreak(),
		}
	}

	for _, day := range month.Days() {
		ds := DaySummary{Date: day, Status: StatusOn(habits, day, today)}
		if ds.Status != Future {
			for i, h := range habits {
				if !h.ActiveOn(day) {
					continue
				}
				ds.Active++
				per[i].DaysActive++
				if h.CompletedOn(day) {
					ds.Completed++
					per[i].DaysCompleted++
				}
			}
		}
		summary.Days = append(summary.Days, ds)
	}
	summary.Habits = per

	return summary
}
