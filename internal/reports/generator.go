package reports

import (
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
	"habitstreak/internal/stats"
)

// Source is what the generator reads habits from. *store.Store satisfies it.
type Source interface {
	Habits() []habit.Habit
	Now() time.Time
}

// Generator creates reports from a habit source.
type Generator struct {
	src Source
}

// NewGenerator creates a new report generator.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// GenerateMonthly builds the report for month as seen from the source's
// current day. Months in the future produce an all-future report.
func (g *Generator) GenerateMonthly(month calendar.Month) *MonthlyReport {
	now := g.src.Now()
	today := calendar.StartOfDay(now)
	habits := g.src.Habits()

	summary := stats.Summarize(habits, month, today)
	elapsed := 0
	for _, d := range summary.Days {
		if d.Status != stats.Future {
			elapsed++
		}
	}

	return &MonthlyReport{
		MonthSummary:   summary,
		Title:          month.Title(),
		Today:          today,
		DaysElapsed:    elapsed,
		CompletedToday: stats.CompletedToday(habits, today),
		TotalHabits:    len(habits),
		GeneratedAt:    now,
		month:          month,
	}
}
