package main

import (
	"encoding/json"
	"fmt"

	"habitstreak/internal/reports"
)

// StatsCmd prints the month-level numbers.
type StatsCmd struct {
	Month string `short:"m" help:"Month to summarize (YYYY-MM). Defaults to the current month."`
	JSON  bool   `help:"Print the summary as JSON."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	month, err := parseMonth(s, c.Month)
	if err != nil {
		return err
	}
	summary := s.Summary(month)

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintln(ctx.Out, month.Title())
	fmt.Fprintf(ctx.Out, "  %-14s %s\n", "Completion", reports.Percent(summary.CompletionRate))
	fmt.Fprintf(ctx.Out, "  %-14s %d\n", "Perfect days", summary.PerfectDays)
	fmt.Fprintf(ctx.Out, "  %-14s %s\n", "Best streak", pluralDays(summary.BestStreak))
	if month.Contains(s.Today()) && s.Len() > 0 {
		fmt.Fprintf(ctx.Out, "  %-14s %d/%d\n", "Done today", s.CompletedToday(), s.Len())
	}

	if len(summary.Habits) > 0 {
		fmt.Fprintln(ctx.Out)
		for _, h := range summary.Habits {
			fmt.Fprintf(ctx.Out, "  %s %-20s %d/%d days  current %d  longest %d\n",
				h.Emoji, h.Name, h.DaysCompleted, h.DaysActive, h.CurrentStreak, h.LongestStreak)
		}
	}
	return nil
}

// CalendarCmd prints a month grid with a status glyph per day.
type CalendarCmd struct {
	Month string `short:"m" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	month, err := parseMonth(s, c.Month)
	if err != nil {
		return err
	}
	summary := s.Summary(month)

	fmt.Fprintln(ctx.Out, month.Title())
	fmt.Fprint(ctx.Out, reports.CalendarGrid(month, summary.Days))
	fmt.Fprintln(ctx.Out)
	fmt.Fprintln(ctx.Out, reports.Legend())
	return nil
}
