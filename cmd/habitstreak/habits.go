package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"habitstreak/internal/calendar"
	"habitstreak/internal/store"
)

// AddCmd creates a habit.
type AddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Emoji string `short:"e" help:"Emoji shown next to the name."`
}

func (c *AddCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("habit name is empty")
	}
	if s.HasDuplicateName(c.Name, "") {
		return fmt.Errorf("a habit named %q already exists", strings.TrimSpace(c.Name))
	}

	h, err := s.Add(c.Name, c.Emoji)
	if err != nil {
		return fmt.Errorf("save habit: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Added %s %s\n", h.Emoji, h.Name)
	return nil
}

// ListCmd prints every habit in display order.
type ListCmd struct {
	JSON bool `help:"Print habits as JSON."`
}

func (c *ListCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	habits := s.Habits()

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(habits)
	}

	if len(habits) == 0 {
		fmt.Fprintln(ctx.Out, "No habits yet.")
		fmt.Fprintln(ctx.Out, "Run 'habitstreak add NAME' to create one.")
		return nil
	}

	today := s.Today()
	for i, h := range habits {
		mark := "○"
		if h.IsCompletedToday(today) {
			mark = "●"
		}
		streak := "-"
		if n := h.CurrentStreak(today); n > 0 {
			streak = fmt.Sprintf("%s %d", h.StreakTier(today).Flames(), n)
		}
		fmt.Fprintf(ctx.Out, "%2d. %s %s %-20s %-10s best %d\n",
			i+1, mark, h.Emoji, h.Name, streak, h.LongestStreak())
	}
	fmt.Fprintf(ctx.Out, "\nToday: %d/%d done\n", s.CompletedToday(), len(habits))
	return nil
}

// ToggleCmd flips a habit's completion for one day.
type ToggleCmd struct {
	Habit string `arg:"" help:"Habit name, id or position."`
	Date  string `short:"d" help:"Day to toggle (YYYY-MM-DD). Defaults to today."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	h, err := findHabit(s, c.Habit)
	if err != nil {
		return err
	}

	today := s.Today()
	day := today
	if c.Date != "" {
		day, err = calendar.Parse(c.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", c.Date)
		}
		if day.After(today) {
			return fmt.Errorf("cannot toggle %s: it is in the future", day)
		}
		if day.Before(h.CreatedDate) {
			return fmt.Errorf("cannot toggle %s: %s was created on %s", day, h.Name, h.CreatedDate)
		}
	}

	unsubscribe := s.Subscribe(func(e store.Event) {
		if e.Kind == store.MilestoneReached && e.Milestone != nil {
			fmt.Fprintf(ctx.Out, "🎉 %s\n", e.Milestone.Message())
		}
	})
	defer unsubscribe()

	if day == today {
		err = s.Toggle(h.ID)
	} else {
		err = s.ToggleDay(h.ID, day)
	}
	if err != nil {
		return fmt.Errorf("save habit: %w", err)
	}

	updated, _ := s.Habit(h.ID)
	if updated.CompletedOn(day) {
		fmt.Fprintf(ctx.Out, "● %s %s done for %s (streak: %s)\n",
			updated.Emoji, updated.Name, day, pluralDays(updated.CurrentStreak(today)))
	} else {
		fmt.Fprintf(ctx.Out, "○ %s %s not done for %s\n", updated.Emoji, updated.Name, day)
	}
	return nil
}

// EditCmd renames a habit or changes its emoji.
type EditCmd struct {
	Habit string `arg:"" help:"Habit name, id or position."`
	Name  string `short:"n" help:"New name."`
	Emoji string `short:"e" help:"New emoji."`
}

func (c *EditCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Emoji) == "" {
		return errors.New("nothing to change, pass --name or --emoji")
	}

	s, err := ctx.Store()
	if err != nil {
		return err
	}
	h, err := findHabit(s, c.Habit)
	if err != nil {
		return err
	}

	name := h.Name
	if strings.TrimSpace(c.Name) != "" {
		name = c.Name
		if s.HasDuplicateName(name, h.ID) {
			return fmt.Errorf("a habit named %q already exists", strings.TrimSpace(name))
		}
	}

	if err := s.Update(h.ID, name, c.Emoji); err != nil {
		return fmt.Errorf("save habit: %w", err)
	}
	updated, _ := s.Habit(h.ID)
	fmt.Fprintf(ctx.Out, "✓ Saved %s %s\n", updated.Emoji, updated.Name)
	return nil
}

// RmCmd deletes a habit.
type RmCmd struct {
	Habit string `arg:"" help:"Habit name, id or position."`
}

func (c *RmCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	h, err := findHabit(s, c.Habit)
	if err != nil {
		return err
	}
	if err := s.Delete(h.ID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Deleted %s %s\n", h.Emoji, h.Name)
	return nil
}

// MoveCmd changes a habit's position.
type MoveCmd struct {
	Habit    string `arg:"" help:"Habit name, id or position."`
	Position int    `arg:"" help:"New 1-based position."`
}

func (c *MoveCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	h, err := findHabit(s, c.Habit)
	if err != nil {
		return err
	}
	if c.Position < 1 || c.Position > s.Len() {
		return fmt.Errorf("position must be between 1 and %d", s.Len())
	}

	from := -1
	for i, other := range s.Habits() {
		if other.ID == h.ID {
			from = i
			break
		}
	}
	if err := s.Move(from, c.Position-1); err != nil {
		return fmt.Errorf("move habit: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Moved %s %s to position %d\n", h.Emoji, h.Name, c.Position)
	return nil
}
