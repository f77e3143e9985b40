// Package store owns the in-memory habit collection.
//
// Store is the single writer of the habit list. It delegates all metrics to
// the habit and stats packages, persists through a Repository after every
// mutation and broadcasts changes to subscribers. It is not safe for
// concurrent use; callers drive it from one goroutine (the TUI update loop or
// a CLI command).
package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/habit"
	"habitstreak/internal/logger"
	"habitstreak/internal/stats"
)

var (
	// ErrNotFound is returned by lookups that must resolve to a habit.
	ErrNotFound = errors.New("habit not found")

	// ErrCorrupt is wrapped by repositories that could not decode persisted
	// data. The data they return alongside it is usable (typically empty).
	ErrCorrupt = errors.New("corrupt data")

	// ErrDayOutOfRange is returned when toggling a day before the habit was
	// created or after today.
	ErrDayOutOfRange = errors.New("day outside the habit's history")
)

// State is the small amount of app bookkeeping persisted next to the habits.
type State struct {
	Launched   bool       `json:"launched"`
	LastOpened *time.Time `json:"last_opened,omitempty"`
}

// Repository loads and saves the whole collection at once.
type Repository interface {
	LoadHabits() ([]habit.Habit, error)
	SaveHabits(habits []habit.Habit) error
	LoadState() (State, error)
	SaveState(state State) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to determine "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the habit collection facade.
type Store struct {
	repo   Repository
	habits []habit.Habit
	state  State
	now    func() time.Time

	subs   map[int]func(Event)
	nextID int
}

// Open loads the collection and app state from repo. Corrupt data is logged
// and treated as empty; any other load error is returned.
func Open(repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo: repo,
		now:  time.Now,
		subs: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	habits, err := repo.LoadHabits()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, fmt.Errorf("load habits: %w", err)
		}
		logger.Warn("habit data was unreadable, starting empty", "err", err)
		habits = nil
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	s.habits = habits

	state, err := repo.LoadState()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, fmt.Errorf("load state: %w", err)
		}
		logger.Warn("app state was unreadable, resetting", "err", err)
		state = State{}
	}
	s.state = state

	return s, nil
}

// Now returns the current time according to the store clock.
func (s *Store) Now() time.Time { return s.now() }

// Today returns the current calendar day according to the store clock.
func (s *Store) Today() calendar.Day { return calendar.StartOfDay(s.now()) }

// Habits returns a copy of the collection in display order.
func (s *Store) Habits() []habit.Habit {
	return slices.Clone(s.habits)
}

// Len returns the number of habits.
func (s *Store) Len() int { return len(s.habits) }

// Habit returns the habit with id.
func (s *Store) Habit(id string) (habit.Habit, bool) {
	i := s.index(id)
	if i < 0 {
		return habit.Habit{}, false
	}
	return s.habits[i], true
}

// FindByName resolves a habit by trimmed, case-insensitive name.
func (s *Store) FindByName(name string) (habit.Habit, error) {
	key := normalizeName(name)
	for _, h := range s.habits {
		if normalizeName(h.Name) == key {
			return h, nil
		}
	}
	return habit.Habit{}, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(name))
}

// HasDuplicateName reports whether another habit (other than excludingID)
// already uses name, compared trimmed and case-insensitively. Callers use it
// to refuse input; Add and Update themselves do not.
func (s *Store) HasDuplicateName(name, excludingID string) bool {
	key := normalizeName(name)
	if key == "" {
		return false
	}
	for _, h := range s.habits {
		if h.ID != excludingID && normalizeName(h.Name) == key {
			return true
		}
	}
	return false
}

// Add creates a habit created today. An empty name is a no-op and returns a
// nil habit. On a save failure the habit stays in memory and the error is
// returned together with it.
func (s *Store) Add(name, emoji string) (*habit.Habit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	h := habit.New(name, emoji, s.Today())
	s.habits = append(s.habits, h)
	logger.Debug("habit added", "id", h.ID, "name", h.Name)

	err := s.commit()
	return &h, err
}

// Update renames a habit and changes its emoji. An empty emoji keeps the
// current one; an empty name or unknown id is a no-op.
func (s *Store) Update(id, name, emoji string) error {
	i := s.index(id)
	name = strings.TrimSpace(name)
	if i < 0 || name == "" {
		return nil
	}

	s.habits[i].Name = name
	if strings.TrimSpace(emoji) != "" {
		s.habits[i].Emoji = habit.EmojiOrDefault(emoji)
	}
	return s.commit()
}

// Delete removes a habit and its history. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.habits = slices.Delete(s.habits, i, i+1)
	return s.commit()
}

// Move relocates the habit at index from to index to. Out of range indexes
// are ignored.
func (s *Store) Move(from, to int) error {
	n := len(s.habits)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}
	h := s.habits[from]
	s.habits = slices.Delete(s.habits, from, from+1)
	s.habits = slices.Insert(s.habits, to, h)
	return s.commit()
}

// Toggle flips today's completion for id. Completing today so that the
// current streak lands exactly on a milestone publishes a Milestone event.
func (s *Store) Toggle(id string) error {
	return s.toggle(id, s.Today())
}

// ToggleDay flips the completion of a day between the habit's created day and
// today, inclusive. Other days return ErrDayOutOfRange. Back-filled days never
// publish milestones.
func (s *Store) ToggleDay(id string, day calendar.Day) error {
	return s.toggle(id, day)
}

func (s *Store) toggle(id string, day calendar.Day) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}

	today := s.Today()
	if day.Before(s.habits[i].CreatedDate) || day.After(today) {
		return fmt.Errorf("%w: %s", ErrDayOutOfRange, day)
	}
	wasDone := s.habits[i].CompletedOn(day)
	s.habits[i] = s.habits[i].ToggleDay(day)

	var milestone *Milestone
	if !wasDone && day == today {
		h := s.habits[i]
		if streak := h.CurrentStreak(today); IsMilestone(streak) {
			milestone = &Milestone{HabitID: h.ID, Name: h.Name, Emoji: h.Emoji, Streak: streak}
		}
	}

	err := s.commit()
	if milestone != nil {
		logger.Info("milestone reached", "habit", milestone.Name, "streak", milestone.Streak)
		s.publish(Event{Kind: MilestoneReached, Milestone: milestone})
	}
	return err
}

// CompletionRate is stats.CompletionRate for month as of today.
func (s *Store) CompletionRate(month calendar.Month) float64 {
	return stats.CompletionRate(s.habits, month, s.Today())
}

// PerfectDays is stats.PerfectDays for month as of today.
func (s *Store) PerfectDays(month calendar.Month) int {
	return stats.PerfectDays(s.habits, month, s.Today())
}

// BestStreak is the longest streak of any habit, ever.
func (s *Store) BestStreak() int {
	return stats.BestStreak(s.habits)
}

// DayStatus classifies day as of today.
func (s *Store) DayStatus(day calendar.Day) stats.DayStatus {
	return stats.StatusOn(s.habits, day, s.Today())
}

// Summary returns all month-level statistics for month.
func (s *Store) Summary(month calendar.Month) stats.MonthSummary {
	return stats.Summarize(s.habits, month, s.Today())
}

// CompletedToday counts habits done today.
func (s *Store) CompletedToday() int {
	return stats.CompletedToday(s.habits, s.Today())
}

// RemainingToday counts habits not yet done today.
func (s *Store) RemainingToday() int {
	return stats.RemainingToday(s.habits, s.Today())
}

// AllCompletedToday reports whether every habit is done today.
func (s *Store) AllCompletedToday() bool {
	return stats.AllCompletedToday(s.habits, s.Today())
}

// FirstLaunch reports whether the app has never been marked as launched.
func (s *Store) FirstLaunch() bool { return !s.state.Launched }

// MarkLaunched records that the welcome flow has been shown.
func (s *Store) MarkLaunched() error {
	if s.state.Launched {
		return nil
	}
	s.state.Launched = true
	return s.saveState()
}

// LastOpened returns the previous open time, if any.
func (s *Store) LastOpened() (time.Time, bool) {
	if s.state.LastOpened == nil {
		return time.Time{}, false
	}
	return *s.state.LastOpened, true
}

// TouchLastOpened records now as the last open time and returns the
// previous value.
func (s *Store) TouchLastOpened() (time.Time, bool, error) {
	prev, ok := s.LastOpened()
	now := s.now()
	s.state.LastOpened = &now
	return prev, ok, s.saveState()
}

func (s *Store) saveState() error {
	if err := s.repo.SaveState(s.state); err != nil {
		logger.Error("save app state failed", "err", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// commit persists the collection and notifies subscribers. The change is
// published even when the save fails since memory is the source of truth.
func (s *Store) commit() error {
	var saveErr error
	if err := s.repo.SaveHabits(slices.Clone(s.habits)); err != nil {
		logger.Error("save habits failed", "err", err)
		saveErr = fmt.Errorf("save habits: %w", err)
	}
	s.publish(Event{Kind: Changed})
	return saveErr
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.habits, func(h habit.Habit) bool { return h.ID == id })
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
