package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"habitstreak/internal/calendar"
	"habitstreak/internal/config"
	"habitstreak/internal/habit"
	"habitstreak/internal/logger"
	"habitstreak/internal/notify"
	"habitstreak/internal/storage"
	"habitstreak/internal/storage/sqlite"
	"habitstreak/internal/store"
)

// Context carries shared state into every command's Run method.
type Context struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer

	// Now and Notifier are replaced in tests.
	Now      func() time.Time
	Notifier notify.Notifier

	store      *store.Store
	dispatcher *notify.Dispatcher
	closers    []func() error
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// DataDir is the resolved data directory.
func (c *Context) DataDir() string {
	return c.Config.ResolvedDataDir()
}

// Store opens the configured backend on first use and attaches desktop
// notifications for milestones.
func (c *Context) Store() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}

	repo, err := c.openRepository()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(repo, store.WithClock(c.now))
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}

	c.store = s
	detach := c.Dispatcher().Attach(s)
	c.closers = append(c.closers, func() error { detach(); return nil })
	return s, nil
}

// Dispatcher returns the notification dispatcher built from config.
func (c *Context) Dispatcher() *notify.Dispatcher {
	if c.dispatcher == nil {
		n := c.Notifier
		if n == nil {
			n = notify.New()
		}
		c.dispatcher = notify.NewDispatcher(n, notify.Options{
			Enabled:    c.Config.Notifications.Enabled,
			Sound:      c.Config.Notifications.Sound,
			Milestones: c.Config.Notifications.Milestones,
		})
	}
	return c.dispatcher
}

func (c *Context) openRepository() (store.Repository, error) {
	dir := c.DataDir()
	switch c.Config.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(filepath.Join(dir, sqlite.FileName))
		if err != nil {
			return nil, err
		}
		db.SetNowFunc(c.now)
		c.closers = append(c.closers, db.Close)
		logger.Debug("opened sqlite backend", "path", db.Path())
		return db, nil
	default:
		st, err := storage.New(dir)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		st.SetNowFunc(c.now)
		logger.Debug("opened json backend", "dir", st.DataDir())
		return st, nil
	}
}

// Close releases the store and its backend in reverse order of opening.
func (c *Context) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Warn("close", "err", err)
		}
	}
	c.closers = nil
}

// findHabit resolves a habit by name, falling back to its id or its
// 1-based position in the list.
func findHabit(s *store.Store, ref string) (habit.Habit, error) {
	h, err := s.FindByName(ref)
	if err == nil {
		return h, nil
	}
	if byID, ok := s.Habit(ref); ok {
		return byID, nil
	}
	if n, convErr := strconv.Atoi(ref); convErr == nil && n >= 1 && n <= s.Len() {
		return s.Habits()[n-1], nil
	}
	return habit.Habit{}, err
}

// parseMonth reads a YYYY-MM flag, defaulting to the current month.
func parseMonth(s *store.Store, value string) (calendar.Month, error) {
	if value == "" {
		return calendar.MonthOf(s.Today()), nil
	}
	m, err := calendar.ParseMonth(value)
	if err != nil {
		return calendar.Month{}, fmt.Errorf("invalid month %q, use YYYY-MM", value)
	}
	return m, nil
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
