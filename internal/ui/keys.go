// Package ui provides the terminal user interface for habitstreak.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation and customization.
package ui

import (
	"strings"

	"habitstreak/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys. "space" is accepted as a
// readable alias for the space bar.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		switch trimmed {
		case "":
			continue
		case "space":
			trimmed = " "
		}
		result = append(result, trimmed)
	}
	return result
}

// helpLabel is the first key of a binding list, shown in help text.
func helpLabel(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

func binding(custom, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpLabel(keys), desc),
	)
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Calendar key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:     binding(cfg.Quit, "quit", "q", "ctrl+c"),
		Help:     binding(cfg.Help, "help", "?"),
		Calendar: binding(cfg.Calendar, "habits/calendar", "tab", "c"),
	}
}

// =============================================================================
// Navigation Keys
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     binding(cfg.Up, "up", "k", "up"),
		Down:   binding(cfg.Down, "down", "j", "down"),
		Top:    binding(cfg.Top, "top", "g", "home"),
		Bottom: binding(cfg.Bottom, "bottom", "G", "end"),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: binding(cfg.Confirm, "confirm", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
	}
}

// =============================================================================
// Habit List Keys
// =============================================================================

// HabitKeyMap defines keys for the habit list.
type HabitKeyMap struct {
	Toggle   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	NavigationKeyMap
}

// NewHabitKeyMap creates habit list key bindings from config.
func NewHabitKeyMap(cfg *config.KeysConfig) HabitKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HabitKeyMap{
		Toggle:           binding(cfg.Toggle, "toggle today", " ", "enter"),
		Add:              binding(cfg.Add, "add habit", "a"),
		Edit:             binding(cfg.Edit, "edit habit", "e"),
		Delete:           binding(cfg.Delete, "delete habit", "x"),
		MoveUp:           binding(cfg.MoveUp, "move up", "K", "shift+up"),
		MoveDown:         binding(cfg.MoveDown, "move down", "J", "shift+down"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp implements help.KeyMap.
func (k HabitKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Down}
}

// FullHelp implements help.KeyMap.
func (k HabitKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Add, k.Edit, k.Delete},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.MoveUp, k.MoveDown},
	}
}

// =============================================================================
// Calendar Keys
// =============================================================================

// CalendarKeyMap defines keys for the month calendar.
type CalendarKeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	ThisMonth key.Binding
}

// NewCalendarKeyMap creates calendar key bindings from config.
func NewCalendarKeyMap(cfg *config.KeysConfig) CalendarKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CalendarKeyMap{
		PrevMonth: binding(cfg.PrevMonth, "previous month", "h", "left"),
		NextMonth: binding(cfg.NextMonth, "next month", "l", "right"),
		ThisMonth: binding(cfg.ThisMonth, "this month", "t"),
	}
}

// ShortHelp implements help.KeyMap.
func (k CalendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.ThisMonth}
}

// FullHelp implements help.KeyMap.
func (k CalendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.PrevMonth, k.NextMonth, k.ThisMonth}}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
