// Package greeting picks the friendly lines shown at the top of the app.
package greeting

import (
	"time"

	"habitstreak/internal/calendar"
)

// TimeOfDay buckets the local hour.
type TimeOfDay int

const (
	Night TimeOfDay = iota
	Morning
	Afternoon
	Evening
)

// At classifies t by its hour in t's location: 6-11 morning, 12-17
// afternoon, 18-23 evening, anything else is night.
func At(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 18:
		return Afternoon
	case h >= 18:
		return Evening
	default:
		return Night
	}
}

// Greeting is the salutation for the time of day.
func (t TimeOfDay) Greeting() string {
	switch t {
	case Morning:
		return "Good morning! ☀️"
	case Afternoon:
		return "Good afternoon! 👋"
	case Evening:
		return "Good evening! 🌙"
	default:
		return "Still up? 🦉"
	}
}

func (t TimeOfDay) String() string {
	switch t {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	default:
		return "night"
	}
}

// For returns the greeting for t.
func For(t time.Time) string { return At(t).Greeting() }

var messages = []string{
	"Keep the streak alive! 🔥",
	"You've got this! 💪",
	"One day at a time! ⭐",
	"Consistency is key! 🎯",
	"Build those habits! 🌱",
	"Stay focused! 💡",
	"Progress, not perfection! 🚀",
}

// Daily returns the motivational message for day. It changes once a day and
// cycles through the same list every week of the year.
func Daily(day calendar.Day) string {
	return messages[day.DayOfYear()%len(messages)]
}

// FormatDate renders day the way the header shows it, e.g.
// "Saturday, Mar 15, 2025".
func FormatDate(day calendar.Day) string {
	return day.Time(time.Local).Format("Monday, Jan 2, 2006")
}
