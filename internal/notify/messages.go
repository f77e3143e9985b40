package notify

import (
	"fmt"

	"habitstreak/internal/store"
)

// Message is a notification title and body.
type Message struct {
	Title string
	Body  string
}

// DailyReminder is the general nudge sent when there is nothing specific to
// warn about.
var DailyReminder = Message{
	Title: "Time to build your habits!",
	Body:  "Don't forget to check off your habits today 💪",
}

// MilestoneMessage builds the celebration for m.
func MilestoneMessage(m store.Milestone) Message {
	return Message{
		Title: "Milestone reached! 🎉",
		Body:  fmt.Sprintf("%s: %s", m.Name, m.Message()),
	}
}

// StreakWarning reminds the user how many habits are still open today.
func StreakWarning(remaining int) Message {
	plural := "s"
	if remaining == 1 {
		plural = ""
	}
	return Message{
		Title: "Don't break your streak! 🔥",
		Body:  fmt.Sprintf("You have %d habit%s left today", remaining, plural),
	}
}

// ReminderMessage picks the reminder for the current state of the day. It
// reports false when every habit is already done.
func ReminderMessage(total, remaining int) (Message, bool) {
	switch {
	case total == 0:
		return DailyReminder, true
	case remaining > 0:
		return StreakWarning(remaining), true
	default:
		return Message{}, false
	}
}
