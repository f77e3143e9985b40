// Package notify provides cross-platform desktop notification support.
// It uses native notification mechanisms on macOS (osascript) and Linux (notify-send).
package notify

import (
	"habitstreak/internal/logger"
	"habitstreak/internal/store"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported returns true if notifications are supported on this platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(title, message string) error          { return nil }
func (n *noopNotifier) SendWithSound(title, message string) error { return nil }
func (n *noopNotifier) IsSupported() bool                         { return false }

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return &noopNotifier{}
	}
	return n
}

// Options mirrors the notifications section of the config file.
type Options struct {
	Enabled    bool
	Sound      bool
	Milestones bool
}

// Dispatcher decides which habit events become desktop notifications.
type Dispatcher struct {
	n    Notifier
	opts Options
}

// NewDispatcher wraps n. A nil notifier behaves like an unsupported platform.
func NewDispatcher(n Notifier, opts Options) *Dispatcher {
	if n == nil {
		n = &noopNotifier{}
	}
	return &Dispatcher{n: n, opts: opts}
}

// Enabled reports whether anything will be sent at all.
func (d *Dispatcher) Enabled() bool {
	return d.opts.Enabled && d.n.IsSupported()
}

// Attach forwards milestone events from s until the returned function is
// called.
func (d *Dispatcher) Attach(s *store.Store) (detach func()) {
	return s.Subscribe(func(e store.Event) {
		if e.Kind != store.MilestoneReached || e.Milestone == nil {
			return
		}
		if err := d.Milestone(*e.Milestone); err != nil {
			logger.Warn("milestone notification failed", "err", err)
		}
	})
}

// Milestone announces a streak milestone.
func (d *Dispatcher) Milestone(m store.Milestone) error {
	if !d.opts.Milestones {
		return nil
	}
	return d.send(MilestoneMessage(m))
}

// Reminder sends the streak warning when habits remain today, or the
// general daily reminder when there are no habits to warn about.
func (d *Dispatcher) Reminder(total, remaining int) (Message, bool, error) {
	msg, ok := ReminderMessage(total, remaining)
	if !ok {
		return Message{}, false, nil
	}
	return msg, true, d.send(msg)
}

func (d *Dispatcher) send(msg Message) error {
	if !d.Enabled() {
		return nil
	}
	if d.opts.Sound {
		return d.n.SendWithSound(msg.Title, msg.Body)
	}
	return d.n.Send(msg.Title, msg.Body)
}
