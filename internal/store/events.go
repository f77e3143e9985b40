package store

import (
	"fmt"
	"slices"
)

// Milestones are the current-streak lengths that trigger a celebration.
var Milestones = []int{7, 14, 30, 50, 100, 365}

// IsMilestone reports whether streak is one of Milestones.
func IsMilestone(streak int) bool {
	return slices.Contains(Milestones, streak)
}

// EventKind distinguishes store events.
type EventKind int

const (
	// Changed is published after every mutation of the habit list.
	Changed EventKind = iota
	// MilestoneReached is published when a toggle lands on a milestone.
	MilestoneReached
)

func (k EventKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case MilestoneReached:
		return "milestone"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Milestone is the payload of a MilestoneReached event.
type Milestone struct {
	HabitID string
	Name    string
	Emoji   string
	Streak  int
}

// Message is the short celebratory line shown to the user.
func (m Milestone) Message() string {
	return fmt.Sprintf("%s %d day streak!", m.Emoji, m.Streak)
}

// Event is delivered to subscribers. Milestone is set only for
// MilestoneReached.
type Event struct {
	Kind      EventKind
	Milestone *Milestone
}

// Subscribe registers fn for every event and returns a function that removes
// it. Handlers run synchronously, in subscription order.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) publish(e Event) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(e)
		}
	}
}
