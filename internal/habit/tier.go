package habit

import "strings"

// Tier is a coarse streak bucket used to pick how many flames to draw.
type Tier int

const (
	TierNone Tier = iota // no current streak
	TierLow              // 1-6 days
	TierMid              // 7-13 days
	TierHigh             // 14-29 days
	TierMax              // 30+ days
)

// TierFor maps a streak length to its tier.
func TierFor(streak int) Tier {
	switch {
	case streak <= 0:
		return TierNone
	case streak <= 6:
		return TierLow
	case streak <= 13:
		return TierMid
	case streak <= 29:
		return TierHigh
	default:
		return TierMax
	}
}

// Flames renders the tier as zero to four fire emoji.
func (t Tier) Flames() string {
	return strings.Repeat("\U0001F525", int(t))
}

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	case TierMax:
		return "max"
	default:
		return "none"
	}
}
