package account

import (
	"fmt"
	"time"
)

// RemainingTime is the time left on a subscription at a given instant.
type RemainingTime struct {
	permanent bool
	left      time.Duration
}

// Breakdown is the structured form used in login responses.
type Breakdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func NewRemainingTime(endDate *time.Time, now time.Time) RemainingTime {
	if endDate == nil {
		return RemainingTime{permanent: true}
	}
	return RemainingTime{left: endDate.Sub(now)}
}

func (r RemainingTime) Permanent() bool { return r.permanent }

func (r RemainingTime) Expired() bool { return !r.permanent && r.left <= 0 }

// Summary renders "Permanent", "Expired" or the fractional days left with two
// decimals, e.g. "10.50 days".
func (r RemainingTime) Summary() string {
	switch {
	case r.permanent:
		return "Permanent"
	case r.left <= 0:
		return "Expired"
	default:
		return fmt.Sprintf("%.2f days", r.left.Hours()/24)
	}
}

// Breakdown splits the remaining time into whole days, hours and minutes.
// Leftover seconds are dropped. It is nil for permanent subscriptions.
func (r RemainingTime) Breakdown() *Breakdown {
	if r.permanent {
		return nil
	}
	if r.left <= 0 {
		return &Breakdown{}
	}
	total := int(r.left / time.Minute)
	return &Breakdown{
		Days:    total / (24 * 60),
		Hours:   total / 60 % 24,
		Minutes: total % 60,
	}
}
