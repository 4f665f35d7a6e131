package avail

import (
	"fmt"
	"strconv"
	"time"
)

// Interval is a calendar interval such as "3d", "1w", or "2m", used for
// project review cadence and due-range rules.
type Interval struct {
	N    int
	Unit string // "d", "w", or "m"
}

// ParseInterval parses an interval string of the form <count><unit> where
// unit is d (days), w (weeks), or m (months).
func ParseInterval(s string) (Interval, error) {
	if len(s) < 2 {
		return Interval{}, fmt.Errorf("avail: interval %q: want <count><d|w|m>", s)
	}
	unit := s[len(s)-1:]
	switch unit {
	case "d", "w", "m":
	default:
		return Interval{}, fmt.Errorf("avail: interval %q: unit must be d, w, or m", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return Interval{}, fmt.Errorf("avail: interval %q: count must be a positive integer", s)
	}
	return Interval{N: n, Unit: unit}, nil
}

// Next returns t advanced by the interval, using calendar arithmetic so that
// "1m" lands on the same day next month.
func (iv Interval) Next(t time.Time) time.Time {
	switch iv.Unit {
	case "d":
		return t.AddDate(0, 0, iv.N)
	case "w":
		return t.AddDate(0, 0, 7*iv.N)
	case "m":
		return t.AddDate(0, iv.N, 0)
	}
	return t
}

func (iv Interval) String() string {
	return fmt.Sprintf("%d%s", iv.N, iv.Unit)
}
