// Package timing holds the non-blocking periodic gate patterns use to pace
// themselves inside the host loop.
package timing

import "time"

// ShouldFire reports whether interval has elapsed between last and now.
func ShouldFire(now, last, interval time.Duration) bool {
	return now-last >= interval
}

// Gate fires at most once per Interval. A late caller gets a single fire,
// never a burst of missed ones.
type Gate struct {
	Interval time.Duration
	last     time.Duration
}

func NewGate(interval time.Duration) Gate {
	return Gate{Interval: interval}
}

// Fire reports whether the gate is open at now and, if so, restarts the interval.
func (g *Gate) Fire(now time.Duration) bool {
	if !ShouldFire(now, g.last, g.Interval) {
		return false
	}
	g.last = now
	return true
}

// Last is the time of the most recent fire.
func (g *Gate) Last() time.Duration { return g.last }

// Reset makes the next Fire at or after now+Interval open the gate.
func (g *Gate) Reset(now time.Duration) { g.last = now }
