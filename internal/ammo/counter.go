// Package ammo tracks the shots left in a clip.
package ammo

import "github.com/rs/zerolog/log"

// Direction is the way a Counter moves on each shot.
type Direction int

const (
	Up   Direction = 1
	Down Direction = -1
)

// Tracks are the sound file indexes tied to a clip's state.
type Tracks struct {
	// Active alternates between shots.
	Active [2]int
	Empty  int
}

// Fire is the active track for a shot that left count in the clip.
func (t Tracks) Fire(count int) int {
	if count < 0 {
		count = -count
	}
	return t.Active[count%2]
}

// Counter counts shots between Low and High. A Down counter starts full at
// High and is empty at Low; an Up counter runs the other way.
type Counter struct {
	Name   string
	Low    int
	High   int
	Dir    Direction
	Tracks Tracks

	count int
}

func NewCounter(name string, low, high int, dir Direction, tracks Tracks) *Counter {
	if high < low {
		low, high = high, low
	}
	if dir != Up {
		dir = Down
	}
	c := &Counter{Name: name, Low: low, High: high, Dir: dir, Tracks: tracks}
	c.Reset()
	return c
}

// Tick uses one shot. It reports false, leaving the count alone, when the
// clip was already empty.
func (c *Counter) Tick() bool {
	if c.IsEmpty() {
		return false
	}
	c.count += int(c.Dir)
	return true
}

func (c *Counter) IsEmpty() bool {
	if c.Dir == Up {
		return c.count == c.High
	}
	return c.count == c.Low
}

func (c *Counter) IsFull() bool {
	if c.Dir == Up {
		return c.count == c.Low
	}
	return c.count == c.High
}

func (c *Counter) Count() int { return c.count }

// Remaining is the number of shots left before the clip is empty.
func (c *Counter) Remaining() int {
	if c.Dir == Up {
		return c.High - c.count
	}
	return c.count - c.Low
}

// Reset refills the clip.
func (c *Counter) Reset() int {
	if c.Dir == Up {
		c.count = c.Low
	} else {
		c.count = c.High
	}
	log.Debug().Str("counter", c.Name).Int("count", c.count).Msg("clip reloaded")
	return c.count
}
