// Package trigger turns the raw state of a momentary switch into
// press events.
package trigger

import "time"

// Event is the classification of one poll of the switch.
type Event int

const (
	None Event = iota
	ShortPress
	HoldPress
	LongPress
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case ShortPress:
		return "short"
	case HoldPress:
		return "hold"
	case LongPress:
		return "long"
	}
	return "unknown"
}

const (
	DefaultDebounce  = 25 * time.Millisecond
	DefaultLongPress = time.Second
	DefaultHold      = 500 * time.Millisecond
)

// Source reports the debounced-or-not state of a switch.
type Source interface {
	Pressed() (bool, error)
}

// Classifier debounces a switch and reports press events. A press shorter
// than or equal to LongPress is reported as ShortPress on release; a longer
// one as LongPress. While the switch is held past Hold, every poll reports
// HoldPress.
type Classifier struct {
	Debounce  time.Duration
	LongPress time.Duration
	Hold      time.Duration

	raw       bool
	rawAt     time.Duration
	stable    bool
	pressedAt time.Duration
	pressing  bool
}

func NewClassifier(debounce time.Duration) *Classifier {
	if debounce < 0 {
		debounce = 0
	}
	return &Classifier{
		Debounce:  debounce,
		LongPress: DefaultLongPress,
		Hold:      DefaultHold,
	}
}

// Pressing reports whether a debounced press is in progress.
func (c *Classifier) Pressing() bool { return c.pressing }

// Update feeds the raw switch state observed at now.
func (c *Classifier) Update(pressed bool, now time.Duration) Event {
	if pressed != c.raw {
		c.raw = pressed
		c.rawAt = now
	}
	if c.raw != c.stable && now-c.rawAt >= c.Debounce {
		c.stable = c.raw
		if c.stable {
			c.pressedAt = now
			c.pressing = true
		} else if c.pressing {
			c.pressing = false
			if now-c.pressedAt > c.LongPress {
				return LongPress
			}
			return ShortPress
		}
	}
	if c.pressing && now-c.pressedAt > c.Hold {
		return HoldPress
	}
	return None
}

// Poll reads src and classifies the result. A read error counts as released.
func (c *Classifier) Poll(src Source, now time.Duration) (Event, error) {
	pressed, err := src.Pressed()
	if err != nil {
		pressed = false
	}
	return c.Update(pressed, now), err
}
