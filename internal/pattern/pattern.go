// Package pattern implements the blaster light effects: cooperative,
// non-blocking state machines that advance a frame buffer a little on every
// host loop iteration.
//
// A pattern is built once with static parameters and then activated many
// times. Tick must be called on every loop iteration; it returns immediately
// while the pattern is idle or its frame gate is closed.
package pattern

import (
	"time"

	"github.com/coreman2200/funtimes-blaster/model"
)

const (
	// FlashDuration is how long the white muzzle flash holds.
	FlashDuration = 75 * time.Millisecond
	ShotInterval  = 16 * time.Millisecond
	PulseInterval = 20 * time.Millisecond
)

const (
	// FadeRate dims the pulse trail each frame.
	FadeRate      uint8 = 220
	BaseBlendRate uint8 = 2
	CoolBlendRate uint8 = 32
)

// blend ticks between blend rate doublings
const doubleEvery = 5

const step = 1

// Strip is the part of the display driver a pattern draws through.
type Strip interface {
	Pixels() model.FrameBuffer
	Show()
}

// Pattern is one light effect.
type Pattern interface {
	Name() string
	// Activate restarts the effect from its first phase. A pending completion
	// callback from an earlier activation is dropped.
	Activate(s Strip, now time.Duration)
	// Tick advances the effect if its frame interval has elapsed.
	Tick(s Strip, now time.Duration)
	// Stop abandons the effect without touching the buffer or calling back.
	Stop()
	Active() bool
}

// Callback is invoked with no arguments when a pattern event occurs.
type Callback func()

// once delivers a callback at most once per arming.
type once struct {
	fn    Callback
	armed bool
}

func (o *once) arm()    { o.armed = true }
func (o *once) disarm() { o.armed = false }

func (o *once) fire() {
	if !o.armed {
		return
	}
	o.armed = false
	if o.fn != nil {
		o.fn()
	}
}

func satAdd(a, b uint8) uint8 {
	if a > 255-b {
		return 255
	}
	return a + b
}

func satDouble(a uint8) uint8 {
	if a > 127 {
		return 255
	}
	return a * 2
}
