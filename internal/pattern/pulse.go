package pattern

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/internal/layout"
	"github.com/coreman2200/funtimes-blaster/internal/timing"
	"github.com/coreman2200/funtimes-blaster/model"
)

// PulsePhase is either idle or active; a pulse has no intermediate phases.
type PulsePhase uint8

const (
	PulseIdle PulsePhase = iota
	PulseActive
)

func (p PulsePhase) String() string {
	if p == PulseActive {
		return "active"
	}
	return "idle"
}

// PulseConfig holds the static parameters of a travelling pulse.
type PulseConfig struct {
	Color model.Pixel
	// Width of one lit segment; values below 1 mean 1.
	Width int
	// Mirrored animates two halves symmetrically from the ends toward the
	// middle instead of one run across the whole strip.
	Mirrored bool
	// Interval between frames; zero uses PulseInterval.
	Interval     time.Duration
	OnComplete   Callback
	OnReachedEnd Callback
}

// RepeatingConfig adds evenly spaced copies of the segment to a pulse.
type RepeatingConfig struct {
	PulseConfig
	// Repeats is the number of segments; values below 1 mean 1.
	Repeats int
	// Spacing is the number of black pixels between segments.
	Spacing int
	// TrailingFade dims previous frames instead of clearing them.
	TrailingFade bool
}

// sweep is the segment walker shared by the pulse patterns.
type sweep struct {
	name    string
	cfg     RepeatingConfig
	phase   PulsePhase
	gate    timing.Gate
	up      int
	down    int
	done    once
	reached once
}

func newSweep(name string, cfg RepeatingConfig) sweep {
	if cfg.Width < 1 {
		cfg.Width = 1
	}
	if cfg.Repeats < 1 {
		cfg.Repeats = 1
	}
	if cfg.Spacing < 0 {
		cfg.Spacing = 0
	}
	if cfg.Interval <= 0 {
		cfg.Interval = PulseInterval
	}
	return sweep{
		name:    name,
		cfg:     cfg,
		gate:    timing.NewGate(cfg.Interval),
		done:    once{fn: cfg.OnComplete},
		reached: once{fn: cfg.OnReachedEnd},
	}
}

func (w *sweep) Name() string { return w.name }

func (w *sweep) Phase() PulsePhase { return w.phase }

func (w *sweep) Active() bool { return w.phase == PulseActive }

// Position returns the leading index of the upward and downward halves.
func (w *sweep) Position() (up, down int) { return w.up, w.down }

// Interval is the frame period.
func (w *sweep) Interval() time.Duration { return w.cfg.Interval }

// Width is the total span of all segments and the gaps between them.
func (w *sweep) Width() int {
	return (w.cfg.Width+w.cfg.Spacing)*w.cfg.Repeats - w.cfg.Spacing
}

// SetColor replaces the segment color for later frames.
func (w *sweep) SetColor(c model.Pixel) { w.cfg.Color = c }

func (w *sweep) Color() model.Pixel { return w.cfg.Color }

// SetCompletion replaces the callback run when the pulse has left the strip.
func (w *sweep) SetCompletion(cb Callback) { w.done.fn = cb }

// SetReachedEnd replaces the callback run when the leading pixel reaches
// the last index of the animated half.
func (w *sweep) SetReachedEnd(cb Callback) { w.reached.fn = cb }

func (w *sweep) Activate(s Strip, now time.Duration) {
	log.Debug().Str("pattern", w.name).Msg("pulse activated")
	w.phase = PulseActive
	w.up = 0
	w.down = len(s.Pixels()) - 1
	w.done.arm()
	w.reached.arm()
}

func (w *sweep) Stop() {
	w.phase = PulseIdle
	w.done.disarm()
	w.reached.disarm()
}

func (w *sweep) Tick(s Strip, now time.Duration) {
	if w.phase == PulseIdle || !w.gate.Fire(now) {
		return
	}
	fb := s.Pixels()
	topo := layout.Topology{Count: len(fb), Mirrored: w.cfg.Mirrored}
	end := topo.UpEnd()

	if w.up-w.Width() > end {
		w.phase = PulseIdle
		fb.FadeToBlackBy(FadeRate)
		s.Show()
		log.Debug().Str("pattern", w.name).Msg("pulse finished")
		w.done.fire()
		return
	}
	if w.up == end-1 {
		w.reached.fire()
	}

	if w.cfg.TrailingFade {
		fb.FadeToBlackBy(FadeRate)
	} else {
		fb.Clear()
	}

	w.up += step
	w.paint(fb, topo.InUp, w.up, -1)
	if w.cfg.Mirrored {
		w.down -= step
		w.paint(fb, topo.InDown, w.down, 1)
	}
	s.Show()
}

// paint draws every segment starting at lead and extending in direction dir
// (-1 behind an upward pulse, +1 behind a downward one), blacking out the
// gaps between segments. Writes outside the half accepted by in are dropped.
func (w *sweep) paint(fb model.FrameBuffer, in func(int) bool, lead, dir int) {
	span := w.cfg.Width + w.cfg.Spacing
	for r := 0; r < w.cfg.Repeats; r++ {
		head := lead + dir*r*span
		for i := 0; i < w.cfg.Width; i++ {
			if pos := head + dir*i; in(pos) {
				fb[pos] = w.cfg.Color
			}
		}
		if r == w.cfg.Repeats-1 {
			break
		}
		for g := 0; g < w.cfg.Spacing; g++ {
			if pos := head + dir*(w.cfg.Width+g); in(pos) {
				fb[pos] = model.Black
			}
		}
	}
}

// Pulse is a single lit segment that travels along the strip, leaving a
// fading trail, optionally mirrored on both halves.
type Pulse struct {
	sweep
}

func NewPulse(name string, cfg PulseConfig) *Pulse {
	return &Pulse{newSweep(name, RepeatingConfig{
		PulseConfig:  cfg,
		Repeats:      1,
		TrailingFade: true,
	})}
}

// RepeatingPulse is a train of equally spaced segments travelling together.
type RepeatingPulse struct {
	sweep
}

func NewRepeatingPulse(name string, cfg RepeatingConfig) *RepeatingPulse {
	return &RepeatingPulse{newSweep(name, cfg)}
}

// Repeats is the number of segments in the train.
func (p *RepeatingPulse) Repeats() int { return p.cfg.Repeats }

// Spacing is the gap between segments.
func (p *RepeatingPulse) Spacing() int { return p.cfg.Spacing }
