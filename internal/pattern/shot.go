package pattern

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/internal/timing"
	"github.com/coreman2200/funtimes-blaster/model"
)

// ShotPhase is the position of a Shot in its flash, blend, cool sequence.
type ShotPhase uint8

const (
	ShotIdle ShotPhase = iota
	ShotCooling
	ShotBlending
	ShotFlashing
)

func (p ShotPhase) String() string {
	switch p {
	case ShotIdle:
		return "idle"
	case ShotCooling:
		return "cooling"
	case ShotBlending:
		return "blending"
	case ShotFlashing:
		return "flashing"
	}
	return "unknown"
}

// ShotConfig holds the static parameters of a Shot.
type ShotConfig struct {
	Start  model.Pixel
	Target model.Pixel
	// Interval between frames; zero uses ShotInterval.
	Interval time.Duration
	// FlashHold blocks Activate for this long after the white frame is pushed
	// so the flash is visible before the loop resumes.
	FlashHold  time.Duration
	OnComplete Callback
}

// Shot is a single blaster shot: the whole strip flashes white, blends from
// the start color to the target color, then cools to black.
type Shot struct {
	name string
	cfg  ShotConfig

	phase   ShotPhase
	gate    timing.Gate
	flashAt time.Duration
	current model.Pixel
	goal    model.Pixel
	rate    uint8
	ticks   int

	done  once
	Sleep func(time.Duration)
}

func NewShot(name string, cfg ShotConfig) *Shot {
	if cfg.Interval <= 0 {
		cfg.Interval = ShotInterval
	}
	return &Shot{
		name:  name,
		cfg:   cfg,
		gate:  timing.NewGate(cfg.Interval),
		rate:  BaseBlendRate,
		done:  once{fn: cfg.OnComplete},
		Sleep: time.Sleep,
	}
}

func (sh *Shot) Name() string { return sh.name }

func (sh *Shot) Phase() ShotPhase { return sh.phase }

func (sh *Shot) Active() bool { return sh.phase != ShotIdle }

// Color is the color currently shown after the flash.
func (sh *Shot) Color() model.Pixel { return sh.current }

// BlendRate is the current per-tick blend amount.
func (sh *Shot) BlendRate() uint8 { return sh.rate }

// Interval is the frame period.
func (sh *Shot) Interval() time.Duration { return sh.cfg.Interval }

// SetColors replaces the start and target colors for later activations.
func (sh *Shot) SetColors(start, target model.Pixel) {
	sh.cfg.Start = start
	sh.cfg.Target = target
}

func (sh *Shot) SetFlashHold(d time.Duration) { sh.cfg.FlashHold = d }

// FlashHold is the pause taken after the flash is pushed.
func (sh *Shot) FlashHold() time.Duration { return sh.cfg.FlashHold }

// Colors returns the configured start and target colors.
func (sh *Shot) Colors() (model.Pixel, model.Pixel) { return sh.cfg.Start, sh.cfg.Target }

// SetCompletion replaces the completion callback.
func (sh *Shot) SetCompletion(cb Callback) { sh.done.fn = cb }

func (sh *Shot) Activate(s Strip, now time.Duration) {
	log.Debug().Str("pattern", sh.name).Msg("shot activated")
	sh.current = sh.cfg.Start
	sh.goal = sh.cfg.Target
	sh.phase = ShotFlashing
	sh.rate = BaseBlendRate
	sh.ticks = 0
	sh.done.arm()

	// the flash goes out now, regardless of where the frame gate is
	sh.flashAt = now
	s.Pixels().Fill(model.White)
	s.Show()
	if sh.cfg.FlashHold > 0 && sh.Sleep != nil {
		sh.Sleep(sh.cfg.FlashHold)
	}
}

func (sh *Shot) Stop() {
	sh.phase = ShotIdle
	sh.done.disarm()
}

func (sh *Shot) Tick(s Strip, now time.Duration) {
	if sh.phase == ShotIdle || !sh.gate.Fire(now) {
		return
	}
	switch sh.phase {
	case ShotFlashing:
		if now-sh.flashAt > FlashDuration {
			sh.phase = ShotBlending
			log.Debug().Str("pattern", sh.name).Msg("shot blending")
		}
	case ShotBlending:
		sh.blend(s)
		if sh.current == sh.goal {
			sh.goal = model.Black
			sh.phase = ShotCooling
			if sh.rate < CoolBlendRate {
				sh.rate = CoolBlendRate
			}
			log.Debug().Str("pattern", sh.name).Msg("shot cooling")
		}
	case ShotCooling:
		sh.blend(s)
		if sh.current == model.Black {
			sh.phase = ShotIdle
			log.Debug().Str("pattern", sh.name).Msg("shot finished")
			sh.done.fire()
		}
	}
}

// blend moves the shot color one step toward its goal and shows it.
func (sh *Shot) blend(s Strip) {
	sh.current = model.BlendToward(sh.current, sh.goal, sh.rate)
	s.Pixels().Fill(sh.current)
	s.Show()

	sh.rate = satAdd(sh.rate, 1)
	sh.ticks++
	if sh.ticks%doubleEvery == 0 {
		sh.rate = satDouble(sh.rate)
	}
}
