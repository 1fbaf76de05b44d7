// Package blaster is the prop's controller: it maps trigger events to ammo,
// sound and light.
package blaster

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/internal/ammo"
	"github.com/coreman2200/funtimes-blaster/internal/audio"
	"github.com/coreman2200/funtimes-blaster/internal/config"
	"github.com/coreman2200/funtimes-blaster/internal/pattern"
	"github.com/coreman2200/funtimes-blaster/internal/trigger"
	"github.com/coreman2200/funtimes-blaster/model"
)

// Mode is one selector setting: the shot colors and its clip.
type Mode struct {
	Name      string
	Start     model.Pixel
	Target    model.Pixel
	FlashHold time.Duration
	Clip      *ammo.Counter
}

// ModesFromConfig builds modes with full clips.
func ModesFromConfig(cms []config.Mode) []Mode {
	modes := make([]Mode, 0, len(cms))
	for _, m := range cms {
		empty := m.EmptyTrack
		if empty == 0 {
			empty = audio.TrackEmpty
		}
		modes = append(modes, Mode{
			Name:      m.Name,
			Start:     m.Start,
			Target:    m.Target,
			FlashHold: m.FlashHold(),
			Clip:      ammo.NewCounter(m.Name, 0, m.Clip, ammo.Down, ammo.Tracks{Active: m.Tracks, Empty: empty}),
		})
	}
	return modes
}

type Options struct {
	// FlashHold, when positive, replaces every mode's pause after the muzzle
	// flash.
	FlashHold time.Duration
	// Chain plays after every shot completes.
	Chain pattern.Pattern
	Hooks pattern.Hooks
}

// Blaster owns the shot pattern, the clips of every mode and the sound.
type Blaster struct {
	player *pattern.Player
	shot   *pattern.Shot
	sound  audio.Player
	modes  []Mode
	mode   int
	chain  pattern.Pattern

	poweredUp bool
	shots     int
}

// New builds a controller drawing on strip. At least one mode is required.
func New(strip pattern.Strip, sound audio.Player, modes []Mode, opts Options) *Blaster {
	if sound == nil {
		sound = audio.Nop{}
	}
	if len(modes) == 0 {
		modes = ModesFromConfig(config.Default().Modes)
	}
	b := &Blaster{
		player: pattern.NewPlayer(strip, opts.Hooks),
		sound:  sound,
		modes:  modes,
		chain:  opts.Chain,
	}
	if opts.FlashHold > 0 {
		for i := range b.modes {
			b.modes[i].FlashHold = opts.FlashHold
		}
	}
	b.shot = pattern.NewShot("shot", pattern.ShotConfig{
		Start:     modes[0].Start,
		Target:    modes[0].Target,
		FlashHold: b.modes[0].FlashHold,
	})
	if b.chain != nil {
		b.shot.SetCompletion(func() { b.player.Activate(b.chain, 0) })
	}
	return b
}

// Mode is the selected mode.
func (b *Blaster) Mode() Mode { return b.modes[b.mode] }

// Shot is the pattern fired by the trigger.
func (b *Blaster) Shot() *pattern.Shot { return b.shot }

// Player runs the active pattern.
func (b *Blaster) Player() *pattern.Player { return b.player }

// Shots counts shots fired since start.
func (b *Blaster) Shots() int { return b.shots }

// PowerUp plays the start-up sound the first time it is called.
func (b *Blaster) PowerUp() {
	if b.poweredUp {
		return
	}
	b.poweredUp = true
	log.Info().Str("mode", b.Mode().Name).Msg("powering up")
	b.play(audio.TrackStartUp)
}

// HandleEvent acts on one trigger event and reports whether it did anything.
func (b *Blaster) HandleEvent(ev trigger.Event, now time.Duration) bool {
	switch ev {
	case trigger.ShortPress:
		b.Fire(now)
		return true
	case trigger.LongPress:
		b.NextMode()
		return true
	}
	return false
}

// Fire uses one shot from the selected clip. An empty clip only plays the
// empty sound. Shots alternate between the mode's two fire sounds.
func (b *Blaster) Fire(now time.Duration) bool {
	clip := b.Mode().Clip
	if !clip.Tick() {
		log.Info().Str("mode", b.Mode().Name).Msg("clip empty")
		b.play(clip.Tracks.Empty)
		return false
	}
	b.play(clip.Tracks.Fire(clip.Count()))
	b.shots++
	log.Debug().Str("mode", b.Mode().Name).Int("left", clip.Remaining()).Msg("fire")
	b.player.Activate(b.shot, now)
	return true
}

// NextMode cycles to the next mode and reloads every clip.
func (b *Blaster) NextMode() {
	b.SetMode((b.mode + 1) % len(b.modes))
}

// SetMode selects mode i, reconfigures the shot and reloads every clip.
func (b *Blaster) SetMode(i int) {
	if i < 0 || i >= len(b.modes) {
		return
	}
	b.mode = i
	m := b.modes[i]
	b.shot.SetColors(m.Start, m.Target)
	b.shot.SetFlashHold(m.FlashHold)
	log.Info().Str("mode", m.Name).Msg("mode selected")
	b.play(audio.TrackChangeMode)
	b.Reload()
}

// Reload refills every clip.
func (b *Blaster) Reload() {
	for _, m := range b.modes {
		m.Clip.Reset()
	}
}

// Update runs one loop iteration of the light effects.
func (b *Blaster) Update(now time.Duration) {
	b.PowerUp()
	b.player.Update(now)
}

func (b *Blaster) play(track int) {
	if err := b.sound.PlayTrack(track); err != nil {
		log.Warn().Err(err).Int("track", track).Msg("audio playback failed")
	}
}
