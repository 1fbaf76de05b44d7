package blaster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-blaster/internal/audio"
	"github.com/coreman2200/funtimes-blaster/internal/config"
	"github.com/coreman2200/funtimes-blaster/internal/led"
	"github.com/coreman2200/funtimes-blaster/internal/pattern"
	"github.com/coreman2200/funtimes-blaster/internal/trigger"
	"github.com/coreman2200/funtimes-blaster/model"
)

type tracks struct {
	played []int
	err    error
}

func (t *tracks) PlayTrack(n int) error {
	t.played = append(t.played, n)
	return t.err
}
func (t *tracks) SetVolume(int) error { return nil }
func (t *tracks) Close() error        { return nil }

func newBlaster(t *testing.T, opts Options) (*Blaster, *tracks, *led.Strip, *led.Sim) {
	t.Helper()
	sim := led.NewSim()
	strip := led.NewStrip(4, sim, led.Options{})
	snd := &tracks{}
	b := New(strip, snd, ModesFromConfig(config.Default().Modes), opts)
	b.Shot().Sleep = func(time.Duration) {}
	return b, snd, strip, sim
}

// settle runs the lights for d after from.
func settle(b *Blaster, from, d time.Duration) time.Duration {
	now := from
	for now < from+d {
		now += time.Millisecond
		b.Update(now)
	}
	return now
}

func TestPowerUpOnce(t *testing.T) {
	b, snd, _, _ := newBlaster(t, Options{})
	b.Update(0)
	b.Update(time.Millisecond)
	b.PowerUp()
	assert.Equal(t, []int{audio.TrackStartUp}, snd.played)
}

func TestFireAlternatesAndEmpties(t *testing.T) {
	b, snd, strip, _ := newBlaster(t, Options{})
	b.PowerUp()
	snd.played = nil

	now := time.Duration(0)
	for i := 0; i < 10; i++ {
		require.True(t, b.Fire(now), "shot %d", i)
		assert.True(t, strip.Pixels().IsSolid(model.White))
		now = settle(b, now, 3*time.Second)
		assert.True(t, strip.Pixels().IsSolid(model.Black))
	}
	assert.Equal(t, []int{4, 3, 4, 3, 4, 3, 4, 3, 4, 3}, snd.played)
	assert.True(t, b.Mode().Clip.IsEmpty())

	snd.played = nil
	assert.False(t, b.Fire(now))
	assert.Equal(t, []int{audio.TrackEmpty}, snd.played)
	assert.True(t, strip.Pixels().IsSolid(model.Black))
	assert.Equal(t, 10, b.Shots())
}

func TestLongPressSwitchesMode(t *testing.T) {
	b, snd, strip, _ := newBlaster(t, Options{})
	b.Fire(0)
	b.Fire(time.Millisecond)
	snd.played = nil

	assert.True(t, b.HandleEvent(trigger.LongPress, 10*time.Millisecond))
	assert.Equal(t, "stun", b.Mode().Name)
	assert.Equal(t, []int{audio.TrackChangeMode}, snd.played)
	for _, m := range b.modes {
		assert.True(t, m.Clip.IsFull(), m.Name)
	}
	start, target := b.Shot().Colors()
	assert.Equal(t, model.Yellow, start)
	assert.Equal(t, model.White, target)

	snd.played = nil
	assert.True(t, b.HandleEvent(trigger.ShortPress, 20*time.Millisecond))
	assert.Equal(t, []int{6}, snd.played)
	assert.True(t, strip.Pixels().IsSolid(model.White))

	b.NextMode()
	assert.Equal(t, "fire", b.Mode().Name)
}

func TestIgnoredEvents(t *testing.T) {
	b, snd, _, _ := newBlaster(t, Options{})
	assert.False(t, b.HandleEvent(trigger.None, 0))
	assert.False(t, b.HandleEvent(trigger.HoldPress, 0))
	assert.Empty(t, snd.played)

	b.SetMode(7)
	assert.Equal(t, "fire", b.Mode().Name)
}

func TestAudioErrorsDoNotStopFire(t *testing.T) {
	b, snd, strip, _ := newBlaster(t, Options{})
	snd.err = errors.New("no card")
	assert.True(t, b.Fire(0))
	assert.True(t, strip.Pixels().IsSolid(model.White))
}

func TestChainAfterShot(t *testing.T) {
	chain := pattern.NewPulse("sweep", pattern.PulseConfig{Color: model.Blue, Width: 1})
	var switched []string
	b, _, strip, _ := newBlaster(t, Options{
		Chain: chain,
		Hooks: pattern.Hooks{OnSwitch: func(name string) { switched = append(switched, name) }},
	})

	b.Fire(0)
	now := time.Duration(0)
	for !chain.Active() {
		now += time.Millisecond
		b.Update(now)
		require.Less(t, now, 5*time.Second)
	}
	assert.False(t, b.Shot().Active())
	assert.Equal(t, []string{"shot", "sweep"}, switched)

	settle(b, now, time.Second)
	assert.False(t, b.Player().Active())
	assert.True(t, strip.Pixels().IsSolid(model.Black))
}

func TestFireInterruptsChain(t *testing.T) {
	chain := pattern.NewPulse("sweep", pattern.PulseConfig{Color: model.Blue, Width: 1})
	b, _, strip, _ := newBlaster(t, Options{Chain: chain})
	chain.Activate(strip, 0)
	b.Player().Activate(chain, 0)
	b.Update(pattern.PulseInterval)

	b.Fire(30 * time.Millisecond)
	assert.False(t, chain.Active())
	assert.Same(t, b.Shot(), b.Player().Current())
}

func TestFlashHoldOption(t *testing.T) {
	b, _, _, _ := newBlaster(t, Options{FlashHold: 40 * time.Millisecond})
	var slept time.Duration
	b.Shot().Sleep = func(d time.Duration) { slept += d }
	b.Fire(0)
	assert.Equal(t, 40*time.Millisecond, slept)

	b.NextMode()
	b.Fire(time.Second)
	assert.Equal(t, 80*time.Millisecond, slept)
}

func TestModeFlashHold(t *testing.T) {
	cms := config.Default().Modes
	cms[1].FlashHoldMs = 30
	b := New(led.NewStrip(4, led.NewSim(), led.Options{}), &tracks{}, ModesFromConfig(cms), Options{})
	var slept []time.Duration
	b.Shot().Sleep = func(d time.Duration) { slept = append(slept, d) }

	b.Fire(0)
	b.NextMode()
	b.Fire(time.Second)
	assert.Equal(t, []time.Duration{config.DefaultFlashHold, 30 * time.Millisecond}, slept)
}

func TestModeEmptyTrack(t *testing.T) {
	cms := config.Default().Modes
	cms[0].Clip = 1
	cms[0].EmptyTrack = 9
	snd := &tracks{}
	b := New(led.NewStrip(4, led.NewSim(), led.Options{}), snd, ModesFromConfig(cms), Options{})
	b.Shot().Sleep = func(time.Duration) {}

	assert.True(t, b.Fire(0))
	assert.False(t, b.Fire(time.Second))
	assert.Equal(t, []int{3, 9}, snd.played)
	assert.Equal(t, audio.TrackEmpty, b.modes[1].Clip.Tracks.Empty)
}

func TestNewPattern(t *testing.T) {
	for _, p := range config.Default().Patterns {
		pat, err := NewPattern(p)
		require.NoError(t, err)
		assert.Equal(t, p.Name, pat.Name())
	}
	_, err := NewPattern(config.Pattern{Name: "x", Kind: "strobe"})
	assert.Error(t, err)

	shot, err := NewPattern(config.Pattern{Name: "s", Kind: "shot", Start: model.Red, Target: model.Blue, IntervalMs: 8})
	require.NoError(t, err)
	assert.Equal(t, 8*time.Millisecond, shot.(*pattern.Shot).Interval())

	reg, err := NewRegistry(config.Default().Patterns)
	require.NoError(t, err)
	assert.Equal(t, []string{"charge", "sweep"}, reg.List())
	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, pattern.ErrUnknownPattern)
}

type scripted struct {
	pressed func(now time.Duration) bool
	now     *time.Duration
}

func (s scripted) Pressed() (bool, error) { return s.pressed(*s.now), nil }

func TestLooperStep(t *testing.T) {
	b, snd, strip, _ := newBlaster(t, Options{})
	var now time.Duration
	src := scripted{now: &now, pressed: func(at time.Duration) bool {
		return at >= 100*time.Millisecond && at < 250*time.Millisecond
	}}
	l := NewLooper(b, src, nil, 0)
	assert.Equal(t, DefaultLoopInterval, l.Interval)

	var events []trigger.Event
	for now = 0; now < 400*time.Millisecond; now += time.Millisecond {
		if ev := l.Step(now); ev != trigger.None {
			events = append(events, ev)
		}
	}
	assert.Equal(t, []trigger.Event{trigger.ShortPress}, events)
	assert.Equal(t, []int{audio.TrackStartUp, 4}, snd.played)
	assert.Equal(t, 1, b.Shots())
	assert.False(t, strip.Pixels().IsSolid(model.White))
}

type broken struct{}

func (broken) Pressed() (bool, error) { return false, errors.New("line gone") }

func TestLooperSurvivesTriggerErrors(t *testing.T) {
	b, _, _, _ := newBlaster(t, Options{})
	l := NewLooper(b, broken{}, trigger.NewClassifier(0), time.Millisecond)
	for i := 0; i < 5; i++ {
		assert.Equal(t, trigger.None, l.Step(time.Duration(i)*time.Millisecond))
	}
}

func TestLooperRunStopsOnCancel(t *testing.T) {
	b, snd, _, _ := newBlaster(t, Options{})
	l := NewLooper(b, nil, nil, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("looper did not stop")
	}
	assert.Equal(t, []int{audio.TrackStartUp}, snd.played)
}
