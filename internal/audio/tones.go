package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"
)

const sampleRate = beep.SampleRate(44100)

// Tone is a synthesized stand-in for a track.
type Tone struct {
	// Freq sweeps from Freq[0] to Freq[1] over Dur.
	Freq [2]float64
	Dur  time.Duration
}

// DefaultTones approximate the blaster sound set.
var DefaultTones = map[int]Tone{
	TrackStartUp:    {Freq: [2]float64{220, 880}, Dur: 600 * time.Millisecond},
	TrackChangeMode: {Freq: [2]float64{660, 440}, Dur: 200 * time.Millisecond},
	TrackFireA:      {Freq: [2]float64{1800, 200}, Dur: 250 * time.Millisecond},
	TrackFireB:      {Freq: [2]float64{1600, 180}, Dur: 250 * time.Millisecond},
	TrackStunA:      {Freq: [2]float64{900, 1400}, Dur: 300 * time.Millisecond},
	TrackStunB:      {Freq: [2]float64{1000, 1500}, Dur: 300 * time.Millisecond},
	TrackReload:     {Freq: [2]float64{300, 600}, Dur: 400 * time.Millisecond},
	TrackEmpty:      {Freq: [2]float64{120, 120}, Dur: 120 * time.Millisecond},
}

// Tones plays tracks on the host's speaker: NNNN.wav from Dir when present,
// otherwise a synthesized sweep.
type Tones struct {
	Dir   string
	Tones map[int]Tone

	mu     sync.Mutex
	volume float64
	mixer  *beep.Mixer
	play   func(beep.Streamer)
}

// NewTones initializes the speaker.
func NewTones(dir string, volume int) (*Tones, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	t := newTones(dir, volume)
	speaker.Play(t.mixer)
	t.play = func(s beep.Streamer) {
		speaker.Lock()
		t.mixer.Add(s)
		speaker.Unlock()
	}
	return t, nil
}

func newTones(dir string, volume int) *Tones {
	t := &Tones{Dir: dir, Tones: DefaultTones, mixer: &beep.Mixer{}}
	t.play = func(s beep.Streamer) { t.mixer.Add(s) }
	t.SetVolume(volume)
	return t
}

func (t *Tones) SetVolume(v int) error {
	t.mu.Lock()
	t.volume = float64(clampVolume(v)) / MaxVolume
	t.mu.Unlock()
	return nil
}

func (t *Tones) PlayTrack(n int) error {
	s, err := t.Streamer(n)
	if err != nil {
		return err
	}
	t.play(s)
	return nil
}

// Streamer builds the sound for track n.
func (t *Tones) Streamer(n int) (beep.Streamer, error) {
	t.mu.Lock()
	vol := t.volume
	t.mu.Unlock()

	if t.Dir != "" {
		s, err := t.file(n)
		if err == nil {
			return gain(s, vol), nil
		}
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Int("track", n).Msg("track file unusable, using tone")
		}
	}
	tone, ok := t.Tones[n]
	if !ok {
		return nil, fmt.Errorf("no tone for track %d", n)
	}
	return beep.Take(sampleRate.N(tone.Dur), NewSweep(sampleRate, tone.Freq[0], tone.Freq[1], tone.Dur, vol)), nil
}

func (t *Tones) file(n int) (beep.Streamer, error) {
	f, err := os.Open(filepath.Join(t.Dir, fmt.Sprintf("%04d.wav", n)))
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode track %d: %w", n, err)
	}
	if format.SampleRate != sampleRate {
		return beep.Seq(beep.Resample(4, format.SampleRate, sampleRate, s), closer(s)), nil
	}
	return beep.Seq(s, closer(s)), nil
}

func (t *Tones) Close() error {
	speaker.Clear()
	return nil
}

// closer closes the decoder once the sequence reaches it.
func closer(s beep.StreamSeekCloser) beep.Streamer {
	return beep.Callback(func() { s.Close() })
}

func gain(s beep.Streamer, vol float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		return n, ok
	})
}

// Sweep is a sine whose frequency glides linearly with a short decay.
type Sweep struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	amp      float64
	pos      int
	phase    float64
}

func NewSweep(sr beep.SampleRate, from, to float64, dur time.Duration, amp float64) *Sweep {
	total := sr.N(dur)
	if total < 1 {
		total = 1
	}
	return &Sweep{sr: sr, from: from, to: to, total: total, amp: amp}
}

func (g *Sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		frac := float64(g.pos) / float64(g.total)
		if frac > 1 {
			frac = 1
		}
		freq := g.from + (g.to-g.from)*frac
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		sample := g.amp * 0.3 * (1 - frac) * math.Sin(g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Sweep) Err() error {
	return nil
}
