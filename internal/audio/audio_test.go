package audio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	cases := []struct {
		name  string
		cmd   byte
		param uint16
		want  [FrameSize]byte
	}{
		{"play 3", CmdPlayFromFolder, 3, [FrameSize]byte{0x7E, 0xFF, 0x06, 0x12, 0x00, 0x00, 0x03, 0xFE, 0xE6, 0xEF}},
		{"volume 25", CmdVolume, 25, [FrameSize]byte{0x7E, 0xFF, 0x06, 0x06, 0x00, 0x00, 0x19, 0xFE, 0xDC, 0xEF}},
		{"play 300", CmdPlayFromFolder, 300, [FrameSize]byte{0x7E, 0xFF, 0x06, 0x12, 0x00, 0x01, 0x2C, 0xFE, 0xBC, 0xEF}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Frame(c.cmd, c.param))
		})
	}
}

type port struct {
	bytes.Buffer
	closed bool
	err    error
}

func (p *port) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.Buffer.Write(b)
}

func (p *port) Close() error {
	p.closed = true
	return nil
}

func TestDFPlayerWritesFrames(t *testing.T) {
	p := &port{}
	d := NewDFPlayer(p)

	require.NoError(t, d.SetVolume(99))
	require.NoError(t, d.PlayTrack(TrackFireA))

	vol := Frame(CmdVolume, MaxVolume)
	play := Frame(CmdPlayFromFolder, TrackFireA)
	assert.Equal(t, append(vol[:], play[:]...), p.Bytes())

	assert.Error(t, d.PlayTrack(0))
	assert.Error(t, d.PlayTrack(10000))

	require.NoError(t, d.Close())
	assert.True(t, p.closed)
	assert.Error(t, d.PlayTrack(1))
	assert.NoError(t, d.Close())
}

func TestDFPlayerWriteError(t *testing.T) {
	boom := errors.New("unplugged")
	d := NewDFPlayer(&port{err: boom})
	assert.ErrorIs(t, d.PlayTrack(TrackEmpty), boom)
}

func TestNop(t *testing.T) {
	var p Player = Nop{}
	assert.NoError(t, p.PlayTrack(1))
	assert.NoError(t, p.SetVolume(5))
	assert.NoError(t, p.Close())
}

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for _, smp := range buf[:k] {
			if smp[0] > peak {
				peak = smp[0]
			}
		}
		n += k
		if !ok || k == 0 {
			return n, peak
		}
	}
}

func TestTonesSynthesize(t *testing.T) {
	tn := newTones("", MaxVolume)
	var played []beep.Streamer
	tn.play = func(s beep.Streamer) { played = append(played, s) }

	require.NoError(t, tn.PlayTrack(TrackFireA))
	require.Len(t, played, 1)

	n, peak := drain(played[0])
	assert.Equal(t, sampleRate.N(DefaultTones[TrackFireA].Dur), n)
	assert.Greater(t, peak, 0.0)

	assert.Error(t, tn.PlayTrack(42))
}

func TestTonesMuted(t *testing.T) {
	tn := newTones("", 0)
	s, err := tn.Streamer(TrackStartUp)
	require.NoError(t, err)
	_, peak := drain(s)
	assert.Equal(t, 0.0, peak)
}

func TestTonesPrefersWavFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "0003.wav"))
	require.NoError(t, err)

	format := beep.Format{SampleRate: sampleRate, NumChannels: 1, Precision: 2}
	src := beep.Take(100, NewSweep(sampleRate, 440, 440, 10*time.Millisecond, 1))
	require.NoError(t, wav.Encode(f, src, format))
	require.NoError(t, f.Close())

	tn := newTones(dir, MaxVolume)
	s, err := tn.Streamer(TrackFireA)
	require.NoError(t, err)
	n, _ := drain(s)
	assert.Equal(t, 100, n)

	// tracks without a file fall back to tones
	s, err = tn.Streamer(TrackFireB)
	require.NoError(t, err)
	n, _ = drain(s)
	assert.Equal(t, sampleRate.N(DefaultTones[TrackFireB].Dur), n)
}
