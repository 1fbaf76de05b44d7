package led

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-blaster/model"
)

// Options configure the output stage of a Strip.
type Options struct {
	// Brightness is the global output scale; zero means full brightness.
	Brightness uint8
	Power      PowerLimit
}

// Strip owns the frame buffer for one physical LED run and pushes it to a
// Driver. A strip with no LEDs or no driver keeps working logically but
// never writes anything.
type Strip struct {
	pixels model.FrameBuffer
	out    []byte
	drv    Driver
	opts   Options

	frames uint64
	err    error
}

func NewStrip(count int, drv Driver, opts Options) *Strip {
	if opts.Brightness == 0 {
		opts.Brightness = 255
	}
	s := &Strip{
		pixels: model.NewFrameBuffer(count),
		drv:    drv,
		opts:   opts,
	}
	s.out = make([]byte, 0, len(s.pixels)*3)
	if !s.Ready() {
		log.Warn().Int("count", count).Bool("driver", drv != nil).Msg("led strip not configured; output disabled")
	}
	return s
}

// Pixels is the live frame buffer. Writes become visible on the next Show.
func (s *Strip) Pixels() model.FrameBuffer { return s.pixels }

func (s *Strip) Len() int { return len(s.pixels) }

// Ready reports whether Show reaches hardware.
func (s *Strip) Ready() bool { return len(s.pixels) > 0 && s.drv != nil }

// Frames counts frames successfully written.
func (s *Strip) Frames() uint64 { return s.frames }

// Err is the last write error, if any.
func (s *Strip) Err() error { return s.err }

func (s *Strip) SetBrightness(b uint8) { s.opts.Brightness = b }

func (s *Strip) Brightness() uint8 { return s.opts.Brightness }

// Show scales the frame by brightness and the power cap and writes it out.
// The logical buffer is left untouched.
func (s *Strip) Show() {
	if !s.Ready() {
		return
	}
	b := LimitBrightness(s.pixels, s.opts.Brightness, s.opts.Power)
	s.out = s.out[:0]
	for _, p := range s.pixels {
		q := p.Scale(b)
		s.out = append(s.out, q.R, q.G, q.B)
	}
	if err := s.drv.Write(s.out); err != nil {
		if s.err == nil || s.err.Error() != err.Error() {
			log.Warn().Err(err).Msg("led write failed")
		}
		s.err = err
		return
	}
	s.err = nil
	s.frames++
}

// Clear blacks out the buffer and pushes it.
func (s *Strip) Clear() {
	s.pixels.Clear()
	s.Show()
}

// Close blanks the strip and releases the driver.
func (s *Strip) Close() error {
	if s.drv == nil {
		return nil
	}
	s.Clear()
	err := s.drv.Close()
	s.drv = nil
	return err
}
