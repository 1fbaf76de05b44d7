package led

import (
	"fmt"
	"io"
)

// Sim records frames in memory, useful for headless runs and tests.
// When Out is set, each frame is also summarized there.
type Sim struct {
	Count  int
	Keep   int // frames of history to retain; zero keeps only the last
	Out    io.Writer
	frames [][]byte
	closed bool
}

func NewSim() *Sim { return &Sim{} }

func (d *Sim) Write(rgb []byte) error {
	if d.closed {
		return fmt.Errorf("sim driver closed")
	}
	d.Count++
	frame := append([]byte(nil), rgb...)
	if d.Keep <= 0 {
		d.frames = append(d.frames[:0], frame)
	} else {
		d.frames = append(d.frames, frame)
		if len(d.frames) > d.Keep {
			d.frames = d.frames[len(d.frames)-d.Keep:]
		}
	}
	if d.Out != nil {
		fmt.Fprintf(d.Out, "[frame %04d] %s\n", d.Count, summarize(rgb))
	}
	return nil
}

func (d *Sim) Close() error {
	d.closed = true
	return nil
}

// Last returns the most recent frame, or nil.
func (d *Sim) Last() []byte {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// History returns the retained frames, oldest first.
func (d *Sim) History() [][]byte { return d.frames }

// summarize renders a frame as one glyph per LED: '#' bright, '+' dim, '.' dark.
func summarize(rgb []byte) string {
	out := make([]byte, 0, len(rgb)/3)
	for i := 0; i+2 < len(rgb); i += 3 {
		m := rgb[i]
		if rgb[i+1] > m {
			m = rgb[i+1]
		}
		if rgb[i+2] > m {
			m = rgb[i+2]
		}
		switch {
		case m >= 128:
			out = append(out, '#')
		case m > 0:
			out = append(out, '+')
		default:
			out = append(out, '.')
		}
	}
	return string(out)
}
