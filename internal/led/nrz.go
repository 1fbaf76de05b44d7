package led

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-blaster/model"
)

// RefreshRate is the WS2812 bit rate in kHz.
const RefreshRate physic.Frequency = 800

// DefaultSPIFreq drives three SPI bits per NRZ bit, plus headroom.
const DefaultSPIFreq = ((RefreshRate * 3) + 100) * physic.KiloHertz

// NRZ drives a WS2812 strip through an SPI port using nrzled.
type NRZ struct {
	dev  *nrzled.Dev
	port spi.Port
}

// NewNRZ initializes periph, opens the named SPI port ("" picks the first)
// and binds an nrzled encoder to it.
func NewNRZ(port string, count int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}
	n, err := NewNRZPort(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return n, nil
}

// NewNRZPort binds nrzled to an already opened port.
func NewNRZPort(p spi.Port, count int, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = DefaultSPIFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	log.Debug().Str("dev", d.String()).Int("count", count).Msg("nrzled ready")
	return &NRZ{dev: d, port: p}, nil
}

func (n *NRZ) Write(rgb []byte) error {
	if _, err := n.dev.Write(rgb); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (n *NRZ) Close() error {
	if err := n.dev.Halt(); err != nil {
		return fmt.Errorf("nrzled halt: %w", err)
	}
	if c, ok := n.port.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Drawer adapts any periph display.Drawer into a Driver by treating the frame
// as a 1xN image.
type Drawer struct {
	d     display.Drawer
	count int
}

func NewDrawer(d display.Drawer, count int) *Drawer {
	return &Drawer{d: d, count: count}
}

// NewConsole prints frames as ANSI blocks on stdout. It is the fallback when
// no SPI port is available.
func NewConsole(count int) *Drawer {
	return NewDrawer(screen.New(count), count)
}

func (c *Drawer) Write(rgb []byte) error {
	fb := model.NewFrameBuffer(len(rgb) / 3)
	for i := range fb {
		fb[i] = model.RGB(rgb[i*3], rgb[i*3+1], rgb[i*3+2])
	}
	if err := c.d.Draw(c.d.Bounds(), fb.Image(), image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

func (c *Drawer) Close() error {
	return c.d.Halt()
}
