package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tarm/serial"
)

// DFPlayer Mini serial commands.
const (
	CmdVolume         byte = 0x06
	CmdPlayFromFolder byte = 0x12
)

const (
	frameStart   byte = 0x7E
	frameVersion byte = 0xFF
	frameLength  byte = 0x06
	frameEnd     byte = 0xEF
	// FrameSize is the length of every command frame.
	FrameSize = 10
	// DFPlayerBaud is the module's fixed serial speed.
	DFPlayerBaud = 9600
)

// Frame encodes a command with no feedback request.
func Frame(cmd byte, param uint16) [FrameSize]byte {
	f := [FrameSize]byte{
		frameStart, frameVersion, frameLength, cmd, 0x00,
		byte(param >> 8), byte(param), 0, 0, frameEnd,
	}
	var sum uint16
	for _, b := range f[1:7] {
		sum += uint16(b)
	}
	sum = -sum
	f[7] = byte(sum >> 8)
	f[8] = byte(sum)
	return f
}

// DFPlayer drives a DFPlayer Mini over a serial link.
type DFPlayer struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// OpenDFPlayer opens the serial port and sets the initial volume.
func OpenDFPlayer(port string, volume int) (*DFPlayer, error) {
	sp, err := serial.OpenPort(&serial.Config{Name: port, Baud: DFPlayerBaud, ReadTimeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open dfplayer %s: %w", port, err)
	}
	d := NewDFPlayer(sp)
	if err := d.SetVolume(volume); err != nil {
		sp.Close()
		return nil, err
	}
	log.Info().Str("port", port).Int("volume", clampVolume(volume)).Msg("dfplayer ready")
	return d, nil
}

// NewDFPlayer writes commands to w.
func NewDFPlayer(w io.WriteCloser) *DFPlayer {
	return &DFPlayer{w: w}
}

func (d *DFPlayer) send(cmd byte, param uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return fmt.Errorf("dfplayer closed")
	}
	f := Frame(cmd, param)
	if _, err := d.w.Write(f[:]); err != nil {
		return fmt.Errorf("dfplayer cmd 0x%02x: %w", cmd, err)
	}
	return nil
}

// PlayTrack plays NNNN.mp3 from the card's mp3 folder.
func (d *DFPlayer) PlayTrack(n int) error {
	if n < 1 || n > 9999 {
		return fmt.Errorf("track %d out of range", n)
	}
	return d.send(CmdPlayFromFolder, uint16(n))
}

func (d *DFPlayer) SetVolume(v int) error {
	return d.send(CmdVolume, uint16(clampVolume(v)))
}

func (d *DFPlayer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	err := d.w.Close()
	d.w = nil
	return err
}
