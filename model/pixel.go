package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pixel is one additive RGB value on the strip.
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

var (
	Black  = Pixel{0, 0, 0}
	White  = Pixel{255, 255, 255}
	Red    = Pixel{255, 0, 0}
	Green  = Pixel{0, 128, 0}
	Blue   = Pixel{0, 0, 255}
	Yellow = Pixel{255, 255, 0}
	Purple = Pixel{128, 0, 128}
	Orange = Pixel{255, 95, 0} // darker than the web orange, reads better on WS2812
)

var named = map[string]Pixel{
	"black":  Black,
	"white":  White,
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"yellow": Yellow,
	"purple": Purple,
	"orange": Orange,
}

// RGB builds a Pixel from its channels.
func RGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// IsBlack reports whether every channel is zero.
func (p Pixel) IsBlack() bool {
	return p == Black
}

func (p Pixel) String() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// NRGBA converts to an opaque image color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

// ParseColor accepts "#rrggbb", "rrggbb", "0xrrggbb" or one of the named colors.
func ParseColor(s string) (Pixel, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if p, ok := named[v]; ok {
		return p, nil
	}
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(v, "0x")
	if len(v) != 6 {
		return Pixel{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Pixel{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// MarshalYAML writes the pixel as a hex string.
func (p Pixel) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML reads either a color string or a [r, g, b] sequence.
func (p *Pixel) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c, err := ParseColor(value.Value)
		if err != nil {
			return err
		}
		*p = c
		return nil
	case yaml.SequenceNode:
		var ch []uint8
		if err := value.Decode(&ch); err != nil {
			return fmt.Errorf("invalid color sequence: %w", err)
		}
		if len(ch) != 3 {
			return fmt.Errorf("color sequence needs 3 channels, got %d", len(ch))
		}
		*p = Pixel{R: ch[0], G: ch[1], B: ch[2]}
		return nil
	}
	return fmt.Errorf("invalid color node at line %d", value.Line)
}
