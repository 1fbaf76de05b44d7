package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-blaster/model"
)

type Strip struct {
	Driver     string  `yaml:"driver"`   // "spi" | "console" | "term" | "sim"
	Port       string  `yaml:"port"`     // spireg name, empty for the first port
	SpeedHz    int     `yaml:"speed_hz"` // e.g. 2400000
	Count      int     `yaml:"count"`
	Brightness uint8   `yaml:"brightness"`
	Volts      float64 `yaml:"volts"`
	MilliAmps  float64 `yaml:"milliamps"`
}

type Trigger struct {
	Source      string `yaml:"source"` // "gpio" | "keys" | "remote" | "none"
	Chip        string `yaml:"chip"`   // e.g. gpiochip0
	Line        int    `yaml:"line"`
	DebounceMs  int    `yaml:"debounce_ms"`
	LongPressMs int    `yaml:"long_press_ms"`
	HoldMs      int    `yaml:"hold_ms"`
}

type Audio struct {
	Driver string `yaml:"driver"` // "dfplayer" | "tones" | "none"
	Port   string `yaml:"port"`   // e.g. /dev/ttyS0
	Volume int    `yaml:"volume"` // 0-30
	Dir    string `yaml:"dir,omitempty"`
}

// DefaultFlashHold is the pause after a mode's muzzle flash.
const DefaultFlashHold = 100 * time.Millisecond

// Mode is one selector position of the blaster.
type Mode struct {
	Name   string      `yaml:"name"`
	Start  model.Pixel `yaml:"start"`
	Target model.Pixel `yaml:"target"`
	Clip   int         `yaml:"clip"`
	Tracks [2]int      `yaml:"tracks,flow"`
	// EmptyTrack plays on a trigger pull with an empty clip; 0 is the stock
	// empty sound.
	EmptyTrack int `yaml:"empty_track,omitempty"`
	// FlashHoldMs is the pause after the flash; 0 is DefaultFlashHold and a
	// negative value disables it.
	FlashHoldMs int `yaml:"flash_hold_ms,omitempty"`
}

func (m Mode) FlashHold() time.Duration {
	switch {
	case m.FlashHoldMs < 0:
		return 0
	case m.FlashHoldMs == 0:
		return DefaultFlashHold
	}
	return time.Duration(m.FlashHoldMs) * time.Millisecond
}

// Pattern describes a named effect.
type Pattern struct {
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"` // "shot" | "pulse" | "repeating"
	Start        model.Pixel `yaml:"start,omitempty"`
	Target       model.Pixel `yaml:"target,omitempty"`
	Color        model.Pixel `yaml:"color,omitempty"`
	Width        int         `yaml:"width,omitempty"`
	Repeats      int         `yaml:"repeats,omitempty"`
	Spacing      int         `yaml:"spacing,omitempty"`
	Mirrored     bool        `yaml:"mirrored,omitempty"`
	TrailingFade bool        `yaml:"trailing_fade,omitempty"`
	IntervalMs   int         `yaml:"interval_ms,omitempty"`
	FlashHoldMs  int         `yaml:"flash_hold_ms,omitempty"`
}

// Interval is the frame period, zero for the pattern's default.
func (p Pattern) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

func (p Pattern) FlashHold() time.Duration {
	return time.Duration(p.FlashHoldMs) * time.Millisecond
}

type Preview struct {
	Addr string `yaml:"addr,omitempty"` // e.g. :8080, empty disables
}

type Config struct {
	Strip   Strip   `yaml:"strip"`
	Trigger Trigger `yaml:"trigger"`
	Audio   Audio   `yaml:"audio"`

	Modes    []Mode    `yaml:"modes"`
	Patterns []Pattern `yaml:"patterns,omitempty"`
	// Chain names a pattern played after every shot completes.
	Chain string `yaml:"chain,omitempty"`

	LoopMs  int     `yaml:"loop_ms"`
	Preview Preview `yaml:"preview,omitempty"`
}

var ErrInvalid = errors.New("invalid config")

// Default matches the stock prop: one barrel LED, fire and stun modes with
// ten shots each.
func Default() *Config {
	return &Config{
		Strip: Strip{
			Driver:     "spi",
			SpeedHz:    2400000,
			Count:      1,
			Brightness: 75,
			Volts:      5,
			MilliAmps:  500,
		},
		Trigger: Trigger{
			Source:      "gpio",
			Chip:        "gpiochip0",
			Line:        3,
			DebounceMs:  25,
			LongPressMs: 1000,
			HoldMs:      500,
		},
		Audio: Audio{
			Driver: "dfplayer",
			Port:   "/dev/ttyS0",
			Volume: 25,
		},
		Modes: []Mode{
			{Name: "fire", Start: model.Red, Target: model.Orange, Clip: 10, Tracks: [2]int{3, 4}},
			{Name: "stun", Start: model.Yellow, Target: model.White, Clip: 10, Tracks: [2]int{5, 6}},
		},
		Patterns: []Pattern{
			{Name: "sweep", Kind: "pulse", Color: model.Orange, Width: 2},
			{Name: "charge", Kind: "repeating", Color: model.Blue, Width: 1, Repeats: 3, Spacing: 1, Mirrored: true, TrailingFade: true},
		},
		LoopMs: 1,
	}
}

// LoopInterval is the host loop period.
func (c *Config) LoopInterval() time.Duration {
	if c.LoopMs <= 0 {
		return time.Millisecond
	}
	return time.Duration(c.LoopMs) * time.Millisecond
}

// Pattern looks up a pattern by name.
func (c *Config) Pattern(name string) (Pattern, bool) {
	for _, p := range c.Patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

func (c *Config) Validate() error {
	switch c.Strip.Driver {
	case "spi", "console", "term", "sim":
	default:
		return fmt.Errorf("%w: strip driver %q", ErrInvalid, c.Strip.Driver)
	}
	if c.Strip.Count < 0 {
		return fmt.Errorf("%w: strip count %d", ErrInvalid, c.Strip.Count)
	}
	switch c.Trigger.Source {
	case "gpio", "keys", "none":
	case "remote":
		if c.Preview.Addr == "" {
			return fmt.Errorf("%w: remote trigger needs preview.addr", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: trigger source %q", ErrInvalid, c.Trigger.Source)
	}
	switch c.Audio.Driver {
	case "dfplayer", "tones", "none":
	default:
		return fmt.Errorf("%w: audio driver %q", ErrInvalid, c.Audio.Driver)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 30 {
		return fmt.Errorf("%w: volume %d not in 0-30", ErrInvalid, c.Audio.Volume)
	}
	if len(c.Modes) == 0 {
		return fmt.Errorf("%w: no modes", ErrInvalid)
	}
	for _, m := range c.Modes {
		if m.Clip < 1 {
			return fmt.Errorf("%w: mode %q clip %d", ErrInvalid, m.Name, m.Clip)
		}
	}
	seen := map[string]bool{}
	for _, p := range c.Patterns {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("%w: pattern name %q missing or repeated", ErrInvalid, p.Name)
		}
		seen[p.Name] = true
		switch p.Kind {
		case "shot", "pulse", "repeating":
		default:
			return fmt.Errorf("%w: pattern %q kind %q", ErrInvalid, p.Name, p.Kind)
		}
	}
	if c.Chain != "" && !seen[c.Chain] {
		return fmt.Errorf("%w: chain %q is not a pattern", ErrInvalid, c.Chain)
	}
	return nil
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
