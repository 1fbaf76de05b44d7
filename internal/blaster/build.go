package blaster

import (
	"fmt"

	"github.com/coreman2200/funtimes-blaster/internal/config"
	"github.com/coreman2200/funtimes-blaster/internal/pattern"
)

// NewPattern builds the effect described by p.
func NewPattern(p config.Pattern) (pattern.Pattern, error) {
	switch p.Kind {
	case "shot":
		return pattern.NewShot(p.Name, pattern.ShotConfig{
			Start:     p.Start,
			Target:    p.Target,
			Interval:  p.Interval(),
			FlashHold: p.FlashHold(),
		}), nil
	case "pulse":
		return pattern.NewPulse(p.Name, pulseConfig(p)), nil
	case "repeating":
		return pattern.NewRepeatingPulse(p.Name, pattern.RepeatingConfig{
			PulseConfig:  pulseConfig(p),
			Repeats:      p.Repeats,
			Spacing:      p.Spacing,
			TrailingFade: p.TrailingFade,
		}), nil
	}
	return nil, fmt.Errorf("pattern %q: unknown kind %q", p.Name, p.Kind)
}

func pulseConfig(p config.Pattern) pattern.PulseConfig {
	return pattern.PulseConfig{
		Color:    p.Color,
		Width:    p.Width,
		Mirrored: p.Mirrored,
		Interval: p.Interval(),
	}
}

// NewRegistry builds every configured pattern.
func NewRegistry(ps []config.Pattern) (*pattern.Registry, error) {
	reg := pattern.NewRegistry()
	for _, p := range ps {
		pat, err := NewPattern(p)
		if err != nil {
			return nil, err
		}
		reg.Register(pat)
	}
	return reg, nil
}
