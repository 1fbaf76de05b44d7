package trigger

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIO reads a switch wired between a GPIO line and ground.
type GPIO struct {
	line *gpiocdev.Line
}

// NewGPIO requests offset on chip as an active-low input with the internal
// pull-up enabled.
func NewGPIO(chip string, offset int) (*GPIO, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithConsumer("blaster-trigger"),
	)
	if err != nil {
		return nil, fmt.Errorf("request %s:%d: %w", chip, offset, err)
	}
	return &GPIO{line: line}, nil
}

func (g *GPIO) Pressed() (bool, error) {
	if g.line == nil {
		return false, fmt.Errorf("gpio trigger closed")
	}
	v, err := g.line.Value()
	if err != nil {
		return false, fmt.Errorf("read trigger: %w", err)
	}
	return v == 1, nil
}

func (g *GPIO) Close() error {
	if g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	return err
}
