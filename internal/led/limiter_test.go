package led

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-blaster/model"
)

func TestLimitBrightnessBudgetClamp(t *testing.T) {
	// 30 white LEDs draw roughly 6W unscaled; cap at 5V/500mA = 2.5W.
	fb := model.NewFrameBuffer(30)
	fb.Fill(model.White)
	p := PowerLimit{Volts: 5, MilliAmps: 500}

	b := LimitBrightness(fb, 255, p)
	assert.Less(t, b, uint8(255))
	assert.LessOrEqual(t, FrameMW(fb)*float64(b)/256, 2500.0)
}

func TestLimitBrightnessUnderBudget(t *testing.T) {
	fb := model.NewFrameBuffer(1)
	fb.Fill(model.Red)
	assert.Equal(t, uint8(200), LimitBrightness(fb, 200, PowerLimit{Volts: 5, MilliAmps: 500}))
	assert.Equal(t, uint8(200), LimitBrightness(fb, 200, PowerLimit{}))
}

func TestStripAppliesPowerLimit(t *testing.T) {
	drv := NewSim()
	s := NewStrip(30, drv, Options{Power: PowerLimit{Volts: 5, MilliAmps: 500}})
	s.Pixels().Fill(model.White)
	s.Show()

	out := drv.Last()
	assert.Less(t, out[0], uint8(255))
	assert.Equal(t, model.White, s.Pixels()[0])
}
