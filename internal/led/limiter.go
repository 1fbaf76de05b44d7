package led

import "github.com/coreman2200/funtimes-blaster/model"

// Per-channel draw of a WS2812 at full scale, in milliwatts at 5V.
const (
	redMW   = 16 * 5
	greenMW = 11 * 5
	blueMW  = 15 * 5
	darkMW  = 1 * 5
)

// PowerLimit caps the strip's estimated draw.
// Zero Volts or MilliAmps disables the cap.
type PowerLimit struct {
	Volts     float64
	MilliAmps float64
}

func (p PowerLimit) maxMW() float64 {
	return p.Volts * p.MilliAmps
}

// FrameMW estimates the unscaled draw of a frame in milliwatts.
func FrameMW(fb model.FrameBuffer) float64 {
	var total uint32
	for _, px := range fb {
		total += uint32(px.R) * redMW
		total += uint32(px.G) * greenMW
		total += uint32(px.B) * blueMW
	}
	return float64(total>>8) + float64(len(fb)*darkMW)
}

// LimitBrightness returns the largest brightness <= requested that keeps the
// frame inside the power budget.
func LimitBrightness(fb model.FrameBuffer, requested uint8, p PowerLimit) uint8 {
	budget := p.maxMW()
	if budget <= 0 || requested == 0 {
		return requested
	}
	want := FrameMW(fb) * float64(requested) / 256
	if want <= budget {
		return requested
	}
	scaled := float64(requested) * budget / want
	if scaled < 1 {
		return 1
	}
	return uint8(scaled)
}
