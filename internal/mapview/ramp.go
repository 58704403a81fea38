package mapview

import "github.com/sells-group/gridscout/internal/model"

// Ramp maps a parcel score to a display color on a clamped linear
// red-to-green ramp. The ramp is intentionally simple and not
// perceptually uniform; callers needing an accurate visual heat encoding
// should treat it as an approximation. The multiplier is a tuning
// default, kept configurable rather than baked in.
type Ramp struct {
	Multiplier float64
	Blue       uint8
	Alpha      uint8
}

// DefaultRamp saturates to full green at score 255/12 ≈ 21.25.
var DefaultRamp = Ramp{Multiplier: 12, Blue: 60, Alpha: 160}

// Color derives the display color for a score. Red decreases and green
// increases monotonically with score; both clamp at the [0, 255] ends.
func (r Ramp) Color(score float64) model.RGBA {
	return model.RGBA{
		R: clampChannel(255 - score*r.Multiplier),
		G: clampChannel(score * r.Multiplier),
		B: r.Blue,
		A: r.Alpha,
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
