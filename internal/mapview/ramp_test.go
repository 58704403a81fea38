package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/gridscout/internal/model"
)

func TestRamp_Endpoints(t *testing.T) {
	assert.Equal(t, model.RGBA{R: 255, G: 0, B: 60, A: 160}, DefaultRamp.Color(0))

	// 255/12 = 21.25 saturates both channels.
	assert.Equal(t, model.RGBA{R: 0, G: 255, B: 60, A: 160}, DefaultRamp.Color(21.25))
	assert.Equal(t, model.RGBA{R: 0, G: 255, B: 60, A: 160}, DefaultRamp.Color(100))
}

func TestRamp_Midpoint(t *testing.T) {
	c := DefaultRamp.Color(10)
	assert.Equal(t, uint8(135), c.R)
	assert.Equal(t, uint8(120), c.G)
	assert.Equal(t, uint8(60), c.B)
	assert.Equal(t, uint8(160), c.A)
}

func TestRamp_Monotonic(t *testing.T) {
	prev := DefaultRamp.Color(0)
	for score := 0.5; score <= 25; score += 0.5 {
		c := DefaultRamp.Color(score)
		assert.LessOrEqual(t, c.R, prev.R, "red must not increase at score %v", score)
		assert.GreaterOrEqual(t, c.G, prev.G, "green must not decrease at score %v", score)
		prev = c
	}
}

func TestRamp_NegativeScoreClamps(t *testing.T) {
	c := DefaultRamp.Color(-5)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
}
