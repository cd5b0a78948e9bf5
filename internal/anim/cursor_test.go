package anim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/driftfield/internal/anim"
)

func TestSpringConversion(t *testing.T) {
	assert.InDelta(t, math.Sqrt(1000), anim.DotSpring.AngularFrequency(), 1e-9)
	assert.InDelta(t, 28/(2*math.Sqrt(250)), anim.DotSpring.DampingRatio(), 1e-9)
	assert.Greater(t, anim.GlowSpring.DampingRatio(), 1.0, "glow is overdamped")
}

func TestCursorSnapsThenSettles(t *testing.T) {
	c := anim.NewCursor(60)
	assert.False(t, c.Visible())

	c.Target(100, 100)
	for _, p := range c.Positions() {
		assert.Equal(t, [2]float64{100, 100}, p)
	}

	c.Target(200, 50)
	c.Step()
	pos := c.Positions()
	assert.Greater(t, pos[0][0], pos[1][0], "the stiffer dot leads the ring")

	for i := 0; i < 600; i++ {
		c.Step()
	}
	for _, p := range c.Positions() {
		assert.InDelta(t, 200, p[0], 0.5)
		assert.InDelta(t, 50, p[1], 0.5)
	}
}

func TestCursorHiddenDoesNotDraw(t *testing.T) {
	c := anim.NewCursor(60)
	s := &countingSurface{w: 100, h: 100}
	c.Draw(s, palette0, palette0)
	assert.Zero(t, s.circles+s.lines)

	c.Target(10, 10)
	c.Draw(s, palette0, palette0)
	assert.Equal(t, 1, s.circles)
	assert.Equal(t, 48, s.lines)

	c.Hide()
	c.Step()
	assert.False(t, c.Visible())
}
