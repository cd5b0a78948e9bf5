package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/driftfield/internal/field"
)

// SpringParams describes a spring the way motion libraries usually do.
type SpringParams struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// AngularFrequency and DampingRatio convert to harmonica's parameters.
func (p SpringParams) AngularFrequency() float64 {
	return math.Sqrt(p.Stiffness / p.Mass)
}

func (p SpringParams) DampingRatio() float64 {
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

var (
	DotSpring  = SpringParams{Stiffness: 500, Damping: 28, Mass: 0.5}
	RingSpring = SpringParams{Stiffness: 150, Damping: 15, Mass: 0.8}
	GlowSpring = SpringParams{Stiffness: 80, Damping: 20, Mass: 1}
)

type follower struct {
	spring        harmonica.Spring
	x, y, vx, vy  float64
	radius, alpha float64
}

func newFollower(fps int, p SpringParams, radius, alpha float64) follower {
	return follower{
		spring: harmonica.NewSpring(harmonica.FPS(fps), p.AngularFrequency(), p.DampingRatio()),
		radius: radius,
		alpha:  alpha,
	}
}

func (f *follower) step(tx, ty float64) {
	f.x, f.vx = f.spring.Update(f.x, f.vx, tx)
	f.y, f.vy = f.spring.Update(f.y, f.vy, ty)
}

func (f *follower) snap(x, y float64) {
	f.x, f.y, f.vx, f.vy = x, y, 0, 0
}

// Cursor is a dot, ring and glow trailing the pointer on springs.
type Cursor struct {
	dot, ring, glow follower
	tx, ty          float64
	visible         bool
}

// NewCursor builds a cursor whose springs advance at fps steps per second.
// Radii are in field pixels.
func NewCursor(fps int) *Cursor {
	if fps <= 0 {
		fps = 60
	}
	return &Cursor{
		dot:  newFollower(fps, DotSpring, 6, 1),
		ring: newFollower(fps, RingSpring, 20, 0.8),
		glow: newFollower(fps, GlowSpring, 40, 0.3),
	}
}

func (c *Cursor) Visible() bool { return c.visible }

// Target sets where the springs pull. The first target after hiding snaps
// the cursor in place instead of flying in.
func (c *Cursor) Target(x, y float64) {
	if !c.visible {
		c.dot.snap(x, y)
		c.ring.snap(x, y)
		c.glow.snap(x, y)
	}
	c.tx, c.ty = x, y
	c.visible = true
}

func (c *Cursor) Hide() { c.visible = false }

// Positions returns the current dot, ring and glow centres.
func (c *Cursor) Positions() [3][2]float64 {
	return [3][2]float64{
		{c.dot.x, c.dot.y},
		{c.ring.x, c.ring.y},
		{c.glow.x, c.glow.y},
	}
}

func (c *Cursor) Step() {
	if !c.visible {
		return
	}
	c.dot.step(c.tx, c.ty)
	c.ring.step(c.tx, c.ty)
	c.glow.step(c.tx, c.ty)
}

const ringSegments = 24

// Draw paints the cursor over whatever the field drew this frame.
func (c *Cursor) Draw(s field.Surface, primary, secondary colorful.Color) {
	if !c.visible || s == nil {
		return
	}
	outline(s, &c.glow, secondary)
	outline(s, &c.ring, secondary)
	s.Circle(c.dot.x, c.dot.y, c.dot.radius, primary, c.dot.alpha)
}

func outline(s field.Surface, f *follower, col colorful.Color) {
	step := 2 * math.Pi / ringSegments
	for i := 0; i < ringSegments; i++ {
		a0, a1 := float64(i)*step, float64(i+1)*step
		s.Line(
			f.x+f.radius*math.Cos(a0), f.y+f.radius*math.Sin(a0),
			f.x+f.radius*math.Cos(a1), f.y+f.radius*math.Sin(a1),
			1, col, f.alpha,
		)
	}
}
