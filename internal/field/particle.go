package field

import "math"

// Particle is a single point in the field.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Color   int // index into the field palette
	Opacity float64

	// Interactive marks the pointer-tracking particle. It never bounces.
	Interactive bool
}

// fadeIn raises opacity by step, never past 1.
func (p *Particle) fadeIn(step float64) {
	if p.Opacity >= 1 {
		return
	}
	p.Opacity = math.Min(1, p.Opacity+step)
}

// bounce reverses each velocity component that would carry the particle
// beyond the margin around a w x h surface.
func (p *Particle) bounce(w, h, margin float64) {
	if nx := p.X + p.VX; nx < -margin || nx > w+margin {
		p.VX = -p.VX
	}
	if ny := p.Y + p.VY; ny < -margin || ny > h+margin {
		p.VY = -p.VY
	}
}

func (p *Particle) integrate() {
	p.X += p.VX
	p.Y += p.VY
}

// Speed returns the velocity magnitude.
func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// ConnectionAlpha is the link opacity for two fully visible particles at
// distance d. It is 1 at d=0, falls linearly and is 0 from the threshold on.
func ConnectionAlpha(d, threshold float64) float64 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (threshold - d) / threshold
}

// ExpectedCount is the seeded population for a w x h surface.
func ExpectedCount(w, h int, density float64) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(float64(w) * float64(h) / density))
}
