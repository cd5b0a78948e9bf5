package field

import (
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const noInteraction = -1

// Stats summarises the most recent frame.
type Stats struct {
	Particles int
	Links     int
	FrameTime time.Duration
}

// Link is one connection line between two particles.
type Link struct {
	I, J  int
	Alpha float64
}

// Field is the simulation state for one mounted animation.
type Field struct {
	cfg     Config
	palette []colorful.Color
	rng     *rand.Rand

	width, height int
	particles     []Particle

	// interaction indexes the pointer particle in particles, or noInteraction.
	interaction int
	pointerDown bool

	grid  *grid
	stats Stats
}

// New builds an empty field. Call Resize before the first frame.
func New(cfg Config, seed int64) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := ParsePalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	return &Field{
		cfg:         cfg,
		palette:     palette,
		rng:         rand.New(rand.NewSource(seed)),
		interaction: noInteraction,
		grid:        newGrid(cfg.LinkDistance),
	}, nil
}

func (f *Field) Config() Config { return f.cfg }

func (f *Field) Size() (int, int) { return f.width, f.height }

func (f *Field) Len() int { return len(f.particles) }

func (f *Field) Stats() Stats { return f.stats }

func (f *Field) PointerIsDown() bool { return f.pointerDown }

// SetGlow toggles the halo drawn around each particle.
func (f *Field) SetGlow(on bool) { f.cfg.Glow = on }

// Palette returns the parsed palette colors.
func (f *Field) Palette() []colorful.Color { return f.palette }

// Particles returns a copy of the current population.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Interaction returns the pointer-tracking particle, if one exists.
func (f *Field) Interaction() (Particle, bool) {
	if f.interaction == noInteraction {
		return Particle{}, false
	}
	return f.particles[f.interaction], true
}

// Resize sets new surface dimensions and reseeds the whole population.
// Negative dimensions are clamped to zero.
func (f *Field) Resize(w, h int) {
	f.width, f.height = max(w, 0), max(h, 0)
	f.interaction = noInteraction
	n := ExpectedCount(f.width, f.height, f.cfg.Density)
	f.particles = make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		x := f.rng.Float64() * float64(f.width)
		y := f.rng.Float64() * float64(f.height)
		f.particles = append(f.particles, f.newParticle(x, y))
	}
	f.stats.Particles = len(f.particles)
}

// Reveal makes every particle fully opaque, skipping the fade-in.
func (f *Field) Reveal() {
	for i := range f.particles {
		f.particles[i].Opacity = 1
	}
}

// newParticle returns an ordinary particle at (x, y) that starts invisible.
func (f *Field) newParticle(x, y float64) Particle {
	v := f.cfg.MaxSpeed
	return Particle{
		X:      x,
		Y:      y,
		VX:     (f.rng.Float64() - 0.5) * v,
		VY:     (f.rng.Float64() - 0.5) * v,
		Radius: f.cfg.MinRadius + f.rng.Float64()*(f.cfg.MaxRadius-f.cfg.MinRadius),
		Color:  f.rng.Intn(len(f.palette)),
	}
}

// Step advances every particle by one frame without drawing.
func (f *Field) Step() {
	for i := range f.particles {
		f.advance(&f.particles[i])
	}
}

func (f *Field) advance(p *Particle) {
	p.fadeIn(f.cfg.FadeStep)
	if p.Interactive {
		return
	}
	p.bounce(float64(f.width), float64(f.height), f.cfg.Margin)
	p.integrate()
}

// Links calls fn for every unordered pair closer than the link distance,
// with the pair's link alpha scaled by both opacities.
func (f *Field) Links(fn func(i, j int, alpha float64)) {
	threshold := f.cfg.LinkDistance
	visit := func(i, j int) {
		a, b := &f.particles[i], &f.particles[j]
		d := math.Hypot(a.X-b.X, a.Y-b.Y)
		if d >= threshold {
			return
		}
		fn(i, j, ConnectionAlpha(d, threshold)*a.Opacity*b.Opacity*f.cfg.LinkAlpha)
	}
	if f.cfg.UseGrid {
		f.grid.build(f.particles, f.width, f.height, f.cfg.Margin)
		f.grid.pairs(visit)
		return
	}
	for i := 0; i < len(f.particles); i++ {
		for j := i + 1; j < len(f.particles); j++ {
			visit(i, j)
		}
	}
}

// AppendLinks appends the current links to dst in Links order.
func (f *Field) AppendLinks(dst []Link) []Link {
	f.Links(func(i, j int, alpha float64) {
		dst = append(dst, Link{I: i, J: j, Alpha: alpha})
	})
	return dst
}

// Draw paints the current state without advancing it.
func (f *Field) Draw(s Surface) {
	if !f.beginFrame(s) {
		return
	}
	for i := range f.particles {
		f.drawParticle(s, &f.particles[i])
	}
}

// Frame runs one display frame: clear, draw links, then advance and draw
// each particle. A nil surface or an empty field skips the frame.
func (f *Field) Frame(s Surface) {
	start := time.Now()
	if !f.beginFrame(s) {
		return
	}
	for i := range f.particles {
		p := &f.particles[i]
		f.advance(p)
		f.drawParticle(s, p)
	}
	f.stats.FrameTime = time.Since(start)
}

func (f *Field) beginFrame(s Surface) bool {
	if s == nil || f.width == 0 || f.height == 0 {
		return false
	}
	if f.cfg.Trail > 0 {
		s.Fade(f.cfg.Trail)
	} else {
		s.Clear()
	}
	links := 0
	f.Links(func(i, j int, alpha float64) {
		links++
		a, b := &f.particles[i], &f.particles[j]
		s.Line(a.X, a.Y, b.X, b.Y, f.cfg.LinkWidth, f.palette[0], alpha)
	})
	f.stats.Links = links
	f.stats.Particles = len(f.particles)
	return true
}

func (f *Field) drawParticle(s Surface, p *Particle) {
	c := f.palette[p.Color%len(f.palette)]
	if f.cfg.Glow {
		s.Circle(p.X, p.Y, p.Radius*3, c, p.Opacity*0.25)
	}
	s.Circle(p.X, p.Y, p.Radius, c, p.Opacity)
}

// PointerMove tracks the pointer with the interaction particle, creating it
// on first sight.
func (f *Field) PointerMove(x, y float64) {
	if f.interaction != noInteraction {
		p := &f.particles[f.interaction]
		p.X, p.Y = x, y
		return
	}
	f.particles = append(f.particles, Particle{
		X:           x,
		Y:           y,
		Radius:      f.cfg.MaxRadius,
		Color:       f.rng.Intn(len(f.palette)),
		Opacity:     1,
		Interactive: true,
	})
	f.interaction = len(f.particles) - 1
}

// TouchMove is PointerMove for touch input. Touch never starts spawning.
func (f *Field) TouchMove(x, y float64) { f.PointerMove(x, y) }

func (f *Field) PointerDown() { f.pointerDown = true }

func (f *Field) PointerUp() { f.pointerDown = false }

// PointerLeave drops the interaction particle and releases the pointer.
func (f *Field) PointerLeave() {
	f.pointerDown = false
	f.removeInteraction()
}

// TouchEnd drops the interaction particle.
func (f *Field) TouchEnd() { f.removeInteraction() }

func (f *Field) removeInteraction() {
	i := f.interaction
	if i == noInteraction {
		return
	}
	last := len(f.particles) - 1
	f.particles[i] = f.particles[last]
	f.particles = f.particles[:last]
	f.interaction = noInteraction
}

// SpawnBurst appends SpawnBurst ordinary particles at the interaction
// particle while the pointer is held. It returns how many were added.
func (f *Field) SpawnBurst() int {
	if !f.pointerDown || f.interaction == noInteraction {
		return 0
	}
	src := f.particles[f.interaction]
	m := f.cfg.Margin
	x := clamp(src.X, -m, float64(f.width)+m)
	y := clamp(src.Y, -m, float64(f.height)+m)
	for i := 0; i < f.cfg.SpawnBurst; i++ {
		f.particles = append(f.particles, f.newParticle(x, y))
	}
	return f.cfg.SpawnBurst
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
