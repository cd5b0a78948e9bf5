package field

import (
	"math"
	"sort"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

type recordingSurface struct {
	w, h    int
	clears  int
	fades   []float64
	circles int
	lines   []float64
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Clear()           { s.clears++ }
func (s *recordingSurface) Fade(alpha float64) { s.fades = append(s.fades, alpha) }
func (s *recordingSurface) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	s.circles++
}
func (s *recordingSurface) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	s.lines = append(s.lines, alpha)
}

func newTestField(t *testing.T, mutate func(*Config)) *Field {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	f, err := New(cfg, 42)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return f
}

func TestResizePopulation(t *testing.T) {
	f := newTestField(t, nil)

	f.Resize(1200, 800)
	if f.Len() != 80 {
		t.Errorf("expected 80 particles at 1200x800, got %d", f.Len())
	}

	f.Resize(600, 400)
	if f.Len() != 20 {
		t.Errorf("expected 20 particles at 600x400, got %d", f.Len())
	}
}

func TestResizeMatchesExpectedCount(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{0, 0},
		{1, 1},
		{333, 777},
		{1920, 1080},
		{123, 98},
	}
	f := newTestField(t, nil)
	for _, tt := range tests {
		f.Resize(tt.w, tt.h)
		want := int(math.Floor(float64(tt.w*tt.h) / DefaultDensity))
		if f.Len() != want {
			t.Errorf("%dx%d: expected %d particles, got %d", tt.w, tt.h, want, f.Len())
		}
	}
}

func TestResizeNegativeClamps(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(-50, 400)
	w, h := f.Size()
	if w != 0 || h != 400 {
		t.Errorf("expected 0x400, got %dx%d", w, h)
	}
	if f.Len() != 0 {
		t.Errorf("expected empty field, got %d", f.Len())
	}

	s := &recordingSurface{}
	f.Frame(s)
	if s.clears != 0 || s.circles != 0 {
		t.Error("zero-area field should skip the frame")
	}
}

func TestSeededParticles(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(1200, 800)
	half := DefaultMaxSpeed / 2
	for i, p := range f.Particles() {
		if p.X < 0 || p.X > 1200 || p.Y < 0 || p.Y > 800 {
			t.Fatalf("particle %d seeded outside surface: (%f, %f)", i, p.X, p.Y)
		}
		if math.Abs(p.VX) > half || math.Abs(p.VY) > half {
			t.Fatalf("particle %d velocity out of range: (%f, %f)", i, p.VX, p.VY)
		}
		if p.Opacity != 0 {
			t.Fatalf("particle %d should start invisible, opacity %f", i, p.Opacity)
		}
		if p.Radius < DefaultMinRadius || p.Radius > DefaultMaxRadius {
			t.Fatalf("particle %d radius %f out of range", i, p.Radius)
		}
	}
}

func TestOpacityStaysInRange(t *testing.T) {
	f := newTestField(t, func(c *Config) { c.FadeStep = 0.3 })
	f.Resize(800, 600)
	prev := f.Particles()
	for step := 0; step < 20; step++ {
		f.Step()
		cur := f.Particles()
		for i, p := range cur {
			if p.Opacity < 0 || p.Opacity > 1 {
				t.Fatalf("step %d particle %d opacity %f", step, i, p.Opacity)
			}
			if p.Opacity < prev[i].Opacity {
				t.Fatalf("step %d particle %d opacity decreased", step, i)
			}
		}
		prev = cur
	}
	for i, p := range prev {
		if p.Opacity != 1 {
			t.Errorf("particle %d should be fully faded in, got %f", i, p.Opacity)
		}
	}
}

func TestPositionsStayWithinMargin(t *testing.T) {
	f := newTestField(t, func(c *Config) {
		c.MaxSpeed = 40
		c.Margin = 25
	})
	f.Resize(300, 200)
	for step := 0; step < 2000; step++ {
		f.Step()
		for i, p := range f.Particles() {
			if p.X < -25 || p.X > 325 || p.Y < -25 || p.Y > 225 {
				t.Fatalf("step %d particle %d escaped: (%f, %f)", step, i, p.X, p.Y)
			}
		}
	}
}

func TestSpeedIsPreservedByBounce(t *testing.T) {
	f := newTestField(t, func(c *Config) { c.MaxSpeed = 30 })
	f.Resize(200, 200)
	before := f.Particles()
	for step := 0; step < 500; step++ {
		f.Step()
	}
	for i, p := range f.Particles() {
		if math.Abs(p.Speed()-before[i].Speed()) > 1e-9 {
			t.Errorf("particle %d speed changed: %f -> %f", i, before[i].Speed(), p.Speed())
		}
	}
}

func TestConnectionAlpha(t *testing.T) {
	if ConnectionAlpha(150, 150) != 0 {
		t.Error("alpha at threshold should be zero")
	}
	if ConnectionAlpha(400, 150) != 0 {
		t.Error("alpha beyond threshold should be zero")
	}
	if ConnectionAlpha(0, 150) != 1 {
		t.Error("alpha at zero distance should be one")
	}
	prev := math.Inf(1)
	for d := 0.0; d < 150; d += 0.5 {
		a := ConnectionAlpha(d, 150)
		if a >= prev {
			t.Fatalf("alpha not strictly decreasing at d=%f", d)
		}
		prev = a
	}
}

func TestLinksScaleWithOpacity(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(100, 100)
	f.particles = []Particle{
		{X: 10, Y: 10, Opacity: 0.5},
		{X: 40, Y: 50, Opacity: 1},
		{X: 95, Y: 95, Opacity: 0},
	}

	var got []float64
	f.Links(func(i, j int, alpha float64) {
		if i == 0 && j == 1 {
			got = append(got, alpha)
		}
	})
	if len(got) != 1 {
		t.Fatalf("expected one link between 0 and 1, got %d", len(got))
	}
	want := (150.0 - 50.0) / 150.0 * 0.5 * DefaultLinkAlpha
	if math.Abs(got[0]-want) > 1e-12 {
		t.Errorf("expected alpha %f, got %f", want, got[0])
	}
}

func collectLinks(f *Field) []Link {
	out := f.AppendLinks(nil)
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

func TestGridMatchesBruteForce(t *testing.T) {
	brute := newTestField(t, func(c *Config) { c.MaxSpeed = 8 })
	gridded := newTestField(t, func(c *Config) {
		c.MaxSpeed = 8
		c.UseGrid = true
	})
	brute.Resize(1600, 900)
	gridded.Resize(1600, 900)
	brute.PointerMove(-400, 2000)
	gridded.PointerMove(-400, 2000)

	for step := 0; step < 30; step++ {
		a, b := collectLinks(brute), collectLinks(gridded)
		if len(a) != len(b) {
			t.Fatalf("step %d: brute %d links, grid %d links", step, len(a), len(b))
		}
		for k := range a {
			if a[k] != b[k] {
				t.Fatalf("step %d: link %d differs: %v vs %v", step, k, a[k], b[k])
			}
		}
		brute.Step()
		gridded.Step()
	}
}

func TestPointerMoveCreatesThenTracks(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(1200, 800)
	n := f.Len()

	f.PointerMove(100, 200)
	if f.Len() != n+1 {
		t.Fatalf("expected %d particles, got %d", n+1, f.Len())
	}
	p, ok := f.Interaction()
	if !ok {
		t.Fatal("expected interaction particle")
	}
	if p.X != 100 || p.Y != 200 || p.VX != 0 || p.VY != 0 || p.Opacity != 1 {
		t.Errorf("unexpected interaction particle %+v", p)
	}

	f.PointerMove(5000, -3000)
	if f.Len() != n+1 {
		t.Fatalf("second move should not add particles, got %d", f.Len())
	}
	p, _ = f.Interaction()
	if p.X != 5000 || p.Y != -3000 {
		t.Errorf("interaction particle should follow pointer, at (%f, %f)", p.X, p.Y)
	}

	f.Step()
	p, _ = f.Interaction()
	if p.X != 5000 || p.Y != -3000 {
		t.Error("interaction particle must not move or bounce on its own")
	}
}

func TestPointerLeaveRemovesInteraction(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(1200, 800)
	f.PointerMove(10, 10)
	n := f.Len()

	f.PointerLeave()
	if f.Len() != n-1 {
		t.Errorf("expected %d particles after leave, got %d", n-1, f.Len())
	}
	if _, ok := f.Interaction(); ok {
		t.Error("interaction particle should be gone")
	}
	for _, p := range f.Particles() {
		if p.Interactive {
			t.Fatal("interactive particle still in collection")
		}
	}

	f.PointerLeave()
	if f.Len() != n-1 {
		t.Error("second leave should be a no-op")
	}
}

func TestTouchEndRemovesInteraction(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	n := f.Len()
	f.TouchMove(50, 60)
	f.TouchEnd()
	if f.Len() != n {
		t.Errorf("expected %d particles, got %d", n, f.Len())
	}
}

func TestSpawnBurstRequiresPointerDown(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	f.PointerMove(300, 200)
	n := f.Len()

	if added := f.SpawnBurst(); added != 0 {
		t.Errorf("spawn without pointer down added %d", added)
	}

	f.PointerDown()
	if added := f.SpawnBurst(); added != DefaultSpawnBurst {
		t.Errorf("expected %d spawned, got %d", DefaultSpawnBurst, added)
	}
	if f.Len() != n+DefaultSpawnBurst {
		t.Errorf("expected %d particles, got %d", n+DefaultSpawnBurst, f.Len())
	}
	for _, p := range f.Particles()[n:] {
		if p.Interactive || p.X != 300 || p.Y != 200 || p.Opacity != 0 {
			t.Errorf("unexpected spawned particle %+v", p)
		}
	}

	f.PointerUp()
	if added := f.SpawnBurst(); added != 0 {
		t.Error("spawn after pointer up should add nothing")
	}
}

func TestSpawnedParticlesKeepInteractionHandle(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	f.PointerMove(1, 2)
	f.PointerDown()
	f.SpawnBurst()
	f.PointerMove(3, 4)
	p, ok := f.Interaction()
	if !ok || !p.Interactive || p.X != 3 || p.Y != 4 {
		t.Fatalf("handle lost after spawn: %+v", p)
	}
	f.PointerLeave()
	for _, p := range f.Particles() {
		if p.Interactive {
			t.Fatal("interactive particle survived leave")
		}
	}
}

func TestResizeDropsInteraction(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	f.PointerMove(1, 1)
	f.Resize(1200, 800)
	if _, ok := f.Interaction(); ok {
		t.Error("resize should discard the interaction particle")
	}
	if f.Len() != 80 {
		t.Errorf("expected 80, got %d", f.Len())
	}
}

func TestFrameDrawsLinksAndParticles(t *testing.T) {
	f := newTestField(t, func(c *Config) { c.FadeStep = 1 })
	f.Resize(100, 100)
	f.particles = []Particle{
		{X: 10, Y: 10, Radius: 1, Opacity: 1},
		{X: 20, Y: 10, Radius: 1, Opacity: 1},
	}
	s := &recordingSurface{w: 100, h: 100}
	f.Frame(s)
	if s.clears != 1 {
		t.Errorf("expected one clear, got %d", s.clears)
	}
	if len(s.lines) != 1 {
		t.Errorf("expected one link, got %d", len(s.lines))
	}
	if s.circles != 2 {
		t.Errorf("expected two circles, got %d", s.circles)
	}
	if st := f.Stats(); st.Links != 1 || st.Particles != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestFrameTrailAndGlow(t *testing.T) {
	f := newTestField(t, func(c *Config) {
		c.Trail = 0.1
		c.Glow = true
	})
	f.Resize(100, 100)
	f.particles = []Particle{{X: 50, Y: 50, Radius: 2, Opacity: 1}}
	s := &recordingSurface{w: 100, h: 100}
	f.Frame(s)
	if s.clears != 0 || len(s.fades) != 1 || s.fades[0] != 0.1 {
		t.Errorf("expected a single fade at 0.1, got clears=%d fades=%v", s.clears, s.fades)
	}
	if s.circles != 2 {
		t.Errorf("glow should draw a halo plus the dot, got %d circles", s.circles)
	}
}

func TestFrameNilSurface(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	before := f.Particles()
	f.Frame(nil)
	after := f.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("nil surface frame should not advance the field")
		}
	}
}

func TestReveal(t *testing.T) {
	f := newTestField(t, nil)
	f.Resize(600, 400)
	f.Reveal()
	for i, p := range f.Particles() {
		if p.Opacity != 1 {
			t.Fatalf("particle %d opacity %f after reveal", i, p.Opacity)
		}
	}
}
