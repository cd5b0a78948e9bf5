package export

import (
	"bytes"
	"errors"
	"image/gif"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	bg   = colorful.Color{R: 10.0 / 255, G: 14.0 / 255, B: 39.0 / 255}
	cyan = colorful.Color{R: 0, G: 240.0 / 255, B: 1}
)

func TestRasterClearAndCircle(t *testing.T) {
	r := NewRaster(40, 30, bg, []colorful.Color{cyan})
	if w, h := r.Size(); w != 40 || h != 30 {
		t.Fatalf("expected 40x30, got %dx%d", w, h)
	}

	c := r.Image().RGBAAt(0, 0)
	if c.R != 10 || c.G != 14 || c.B != 39 || c.A != 255 {
		t.Errorf("clear should fill with background, got %v", c)
	}

	r.Circle(20, 15, 4, cyan, 1)
	c = r.Image().RGBAAt(20, 15)
	if c.G != 240 || c.B != 255 {
		t.Errorf("centre should be fully cyan, got %v", c)
	}
	if c := r.Image().RGBAAt(30, 15); c.G != 14 {
		t.Errorf("pixel outside circle changed: %v", c)
	}
}

func TestRasterFadeTowardBackground(t *testing.T) {
	r := NewRaster(10, 10, bg, nil)
	r.Circle(5, 5, 3, cyan, 1)
	r.Fade(0.5)
	c := r.Image().RGBAAt(5, 5)
	if c.G < 120 || c.G > 130 {
		t.Errorf("expected half-faded green near 127, got %d", c.G)
	}
	r.Fade(1)
	if c := r.Image().RGBAAt(5, 5); c.G != 14 {
		t.Errorf("full fade should restore background, got %v", c)
	}
}

func TestRasterLine(t *testing.T) {
	r := NewRaster(20, 5, bg, nil)
	r.Line(0, 2, 19, 2, 1, cyan, 1)
	for x := 0; x < 20; x++ {
		if c := r.Image().RGBAAt(x, 2); c.G != 240 {
			t.Errorf("pixel %d not drawn: %v", x, c)
		}
	}

	r.Clear()
	r.Line(0, 2, 19, 2, 0.5, cyan, 1)
	if c := r.Image().RGBAAt(10, 2); c.G == 14 || c.G == 240 {
		t.Errorf("thin line should draw at reduced alpha, got %v", c)
	}

	r.Line(-50, -50, -10, -10, 1, cyan, 1)
}

func TestRasterGIF(t *testing.T) {
	r := NewRaster(16, 16, bg, []colorful.Color{cyan})

	var buf bytes.Buffer
	if err := r.WriteGIF(&buf, 2); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}

	r.Capture()
	r.Circle(8, 8, 3, cyan, 1)
	r.Capture()
	r.Resize(8, 8)
	r.Capture()

	if err := r.WriteGIF(&buf, 2); err != nil {
		t.Fatalf("write gif: %v", err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(g.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(g.Image))
	}
	if g.Config.Width != 16 || g.Config.Height != 16 {
		t.Errorf("expected 16x16 screen, got %dx%d", g.Config.Width, g.Config.Height)
	}
	if idx := g.Image[1].ColorIndexAt(8, 8); idx == 0 {
		t.Error("circle pixel quantised to background")
	}
}

func TestGIFPaletteSize(t *testing.T) {
	for n := 0; n <= 4; n++ {
		colors := make([]colorful.Color, n)
		if p := gifPalette(bg, colors); len(p) > 256 {
			t.Errorf("%d colors: palette has %d entries", n, len(p))
		}
	}
}

func TestSVGSurface(t *testing.T) {
	s := NewSVG(100, 50, bg)
	s.Circle(10, 10, 2, cyan, 0.5)
	s.Line(0, 0, 10, 10, 0.5, cyan, 0.2)
	if s.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", s.Len())
	}

	out := s.String()
	for _, want := range []string{`<svg`, `viewBox="0 0 100 50"`, `<circle cx="10.0"`, `<line`, `stroke="#00f0ff"`, `fill="#0a0e27"`, `</svg>`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}

	s.Fade(0.1)
	if s.Len() != 3 {
		t.Errorf("fade should add an overlay, got %d elements", s.Len())
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("clear should drop elements, got %d", s.Len())
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil || !strings.HasSuffix(buf.String(), "</svg>") {
		t.Errorf("WriteTo: %v", err)
	}
}
