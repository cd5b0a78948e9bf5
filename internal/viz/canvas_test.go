package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var cyan = colorful.Color{R: 0, G: 0.94, B: 1}

func TestCanvasSize(t *testing.T) {
	c := NewCanvas(10, 5, 2)
	w, h := c.Size()
	if w != 40 || h != 40 {
		t.Errorf("expected 40x40, got %dx%d", w, h)
	}

	c.Resize(-3, 2)
	if w, _ := c.Size(); w != 0 {
		t.Errorf("negative width should clamp to 0, got %d", w)
	}
}

func TestPlotBlendsIntensity(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Plot(0, 0, cyan, 0.5)
	c.Plot(0, 0, cyan, 0.5)
	if got := c.At(0, 0); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", got)
	}
	c.Plot(0, 0, cyan, 5)
	if got := c.At(0, 0); got != 1 {
		t.Errorf("alpha above one should saturate, got %f", got)
	}
	c.Plot(-1, 0, cyan, 1)
	c.Plot(100, 0, cyan, 1)
}

func TestFadeDecaysAndDrops(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Plot(1, 1, cyan, 1)
	c.Fade(0.5)
	if got := c.At(1, 1); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 0.5 after fade, got %f", got)
	}
	for i := 0; i < 10; i++ {
		c.Fade(0.5)
	}
	if got := c.At(1, 1); got != 0 {
		t.Errorf("dim dot should be dropped, got %f", got)
	}
}

func TestClear(t *testing.T) {
	c := NewCanvas(3, 2, 1)
	c.Circle(3, 3, 2, cyan, 1)
	c.Clear()
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > brailleBase && r != '\n' }) {
		t.Error("canvas should be empty after Clear")
	}
}

func TestCircleScalesByDotSize(t *testing.T) {
	c := NewCanvas(10, 10, 4)
	c.Circle(2, 2, 1, cyan, 1)
	if c.At(0, 0) != 1 {
		t.Error("small circle should light its centre dot")
	}

	c.Clear()
	c.Circle(40, 40, 12, cyan, 1)
	if c.At(10, 10) == 0 {
		t.Error("centre dot not lit")
	}
	if c.At(10, 12) == 0 || c.At(7, 10) == 0 {
		t.Error("dot inside radius not lit")
	}
	if c.At(10, 13) != 0 || c.At(6, 10) != 0 {
		t.Error("dot outside radius lit")
	}
}

func TestLineInFieldPixels(t *testing.T) {
	c := NewCanvas(10, 1, 2)
	c.Line(0, 0, 38, 0, 0.5, cyan, 1)
	for x := 0; x < 20; x++ {
		if c.At(x, 0) == 0 {
			t.Errorf("dot %d not lit", x)
		}
	}
	if c.At(0, 1) != 0 {
		t.Error("line leaked into the next row")
	}
}

func TestStringBraille(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Plot(0, 0, cyan, 1)
	c.Plot(3, 3, cyan, 1)
	got := []rune(strings.TrimSuffix(c.String(), "\n"))
	if len(got) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(got))
	}
	if got[0] != brailleBase|0x1 {
		t.Errorf("cell 0: got %U", got[0])
	}
	if got[1] != brailleBase|0x80 {
		t.Errorf("cell 1: got %U", got[1])
	}
}

func TestToFieldAndContains(t *testing.T) {
	c := NewCanvas(4, 3, 5)
	x, y := c.ToField(1, 2)
	if x != 15 || y != 50 {
		t.Errorf("expected (15, 50), got (%f, %f)", x, y)
	}
	if !c.Contains(3, 2) || c.Contains(4, 0) || c.Contains(0, -1) {
		t.Error("Contains disagrees with canvas bounds")
	}
}

func TestRenderKeepsLayout(t *testing.T) {
	c := NewCanvas(6, 4, 1)
	c.Circle(6, 8, 3, cyan, 1)
	out := c.Render(ThemeCyberpunk.Canvas(), true)
	if n := strings.Count(out, "\n"); n != 4 {
		t.Errorf("expected 4 rows, got %d", n)
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > brailleBase && r < brailleBase+0x100 }) {
		t.Error("rendered canvas has no lit cells")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	names := ThemeNames()
	for i, name := range names {
		if next := NextTheme(name).Name; next != names[(i+1)%len(names)] {
			t.Errorf("NextTheme(%s) = %s", name, next)
		}
	}
	if bg := ThemeCyberpunk.Canvas(); bg.Hex() != "#0a0e27" {
		t.Errorf("unexpected background %s", bg.Hex())
	}
}
