package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBase = 0x2800
	// dots dimmer than this are dropped by Fade and never rendered.
	visibleCutoff = 0.02
)

// Canvas is a braille surface for the particle field. Each dot keeps an
// intensity in [0, 1] and a color; field coordinates are scaled down by
// DotSize pixels per dot.
type Canvas struct {
	Width, Height int // in terminal cells
	DotSize       float64

	intensity []float64
	color     []colorful.Color
}

func NewCanvas(w, h int, dotSize float64) *Canvas {
	c := &Canvas{DotSize: dotSize}
	if c.DotSize <= 0 {
		c.DotSize = 1
	}
	c.Resize(w, h)
	return c
}

// Resize reallocates the canvas for w x h cells and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 0), max(h, 0)
	n := c.Width * 2 * c.Height * 4
	c.intensity = make([]float64, n)
	c.color = make([]colorful.Color, n)
}

func (c *Canvas) dotsWide() int { return c.Width * 2 }

func (c *Canvas) dotsHigh() int { return c.Height * 4 }

// Size reports the canvas extent in field pixels.
func (c *Canvas) Size() (int, int) {
	return int(float64(c.dotsWide()) * c.DotSize), int(float64(c.dotsHigh()) * c.DotSize)
}

// ToField maps a terminal cell to the field pixel at its centre.
func (c *Canvas) ToField(col, row int) (float64, float64) {
	return (float64(col*2) + 1) * c.DotSize, (float64(row*4) + 2) * c.DotSize
}

// Contains reports whether a terminal cell lies on the canvas.
func (c *Canvas) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.Width && row < c.Height
}

// Plot blends col into the dot at (x, y) in dot coordinates.
func (c *Canvas) Plot(x, y int, col colorful.Color, alpha float64) {
	if x < 0 || y < 0 || x >= c.dotsWide() || y >= c.dotsHigh() || alpha <= 0 {
		return
	}
	alpha = math.Min(alpha, 1)
	i := y*c.dotsWide() + x
	prev := c.intensity[i]
	if prev <= 0 {
		c.color[i] = col
	} else {
		c.color[i] = c.color[i].BlendRgb(col, alpha/(prev+alpha))
	}
	c.intensity[i] = prev + alpha*(1-prev)
}

// At returns the intensity of a dot.
func (c *Canvas) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= c.dotsWide() || y >= c.dotsHigh() {
		return 0
	}
	return c.intensity[y*c.dotsWide()+x]
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color, alpha float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Plot(x0, y0, col, alpha)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.intensity {
		c.intensity[i] = 0
	}
}

// Fade dims every dot by alpha, leaving a trail of earlier frames.
func (c *Canvas) Fade(alpha float64) {
	keep := 1 - math.Max(0, math.Min(alpha, 1))
	for i, v := range c.intensity {
		v *= keep
		if v < visibleCutoff {
			v = 0
		}
		c.intensity[i] = v
	}
}

func (c *Canvas) Circle(x, y, r float64, col colorful.Color, alpha float64) {
	cx, cy := x/c.DotSize, y/c.DotSize
	rd := r / c.DotSize
	if rd < 0.5 {
		c.Plot(int(math.Floor(cx)), int(math.Floor(cy)), col, alpha)
		return
	}
	x0, x1 := int(math.Floor(cx-rd)), int(math.Ceil(cx+rd))
	y0, y1 := int(math.Floor(cy-rd)), int(math.Ceil(cy+rd))
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			px, py := float64(dx)+0.5-cx, float64(dy)+0.5-cy
			if px*px+py*py <= rd*rd {
				c.Plot(dx, dy, col, alpha)
			}
		}
	}
}

// Line ignores width: one dot is already wider than any link.
func (c *Canvas) Line(x0, y0, x1, y1, width float64, col colorful.Color, alpha float64) {
	s := c.DotSize
	c.DrawLine(int(math.Floor(x0/s)), int(math.Floor(y0/s)), int(math.Floor(x1/s)), int(math.Floor(y1/s)), col, alpha)
}

// cell folds the 2x4 dots under a terminal cell into a braille rune and the
// intensity-weighted colour of its lit dots.
func (c *Canvas) cell(col, row int) (rune, colorful.Color, float64) {
	r := rune(brailleBase)
	var sum, peak float64
	var mix colorful.Color
	for sy := 0; sy < 4; sy++ {
		for sx := 0; sx < 2; sx++ {
			i := (row*4+sy)*c.dotsWide() + col*2 + sx
			v := c.intensity[i]
			if v < visibleCutoff {
				continue
			}
			r |= rune(pixelMap[sy][sx])
			if sum == 0 {
				mix = c.color[i]
			} else {
				mix = mix.BlendRgb(c.color[i], v/(sum+v))
			}
			sum += v
			peak = math.Max(peak, v)
		}
	}
	return r, mix, peak
}

// String renders the dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r, _, _ := c.cell(col, row)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colours each cell by blending its dots toward bg by intensity.
// With scanlines set, every other row is drawn faint.
func (c *Canvas) Render(bg colorful.Color, scanlines bool) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		faint := scanlines && row%2 == 1
		var run strings.Builder
		var runHex string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().Faint(faint)
			if runHex != "" {
				st = st.Foreground(lipgloss.Color(runHex))
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.Width; col++ {
			r, mix, peak := c.cell(col, row)
			hex := ""
			if r != brailleBase {
				hex = bg.BlendRgb(mix, math.Sqrt(peak)).Clamped().Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
