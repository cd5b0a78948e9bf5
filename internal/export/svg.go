package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// SVG is a surface that records one frame as SVG elements. Clear starts a
// new document body; Fade keeps earlier elements under a translucent
// background rect, which is exactly how the trail composites.
type SVG struct {
	w, h     int
	bg       colorful.Color
	elements []string
}

func NewSVG(w, h int, bg colorful.Color) *SVG {
	return &SVG{w: max(w, 0), h: max(h, 0), bg: bg}
}

func (s *SVG) Size() (int, int) { return s.w, s.h }

func (s *SVG) Clear() { s.elements = s.elements[:0] }

func (s *SVG) Fade(alpha float64) {
	s.elements = append(s.elements, fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3f"/>`, s.bg.Clamped().Hex(), alpha))
}

func (s *SVG) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	s.elements = append(s.elements, fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`, x, y, r, c.Clamped().Hex(), alpha))
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	s.elements = append(s.elements, fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"/>`, x0, y0, x1, y1, c.Clamped().Hex(), width, alpha))
}

// Len is the number of recorded elements.
func (s *SVG) Len() int { return len(s.elements) }

func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.w, s.h, s.w, s.h, s.bg.Clamped().Hex()))

	for _, el := range s.elements {
		sb.WriteString(el)
		sb.WriteByte('\n')
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
