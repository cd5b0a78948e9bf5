package field

import "github.com/lucasb-eyer/go-colorful"

// Surface is a 2D drawing target measured in field pixels.
// Implementations clip anything drawn outside their bounds.
type Surface interface {
	Size() (w, h int)
	// Clear wipes the surface to its background.
	Clear()
	// Fade repaints the background at the given alpha, leaving a trail.
	Fade(alpha float64)
	Circle(x, y, r float64, c colorful.Color, alpha float64)
	Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64)
}
