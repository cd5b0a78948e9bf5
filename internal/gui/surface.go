package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface draws the field into a render texture that persists between
// frames, so Fade can leave trails.
type Surface struct {
	target rl.RenderTexture2D
	bg     rl.Color
	w, h   int
}

func NewSurface(w, h int, bg rl.Color) *Surface {
	s := &Surface{bg: bg}
	s.Resize(w, h)
	return s
}

// Resize reallocates the render texture. Call it outside texture mode.
func (s *Surface) Resize(w, h int) {
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.w, s.h = max(w, 1), max(h, 1)
	s.target = rl.LoadRenderTexture(int32(s.w), int32(s.h))
}

func (s *Surface) Unload() {
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
		s.target = rl.RenderTexture2D{}
	}
}

func (s *Surface) Begin() { rl.BeginTextureMode(s.target) }

func (s *Surface) End() { rl.EndTextureMode() }

// Blit draws the texture to the screen. Render textures are stored upside
// down, hence the negative source height.
func (s *Surface) Blit() {
	src := rl.NewRectangle(0, 0, float32(s.w), -float32(s.h))
	rl.DrawTextureRec(s.target.Texture, src, rl.NewVector2(0, 0), rl.White)
}

func (s *Surface) Size() (int, int) { return s.w, s.h }

func (s *Surface) Clear() { rl.ClearBackground(s.bg) }

func (s *Surface) Fade(alpha float64) {
	rl.DrawRectangle(0, 0, int32(s.w), int32(s.h), rl.ColorAlpha(s.bg, float32(alpha)))
}

func (s *Surface) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toRL(c, alpha))
}

func (s *Surface) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	rl.DrawLineEx(
		rl.NewVector2(float32(x0), float32(y0)),
		rl.NewVector2(float32(x1), float32(y1)),
		float32(width),
		toRL(c, alpha),
	)
}

func toRL(c colorful.Color, alpha float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	a := uint8(max(0, min(alpha, 1))*255 + 0.5)
	return rl.NewColor(r, g, b, a)
}
