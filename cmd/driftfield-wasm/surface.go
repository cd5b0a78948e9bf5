//go:build js && wasm

package main

import (
	"math"
	"syscall/js"

	"github.com/lucasb-eyer/go-colorful"
)

// canvasSurface draws on a canvas element's 2D context.
type canvasSurface struct {
	canvas js.Value
	ctx    js.Value
	w, h   int
	bg     string
	hex    map[colorful.Color]string
}

func newCanvasSurface(canvas js.Value, bg colorful.Color) *canvasSurface {
	return &canvasSurface{
		canvas: canvas,
		ctx:    canvas.Call("getContext", "2d"),
		bg:     bg.Clamped().Hex(),
		hex:    make(map[colorful.Color]string),
	}
}

// resize sets the backing store size. The browser clears the canvas.
func (s *canvasSurface) resize(w, h int) {
	s.w, s.h = max(w, 0), max(h, 0)
	s.canvas.Set("width", s.w)
	s.canvas.Set("height", s.h)
}

func (s *canvasSurface) color(c colorful.Color) string {
	h, ok := s.hex[c]
	if !ok {
		h = c.Clamped().Hex()
		s.hex[c] = h
	}
	return h
}

func (s *canvasSurface) Size() (int, int) { return s.w, s.h }

func (s *canvasSurface) Clear() {
	s.ctx.Set("globalAlpha", 1)
	s.ctx.Set("fillStyle", s.bg)
	s.ctx.Call("fillRect", 0, 0, s.w, s.h)
}

func (s *canvasSurface) Fade(alpha float64) {
	s.ctx.Set("globalAlpha", alpha)
	s.ctx.Set("fillStyle", s.bg)
	s.ctx.Call("fillRect", 0, 0, s.w, s.h)
	s.ctx.Set("globalAlpha", 1)
}

func (s *canvasSurface) Circle(x, y, r float64, c colorful.Color, alpha float64) {
	s.ctx.Set("globalAlpha", alpha)
	s.ctx.Set("fillStyle", s.color(c))
	s.ctx.Call("beginPath")
	s.ctx.Call("arc", x, y, r, 0, 2*math.Pi)
	s.ctx.Call("fill")
}

func (s *canvasSurface) Line(x0, y0, x1, y1, width float64, c colorful.Color, alpha float64) {
	s.ctx.Set("globalAlpha", alpha)
	s.ctx.Set("strokeStyle", s.color(c))
	s.ctx.Set("lineWidth", width)
	s.ctx.Call("beginPath")
	s.ctx.Call("moveTo", x0, y0)
	s.ctx.Call("lineTo", x1, y1)
	s.ctx.Call("stroke")
}
