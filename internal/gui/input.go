package gui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/driftfield/internal/anim"
)

// InputState is one frame's worth of polled window input.
type InputState struct {
	MouseX, MouseY float64
	OnScreen       bool
	Pressed        bool
	Released       bool
	Touches        int
	TouchX, TouchY float64
	Width, Height  int
}

// inputTracker turns polled state into pointer, touch and resize events,
// emitting only what changed since the previous frame.
type inputTracker struct {
	touch        bool
	inside       bool
	touching     bool
	lastX, lastY float64
	w, h         int
}

func newInputTracker(touch bool) *inputTracker {
	return &inputTracker{touch: touch, lastX: -1, lastY: -1}
}

func (t *inputTracker) poll(s InputState) []tea.Msg {
	var out []tea.Msg

	if s.Width != t.w || s.Height != t.h {
		if t.w != 0 || t.h != 0 {
			out = append(out, anim.ResizeMsg{W: s.Width, H: s.Height})
		}
		t.w, t.h = s.Width, s.Height
	}

	if t.touch {
		switch {
		case s.Touches > 0:
			t.touching = true
			out = append(out, anim.TouchMsg{Kind: anim.TouchMove, X: s.TouchX, Y: s.TouchY})
			return out
		case t.touching:
			t.touching = false
			out = append(out, anim.TouchMsg{Kind: anim.TouchEnd})
			return out
		}
	}

	if !s.OnScreen {
		if t.inside {
			t.inside = false
			t.lastX, t.lastY = -1, -1
			out = append(out, anim.PointerMsg{Kind: anim.PointerLeave})
		}
		return out
	}
	t.inside = true

	if s.MouseX != t.lastX || s.MouseY != t.lastY {
		t.lastX, t.lastY = s.MouseX, s.MouseY
		out = append(out, anim.PointerMsg{Kind: anim.PointerMove, X: s.MouseX, Y: s.MouseY})
	}
	if s.Pressed {
		out = append(out, anim.PointerMsg{Kind: anim.PointerDown, X: s.MouseX, Y: s.MouseY})
	}
	if s.Released {
		out = append(out, anim.PointerMsg{Kind: anim.PointerUp, X: s.MouseX, Y: s.MouseY})
	}
	return out
}
