package anim

import "time"

// FrameMsg fires one display frame. Gen must match the animator's current
// frame generation or the message is dropped.
type FrameMsg struct {
	Gen  uint64
	Time time.Time
}

// SpawnMsg fires one paint-trail spawn while the pointer is held.
type SpawnMsg struct {
	Gen  uint64
	Time time.Time
}

type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
	PointerLeave
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	}
	return "unknown"
}

// PointerMsg carries a pointer event in surface-relative field pixels.
type PointerMsg struct {
	Kind PointerKind
	X, Y float64
}

type TouchKind int

const (
	TouchMove TouchKind = iota
	TouchEnd
)

// TouchMsg carries a touch event in surface-relative field pixels.
type TouchMsg struct {
	Kind TouchKind
	X, Y float64
}

// ResizeMsg reports new surface dimensions in field pixels.
type ResizeMsg struct {
	W, H int
}
