package anim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler is the frame-scheduling primitive. After returns a command that
// delivers fn's message once d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

// FrameScheduler is a Scheduler that paces display frames apart from other
// timers. The Animator requests frames through AfterFrame when available.
type FrameScheduler interface {
	Scheduler
	AfterFrame(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

// TeaScheduler schedules through the bubbletea runtime.
type TeaScheduler struct{}

func (TeaScheduler) After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, fn)
}

// Deferred is a scheduling request left for an external clock to fire.
// Frame marks a display frame request; hosts may fire it on their own
// vsync instead of after Delay.
type Deferred struct {
	Delay time.Duration
	Fire  func(time.Time) tea.Msg
	Frame bool
}

// DeferredScheduler hands every request back as a Deferred message, for
// hosts that own their clock (see Pump).
type DeferredScheduler struct{}

func (DeferredScheduler) After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return Deferred{Delay: d, Fire: fn} }
}

func (DeferredScheduler) AfterFrame(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return Deferred{Delay: d, Fire: fn, Frame: true} }
}
