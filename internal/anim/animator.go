package anim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/field"
)

const (
	DefaultFPS           = 60
	DefaultSpawnInterval = 50 * time.Millisecond
	frameTimeCapacity    = 120
)

// Options configures an Animator. Zero values fall back to defaults.
type Options struct {
	FPS           int
	SpawnInterval time.Duration
	ReducedMotion bool
	Cursor        bool
	Logger        *zap.Logger
}

func (o Options) frameInterval() time.Duration {
	return time.Second / time.Duration(o.FPS)
}

// Stats reports loop progress for the host's status panel.
type Stats struct {
	Frames     int
	Particles  int
	Links      int
	FrameTimes []float64 // milliseconds, oldest first
}

// Animator runs a Field as a self-rescheduling frame task. Each scheduled
// frame carries a generation token; Unmount bumps the token so any frame
// already in flight is dropped and nothing is rescheduled.
type Animator struct {
	field   *field.Field
	surface field.Surface
	sched   Scheduler
	opts    Options
	log     *zap.Logger

	mounted  bool
	paused   bool
	frameGen uint64
	spawnGen uint64
	spawning bool

	cursor     *Cursor
	frames     int
	frameTimes []float64
}

// New wires a field to a surface and scheduler.
func New(f *field.Field, s field.Surface, sched Scheduler, opts Options) *Animator {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.SpawnInterval <= 0 {
		opts.SpawnInterval = DefaultSpawnInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	a := &Animator{
		field:      f,
		surface:    s,
		sched:      sched,
		opts:       opts,
		log:        opts.Logger.Named("anim"),
		frameTimes: make([]float64, 0, frameTimeCapacity),
	}
	if opts.Cursor {
		a.cursor = NewCursor(opts.FPS)
	}
	return a
}

func (a *Animator) Field() *field.Field { return a.field }

func (a *Animator) Mounted() bool { return a.mounted }

func (a *Animator) Spawning() bool { return a.spawning }

func (a *Animator) Paused() bool { return a.paused }

func (a *Animator) Cursor() *Cursor { return a.cursor }

func (a *Animator) Stats() Stats {
	st := a.field.Stats()
	times := make([]float64, len(a.frameTimes))
	copy(times, a.frameTimes)
	return Stats{
		Frames:     a.frames,
		Particles:  a.field.Len(),
		Links:      st.Links,
		FrameTimes: times,
	}
}

// Mount seeds the field for a w x h surface and requests the first frame.
// Without a surface Mount does nothing.
func (a *Animator) Mount(w, h int) tea.Cmd {
	if a.surface == nil {
		a.log.Debug("mount skipped: no surface")
		return nil
	}
	a.mounted = true
	a.paused = false
	a.frameGen++
	a.field.Resize(w, h)
	a.log.Debug("mounted", zap.Int("width", w), zap.Int("height", h), zap.Int("particles", a.field.Len()))
	if a.opts.ReducedMotion {
		a.drawStatic()
		return nil
	}
	return a.requestFrame()
}

// Unmount stops the loop and drops the interaction particle. Frames and
// spawn ticks already scheduled are ignored when they arrive.
func (a *Animator) Unmount() {
	if !a.mounted {
		return
	}
	a.mounted = false
	a.frameGen++
	a.stopSpawning()
	a.field.PointerLeave()
	a.log.Debug("unmounted", zap.Int("frames", a.frames))
}

// SetSurface swaps the drawing target, e.g. after the host reallocates it.
func (a *Animator) SetSurface(s field.Surface) { a.surface = s }

// Restart reseeds at the current size with a fresh frame chain.
func (a *Animator) Restart() tea.Cmd {
	if !a.mounted {
		return nil
	}
	w, h := a.field.Size()
	a.stopSpawning()
	return a.Mount(w, h)
}

// Pause drops the frame chain but keeps the field as it is.
func (a *Animator) Pause() {
	if !a.mounted || a.paused {
		return
	}
	a.paused = true
	a.frameGen++
	a.stopSpawning()
}

// Resume restarts the frame chain after Pause.
func (a *Animator) Resume() tea.Cmd {
	if !a.mounted || !a.paused {
		return nil
	}
	a.paused = false
	if a.opts.ReducedMotion {
		return nil
	}
	return a.requestFrame()
}

// Replace swaps in a new field, e.g. after a config reload, and remounts it
// at the current size if the old one was mounted.
func (a *Animator) Replace(f *field.Field) tea.Cmd {
	w, h := a.field.Size()
	wasMounted := a.mounted
	a.Unmount()
	a.field = f
	if !wasMounted {
		return nil
	}
	return a.Mount(w, h)
}

func (a *Animator) requestFrame() tea.Cmd {
	gen := a.frameGen
	fire := func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, Time: t}
	}
	if fs, ok := a.sched.(FrameScheduler); ok {
		return fs.AfterFrame(a.opts.frameInterval(), fire)
	}
	return a.sched.After(a.opts.frameInterval(), fire)
}

func (a *Animator) requestSpawn() tea.Cmd {
	gen := a.spawnGen
	return a.sched.After(a.opts.SpawnInterval, func(t time.Time) tea.Msg {
		return SpawnMsg{Gen: gen, Time: t}
	})
}

func (a *Animator) stopSpawning() {
	a.spawning = false
	a.spawnGen++
}

// Update applies one message and returns the follow-up command, if any.
func (a *Animator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FrameMsg:
		if !a.mounted || msg.Gen != a.frameGen {
			return nil
		}
		a.frame()
		return a.requestFrame()

	case SpawnMsg:
		if !a.mounted || !a.spawning || msg.Gen != a.spawnGen {
			return nil
		}
		a.field.SpawnBurst()
		return a.requestSpawn()

	case PointerMsg:
		return a.pointer(msg)

	case TouchMsg:
		a.touch(msg)

	case ResizeMsg:
		if !a.mounted {
			return nil
		}
		a.field.Resize(msg.W, msg.H)
		a.log.Debug("resized", zap.Int("width", msg.W), zap.Int("height", msg.H), zap.Int("particles", a.field.Len()))
		if a.opts.ReducedMotion {
			a.drawStatic()
		}
	}
	return nil
}

func (a *Animator) pointer(msg PointerMsg) tea.Cmd {
	if !a.mounted {
		return nil
	}
	var cmd tea.Cmd
	switch msg.Kind {
	case PointerMove:
		a.field.PointerMove(msg.X, msg.Y)
		if a.cursor != nil {
			a.cursor.Target(msg.X, msg.Y)
		}
	case PointerDown:
		a.field.PointerMove(msg.X, msg.Y)
		a.field.PointerDown()
		if !a.spawning && !a.paused && !a.opts.ReducedMotion {
			a.spawning = true
			a.spawnGen++
			cmd = a.requestSpawn()
		}
	case PointerUp:
		a.field.PointerUp()
		a.stopSpawning()
	case PointerLeave:
		a.field.PointerLeave()
		a.stopSpawning()
		if a.cursor != nil {
			a.cursor.Hide()
		}
	}
	if a.opts.ReducedMotion {
		a.drawStatic()
	}
	return cmd
}

func (a *Animator) touch(msg TouchMsg) {
	if !a.mounted {
		return
	}
	switch msg.Kind {
	case TouchMove:
		a.field.TouchMove(msg.X, msg.Y)
	case TouchEnd:
		a.field.TouchEnd()
	}
	// The pointer cursor has no meaning on touch input.
	if a.cursor != nil {
		a.cursor.Hide()
	}
	if a.opts.ReducedMotion {
		a.drawStatic()
	}
}

func (a *Animator) frame() {
	start := time.Now()
	a.field.Frame(a.surface)
	a.drawCursor(true)
	a.frames++
	a.recordFrameTime(time.Since(start))
}

// drawStatic paints a fully revealed, motionless frame.
func (a *Animator) drawStatic() {
	a.field.Reveal()
	a.field.Draw(a.surface)
	a.drawCursor(false)
	a.frames++
}

func (a *Animator) drawCursor(step bool) {
	if a.cursor == nil {
		return
	}
	if step {
		a.cursor.Step()
	}
	palette := a.field.Palette()
	primary, secondary := palette[0], palette[len(palette)-1]
	a.cursor.Draw(a.surface, primary, secondary)
}

func (a *Animator) recordFrameTime(d time.Duration) {
	a.frameTimes = append(a.frameTimes, float64(d.Microseconds())/1000)
	if len(a.frameTimes) > frameTimeCapacity {
		a.frameTimes = a.frameTimes[1:]
	}
}
