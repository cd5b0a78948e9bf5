package export

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/anim"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
)

// Options controls a headless recording.
type Options struct {
	Duration time.Duration
	// CaptureEvery keeps every Nth rendered frame for the GIF; 0 keeps none.
	CaptureEvery int
	Script       *Script
}

type Result struct {
	Frames    int
	Captured  int
	Width     int
	Height    int
	Stats     anim.Stats
	Particles []field.Particle
}

// Driver runs an animator against a Raster on a virtual clock, so a
// recording of any length completes as fast as the CPU allows and is
// reproducible for a given seed and script.
type Driver struct {
	anim   *anim.Animator
	raster *Raster
	fps    int
	log    *zap.Logger
}

func NewDriver(cfg *config.Config, seed int64, log *zap.Logger) (*Driver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := field.New(cfg.Field, seed)
	if err != nil {
		return nil, err
	}
	raster := NewRaster(cfg.Render.Width, cfg.Render.Height, cfg.BackgroundColor(), f.Palette())
	a := anim.New(f, raster, anim.DeferredScheduler{}, anim.Options{
		FPS:           cfg.Motion.FPS,
		SpawnInterval: cfg.SpawnInterval(),
		ReducedMotion: cfg.Motion.Reduced,
		Cursor:        cfg.Render.Cursor,
		Logger:        log,
	})
	return &Driver{anim: a, raster: raster, fps: cfg.Motion.FPS, log: log.Named("export")}, nil
}

func (d *Driver) Raster() *Raster { return d.raster }

func (d *Driver) Field() *field.Field { return d.anim.Field() }

// Snapshot draws the current state, without advancing it, onto s.
func (d *Driver) Snapshot(s field.Surface) { d.anim.Field().Draw(s) }

// Run mounts the field, replays the script and fires frames until Duration
// of virtual time has passed. The animator is unmounted on return.
func (d *Driver) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Unix(0, 0).UTC()
	end := start.Add(opts.Duration)
	step := time.Second / time.Duration(max(d.fps, 1))
	pump := anim.NewPump(d.anim, start)
	defer d.anim.Unmount()

	w, h := d.raster.Size()
	pump.Exec(d.anim.Mount(w, h))

	var events []Event
	if opts.Script != nil {
		events = opts.Script.Events
	}

	lastFrames := 0
	for t := start; !t.After(end); t = t.Add(step) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for len(events) > 0 && !start.Add(events[0].At).After(t) {
			ev := events[0]
			events = events[1:]
			pump.Advance(start.Add(ev.At))
			msg := ev.Msg()
			if r, ok := msg.(anim.ResizeMsg); ok {
				d.raster.Resize(r.W, r.H)
			}
			pump.Send(msg)
		}
		pump.Advance(t)

		frames := d.anim.Stats().Frames
		if frames != lastFrames {
			lastFrames = frames
			if opts.CaptureEvery > 0 && frames%opts.CaptureEvery == 0 {
				d.raster.Capture()
			}
		}
	}

	w, h = d.anim.Field().Size()
	res := &Result{
		Frames:    lastFrames,
		Captured:  d.raster.Frames(),
		Width:     w,
		Height:    h,
		Stats:     d.anim.Stats(),
		Particles: d.anim.Field().Particles(),
	}
	d.log.Info("recording finished",
		zap.Int("frames", res.Frames),
		zap.Int("captured", res.Captured),
		zap.Int("particles", len(res.Particles)))
	return res, nil
}
