//go:build js && wasm

// Command driftfield-wasm runs the particle field on a page canvas.
//
// The page provides <canvas id="driftfield">; data-preset and data-seed
// attributes pick the configuration. Calling driftfieldStop() from script,
// or leaving the page, tears the field down.
package main

import (
	"os"
	"strconv"
	"syscall/js"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/driftfield/internal/anim"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/observability"
)

const canvasID = "driftfield"

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

type host struct {
	anim    *anim.Animator
	surface *canvasSurface
	canvas  js.Value
	log     *zap.Logger

	listeners []listener

	frame   func(time.Time) tea.Msg
	frameID js.Value
	frameCb js.Func
	timers  map[int]js.Func

	stopped bool
	done    chan struct{}
}

func main() {
	cfg := pageConfig()

	logger, err := observability.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"}, "", zapcore.AddSync(os.Stdout))
	if err != nil {
		return
	}
	defer logger.Close()

	canvas := js.Global().Get("document").Call("getElementById", canvasID)
	if canvas.IsNull() || canvas.IsUndefined() {
		logger.Error("canvas not found", zap.String("id", canvasID))
		return
	}

	h, err := newHost(canvas, cfg, logger.Logger)
	if err != nil {
		logger.Error("field setup failed", zap.Error(err))
		return
	}
	h.start()
	<-h.done
}

// pageConfig reads the canvas data attributes and the reduced-motion media
// query over the defaults.
func pageConfig() *config.Config {
	cfg := config.DefaultConfig()
	canvas := js.Global().Get("document").Call("getElementById", canvasID)
	if canvas.Truthy() {
		ds := canvas.Get("dataset")
		if p := ds.Get("preset"); p.Truthy() {
			if preset := config.GetPreset(p.String()); preset != nil {
				cfg = preset
			}
		}
		if s := ds.Get("seed"); s.Truthy() {
			if n, err := strconv.ParseInt(s.String(), 10, 64); err == nil {
				cfg.Seed = n
			}
		}
	}
	if mm := js.Global().Get("matchMedia"); mm.Truthy() {
		if js.Global().Call("matchMedia", "(prefers-reduced-motion: reduce)").Get("matches").Bool() {
			cfg.Motion.Reduced = true
		}
	}
	return cfg
}

func newHost(canvas js.Value, cfg *config.Config, log *zap.Logger) (*host, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f, err := field.New(cfg.Field, seed)
	if err != nil {
		return nil, err
	}

	h := &host{
		surface: newCanvasSurface(canvas, cfg.BackgroundColor()),
		canvas:  canvas,
		log:     log.Named("wasm"),
		timers:  make(map[int]js.Func),
		done:    make(chan struct{}),
	}
	h.anim = anim.New(f, h.surface, anim.DeferredScheduler{}, anim.Options{
		FPS:           cfg.Motion.FPS,
		SpawnInterval: cfg.SpawnInterval(),
		ReducedMotion: cfg.Motion.Reduced,
		Cursor:        cfg.Render.Cursor,
		Logger:        log,
	})
	h.frameCb = js.FuncOf(func(js.Value, []js.Value) any {
		h.frameID = js.Undefined()
		fire := h.frame
		h.frame = nil
		if fire != nil {
			h.send(fire(time.Now()))
		}
		return nil
	})
	return h, nil
}

func (h *host) start() {
	w, ht := h.viewport()
	h.surface.resize(w, ht)
	h.exec(h.anim.Mount(w, ht))

	win := js.Global().Get("window")
	h.listen(win, "resize", func(js.Value) {
		w, ht := h.viewport()
		h.surface.resize(w, ht)
		h.send(anim.ResizeMsg{W: w, H: ht})
	})
	h.listen(h.canvas, "mousemove", func(e js.Value) {
		h.send(anim.PointerMsg{Kind: anim.PointerMove, X: e.Get("offsetX").Float(), Y: e.Get("offsetY").Float()})
	})
	h.listen(h.canvas, "mousedown", func(e js.Value) {
		h.send(anim.PointerMsg{Kind: anim.PointerDown, X: e.Get("offsetX").Float(), Y: e.Get("offsetY").Float()})
	})
	h.listen(h.canvas, "mouseup", func(js.Value) {
		h.send(anim.PointerMsg{Kind: anim.PointerUp})
	})
	h.listen(h.canvas, "mouseleave", func(js.Value) {
		h.send(anim.PointerMsg{Kind: anim.PointerLeave})
	})
	h.listen(h.canvas, "touchmove", func(e js.Value) {
		touches := e.Get("touches")
		if touches.Length() == 0 {
			return
		}
		t := touches.Index(0)
		rect := h.canvas.Call("getBoundingClientRect")
		h.send(anim.TouchMsg{
			Kind: anim.TouchMove,
			X:    t.Get("clientX").Float() - rect.Get("left").Float(),
			Y:    t.Get("clientY").Float() - rect.Get("top").Float(),
		})
	})
	h.listen(h.canvas, "touchend", func(js.Value) {
		h.send(anim.TouchMsg{Kind: anim.TouchEnd})
	})
	h.listen(win, "pagehide", func(js.Value) { h.stop() })

	stop := js.FuncOf(func(js.Value, []js.Value) any {
		h.stop()
		return nil
	})
	js.Global().Set("driftfieldStop", stop)
	h.listeners = append(h.listeners, listener{fn: stop})

	fw, fh := h.anim.Field().Size()
	h.log.Info("mounted", zap.Int("width", fw), zap.Int("height", fh), zap.Int("particles", h.anim.Field().Len()))
}

// viewport is the canvas's laid-out size, or the window when the canvas
// has no layout yet.
func (h *host) viewport() (int, int) {
	w, ht := h.canvas.Get("clientWidth").Int(), h.canvas.Get("clientHeight").Int()
	if w == 0 || ht == 0 {
		win := js.Global().Get("window")
		w, ht = win.Get("innerWidth").Int(), win.Get("innerHeight").Int()
	}
	return w, ht
}

func (h *host) listen(target js.Value, event string, fn func(js.Value)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if h.stopped || len(args) == 0 {
			return nil
		}
		fn(args[0])
		return nil
	})
	target.Call("addEventListener", event, cb)
	h.listeners = append(h.listeners, listener{target: target, event: event, fn: cb})
}

func (h *host) send(msg tea.Msg) {
	if h.stopped {
		return
	}
	h.exec(h.anim.Update(msg))
}

// exec runs cmd the way anim.Pump does, except that frames wait for the
// browser's next paint and other requests go through setTimeout.
func (h *host) exec(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case anim.Deferred:
			h.schedule(msg)
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, h.anim.Update(msg))
		}
	}
}

func (h *host) schedule(d anim.Deferred) {
	if h.stopped {
		return
	}
	if d.Frame {
		// one frame is outstanding at a time; a newer request replaces it
		h.frame = d.Fire
		if h.frameID.IsUndefined() || h.frameID.IsNull() {
			h.frameID = js.Global().Call("requestAnimationFrame", h.frameCb)
		}
		return
	}

	var cb js.Func
	var id int
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		delete(h.timers, id)
		cb.Release()
		h.send(d.Fire(time.Now()))
		return nil
	})
	id = js.Global().Call("setTimeout", cb, d.Delay.Milliseconds()).Int()
	h.timers[id] = cb
}

// stop unmounts the field and releases every browser handle it holds.
func (h *host) stop() {
	if h.stopped {
		return
	}
	h.anim.Unmount()
	h.stopped = true

	if !h.frameID.IsUndefined() && !h.frameID.IsNull() {
		js.Global().Call("cancelAnimationFrame", h.frameID)
	}
	h.frameCb.Release()

	for id, cb := range h.timers {
		js.Global().Call("clearTimeout", id)
		cb.Release()
	}
	h.timers = nil

	for _, l := range h.listeners {
		if l.event != "" {
			l.target.Call("removeEventListener", l.event, l.fn)
		}
		l.fn.Release()
	}
	h.listeners = nil
	js.Global().Delete("driftfieldStop")

	h.log.Info("stopped", zap.Int("frames", h.anim.Stats().Frames))
	close(h.done)
}
