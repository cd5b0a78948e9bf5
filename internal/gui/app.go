package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/anim"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
)

var (
	ColBg      = rl.NewColor(10, 14, 39, 255)
	ColText    = rl.NewColor(140, 150, 190, 255)
	ColTextDim = rl.NewColor(60, 66, 100, 255)
	ColAccent  = rl.NewColor(0, 240, 255, 255)
	ColWarn    = rl.NewColor(255, 136, 0, 255)
)

// Options adjusts the window beyond what the config file covers.
type Options struct {
	// Touch polls touch points as touch input. Off by default because
	// desktop backends report the left mouse button as a touch point.
	Touch bool
}

type App struct {
	cfg       *config.Config
	opts      Options
	anim      *anim.Animator
	pump      *anim.Pump
	surface   *Surface
	input     *inputTracker
	log       *zap.Logger
	font      rl.Font
	scanlines bool
}

func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "driftfield")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the field and animator. The window must already be open.
func NewApp(cfg *config.Config, opts Options, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := field.New(cfg.Field, seed(cfg))
	if err != nil {
		return nil, err
	}
	a := anim.New(f, nil, anim.DeferredScheduler{}, anim.Options{
		FPS:           cfg.Motion.FPS,
		SpawnInterval: cfg.SpawnInterval(),
		ReducedMotion: cfg.Motion.Reduced,
		Cursor:        cfg.Render.Cursor,
		Logger:        log,
	})
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	app := &App{
		cfg:       cfg,
		opts:      opts,
		anim:      a,
		pump:      anim.NewPump(a, time.Now()),
		surface:   NewSurface(w, h, toRL(cfg.BackgroundColor(), 1)),
		input:     newInputTracker(opts.Touch),
		log:       log.Named("gui"),
		font:      loadFont(),
		scanlines: cfg.Render.Scanlines,
	}
	a.SetSurface(app.surface)
	return app, nil
}

func seed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// Run opens a window, animates until it is closed and tears down cleanly.
func Run(cfg *config.Config, opts Options, log *zap.Logger) error {
	initWindow(cfg.Render.Width, cfg.Render.Height, cfg.Motion.FPS)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, opts, log)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	a.surface.Begin()
	a.pump.Exec(a.anim.Mount(a.surface.Size()))
	a.surface.End()
	a.log.Info("window open", zap.Int("particles", a.anim.Field().Len()))

	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Close stops the animation and frees GPU resources.
func (a *App) Close() {
	a.anim.Unmount()
	a.pump.Reset()
	a.surface.Unload()
	a.log.Info("window closed", zap.Int("frames", a.anim.Stats().Frames))
}

func pollInput() InputState {
	mouse := rl.GetMousePosition()
	touch := rl.GetTouchPosition(0)
	return InputState{
		MouseX:   float64(mouse.X),
		MouseY:   float64(mouse.Y),
		OnScreen: rl.IsCursorOnScreen() && rl.IsWindowFocused(),
		Pressed:  rl.IsMouseButtonPressed(rl.MouseLeftButton),
		Released: rl.IsMouseButtonReleased(rl.MouseLeftButton),
		Touches:  int(rl.GetTouchPointCount()),
		TouchX:   float64(touch.X),
		TouchY:   float64(touch.Y),
		Width:    int(rl.GetScreenWidth()),
		Height:   int(rl.GetScreenHeight()),
	}
}

// Update feeds input to the animator and fires every due frame into the
// render texture. It returns false once the user asked to quit.
func (a *App) Update() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return false
	case rl.IsKeyPressed(rl.KeySpace):
		if a.anim.Paused() {
			a.pump.Exec(a.anim.Resume())
		} else {
			a.anim.Pause()
		}
	case rl.IsKeyPressed(rl.KeyR):
		a.pump.Exec(a.anim.Restart())
	case rl.IsKeyPressed(rl.KeyG):
		f := a.anim.Field()
		f.SetGlow(!f.Config().Glow)
	case rl.IsKeyPressed(rl.KeyS):
		a.scanlines = !a.scanlines
	}

	for _, msg := range a.input.poll(pollInput()) {
		if r, ok := msg.(anim.ResizeMsg); ok {
			a.surface.Resize(r.W, r.H)
		}
		a.surface.Begin()
		a.pump.Send(msg)
		a.surface.End()
	}

	a.surface.Begin()
	a.pump.Advance(time.Now())
	a.surface.End()
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.surface.Blit()
	if a.scanlines {
		a.DrawScanlines()
	}
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	st := a.anim.Stats()
	w, h := a.surface.Size()

	a.drawText("driftfield", 30, 30, 24, ColAccent)
	a.drawText(fmt.Sprintf(":: %d particles  %d links", st.Particles, st.Links), 170, 34, 16, ColText)

	status, col := "LIVE", ColAccent
	if a.anim.Paused() {
		status, col = "PAUSED", ColWarn
	}
	a.drawText(status, w-110, 30, 16, col)

	a.DrawTelemetry(st.FrameTimes, 30, h-100, 300, 50)
	a.drawText("[SPACE] PAUSE  [R] RESEED  [G] GLOW  [S] SCANLINES  [Q] QUIT", w-580, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-40, 14, ColTextDim)
}

// DrawTelemetry plots frame times as a line strip.
func (a *App) DrawTelemetry(values []float64, x, y, width, height int) {
	if len(values) < 2 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := float32(x) + float32(i)/float32(len(values))*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, rl.ColorAlpha(ColAccent, 0.6))
	a.drawText(fmt.Sprintf("%.2f ms", values[len(values)-1]), x+width+10, y+height-10, 14, ColText)
}

func (a *App) DrawScanlines() {
	w, h := a.surface.Size()
	for y := 0; y < h; y += 4 {
		rl.DrawRectangle(0, int32(y), int32(w), 2, rl.NewColor(0, 0, 0, 40))
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
