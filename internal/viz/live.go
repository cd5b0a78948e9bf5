package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/anim"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
)

const (
	panelWidth = 36
	// canvas sits below the one-line header, flush left.
	canvasTop  = 1
	canvasLeft = 0
	minCols    = 10
	minRows    = 4
)

type reloadMsg config.Reload

// Model is the terminal host: it owns the braille canvas and forwards
// terminal input to the animator as pointer events.
type Model struct {
	cfg     *config.Config
	anim    *anim.Animator
	canvas  *Canvas
	theme   Theme
	styles  styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	log     *zap.Logger
	reloads <-chan config.Reload

	booted        bool
	inside        bool
	scanlines     bool
	width, height int
	notice        string
}

// NewModel builds the field described by cfg. The canvas is created on the
// first window size message, so nothing animates before the terminal
// reports its size. reloads may be nil.
func NewModel(cfg *config.Config, log *zap.Logger, reloads <-chan config.Reload) (Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := field.New(cfg.Field, Seed(cfg))
	if err != nil {
		return Model{}, err
	}
	a := anim.New(f, nil, anim.TeaScheduler{}, anim.Options{
		FPS:           cfg.Motion.FPS,
		SpawnInterval: cfg.SpawnInterval(),
		ReducedMotion: cfg.Motion.Reduced,
		Cursor:        cfg.Render.Cursor,
		Logger:        log,
	})
	theme := GetTheme(cfg.Render.Theme)
	st := newStyles(theme)
	return Model{
		cfg:       cfg,
		anim:      a,
		theme:     theme,
		styles:    st,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.loader)),
		log:       log.Named("viz"),
		reloads:   reloads,
		scanlines: cfg.Render.Scanlines,
	}, nil
}

// Seed returns cfg.Seed, or a time-based seed when it is unset.
func Seed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func (m Model) Animator() *anim.Animator { return m.anim }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForReload(m.reloads))
}

func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		cmd := m.resize(msg.Width, msg.Height)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.mouse(msg)
		return m, cmd

	case tea.BlurMsg:
		cmd := m.leave()
		return m, cmd

	case spinner.TickMsg:
		if m.booted {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reloadMsg:
		cmd := m.applyReload(config.Reload(msg))
		return m, tea.Batch(cmd, waitForReload(m.reloads))

	case anim.FrameMsg, anim.SpawnMsg:
		return m, m.anim.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.anim.Unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		if m.anim.Paused() {
			return m, m.anim.Resume()
		}
		m.anim.Pause()
	case key.Matches(msg, m.keys.Reseed):
		return m, m.anim.Restart()
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
		m.spinner.Style = m.styles.loader
	case key.Matches(msg, m.keys.Glow):
		f := m.anim.Field()
		f.SetGlow(!f.Config().Glow)
	case key.Matches(msg, m.keys.Scanlines):
		m.scanlines = !m.scanlines
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func canvasDims(w, h int) (int, int) {
	return max(w-panelWidth-canvasLeft, minCols), max(h-canvasTop-1, minRows)
}

func (m *Model) resize(w, h int) tea.Cmd {
	m.width, m.height = w, h
	cols, rows := canvasDims(w, h)
	if m.canvas == nil {
		m.canvas = NewCanvas(cols, rows, m.cfg.Render.DotSize)
		m.anim.SetSurface(m.canvas)
		m.booted = true
		return m.anim.Mount(m.canvas.Size())
	}
	m.canvas.Resize(cols, rows)
	fw, fh := m.canvas.Size()
	return m.anim.Update(anim.ResizeMsg{W: fw, H: fh})
}

func (m *Model) mouse(msg tea.MouseMsg) tea.Cmd {
	if m.canvas == nil {
		return nil
	}
	col, row := msg.X-canvasLeft, msg.Y-canvasTop
	if !m.canvas.Contains(col, row) {
		return m.leave()
	}
	m.inside = true
	x, y := m.canvas.ToField(col, row)
	kind := anim.PointerMove
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		kind = anim.PointerDown
	case tea.MouseActionRelease:
		kind = anim.PointerUp
	}
	return m.anim.Update(anim.PointerMsg{Kind: kind, X: x, Y: y})
}

func (m *Model) leave() tea.Cmd {
	if !m.inside {
		return nil
	}
	m.inside = false
	return m.anim.Update(anim.PointerMsg{Kind: anim.PointerLeave})
}

func (m *Model) applyReload(r config.Reload) tea.Cmd {
	if r.Err != nil {
		m.notice = "reload failed"
		m.log.Warn("config reload rejected", zap.Error(r.Err))
		return nil
	}
	f, err := field.New(r.Config.Field, Seed(r.Config))
	if err != nil {
		m.notice = "reload failed"
		m.log.Warn("config reload rejected", zap.Error(err))
		return nil
	}
	m.cfg.Field = r.Config.Field
	m.notice = "config reloaded"
	m.log.Info("field reloaded", zap.Float64("density", r.Config.Field.Density))
	return m.anim.Replace(f)
}

func (m Model) View() string {
	if !m.booted {
		return "\n\n    " + m.spinner.View() + " " + m.styles.loader.Render("initializing field") + "\n"
	}

	header := GradientText("DRIFTFIELD", m.theme.Primary, m.theme.Secondary)
	canvasView := m.canvas.Render(m.theme.Canvas(), m.scanlines)
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.panel())
	return header + "\n" + mainView + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) panel() string {
	st := m.anim.Stats()
	var s strings.Builder

	status := m.styles.running.Render("LIVE")
	switch {
	case m.anim.Paused():
		status = m.styles.paused.Render("PAUSED")
	case m.cfg.Motion.Reduced:
		status = m.styles.paused.Render("STILL")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("particles", fmt.Sprintf("%d", st.Particles))
	row("links", fmt.Sprintf("%d", st.Links))
	row("frames", fmt.Sprintf("%d", st.Frames))
	if n := len(st.FrameTimes); n > 0 {
		row("frame", fmt.Sprintf("%.2fms", st.FrameTimes[n-1]))
	}
	fc := m.anim.Field().Config()
	row("glow", onOff(fc.Glow))
	row("scanlines", onOff(m.scanlines))
	row("theme", m.theme.Name)

	if len(st.FrameTimes) > 1 {
		chart := asciigraph.Plot(st.FrameTimes,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("frame ms"))
		s.WriteString("\n" + m.styles.graph.Render(chart) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + m.styles.warning.Render(m.notice) + "\n")
	}
	if m.help.ShowAll {
		s.WriteString("\n" + Separator(panelWidth-4, m.styles.muted) + "\n")
		s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return m.styles.panel.Render(s.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the terminal host and blocks until the user quits.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
