package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/driftfield/internal/config"
)

var presetInfo = map[string]string{
	"default": "site defaults",
	"dense":   "tight web of links",
	"sparse":  "long reaching links",
	"trails":  "fading trails with glow",
	"calm":    "slow drift",
	"swarm":   "fast, grid-accelerated",
	"still":   "reduced motion",
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00f0ff")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5a6088"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00f0ff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bd00ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// launcher lists the presets and hands over to a live Model once one is
// picked. Render, log and seed settings come from the base configuration.
type launcher struct {
	base          *config.Config
	log           *zap.Logger
	presets       []string
	cursor        int
	started       bool
	live          Model
	width, height int
	err           error
}

func NewLauncher(base *config.Config, log *zap.Logger) tea.Model {
	return launcher{base: base, log: log, presets: config.ListPresets()}
}

func (m launcher) Init() tea.Cmd { return nil }

func (m launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.started {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m launcher) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.presets[m.cursor])
	cfg.Render, cfg.Log, cfg.Seed = m.base.Render, m.base.Log, m.base.Seed
	live, err := NewModel(cfg, m.log, nil)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.started = true
	cmds := []tea.Cmd{live.Init()}
	if m.width > 0 {
		next, cmd := live.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		live = next.(Model)
		cmds = append(cmds, cmd)
	}
	m.live = live
	return m, tea.Batch(cmds...)
}

func (m launcher) View() string {
	if m.started {
		return m.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("DRIFTFIELD") + "\n    " + menuSub.Render("particle field") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + menuDesc.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" start  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}
