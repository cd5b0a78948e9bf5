package export

import (
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftfield/internal/anim"
)

// Event is one scripted input at an offset from the start of a recording.
type Event struct {
	At   time.Duration `yaml:"at"`
	Kind string        `yaml:"kind"`
	X    float64       `yaml:"x"`
	Y    float64       `yaml:"y"`
	W    int           `yaml:"w"`
	H    int           `yaml:"h"`
}

// Script is a YAML list of input events, e.g.
//
//	events:
//	  - {at: 500ms, kind: move, x: 300, y: 200}
//	  - {at: 1s, kind: down, x: 300, y: 200}
//	  - {at: 2s, kind: up}
type Script struct {
	Events []Event `yaml:"events"`
}

var eventKinds = map[string]bool{
	"move": true, "down": true, "up": true, "leave": true,
	"touch": true, "touchend": true, "resize": true,
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a script and orders its events by time.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	for i, ev := range s.Events {
		if !eventKinds[ev.Kind] {
			return nil, fmt.Errorf("%w: event %d: unknown kind %q", ErrInvalidScript, i, ev.Kind)
		}
		if ev.At < 0 {
			return nil, fmt.Errorf("%w: event %d: negative time %v", ErrInvalidScript, i, ev.At)
		}
	}
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].At < s.Events[j].At })
	return &s, nil
}

// Msg converts the event to the animator message it stands for.
func (e Event) Msg() tea.Msg {
	switch e.Kind {
	case "move":
		return anim.PointerMsg{Kind: anim.PointerMove, X: e.X, Y: e.Y}
	case "down":
		return anim.PointerMsg{Kind: anim.PointerDown, X: e.X, Y: e.Y}
	case "up":
		return anim.PointerMsg{Kind: anim.PointerUp, X: e.X, Y: e.Y}
	case "leave":
		return anim.PointerMsg{Kind: anim.PointerLeave}
	case "touch":
		return anim.TouchMsg{Kind: anim.TouchMove, X: e.X, Y: e.Y}
	case "touchend":
		return anim.TouchMsg{Kind: anim.TouchEnd}
	case "resize":
		return anim.ResizeMsg{W: e.W, H: e.H}
	}
	return nil
}
