package field

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultDensity      = 12000.0
	DefaultLinkDistance = 150.0
	DefaultMaxSpeed     = 0.5
	DefaultMargin       = 100.0
	DefaultFadeStep     = 0.02
	DefaultMinRadius    = 1.0
	DefaultMaxRadius    = 3.0
	DefaultSpawnBurst   = 3
	DefaultLinkWidth    = 0.5
	DefaultLinkAlpha    = 0.2
)

// DefaultPalette is the cyan/violet pair of the portfolio theme.
var DefaultPalette = []string{"#00f0ff", "#bd00ff"}

// Config holds the tunables of a field. Zero values are not defaults; use
// DefaultConfig and override.
type Config struct {
	Density      float64  `yaml:"density"`
	LinkDistance float64  `yaml:"link_distance"`
	MaxSpeed     float64  `yaml:"max_speed"`
	Margin       float64  `yaml:"margin"`
	FadeStep     float64  `yaml:"fade_step"`
	MinRadius    float64  `yaml:"min_radius"`
	MaxRadius    float64  `yaml:"max_radius"`
	Palette      []string `yaml:"palette"`
	SpawnBurst   int      `yaml:"spawn_burst"`
	LinkWidth    float64  `yaml:"link_width"`
	LinkAlpha    float64  `yaml:"link_alpha"`
	Glow         bool     `yaml:"glow"`
	Trail        float64  `yaml:"trail"`
	UseGrid      bool     `yaml:"use_grid"`
}

func DefaultConfig() Config {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return Config{
		Density:      DefaultDensity,
		LinkDistance: DefaultLinkDistance,
		MaxSpeed:     DefaultMaxSpeed,
		Margin:       DefaultMargin,
		FadeStep:     DefaultFadeStep,
		MinRadius:    DefaultMinRadius,
		MaxRadius:    DefaultMaxRadius,
		Palette:      palette,
		SpawnBurst:   DefaultSpawnBurst,
		LinkWidth:    DefaultLinkWidth,
		LinkAlpha:    DefaultLinkAlpha,
	}
}

// Validate checks every range constraint and reports the first violation.
func (c Config) Validate() error {
	switch {
	case c.Density <= 0:
		return fmt.Errorf("%w: density must be positive, got %g", ErrInvalidConfig, c.Density)
	case c.LinkDistance <= 0:
		return fmt.Errorf("%w: link_distance must be positive, got %g", ErrInvalidConfig, c.LinkDistance)
	case c.MaxSpeed < 0:
		return fmt.Errorf("%w: max_speed must be >= 0, got %g", ErrInvalidConfig, c.MaxSpeed)
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must be >= 0, got %g", ErrInvalidConfig, c.Margin)
	case c.FadeStep <= 0 || c.FadeStep > 1:
		return fmt.Errorf("%w: fade_step must be in (0, 1], got %g", ErrInvalidConfig, c.FadeStep)
	case c.MinRadius <= 0 || c.MaxRadius < c.MinRadius:
		return fmt.Errorf("%w: radius range [%g, %g]", ErrInvalidConfig, c.MinRadius, c.MaxRadius)
	case c.SpawnBurst < 0:
		return fmt.Errorf("%w: spawn_burst must be >= 0, got %d", ErrInvalidConfig, c.SpawnBurst)
	case c.LinkAlpha <= 0 || c.LinkAlpha > 1:
		return fmt.Errorf("%w: link_alpha must be in (0, 1], got %g", ErrInvalidConfig, c.LinkAlpha)
	case c.Trail < 0 || c.Trail > 1:
		return fmt.Errorf("%w: trail must be in [0, 1], got %g", ErrInvalidConfig, c.Trail)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	}
	_, err := ParsePalette(c.Palette)
	return err
}

// ParsePalette converts hex strings into colors.
func ParsePalette(hex []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, h)
		}
		out = append(out, c)
	}
	return out, nil
}
