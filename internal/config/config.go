package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftfield/internal/field"
)

const (
	DefaultFPS             = 60
	DefaultSpawnIntervalMs = 50
	DefaultDotSize         = 6.0
	DefaultTheme           = "cyberpunk"
	DefaultBackground      = "#0a0e27"
	DefaultWidth           = 1200
	DefaultHeight          = 800
	DefaultLogLevel        = "info"
	DefaultLogFile         = "driftfield.log"
)

// ErrInvalidConfig wraps every validation failure outside the field section.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Seed   int64        `yaml:"seed"`
	Field  field.Config `yaml:"field"`
	Motion MotionConfig `yaml:"motion"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

type MotionConfig struct {
	FPS             int  `yaml:"fps"`
	SpawnIntervalMs int  `yaml:"spawn_interval_ms"`
	Reduced         bool `yaml:"reduced"`
}

type RenderConfig struct {
	// DotSize is the number of field pixels per braille dot in the terminal.
	DotSize   float64 `yaml:"dot_size"`
	Theme     string  `yaml:"theme"`
	Scanlines bool    `yaml:"scanlines"`
	Cursor    bool    `yaml:"cursor"`
	// Background is what trails fade into outside the terminal.
	Background string `yaml:"background"`
	// Width and Height size the window and headless recordings.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Field: field.DefaultConfig(),
		Motion: MotionConfig{
			FPS:             DefaultFPS,
			SpawnIntervalMs: DefaultSpawnIntervalMs,
		},
		Render: RenderConfig{
			DotSize:    DefaultDotSize,
			Theme:      DefaultTheme,
			Scanlines:  true,
			Cursor:     true,
			Background: DefaultBackground,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Format:     "json",
			File:       DefaultLogFile,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads path over base, so keys the file leaves out keep the
// values base already has. base is modified and returned.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	switch {
	case c.Motion.FPS <= 0 || c.Motion.FPS > 240:
		return fmt.Errorf("%w: fps must be in [1, 240], got %d", ErrInvalidConfig, c.Motion.FPS)
	case c.Motion.SpawnIntervalMs <= 0:
		return fmt.Errorf("%w: spawn_interval_ms must be positive, got %d", ErrInvalidConfig, c.Motion.SpawnIntervalMs)
	case c.Render.DotSize <= 0:
		return fmt.Errorf("%w: dot_size must be positive, got %g", ErrInvalidConfig, c.Render.DotSize)
	case c.Render.Width < 0 || c.Render.Height < 0:
		return fmt.Errorf("%w: negative render size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	if _, err := colorful.Hex(c.Render.Background); err != nil {
		return fmt.Errorf("%w: background %q: %v", ErrInvalidConfig, c.Render.Background, err)
	}
	return nil
}

// BackgroundColor returns the parsed background. Validate has already
// rejected anything unparseable, so errors fall back to black.
func (c *Config) BackgroundColor() colorful.Color {
	bg, err := colorful.Hex(c.Render.Background)
	if err != nil {
		return colorful.Color{}
	}
	return bg
}

func (c *Config) SpawnInterval() time.Duration {
	return time.Duration(c.Motion.SpawnIntervalMs) * time.Millisecond
}
