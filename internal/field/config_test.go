package field

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero density", func(c *Config) { c.Density = 0 }, ErrInvalidConfig},
		{"negative link distance", func(c *Config) { c.LinkDistance = -1 }, ErrInvalidConfig},
		{"negative speed", func(c *Config) { c.MaxSpeed = -0.1 }, ErrInvalidConfig},
		{"negative margin", func(c *Config) { c.Margin = -5 }, ErrInvalidConfig},
		{"zero fade", func(c *Config) { c.FadeStep = 0 }, ErrInvalidConfig},
		{"fade above one", func(c *Config) { c.FadeStep = 1.5 }, ErrInvalidConfig},
		{"inverted radius", func(c *Config) { c.MinRadius, c.MaxRadius = 3, 1 }, ErrInvalidConfig},
		{"negative burst", func(c *Config) { c.SpawnBurst = -1 }, ErrInvalidConfig},
		{"trail above one", func(c *Config) { c.Trail = 2 }, ErrInvalidConfig},
		{"empty palette", func(c *Config) { c.Palette = nil }, ErrInvalidConfig},
		{"bad color", func(c *Config) { c.Palette = []string{"cyan"} }, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if _, err := New(cfg, 1); err == nil {
				t.Error("New should reject invalid config")
			}
		})
	}
}

func TestExpectedCount(t *testing.T) {
	tests := []struct {
		w, h    int
		density float64
		want    int
	}{
		{1200, 800, 12000, 80},
		{600, 400, 12000, 20},
		{100, 100, 12000, 0},
		{-10, 100, 12000, 0},
		{100, 100, 0, 0},
	}
	for _, tt := range tests {
		if got := ExpectedCount(tt.w, tt.h, tt.density); got != tt.want {
			t.Errorf("ExpectedCount(%d, %d, %g) = %d, want %d", tt.w, tt.h, tt.density, got, tt.want)
		}
	}
}
