package config

import "sort"

// Presets tweak the default configuration.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"dense": func(c *Config) {
		c.Field.Density = 6000
		c.Field.LinkDistance = 110
	},
	"sparse": func(c *Config) {
		c.Field.Density = 24000
		c.Field.LinkDistance = 220
	},
	"trails": func(c *Config) {
		c.Field.Trail = 0.1
		c.Field.Glow = true
	},
	"calm": func(c *Config) {
		c.Field.MaxSpeed = 0.2
		c.Field.FadeStep = 0.005
		c.Render.Scanlines = false
	},
	"swarm": func(c *Config) {
		c.Field.Density = 2500
		c.Field.LinkDistance = 90
		c.Field.MaxSpeed = 1.2
		c.Field.UseGrid = true
	},
	"still": func(c *Config) {
		c.Motion.Reduced = true
	},
}

// GetPreset returns the default configuration with the named preset applied,
// or nil for an unknown name.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
