package config

import "sort"

// Presets are named starting points, each a full config
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"classic": classicConfig,
	"fast": func() *Config {
		cfg := DefaultConfig()
		cfg.Cycle.Duration = 2
		return cfg
	},
	"lowres": func() *Config {
		cfg := DefaultConfig()
		cfg.Reflection.Resolution = 16
		cfg.Reflection.UpdateEveryFrame = false
		return cfg
	},
}

// classicConfig is the half-turn cycle with fixed sun and moon colors and
// no intensity control
func classicConfig() *Config {
	cfg := DefaultConfig()
	cfg.Cycle.Profile = "classic"
	cfg.Day.Color = [3]float32{1, 1, 1}
	cfg.Night.Color = [3]float32{0.3, 0.88, 1}
	return cfg
}

// GetPreset returns a fresh copy of the named preset, nil if unknown
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
