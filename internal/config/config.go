package config

import (
	"Skycycle/internal/curve"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration          = 10.0
	DefaultSkyObjectDistance = -200.0
	DefaultExposure          = 0.5
	DefaultResolution        = 128
	DefaultWidth             = 1280
	DefaultHeight            = 720
)

type Config struct {
	Cycle      CycleConfig      `yaml:"cycle"`
	Day        AppearanceConfig `yaml:"day"`
	Night      AppearanceConfig `yaml:"night"`
	Rotation   RotationConfig   `yaml:"rotation"`
	Sky        SkyConfig        `yaml:"sky"`
	Reflection ReflectionConfig `yaml:"reflection"`
	Window     WindowConfig     `yaml:"window"`
}

type CycleConfig struct {
	Duration          float64      `yaml:"duration"`
	Profile           string       `yaml:"profile"`
	SkyObjectDistance float32      `yaml:"sky_object_distance"`
	Curve             *curve.Curve `yaml:"curve"`
}

type AppearanceConfig struct {
	Color     [3]float32 `yaml:"color,flow"`
	Intensity float32    `yaml:"intensity"`
	Sprite    string     `yaml:"sprite"`
}

// RotationConfig overrides how the profile turns the light. Unset fields
// keep the profile's value.
type RotationConfig struct {
	BaseEuler  *[3]float32 `yaml:"base_euler,omitempty,flow"`
	ArcDegrees float32     `yaml:"arc_degrees,omitempty"`
	Axis       *[3]float32 `yaml:"axis,omitempty,flow"`
	Ease       string      `yaml:"ease,omitempty"`
}

type SkyConfig struct {
	NightDir     string     `yaml:"night_dir"`
	DayDir       string     `yaml:"day_dir"`
	Tint         [4]float32 `yaml:"tint,flow"`
	Exposure     float32    `yaml:"exposure"`
	Rotation     float32    `yaml:"rotation"`
	InvertColors float32    `yaml:"invert_colors"`
	BlendMode    string     `yaml:"blend_mode"`
	Blend        float32    `yaml:"blend"`
}

type ReflectionConfig struct {
	Resolution       int  `yaml:"resolution"`
	HDR              bool `yaml:"hdr"`
	BindOnStart      bool `yaml:"bind_on_start"`
	UpdateOnStart    bool `yaml:"update_on_start"`
	UpdateEveryFrame bool `yaml:"update_every_frame"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DefaultCurve holds the sky at half blend at both ends of the cycle time
// and swings to full night at -0.5 and full day at 0.5
func DefaultCurve() *curve.Curve {
	return curve.Smooth(
		[2]float64{-1, 0.5},
		[2]float64{-0.5, 0},
		[2]float64{0, 0.5},
		[2]float64{0.5, 1},
		[2]float64{1, 0.5},
	)
}

func DefaultConfig() *Config {
	return &Config{
		Cycle: CycleConfig{
			Duration:          DefaultDuration,
			Profile:           "default",
			SkyObjectDistance: DefaultSkyObjectDistance,
			Curve:             DefaultCurve(),
		},
		Day: AppearanceConfig{
			Color:     [3]float32{1, 1, 1},
			Intensity: 1,
			Sprite:    "sun",
		},
		Night: AppearanceConfig{
			Color:     [3]float32{0.3, 0.88, 1},
			Intensity: 1,
			Sprite:    "moon",
		},
		Sky: SkyConfig{
			Tint:      [4]float32{1, 1, 1, 1},
			Exposure:  DefaultExposure,
			BlendMode: "linear",
		},
		Reflection: ReflectionConfig{
			Resolution:       DefaultResolution,
			BindOnStart:      true,
			UpdateOnStart:    true,
			UpdateEveryFrame: true,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  "Skycycle",
		},
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of base, fields absent from the file
// keep base's values
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

// Marshal renders cfg as YAML
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
