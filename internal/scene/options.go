package scene

import (
	"Skycycle/internal/config"
	"Skycycle/internal/daycycle"
	"Skycycle/internal/reflection"
	"Skycycle/internal/skyblend"
	"Skycycle/internal/tween"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DriverOptions resolves the cycle profile named in cfg and applies the
// rotation overrides on top of it
func DriverOptions(cfg *config.Config) (daycycle.Options, error) {
	profile, err := daycycle.ProfileByName(cfg.Cycle.Profile)
	if err != nil {
		return daycycle.Options{}, err
	}

	r := cfg.Rotation
	if r.BaseEuler != nil {
		profile.BaseEuler = mgl32.Vec3(*r.BaseEuler)
	}
	if r.ArcDegrees != 0 {
		profile.ArcDegrees = r.ArcDegrees
	}
	if r.Axis != nil {
		axis := mgl32.Vec3(*r.Axis)
		if axis.Len() == 0 {
			return daycycle.Options{}, fmt.Errorf("rotation axis must not be zero")
		}
		profile.Axis = axis.Normalize()
	}
	if r.Ease != "" {
		ease, ok := tween.ParseEase(r.Ease)
		if !ok {
			return daycycle.Options{}, fmt.Errorf("unknown ease %q", r.Ease)
		}
		profile.Ease = ease
	}

	return daycycle.Options{
		Duration:          cfg.Cycle.Duration,
		Profile:           profile,
		Day:               appearance(cfg.Day),
		Night:             appearance(cfg.Night),
		SkyObjectDistance: cfg.Cycle.SkyObjectDistance,
	}, nil
}

func appearance(a config.AppearanceConfig) daycycle.Appearance {
	return daycycle.Appearance{
		Color:     mgl32.Vec3(a.Color),
		Intensity: a.Intensity,
		Sprite:    a.Sprite,
	}
}

// BlenderSettings maps the sky and reflection sections onto blender settings
func BlenderSettings(cfg *config.Config) (skyblend.Settings, error) {
	mode, err := skyblend.ParseBlendMode(cfg.Sky.BlendMode)
	if err != nil {
		return skyblend.Settings{}, err
	}
	return skyblend.Settings{
		Tint:                        mgl32.Vec4(cfg.Sky.Tint),
		Exposure:                    cfg.Sky.Exposure,
		Rotation:                    cfg.Sky.Rotation,
		InvertColors:                cfg.Sky.InvertColors,
		Mode:                        mode,
		Blend:                       cfg.Sky.Blend,
		BindOnStart:                 cfg.Reflection.BindOnStart,
		UpdateReflectionsOnStart:    cfg.Reflection.UpdateOnStart,
		UpdateReflectionsEveryFrame: cfg.Reflection.UpdateEveryFrame,
		Reflection: reflection.Options{
			Resolution: cfg.Reflection.Resolution,
			HDR:        cfg.Reflection.HDR,
		},
	}, nil
}
