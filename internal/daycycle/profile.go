package daycycle

import (
	"Skycycle/internal/tween"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Profile holds the differences between the two cycle presets: how far the
// light turns per phase, where it starts and whether the states may set its
// intensity
type Profile struct {
	Name             string
	ArcDegrees       float32
	Axis             mgl32.Vec3
	BaseEuler        mgl32.Vec3
	Ease             tween.Ease
	IntensityEnabled bool
}

const (
	ProfileDefault = "default"
	ProfileClassic = "classic"
)

// DefaultProfile turns the light 210 degrees per phase starting just below
// the horizon
func DefaultProfile() Profile {
	return Profile{
		Name:             ProfileDefault,
		ArcDegrees:       210,
		Axis:             mgl32.Vec3{1, 0, 0},
		BaseEuler:        mgl32.Vec3{-10, 0, 0},
		Ease:             tween.Linear,
		IntensityEnabled: true,
	}
}

// ClassicProfile turns the light half a revolution per phase and leaves
// intensity alone
func ClassicProfile() Profile {
	return Profile{
		Name:             ProfileClassic,
		ArcDegrees:       180,
		Axis:             mgl32.Vec3{1, 0, 0},
		Ease:             tween.Linear,
		IntensityEnabled: false,
	}
}

func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", ProfileDefault:
		return DefaultProfile(), nil
	case ProfileClassic:
		return ClassicProfile(), nil
	}
	return Profile{}, fmt.Errorf("unknown cycle profile %q", name)
}

// DefaultAppearances are the sun and moon settings both profiles start from
func DefaultAppearances() (day, night Appearance) {
	day = Appearance{Color: mgl32.Vec3{1, 1, 1}, Intensity: 1, Sprite: "sun"}
	night = Appearance{Color: mgl32.Vec3{0.3, 0.88, 1}, Intensity: 1, Sprite: "moon"}
	return day, night
}
