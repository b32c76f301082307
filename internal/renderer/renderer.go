package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Light is a directional light as the host lighting sees it. The cycle
// driver keeps one in step with its light actor and registers it as the sun.
type Light struct {
	Direction       mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	AmbientStrength float32
}

// CreateDirectionalLight creates a directional light (like the sun)
func CreateDirectionalLight(direction mgl32.Vec3, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Direction:       direction.Normalize(),
		Color:           color,
		Intensity:       intensity,
		AmbientStrength: 0.15, // Slightly higher ambient for outdoor scenes
	}
}
