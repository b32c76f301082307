package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ComponentType defines the category of a component
type ComponentType string

const (
	ComponentTypeLight  ComponentType = "Light"
	ComponentTypeSprite ComponentType = "Sprite"
	ComponentTypeProbe  ComponentType = "ReflectionProbe"
	ComponentTypeSky    ComponentType = "Sky"
	ComponentTypeCustom ComponentType = "Custom"
)

// TypedComponent extends Component with type information
type TypedComponent interface {
	Component
	GetComponentType() ComponentType
	GetTypeName() string
}

// LightComponent holds light data
type LightComponent struct {
	BaseComponent
	LightMode       string     `json:"light_mode"` // "directional", "point", "spot"
	Color           [3]float32 `json:"color"`
	Intensity       float32    `json:"intensity"`
	Range           float32    `json:"range"`
	AmbientStrength float32    `json:"ambient_strength"`
}

func NewLightComponent() *LightComponent {
	return &LightComponent{
		LightMode:       "directional",
		Color:           [3]float32{1.0, 1.0, 1.0},
		Intensity:       1.0,
		Range:           100.0,
		AmbientStrength: 0.1,
	}
}

func (l *LightComponent) GetComponentType() ComponentType {
	return ComponentTypeLight
}

func (l *LightComponent) GetTypeName() string {
	return "LightComponent"
}

// Direction is the world-space direction the light shines along
func (l *LightComponent) Direction() mgl32.Vec3 {
	if obj := l.GetGameObject(); obj != nil {
		return obj.Transform.Forward()
	}
	return mgl32.Vec3{0, 0, -1}
}

// SpriteComponent shows a billboard image, used for the sun and moon
type SpriteComponent struct {
	BaseComponent
	Sprite string     `json:"sprite"` // Image path or asset handle
	Tint   [4]float32 `json:"tint"`
}

func NewSpriteComponent(sprite string) *SpriteComponent {
	return &SpriteComponent{
		Sprite: sprite,
		Tint:   [4]float32{1, 1, 1, 1},
	}
}

func (s *SpriteComponent) GetComponentType() ComponentType {
	return ComponentTypeSprite
}

func (s *SpriteComponent) GetTypeName() string {
	return "SpriteComponent"
}

// Helper function to get component type name
func GetComponentTypeName(comp Component) string {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetTypeName()
	}
	return "Unknown"
}

// Helper function to get component category
func GetComponentCategory(comp Component) ComponentType {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetComponentType()
	}
	return ComponentTypeCustom
}
