package skyblend

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/logger"
	"Skycycle/internal/reflection"
	"Skycycle/internal/renderer"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Material parameter slots of the blended sky
const (
	SlotTint         = "_Tint"
	SlotExposure     = "_Exposure"
	SlotRotation     = "_Rotation"
	SlotBlend        = "_Blend"
	SlotBlendMode    = "_BlendMode"
	SlotInvertColors = "_InvertColors"
)

// Host is the rendering host as the blender sees it
type Host interface {
	reflection.Host
	UpdateEnvironment()
}

// Settings are the blended sky tunables
type Settings struct {
	Tint         mgl32.Vec4
	Exposure     float32 // [0,8]
	Rotation     float32 // degrees, [0,360]
	InvertColors float32 // [0,1]
	Mode         BlendMode
	Blend        float32 // [0,1], 0 is night, 1 is day

	BindOnStart                 bool
	UpdateReflectionsOnStart    bool
	UpdateReflectionsEveryFrame bool

	Reflection reflection.Options
}

func DefaultSettings() Settings {
	return Settings{
		Tint:                        mgl32.Vec4{1, 1, 1, 1},
		Exposure:                    0.5,
		Mode:                        Linear,
		BindOnStart:                 true,
		UpdateReflectionsOnStart:    true,
		UpdateReflectionsEveryFrame: true,
		Reflection:                  reflection.Options{Resolution: reflection.DefaultResolution},
	}
}

func (s *Settings) clamp() {
	s.Exposure = mgl32.Clamp(s.Exposure, 0, 8)
	s.Rotation = mgl32.Clamp(s.Rotation, 0, 360)
	s.InvertColors = mgl32.Clamp(s.InvertColors, 0, 1)
	s.Blend = mgl32.Clamp(s.Blend, 0, 1)
}

// Blender owns the blended sky material. It cross-fades the night and day
// sky materials into it and keeps the ambient reflection following it.
type Blender struct {
	behaviour.BaseComponent

	host     Host
	scene    *behaviour.ComponentManager
	night    *renderer.Material
	day      *renderer.Material
	blended  *renderer.Material
	settings Settings

	reflections *reflection.Scheduler
}

func NewBlender(host Host, scene *behaviour.ComponentManager, night, day, blended *renderer.Material, settings Settings) (*Blender, error) {
	if night == nil || day == nil || blended == nil {
		return nil, fmt.Errorf("skyblend: night, day and blended materials are required")
	}
	if settings.Reflection.Resolution == 0 {
		settings.Reflection.Resolution = reflection.DefaultResolution
	}
	settings.clamp()

	reflections, err := reflection.NewScheduler(host, scene, nil, settings.Reflection)
	if err != nil {
		return nil, err
	}
	return &Blender{
		host:        host,
		scene:       scene,
		night:       night,
		day:         day,
		blended:     blended,
		settings:    settings,
		reflections: reflections,
	}, nil
}

// Awake parents probes created from now on to the blender's object
func (b *Blender) Awake() {
	b.reflections.SetParent(b.GetGameObject())
}

func (b *Blender) Reflections() *reflection.Scheduler {
	return b.reflections
}

func (b *Blender) Start() {
	if b.settings.BindOnStart {
		if err := b.BindSourceTextures(); err != nil {
			logger.Log.Warn("Sky textures partially bound", zap.Error(err))
		}
	}

	b.pushParameters()

	if b.settings.UpdateReflectionsOnStart {
		b.UpdateReflections()
	}
}

func (b *Blender) Update(float32) {
	if b.settings.UpdateReflectionsEveryFrame {
		b.UpdateReflections()
	}
}

// UpdateReflections advances the reflection capture by one step
func (b *Blender) UpdateReflections() {
	b.Reflections().Refresh()
}

// SetBlend stores the cross-fade amount and pushes every parameter
func (b *Blender) SetBlend(v float32) {
	b.settings.Blend = mgl32.Clamp(v, 0, 1)
	b.pushParameters()
}

func (b *Blender) Blend() float32 {
	return b.settings.Blend
}

// Configure replaces the tunables and pushes them
func (b *Blender) Configure(fn func(s *Settings)) {
	fn(&b.settings)
	b.settings.clamp()
	b.pushParameters()
}

func (b *Blender) Settings() Settings {
	return b.settings
}

func (b *Blender) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeSky
}

func (b *Blender) GetTypeName() string {
	return "SkyboxBlender"
}

func (b *Blender) Material() *renderer.Material {
	return b.blended
}

func (b *Blender) pushParameters() {
	m := b.blended
	m.SetColor(SlotTint, b.settings.Tint)
	m.SetFloat(SlotExposure, b.settings.Exposure)
	m.SetFloat(SlotRotation, b.settings.Rotation)
	m.SetFloat(SlotBlend, b.settings.Blend)
	m.SetInt(SlotBlendMode, b.settings.Mode.Index())
	m.SetFloat(SlotInvertColors, b.settings.InvertColors)

	b.host.UpdateEnvironment()
}

// BindSourceTextures copies the night faces into the _1 slots and the day
// faces into the _2 slots. A missing face is reported and skipped, its
// blended slot keeps whatever it held.
func (b *Blender) BindSourceTextures() error {
	var errs error
	errs = multierr.Append(errs, bindFaces(b.night, b.blended, "_1"))
	errs = multierr.Append(errs, bindFaces(b.day, b.blended, "_2"))
	return errs
}

func bindFaces(src, dst *renderer.Material, suffix string) error {
	var errs error
	for _, face := range renderer.SkyboxFaces {
		slot := renderer.FaceSlot(face)
		tex, ok := src.GetTexture(slot)
		if !ok {
			errs = multierr.Append(errs, &MissingTextureError{Material: src.Name, Slot: slot})
			continue
		}
		dst.SetTexture(slot+suffix, tex)
	}
	return errs
}
