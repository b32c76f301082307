package scene

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/config"
	"Skycycle/internal/daycycle"
	"Skycycle/internal/logger"
	"Skycycle/internal/renderer"
	"Skycycle/internal/signal"
	"Skycycle/internal/skyblend"
	"fmt"

	"go.uber.org/zap"
)

const (
	BlenderObjectName = "Skybox Blender"
	LightObjectName   = "Directional Light"
	SkyObjectName     = "Sky Object"
)

// Host is everything the scene needs from the rendering side
type Host interface {
	skyblend.Host
	daycycle.Environment
	renderer.TextureUploader
}

// Scene is a running day/night sky: the blender and cycle driver on one
// object, the sun light and its sun/moon sprite on another
type Scene struct {
	Config   *config.Config
	Manager  *behaviour.ComponentManager
	Bus      *signal.Bus
	Textures *renderer.TextureManager

	Blender   *skyblend.Blender
	Driver    *daycycle.Driver
	Light     *behaviour.LightComponent
	SkyObject *behaviour.SpriteComponent
}

// Build validates cfg and assembles a started scene on host
func Build(cfg *config.Config, host Host) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	driverOpts, err := DriverOptions(cfg)
	if err != nil {
		return nil, err
	}
	settings, err := BlenderSettings(cfg)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Config:   cfg,
		Manager:  behaviour.NewComponentManager(),
		Bus:      signal.New(),
		Textures: renderer.NewTextureManager(host),
	}

	night, err := s.Textures.LoadSkyMaterial("Night Skybox", cfg.Sky.NightDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	day, err := s.Textures.LoadSkyMaterial("Day Skybox", cfg.Sky.DayDir)
	if err != nil {
		s.Close()
		return nil, err
	}
	blended := renderer.NewMaterial("Blended Skybox")

	lightObj := behaviour.NewGameObject(LightObjectName)
	s.Light = behaviour.NewLightComponent()
	lightObj.AddComponent(s.Light)

	skyObj := behaviour.NewGameObject(SkyObjectName)
	skyObj.Transform.SetParent(lightObj.Transform)
	s.SkyObject = behaviour.NewSpriteComponent(driverOpts.Day.Sprite)
	skyObj.AddComponent(s.SkyObject)

	s.Blender, err = skyblend.NewBlender(host, s.Manager, night, day, blended, settings)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Driver, err = daycycle.NewDriver(driverOpts, daycycle.Deps{
		Curve:       cfg.Cycle.Curve,
		Blend:       s.Blender,
		Bus:         s.Bus,
		Environment: host,
		Light:       s.Light,
		SkyObject:   s.SkyObject,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	blenderObj := behaviour.NewGameObject(BlenderObjectName)
	blenderObj.AddComponent(s.Blender)
	blenderObj.AddComponent(s.Driver)

	s.Manager.RegisterGameObject(lightObj)
	s.Manager.RegisterGameObject(skyObj)
	s.Manager.RegisterGameObject(blenderObj)

	logger.Log.Info("Scene built",
		zap.String("profile", driverOpts.Profile.Name),
		zap.Float64("duration", driverOpts.Duration),
		zap.String("blendMode", settings.Mode.String()),
		zap.Int("probeResolution", settings.Reflection.Resolution),
		zap.Bool("copySupported", s.Blender.Reflections().Supported()))
	return s, nil
}

// Update advances every object by deltaTime seconds
func (s *Scene) Update(deltaTime float64) {
	s.Manager.UpdateAll(float32(deltaTime))
}

// Close tears the scene down and releases its textures
func (s *Scene) Close() {
	s.Manager.Clear()
	s.Textures.Clear()
	s.Bus.Clear()
}
