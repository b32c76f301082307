package scene

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/config"
	"Skycycle/internal/daycycle"
	"Skycycle/internal/reflection"
	"Skycycle/internal/renderer"
	"Skycycle/internal/signal"
	"Skycycle/internal/skyblend"
	"Skycycle/internal/tween"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func fullSupport() renderer.CopyTextureSupport {
	return renderer.CopyBasic | renderer.CopyTextureToRT | renderer.CopyRTToTexture
}

func writeFaces(t *testing.T, dir string, faces ...string) {
	t.Helper()
	for _, face := range faces {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(1, 1, color.RGBA{0, 0, 255, 255})
		f, err := os.Create(filepath.Join(dir, strings.ToLower(face)+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			t.Fatal(err)
		}
		f.Close()
	}
}

func TestBuildDefaultScene(t *testing.T) {
	host := renderer.NewHeadlessHost(fullSupport(), 1)
	s, err := Build(config.DefaultConfig(), host)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	if s.Driver.State() != daycycle.Day {
		t.Errorf("Expected Day after build, got %v", s.Driver.State())
	}
	if host.Settings.Sun != s.Driver.Sun() {
		t.Error("Expected the driver's sun to be registered with the host")
	}
	if host.Settings.EnvironmentUpdates == 0 {
		t.Error("Expected at least one environment update on start")
	}
	if host.Settings.DefaultReflectionMode != renderer.ReflectionCustom {
		t.Errorf("Expected custom reflection mode, got %v", host.Settings.DefaultReflectionMode)
	}

	for _, name := range []string{LightObjectName, SkyObjectName, BlenderObjectName, reflection.ProbeObjectName} {
		if s.Manager.FindGameObject(name) == nil {
			t.Errorf("Expected object %q in the scene", name)
		}
	}
	probeObj := s.Manager.FindGameObject(reflection.ProbeObjectName)
	if probeObj.Transform.Parent != s.Blender.GetGameObject().Transform {
		t.Error("Expected the probe to be parented to the blender object")
	}

	sky := s.SkyObject.GetGameObject()
	if sky.Transform.Parent != s.Light.GetGameObject().Transform {
		t.Error("Expected the sky object to follow the light")
	}
	if sky.Transform.Position.Z() != config.DefaultSkyObjectDistance {
		t.Errorf("Expected sky object at z=%v, got %v", config.DefaultSkyObjectDistance, sky.Transform.Position)
	}
	if s.SkyObject.Sprite != "sun" {
		t.Errorf("Expected the sun sprite, got %q", s.SkyObject.Sprite)
	}

	mat := s.Blender.Material()
	if v, ok := mat.GetInt(skyblend.SlotBlendMode); !ok || v != 0 {
		t.Errorf("Expected linear blend mode pushed, got %v (%v)", v, ok)
	}
	if v, ok := mat.GetFloat(skyblend.SlotExposure); !ok || v != config.DefaultExposure {
		t.Errorf("Expected exposure %v, got %v (%v)", config.DefaultExposure, v, ok)
	}
}

func TestSceneRunsTheCycle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cycle.Duration = 1

	host := renderer.NewHeadlessHost(fullSupport(), 1)
	s, err := Build(cfg, host)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	var nights, days int
	signal.Subscribe(s.Bus, func(daycycle.EnteredNight) { nights++ })
	signal.Subscribe(s.Bus, func(daycycle.EnteredDay) { days++ })

	for i := 0; i < 15; i++ {
		s.Update(0.1)
		host.AdvanceFrame()
	}

	if s.Driver.State() != daycycle.Night {
		t.Errorf("Expected Night after 1.5 cycle durations, got %v", s.Driver.State())
	}
	if nights != 1 || days != 0 {
		t.Errorf("Expected one night transition, got nights=%d days=%d", nights, days)
	}
	if s.SkyObject.Sprite != "moon" {
		t.Errorf("Expected the moon sprite, got %q", s.SkyObject.Sprite)
	}
	if s.Driver.Direction() != -1 {
		t.Errorf("Expected direction to flip after the cycle time hit 1, got %v", s.Driver.Direction())
	}

	stats := s.Blender.Reflections().Stats()
	if stats.CapturesCompleted == 0 || stats.CopiesPerformed == 0 {
		t.Errorf("Expected captures to complete and copy, got %+v", stats)
	}
	if host.Outstanding() > 1 {
		t.Errorf("Expected at most one outstanding capture, got %d", host.Outstanding())
	}

	blend, _ := s.Blender.Material().GetFloat(skyblend.SlotBlend)
	if blend != s.Blender.Blend() {
		t.Errorf("Expected the material blend to follow the blender, got %v vs %v", blend, s.Blender.Blend())
	}
}

func TestSceneWithoutCopySupportNeverCaptures(t *testing.T) {
	host := renderer.NewHeadlessHost(renderer.CopyBasic, 0)
	s, err := Build(config.DefaultConfig(), host)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	for i := 0; i < 50; i++ {
		s.Update(1.0 / 60)
		host.AdvanceFrame()
	}
	if host.RenderCalls != 0 {
		t.Errorf("Expected no probe renders, got %d", host.RenderCalls)
	}
	if host.Settings.DefaultReflectionMode != renderer.ReflectionSkybox {
		t.Error("Expected the reflection mode to stay on skybox")
	}
}

func TestBuildBindsSkyTextures(t *testing.T) {
	nightDir := t.TempDir()
	dayDir := t.TempDir()
	writeFaces(t, nightDir, renderer.SkyboxFaces[:]...)
	writeFaces(t, dayDir, "Front", "Back")

	cfg := config.DefaultConfig()
	cfg.Sky.NightDir = nightDir
	cfg.Sky.DayDir = dayDir

	host := renderer.NewHeadlessHost(fullSupport(), 0)
	s, err := Build(cfg, host)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mat := s.Blender.Material()
	for _, face := range renderer.SkyboxFaces {
		if !mat.HasTexture(renderer.FaceSlot(face) + "_1") {
			t.Errorf("Expected night %s bound", face)
		}
	}
	if !mat.HasTexture(renderer.FaceSlot("Front")+"_2") || mat.HasTexture(renderer.FaceSlot("Up")+"_2") {
		t.Error("Expected only the day faces present on disk to bind")
	}
	if got := s.Textures.GetStats().ActiveTextures; got != 8 {
		t.Errorf("Expected 8 loaded textures, got %d", got)
	}

	s.Close()
	if got := s.Textures.GetStats().ActiveTextures; got != 0 {
		t.Errorf("Expected textures released on close, got %d", got)
	}
	if len(s.Manager.GetAllGameObjects()) != 0 {
		t.Error("Expected no objects after close")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cycle.Duration = 0
	cfg.Reflection.Resolution = 100

	_, err := Build(cfg, renderer.NewHeadlessHost(fullSupport(), 0))
	if err == nil {
		t.Fatal("Expected an error")
	}
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected a ValidationError, got %v", err)
	}
}

func TestBuildFailsOnMissingSkyDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sky.NightDir = filepath.Join(t.TempDir(), "missing")
	if _, err := Build(cfg, renderer.NewHeadlessHost(fullSupport(), 0)); err == nil {
		t.Error("Expected an error for a missing sky directory")
	}
}

func TestDriverOptionsFollowProfile(t *testing.T) {
	cfg := config.GetPreset("classic")
	if cfg == nil {
		t.Fatal("Expected the classic preset")
	}
	opts, err := DriverOptions(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.Profile.Name != daycycle.ProfileClassic || opts.Profile.ArcDegrees != 180 {
		t.Errorf("Expected the classic profile, got %+v", opts.Profile)
	}
	if opts.Profile.IntensityEnabled {
		t.Error("Expected intensity control off for classic")
	}
	if opts.Profile.BaseEuler != (mgl32.Vec3{}) {
		t.Errorf("Expected identity base rotation, got %v", opts.Profile.BaseEuler)
	}
}

func TestDriverOptionsApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	base := [3]float32{-20, 5, 0}
	axis := [3]float32{0, 0, 2}
	cfg.Rotation = config.RotationConfig{
		BaseEuler:  &base,
		ArcDegrees: 90,
		Axis:       &axis,
		Ease:       "inOutSine",
	}
	cfg.Night.Color = [3]float32{0.1, 0.2, 0.3}

	opts, err := DriverOptions(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p := opts.Profile
	if p.BaseEuler != (mgl32.Vec3{-20, 5, 0}) || p.ArcDegrees != 90 {
		t.Errorf("Expected overrides applied, got %+v", p)
	}
	if p.Axis != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Expected a normalized axis, got %v", p.Axis)
	}
	if p.Ease != tween.InOutSine {
		t.Errorf("Expected InOutSine, got %v", p.Ease)
	}
	if !p.IntensityEnabled {
		t.Error("Expected the default profile to keep intensity control")
	}
	if opts.Night.Color != (mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("Expected night color from config, got %v", opts.Night.Color)
	}
}

func TestBlenderSettingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sky.BlendMode = "Smoothstep"
	cfg.Reflection.HDR = true
	cfg.Reflection.Resolution = 256
	cfg.Reflection.UpdateEveryFrame = false

	settings, err := BlenderSettings(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if settings.Mode != skyblend.Smoothstep {
		t.Errorf("Expected Smoothstep, got %v", settings.Mode)
	}
	if !settings.Reflection.HDR || settings.Reflection.Resolution != 256 {
		t.Errorf("Unexpected reflection options %+v", settings.Reflection)
	}
	if settings.UpdateReflectionsEveryFrame || !settings.BindOnStart {
		t.Errorf("Unexpected toggles %+v", settings)
	}

	cfg.Sky.BlendMode = "overlay"
	if _, err := BlenderSettings(cfg); err == nil {
		t.Error("Expected an error for an unknown blend mode")
	}
}

func TestLightFollowsProfileAppearance(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Day.Intensity = 0.4
	host := renderer.NewHeadlessHost(fullSupport(), 0)
	s, err := Build(cfg, host)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	if s.Light.Intensity != 0.4 {
		t.Errorf("Expected day intensity 0.4, got %v", s.Light.Intensity)
	}
	light, ok := behaviour.GetComponent[*behaviour.LightComponent](s.Manager.FindGameObject(LightObjectName))
	if !ok || light != s.Light {
		t.Error("Expected the light component on the light object")
	}
}

func TestBlenderObjectComponents(t *testing.T) {
	s, err := Build(config.DefaultConfig(), renderer.NewHeadlessHost(fullSupport(), 0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	obj := s.Manager.FindGameObject(BlenderObjectName)
	var names []string
	for _, comp := range obj.Components {
		if behaviour.GetComponentCategory(comp) != behaviour.ComponentTypeSky {
			t.Errorf("Expected sky components only, got %s", behaviour.GetComponentTypeName(comp))
		}
		names = append(names, behaviour.GetComponentTypeName(comp))
	}
	if len(names) != 2 || names[0] != "SkyboxBlender" || names[1] != "DayCycleDriver" {
		t.Errorf("Expected blender then driver, got %v", names)
	}
}
