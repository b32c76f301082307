package daycycle

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/logger"
	"Skycycle/internal/renderer"
	"Skycycle/internal/signal"
	"Skycycle/internal/tween"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Curve maps cycle time in [-1,1] to a sky blend value
type Curve interface {
	Evaluate(t float64) float64
}

// BlendTarget receives the blend value every tick
type BlendTarget interface {
	SetBlend(v float32)
}

// Environment is the host's scene lighting
type Environment interface {
	SetSun(light *renderer.Light)
	UpdateEnvironment()
}

// Options configures a Driver
type Options struct {
	// Duration is the nominal length in seconds of one phase
	Duration float64
	Profile  Profile
	Day      Appearance
	Night    Appearance
	// SkyObjectDistance places the sun/moon sprite on the light's local z axis
	SkyObjectDistance float32
}

func DefaultOptions() Options {
	day, night := DefaultAppearances()
	return Options{
		Duration:          10,
		Profile:           DefaultProfile(),
		Day:               day,
		Night:             night,
		SkyObjectDistance: -200,
	}
}

// Deps are the collaborators a Driver works through
type Deps struct {
	Curve       Curve
	Blend       BlendTarget
	Bus         *signal.Bus
	Environment Environment
	Light       *behaviour.LightComponent
	// SkyObject is optional
	SkyObject *behaviour.SpriteComponent
}

// Driver runs the day/night cycle. Every tick it moves the cycle time back
// and forth across [-1,1] and feeds the curve value to the blend target,
// while the Day and Night states swap each other out as their rotation of
// the light completes.
type Driver struct {
	behaviour.BaseComponent

	options   Options
	curve     Curve
	blend     BlendTarget
	bus       *signal.Bus
	env       Environment
	light     *behaviour.LightComponent
	skyObject *behaviour.SpriteComponent

	runner  *tween.Runner
	states  map[StateID]CycleState
	current CycleState

	cycleTime float64
	direction float64
	ticking   bool
	sun       *renderer.Light
}

func NewDriver(opts Options, deps Deps) (*Driver, error) {
	if !(opts.Duration > 0) || math.IsInf(opts.Duration, 0) {
		return nil, fmt.Errorf("daycycle: duration must be positive, got %v", opts.Duration)
	}
	if deps.Light == nil || deps.Light.GetGameObject() == nil {
		return nil, fmt.Errorf("daycycle: a light attached to an object is required")
	}
	if deps.Curve == nil || deps.Blend == nil {
		return nil, fmt.Errorf("daycycle: curve and blend target are required")
	}

	d := &Driver{
		options:   opts,
		curve:     deps.Curve,
		blend:     deps.Blend,
		bus:       deps.Bus,
		env:       deps.Environment,
		light:     deps.Light,
		skyObject: deps.SkyObject,
		runner:    tween.NewRunner(),
		direction: 1,
		sun:       renderer.CreateDirectionalLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1),
	}
	d.states = map[StateID]CycleState{
		Day:   newDayState(d),
		Night: newNightState(d),
	}
	return d, nil
}

// Awake moves the sky object out along the light's local z axis
func (d *Driver) Awake() {
	if d.skyObject == nil {
		return
	}
	if obj := d.skyObject.GetGameObject(); obj != nil {
		obj.Transform.SetPosition(mgl32.Vec3{0, 0, d.options.SkyObjectDistance})
	}
}

// Start enters Day and registers the light as the scene's sun
func (d *Driver) Start() {
	if err := d.ChangeState(Day); err != nil {
		logger.Log.Error("Cycle start failed", zap.Error(err))
		return
	}
	d.syncSun()
	if d.env != nil {
		d.env.SetSun(d.sun)
		d.env.UpdateEnvironment()
	}
	d.ticking = true
}

func (d *Driver) Update(deltaTime float32) {
	d.Tick(float64(deltaTime))
}

// Tick advances the cycle by dt seconds: cycle time and blend first, then
// the state rotations
func (d *Driver) Tick(dt float64) {
	if !d.ticking {
		return
	}

	d.cycleTime += dt / d.options.Duration * d.direction
	d.blend.SetBlend(float32(d.curve.Evaluate(d.cycleTime)))

	if math.Abs(d.cycleTime) >= 1 {
		d.cycleTime = 0
		d.direction = -d.direction
		logger.Log.Debug("Cycle time reversed", zap.Float64("direction", d.direction))
	}

	d.runner.Update(dt)
	d.syncSun()
}

// ChangeState exits the current state and enters id. Re-entering the
// current state is allowed. An unknown id leaves the current state as is.
func (d *Driver) ChangeState(id StateID) error {
	next, ok := d.states[id]
	if !ok {
		err := &InvalidStateError{ID: id}
		logger.Log.Error("State change rejected", zap.Error(err))
		return err
	}

	if d.current != nil {
		d.current.Exit()
	}
	d.current = next
	next.Enter()
	return nil
}

// OnDisable exits the current state and stops ticking
func (d *Driver) OnDisable() {
	if d.current != nil {
		d.current.Exit()
	}
	d.ticking = false
}

// Disable switches the driver off, see OnDisable
func (d *Driver) Disable() {
	if !d.GetEnabled() {
		return
	}
	d.SetEnabled(false)
	d.OnDisable()
}

// Enable resumes ticking. The current state is not re-entered, so the light
// stays where it stopped until the next state change.
func (d *Driver) Enable() {
	d.SetEnabled(true)
	if d.current != nil {
		d.ticking = true
	}
}

func (d *Driver) lightTransform() *behaviour.Transform {
	if obj := d.light.GetGameObject(); obj != nil {
		return obj.Transform
	}
	return nil
}

func (d *Driver) syncSun() {
	d.sun.Direction = d.light.Direction()
	d.sun.Color = mgl32.Vec3(d.light.Color)
	d.sun.Intensity = d.light.Intensity
	d.sun.AmbientStrength = d.light.AmbientStrength
}

// CycleTime is the oscillating time value in [-1,1]
func (d *Driver) CycleTime() float64 {
	return d.cycleTime
}

// Direction is +1 or -1
func (d *Driver) Direction() float64 {
	return d.direction
}

// State is the current state, None before Start
func (d *Driver) State() StateID {
	if d.current == nil {
		return None
	}
	return d.current.ID()
}

func (d *Driver) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeSky
}

func (d *Driver) GetTypeName() string {
	return "DayCycleDriver"
}

func (d *Driver) Profile() Profile {
	return d.options.Profile
}

func (d *Driver) Sun() *renderer.Light {
	return d.sun
}
