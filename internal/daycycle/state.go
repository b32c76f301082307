package daycycle

import (
	"Skycycle/internal/logger"
	"Skycycle/internal/signal"
	"Skycycle/internal/tween"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// StateID names a phase of the cycle
type StateID int

const (
	None StateID = iota
	Day
	Night
)

func (id StateID) String() string {
	switch id {
	case None:
		return "None"
	case Day:
		return "Day"
	case Night:
		return "Night"
	default:
		return fmt.Sprintf("StateID(%d)", int(id))
	}
}

// ParseStateID accepts "day" or "night" in any case
func ParseStateID(name string) (StateID, error) {
	for _, id := range []StateID{Day, Night} {
		if strings.EqualFold(name, id.String()) {
			return id, nil
		}
	}
	return None, &InvalidStateError{Name: name}
}

// ErrInvalidState matches every InvalidStateError
var ErrInvalidState = errors.New("invalid cycle state")

// InvalidStateError is returned when changing to a state the driver does
// not have
type InvalidStateError struct {
	ID   StateID
	Name string
}

func (e *InvalidStateError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid cycle state %q", e.Name)
	}
	return fmt.Sprintf("invalid cycle state %s", e.ID)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// EnteredDay is published every time the Day state is entered
type EnteredDay struct{}

// EnteredNight is published every time the Night state is entered
type EnteredNight struct{}

// Appearance is what a state applies to the light and the sky object
type Appearance struct {
	Color     mgl32.Vec3
	Intensity float32
	Sprite    string
}

// CycleState is one phase of the cycle
type CycleState interface {
	ID() StateID
	Enter()
	Exit()
}

// phaseState drives the light through one half of the cycle. Its rotation
// tween hands over to next when it runs out.
type phaseState struct {
	id         StateID
	next       StateID
	appearance Appearance
	announce   func(b *signal.Bus)
	driver     *Driver
	rotation   *tween.Tween
}

func newDayState(d *Driver) *phaseState {
	return &phaseState{
		id:         Day,
		next:       Night,
		appearance: d.options.Day,
		announce:   func(b *signal.Bus) { signal.Publish(b, EnteredDay{}) },
		driver:     d,
	}
}

func newNightState(d *Driver) *phaseState {
	return &phaseState{
		id:         Night,
		next:       Day,
		appearance: d.options.Night,
		announce:   func(b *signal.Bus) { signal.Publish(b, EnteredNight{}) },
		driver:     d,
	}
}

func (s *phaseState) ID() StateID {
	return s.id
}

func (s *phaseState) Enter() {
	d := s.driver
	profile := d.options.Profile

	s.announce(d.bus)

	if d.skyObject != nil {
		d.skyObject.Sprite = s.appearance.Sprite
	}

	d.light.Color = [3]float32(s.appearance.Color)
	if profile.IntensityEnabled {
		d.light.Intensity = s.appearance.Intensity
	}

	transform := d.lightTransform()
	transform.SetEulerDegrees(profile.BaseEuler.X(), profile.BaseEuler.Y(), profile.BaseEuler.Z())

	s.rotation.Kill()
	s.rotation = d.runner.LocalRotate(transform, profile.Axis, profile.ArcDegrees, d.options.Duration).
		SetEase(profile.Ease).
		OnComplete(func() {
			if err := d.ChangeState(s.next); err != nil {
				logger.Log.Error("Cycle hand-over failed", zap.Error(err))
			}
		})

	logger.Log.Info("Entered cycle state",
		zap.String("state", s.id.String()),
		zap.String("profile", profile.Name),
		zap.Float64("duration", d.options.Duration))
}

func (s *phaseState) Exit() {
	s.rotation.Kill()
}
