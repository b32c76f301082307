package config

import (
	"Skycycle/internal/daycycle"
	"Skycycle/internal/reflection"
	"Skycycle/internal/skyblend"
	"Skycycle/internal/tween"
	"fmt"

	"go.uber.org/multierr"
)

// ValidationError reports one bad field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func checkRange(field string, v, lo, hi float32) error {
	if v < lo || v > hi {
		return invalid(field, "must be within [%g, %g], got %g", lo, hi, v)
	}
	return nil
}

// Validate reports every invalid field, combined with multierr
func (c *Config) Validate() error {
	var errs error

	if !(c.Cycle.Duration > 0) {
		errs = multierr.Append(errs, invalid("cycle.duration", "must be positive, got %g", c.Cycle.Duration))
	}
	if _, err := daycycle.ProfileByName(c.Cycle.Profile); err != nil {
		errs = multierr.Append(errs, invalid("cycle.profile", "%v", err))
	}
	errs = multierr.Append(errs, checkRange("cycle.sky_object_distance", c.Cycle.SkyObjectDistance, -1000, 0))
	if c.Cycle.Curve == nil || len(c.Cycle.Curve.Keys) == 0 {
		errs = multierr.Append(errs, invalid("cycle.curve", "needs at least one key"))
	}

	errs = multierr.Append(errs, checkRange("day.intensity", c.Day.Intensity, 0, 1))
	errs = multierr.Append(errs, checkRange("night.intensity", c.Night.Intensity, 0, 1))

	if c.Rotation.Axis != nil && *c.Rotation.Axis == [3]float32{} {
		errs = multierr.Append(errs, invalid("rotation.axis", "must not be zero"))
	}
	if c.Rotation.ArcDegrees < 0 {
		errs = multierr.Append(errs, invalid("rotation.arc_degrees", "must not be negative, got %g", c.Rotation.ArcDegrees))
	}
	if _, ok := tween.ParseEase(c.Rotation.Ease); !ok {
		errs = multierr.Append(errs, invalid("rotation.ease", "unknown ease %q", c.Rotation.Ease))
	}

	errs = multierr.Append(errs, checkRange("sky.exposure", c.Sky.Exposure, 0, 8))
	errs = multierr.Append(errs, checkRange("sky.rotation", c.Sky.Rotation, 0, 360))
	errs = multierr.Append(errs, checkRange("sky.invert_colors", c.Sky.InvertColors, 0, 1))
	errs = multierr.Append(errs, checkRange("sky.blend", c.Sky.Blend, 0, 1))
	if _, err := skyblend.ParseBlendMode(c.Sky.BlendMode); err != nil {
		errs = multierr.Append(errs, invalid("sky.blend_mode", "%v", err))
	}

	if !reflection.ValidResolution(c.Reflection.Resolution) {
		errs = multierr.Append(errs, invalid("reflection.resolution", "must be one of %v, got %d", reflection.Resolutions, c.Reflection.Resolution))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = multierr.Append(errs, invalid("window", "size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	return errs
}
