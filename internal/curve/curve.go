// Package curve evaluates keyframed response curves.
//
// A Curve maps the cycle time onto a blend amount. Between two keys it uses
// a cubic Hermite segment built from the keys' tangents, before the first
// key and after the last it holds the end values.
package curve

import (
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

type Keyframe struct {
	Time       float64 `yaml:"time"`
	Value      float64 `yaml:"value"`
	InTangent  float64 `yaml:"in,omitempty"`
	OutTangent float64 `yaml:"out,omitempty"`
}

type Curve struct {
	Keys []Keyframe `yaml:"keys"`
}

// New copies keys and sorts them by time
func New(keys ...Keyframe) *Curve {
	c := &Curve{Keys: append([]Keyframe(nil), keys...)}
	c.sort()
	return c
}

// Linear is a straight line from (t0,v0) to (t1,v1), clamped outside
func Linear(t0, v0, t1, v1 float64) *Curve {
	slope := 0.0
	if t1 != t0 {
		slope = (v1 - v0) / (t1 - t0)
	}
	return New(
		Keyframe{Time: t0, Value: v0, InTangent: slope, OutTangent: slope},
		Keyframe{Time: t1, Value: v1, InTangent: slope, OutTangent: slope},
	)
}

func Constant(v float64) *Curve {
	return New(Keyframe{Time: 0, Value: v})
}

// Smooth builds a curve through the points, deriving tangents from the
// neighbouring keys. End keys are flat.
func Smooth(points ...[2]float64) *Curve {
	keys := make([]Keyframe, len(points))
	for i, p := range points {
		keys[i] = Keyframe{Time: p[0], Value: p[1]}
	}
	c := New(keys...)
	c.AutoTangents()
	return c
}

// AutoTangents overwrites every tangent with the slope between the key's
// neighbours
func (c *Curve) AutoTangents() {
	n := len(c.Keys)
	for i := range c.Keys {
		if i == 0 || i == n-1 {
			c.Keys[i].InTangent = 0
			c.Keys[i].OutTangent = 0
			continue
		}
		prev, next := c.Keys[i-1], c.Keys[i+1]
		slope := 0.0
		if next.Time != prev.Time {
			slope = (next.Value - prev.Value) / (next.Time - prev.Time)
		}
		c.Keys[i].InTangent = slope
		c.Keys[i].OutTangent = slope
	}
}

func (c *Curve) sort() {
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
}

// Evaluate samples the curve at t
func (c *Curve) Evaluate(t float64) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	first, last := c.Keys[0], c.Keys[len(c.Keys)-1]
	if len(c.Keys) == 1 || t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// First key strictly after t
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > t })
	k0, k1 := c.Keys[i-1], c.Keys[i]
	return hermite(k0, k1, t)
}

func hermite(k0, k1 Keyframe, t float64) float64 {
	dt := k1.Time - k0.Time
	if dt == 0 {
		return k1.Value
	}
	// Infinite tangents make a stepped segment
	if math.IsInf(k0.OutTangent, 0) || math.IsInf(k1.InTangent, 0) {
		return k0.Value
	}

	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// Range returns the time span covered by the keys
func (c *Curve) Range() (float64, float64) {
	if c == nil || len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

// UnmarshalYAML keeps keys sorted no matter how the file lists them
func (c *Curve) UnmarshalYAML(value *yaml.Node) error {
	type plain Curve
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Curve(p)
	c.sort()
	return nil
}
