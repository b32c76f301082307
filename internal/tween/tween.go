// Package tween runs timed animations that are advanced by the frame loop.
//
// A Tween calls its apply function with the eased progress every update and
// its completion callback once when it reaches the end. Kill stops a tween
// for good: after Kill returns, neither apply nor the completion callback
// will run again, even if Kill is called from inside another tween's callback
// during the same update.
package tween

import (
	"math"
)

// completionEpsilon absorbs float drift when many frame deltas are summed
const completionEpsilon = 1e-6

type Ease int

const (
	Linear Ease = iota
	InOutSine
)

func (e Ease) String() string {
	switch e {
	case InOutSine:
		return "inOutSine"
	default:
		return "linear"
	}
}

// ParseEase maps a config name to an Ease, unknown names fall back to Linear
func ParseEase(name string) (Ease, bool) {
	switch name {
	case "", "linear":
		return Linear, true
	case "inOutSine":
		return InOutSine, true
	}
	return Linear, false
}

func (e Ease) apply(t float64) float64 {
	switch e {
	case InOutSine:
		return -(math.Cos(math.Pi*t) - 1) / 2
	default:
		return t
	}
}

type Tween struct {
	duration   float64
	elapsed    float64
	ease       Ease
	apply      func(progress float32)
	onComplete func()
	killed     bool
	completed  bool
}

// SetEase changes the easing curve, returns t for chaining
func (t *Tween) SetEase(e Ease) *Tween {
	t.ease = e
	return t
}

// OnComplete sets the callback run once when the tween reaches its end
// without being killed
func (t *Tween) OnComplete(fn func()) *Tween {
	t.onComplete = fn
	return t
}

// Kill cancels the tween. Safe on nil, finished or already killed tweens.
func (t *Tween) Kill() {
	if t == nil {
		return
	}
	t.killed = true
}

// IsActive reports whether the tween is still running
func (t *Tween) IsActive() bool {
	return t != nil && !t.killed && !t.completed
}

// Progress is the linear, un-eased fraction of the duration elapsed
func (t *Tween) Progress() float32 {
	if t == nil {
		return 0
	}
	if t.duration <= 0 {
		return 1
	}
	return float32(math.Min(t.elapsed/t.duration, 1))
}

// step advances the tween and reports whether it finished on this step
func (t *Tween) step(dt float64) bool {
	if !t.IsActive() {
		return false
	}
	t.elapsed += dt
	done := t.duration <= 0 || t.elapsed >= t.duration-completionEpsilon*t.duration
	if done {
		t.elapsed = t.duration
	}
	if t.apply != nil {
		t.apply(float32(t.ease.apply(float64(t.Progress()))))
	}
	if done {
		t.completed = true
	}
	return done
}
