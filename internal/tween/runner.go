package tween

import (
	"Skycycle/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// Runner owns a set of tweens and advances them together
type Runner struct {
	active  []*Tween
	pending []*Tween
}

func NewRunner() *Runner {
	return &Runner{}
}

// Start creates a tween of the given duration in seconds. Tweens started
// while the runner is updating begin advancing on the next Update.
func (r *Runner) Start(duration float64, apply func(progress float32)) *Tween {
	t := &Tween{duration: duration, apply: apply}
	r.pending = append(r.pending, t)
	return t
}

// Update advances every live tween by dt seconds and fires completion
// callbacks in start order
func (r *Runner) Update(dt float64) {
	r.active = append(r.active, r.pending...)
	r.pending = r.pending[:0]

	var finished []*Tween
	for _, t := range r.active {
		if t.step(dt) {
			finished = append(finished, t)
		}
	}

	for _, t := range finished {
		// An earlier callback in this batch may have killed t
		if t.killed {
			continue
		}
		if t.onComplete != nil {
			t.onComplete()
		}
	}

	live := r.active[:0]
	for _, t := range r.active {
		if t.IsActive() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(r.active); i++ {
		r.active[i] = nil
	}
	r.active = live
}

// Len is the number of tweens that are running or about to start
func (r *Runner) Len() int {
	n := 0
	for _, t := range r.active {
		if t.IsActive() {
			n++
		}
	}
	for _, t := range r.pending {
		if t.IsActive() {
			n++
		}
	}
	return n
}

// KillAll cancels every tween owned by the runner
func (r *Runner) KillAll() {
	for _, t := range r.active {
		t.Kill()
	}
	for _, t := range r.pending {
		t.Kill()
	}
	r.active = r.active[:0]
	r.pending = r.pending[:0]
}

// LocalRotate turns transform by degrees about its local axis over duration,
// relative to the rotation it has when the tween is created
func (r *Runner) LocalRotate(transform *behaviour.Transform, axis mgl32.Vec3, degrees float32, duration float64) *Tween {
	start := transform.Rotation
	axis = axis.Normalize()
	return r.Start(duration, func(progress float32) {
		delta := mgl32.QuatRotate(mgl32.DegToRad(degrees*progress), axis)
		transform.Rotation = start.Mul(delta).Normalize()
	})
}
