package tween

import (
	"math"
	"testing"

	"Skycycle/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTweenCompletesAfterDuration(t *testing.T) {
	r := NewRunner()
	var last float32
	completions := 0
	tw := r.Start(10, func(p float32) { last = p }).OnComplete(func() { completions++ })

	r.Update(5)
	if last != 0.5 {
		t.Errorf("Expected progress 0.5, got %v", last)
	}
	if !tw.IsActive() {
		t.Error("Tween should still be active halfway")
	}

	r.Update(5)
	if completions != 1 {
		t.Errorf("Expected 1 completion, got %d", completions)
	}
	if last != 1 {
		t.Errorf("Expected final progress 1, got %v", last)
	}

	r.Update(5)
	if completions != 1 {
		t.Errorf("Completion must fire exactly once, got %d", completions)
	}
	if r.Len() != 0 {
		t.Errorf("Expected finished tween to be dropped, got %d", r.Len())
	}
}

func TestTweenCompletesDespiteFloatDrift(t *testing.T) {
	r := NewRunner()
	completions := 0
	r.Start(10, nil).OnComplete(func() { completions++ })

	for i := 0; i < 100; i++ {
		r.Update(0.1)
	}

	if completions != 1 {
		t.Errorf("Expected completion after 100 x 0.1s, got %d", completions)
	}
}

func TestKilledTweenNeverCompletes(t *testing.T) {
	r := NewRunner()
	completions := 0
	tw := r.Start(1, nil).OnComplete(func() { completions++ })

	r.Update(0.5)
	tw.Kill()
	r.Update(10)

	if completions != 0 {
		t.Errorf("Killed tween fired completion %d times", completions)
	}
	if tw.IsActive() {
		t.Error("Killed tween should not be active")
	}
}

func TestKillBeforeFirstUpdate(t *testing.T) {
	r := NewRunner()
	applied := false
	tw := r.Start(1, func(float32) { applied = true })
	tw.Kill()

	r.Update(2)

	if applied {
		t.Error("Killed tween should never apply")
	}
}

func TestKillFromSiblingCallbackInSameUpdate(t *testing.T) {
	r := NewRunner()
	secondFired := false
	var second *Tween
	r.Start(1, nil).OnComplete(func() { second.Kill() })
	second = r.Start(1, nil).OnComplete(func() { secondFired = true })

	r.Update(1)

	if secondFired {
		t.Error("Tween killed by an earlier callback must not complete")
	}
}

func TestTweenStartedInCallbackWaitsForNextUpdate(t *testing.T) {
	r := NewRunner()
	var chained *Tween
	r.Start(1, nil).OnComplete(func() {
		chained = r.Start(1, nil)
	})

	r.Update(1)
	if chained.Progress() != 0 {
		t.Errorf("Chained tween should not advance in the spawning update, got %v", chained.Progress())
	}

	r.Update(0.5)
	if chained.Progress() != 0.5 {
		t.Errorf("Expected chained progress 0.5, got %v", chained.Progress())
	}
}

func TestNilTweenIsSafe(t *testing.T) {
	var tw *Tween
	tw.Kill()
	if tw.IsActive() {
		t.Error("Nil tween should not be active")
	}
}

func TestKillAll(t *testing.T) {
	r := NewRunner()
	a := r.Start(1, nil)
	r.Update(0.1)
	b := r.Start(1, nil)

	r.KillAll()

	if a.IsActive() || b.IsActive() || r.Len() != 0 {
		t.Error("KillAll should cancel running and pending tweens")
	}
}

func TestInOutSineEase(t *testing.T) {
	if got := InOutSine.apply(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5 at midpoint, got %v", got)
	}
	if got := InOutSine.apply(0.25); got >= 0.25 {
		t.Errorf("InOutSine should start slow, got %v", got)
	}
	if _, ok := ParseEase("bounce"); ok {
		t.Error("Unknown ease should not parse")
	}
}

func TestLocalRotateIsRelative(t *testing.T) {
	r := NewRunner()
	tr := &behaviour.Transform{Rotation: behaviour.EulerDegrees(-10, 0, 0), Scale: mgl32.Vec3{1, 1, 1}}

	r.LocalRotate(tr, mgl32.Vec3{1, 0, 0}, 100, 10)
	r.Update(5)

	want := behaviour.EulerDegrees(40, 0, 0)
	if !tr.Rotation.ApproxEqualThreshold(want, 1e-4) && !tr.Rotation.ApproxEqualThreshold(want.Scale(-1), 1e-4) {
		t.Errorf("Expected rotation %v, got %v", want, tr.Rotation)
	}
}
