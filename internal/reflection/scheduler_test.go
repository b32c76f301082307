package reflection

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/renderer"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingHost wraps the headless host and checks on every request that
// no other capture is outstanding, whichever probe issued it
type recordingHost struct {
	*renderer.HeadlessHost
	t           *testing.T
	maxInFlight int
}

func (h *recordingHost) RenderProbe(p *renderer.ReflectionProbe) renderer.RenderToken {
	if n := h.Outstanding(); n > 0 {
		h.t.Errorf("Capture requested with %d outstanding", n)
	}
	token := h.HeadlessHost.RenderProbe(p)
	if n := h.Outstanding(); n > h.maxInFlight {
		h.maxInFlight = n
	}
	return token
}

func newTestScheduler(t *testing.T, support renderer.CopyTextureSupport, latency int) (*Scheduler, *recordingHost, *behaviour.ComponentManager) {
	t.Helper()
	host := &recordingHost{HeadlessHost: renderer.NewHeadlessHost(support, latency), t: t}
	scene := behaviour.NewComponentManager()
	blender := behaviour.NewGameObject("Skybox Blender")
	scene.RegisterGameObject(blender)

	s, err := NewScheduler(host, scene, blender, Options{Resolution: 128})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return s, host, scene
}

func tick(s *Scheduler, host *recordingHost, n int) {
	for i := 0; i < n; i++ {
		s.Refresh()
		host.AdvanceFrame()
	}
}

func TestSchedulerRejectsInvalidResolution(t *testing.T) {
	host := renderer.NewHeadlessHost(renderer.CopyRTToTexture, 0)

	_, err := NewScheduler(host, nil, nil, Options{Resolution: 100})

	var resErr *ResolutionError
	if !errors.As(err, &resErr) || resErr.Resolution != 100 {
		t.Errorf("Expected ResolutionError for 100, got %v", err)
	}
}

func TestSchedulerDefaultsResolution(t *testing.T) {
	host := renderer.NewHeadlessHost(renderer.CopyRTToTexture, 0)

	s, err := NewScheduler(host, nil, nil, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.Refresh()

	if s.Probe().Probe.Resolution != DefaultResolution {
		t.Errorf("Expected resolution %d, got %d", DefaultResolution, s.Probe().Probe.Resolution)
	}
}

func TestCreateProbeConfiguresSkyOnlyCapture(t *testing.T) {
	s, host, scene := newTestScheduler(t, renderer.CopyRTToTexture, 0)

	s.CreateProbe()

	obj := scene.FindGameObject(ProbeObjectName)
	if obj == nil {
		t.Fatal("Probe object should be registered in the scene")
	}
	if !obj.Transform.WorldPosition().ApproxEqual(mgl32.Vec3{0, -1000, 0}) {
		t.Errorf("Expected probe at (0,-1000,0), got %v", obj.Transform.WorldPosition())
	}
	if obj.Transform.Parent == nil || scene.FindGameObject("Skybox Blender").Transform != obj.Transform.Parent {
		t.Error("Probe object should be parented to the blender")
	}

	p := s.Probe().Probe
	if p.CullingMask != 0 || p.ClearFlags != renderer.ClearSkybox || p.Mode != renderer.ProbeRealtime {
		t.Errorf("Unexpected probe parameters %+v", p)
	}
	if p.RefreshMode != renderer.RefreshViaScripting || p.TimeSlicing != renderer.TimeSlicingNone {
		t.Errorf("Probe should refresh from script without time slicing, got %+v", p)
	}
	if p.Size != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected unit probe size, got %v", p.Size)
	}

	dst := s.Destination()
	if dst.Width != 128 || dst.Dimension != renderer.TextureCube || !dst.MipChain || dst.Format != renderer.FormatRGBA32 {
		t.Errorf("Unexpected destination %v", dst)
	}
	if host.Settings.DefaultReflectionMode != renderer.ReflectionCustom || host.Settings.CustomReflection != dst {
		t.Error("Destination should become the custom reflection")
	}
}

func TestCreateProbeHDRDestination(t *testing.T) {
	host := renderer.NewHeadlessHost(renderer.CopyRTToTexture, 0)
	s, err := NewScheduler(host, nil, nil, Options{Resolution: 64, HDR: true})
	if err != nil {
		t.Fatal(err)
	}

	s.CreateProbe()

	if s.Destination().Format != renderer.FormatRGBAHalf {
		t.Errorf("Expected RGBAHalf destination, got %s", s.Destination().Format)
	}
}

func TestCreateProbeReusesObjectAndReplacesComponent(t *testing.T) {
	s, _, scene := newTestScheduler(t, renderer.CopyRTToTexture, 0)

	s.CreateProbe()
	first := s.Probe()
	obj := s.ProbeObject()

	s.CreateProbe()

	if s.ProbeObject() != obj {
		t.Error("Probe object should be found by name, not recreated")
	}
	if s.Probe() == first {
		t.Error("Probe component should be replaced")
	}
	count := 0
	for _, c := range obj.Components {
		if _, ok := c.(*ProbeComponent); ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 probe component, got %d", count)
	}
	if len(scene.GetAllGameObjects()) != 2 {
		t.Errorf("Expected blender and probe objects only, got %d", len(scene.GetAllGameObjects()))
	}
}

func TestRefreshZeroLatencyCycle(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 0)

	s.Refresh()
	if s.Token() == renderer.NoRender {
		t.Fatal("First refresh should issue a capture")
	}

	s.Refresh()
	stats := s.Stats()
	if stats.CapturesCompleted != 1 || stats.CopiesPerformed != 1 || stats.CapturesRequested != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if s.Destination().Revision != 1 {
		t.Errorf("Expected destination written once, got %d", s.Destination().Revision)
	}
	if host.Settings.CustomReflection != s.Destination() {
		t.Error("Destination should be published after a capture")
	}
}

func TestRefreshWaitsForMultiFrameCapture(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 3)

	tick(s, host, 30)

	stats := s.Stats()
	// One capture every 3 frames, the first issued on frame 0
	if stats.CapturesRequested != 10 {
		t.Errorf("Expected 10 captures over 30 frames, got %d", stats.CapturesRequested)
	}
	if stats.CapturesCompleted != 9 {
		t.Errorf("Expected 9 completed captures, got %d", stats.CapturesCompleted)
	}
	if host.maxInFlight > 1 {
		t.Errorf("Expected at most 1 capture in flight, saw %d", host.maxInFlight)
	}
}

func TestRequestCaptureRefusesWhilePending(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 5)

	s.Refresh()
	token := s.Token()

	if s.RequestCapture() {
		t.Error("RequestCapture should refuse while a capture is pending")
	}
	if s.Token() != token || host.RenderCalls != 1 {
		t.Error("Pending token should be kept")
	}
}

func TestRefreshWithoutCopySupport(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyBasic|renderer.CopyTextureToRT, 0)

	tick(s, host, 100)

	if host.RenderCalls != 0 {
		t.Errorf("Expected no captures without RT copy support, got %d", host.RenderCalls)
	}
	if s.Destination().Revision != 0 {
		t.Error("Destination should stay untouched")
	}
	if host.Settings.DefaultReflectionMode != renderer.ReflectionSkybox {
		t.Error("Reflection should stay on the sky without capture support")
	}
	if s.Supported() {
		t.Error("Supported should report false")
	}
}

func TestRefreshSkipsCopyOnSizeMismatch(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 1)

	s.Refresh()
	host.ResizeProbeTexture(s.Probe().Probe, 64)
	host.AdvanceFrame()
	s.Refresh()

	stats := s.Stats()
	if stats.CopiesSkipped != 1 || stats.CopiesPerformed != 0 {
		t.Errorf("Expected one skipped copy, got %+v", stats)
	}
	if host.Settings.CustomReflection != s.Destination() {
		t.Error("Destination should be published even when the copy is skipped")
	}
	if stats.CapturesRequested != 2 {
		t.Errorf("A new capture should follow a skipped copy, got %d requests", stats.CapturesRequested)
	}

	// The next capture resizes the target back to the probe resolution
	host.AdvanceFrame()
	s.Refresh()
	if s.Stats().CopiesPerformed != 1 {
		t.Errorf("Expected the copy to resume once sizes match, got %+v", s.Stats())
	}
}

func TestRefreshRecreatesStaleProbe(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 10)

	s.Refresh()
	old := s.Probe()
	s.ProbeObject().RemoveComponent(old)

	s.Refresh()

	if s.Probe() == old {
		t.Error("Removed probe component should be replaced")
	}
	if s.Stats().ProbesCreated != 2 {
		t.Errorf("Expected 2 probe creations, got %d", s.Stats().ProbesCreated)
	}
	if host.RenderCalls != 1 {
		t.Errorf("Expected the old capture to block a new one, got %d renders", host.RenderCalls)
	}

	// The old capture finishes on frame 10
	tick(s, host, 11)
	if host.RenderCalls != 2 {
		t.Errorf("Recreated probe should issue its own capture, got %d renders", host.RenderCalls)
	}
	if host.Targets() != 1 {
		t.Errorf("Expected the old target to be released, got %d targets", host.Targets())
	}
}

func TestRefreshRecreatesDestroyedProbeObject(t *testing.T) {
	s, host, scene := newTestScheduler(t, renderer.CopyRTToTexture, 0)

	tick(s, host, 2)
	old := s.ProbeObject()
	scene.UnregisterGameObject(old)

	s.Refresh()

	if s.ProbeObject() == old || s.ProbeObject().Destroyed() {
		t.Error("A destroyed probe object should be recreated")
	}
}

func TestSetResolutionRebuildsProbe(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 0)
	tick(s, host, 2)

	if err := s.SetResolution(33); err == nil {
		t.Error("Expected error for resolution 33")
	}
	if err := s.SetResolution(256); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s.Refresh()

	if s.Destination().Width != 256 || s.Probe().Probe.Resolution != 256 {
		t.Errorf("Expected 256 probe and destination, got %d and %d", s.Probe().Probe.Resolution, s.Destination().Width)
	}
	if host.ReleaseCalls != 1 {
		t.Errorf("Expected the old destination to be released, got %d releases", host.ReleaseCalls)
	}
	if host.Targets() != 1 {
		t.Errorf("Expected 1 probe target, got %d", host.Targets())
	}
}

func TestSetResolutionWaitsForPendingCapture(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 5)

	s.Refresh()
	host.AdvanceFrame()
	if err := s.SetResolution(256); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 20; i++ {
		s.Refresh()
		if n := host.Outstanding(); n > 1 {
			t.Fatalf("Expected at most 1 outstanding capture on frame %d, got %d", host.Frame(), n)
		}
		if host.Frame() < 5 && host.RenderCalls != 1 {
			t.Errorf("Expected no new capture before frame 5, got %d renders on frame %d", host.RenderCalls, host.Frame())
		}
		host.AdvanceFrame()
	}

	if host.maxInFlight > 1 {
		t.Errorf("Expected at most 1 capture in flight, saw %d", host.maxInFlight)
	}
	if s.Probe().Probe.Resolution != 256 {
		t.Errorf("Expected 256 probe, got %d", s.Probe().Probe.Resolution)
	}
	if s.Stats().CapturesCompleted == 0 {
		t.Error("Expected the new probe to complete captures")
	}
}

func TestRepeatedRebuildsKeepOneCapture(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 3)

	for i, res := range []int{256, 64, 512, 128, 32} {
		tick(s, host, i+1)
		if err := s.SetResolution(res); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	tick(s, host, 10)

	if host.maxInFlight > 1 {
		t.Errorf("Expected at most 1 capture in flight, saw %d", host.maxInFlight)
	}
	if host.Targets() != 1 {
		t.Errorf("Expected 1 probe target after rebuilds, got %d", host.Targets())
	}
	if host.ReleaseCalls != s.Stats().ProbesCreated-1 {
		t.Errorf("Expected %d released destinations, got %d", s.Stats().ProbesCreated-1, host.ReleaseCalls)
	}
}

func TestLongRunKeepsTokenBookkeepingBounded(t *testing.T) {
	s, host, _ := newTestScheduler(t, renderer.CopyRTToTexture, 0)

	tick(s, host, 1000)

	if s.Stats().CapturesCompleted != 999 {
		t.Errorf("Expected 999 completed captures, got %d", s.Stats().CapturesCompleted)
	}
	if host.Completed() != 0 {
		t.Errorf("Expected no retained finished tokens, got %d", host.Completed())
	}
	if host.Outstanding() != 1 {
		t.Errorf("Expected 1 outstanding capture, got %d", host.Outstanding())
	}
}

func TestProbeComponentFollowsObject(t *testing.T) {
	obj := behaviour.NewGameObject("probe")
	probe := NewProbeComponent(64, false)
	obj.AddComponent(probe)

	obj.Transform.SetPosition(mgl32.Vec3{1, 2, 3})
	probe.Update(0)

	if probe.Probe.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Expected probe at (1,2,3), got %v", probe.Probe.Position)
	}
	if behaviour.GetComponentCategory(probe) != behaviour.ComponentTypeProbe {
		t.Error("Probe component should report the probe category")
	}
}

func TestPlaceAtWorldUnderRotatedParent(t *testing.T) {
	parent := behaviour.NewGameObject("parent")
	parent.Transform.SetPosition(mgl32.Vec3{5, 0, 0})
	parent.Transform.SetEulerDegrees(0, 90, 0)
	parent.Transform.SetScale(mgl32.Vec3{2, 2, 2})
	child := behaviour.NewGameObject("child")
	child.Transform.SetParent(parent.Transform)

	placeAtWorld(child.Transform, mgl32.Vec3{0, -1000, 0})

	if !child.Transform.WorldPosition().ApproxEqualThreshold(mgl32.Vec3{0, -1000, 0}, 1e-3) {
		t.Errorf("Expected world (0,-1000,0), got %v", child.Transform.WorldPosition())
	}
}

func TestValidResolution(t *testing.T) {
	for _, r := range Resolutions {
		if !ValidResolution(r) {
			t.Errorf("Expected %d to be valid", r)
		}
	}
	for _, r := range []int{0, 8, 100, 4096} {
		if ValidResolution(r) {
			t.Errorf("Expected %d to be invalid", r)
		}
	}
}
