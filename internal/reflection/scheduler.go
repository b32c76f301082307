package reflection

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/logger"
	"Skycycle/internal/renderer"

	"go.uber.org/zap"
)

// Host is the part of the rendering host the scheduler drives
type Host interface {
	CopyTextureSupport() renderer.CopyTextureSupport
	CreateCubemap(name string, size int, format renderer.TextureFormat, mipChain bool) *renderer.Texture
	CopyTexture(src, dst *renderer.Texture) error
	RenderProbe(p *renderer.ReflectionProbe) renderer.RenderToken
	IsFinishedRendering(p *renderer.ReflectionProbe, token renderer.RenderToken) bool
	ReleaseToken(token renderer.RenderToken)
	ReleaseProbe(p *renderer.ReflectionProbe)
	Release(tex *renderer.Texture)
	ProbeTexture(p *renderer.ReflectionProbe) *renderer.Texture
	SetCustomReflection(tex *renderer.Texture)
}

// Options configures the captured probe
type Options struct {
	Resolution int
	HDR        bool
}

// Stats counts the capture pipeline's work
type Stats struct {
	ProbesCreated     int
	CapturesRequested int
	CapturesCompleted int
	CopiesPerformed   int
	CopiesSkipped     int
}

// retiredCapture is a capture still running for a probe that has since been
// replaced. Its target stays alive until the capture finishes.
type retiredCapture struct {
	probe *renderer.ReflectionProbe
	token renderer.RenderToken
}

// Scheduler keeps the ambient reflection in step with the sky. It owns one
// probe and one destination cubemap, keeps at most one capture in flight
// and copies each finished capture into the destination.
type Scheduler struct {
	host     Host
	scene    *behaviour.ComponentManager
	parent   *behaviour.GameObject
	options  Options
	strategy copyStrategy

	object      *behaviour.GameObject
	probe       *ProbeComponent
	destination *renderer.Texture
	token       renderer.RenderToken
	retired     *retiredCapture
	rebuild     bool
	stats       Stats
}

// NewScheduler validates opts and queries the host's copy capability once.
// parent is the object a newly created probe is attached to and may be nil.
func NewScheduler(host Host, scene *behaviour.ComponentManager, parent *behaviour.GameObject, opts Options) (*Scheduler, error) {
	if opts.Resolution == 0 {
		opts.Resolution = DefaultResolution
	}
	if !ValidResolution(opts.Resolution) {
		return nil, &ResolutionError{Resolution: opts.Resolution}
	}

	s := &Scheduler{
		host:     host,
		scene:    scene,
		parent:   parent,
		options:  opts,
		strategy: selectStrategy(host.CopyTextureSupport()),
		token:    renderer.NoRender,
	}

	logger.Log.Debug("Reflection copy strategy selected",
		zap.String("strategy", s.strategy.name()),
		zap.Uint32("copySupport", uint32(host.CopyTextureSupport())))
	return s, nil
}

// Supported reports whether captures can reach the ambient reflection
func (s *Scheduler) Supported() bool {
	return s.strategy.supported()
}

// SetResolution changes the capture size. The probe is rebuilt on the next
// Refresh.
func (s *Scheduler) SetResolution(res int) error {
	if !ValidResolution(res) {
		return &ResolutionError{Resolution: res}
	}
	if res != s.options.Resolution {
		s.options.Resolution = res
		s.rebuild = true
	}
	return nil
}

// SetParent sets the object newly created probes are attached to
func (s *Scheduler) SetParent(parent *behaviour.GameObject) {
	s.parent = parent
}

func (s *Scheduler) stale() bool {
	if s.rebuild || s.object == nil || s.object.Destroyed() || s.probe == nil {
		return true
	}
	current, ok := behaviour.GetComponent[*ProbeComponent](s.object)
	return !ok || current != s.probe
}

// CreateProbe finds or creates the probe object, replaces any probe
// component on it with a fresh one and allocates a matching destination.
// A capture still running for the old probe is retired and keeps blocking
// new captures until it finishes.
func (s *Scheduler) CreateProbe() {
	s.retire()

	var obj *behaviour.GameObject
	if s.scene != nil {
		obj = s.scene.FindGameObject(ProbeObjectName)
	}
	if obj == nil {
		obj = behaviour.NewGameObject(ProbeObjectName)
		if s.parent != nil {
			obj.Transform.SetParent(s.parent.Transform)
		}
		placeAtWorld(obj.Transform, ProbeWorldPosition)
		if s.scene != nil {
			s.scene.RegisterGameObject(obj)
		}
	}

	if old, ok := behaviour.GetComponent[*ProbeComponent](obj); ok {
		obj.RemoveComponent(old)
	}

	probe := NewProbeComponent(s.options.Resolution, s.options.HDR)
	obj.AddComponent(probe)

	format := renderer.FormatRGBA32
	if probe.Probe.HDR {
		format = renderer.FormatRGBAHalf
	}
	previous := s.destination
	s.object = obj
	s.probe = probe
	s.destination = s.host.CreateCubemap("Skybox Blender Reflection", probe.Probe.Resolution, format, true)
	s.token = renderer.NoRender
	s.rebuild = false
	s.stats.ProbesCreated++

	if s.strategy.supported() {
		s.host.SetCustomReflection(s.destination)
	}
	if previous != nil {
		s.host.Release(previous)
	}

	logger.Log.Info("Reflection probe created",
		zap.Int("resolution", probe.Probe.Resolution),
		zap.Bool("hdr", probe.Probe.HDR),
		zap.String("destination", s.destination.String()))
}

// retire hands the current probe back to the host. If its capture may still
// be running the probe is kept as retired until the capture is done.
func (s *Scheduler) retire() {
	if s.probe == nil {
		return
	}
	old := s.probe.Probe
	if s.token != renderer.NoRender {
		// At most one capture is outstanding, so s.retired is nil here
		s.retired = &retiredCapture{probe: old, token: s.token}
		s.token = renderer.NoRender
	} else {
		s.host.ReleaseProbe(old)
	}
	s.probe = nil
}

// drainRetired reports whether no retired capture is left running,
// releasing the retired probe once its capture is done
func (s *Scheduler) drainRetired() bool {
	if s.retired == nil {
		return true
	}
	if !s.host.IsFinishedRendering(s.retired.probe, s.retired.token) {
		return false
	}
	s.host.ReleaseToken(s.retired.token)
	s.host.ReleaseProbe(s.retired.probe)
	logger.Log.Debug("Retired probe capture finished", zap.Int32("token", int32(s.retired.token)))
	s.retired = nil
	return true
}

// RequestCapture issues a capture unless one is still running. It returns
// whether a capture was issued.
func (s *Scheduler) RequestCapture() bool {
	if !s.strategy.supported() || s.probe == nil {
		return false
	}
	if !s.drainRetired() {
		return false
	}
	if s.token != renderer.NoRender {
		if !s.host.IsFinishedRendering(s.probe.Probe, s.token) {
			return false
		}
		s.host.ReleaseToken(s.token)
	}

	token := s.host.RenderProbe(s.probe.Probe)
	s.token = token
	if token == renderer.NoRender {
		return false
	}
	s.stats.CapturesRequested++
	logger.Log.Debug("Probe capture requested", zap.Int32("token", int32(token)))
	return true
}

// Refresh advances the capture pipeline by one tick
func (s *Scheduler) Refresh() {
	if s.stale() {
		s.CreateProbe()
	}
	s.strategy.refresh(s)
}

// finish handles a completed capture: copy if the sizes match, then publish
// the destination whether or not the copy happened
func (s *Scheduler) finish() {
	s.stats.CapturesCompleted++

	src := s.host.ProbeTexture(s.probe.Probe)
	if src != nil {
		if src.SameSize(s.destination) {
			if err := s.host.CopyTexture(src, s.destination); err != nil {
				s.stats.CopiesSkipped++
				logger.Log.Error("Probe copy failed", zap.Error(err))
			} else {
				s.stats.CopiesPerformed++
			}
		} else {
			s.stats.CopiesSkipped++
			logger.Log.Debug("Probe copy skipped, size mismatch",
				zap.String("source", src.String()),
				zap.String("destination", s.destination.String()))
		}
	}

	s.host.SetCustomReflection(s.destination)
}

func (s *Scheduler) Token() renderer.RenderToken {
	return s.token
}

func (s *Scheduler) Destination() *renderer.Texture {
	return s.destination
}

func (s *Scheduler) Probe() *ProbeComponent {
	return s.probe
}

func (s *Scheduler) ProbeObject() *behaviour.GameObject {
	return s.object
}

func (s *Scheduler) Stats() Stats {
	return s.stats
}
