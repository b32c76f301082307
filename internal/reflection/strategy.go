package reflection

import "Skycycle/internal/renderer"

// copyStrategy is picked once from the host's copy capability
type copyStrategy interface {
	name() string
	supported() bool
	refresh(s *Scheduler)
}

func selectStrategy(support renderer.CopyTextureSupport) copyStrategy {
	// The probe output is a render target, the destination a plain texture
	if support.Has(renderer.CopyRTToTexture) {
		return captureStrategy{}
	}
	return disabledStrategy{}
}

// disabledStrategy never captures, the ambient reflection keeps whatever
// it had
type disabledStrategy struct{}

func (disabledStrategy) name() string         { return "disabled" }
func (disabledStrategy) supported() bool      { return false }
func (disabledStrategy) refresh(s *Scheduler) {}

type captureStrategy struct{}

func (captureStrategy) name() string    { return "rt-to-texture" }
func (captureStrategy) supported() bool { return true }

func (captureStrategy) refresh(s *Scheduler) {
	if s.token == renderer.NoRender {
		s.RequestCapture()
		return
	}
	if !s.host.IsFinishedRendering(s.probe.Probe, s.token) {
		return
	}
	s.finish()
	s.RequestCapture()
}
