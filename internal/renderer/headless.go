package renderer

import (
	"fmt"
	"image"
)

type headlessCapture struct {
	probe   *ReflectionProbe
	readyAt int
}

// HeadlessHost is an in-memory rendering host. It allocates texture
// descriptors instead of GPU memory and completes probe captures after a
// configurable number of frames, which makes it usable for simulation runs
// and tests without a GL context.
type HeadlessHost struct {
	Settings *RenderSettings

	support        CopyTextureSupport
	captureLatency int
	frame          int

	nextTextureID uint32
	nextToken     RenderToken
	captures      map[RenderToken]headlessCapture
	completed     map[RenderToken]struct{}
	targets       map[*ReflectionProbe]*Texture

	// Counters for inspection
	RenderCalls  int
	CopyCalls    int
	ReleaseCalls int
}

// NewHeadlessHost creates a host with the given copy capability. A capture
// issued on frame N reports finished from frame N+captureLatency.
func NewHeadlessHost(support CopyTextureSupport, captureLatency int) *HeadlessHost {
	if captureLatency < 0 {
		captureLatency = 0
	}
	return &HeadlessHost{
		Settings:       NewRenderSettings(),
		support:        support,
		captureLatency: captureLatency,
		captures:       make(map[RenderToken]headlessCapture),
		completed:      make(map[RenderToken]struct{}),
		targets:        make(map[*ReflectionProbe]*Texture),
	}
}

func (h *HeadlessHost) CopyTextureSupport() CopyTextureSupport {
	return h.support
}

func (h *HeadlessHost) allocate(name string, width, height int, format TextureFormat, dim TextureDimension, mips bool) *Texture {
	h.nextTextureID++
	return &Texture{
		ID:        h.nextTextureID,
		Name:      name,
		Width:     width,
		Height:    height,
		Format:    format,
		Dimension: dim,
		MipChain:  mips,
	}
}

func (h *HeadlessHost) CreateCubemap(name string, size int, format TextureFormat, mipChain bool) *Texture {
	return h.allocate(name, size, size, format, TextureCube, mipChain)
}

// CopyTexture copies src into dst, both must have the same size
func (h *HeadlessHost) CopyTexture(src, dst *Texture) error {
	if src == nil || dst == nil {
		return fmt.Errorf("copy texture: nil texture")
	}
	if !src.SameSize(dst) {
		return fmt.Errorf("copy texture: size mismatch %dx%d -> %dx%d", src.Width, src.Height, dst.Width, dst.Height)
	}
	h.CopyCalls++
	dst.Revision++
	return nil
}

// RenderProbe starts a capture into the probe's render target, creating or
// resizing the target to the probe resolution
func (h *HeadlessHost) RenderProbe(p *ReflectionProbe) RenderToken {
	target, ok := h.targets[p]
	if !ok || target.Width != p.Resolution {
		format := FormatRGBA32
		if p.HDR {
			format = FormatRGBAHalf
		}
		target = h.allocate("ProbeTarget", p.Resolution, p.Resolution, format, TextureCube, false)
		h.targets[p] = target
	}

	h.nextToken++
	token := h.nextToken
	h.captures[token] = headlessCapture{probe: p, readyAt: h.frame + h.captureLatency}
	h.RenderCalls++
	return token
}

// IsFinishedRendering reports whether the capture behind token is done
func (h *HeadlessHost) IsFinishedRendering(p *ReflectionProbe, token RenderToken) bool {
	if _, done := h.completed[token]; done {
		return true
	}
	c, ok := h.captures[token]
	if !ok || c.probe != p {
		return false
	}
	if h.frame < c.readyAt {
		return false
	}
	target := h.targets[p]
	if target != nil {
		target.Revision++
	}
	delete(h.captures, token)
	h.completed[token] = struct{}{}
	return true
}

// ReleaseToken forgets a token the caller is done polling
func (h *HeadlessHost) ReleaseToken(token RenderToken) {
	delete(h.completed, token)
	delete(h.captures, token)
}

// ReleaseProbe drops the probe's render target
func (h *HeadlessHost) ReleaseProbe(p *ReflectionProbe) {
	delete(h.targets, p)
}

// ProbeTexture is the render target the probe captures into, nil before
// the first capture
func (h *HeadlessHost) ProbeTexture(p *ReflectionProbe) *Texture {
	return h.targets[p]
}

// ResizeProbeTexture forces the probe's render target to a new size,
// standing in for a platform that allocates targets on its own terms
func (h *HeadlessHost) ResizeProbeTexture(p *ReflectionProbe, size int) {
	if target, ok := h.targets[p]; ok {
		target.Width = size
		target.Height = size
	}
}

// Outstanding counts captures that have been issued but not yet reported
// finished
func (h *HeadlessHost) Outstanding() int {
	return len(h.captures)
}

// Completed counts finished tokens that have not been released
func (h *HeadlessHost) Completed() int {
	return len(h.completed)
}

// Targets counts live probe render targets
func (h *HeadlessHost) Targets() int {
	return len(h.targets)
}

// AdvanceFrame ends the current frame
func (h *HeadlessHost) AdvanceFrame() {
	h.frame++
}

func (h *HeadlessHost) Frame() int {
	return h.frame
}

// SetSun makes light the scene's sun
func (h *HeadlessHost) SetSun(light *Light) {
	h.Settings.Sun = light
}

func (h *HeadlessHost) UpdateEnvironment() {
	h.Settings.UpdateEnvironment()
}

func (h *HeadlessHost) SetCustomReflection(tex *Texture) {
	h.Settings.SetCustomReflection(tex)
}

// Upload registers an image as a 2D texture
func (h *HeadlessHost) Upload(img image.Image, name string) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("upload %s: nil image", name)
	}
	b := img.Bounds()
	return h.allocate(name, b.Dx(), b.Dy(), FormatRGBA32, Texture2D, true), nil
}

func (h *HeadlessHost) Release(tex *Texture) {
	if tex == nil || tex.ID == 0 {
		return
	}
	tex.ID = 0
	h.ReleaseCalls++
}
