package renderer

import (
	"Skycycle/internal/logger"
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SkyDrawer renders the sky for one camera
type SkyDrawer interface {
	Draw(view, projection mgl32.Mat4)
}

type glProbeTarget struct {
	texture *Texture
	fbo     uint32
	depth   uint32
}

type glCapture struct {
	probe *ReflectionProbe
	fence uintptr
}

// GLHost implements the rendering host on top of OpenGL. Probe captures
// render the sky into a cubemap through a framebuffer and are tracked with
// fence syncs, copies are framebuffer blits. All methods need the context
// that was current when the host was created.
type GLHost struct {
	Settings *RenderSettings

	support   CopyTextureSupport
	sky       SkyDrawer
	targets   map[*ReflectionProbe]*glProbeTarget
	captures  map[RenderToken]glCapture
	completed map[RenderToken]struct{}
	nextToken RenderToken
	readFBO   uint32
	drawFBO   uint32
}

func NewGLHost() *GLHost {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)

	h := &GLHost{
		Settings:  NewRenderSettings(),
		support:   glCopySupport(major, minor),
		targets:   make(map[*ReflectionProbe]*glProbeTarget),
		captures:  make(map[RenderToken]glCapture),
		completed: make(map[RenderToken]struct{}),
	}
	gl.GenFramebuffers(1, &h.readFBO)
	gl.GenFramebuffers(1, &h.drawFBO)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	logger.Log.Info("OpenGL host ready",
		zap.Int32("major", major),
		zap.Int32("minor", minor),
		zap.Uint32("copySupport", uint32(h.support)))
	return h
}

// glCopySupport maps a context version to the copy paths it offers.
// Framebuffer blits arrived in 3.0, glCopyImageSubData in 4.3.
func glCopySupport(major, minor int32) CopyTextureSupport {
	if major < 3 {
		return CopyNone
	}
	support := CopyBasic | CopyTextureToRT | CopyRTToTexture
	if major > 4 || (major == 4 && minor >= 3) {
		support |= CopyCopy3D | CopyDifferentTypes
	}
	return support
}

func glFormat(format TextureFormat) (internal int32, pixelType uint32) {
	if format == FormatRGBAHalf {
		return gl.RGBA16F, gl.HALF_FLOAT
	}
	return gl.RGBA8, gl.UNSIGNED_BYTE
}

func (h *GLHost) CopyTextureSupport() CopyTextureSupport {
	return h.support
}

// SetSky sets what probe captures render
func (h *GLHost) SetSky(sky SkyDrawer) {
	h.sky = sky
}

func (h *GLHost) CreateCubemap(name string, size int, format TextureFormat, mipChain bool) *Texture {
	internal, pixelType := glFormat(format)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, internal, int32(size), int32(size), 0, gl.RGBA, pixelType, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if mipChain {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return &Texture{
		ID:        id,
		Name:      name,
		Width:     size,
		Height:    size,
		Format:    format,
		Dimension: TextureCube,
		MipChain:  mipChain,
	}
}

// CopyTexture blits every face of src into dst, both must have the same size
func (h *GLHost) CopyTexture(src, dst *Texture) error {
	if src == nil || dst == nil {
		return fmt.Errorf("copy texture: nil texture")
	}
	if !src.SameSize(dst) {
		return fmt.Errorf("copy texture: size mismatch %dx%d -> %dx%d", src.Width, src.Height, dst.Width, dst.Height)
	}
	if src.Dimension != dst.Dimension {
		return fmt.Errorf("copy texture: dimension mismatch")
	}

	faces := []uint32{gl.TEXTURE_2D}
	bindTarget := uint32(gl.TEXTURE_2D)
	if dst.Dimension == TextureCube {
		faces = faces[:0]
		for face := uint32(0); face < 6; face++ {
			faces = append(faces, gl.TEXTURE_CUBE_MAP_POSITIVE_X+face)
		}
		bindTarget = gl.TEXTURE_CUBE_MAP
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, h.readFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, h.drawFBO)
	for _, target := range faces {
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, target, src.ID, 0)
		gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, target, dst.ID, 0)
		w, ht := int32(src.Width), int32(src.Height)
		gl.BlitFramebuffer(0, 0, w, ht, 0, 0, w, ht, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if dst.MipChain {
		gl.BindTexture(bindTarget, dst.ID)
		gl.GenerateMipmap(bindTarget)
		gl.BindTexture(bindTarget, 0)
	}
	dst.Revision++
	return nil
}

func (h *GLHost) ensureTarget(p *ReflectionProbe) (*glProbeTarget, error) {
	target, ok := h.targets[p]
	if ok && target.texture.Width == p.Resolution {
		return target, nil
	}
	if ok {
		h.releaseTarget(target)
	}

	format := FormatRGBA32
	if p.HDR {
		format = FormatRGBAHalf
	}
	target = &glProbeTarget{texture: h.CreateCubemap("ProbeTarget", p.Resolution, format, false)}

	gl.GenRenderbuffers(1, &target.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, target.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(p.Resolution), int32(p.Resolution))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &target.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, target.depth)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X, target.texture.ID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		h.releaseTarget(target)
		delete(h.targets, p)
		return nil, fmt.Errorf("probe framebuffer incomplete: 0x%x", status)
	}

	h.targets[p] = target
	return target, nil
}

func (h *GLHost) releaseTarget(target *glProbeTarget) {
	gl.DeleteFramebuffers(1, &target.fbo)
	gl.DeleteRenderbuffers(1, &target.depth)
	gl.DeleteTextures(1, &target.texture.ID)
}

// RenderProbe renders the six faces of the probe and returns a token that
// finishes once the GPU is done with them. NoRender is returned when the
// probe target cannot be created.
func (h *GLHost) RenderProbe(p *ReflectionProbe) RenderToken {
	target, err := h.ensureTarget(p)
	if err != nil {
		logger.Log.Error("Probe capture failed", zap.Error(err))
		return NoRender
	}

	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(p.Resolution), int32(p.Resolution))
	projection := CubeFaceProjection(0.1, 10)
	for face := 0; face < 6; face++ {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), target.texture.ID, 0)
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if h.sky != nil && p.ClearFlags == ClearSkybox {
			h.sky.Draw(CubeFaceView(face, p.Position), projection)
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])

	fence := gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	gl.Flush()

	h.nextToken++
	token := h.nextToken
	h.captures[token] = glCapture{probe: p, fence: fence}
	return token
}

// IsFinishedRendering polls the fence of a capture without blocking
func (h *GLHost) IsFinishedRendering(p *ReflectionProbe, token RenderToken) bool {
	if _, done := h.completed[token]; done {
		return true
	}
	c, ok := h.captures[token]
	if !ok || c.probe != p {
		return false
	}
	switch gl.ClientWaitSync(c.fence, 0, 0) {
	case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
		gl.DeleteSync(c.fence)
		delete(h.captures, token)
		h.completed[token] = struct{}{}
		return true
	default:
		return false
	}
}

// ReleaseToken forgets a token the caller is done polling. A fence that has
// not signalled yet is deleted with it.
func (h *GLHost) ReleaseToken(token RenderToken) {
	delete(h.completed, token)
	if c, ok := h.captures[token]; ok {
		gl.DeleteSync(c.fence)
		delete(h.captures, token)
	}
}

// ReleaseProbe frees the probe's framebuffer, depth buffer and cubemap
func (h *GLHost) ReleaseProbe(p *ReflectionProbe) {
	if target, ok := h.targets[p]; ok {
		h.releaseTarget(target)
		delete(h.targets, p)
	}
}

func (h *GLHost) ProbeTexture(p *ReflectionProbe) *Texture {
	if target, ok := h.targets[p]; ok {
		return target.texture
	}
	return nil
}

// SetSun makes light the scene's sun
func (h *GLHost) SetSun(light *Light) {
	h.Settings.Sun = light
}

func (h *GLHost) UpdateEnvironment() {
	h.Settings.UpdateEnvironment()
}

func (h *GLHost) SetCustomReflection(tex *Texture) {
	h.Settings.SetCustomReflection(tex)
}

// Upload copies an image into a mipmapped 2D texture, flipped so that
// texture v=0 is the bottom row of the image
func (h *GLHost) Upload(img image.Image, name string) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("upload %s: nil image", name)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	flipRows(rgba)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{
		ID:        id,
		Name:      name,
		Width:     width,
		Height:    height,
		Format:    FormatRGBA32,
		Dimension: Texture2D,
		MipChain:  true,
	}, nil
}

func flipRows(rgba *image.RGBA) {
	height := rgba.Rect.Dy()
	row := make([]byte, rgba.Stride)
	for y := 0; y < height/2; y++ {
		top := rgba.Pix[y*rgba.Stride : (y+1)*rgba.Stride]
		bottom := rgba.Pix[(height-1-y)*rgba.Stride : (height-y)*rgba.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func (h *GLHost) Release(tex *Texture) {
	if tex == nil || tex.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.ID)
	tex.ID = 0
}

// Cleanup frees probe targets, pending fences and the copy framebuffers
func (h *GLHost) Cleanup() {
	for p, target := range h.targets {
		h.releaseTarget(target)
		delete(h.targets, p)
	}
	for token, c := range h.captures {
		gl.DeleteSync(c.fence)
		delete(h.captures, token)
	}
	gl.DeleteFramebuffers(1, &h.readFBO)
	gl.DeleteFramebuffers(1, &h.drawFBO)
}
