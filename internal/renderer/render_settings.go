package renderer

// CopyTextureSupport is a bit set of the texture copy paths a platform offers
type CopyTextureSupport uint32

const (
	CopyNone           CopyTextureSupport = 0
	CopyBasic          CopyTextureSupport = 1 << 0
	CopyCopy3D         CopyTextureSupport = 1 << 1
	CopyDifferentTypes CopyTextureSupport = 1 << 2
	CopyTextureToRT    CopyTextureSupport = 1 << 3
	CopyRTToTexture    CopyTextureSupport = 1 << 4
)

func (c CopyTextureSupport) Has(flag CopyTextureSupport) bool {
	return c&flag != 0
}

type DefaultReflectionMode int

const (
	ReflectionSkybox DefaultReflectionMode = iota
	ReflectionCustom
)

// RenderSettings holds scene-wide lighting state: the sun light, and the
// texture used as the default specular reflection
type RenderSettings struct {
	Sun                   *Light
	DefaultReflectionMode DefaultReflectionMode
	CustomReflection      *Texture
	// EnvironmentUpdates counts ambient lighting recomputes
	EnvironmentUpdates int
}

func NewRenderSettings() *RenderSettings {
	return &RenderSettings{DefaultReflectionMode: ReflectionSkybox}
}

// SetCustomReflection switches the default reflection to tex
func (rs *RenderSettings) SetCustomReflection(tex *Texture) {
	rs.DefaultReflectionMode = ReflectionCustom
	rs.CustomReflection = tex
}

// UpdateEnvironment marks the ambient lighting as needing a recompute from
// the current sky
func (rs *RenderSettings) UpdateEnvironment() {
	rs.EnvironmentUpdates++
}
