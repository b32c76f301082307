package reflection

import (
	"Skycycle/internal/behaviour"
	"Skycycle/internal/renderer"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ProbeObjectName is the well-known name of the object carrying the probe
const ProbeObjectName = "Skybox Blender Reflection Probe"

// ProbeWorldPosition keeps the probe away from any probe placed by hand
var ProbeWorldPosition = mgl32.Vec3{0, -1000, 0}

// Resolutions lists the capture sizes a probe accepts
var Resolutions = []int{16, 32, 64, 128, 256, 512, 1024, 2048}

const DefaultResolution = 128

func ValidResolution(res int) bool {
	for _, r := range Resolutions {
		if r == res {
			return true
		}
	}
	return false
}

// ResolutionError reports a capture size outside Resolutions
type ResolutionError struct {
	Resolution int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("invalid probe resolution %d, want one of %v", e.Resolution, Resolutions)
}

// ProbeComponent attaches a sky-only reflection probe to a GameObject and
// keeps the probe's capture position on the object
type ProbeComponent struct {
	behaviour.BaseComponent
	Probe *renderer.ReflectionProbe
}

func NewProbeComponent(resolution int, hdr bool) *ProbeComponent {
	return &ProbeComponent{Probe: renderer.NewSkyOnlyProbe(resolution, hdr)}
}

func (p *ProbeComponent) Awake() {
	p.syncPosition()
}

func (p *ProbeComponent) Update(float32) {
	p.syncPosition()
}

func (p *ProbeComponent) syncPosition() {
	if obj := p.GetGameObject(); obj != nil {
		p.Probe.Position = obj.Transform.WorldPosition()
	}
}

func (p *ProbeComponent) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeProbe
}

func (p *ProbeComponent) GetTypeName() string {
	return "ProbeComponent"
}

// placeAtWorld sets t's local position so that it lands on world
func placeAtWorld(t *behaviour.Transform, world mgl32.Vec3) {
	if t.Parent == nil {
		t.SetPosition(world)
		return
	}
	p := t.Parent
	local := p.WorldRotation().Inverse().Rotate(world.Sub(p.WorldPosition()))
	scale := p.Scale
	for i := 0; i < 3; i++ {
		if scale[i] != 0 {
			local[i] /= scale[i]
		}
	}
	t.SetPosition(local)
}
