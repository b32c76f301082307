package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ProbeClearFlags int

const (
	ClearSkybox ProbeClearFlags = iota
	ClearSolidColor
)

type ProbeMode int

const (
	ProbeBaked ProbeMode = iota
	ProbeRealtime
)

type ProbeRefreshMode int

const (
	RefreshOnAwake ProbeRefreshMode = iota
	RefreshEveryFrame
	RefreshViaScripting
)

type ProbeTimeSlicing int

const (
	TimeSlicingAllFacesAtOnce ProbeTimeSlicing = iota
	TimeSlicingIndividualFaces
	TimeSlicingNone
)

// RenderToken identifies one probe capture in flight
type RenderToken int32

// NoRender means no capture has been issued
const NoRender RenderToken = -1

// ReflectionProbe captures its surroundings into a cube render target.
// The host owns the GPU side, the probe is only its parameter set.
type ReflectionProbe struct {
	Resolution  int
	Size        mgl32.Vec3
	Position    mgl32.Vec3
	CullingMask uint32
	ClearFlags  ProbeClearFlags
	Mode        ProbeMode
	RefreshMode ProbeRefreshMode
	TimeSlicing ProbeTimeSlicing
	HDR         bool
}

// NewSkyOnlyProbe returns a manually refreshed probe that sees nothing but
// the sky
func NewSkyOnlyProbe(resolution int, hdr bool) *ReflectionProbe {
	return &ReflectionProbe{
		Resolution:  resolution,
		Size:        mgl32.Vec3{1, 1, 1},
		CullingMask: 0,
		ClearFlags:  ClearSkybox,
		Mode:        ProbeRealtime,
		RefreshMode: RefreshViaScripting,
		TimeSlicing: TimeSlicingNone,
		HDR:         hdr,
	}
}
