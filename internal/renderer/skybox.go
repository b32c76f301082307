package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// SkyboxSize is the half extent of the sky cube
var SkyboxSize float32 = 1.0

const skyVertexStride = 5 // position xyz, uv

// Per face: corner at uv (0,0), then the u and v edge vectors. Faces follow
// SkyboxFaces order and are seen from inside the cube.
var skyFaceFrames = [6][3]mgl32.Vec3{
	{{-1, -1, -1}, {2, 0, 0}, {0, 2, 0}}, // Front (-Z)
	{{1, -1, 1}, {-2, 0, 0}, {0, 2, 0}},  // Back (+Z)
	{{-1, -1, 1}, {0, 0, -2}, {0, 2, 0}}, // Left (-X)
	{{1, -1, -1}, {0, 0, 2}, {0, 2, 0}},  // Right (+X)
	{{-1, 1, -1}, {2, 0, 0}, {0, 0, 2}},  // Up (+Y)
	{{-1, -1, 1}, {2, 0, 0}, {0, 0, -2}}, // Down (-Y)
}

// skyFaceVertices builds two triangles per face, interleaved position/uv
func skyFaceVertices(size float32) []float32 {
	quad := [6][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}

	vertices := make([]float32, 0, len(skyFaceFrames)*len(quad)*skyVertexStride)
	for _, frame := range skyFaceFrames {
		for _, uv := range quad {
			p := frame[0].Add(frame[1].Mul(uv[0])).Add(frame[2].Mul(uv[1])).Mul(size)
			vertices = append(vertices, p[0], p[1], p[2], uv[0], uv[1])
		}
	}
	return vertices
}

// BlendedSkybox draws a six-sided sky whose faces cross-fade between the
// night (_1) and day (_2) textures of a blended sky material
type BlendedSkybox struct {
	VAO      uint32
	VBO      uint32
	Shader   Shader
	Material *Material
	uniforms *UniformCache
}

// CreateBlendedSkybox uploads the sky geometry and compiles its shader.
// Needs a current GL context.
func CreateBlendedSkybox(material *Material) (*BlendedSkybox, error) {
	skybox := &BlendedSkybox{Material: material}

	vertices := skyFaceVertices(SkyboxSize)

	gl.GenVertexArrays(1, &skybox.VAO)
	gl.GenBuffers(1, &skybox.VBO)

	gl.BindVertexArray(skybox.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, skybox.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, skyVertexStride*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, skyVertexStride*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	skybox.Shader = InitBlendedSkyShader()
	if err := skybox.Shader.Compile(); err != nil {
		skybox.Cleanup()
		return nil, err
	}
	skybox.uniforms = NewUniformCache(skybox.Shader.Program())
	return skybox, nil
}

// skyModel rotates the sky about the vertical axis by the material's
// _Rotation in degrees
func skyModel(m *Material) mgl32.Mat4 {
	deg, _ := m.GetFloat("_Rotation")
	return mgl32.HomogRotate3DY(-mgl32.DegToRad(deg))
}

// Draw renders the sky with the given camera. Translation is stripped from
// view so the sky stays at infinity.
func (s *BlendedSkybox) Draw(view, projection mgl32.Mat4) {
	if s.Material == nil {
		return
	}

	view[12] = 0
	view[13] = 0
	view[14] = 0

	s.Shader.Use()
	s.uniforms.SetMat4("view", view)
	s.uniforms.SetMat4("projection", projection)
	s.uniforms.SetMat4("model", skyModel(s.Material))
	s.uniforms.ApplyMaterial(s.Material)
	s.uniforms.SetInt("nightFace", 0)
	s.uniforms.SetInt("dayFace", 1)

	gl.DepthMask(false)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	gl.BindVertexArray(s.VAO)
	for i, face := range SkyboxFaces {
		slot := FaceSlot(face)
		bindFaceTexture(gl.TEXTURE0, s.Material, slot+"_1")
		bindFaceTexture(gl.TEXTURE1, s.Material, slot+"_2")
		gl.DrawArrays(gl.TRIANGLES, int32(i*6), 6)
	}
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

func bindFaceTexture(unit uint32, m *Material, slot string) {
	gl.ActiveTexture(unit)
	var id uint32
	if tex, ok := m.GetTexture(slot); ok {
		id = tex.ID
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// Cleanup cleans up skybox resources
func (s *BlendedSkybox) Cleanup() {
	gl.DeleteVertexArrays(1, &s.VAO)
	gl.DeleteBuffers(1, &s.VBO)
	s.Shader.Delete()
}
