package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is a named bag of shader parameters, the same shape a shader
// program reads: floats, ints, colors and texture slots addressed by name.
type Material struct {
	Name     string
	floats   map[string]float32
	ints     map[string]int32
	colors   map[string]mgl32.Vec4
	textures map[string]*Texture
	// version increases on every change so uploaders can skip clean materials
	version uint64
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		floats:   make(map[string]float32),
		ints:     make(map[string]int32),
		colors:   make(map[string]mgl32.Vec4),
		textures: make(map[string]*Texture),
	}
}

func (m *Material) SetFloat(name string, v float32) {
	m.floats[name] = v
	m.version++
}

func (m *Material) GetFloat(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

func (m *Material) SetInt(name string, v int32) {
	m.ints[name] = v
	m.version++
}

func (m *Material) GetInt(name string) (int32, bool) {
	v, ok := m.ints[name]
	return v, ok
}

func (m *Material) SetColor(name string, c mgl32.Vec4) {
	m.colors[name] = c
	m.version++
}

func (m *Material) GetColor(name string) (mgl32.Vec4, bool) {
	c, ok := m.colors[name]
	return c, ok
}

// SetTexture binds tex to a slot, nil clears the slot
func (m *Material) SetTexture(name string, tex *Texture) {
	if tex == nil {
		delete(m.textures, name)
	} else {
		m.textures[name] = tex
	}
	m.version++
}

func (m *Material) GetTexture(name string) (*Texture, bool) {
	t, ok := m.textures[name]
	return t, ok
}

func (m *Material) HasTexture(name string) bool {
	_, ok := m.textures[name]
	return ok
}

// TextureSlots lists the bound texture slot names in sorted order
func (m *Material) TextureSlots() []string {
	names := make([]string, 0, len(m.textures))
	for name := range m.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Material) Version() uint64 {
	return m.version
}

// SkyboxFaces are the six faces of a six-sided sky material, in the order
// they are bound
var SkyboxFaces = [6]string{"Front", "Back", "Left", "Right", "Up", "Down"}

// FaceSlot is the texture slot name of a sky face, e.g. "_FrontTex"
func FaceSlot(face string) string {
	return "_" + face + "Tex"
}

// Each visits every scalar and color parameter, sorted by name within each
// kind. Texture slots are not visited, they need unit assignment.
func (m *Material) Each(floatFn func(string, float32), intFn func(string, int32), colorFn func(string, mgl32.Vec4)) {
	for _, name := range sortedKeys(m.floats) {
		if floatFn != nil {
			floatFn(name, m.floats[name])
		}
	}
	for _, name := range sortedKeys(m.ints) {
		if intFn != nil {
			intFn(name, m.ints[name])
		}
	}
	for _, name := range sortedKeys(m.colors) {
		if colorFn != nil {
			colorFn(name, m.colors[name])
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
