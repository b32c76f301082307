package renderer

import "fmt"

type TextureFormat int

const (
	FormatRGBA32 TextureFormat = iota
	FormatRGBAHalf
)

func (f TextureFormat) String() string {
	switch f {
	case FormatRGBAHalf:
		return "RGBAHalf"
	default:
		return "RGBA32"
	}
}

type TextureDimension int

const (
	Texture2D TextureDimension = iota
	TextureCube
)

// Texture describes a GPU texture. ID is backend specific and 0 means
// "not allocated".
type Texture struct {
	ID        uint32
	Name      string
	Width     int
	Height    int
	Format    TextureFormat
	Dimension TextureDimension
	MipChain  bool
	// Revision counts writes into the texture, bumped by copies
	Revision int
}

// SameSize reports whether both textures have identical dimensions
func (t *Texture) SameSize(other *Texture) bool {
	if t == nil || other == nil {
		return false
	}
	return t.Width == other.Width && t.Height == other.Height
}

func (t *Texture) String() string {
	if t == nil {
		return "<nil texture>"
	}
	return fmt.Sprintf("%s#%d(%dx%d %s)", t.Name, t.ID, t.Width, t.Height, t.Format)
}
