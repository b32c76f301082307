package skyblend

import (
	"fmt"
	"strings"
)

// BlendMode selects how the night and day faces are combined. The values
// are the shader's _BlendMode ordinals.
type BlendMode int32

const (
	Linear BlendMode = iota
	Maximum
	Add
	Subtract
	Multiply
	Smoothstep
)

var blendModeNames = map[BlendMode]string{
	Linear:     "linear",
	Maximum:    "maximum",
	Add:        "add",
	Subtract:   "subtract",
	Multiply:   "multiply",
	Smoothstep: "smoothstep",
}

func (m BlendMode) String() string {
	if name, ok := blendModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BlendMode(%d)", int32(m))
}

// Index is the value written to the material's _BlendMode slot
func (m BlendMode) Index() int32 {
	if _, ok := blendModeNames[m]; !ok {
		return int32(Linear)
	}
	return int32(m)
}

// ParseBlendMode accepts a mode name in any case
func ParseBlendMode(s string) (BlendMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "substract" {
		name = "subtract"
	}
	for mode, n := range blendModeNames {
		if n == name {
			return mode, nil
		}
	}
	return Linear, fmt.Errorf("unknown blend mode %q", s)
}
