package skyblend

import (
	"errors"
	"fmt"
)

// ErrMissingTexture matches every MissingTextureError
var ErrMissingTexture = errors.New("missing source texture")

// MissingTextureError names a source face that has no texture bound
type MissingTextureError struct {
	Material string
	Slot     string
}

func (e *MissingTextureError) Error() string {
	return fmt.Sprintf("material %s has no texture in %s", e.Material, e.Slot)
}

func (e *MissingTextureError) Is(target error) bool {
	return target == ErrMissingTexture
}
