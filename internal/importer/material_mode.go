package importer

import (
	"fmt"

	"vox-mesher/internal/mesher"
)

// MaterialMode decides what color/material information the core attaches
// to faces. Building actual host materials, textures or shader graphs is
// the collaborator's job; the core only ever emits a palette index and,
// for texture modes, UV addressing.
type MaterialMode uint8

const (
	MaterialIgnore MaterialMode = iota
	MaterialVertexColor
	MaterialVertexColorProps
	MaterialPerColor
	MaterialPerColorProps
	MaterialTexture
	MaterialTextureProps
	MaterialUnwrap
	MaterialUnwrapProps
)

var materialModeNames = map[string]MaterialMode{
	"ignore":                        MaterialIgnore,
	"vertex-color":                  MaterialVertexColor,
	"vertex-color+properties":       MaterialVertexColorProps,
	"material-per-color":            MaterialPerColor,
	"material-per-color+properties": MaterialPerColorProps,
	"palette-texture":               MaterialTexture,
	"palette-texture+properties":    MaterialTextureProps,
	"textured-uv-unwrap":            MaterialUnwrap,
	"textured-uv-unwrap+properties": MaterialUnwrapProps,
}

// ParseMaterialMode maps a configuration string onto a mode.
func ParseMaterialMode(s string) (MaterialMode, error) {
	if m, ok := materialModeNames[s]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("importer: unknown material mode %q", s)
}

func (m MaterialMode) String() string {
	for name, mode := range materialModeNames {
		if mode == m {
			return name
		}
	}
	return fmt.Sprintf("MaterialMode(%d)", uint8(m))
}

// UVMode returns the texture addressing faces need under this mode.
func (m MaterialMode) UVMode() mesher.UVMode {
	switch m {
	case MaterialTexture, MaterialTextureProps:
		return mesher.UVPalette
	case MaterialUnwrap, MaterialUnwrapProps:
		return mesher.UVUnwrap
	default:
		return mesher.UVNone
	}
}

// WithProperties reports whether material property records accompany the
// colors.
func (m MaterialMode) WithProperties() bool {
	switch m {
	case MaterialVertexColorProps, MaterialPerColorProps,
		MaterialTextureProps, MaterialUnwrapProps:
		return true
	}
	return false
}
