// Package texture builds the 256x1 palette and material-property images
// that the texture material modes address via (index+0.5)/256 UVs, and
// writes them as PNG or WebP.
package texture

import (
	"image"

	"vox-mesher/internal/vox"
)

// PaletteImage renders the palette as a 256x1 NRGBA strip, one pixel per
// palette slot. Pixel x holds slot x, so slot 0 (always empty) is the
// leftmost pixel.
func PaletteImage(p *vox.Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for i := 0; i < 256; i++ {
		c := p.NRGBA(uint8(i))
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img
}

// PropertyImage packs per-slot material properties into a 256x1 strip:
// R is roughness, G is metallic weight, B is emission strength and A is
// opacity. Slots without a material record get the diffuse defaults
// (full roughness, opaque, no metal, no emission).
func PropertyImage(materials *[256]vox.Material) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for i := 0; i < 256; i++ {
		m := &materials[i]

		rough := m.PropOr(vox.PropRoughness, 1)
		var metal, emit float32
		alpha := float32(1)
		switch m.Kind {
		case vox.MaterialMetal:
			metal = m.Weight
			rough = m.PropOr(vox.PropRoughness, 0.1)
		case vox.MaterialEmit:
			emit = m.Weight * m.PropOr(vox.PropEmission, 1)
		case vox.MaterialGlass:
			alpha = 1 - m.Weight
			if v, ok := m.Prop(vox.PropAlpha); ok {
				alpha = v
			}
		}

		o := i * 4
		img.Pix[o] = channelByte(rough)
		img.Pix[o+1] = channelByte(metal)
		img.Pix[o+2] = channelByte(emit)
		img.Pix[o+3] = channelByte(alpha)
	}
	return img
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
