package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"

	"vox-mesher/internal/vox"
)

// LoadPalette reads a 256-wide palette strip image (PNG or TGA, the
// formats MagicaVoxel exports palettes in) and returns it as a palette
// override. Strip pixels follow the file-palette convention: pixel i maps
// to slot i+1 and the last pixel wraps to the unused slot 0.
func LoadPalette(path string) (vox.Palette, error) {
	var p vox.Palette

	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("texture: read palette %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return p, fmt.Errorf("texture: decode palette %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Dx() < 256 || b.Dy() < 1 {
		return p, fmt.Errorf("texture: palette %s is %dx%d, want at least 256x1", path, b.Dx(), b.Dy())
	}

	strip := toNRGBA(img)
	sb := strip.Bounds()
	for i := 0; i < 256; i++ {
		o := strip.PixOffset(sb.Min.X+i, sb.Min.Y)
		c := vox.RGBA{
			R: strip.Pix[o],
			G: strip.Pix[o+1],
			B: strip.Pix[o+2],
			A: strip.Pix[o+3],
		}
		if i == 255 {
			p[0] = c
		} else {
			p[i+1] = c
		}
	}
	return p, nil
}

// toNRGBA converts any decoded image to NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
