package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Scale resizes a strip by an integer factor with nearest-neighbor
// sampling, keeping palette pixel edges hard. Factor 1 returns the input
// unchanged.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Write saves an image to path, choosing the format from the extension
// (.png or .webp).
func Write(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("texture: webp encode %s: %w", path, err)
		}
	case ".png":
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("texture: png encode %s: %w", path, err)
		}
	default:
		return fmt.Errorf("texture: unsupported extension %q", filepath.Ext(path))
	}
	return nil
}
