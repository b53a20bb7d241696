// PNG encoding for captured frames
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"retrocam/internal/frame"
)

// EncodePNG encodes a frame as PNG. A scale above 1 upscales with
// nearest-neighbor first so the exported still keeps its hard pixel
// edges instead of going blurry.
func EncodePNG(b *frame.Buffer, scale int) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Width == 0 || b.Height == 0 {
		return nil, fmt.Errorf("capture: cannot encode %dx%d frame", b.Width, b.Height)
	}

	var img image.Image = b.ToImage()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, b.Width*scale, b.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("capture: encode png: %w", err)
	}
	return out.Bytes(), nil
}
