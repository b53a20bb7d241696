// Pixel transforms over raw RGBA buffers
package filter

import (
	"fmt"

	"retrocam/internal/frame"
)

// Block edge lengths for the Blocked mode. The performance size is a
// multiple of the normal one so coarse block corners remain a subset of
// the normal corners.
const (
	blockSize     = 4
	blockSizePerf = 8
)

// Transformer applies filter modes to RGBA frame buffers in place. It
// holds the Retro4Tone palette; everything else is stateless.
type Transformer struct {
	palette Palette
}

// NewTransformer creates a transformer using the given palette.
func NewTransformer(palette Palette) *Transformer {
	return &Transformer{palette: palette}
}

// Palette returns the palette the transformer maps Retro4Tone tiers to.
func (t *Transformer) Palette() Palette {
	return t.palette
}

// Apply rewrites pix according to mode. pix is width*height RGBA,
// row-major. Dimensions are validated before the first write, so a
// mismatched buffer is returned untouched with frame.ErrBufferSize.
// An unknown mode fails with ErrInvalidMode, never a silent fallback.
// The performance flag halves per-pixel work for Retro4Tone and
// Monochrome (every second pixel per row is copied from its computed
// left neighbor) and doubles the Blocked block edge. Alpha bytes are
// never written by any mode.
func (t *Transformer) Apply(pix []uint8, width, height int, mode Mode, performance bool) error {
	if err := frame.Validate(pix, width, height); err != nil {
		return err
	}

	switch mode {
	case Retro4Tone:
		t.retro4Tone(pix, width, height, performance)
	case Monochrome:
		monochrome(pix, width, height, performance)
	case Blocked:
		blocked(pix, width, height, performance)
	case Passthrough:
		// Identity. No writes at all.
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return nil
}

// ApplyBuffer is Apply over a frame.Buffer.
func (t *Transformer) ApplyBuffer(b *frame.Buffer, mode Mode, performance bool) error {
	return t.Apply(b.Pix, b.Width, b.Height, mode, performance)
}

// tierIndex buckets an R+G+B sum (0..765) into palette tiers 0..3.
// Comparing the sum against 192, 384 and 576 is exactly thresholding
// the unrounded channel mean against 64, 128 and 192.
func tierIndex(sum int) int {
	switch {
	case sum < 192:
		return 0
	case sum < 384:
		return 1
	case sum < 576:
		return 2
	default:
		return 3
	}
}

func (t *Transformer) retro4Tone(pix []uint8, width, height int, skip bool) {
	for y := 0; y < height; y++ {
		row := y * width * 4
		for x := 0; x < width; x++ {
			i := row + x*4
			if skip && x&1 == 1 {
				// Odd columns reuse the tone computed at x-1.
				pix[i+0] = pix[i-4]
				pix[i+1] = pix[i-3]
				pix[i+2] = pix[i-2]
				continue
			}
			sum := int(pix[i+0]) + int(pix[i+1]) + int(pix[i+2])
			shade := t.palette[tierIndex(sum)]
			pix[i+0] = shade.R
			pix[i+1] = shade.G
			pix[i+2] = shade.B
		}
	}
}

func monochrome(pix []uint8, width, height int, skip bool) {
	for y := 0; y < height; y++ {
		row := y * width * 4
		for x := 0; x < width; x++ {
			i := row + x*4
			if skip && x&1 == 1 {
				pix[i+0] = pix[i-4]
				pix[i+1] = pix[i-3]
				pix[i+2] = pix[i-2]
				continue
			}
			mean := uint8((int(pix[i+0]) + int(pix[i+1]) + int(pix[i+2])) / 3)
			pix[i+0] = mean
			pix[i+1] = mean
			pix[i+2] = mean
		}
	}
}

func blocked(pix []uint8, width, height int, coarse bool) {
	size := blockSize
	if coarse {
		size = blockSizePerf
	}

	for by := 0; by < height; by += size {
		yEnd := min(by+size, height)
		for bx := 0; bx < width; bx += size {
			xEnd := min(bx+size, width)

			// Every pixel of the block takes the top-left pixel's RGB.
			// Blocks at the right and bottom edges are clipped.
			c := (by*width + bx) * 4
			r, g, b := pix[c+0], pix[c+1], pix[c+2]

			for y := by; y < yEnd; y++ {
				i := (y*width + bx) * 4
				for x := bx; x < xEnd; x++ {
					pix[i+0] = r
					pix[i+1] = g
					pix[i+2] = b
					i += 4
				}
			}
		}
	}
}
