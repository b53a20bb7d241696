// Frame buffer type shared by sources, filters and sinks
package frame

import (
	"errors"
	"fmt"
	"image"
)

// ErrBufferSize is returned when a pixel slice does not match the
// dimensions it claims to have.
var ErrBufferSize = errors.New("frame: buffer size mismatch")

// Buffer is a width*height RGBA image stored row-major, 4 bytes per
// pixel in R, G, B, A order. Pix has exactly Width*Height*4 bytes.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// New allocates a zeroed buffer with the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// Validate checks that Pix matches the declared dimensions.
func Validate(pix []uint8, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrBufferSize, width, height)
	}
	if want := width * height * 4; len(pix) != want {
		return fmt.Errorf("%w: have %d bytes, want %d for %dx%d RGBA", ErrBufferSize, len(pix), want, width, height)
	}
	return nil
}

// Validate checks that the buffer's Pix matches its dimensions.
func (b *Buffer) Validate() error {
	return Validate(b.Pix, b.Width, b.Height)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Pix: pix, Width: b.Width, Height: b.Height}
}

// CopyFrom overwrites the buffer with the contents of src, reallocating
// only when the dimensions changed.
func (b *Buffer) CopyFrom(src *Buffer) {
	if len(b.Pix) != len(src.Pix) {
		b.Pix = make([]uint8, len(src.Pix))
	}
	copy(b.Pix, src.Pix)
	b.Width = src.Width
	b.Height = src.Height
}

// ToImage converts the buffer to an image.RGBA with its own pixel copy.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// FromImage creates a buffer from any image. The common *image.RGBA
// case is a straight row copy; everything else goes through At.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	b := New(width, height)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < height; y++ {
			src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
			copy(b.Pix[y*width*4:], src)
		}
		return b
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 4
			b.Pix[i+0] = uint8(r >> 8)
			b.Pix[i+1] = uint8(g >> 8)
			b.Pix[i+2] = uint8(bl >> 8)
			b.Pix[i+3] = uint8(a >> 8)
		}
	}
	return b
}
