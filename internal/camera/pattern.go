// Synthetic test pattern source, no hardware required
package camera

import (
	"sync"

	"retrocam/internal/frame"
)

// smpteBars are the classic seven color bars at 75 percent amplitude.
var smpteBars = [7][3]uint8{
	{192, 192, 192}, // gray
	{192, 192, 0},   // yellow
	{0, 192, 192},   // cyan
	{0, 192, 0},     // green
	{192, 0, 192},   // magenta
	{192, 0, 0},     // red
	{0, 0, 192},     // blue
}

// TestPattern renders SMPTE-style color bars over a scrolling grayscale
// ramp. Frames are a pure function of the grab count, so runs are
// reproducible; the ramp movement makes filter changes visible live.
type TestPattern struct {
	mu     sync.Mutex
	width  int
	height int
	tick   int
	closed bool
}

// NewTestPattern creates a pattern source with the given frame size.
func NewTestPattern(width, height int) *TestPattern {
	return &TestPattern{width: width, height: height}
}

// Grab renders the next frame into dst.
func (p *TestPattern) Grab(dst *frame.Buffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	if len(dst.Pix) != p.width*p.height*4 {
		dst.Pix = make([]uint8, p.width*p.height*4)
	}
	dst.Width = p.width
	dst.Height = p.height

	barHeight := p.height * 2 / 3
	barWidth := p.width / len(smpteBars)
	if barWidth == 0 {
		barWidth = 1
	}

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			i := (y*p.width + x) * 4
			if y < barHeight {
				bar := x / barWidth
				if bar >= len(smpteBars) {
					bar = len(smpteBars) - 1
				}
				dst.Pix[i+0] = smpteBars[bar][0]
				dst.Pix[i+1] = smpteBars[bar][1]
				dst.Pix[i+2] = smpteBars[bar][2]
			} else {
				// Scrolling ramp: two gray levels per column of drift
				// per frame keeps all four luminance tiers in view.
				v := uint8((x*256/p.width + p.tick*2) & 0xff)
				dst.Pix[i+0] = v
				dst.Pix[i+1] = v
				dst.Pix[i+2] = v
			}
			dst.Pix[i+3] = 255
		}
	}

	p.tick++
	return nil
}

// Size returns the frame size.
func (p *TestPattern) Size() (int, int) {
	return p.width, p.height
}

// Close marks the source closed.
func (p *TestPattern) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
