// Live viewfinder showing the transformed camera feed
package gui

import (
	"image"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Viewfinder displays the post-transform frames. Frames arrive already
// copied, so the widget can hold them as long as it likes.
type Viewfinder struct {
	logger *slog.Logger

	card  *widget.Card
	image *canvas.Image

	frameWidth  int
	frameHeight int
}

func NewViewfinder(frameWidth, frameHeight int, logger *slog.Logger) *Viewfinder {
	v := &Viewfinder{
		logger:      logger,
		frameWidth:  frameWidth,
		frameHeight: frameHeight,
	}

	v.initializeUI()
	return v
}

func (v *Viewfinder) initializeUI() {
	// Dark placeholder until the first frame arrives.
	placeholder := image.NewRGBA(image.Rect(0, 0, v.frameWidth, v.frameHeight))
	for y := 0; y < v.frameHeight; y++ {
		for x := 0; x < v.frameWidth; x++ {
			placeholder.Set(x, y, color.RGBA{24, 28, 24, 255})
		}
	}

	v.image = canvas.NewImageFromImage(placeholder)
	v.image.FillMode = canvas.ImageFillContain
	// Nearest-neighbor widget scaling keeps the chunky pixels chunky.
	v.image.ScaleMode = canvas.ImageScalePixels
	v.image.SetMinSize(fyne.NewSize(float32(v.frameWidth*3), float32(v.frameHeight*3)))

	v.card = widget.NewCard("📺 Viewfinder", "", v.image)
}

func (v *Viewfinder) GetContainer() fyne.CanvasObject {
	return v.card
}

// UpdateFrame swaps in the latest frame. Must run on the UI thread.
func (v *Viewfinder) UpdateFrame(frame *image.RGBA) {
	if frame == nil || frame.Bounds().Empty() {
		v.logger.Warn("Viewfinder received an empty frame")
		return
	}

	v.image.Image = frame
	v.image.Refresh()
}
