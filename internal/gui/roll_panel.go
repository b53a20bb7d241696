// Photo roll panel showing the latest captured shot
package gui

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"retrocam/internal/capture"
)

// RollPanel shows the most recent shot and the roll size. The shots
// themselves live in the engine's roll; this panel only displays them.
type RollPanel struct {
	logger *slog.Logger

	box        *fyne.Container
	countLabel *widget.Label
	shotLabel  *widget.Label
	thumbnail  *canvas.Image
}

func NewRollPanel(logger *slog.Logger) *RollPanel {
	panel := &RollPanel{logger: logger}
	panel.initializeUI()
	return panel
}

func (rp *RollPanel) initializeUI() {
	rp.countLabel = widget.NewLabel("No shots yet")
	rp.shotLabel = widget.NewLabel("")
	rp.shotLabel.Hide()

	rp.thumbnail = &canvas.Image{}
	rp.thumbnail.FillMode = canvas.ImageFillContain
	rp.thumbnail.ScaleMode = canvas.ImageScalePixels
	rp.thumbnail.SetMinSize(fyne.NewSize(200, 180))
	rp.thumbnail.Hide()

	rp.box = container.NewVBox(
		rp.countLabel,
		rp.thumbnail,
		rp.shotLabel,
	)
}

func (rp *RollPanel) GetContainer() fyne.CanvasObject {
	return rp.box
}

// ShowShot displays the freshly captured shot. Must run on the UI thread.
func (rp *RollPanel) ShowShot(shot capture.Shot, rollSize int) {
	img, err := png.Decode(bytes.NewReader(shot.PNG))
	if err != nil {
		rp.logger.Error("Failed to decode shot thumbnail", "seq", shot.Seq, "error", err)
		return
	}

	rp.thumbnail.Image = img
	rp.thumbnail.Show()
	rp.thumbnail.Refresh()

	rp.countLabel.SetText(fmt.Sprintf("%d shot(s) on the roll", rollSize))
	rp.shotLabel.SetText(fmt.Sprintf("#%d · %s · %s",
		shot.Seq, shot.Mode.Label(), shot.TakenAt.Format("15:04:05")))
	rp.shotLabel.Show()
}
