// Filter and capture controls panel
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"retrocam/internal/filter"
)

// ControlPanel exposes the selector surface as widgets: a cycle button,
// a d-pad of direct mode presets, the performance check and the capture
// and save actions. The keyboard shortcuts drive the same callbacks.
type ControlPanel struct {
	box *fyne.Container

	modeLabel  *widget.Label
	cycleBtn   *widget.Button
	dirButtons map[filter.Direction]*widget.Button
	perfCheck  *widget.Check
	captureBtn *widget.Button
	saveBtn    *widget.Button

	activeMode filter.Mode

	// Callbacks
	onCycle       func()
	onDirection   func(filter.Direction)
	onPerformance func(bool)
	onCapture     func()
	onSave        func()
}

func NewControlPanel(startMode filter.Mode, performance bool) *ControlPanel {
	panel := &ControlPanel{
		dirButtons: make(map[filter.Direction]*widget.Button),
		activeMode: startMode,
	}

	panel.initializeUI(performance)
	panel.SetActiveMode(startMode)
	return panel
}

func (cp *ControlPanel) initializeUI(performance bool) {
	cp.modeLabel = widget.NewLabel("")

	cp.cycleBtn = widget.NewButtonWithIcon("Next (Space)", theme.ViewRefreshIcon(), func() {
		if cp.onCycle != nil {
			cp.onCycle()
		}
	})

	for _, d := range []filter.Direction{filter.Up, filter.Right, filter.Down, filter.Left} {
		direction := d
		mode, _ := filter.ModeForDirection(direction)
		btn := widget.NewButton(mode.Label(), func() {
			if cp.onDirection != nil {
				cp.onDirection(direction)
			}
		})
		cp.dirButtons[direction] = btn
	}

	// Arrow-key layout: the d-pad mirrors Up/Right/Down/Left presets.
	dpad := container.NewGridWithColumns(3,
		layout.NewSpacer(), cp.dirButtons[filter.Up], layout.NewSpacer(),
		cp.dirButtons[filter.Left], cp.cycleBtn, cp.dirButtons[filter.Right],
		layout.NewSpacer(), cp.dirButtons[filter.Down], layout.NewSpacer(),
	)

	cp.perfCheck = widget.NewCheck("Performance mode (P)", func(checked bool) {
		if cp.onPerformance != nil {
			cp.onPerformance(checked)
		}
	})
	cp.perfCheck.SetChecked(performance)

	cp.captureBtn = widget.NewButtonWithIcon("📸 Capture (C)", theme.MediaPhotoIcon(), func() {
		if cp.onCapture != nil {
			cp.onCapture()
		}
	})
	cp.captureBtn.Importance = widget.HighImportance

	cp.saveBtn = widget.NewButtonWithIcon("💾 Save Roll (S)", theme.DocumentSaveIcon(), func() {
		if cp.onSave != nil {
			cp.onSave()
		}
	})

	cp.box = container.NewVBox(
		cp.modeLabel,
		dpad,
		widget.NewSeparator(),
		cp.perfCheck,
		widget.NewSeparator(),
		cp.captureBtn,
		cp.saveBtn,
	)
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.box
}

// SetActiveMode highlights the active preset and updates the mode label.
// Must run on the UI thread.
func (cp *ControlPanel) SetActiveMode(mode filter.Mode) {
	cp.activeMode = mode
	cp.modeLabel.SetText(fmt.Sprintf("Active: %s", mode.Label()))

	for d, btn := range cp.dirButtons {
		m, _ := filter.ModeForDirection(d)
		if m == mode {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// TogglePerformance flips the check, which fires the callback. Used by
// the keyboard shortcut so check state and selector stay in sync.
func (cp *ControlPanel) TogglePerformance() {
	cp.perfCheck.SetChecked(!cp.perfCheck.Checked)
}

func (cp *ControlPanel) SetFilterCallbacks(onCycle func(), onDirection func(filter.Direction), onPerformance func(bool)) {
	cp.onCycle = onCycle
	cp.onDirection = onDirection
	cp.onPerformance = onPerformance
}

func (cp *ControlPanel) SetCaptureCallbacks(onCapture, onSave func()) {
	cp.onCapture = onCapture
	cp.onSave = onSave
}
