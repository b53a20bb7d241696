// Keyboard shortcuts for the main window
package gui

import (
	"fyne.io/fyne/v2"

	"retrocam/internal/filter"
)

// keyAction is what a shortcut does; keys share the button callbacks so
// both input paths stay in sync.
type keyAction int

const (
	actionNone keyAction = iota
	actionCycle
	actionDirection
	actionTogglePerformance
	actionCapture
	actionSaveRoll
)

// actionForKey maps a pressed key to its action. Arrows carry their
// direction; everything else ignores the second return value.
func actionForKey(name fyne.KeyName) (keyAction, filter.Direction) {
	switch name {
	case fyne.KeySpace:
		return actionCycle, 0
	case fyne.KeyUp:
		return actionDirection, filter.Up
	case fyne.KeyRight:
		return actionDirection, filter.Right
	case fyne.KeyDown:
		return actionDirection, filter.Down
	case fyne.KeyLeft:
		return actionDirection, filter.Left
	case fyne.KeyP:
		return actionTogglePerformance, 0
	case fyne.KeyC, fyne.KeyReturn, fyne.KeyEnter:
		return actionCapture, 0
	case fyne.KeyS:
		return actionSaveRoll, 0
	}
	return actionNone, 0
}

func (a *Application) setupKeyboard() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		action, direction := actionForKey(ev.Name)
		switch action {
		case actionCycle:
			a.cycleFilter()
		case actionDirection:
			a.selectDirection(direction)
		case actionTogglePerformance:
			// Flip the check so the widget reflects the new state; its
			// OnChanged callback updates the selector.
			a.controls.TogglePerformance()
		case actionCapture:
			a.captureShot()
		case actionSaveRoll:
			a.saveRoll()
		}
	})
}
