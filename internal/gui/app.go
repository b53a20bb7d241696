// Main application window wiring the engine loop to Fyne
package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"retrocam/internal/config"
	"retrocam/internal/engine"
	"retrocam/internal/filter"
)

// Application owns the desktop window: live viewfinder, filter controls,
// photo roll and status line. The engine loop runs on its own goroutine;
// everything that touches widgets goes through fyne.Do.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *slog.Logger

	cfg      config.Config
	loop     *engine.Loop
	selector *filter.Selector

	// GUI components
	viewfinder *Viewfinder
	controls   *ControlPanel
	rollPanel  *RollPanel
	statusCard *widget.Card
	statusLine *widget.Label

	// Engine lifecycle
	cancelLoop context.CancelFunc
	loopExited chan struct{}
}

func NewApplication(app fyne.App, loop *engine.Loop, selector *filter.Selector, cfg config.Config, logger *slog.Logger) *Application {
	window := app.NewWindow("📷 RetroCam")
	window.Resize(fyne.NewSize(1100, 700))
	window.CenterOnScreen()

	appInstance := &Application{
		app:        app,
		window:     window,
		logger:     logger,
		cfg:        cfg,
		loop:       loop,
		selector:   selector,
		loopExited: make(chan struct{}),
	}

	appInstance.initializeGUI()
	appInstance.setupLayout()
	appInstance.setupCallbacks()
	appInstance.setupKeyboard()

	return appInstance
}

func (a *Application) initializeGUI() {
	a.viewfinder = NewViewfinder(a.cfg.Width, a.cfg.Height, a.logger)
	a.controls = NewControlPanel(a.selector.Mode(), a.selector.PerformanceMode())
	a.rollPanel = NewRollPanel(a.logger)
	a.statusLine = widget.NewLabel("Starting camera...")
}

func (a *Application) setupLayout() {
	sidePanels := container.NewVBox(
		widget.NewCard("🎛️ Filters", "", a.controls.GetContainer()),
		widget.NewSeparator(),
		widget.NewCard("📸 Photo Roll", "", a.rollPanel.GetContainer()),
	)

	a.statusCard = widget.NewCard("", "", a.statusLine)

	mainContent := container.NewHSplit(
		container.NewPadded(a.viewfinder.GetContainer()),
		container.NewScroll(sidePanels),
	)
	mainContent.SetOffset(0.68) // Give most space to the viewfinder

	a.window.SetContent(container.NewBorder(
		nil,          // top
		a.statusCard, // bottom
		nil,          // left
		nil,          // right
		mainContent,
	))
}

func (a *Application) setupCallbacks() {
	// Engine callbacks arrive on the loop goroutine; only the image copy
	// and the stats value cross into the UI thread.
	a.loop.SetCallbacks(
		func(img *image.RGBA, stats engine.Stats) {
			fyne.Do(func() {
				a.viewfinder.UpdateFrame(img)
				a.updateStatus(statusText(stats))
			})
		},
		func(err error) {
			fyne.Do(func() {
				a.updateStatus(fmt.Sprintf("⚠️ Camera hiccup: %v", err))
			})
		},
	)

	a.controls.SetFilterCallbacks(
		a.cycleFilter,
		a.selectDirection,
		a.setPerformanceMode,
	)
	a.controls.SetCaptureCallbacks(
		a.captureShot,
		a.saveRoll,
	)
}

// cycleFilter advances the mode cycle: Retro4Tone, Monochrome, Blocked,
// Passthrough, wrap.
func (a *Application) cycleFilter() {
	mode := a.selector.CycleNext()
	a.controls.SetActiveMode(mode)
	a.logger.Debug("Filter cycled", "mode", mode.String())
}

// selectDirection jumps straight to the mode mapped to a d-pad direction.
func (a *Application) selectDirection(d filter.Direction) {
	mode, err := a.selector.SelectDirection(d)
	if err != nil {
		a.showError("Filter Selection Failed", err)
		return
	}
	a.controls.SetActiveMode(mode)
	a.logger.Debug("Filter selected", "direction", d.String(), "mode", mode.String())
}

func (a *Application) setPerformanceMode(enabled bool) {
	a.selector.SetPerformanceMode(enabled)
	if enabled {
		a.updateStatus("🏎️ Performance mode on: fewer pixels per frame")
	} else {
		a.updateStatus("✨ Performance mode off: full fidelity")
	}
	a.logger.Info("Performance mode changed", "enabled", enabled)
}

// captureShot snapshots the most recent rendered frame onto the roll.
func (a *Application) captureShot() {
	shot, err := a.loop.Capture()
	if err != nil {
		if errors.Is(err, engine.ErrNoFrame) {
			a.showError("Nothing to Capture", fmt.Errorf("no frame rendered yet, wait for the camera"))
		} else {
			a.showError("Capture Failed", err)
		}
		return
	}

	a.rollPanel.ShowShot(shot, a.loop.Roll().Len())
	a.updateStatus(fmt.Sprintf("📸 Shot #%d on the roll (%dx%d)", shot.Seq, shot.Width, shot.Height))
}

// saveRoll flushes every shot to the configured output directory.
func (a *Application) saveRoll() {
	count, err := a.loop.Roll().SaveAll(a.cfg.OutputDir)
	if err != nil {
		a.showError("Save Failed", err)
		return
	}
	if count == 0 {
		a.showInfo("Photo Roll Empty", "Capture a shot first, then save the roll.")
		return
	}

	a.showInfo("💾 Roll Saved", fmt.Sprintf("%d shot(s) written to:\n%s", count, a.cfg.OutputDir))
	a.updateStatus(fmt.Sprintf("💾 Saved %d shot(s) to %s", count, a.cfg.OutputDir))
}

func (a *Application) updateStatus(message string) {
	a.statusLine.SetText(message)
}

// statusText formats the per-frame footer line.
func statusText(stats engine.Stats) string {
	perf := ""
	if stats.Performance {
		perf = " · perf"
	}
	return fmt.Sprintf("🎛️ %s%s · %.0f fps · transform %s · 📸 %d shot(s)",
		stats.Mode.Label(), perf, stats.FPS,
		stats.TransformTime.Round(10*time.Microsecond), stats.Captures)
}

// ShowAndRun starts the engine loop and blocks in the Fyne event loop
// until the window closes.
func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoop = cancel

	go func() {
		err := a.loop.Run(ctx)
		if err != nil {
			// Invalid mode or a dead source: fail loudly, never keep
			// showing a silently frozen viewfinder.
			a.logger.Error("Engine loop failed", "error", err)
			fyne.Do(func() {
				a.updateStatus(fmt.Sprintf("❌ Engine stopped: %v", err))
				dialog.ShowError(err, a.window)
			})
		}
		close(a.loopExited)
	}()

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.cancelLoop()

	// The in-flight tick always completes; give it a moment.
	select {
	case <-a.loopExited:
	case <-time.After(time.Second):
		a.logger.Warn("Engine loop did not stop in time")
	}
}

func (a *Application) showError(title string, err error) {
	a.logger.Error(title, "error", err)
	dialog.ShowError(err, a.window)
	a.updateStatus(fmt.Sprintf("❌ %s: %s", title, err.Error()))
}

func (a *Application) showInfo(title, message string) {
	a.logger.Info(title, "message", message)
	dialog.ShowInformation(title, message, a.window)
}
