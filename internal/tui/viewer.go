// Terminal frontend: tcell screen, key handling, status bar
package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"retrocam/internal/config"
	"retrocam/internal/engine"
	"retrocam/internal/filter"
)

// noticeDuration is how long a key-action message replaces the stats in
// the status bar.
const noticeDuration = 2 * time.Second

type framePayload struct {
	img   *image.RGBA
	stats engine.Stats
}

// Viewer renders engine frames into a tcell screen. Frames cross from
// the engine goroutine through a latest-wins channel; all drawing and
// key handling happens on the viewer goroutine.
type Viewer struct {
	screen   tcell.Screen
	loop     *engine.Loop
	selector *filter.Selector
	cfg      config.Config
	logger   *slog.Logger

	frames chan framePayload
	stats  engine.Stats

	notice      string
	noticeUntil time.Time
}

// Run drives the terminal frontend until ctx is cancelled or the user
// quits. It owns the engine loop's lifetime and the terminal state.
func Run(ctx context.Context, loop *engine.Loop, selector *filter.Selector, cfg config.Config, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}

	v := &Viewer{
		screen:   screen,
		loop:     loop,
		selector: selector,
		cfg:      cfg,
		logger:   logger,
		frames:   make(chan framePayload, 1),
	}

	// Reset the terminal before a panic's stack trace prints.
	defer func() {
		screen.Fini()
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	return v.run(ctx)
}

func (v *Viewer) run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.loop.SetCallbacks(v.publishFrame, nil)

	runErr := make(chan error, 1)
	go func() { runErr <- v.loop.Run(loopCtx) }()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				// Screen finalized, viewer is shutting down.
				return
			}
			events <- ev
		}
	}()

	v.logger.Info("Terminal viewer started")

	for {
		select {
		case <-ctx.Done():
			cancel()
			<-runErr
			return nil

		case err := <-runErr:
			// The engine never stops on its own unless something is
			// genuinely wrong (dead source, invalid mode).
			return err

		case ev := <-events:
			if quit := v.handleEvent(ev); quit {
				cancel()
				<-runErr
				v.logger.Info("Terminal viewer stopped by user")
				return nil
			}

		case f := <-v.frames:
			v.stats = f.stats
			v.draw(f.img)
		}
	}
}

// publishFrame runs on the engine goroutine. The channel keeps only the
// latest frame; if the viewer is behind, the stale frame is dropped.
func (v *Viewer) publishFrame(img *image.RGBA, stats engine.Stats) {
	payload := framePayload{img: img, stats: stats}
	for {
		select {
		case v.frames <- payload:
			return
		default:
		}
		select {
		case <-v.frames:
		default:
		}
	}
}

func (v *Viewer) handleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.selectDirection(filter.Up)
		case tcell.KeyRight:
			v.selectDirection(filter.Right)
		case tcell.KeyDown:
			v.selectDirection(filter.Down)
		case tcell.KeyLeft:
			v.selectDirection(filter.Left)
		case tcell.KeyEnter:
			v.capture()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				v.cycle()
			case 'p', 'P':
				v.togglePerformance()
			case 'c', 'C':
				v.capture()
			case 's', 'S':
				v.saveRoll()
			case 'q', 'Q':
				return true
			}
		}
	}
	return false
}

func (v *Viewer) cycle() {
	mode := v.selector.CycleNext()
	v.showNotice(fmt.Sprintf("filter: %s", mode.Label()))
	v.logger.Debug("Filter cycled", "mode", mode.String())
}

func (v *Viewer) selectDirection(d filter.Direction) {
	mode, err := v.selector.SelectDirection(d)
	if err != nil {
		v.showNotice(fmt.Sprintf("filter selection failed: %v", err))
		v.logger.Error("Directional select failed", "direction", d.String(), "error", err)
		return
	}
	v.showNotice(fmt.Sprintf("filter: %s", mode.Label()))
	v.logger.Debug("Filter selected", "direction", d.String(), "mode", mode.String())
}

func (v *Viewer) togglePerformance() {
	on := v.selector.TogglePerformanceMode()
	if on {
		v.showNotice("performance mode on")
	} else {
		v.showNotice("performance mode off")
	}
	v.logger.Info("Performance mode changed", "enabled", on)
}

func (v *Viewer) capture() {
	shot, err := v.loop.Capture()
	if err != nil {
		if errors.Is(err, engine.ErrNoFrame) {
			v.showNotice("nothing to capture yet")
		} else {
			v.showNotice(fmt.Sprintf("capture failed: %v", err))
			v.logger.Error("Capture failed", "error", err)
		}
		return
	}
	v.showNotice(fmt.Sprintf("shot #%d on the roll (%dx%d)", shot.Seq, shot.Width, shot.Height))
}

func (v *Viewer) saveRoll() {
	count, err := v.loop.Roll().SaveAll(v.cfg.OutputDir)
	if err != nil {
		v.showNotice(fmt.Sprintf("save failed: %v", err))
		v.logger.Error("Roll save failed", "error", err)
		return
	}
	if count == 0 {
		v.showNotice("photo roll is empty")
		return
	}
	v.showNotice(fmt.Sprintf("saved %d shot(s) to %s", count, v.cfg.OutputDir))
}

func (v *Viewer) showNotice(message string) {
	v.notice = message
	v.noticeUntil = time.Now().Add(noticeDuration)
}

func (v *Viewer) draw(img *image.RGBA) {
	cols, rows := v.screen.Size()
	if cols < 1 || rows < 2 {
		return
	}

	// Bottom row is the status bar, the rest shows the frame.
	cells, gw, gh := renderCells(img, cols, rows-1)

	v.screen.Clear()
	offX := (cols - gw) / 2
	offY := (rows - 1 - gh) / 2
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			c := cells[y*gw+x]
			style := tcell.StyleDefault.Foreground(c.top).Background(c.bottom)
			v.screen.SetContent(offX+x, offY+y, '▀', nil, style)
		}
	}

	v.drawStatusBar(cols, rows)
	v.screen.Show()
}

func (v *Viewer) drawStatusBar(cols, rows int) {
	text := v.statusText()
	if time.Now().Before(v.noticeUntil) {
		text = " " + v.notice
	}

	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(text)
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		v.screen.SetContent(x, rows-1, ch, nil, style)
	}
}

func (v *Viewer) statusText() string {
	perf := ""
	if v.stats.Performance {
		perf = " [perf]"
	}
	return fmt.Sprintf(" %s%s | %.0f fps | %d shot(s) | space cycle, arrows preset, p perf, c capture, s save, q quit",
		v.stats.Mode.Label(), perf, v.stats.FPS, v.stats.Captures)
}
