// Engine loop: grab, transform, publish, capture
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"retrocam/internal/camera"
	"retrocam/internal/capture"
	"retrocam/internal/filter"
	"retrocam/internal/frame"
)

// ErrNoFrame is returned by Capture before the first frame has been
// rendered.
var ErrNoFrame = errors.New("engine: no frame rendered yet")

// FrameFunc receives each rendered frame as a private image copy plus
// the stats snapshot for that tick. It runs on the loop goroutine;
// frontends marshal onto their UI thread themselves.
type FrameFunc func(img *image.RGBA, stats Stats)

// ErrorFunc receives transient per-tick errors the loop survives.
type ErrorFunc func(err error)

// Options tune the loop.
type Options struct {
	FPS         int // ticks per second
	ExportScale int // nearest-neighbor upscale for captured stills
}

// Loop drives one source through the transformer at a fixed rate.
// Exactly one tick runs at a time; a mode switch mid-tick is picked up
// by the next tick's selector snapshot, never mid-frame.
type Loop struct {
	source      camera.Source
	selector    *filter.Selector
	transformer *filter.Transformer
	roll        *capture.Roll
	logger      *slog.Logger
	fps         int
	exportScale int

	// work is touched only by the run goroutine.
	work       *frame.Buffer
	lastTickAt time.Time

	mu       sync.RWMutex
	last     *frame.Buffer // post-transform copy of the latest frame
	lastMode filter.Mode
	stats    Stats
	onFrame  FrameFunc
	onError  ErrorFunc
}

// New wires a loop. The selector and roll are shared with the frontends.
func New(source camera.Source, selector *filter.Selector, transformer *filter.Transformer, roll *capture.Roll, opts Options, logger *slog.Logger) *Loop {
	fps := opts.FPS
	if fps < 1 {
		fps = 30
	}
	scale := opts.ExportScale
	if scale < 1 {
		scale = 1
	}
	return &Loop{
		source:      source,
		selector:    selector,
		transformer: transformer,
		roll:        roll,
		logger:      logger,
		fps:         fps,
		exportScale: scale,
		work:        frame.New(0, 0),
	}
}

// SetCallbacks installs the frame and error callbacks. Call before Run.
func (l *Loop) SetCallbacks(onFrame FrameFunc, onError ErrorFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onFrame = onFrame
	l.onError = onError
	l.logger.Debug("ENGINE: Callbacks set")
}

// Run blocks, ticking until ctx is cancelled. A transform failure is
// fatal: an invalid mode must stop the loop, not degrade to
// Passthrough. Source read hiccups are reported and survived; a closed
// source ends the run.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(l.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w, h := l.source.Size()
	l.logger.Info("ENGINE: Loop started",
		"fps", l.fps,
		"width", w,
		"height", h,
		"export_scale", l.exportScale)

	for {
		select {
		case <-ctx.Done():
			l.mu.RLock()
			frames := l.stats.Frames
			l.mu.RUnlock()
			l.logger.Info("ENGINE: Loop stopped", "frames", frames)
			return nil
		case <-ticker.C:
			if err := l.tick(); err != nil {
				l.logger.Error("ENGINE: Loop failed", "error", err)
				return err
			}
		}
	}
}

// tick runs one grab-transform-publish pass.
func (l *Loop) tick() error {
	now := time.Now()
	var interval time.Duration
	if !l.lastTickAt.IsZero() {
		interval = now.Sub(l.lastTickAt)
	}
	l.lastTickAt = now

	if err := l.source.Grab(l.work); err != nil {
		if errors.Is(err, camera.ErrClosed) {
			return fmt.Errorf("engine: source closed: %w", err)
		}
		l.reportError(fmt.Errorf("engine: grab: %w", err))
		return nil
	}

	mode, perf := l.selector.Snapshot()

	start := time.Now()
	if err := l.transformer.ApplyBuffer(l.work, mode, perf); err != nil {
		return fmt.Errorf("engine: transform: %w", err)
	}
	transformTime := time.Since(start)

	l.mu.Lock()
	if l.last == nil {
		l.last = l.work.Clone()
	} else {
		l.last.CopyFrom(l.work)
	}
	l.lastMode = mode
	l.stats.observe(mode, perf, transformTime, interval)
	stats := l.stats
	onFrame := l.onFrame
	l.mu.Unlock()

	if onFrame != nil {
		// ToImage copies, so the frontend never sees the work buffer.
		onFrame(l.work.ToImage(), stats)
	}
	return nil
}

// Capture encodes the most recent rendered frame as PNG and appends it
// to the roll. Safe to call from any goroutine. Before the first frame
// it fails with ErrNoFrame.
func (l *Loop) Capture() (capture.Shot, error) {
	l.mu.Lock()
	if l.last == nil {
		l.mu.Unlock()
		return capture.Shot{}, ErrNoFrame
	}
	buf := l.last.Clone()
	mode := l.lastMode
	l.mu.Unlock()

	data, err := capture.EncodePNG(buf, l.exportScale)
	if err != nil {
		return capture.Shot{}, err
	}
	shot := l.roll.Add(data, buf.Width*l.exportScale, buf.Height*l.exportScale, mode)

	l.mu.Lock()
	l.stats.Captures++
	l.mu.Unlock()
	return shot, nil
}

// Roll exposes the photo roll for save actions.
func (l *Loop) Roll() *capture.Roll {
	return l.roll
}

// Stats returns the latest snapshot.
func (l *Loop) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *Loop) reportError(err error) {
	l.logger.Warn("ENGINE: Tick error", "error", err)
	l.mu.RLock()
	onError := l.onError
	l.mu.RUnlock()
	if onError != nil {
		onError(err)
	}
}
