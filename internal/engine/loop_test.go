package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"retrocam/internal/camera"
	"retrocam/internal/capture"
	"retrocam/internal/filter"
	"retrocam/internal/frame"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type rendered struct {
	img   *image.RGBA
	stats Stats
}

// newTestLoop builds a loop over the synthetic pattern source.
func newTestLoop(t *testing.T, opts Options) (*Loop, *filter.Selector) {
	t.Helper()
	sel, err := filter.NewSelector(filter.Retro4Tone)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}
	logger := discardLogger()
	loop := New(
		camera.NewTestPattern(32, 24),
		sel,
		filter.NewTransformer(filter.DefaultPalette()),
		capture.NewRoll(logger),
		opts,
		logger,
	)
	return loop, sel
}

// TestCaptureBeforeFirstFrame pins the no-frame failure mode.
func TestCaptureBeforeFirstFrame(t *testing.T) {
	loop, _ := newTestLoop(t, Options{FPS: 30, ExportScale: 2})

	if _, err := loop.Capture(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Capture before Run = %v, want ErrNoFrame", err)
	}
	if n := loop.Roll().Len(); n != 0 {
		t.Errorf("roll has %d shots after failed capture, want 0", n)
	}
}

// TestLoopRendersAndCaptures runs the loop over the pattern source,
// checks the published frames and takes a capture.
func TestLoopRendersAndCaptures(t *testing.T) {
	const scale = 2
	loop, _ := newTestLoop(t, Options{FPS: 100, ExportScale: scale})

	frames := make(chan rendered, 16)
	loop.SetCallbacks(func(img *image.RGBA, stats Stats) {
		select {
		case frames <- rendered{img, stats}:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var last rendered
	for i := 0; i < 3; i++ {
		select {
		case last = <-frames:
		case <-time.After(testTimeout):
			t.Fatalf("timed out waiting for frame %d", i+1)
		}
	}

	if got := last.img.Bounds().Size(); got.X != 32 || got.Y != 24 {
		t.Errorf("frame size = %v, want 32x24", got)
	}
	if last.stats.Frames < 3 {
		t.Errorf("stats.Frames = %d, want >= 3", last.stats.Frames)
	}
	if last.stats.Mode != filter.Retro4Tone {
		t.Errorf("stats.Mode = %v, want Retro4Tone", last.stats.Mode)
	}

	// Published pixels must already be palette-mapped.
	pal := filter.DefaultPalette()
	pix := last.img.Pix
	for i := 0; i < len(pix); i += 4 {
		c := filter.RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}
		if c != pal[0] && c != pal[1] && c != pal[2] && c != pal[3] {
			t.Fatalf("published pixel %d = %v not in palette", i/4, c)
		}
	}

	shot, err := loop.Capture()
	if err != nil {
		t.Fatalf("Capture = %v", err)
	}
	if shot.Seq != 1 || shot.Mode != filter.Retro4Tone {
		t.Errorf("shot = seq %d mode %v, want seq 1 Retro4Tone", shot.Seq, shot.Mode)
	}
	decoded, err := png.Decode(bytes.NewReader(shot.PNG))
	if err != nil {
		t.Fatalf("png.Decode = %v", err)
	}
	if got := decoded.Bounds().Size(); got.X != 32*scale || got.Y != 24*scale {
		t.Errorf("capture size = %v, want %dx%d", got, 32*scale, 24*scale)
	}
	if loop.Roll().Len() != 1 {
		t.Errorf("roll size = %d, want 1", loop.Roll().Len())
	}
	if got := loop.Stats(); got.Captures != 1 {
		t.Errorf("stats.Captures = %d, want 1", got.Captures)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil on cancel", err)
		}
	case <-time.After(testTimeout):
		t.Fatal("Run did not return after cancel")
	}
}

// TestLoopPicksUpModeSwitch verifies a selector change reaches the next
// tick's snapshot.
func TestLoopPicksUpModeSwitch(t *testing.T) {
	loop, sel := newTestLoop(t, Options{FPS: 100, ExportScale: 1})

	frames := make(chan rendered, 16)
	loop.SetCallbacks(func(img *image.RGBA, stats Stats) {
		select {
		case frames <- rendered{img, stats}:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case <-frames:
	case <-time.After(testTimeout):
		t.Fatal("no first frame")
	}

	sel.SetPerformanceMode(true)
	if got, err := sel.SelectDirection(filter.Right); err != nil || got != filter.Monochrome {
		t.Fatalf("SelectDirection(Right) = %v, %v", got, err)
	}

	deadline := time.After(testTimeout)
	for {
		select {
		case r := <-frames:
			if r.stats.Mode == filter.Monochrome && r.stats.Performance {
				// Monochrome output is gray everywhere.
				for i := 0; i < len(r.img.Pix); i += 4 {
					if r.img.Pix[i] != r.img.Pix[i+1] || r.img.Pix[i+1] != r.img.Pix[i+2] {
						t.Fatalf("pixel %d not gray after switch", i/4)
					}
				}
				cancel()
				<-done
				return
			}
		case <-deadline:
			t.Fatal("mode switch never observed in published frames")
		}
	}
}

// flakySource fails its first grabs, then delegates to the pattern.
type flakySource struct {
	failures int
	inner    camera.Source
}

func (f *flakySource) Grab(dst *frame.Buffer) error {
	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("transient device hiccup")
	}
	return f.inner.Grab(dst)
}

func (f *flakySource) Size() (int, int) { return f.inner.Size() }
func (f *flakySource) Close() error     { return f.inner.Close() }

// TestLoopSurvivesTransientGrabErrors verifies read hiccups are reported
// through the error callback without stopping the loop.
func TestLoopSurvivesTransientGrabErrors(t *testing.T) {
	sel, err := filter.NewSelector(filter.Passthrough)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}
	logger := discardLogger()
	src := &flakySource{failures: 2, inner: camera.NewTestPattern(16, 16)}
	loop := New(src, sel, filter.NewTransformer(filter.DefaultPalette()),
		capture.NewRoll(logger), Options{FPS: 100, ExportScale: 1}, logger)

	errs := make(chan error, 16)
	frames := make(chan rendered, 16)
	loop.SetCallbacks(func(img *image.RGBA, stats Stats) {
		select {
		case frames <- rendered{img, stats}:
		default:
		}
	}, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case <-errs:
	case <-time.After(testTimeout):
		t.Fatal("transient grab error never reported")
	}
	select {
	case <-frames:
	case <-time.After(testTimeout):
		t.Fatal("loop never recovered after transient errors")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
}

// TestLoopStopsOnClosedSource verifies a closed source ends the run with
// an error instead of spinning.
func TestLoopStopsOnClosedSource(t *testing.T) {
	loop, _ := newTestLoop(t, Options{FPS: 100, ExportScale: 1})

	// Closing the pattern source makes every Grab fail with ErrClosed.
	src := camera.NewTestPattern(8, 8)
	if err := src.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
	loop.source = src

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, camera.ErrClosed) {
			t.Errorf("Run = %v, want ErrClosed", err)
		}
	case <-time.After(testTimeout):
		t.Fatal("Run did not stop on closed source")
	}
}

// TestStatsObserve verifies counters and averaging behavior directly.
func TestStatsObserve(t *testing.T) {
	var s Stats
	s.observe(filter.Blocked, true, 10*time.Millisecond, 0)
	if s.Frames != 1 || s.Mode != filter.Blocked || !s.Performance {
		t.Fatalf("first observe = %+v", s)
	}
	if s.TransformTime != 10*time.Millisecond {
		t.Errorf("first TransformTime = %v, want 10ms", s.TransformTime)
	}
	if s.FPS != 0 {
		t.Errorf("FPS after first frame = %v, want 0 (no interval yet)", s.FPS)
	}

	s.observe(filter.Blocked, true, 20*time.Millisecond, 50*time.Millisecond)
	if s.Frames != 2 {
		t.Errorf("Frames = %d, want 2", s.Frames)
	}
	if s.TransformTime <= 10*time.Millisecond || s.TransformTime >= 20*time.Millisecond {
		t.Errorf("TransformTime = %v, want between 10ms and 20ms", s.TransformTime)
	}
	if s.FPS < 19 || s.FPS > 21 {
		t.Errorf("FPS = %v, want about 20", s.FPS)
	}
}
