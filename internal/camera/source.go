// Frame sources feeding the engine loop
package camera

import (
	"errors"
	"log/slog"
	"strconv"

	"retrocam/internal/frame"
)

// ErrClosed is returned by Grab after a source has been closed.
var ErrClosed = errors.New("camera: source closed")

// Source produces RGBA frames at the engine's processing resolution.
// Implementations are safe for use from the engine goroutine plus a
// closer; Grab overwrites dst completely.
type Source interface {
	Grab(dst *frame.Buffer) error
	Size() (width, height int)
	Close() error
}

// Options control how a source delivers frames.
type Options struct {
	Width  int  // processing width every Grab produces
	Height int  // processing height every Grab produces
	Mirror bool // horizontal flip, the selfie-view convention
}

// Open resolves a device spec into a source: a small integer opens that
// webcam, "bars" the synthetic test pattern, anything else is treated
// as a still image path.
func Open(spec string, opts Options, logger *slog.Logger) (Source, error) {
	if spec == "bars" {
		return NewTestPattern(opts.Width, opts.Height), nil
	}
	if device, err := strconv.Atoi(spec); err == nil {
		return OpenWebcam(device, opts, logger)
	}
	return OpenStillImage(spec, opts, logger)
}
