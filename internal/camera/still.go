// Still image source for demo runs without camera hardware
package camera

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"retrocam/internal/frame"
)

// StillImage serves one decoded image as every frame. Decoding,
// mirroring, scaling and color conversion happen once at open time.
type StillImage struct {
	mu     sync.Mutex
	buf    *frame.Buffer
	closed bool
}

// OpenStillImage loads path and prepares it at the processing resolution.
func OpenStillImage(path string, opts Options, logger *slog.Logger) (*StillImage, error) {
	logger.Debug("Loading still image source", "path", path)

	if !isSupportedImageFormat(path) {
		return nil, fmt.Errorf("camera: unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, fmt.Errorf("camera: failed to load image: %s", path)
	}
	defer mat.Close()

	if opts.Mirror {
		gocv.Flip(mat, &mat, 1)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(mat, &scaled, image.Pt(opts.Width, opts.Height), 0, 0, gocv.InterpolationArea)

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(scaled, &rgba, gocv.ColorBGRToRGBA)

	buf := frame.New(opts.Width, opts.Height)
	if err := matToBuffer(&rgba, buf); err != nil {
		return nil, err
	}

	logger.Info("Still image source ready",
		"path", path,
		"source_width", mat.Cols(),
		"source_height", mat.Rows(),
		"width", opts.Width,
		"height", opts.Height)

	return &StillImage{buf: buf}, nil
}

// Grab copies the prepared image into dst.
func (s *StillImage) Grab(dst *frame.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	dst.CopyFrom(s.buf)
	return nil
}

// Size returns the processing resolution.
func (s *StillImage) Size() (int, int) {
	return s.buf.Width, s.buf.Height
}

// Close marks the source closed.
func (s *StillImage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// isSupportedImageFormat whitelists the extensions OpenCV decodes
// reliably across platforms.
func isSupportedImageFormat(path string) bool {
	ext := strings.ToLower(fileExtension(path))
	for _, format := range []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"} {
		if ext == format {
			return true
		}
	}
	return false
}

func fileExtension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}
