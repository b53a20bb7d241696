// Live webcam source backed by OpenCV video capture
package camera

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"retrocam/internal/frame"
)

// Capture size requested from the device. The grab path downscales to
// the processing resolution anyway, so asking for more only costs USB
// bandwidth.
const (
	captureWidth  = 640
	captureHeight = 480
)

// Webcam grabs live frames from a V4L/AVFoundation device through
// GoCV, mirrors and downscales them, and converts BGR to RGBA.
type Webcam struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	raw    gocv.Mat // reused BGR read target
	scaled gocv.Mat // reused resize target
	rgba   gocv.Mat // reused conversion target
	width  int
	height int
	mirror bool
	closed bool
	logger *slog.Logger
}

// OpenWebcam opens the given device index.
func OpenWebcam(device int, opts Options, logger *slog.Logger) (*Webcam, error) {
	logger.Debug("Opening webcam", "device", device)

	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", device, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	cap.Set(gocv.VideoCaptureFrameHeight, captureHeight)

	logger.Info("Webcam opened",
		"device", device,
		"capture_width", int(cap.Get(gocv.VideoCaptureFrameWidth)),
		"capture_height", int(cap.Get(gocv.VideoCaptureFrameHeight)),
		"width", opts.Width,
		"height", opts.Height,
		"mirror", opts.Mirror)

	return &Webcam{
		cap:    cap,
		raw:    gocv.NewMat(),
		scaled: gocv.NewMat(),
		rgba:   gocv.NewMat(),
		width:  opts.Width,
		height: opts.Height,
		mirror: opts.Mirror,
		logger: logger,
	}, nil
}

// Grab reads the next device frame into dst.
func (w *Webcam) Grab(dst *frame.Buffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if ok := w.cap.Read(&w.raw); !ok || w.raw.Empty() {
		return fmt.Errorf("camera: device read produced no frame")
	}

	if w.mirror {
		gocv.Flip(w.raw, &w.raw, 1)
	}
	gocv.Resize(w.raw, &w.scaled, image.Pt(w.width, w.height), 0, 0, gocv.InterpolationArea)
	gocv.CvtColor(w.scaled, &w.rgba, gocv.ColorBGRToRGBA)

	return matToBuffer(&w.rgba, dst)
}

// Size returns the processing resolution Grab produces.
func (w *Webcam) Size() (int, int) {
	return w.width, w.height
}

// Close releases the device and all reused mats. Safe to call twice.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.raw.Close()
	w.scaled.Close()
	w.rgba.Close()
	err := w.cap.Close()

	w.logger.Debug("Webcam closed")
	if err != nil {
		return fmt.Errorf("camera: close device: %w", err)
	}
	return nil
}

// matToBuffer copies a continuous RGBA mat into dst.
func matToBuffer(m *gocv.Mat, dst *frame.Buffer) error {
	if m.Channels() != 4 {
		return fmt.Errorf("camera: expected RGBA mat, got %d channels", m.Channels())
	}

	view, err := m.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("camera: mat data: %w", err)
	}
	width, height := m.Cols(), m.Rows()
	if err := frame.Validate(view, width, height); err != nil {
		return err
	}

	if len(dst.Pix) != len(view) {
		dst.Pix = make([]uint8, len(view))
	}
	copy(dst.Pix, view)
	dst.Width = width
	dst.Height = height
	return nil
}
