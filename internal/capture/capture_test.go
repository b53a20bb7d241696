package capture

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"retrocam/internal/filter"
	"retrocam/internal/frame"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testFrame returns a 2x2 buffer with four distinct opaque colors.
func testFrame() *frame.Buffer {
	b := frame.New(2, 2)
	copy(b.Pix, []uint8{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 0, 255,
	})
	return b
}

// TestEncodePNGRoundTrip decodes the output and compares every pixel.
func TestEncodePNGRoundTrip(t *testing.T) {
	b := testFrame()
	data, err := EncodePNG(b, 1)
	if err != nil {
		t.Fatalf("EncodePNG = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode = %v", err)
	}
	got := frame.FromImage(img)
	if got.Width != 2 || got.Height != 2 {
		t.Fatalf("decoded size = %dx%d, want 2x2", got.Width, got.Height)
	}
	if !bytes.Equal(got.Pix, b.Pix) {
		t.Errorf("decoded pixels differ:\ngot  %v\nwant %v", got.Pix, b.Pix)
	}
}

// TestEncodePNGScaled verifies nearest-neighbor upscaling keeps blocks sharp.
func TestEncodePNGScaled(t *testing.T) {
	const scale = 3
	b := testFrame()
	data, err := EncodePNG(b, scale)
	if err != nil {
		t.Fatalf("EncodePNG = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode = %v", err)
	}
	got := frame.FromImage(img)
	if got.Width != 2*scale || got.Height != 2*scale {
		t.Fatalf("decoded size = %dx%d, want %dx%d", got.Width, got.Height, 2*scale, 2*scale)
	}

	// Every scale x scale cell must be the uniform source pixel.
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			si := ((y/scale)*2 + x/scale) * 4
			di := (y*got.Width + x) * 4
			for c := 0; c < 4; c++ {
				if got.Pix[di+c] != b.Pix[si+c] {
					t.Fatalf("pixel (%d,%d) channel %d = %d, want %d",
						x, y, c, got.Pix[di+c], b.Pix[si+c])
				}
			}
		}
	}
}

// TestEncodePNGRejectsBadFrames covers empty and inconsistent buffers.
func TestEncodePNGRejectsBadFrames(t *testing.T) {
	if _, err := EncodePNG(frame.New(0, 0), 1); err == nil {
		t.Error("EncodePNG(0x0) = nil error, want error")
	}

	b := frame.New(2, 2)
	b.Width = 3
	if _, err := EncodePNG(b, 1); !errors.Is(err, frame.ErrBufferSize) {
		t.Errorf("EncodePNG(inconsistent) = %v, want ErrBufferSize", err)
	}
}

// TestRollSequence verifies ordering, sequence numbers and Latest.
func TestRollSequence(t *testing.T) {
	r := NewRoll(discardLogger())

	if r.Len() != 0 {
		t.Fatalf("new roll Len = %d, want 0", r.Len())
	}
	if _, ok := r.Latest(); ok {
		t.Fatal("Latest on empty roll reported a shot")
	}

	first := r.Add([]byte("png-1"), 160, 144, filter.Retro4Tone)
	second := r.Add([]byte("png-2"), 160, 144, filter.Blocked)

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("sequence numbers = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	latest, ok := r.Latest()
	if !ok || latest.Seq != 2 || latest.Mode != filter.Blocked {
		t.Errorf("Latest = %+v, ok=%v, want seq 2 blocked", latest, ok)
	}

	shots := r.Shots()
	if len(shots) != 2 {
		t.Fatalf("Shots len = %d, want 2", len(shots))
	}
	shots[0].Seq = 99 // mutating the copy must not touch the roll
	if again := r.Shots(); again[0].Seq != 1 {
		t.Error("Shots returned a view into the roll")
	}
}

// TestRollSaveAll writes shots to a temp dir and reads them back.
func TestRollSaveAll(t *testing.T) {
	r := NewRoll(discardLogger())

	b := testFrame()
	data, err := EncodePNG(b, 2)
	if err != nil {
		t.Fatalf("EncodePNG = %v", err)
	}
	shot := r.Add(data, 4, 4, filter.Monochrome)
	r.Add([]byte("second"), 2, 2, filter.Passthrough)

	dir := filepath.Join(t.TempDir(), "shots")
	n, err := r.SaveAll(dir)
	if err != nil {
		t.Fatalf("SaveAll = %v", err)
	}
	if n != 2 {
		t.Errorf("SaveAll wrote %d files, want 2", n)
	}

	readBack, err := os.ReadFile(filepath.Join(dir, shot.Filename()))
	if err != nil {
		t.Fatalf("ReadFile = %v", err)
	}
	if !bytes.Equal(readBack, data) {
		t.Error("saved bytes differ from encoded shot")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("dir has %d entries, want 2", len(entries))
	}
}

// TestRollSaveAllEmpty verifies an empty roll writes nothing and creates nothing.
func TestRollSaveAllEmpty(t *testing.T) {
	r := NewRoll(discardLogger())
	dir := filepath.Join(t.TempDir(), "never-created")

	n, err := r.SaveAll(dir)
	if err != nil {
		t.Fatalf("SaveAll = %v", err)
	}
	if n != 0 {
		t.Errorf("SaveAll = %d, want 0", n)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("empty SaveAll created %s", dir)
	}
}

// TestShotFilename pins the canonical naming scheme.
func TestShotFilename(t *testing.T) {
	r := NewRoll(discardLogger())
	s := r.Add([]byte("x"), 1, 1, filter.Retro4Tone)

	name := s.Filename()
	if filepath.Ext(name) != ".png" {
		t.Errorf("Filename %q lacks .png extension", name)
	}
	const prefix = "retrocam_0001_"
	if len(name) < len(prefix) || name[:len(prefix)] != prefix {
		t.Errorf("Filename %q does not start with %q", name, prefix)
	}
}
