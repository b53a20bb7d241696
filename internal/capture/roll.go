// In-memory photo roll of captured stills
package capture

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"retrocam/internal/filter"
)

// Shot is one captured still. The PNG bytes are immutable once added to
// the roll; Width and Height are the encoded dimensions after scaling.
type Shot struct {
	PNG     []byte
	Width   int
	Height  int
	Mode    filter.Mode
	Seq     int
	TakenAt time.Time
}

// Filename returns the canonical on-disk name for the shot.
func (s Shot) Filename() string {
	return fmt.Sprintf("retrocam_%04d_%s.png", s.Seq, s.TakenAt.Format("20060102-150405"))
}

// Save writes the shot into dir under its canonical name and returns
// the full path.
func (s Shot) Save(dir string) (string, error) {
	path := filepath.Join(dir, s.Filename())
	if err := os.WriteFile(path, s.PNG, 0o644); err != nil {
		return "", fmt.Errorf("capture: save shot %d: %w", s.Seq, err)
	}
	return path, nil
}

// Roll collects shots in capture order. It grows without bound; the
// user empties it by saving to disk or restarting.
type Roll struct {
	mu      sync.Mutex
	shots   []Shot
	nextSeq int
	logger  *slog.Logger
}

// NewRoll creates an empty roll.
func NewRoll(logger *slog.Logger) *Roll {
	return &Roll{nextSeq: 1, logger: logger}
}

// Add appends an encoded still and returns it with its sequence number
// and timestamp filled in.
func (r *Roll) Add(pngData []byte, width, height int, mode filter.Mode) Shot {
	r.mu.Lock()
	shot := Shot{
		PNG:     pngData,
		Width:   width,
		Height:  height,
		Mode:    mode,
		Seq:     r.nextSeq,
		TakenAt: time.Now(),
	}
	r.nextSeq++
	r.shots = append(r.shots, shot)
	count := len(r.shots)
	r.mu.Unlock()

	r.logger.Info("Shot added to roll",
		"seq", shot.Seq,
		"mode", mode.String(),
		"width", width,
		"height", height,
		"roll_size", count)
	return shot
}

// Len returns the number of shots on the roll.
func (r *Roll) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shots)
}

// Latest returns the most recent shot, if any.
func (r *Roll) Latest() (Shot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shots) == 0 {
		return Shot{}, false
	}
	return r.shots[len(r.shots)-1], true
}

// Shots returns a copy of the roll in capture order.
func (r *Roll) Shots() []Shot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Shot, len(r.shots))
	copy(out, r.shots)
	return out
}

// SaveAll writes every shot into dir, creating it if needed. It returns
// the number of files written; the first write failure stops the run.
func (r *Roll) SaveAll(dir string) (int, error) {
	shots := r.Shots()
	if len(shots) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("capture: create output dir: %w", err)
	}

	for i, s := range shots {
		path, err := s.Save(dir)
		if err != nil {
			return i, err
		}
		r.logger.Debug("Shot saved", "seq", s.Seq, "path", path)
	}

	r.logger.Info("Roll saved", "dir", dir, "count", len(shots))
	return len(shots), nil
}
