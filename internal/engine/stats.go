// Rolling runtime statistics published with every frame
package engine

import (
	"time"

	"retrocam/internal/filter"
)

// Stats is a snapshot of loop activity. TransformTime and FrameInterval
// are exponential moving averages so the frontends can show steady
// numbers instead of per-tick jitter.
type Stats struct {
	Frames        uint64
	Captures      uint64
	Mode          filter.Mode
	Performance   bool
	FPS           float64
	TransformTime time.Duration
	FrameInterval time.Duration
}

const emaWeight = 0.1

func (s *Stats) observe(mode filter.Mode, perf bool, transform, interval time.Duration) {
	s.Frames++
	s.Mode = mode
	s.Performance = perf

	if s.Frames == 1 {
		s.TransformTime = transform
	} else {
		s.TransformTime = ema(s.TransformTime, transform)
	}

	if interval > 0 {
		if s.FrameInterval == 0 {
			s.FrameInterval = interval
		} else {
			s.FrameInterval = ema(s.FrameInterval, interval)
		}
		s.FPS = float64(time.Second) / float64(s.FrameInterval)
	}
}

func ema(prev, cur time.Duration) time.Duration {
	return time.Duration(float64(prev)*(1-emaWeight) + float64(cur)*emaWeight)
}
