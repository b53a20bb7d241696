package filter

import (
	"errors"
	"sync"
	"testing"
)

// TestSelectorCycle verifies cycle order and wrap-around.
func TestSelectorCycle(t *testing.T) {
	s, err := NewSelector(Retro4Tone)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}

	want := []Mode{Monochrome, Blocked, Passthrough, Retro4Tone, Monochrome}
	for i, w := range want {
		if got := s.CycleNext(); got != w {
			t.Fatalf("CycleNext #%d = %v, want %v", i+1, got, w)
		}
		if got := s.Mode(); got != w {
			t.Fatalf("Mode after CycleNext #%d = %v, want %v", i+1, got, w)
		}
	}
}

// TestSelectorDirections verifies the directional preset mapping.
func TestSelectorDirections(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Mode
	}{
		{Up, Retro4Tone},
		{Right, Monochrome},
		{Down, Blocked},
		{Left, Passthrough},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			s, err := NewSelector(Passthrough)
			if err != nil {
				t.Fatalf("NewSelector = %v", err)
			}
			got, err := s.SelectDirection(tt.dir)
			if err != nil {
				t.Fatalf("SelectDirection(%v) = %v", tt.dir, err)
			}
			if got != tt.want {
				t.Errorf("SelectDirection(%v) = %v, want %v", tt.dir, got, tt.want)
			}
			if s.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", s.Mode(), tt.want)
			}
		})
	}
}

// TestSelectorDirectionParity verifies the directional presets cover
// exactly the cycle set, one mode per direction.
func TestSelectorDirectionParity(t *testing.T) {
	seen := make(map[Mode]Direction)
	for _, d := range []Direction{Up, Right, Down, Left} {
		m, err := ModeForDirection(d)
		if err != nil {
			t.Fatalf("ModeForDirection(%v) = %v", d, err)
		}
		if prev, dup := seen[m]; dup {
			t.Fatalf("directions %v and %v both map to %v", prev, d, m)
		}
		seen[m] = d
	}
	for _, m := range Modes() {
		if _, ok := seen[m]; !ok {
			t.Errorf("mode %v unreachable by direction", m)
		}
	}
}

// TestSelectorInvalidDirection verifies unmapped input is rejected with
// ErrInvalidMode and the active mode stays put.
func TestSelectorInvalidDirection(t *testing.T) {
	s, err := NewSelector(Blocked)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}

	got, err := s.SelectDirection(Direction(42))
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SelectDirection(42) error = %v, want ErrInvalidMode", err)
	}
	if got != Blocked || s.Mode() != Blocked {
		t.Errorf("active mode changed to %v on invalid direction", s.Mode())
	}
}

// TestSelectorSetMode covers direct switching and rejection of unknown modes.
func TestSelectorSetMode(t *testing.T) {
	s, err := NewSelector(Retro4Tone)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}

	if err := s.SetMode(Blocked); err != nil {
		t.Fatalf("SetMode(Blocked) = %v", err)
	}
	if s.Mode() != Blocked {
		t.Errorf("Mode() = %v, want Blocked", s.Mode())
	}

	if err := s.SetMode(Mode(9)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode(9) = %v, want ErrInvalidMode", err)
	}
	if s.Mode() != Blocked {
		t.Errorf("Mode() = %v after rejected SetMode, want Blocked", s.Mode())
	}
}

// TestNewSelectorInvalidStart verifies the constructor rejects out-of-range modes.
func TestNewSelectorInvalidStart(t *testing.T) {
	if _, err := NewSelector(Mode(-3)); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("NewSelector(-3) = %v, want ErrInvalidMode", err)
	}
}

// TestSelectorPerformanceFlag covers set, toggle and snapshot.
func TestSelectorPerformanceFlag(t *testing.T) {
	s, err := NewSelector(Monochrome)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}

	if s.PerformanceMode() {
		t.Error("performance flag should start false")
	}
	s.SetPerformanceMode(true)
	if !s.PerformanceMode() {
		t.Error("SetPerformanceMode(true) not observed")
	}
	if got := s.TogglePerformanceMode(); got {
		t.Error("TogglePerformanceMode() = true, want false")
	}

	s.SetPerformanceMode(true)
	mode, perf := s.Snapshot()
	if mode != Monochrome || !perf {
		t.Errorf("Snapshot() = (%v, %v), want (Monochrome, true)", mode, perf)
	}
}

// TestSelectorConcurrent hammers the selector from several goroutines;
// run with -race this pins the locking.
func TestSelectorConcurrent(t *testing.T) {
	s, err := NewSelector(Retro4Tone)
	if err != nil {
		t.Fatalf("NewSelector = %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				switch g {
				case 0:
					s.CycleNext()
				case 1:
					_, _ = s.SelectDirection(Direction(i % 4))
				case 2:
					s.SetPerformanceMode(i%2 == 0)
				default:
					_, _ = s.Snapshot()
				}
			}
		}(g)
	}
	wg.Wait()

	if m := s.Mode(); !m.Valid() {
		t.Errorf("Mode() = %v after concurrent use, want a valid mode", m)
	}
}
