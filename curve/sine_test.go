package curve

import (
	"testing"

	"github.com/TeamNorCal/glow/model"
)

func TestSinePhase(t *testing.T) {
	peak := model.RGB(1023, 200, 0)

	s := NewSine(peak, 100, 20, 90)
	s.Start(nil)
	if s.Current() != peak {
		t.Errorf("Expected a 90 degree wave to start at its peak, got %v", s.Current())
	}

	s = NewSine(peak, 100, 20, 0)
	s.Start(nil)
	if got := s.Current(); got != model.RGB(511, 100, 0) {
		t.Errorf("Expected a zero phase wave to start half way, got %v", got)
	}

	// a quarter cycle in reaches the peak
	s.Tick(5)
	if got := s.Current(); got[model.Red] < 1022 {
		t.Errorf("Expected near peak after a quarter cycle, got %v", got)
	}
}

func TestSineWrapsEachCycle(t *testing.T) {
	s := NewSine(model.RGB(800, 800, 800), 1000, 30, 45)
	s.Start(nil)
	first := s.Current()

	for cycle := 0; cycle < 5; cycle++ {
		for i := 0; i < 30; i++ {
			s.Tick(1)
		}
		if s.Current() != first {
			t.Fatalf("cycle %d ended on %v, want %v", cycle, s.Current(), first)
		}
	}
}

func TestSineSeekMatchesTicking(t *testing.T) {
	color := model.RGB(1023, 512, 64)
	for _, pos := range []model.Ticks{0, 1, 24, 25, 61, 199} {
		ticked := NewSine(color, 200, 25, 30)
		ticked.Start(nil)
		for i := model.Ticks(0); i < pos; i++ {
			ticked.Tick(1)
		}

		seeked := NewSine(color, 200, 25, 30)
		seeked.SetTick(pos, nil)

		for i := pos; i <= 200; i++ {
			if ticked.Current() != seeked.Current() {
				t.Fatalf("seek to %d diverged at tick %d: %v != %v", pos, i, ticked.Current(), seeked.Current())
			}
			ticked.Tick(1)
			seeked.Tick(1)
		}
	}
}
