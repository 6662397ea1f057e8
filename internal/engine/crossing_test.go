package engine

import (
	"testing"

	"github.com/bluenet-io/bluenet/internal/model"
)

func TestObserveNoChange(t *testing.T) {
	s := crossingState{inside: true}
	tr := s.observe(true)
	if tr.crossed {
		t.Error("expected no crossing")
	}
	if tr.direction != model.DirectionNone {
		t.Errorf("expected direction none, got %s", tr.direction)
	}
	if s.crossings != 0 {
		t.Errorf("expected 0 crossings, got %d", s.crossings)
	}
}

func TestObserveExit(t *testing.T) {
	s := crossingState{inside: true}
	tr := s.observe(false)
	if !tr.crossed {
		t.Error("expected crossing")
	}
	if tr.direction != model.DirectionExited {
		t.Errorf("expected exited, got %s", tr.direction)
	}
	if s.inside {
		t.Error("expected state outside")
	}
	if s.crossings != 1 {
		t.Errorf("expected 1 crossing, got %d", s.crossings)
	}
}

func TestObserveEnter(t *testing.T) {
	s := crossingState{inside: false}
	tr := s.observe(true)
	if tr.direction != model.DirectionEntered {
		t.Errorf("expected entered, got %s", tr.direction)
	}
	if s.crossings != 1 {
		t.Errorf("expected 1 crossing, got %d", s.crossings)
	}
}

func TestObserveAlternationCountsExactlyOnce(t *testing.T) {
	s := crossingState{inside: true}
	seq := []bool{true, false, false, true, true, false, true, false, false}
	want := uint64(0)
	prev := true
	for _, inside := range seq {
		tr := s.observe(inside)
		if inside != prev {
			want++
			if !tr.crossed {
				t.Errorf("missed crossing at flip to %v", inside)
			}
		} else if tr.crossed {
			t.Errorf("spurious crossing at repeat %v", inside)
		}
		prev = inside
	}
	if s.crossings != want {
		t.Errorf("expected %d crossings, got %d", want, s.crossings)
	}
}
