package engine

import "github.com/bluenet-io/bluenet/internal/model"

// crossingState is the binary Inside/Outside state machine. No
// intermediate "near boundary" state; hysteresis by repeated count is a
// possible extension, the baseline reacts to a single observation.
// Callers must serialize access (the engine's mutex does).
type crossingState struct {
	inside    bool
	crossings uint64
}

// transition is the outcome of feeding one containment verdict to the
// state machine.
type transition struct {
	crossed   bool
	direction model.Direction
}

// observe compares the new containment verdict against the current
// state. On a change it flips the state, counts the crossing, and
// reports the direction. The read and write happen in one step; under
// the engine mutex a crossing can neither be double-counted nor missed.
func (s *crossingState) observe(inside bool) transition {
	if inside == s.inside {
		return transition{crossed: false, direction: model.DirectionNone}
	}

	s.inside = inside
	s.crossings++

	dir := model.DirectionExited
	if inside {
		dir = model.DirectionEntered
	}
	return transition{crossed: true, direction: dir}
}
