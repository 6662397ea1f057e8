package feed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bluenet-io/bluenet/internal/model"
)

// Observer consumes one position report and returns the resulting
// decision. *engine.Engine satisfies it.
type Observer interface {
	Observe(pos model.Position) (model.DecisionRecord, error)
}

// Runner replays a scenario against an observer on a fixed interval.
type Runner struct {
	scenario   *Scenario
	interval   time.Duration
	observer   Observer
	onDecision func(model.DecisionRecord)

	rng *rand.Rand
}

// NewRunner builds a runner. onDecision may be nil; when set it is
// called synchronously after each observation.
func NewRunner(s *Scenario, interval time.Duration, obs Observer, onDecision func(model.DecisionRecord)) (*Runner, error) {
	if s == nil {
		return nil, fmt.Errorf("feed: nil scenario")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("feed: interval must be positive, got %s", interval)
	}
	if obs == nil {
		return nil, fmt.Errorf("feed: nil observer")
	}
	return &Runner{
		scenario:   s,
		interval:   interval,
		observer:   obs,
		onDecision: onDecision,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Run replays the scenario until ctx is cancelled, looping back to the
// first waypoint after the last. Each tick emits the current waypoint's
// position with small jitter; the waypoint advances once its dwell
// duration has elapsed in ticks.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	idx := 0
	elapsed := time.Duration(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		wp := r.scenario.Waypoints[idx]
		rec, err := r.observer.Observe(r.jittered(wp))
		if err != nil {
			return fmt.Errorf("feed: observe waypoint %s: %w", wp.Name, err)
		}
		if r.onDecision != nil {
			r.onDecision(rec)
		}

		elapsed += r.interval
		if elapsed >= wp.Duration {
			elapsed = 0
			idx = (idx + 1) % len(r.scenario.Waypoints)
		}
	}
}

// jittered perturbs the waypoint by up to ~50 m to resemble a real GPS
// track, and fabricates a plausible accuracy figure.
func (r *Runner) jittered(wp Waypoint) model.Position {
	return model.Position{
		Latitude:  wp.Latitude + (r.rng.Float64()-0.5)*0.001,
		Longitude: wp.Longitude + (r.rng.Float64()-0.5)*0.001,
		Accuracy:  3 + r.rng.Float64()*12,
	}
}
