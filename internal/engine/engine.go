package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bluenet-io/bluenet/internal/model"
)

// Config is the caller-supplied engine policy. Nothing here defaults
// inside the engine; construction fails on nonsense values instead of
// papering over them.
type Config struct {
	// Cooldown is the minimum time between two successful escalations.
	Cooldown time.Duration

	// MaxEscalationsPerEpisode caps successful escalations within one
	// contiguous outside episode.
	MaxEscalationsPerEpisode int

	// StartInside is the containment assumption before the first
	// observation arrives.
	StartInside bool
}

// Recorder is the external event log collaborator. The engine calls it
// once per observation, outside the critical section; it does not own
// the log's schema or durability.
type Recorder interface {
	RecordDecision(rec model.DecisionRecord) error
}

var (
	// ErrNoClassifier is returned when the engine is built without geometry.
	ErrNoClassifier = errors.New("engine: classifier is required")
)

// Engine composes the containment evaluator, the crossing state
// machine, and the escalation throttle behind a single Observe
// operation. One engine instance is one monitoring session.
type Engine struct {
	classifier Classifier
	recorder   Recorder
	sessionID  string

	mu       sync.Mutex
	state    crossingState
	throttle *Throttle

	// now is the clock; swapped in tests to drive cooldown sequences.
	now func() time.Time
}

// New builds an engine for one session. recorder may be nil, in which
// case decisions are not persisted.
func New(classifier Classifier, cfg Config, recorder Recorder) (*Engine, error) {
	if classifier == nil {
		return nil, ErrNoClassifier
	}
	if cfg.Cooldown < 0 {
		return nil, fmt.Errorf("engine: cooldown must not be negative, got %s", cfg.Cooldown)
	}
	if cfg.MaxEscalationsPerEpisode < 1 {
		return nil, fmt.Errorf("engine: max escalations per episode must be at least 1, got %d", cfg.MaxEscalationsPerEpisode)
	}

	return &Engine{
		classifier: classifier,
		recorder:   recorder,
		sessionID:  newSessionID(),
		state:      crossingState{inside: cfg.StartInside},
		throttle:   NewThrottle(cfg.Cooldown, cfg.MaxEscalationsPerEpisode),
		now:        time.Now,
	}, nil
}

// newSessionID mints the opaque session identifier, a short uuid prefix
// in the source system's format.
func newSessionID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// SessionID returns the session identifier minted at construction.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Observe processes one position report: validate, classify, detect a
// crossing, and evaluate the escalation gate. Classification through
// throttle evaluation run under one mutex so concurrent observations
// serialize as indivisible units; the decision record is persisted
// after the lock is released.
//
// An out-of-range position is rejected before any state is touched.
func (e *Engine) Observe(pos model.Position) (model.DecisionRecord, error) {
	if err := pos.Validate(); err != nil {
		return model.DecisionRecord{}, err
	}

	e.mu.Lock()
	now := e.now().UTC()

	inside := e.classifier.Contains(pos.Latitude, pos.Longitude)
	distance := e.classifier.DistanceToBoundary(pos.Latitude, pos.Longitude)

	tr := e.state.observe(inside)
	if tr.crossed {
		// Fresh quota for the new episode, whichever side it is on.
		e.throttle.ResetEpisode()
	}

	authorized := false
	if !inside {
		authorized = e.throttle.MayEscalate(now)
	}

	rec := model.DecisionRecord{
		SessionID:            e.sessionID,
		Timestamp:            now,
		Latitude:             pos.Latitude,
		Longitude:            pos.Longitude,
		Inside:               inside,
		BoundaryCrossed:      tr.crossed,
		CrossingDirection:    tr.direction,
		DistanceMeters:       distance,
		DistanceKnown:        e.classifier.HasReferenceLines(),
		TotalCrossings:       e.state.crossings,
		EscalationAuthorized: authorized,
	}
	e.mu.Unlock()

	// Persistence is best-effort and happens outside the critical
	// section; the log collaborator owns durability, not the engine.
	if e.recorder != nil {
		_ = e.recorder.RecordDecision(rec)
	}

	return rec, nil
}

// RecordEscalation commits a dispatch outcome reported by the caller.
// It shares the observation mutex: quota and cooldown mutations
// serialize against in-flight observations. Dispatch failures only
// withhold quota and cooldown consumption; they are never an engine
// error.
func (e *Engine) RecordEscalation(now time.Time, succeeded bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.throttle.RecordEscalation(now.UTC(), succeeded)
}
