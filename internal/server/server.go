// Package server exposes the boundary engine over HTTP: a GPS ingest
// endpoint, a status API, a small dashboard, and controls for the
// synthetic test feed. One server owns one engine session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bluenet-io/bluenet/internal/alert"
	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/engine"
	"github.com/bluenet-io/bluenet/internal/eventlog"
	"github.com/bluenet-io/bluenet/internal/feed"
	"github.com/bluenet-io/bluenet/internal/geo"
	"github.com/bluenet-io/bluenet/internal/geojson"
	"github.com/bluenet-io/bluenet/internal/model"
)

const dispatchTimeout = 20 * time.Second

// Server wires region geometry, the engine, the event log, and the
// alert notifier behind an HTTP surface.
type Server struct {
	cfg    *config.Config
	region *geo.Region
	store  *eventlog.Store
	engine *engine.Engine

	mu        sync.RWMutex // guards reloadable state
	notifier  alert.Notifier
	recipient string
	cfgHash   string

	feedMu     sync.Mutex
	feedCancel context.CancelFunc
	feedDone   chan struct{}

	httpServer *http.Server
}

// New loads geometry and the event log and composes a ready server.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	region, err := geojson.LoadRegion(cfg.ZoneFile, cfg.BoundaryFile)
	if err != nil {
		return nil, fmt.Errorf("server: load region: %w", err)
	}

	store, err := eventlog.Open(cfg.EventLog)
	if err != nil {
		return nil, fmt.Errorf("server: open event log: %w", err)
	}

	eng, err := engine.New(region, engine.Config{
		Cooldown:                 cfg.Escalation.Cooldown(),
		MaxEscalationsPerEpisode: cfg.Escalation.MaxPerEpisode,
		StartInside:              cfg.Escalation.StartInside,
	}, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		region:    region,
		store:     store,
		engine:    eng,
		notifier:  alert.NewNotifier(cfg.Alert),
		recipient: cfg.Alert.Recipient,
		cfgHash:   cfg.Hash(),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ListenPort),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Serve starts the HTTP listener and, when configured, the synthetic
// feed. Blocks until Shutdown.
func (s *Server) Serve() error {
	if s.cfg.Feed.Autostart {
		if err := s.StartFeed(); err != nil {
			return err
		}
	}
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown stops the feed, drains the HTTP server, and closes the
// event log.
func (s *Server) Shutdown(ctx context.Context) error {
	s.StopFeed()
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// Observe runs one position through the engine and, when the decision
// authorizes an escalation, dispatches the alert and commits the
// outcome. Both the ingest endpoint and the feed runner come through
// here, so live and synthetic reports contend on the same engine.
func (s *Server) Observe(pos model.Position) (model.DecisionRecord, error) {
	rec, err := s.engine.Observe(pos)
	if err != nil {
		return model.DecisionRecord{}, err
	}
	if rec.EscalationAuthorized {
		s.escalate(rec)
	}
	return rec, nil
}

func (s *Server) escalate(rec model.DecisionRecord) {
	s.mu.RLock()
	notifier, recipient := s.notifier, s.recipient
	s.mu.RUnlock()

	ev := alert.NewEvent(rec, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	err := notifier.Dispatch(ctx, ev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "escalation dispatch failed: %v\n", err)
	}

	// A failed dispatch leaves quota and cooldown untouched so the next
	// observation may retry.
	s.engine.RecordEscalation(time.Now(), err == nil)

	if lerr := s.store.RecordEscalation(eventlog.Escalation{
		Timestamp: time.Now().UTC(),
		SessionID: rec.SessionID,
		Recipient: recipient,
		Message:   ev.Message,
		Succeeded: err == nil,
	}); lerr != nil {
		fmt.Fprintf(os.Stderr, "record escalation: %v\n", lerr)
	}
}

// ReloadAlerts re-reads the configuration file and swaps the alert
// destination. Geometry, engine policy, and the listen address stay as
// started; those require a restart.
func (s *Server) ReloadAlerts(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.notifier = alert.NewNotifier(cfg.Alert)
	s.recipient = cfg.Alert.Recipient
	s.cfgHash = cfg.Hash()
	s.mu.Unlock()
	return nil
}

// StartFeed launches the synthetic position feed. Returns an error if
// it is already running or the scenario cannot be loaded.
func (s *Server) StartFeed() error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if s.feedCancel != nil {
		return fmt.Errorf("server: feed already running")
	}

	scenario := feed.Builtin()
	if s.cfg.Feed.ScenarioPath != "" {
		loaded, err := feed.LoadScenario(s.cfg.Feed.ScenarioPath)
		if err != nil {
			return err
		}
		scenario = loaded
	}

	runner, err := feed.NewRunner(scenario, s.cfg.Feed.Interval(), s, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.feedCancel = cancel
	s.feedDone = done

	go func() {
		defer close(done)
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "feed stopped: %v\n", err)
		}
	}()
	return nil
}

// StopFeed cancels a running feed and waits for it to exit. No-op when
// the feed is not running.
func (s *Server) StopFeed() {
	s.feedMu.Lock()
	cancel, done := s.feedCancel, s.feedDone
	s.feedCancel, s.feedDone = nil, nil
	s.feedMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// FeedRunning reports whether the synthetic feed is active.
func (s *Server) FeedRunning() bool {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	return s.feedCancel != nil
}
