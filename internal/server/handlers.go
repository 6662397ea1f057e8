package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bluenet-io/bluenet/internal/alert"
	"github.com/bluenet-io/bluenet/internal/eventlog"
	"github.com/bluenet-io/bluenet/internal/model"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/gps", s.handleGPS)
	mux.HandleFunc("/boundary-status", s.handleStatus)
	mux.HandleFunc("/start-boundary-test", s.handleStartFeed)
	mux.HandleFunc("/stop-boundary-test", s.handleStopFeed)
	mux.HandleFunc("/test-emergency-call", s.handleTestAlert)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// handleGPS ingests one position report and returns the decision.
// Accepts query or form parameters: lat, lon, and optional accuracy.
func (s *Server) handleGPS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lat, err := parseCoord(r, "lat", "latitude")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := parseCoord(r, "lon", "longitude")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos := model.Position{Latitude: lat, Longitude: lon}
	if raw := r.FormValue("accuracy"); raw != "" {
		acc, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid accuracy %q", raw), http.StatusBadRequest)
			return
		}
		pos.Accuracy = acc
	}

	rec, err := s.Observe(pos)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func parseCoord(r *http.Request, name, alias string) (float64, error) {
	raw := r.FormValue(name)
	if raw == "" {
		raw = r.FormValue(alias)
	}
	if raw == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

type statusResponse struct {
	SessionID             string                `json:"session_id"`
	ReferenceLines        bool                  `json:"reference_lines"`
	Latest                *model.DecisionRecord `json:"latest,omitempty"`
	TotalCrossings        int                   `json:"total_crossings"`
	Violations            int                   `json:"violations"`
	Escalations           int                   `json:"escalations"`
	SuccessfulEscalations int                   `json:"successful_escalations"`
	EscalationSuccessRate int                   `json:"escalation_success_rate"`
	FeedRunning           bool                  `json:"feed_running"`
	AlertMode             string                `json:"alert_mode"`
	ConfigHash            string                `json:"config_hash"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summarize()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		SessionID:             s.engine.SessionID(),
		ReferenceLines:        s.region.HasReferenceLines(),
		Latest:                summary.Latest,
		TotalCrossings:        summary.TotalCrossings,
		Violations:            summary.Violations,
		Escalations:           summary.Escalations,
		SuccessfulEscalations: summary.SuccessfulEscalations,
		EscalationSuccessRate: summary.SuccessRate(),
		FeedRunning:           s.FeedRunning(),
		AlertMode:             s.alertMode(),
		ConfigHash:            s.configHash(),
	})
}

func (s *Server) configHash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfgHash
}

func (s *Server) alertMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.notifier.(*alert.Simulator); ok {
		return "simulated"
	}
	return "webhook"
}

// Feed controls accept GET as well as POST so the dashboard buttons
// can invoke them with a plain fetch.
func (s *Server) handleStartFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.StartFeed(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStopFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.StopFeed()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// handleTestAlert exercises the alert channel without touching the
// engine: a synthetic violation is dispatched to the configured
// notifier and the outcome is logged. Quota and cooldown are not
// consumed; this is a channel check, not an escalation.
func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	notifier, recipient := s.notifier, s.recipient
	s.mu.RUnlock()

	rec := model.DecisionRecord{
		SessionID:         s.engine.SessionID(),
		Timestamp:         time.Now().UTC(),
		Inside:            false,
		CrossingDirection: model.DirectionNone,
	}
	ev := alert.NewEvent(rec, recipient)
	ev.Message = "TEST ALERT (no violation)\n" + ev.Message

	ctx, cancel := context.WithTimeout(r.Context(), dispatchTimeout)
	defer cancel()
	err := notifier.Dispatch(ctx, ev)

	if lerr := s.store.RecordEscalation(eventlog.Escalation{
		Timestamp: time.Now().UTC(),
		SessionID: rec.SessionID,
		Recipient: recipient,
		Message:   ev.Message,
		Succeeded: err == nil,
	}); lerr != nil {
		fmt.Fprintf(os.Stderr, "record test alert: %v\n", lerr)
	}

	resp := map[string]any{"dispatched": err == nil}
	if err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}
