package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/geojson"
	"github.com/bluenet-io/bluenet/internal/model"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.ZoneFile = filepath.Join(dir, "zone.geojson")
	cfg.BoundaryFile = filepath.Join(dir, "boundary.geojson")
	cfg.EventLog = filepath.Join(dir, "events.db")
	if err := geojson.WriteDemoFiles(cfg.ZoneFile, cfg.BoundaryFile); err != nil {
		t.Fatal(err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(func() {
		ts.Close()
		s.StopFeed()
		s.store.Close()
	})
	return s, ts
}

func postGPS(t *testing.T, ts *httptest.Server, lat, lon string) (*http.Response, model.DecisionRecord) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/gps", url.Values{"lat": {lat}, "lon": {lon}})
	if err != nil {
		t.Fatalf("POST /gps: %v", err)
	}
	var rec model.DecisionRecord
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			t.Fatalf("decode decision: %v", err)
		}
	}
	resp.Body.Close()
	return resp, rec
}

func TestGPSIngestInsideThenOutside(t *testing.T) {
	var dispatched atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dispatched.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Alert.URL = hook.URL
		cfg.Alert.Recipient = "+10000000000"
	})

	resp, rec := postGPS(t, ts, "22.5", "69.0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !rec.Inside || rec.BoundaryCrossed {
		t.Errorf("expected quiet inside report, got %+v", rec)
	}

	resp, rec = postGPS(t, ts, "24.05", "67.95")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if rec.Inside || !rec.BoundaryCrossed || rec.CrossingDirection != model.DirectionExited {
		t.Errorf("expected exit crossing, got %+v", rec)
	}
	if !rec.EscalationAuthorized {
		t.Error("expected escalation on exit crossing")
	}
	if dispatched.Load() != 1 {
		t.Errorf("expected 1 webhook dispatch, got %d", dispatched.Load())
	}
}

func TestGPSIngestRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t, nil)

	cases := []struct {
		name string
		vals url.Values
	}{
		{"missing lat", url.Values{"lon": {"69.0"}}},
		{"unparseable lat", url.Values{"lat": {"abc"}, "lon": {"69.0"}}},
		{"lat out of range", url.Values{"lat": {"91"}, "lon": {"69.0"}}},
		{"lon out of range", url.Values{"lat": {"22.5"}, "lon": {"-181.0"}}},
	}
	for _, c := range cases {
		name, vals := c.name, c.vals
		resp, err := http.PostForm(ts.URL+"/gps", vals)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestGPSIngestAcceptsQueryParams(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/gps?latitude=22.5&longitude=69.0&accuracy=4.2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, ts := newTestServer(t, nil)
	postGPS(t, ts, "22.5", "69.0")
	postGPS(t, ts, "24.05", "67.95")

	resp, err := http.Get(ts.URL + "/boundary-status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.SessionID != s.engine.SessionID() {
		t.Errorf("session mismatch: %q", status.SessionID)
	}
	if status.TotalCrossings != 1 || status.Violations != 1 {
		t.Errorf("unexpected counts %+v", status)
	}
	if status.AlertMode != "simulated" {
		t.Errorf("expected simulated alert mode, got %q", status.AlertMode)
	}
	if !status.ReferenceLines {
		t.Error("expected reference lines from demo boundary file")
	}
	if status.Latest == nil || status.Latest.Inside {
		t.Errorf("expected latest outside event, got %+v", status.Latest)
	}
	if !strings.HasPrefix(status.ConfigHash, "sha256:") {
		t.Errorf("expected config hash in status, got %q", status.ConfigHash)
	}
}

func TestFailedDispatchPreservesQuota(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer hook.Close()

	s, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Alert.URL = hook.URL
	})

	_, rec := postGPS(t, ts, "24.05", "67.95")
	if !rec.EscalationAuthorized {
		t.Fatal("expected authorization on first violation")
	}

	// Dispatch failed, so the next observation is authorized again.
	_, rec = postGPS(t, ts, "24.05", "67.95")
	if !rec.EscalationAuthorized {
		t.Error("expected retry authorization after failed dispatch")
	}

	summary, err := s.store.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if summary.Escalations < 2 || summary.SuccessfulEscalations != 0 {
		t.Errorf("unexpected escalation log %+v", summary)
	}
}

func TestFeedStartStop(t *testing.T) {
	s, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/start-boundary-test", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d", resp.StatusCode)
	}
	if !s.FeedRunning() {
		t.Error("expected feed running after start")
	}

	// Starting again conflicts.
	resp, err = http.Post(ts.URL+"/start-boundary-test", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double start: expected 409, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/stop-boundary-test", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: status %d", resp.StatusCode)
	}
	if s.FeedRunning() {
		t.Error("expected feed stopped")
	}
}

func TestFeedControlAcceptsGet(t *testing.T) {
	s, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/start-boundary-test")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET start: expected 200, got %d", resp.StatusCode)
	}
	if !s.FeedRunning() {
		t.Error("expected feed running after GET start")
	}

	resp, err = http.Get(ts.URL + "/stop-boundary-test")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET stop: expected 200, got %d", resp.StatusCode)
	}
	if s.FeedRunning() {
		t.Error("expected feed stopped after GET stop")
	}
}

func TestFeedControlRejectsOtherMethods(t *testing.T) {
	_, ts := newTestServer(t, nil)
	for _, path := range []string{"/start-boundary-test", "/stop-boundary-test", "/test-emergency-call"} {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("DELETE %s: expected 405, got %d", path, resp.StatusCode)
		}
	}
}

func TestAlertChannelTest(t *testing.T) {
	var dispatched atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dispatched.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	s, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Alert.URL = hook.URL
		cfg.Alert.Recipient = "+10000000000"
	})

	resp, err := http.Get(ts.URL + "/test-emergency-call")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["dispatched"] != true {
		t.Errorf("expected dispatched=true, got %v", out)
	}
	if dispatched.Load() != 1 {
		t.Errorf("expected 1 webhook call, got %d", dispatched.Load())
	}

	summary, err := s.store.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if summary.Escalations != 1 || summary.SuccessfulEscalations != 1 {
		t.Errorf("expected test call in escalation log, got %+v", summary)
	}

	// The channel check never consumes quota: a real violation still
	// authorizes its full allotment.
	_, rec := postGPS(t, ts, "24.05", "67.95")
	if !rec.EscalationAuthorized {
		t.Error("expected authorization after channel test")
	}
}

func TestDashboardRenders(t *testing.T) {
	_, ts := newTestServer(t, nil)
	postGPS(t, ts, "22.5", "69.0")

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "BlueNet Boundary Monitor") {
		t.Error("dashboard title missing")
	}
	if !strings.Contains(string(body), "22.5") {
		t.Error("expected last position on dashboard")
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestReloadAlertsSwapsNotifier(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestServer(t, nil)
	if s.alertMode() != "simulated" {
		t.Fatalf("expected simulated mode initially")
	}
	before := s.configHash()

	cfgPath := filepath.Join(dir, "bluenet.yaml")
	content := "alert:\n  url: https://hooks.example/escalate\n  recipient: \"+1999\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.ReloadAlerts(cfgPath); err != nil {
		t.Fatalf("ReloadAlerts: %v", err)
	}
	if s.alertMode() != "webhook" {
		t.Error("expected webhook mode after reload")
	}
	if s.configHash() == before {
		t.Error("expected config hash to change after reload")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recipient != "+1999" {
		t.Errorf("recipient not reloaded: %q", s.recipient)
	}
}
