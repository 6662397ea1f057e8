package eventlog

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bluenet-io/bluenet/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(inside, crossed bool) model.DecisionRecord {
	dir := model.DirectionNone
	if crossed {
		dir = model.DirectionExited
		if inside {
			dir = model.DirectionEntered
		}
	}
	return model.DecisionRecord{
		SessionID:         "ab12cd34",
		Timestamp:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Latitude:          24.05,
		Longitude:         67.95,
		Inside:            inside,
		BoundaryCrossed:   crossed,
		CrossingDirection: dir,
		DistanceMeters:    512.5,
		DistanceKnown:     true,
		TotalCrossings:    1,
	}
}

func TestRecordAndReadBack(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordDecision(sampleRecord(false, true)); err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}

	recs, err := s.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(recs))
	}
	got := recs[0]
	if got.SessionID != "ab12cd34" || got.Inside || !got.BoundaryCrossed {
		t.Errorf("unexpected record %+v", got)
	}
	if got.CrossingDirection != model.DirectionExited {
		t.Errorf("expected exited, got %s", got.CrossingDirection)
	}
	if got.DistanceMeters != 512.5 || !got.DistanceKnown {
		t.Errorf("unexpected distance %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", got.Timestamp)
	}
}

func TestRecentEventsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		rec := sampleRecord(true, false)
		rec.TotalCrossings = uint64(i)
		if err := s.RecordDecision(rec); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := s.RecentEvents(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3, got %d", len(recs))
	}
	if recs[0].TotalCrossings != 4 {
		t.Errorf("expected newest first, got %d", recs[0].TotalCrossings)
	}
}

func TestSummarize(t *testing.T) {
	s := openTestStore(t)

	s.RecordDecision(sampleRecord(true, false))
	s.RecordDecision(sampleRecord(false, true))
	s.RecordDecision(sampleRecord(false, false))

	s.RecordEscalation(Escalation{
		Timestamp: time.Now(), SessionID: "ab12cd34",
		Recipient: "https://hooks.example/alert", Succeeded: true,
	})
	s.RecordEscalation(Escalation{
		Timestamp: time.Now(), SessionID: "ab12cd34", Succeeded: false,
	})

	sum, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalCrossings != 1 {
		t.Errorf("expected 1 crossing, got %d", sum.TotalCrossings)
	}
	if sum.Violations != 2 {
		t.Errorf("expected 2 violations, got %d", sum.Violations)
	}
	if sum.Escalations != 2 || sum.SuccessfulEscalations != 1 {
		t.Errorf("unexpected escalation counts %+v", sum)
	}
	if sum.SuccessRate() != 50 {
		t.Errorf("expected 50%% success, got %d", sum.SuccessRate())
	}
	if sum.Latest == nil || sum.Latest.Inside {
		t.Errorf("unexpected latest %+v", sum.Latest)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Latest != nil {
		t.Error("expected nil latest on empty log")
	}
	if sum.SuccessRate() != 100 {
		t.Errorf("expected 100%% with no escalations, got %d", sum.SuccessRate())
	}
}

func TestConcurrentWrites(t *testing.T) {
	s := openTestStore(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if err := s.RecordDecision(sampleRecord(i%2 == 0, false)); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	recs, err := s.RecentEvents(1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 200 {
		t.Errorf("expected 200 events, got %d", len(recs))
	}
}
