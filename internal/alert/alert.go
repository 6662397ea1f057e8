// Package alert dispatches emergency escalations for boundary
// violations to an external webhook endpoint. The engine only decides
// whether an escalation is authorized; this package owns the transport,
// and the caller reports the outcome back to the engine's throttle.
package alert

import (
	"context"
	"fmt"
	"os"

	"github.com/bluenet-io/bluenet/internal/model"
)

// Config defines the escalation destination. An empty URL selects
// simulation mode: dispatches are printed instead of sent and report
// success, mirroring how the source system ran without its telephony
// credentials.
type Config struct {
	URL       string            `yaml:"url"`
	Recipient string            `yaml:"recipient"`
	Headers   map[string]string `yaml:"headers"`
}

// Event is the payload delivered for one escalation.
type Event struct {
	Timestamp      string  `json:"timestamp"`
	SessionID      string  `json:"session_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distance_meters"`
	DistanceKnown  bool    `json:"distance_known"`
	TotalCrossings uint64  `json:"total_crossings"`
	Recipient      string  `json:"recipient,omitempty"`
	Message        string  `json:"message"`
}

// NewEvent builds the escalation payload for a violation decision.
func NewEvent(rec model.DecisionRecord, recipient string) Event {
	return Event{
		Timestamp:      rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		SessionID:      rec.SessionID,
		Latitude:       rec.Latitude,
		Longitude:      rec.Longitude,
		DistanceMeters: rec.DistanceMeters,
		DistanceKnown:  rec.DistanceKnown,
		TotalCrossings: rec.TotalCrossings,
		Recipient:      recipient,
		Message:        FormatMessage(rec),
	}
}

// Notifier sends one escalation. Dispatch blocks until the attempt
// resolves; it is always called outside the engine's critical section.
type Notifier interface {
	Dispatch(ctx context.Context, ev Event) error
}

// NewNotifier selects the webhook transport when a URL is configured,
// otherwise the simulator.
func NewNotifier(cfg Config) Notifier {
	if cfg.URL == "" {
		return &Simulator{Out: os.Stderr}
	}
	return NewWebhook(cfg)
}

// Simulator is the no-transport notifier: it writes the alert message
// to Out and reports success.
type Simulator struct {
	Out interface{ Write([]byte) (int, error) }
}

// Dispatch prints the simulated escalation.
func (s *Simulator) Dispatch(_ context.Context, ev Event) error {
	fmt.Fprintf(s.Out, "escalation (simulated) session=%s to=%s\n%s\n",
		ev.SessionID, ev.Recipient, ev.Message)
	return nil
}
