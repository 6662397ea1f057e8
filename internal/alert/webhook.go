package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	requestTimeout = 5 * time.Second
	maxAttempts    = 3
)

// Webhook posts escalation events to a JSON endpoint, retrying on 5xx
// with linear backoff. 4xx responses are terminal: the endpoint
// understood and refused.
type Webhook struct {
	cfg    Config
	client *http.Client
}

// NewWebhook builds a webhook notifier for the configured endpoint.
func NewWebhook(cfg Config) *Webhook {
	return &Webhook{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Dispatch sends the event. The error result is what the caller feeds
// back to the engine as the dispatch outcome.
func (w *Webhook) Dispatch(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("alert: marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("alert: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range w.cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := w.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("alert: webhook rejected: HTTP %d", resp.StatusCode)
		}
		// 5xx — retry.
		lastErr = fmt.Errorf("alert: webhook server error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("alert: webhook failed after %d attempts: %w", maxAttempts, lastErr)
}
