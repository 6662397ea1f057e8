package engine

import "time"

// Throttle gates how often a sustained violation may trigger an
// external escalation: at most maxPerEpisode successful escalations per
// contiguous outside episode, never two closer together than the
// cooldown.
//
// The protocol is two-phase by design: MayEscalate is a pure check, and
// the caller commits the dispatch outcome afterwards with
// RecordEscalation. A dispatch that fails, or that is still in flight,
// consumes neither quota nor cooldown.
//
// Throttle is not safe for concurrent use on its own; the engine
// serializes all access under its observation mutex.
type Throttle struct {
	cooldown      time.Duration
	maxPerEpisode int

	lastEscalation time.Time // zero until the first successful dispatch
	sinceEpisode   int       // successful escalations this episode
}

// NewThrottle builds a throttle with the given cooldown and per-episode
// quota. Both come from the caller's configuration; there are no hidden
// defaults here.
func NewThrottle(cooldown time.Duration, maxPerEpisode int) *Throttle {
	return &Throttle{cooldown: cooldown, maxPerEpisode: maxPerEpisode}
}

// MayEscalate reports whether an escalation attempt is authorized at
// the given time. It mutates nothing.
func (t *Throttle) MayEscalate(now time.Time) bool {
	if t.sinceEpisode >= t.maxPerEpisode {
		return false
	}
	if !t.lastEscalation.IsZero() && now.Sub(t.lastEscalation) < t.cooldown {
		return false
	}
	return true
}

// RecordEscalation commits the outcome of a dispatch attempt. Only a
// successful dispatch consumes quota and starts the cooldown window; a
// failure leaves the throttle exactly as it was, so the next
// observation may authorize a retry.
func (t *Throttle) RecordEscalation(now time.Time, succeeded bool) {
	if !succeeded {
		return
	}
	t.sinceEpisode++
	t.lastEscalation = now
}

// ResetEpisode zeroes the per-episode counter. Called on every
// containment transition: each new episode, inside or outside, gets a
// fresh quota. The cooldown timestamp survives the reset so successful
// escalations stay spaced across episodes.
func (t *Throttle) ResetEpisode() {
	t.sinceEpisode = 0
}

// EpisodeCount returns the successful escalations committed in the
// current episode.
func (t *Throttle) EpisodeCount() int {
	return t.sinceEpisode
}
