// Package analytics records product events to the local event log. Tracking
// is strictly best-effort: nothing here ever blocks or fails the calling
// flow, and nothing ever leaves the device.
package analytics

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lexi/internal/logging"
	"lexi/internal/profile"
)

// Tracker is injected into controllers. The default in tests is Noop.
type Tracker interface {
	// TrackStep records that an onboarding step was completed.
	TrackStep(step string, elapsedSeconds float64)
	// TrackCompletion records the end of the onboarding flow.
	TrackCompletion(p *profile.Profile)
	// TrackSave records a profile persistence write.
	TrackSave(p *profile.Profile)
}

// Noop drops all events.
type Noop struct{}

func (Noop) TrackStep(string, float64)        {}
func (Noop) TrackCompletion(*profile.Profile) {}
func (Noop) TrackSave(*profile.Profile)       {}

// EventSink is the slice of the store the tracker needs.
type EventSink interface {
	RecordEvent(id, kind, step, payload string) error
}

// StoreTracker writes events to the local store through a bounded pool of
// background workers. Submission never blocks; when the pool is saturated
// the event is dropped.
type StoreTracker struct {
	sink   EventSink
	eg     errgroup.Group
	mu     sync.Mutex
	closed bool
}

// NewStoreTracker returns a tracker writing to sink.
func NewStoreTracker(sink EventSink) *StoreTracker {
	t := &StoreTracker{sink: sink}
	t.eg.SetLimit(4)
	return t
}

// Close waits for in-flight writes. Events submitted after Close are dropped.
func (t *StoreTracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	_ = t.eg.Wait()
}

func (t *StoreTracker) submit(kind, step, payload string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	id := uuid.NewString()
	// TryGo keeps submission non-blocking: with the pool saturated the
	// event is dropped rather than stalling the caller.
	started := t.eg.TryGo(func() error {
		if err := t.sink.RecordEvent(id, kind, step, payload); err != nil {
			logging.AnalyticsDebug("dropped event %s: %v", kind, err)
		}
		return nil
	})
	t.mu.Unlock()
	if !started {
		logging.AnalyticsDebug("dropped event %s: worker pool full", kind)
	}
}

// TrackStep records a completed step with its elapsed time.
func (t *StoreTracker) TrackStep(step string, elapsedSeconds float64) {
	payload, _ := json.Marshal(map[string]float64{"elapsed_seconds": elapsedSeconds})
	t.submit("onboarding_step", step, string(payload))
	logging.AnalyticsDebug("step event: %s (%.2fs)", step, elapsedSeconds)
}

// TrackCompletion records the end-of-flow event with a profile summary.
func (t *StoreTracker) TrackCompletion(p *profile.Profile) {
	t.submit("onboarding_completed", "", profileSummary(p))
	logging.Analytics("completion event recorded")
}

// TrackSave records a persistence write.
func (t *StoreTracker) TrackSave(p *profile.Profile) {
	t.submit("profile_saved", "", profileSummary(p))
}

// profileSummary carries counts, never answer content. The event log stays
// useful for debugging without duplicating the profile row.
func profileSummary(p *profile.Profile) string {
	summary := map[string]interface{}{
		"completion":  p.CompletionFraction(),
		"goal_count":  len(p.Goals),
		"topic_count": len(p.Topics),
		"has_name":    p.DisplayName != "",
		"complete":    p.IsComplete(),
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return "{}"
	}
	return string(b)
}
