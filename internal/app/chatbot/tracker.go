package chatbot

import (
	"context"
	"time"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Beacon posts analytics events. *backend.Client satisfies it.
type Beacon interface {
	Track(ctx context.Context, ev backend.TrackEvent) error
}

// Tracker reports chatbot steps in the background. Failures are logged at
// debug level and otherwise ignored. A nil *Tracker is a no-op.
type Tracker struct {
	beacon  Beacon
	timeout time.Duration
	log     *zap.Logger
	wg      conc.WaitGroup
}

// NewTracker returns a Tracker, or nil when beacon is nil.
func NewTracker(beacon Beacon, timeout time.Duration, logger *zap.Logger) *Tracker {
	if beacon == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Tracker{beacon: beacon, timeout: timeout, log: logger}
}

// Track sends one event without blocking the caller.
func (t *Tracker) Track(sessionID, step, value string) {
	if t == nil {
		return
	}
	ev := backend.TrackEvent{SessionID: sessionID, Step: step, Value: value}
	t.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.beacon.Track(ctx, ev); err != nil {
			t.log.Debug("chatbot track failed", zap.String("step", step), zap.Error(err))
		}
	})
}

// Wait blocks until sent events have finished.
func (t *Tracker) Wait() {
	if t != nil {
		t.wg.Wait()
	}
}
