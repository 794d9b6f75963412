package gesture

import (
	"sync"

	"github.com/sweeney/ledring/internal/clock"
)

// Detector timestamps button edges and classifies gestures.
//
// Edge runs on the interrupt path and CheckHold runs as a deferred task.
// Both are phases of the same interrupt-priority work and are serialized by
// mu, which also keeps the Queue single-producer.
type Detector struct {
	cfg   Config
	queue *Queue

	mu          sync.Mutex
	lastRising  clock.Tick
	lastFalling clock.Tick
	lastEdge    clock.Tick
	// holdPending is cleared once the current press has reported a Hold.
	holdPending bool
}

// NewDetector creates a detector that pushes into q. All timestamps start at
// start, so the first press is judged against startup as the last release.
func NewDetector(cfg Config, q *Queue, start clock.Tick) *Detector {
	return &Detector{
		cfg:         cfg,
		queue:       q,
		lastRising:  start,
		lastFalling: start,
		lastEdge:    start,
	}
}

// Edge records a button transition observed at now. A rising edge (press)
// is classified immediately and queued. It returns None for falling edges and
// for edges rejected as contact bounce. If the event was classified but the
// queue was full, the event is returned together with ErrQueueFull.
func (d *Detector) Edge(rising bool, now clock.Tick) (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Since(d.lastEdge) < d.cfg.Debounce {
		return None, nil
	}
	d.lastEdge = now

	if !rising {
		d.lastFalling = now
		return None, nil
	}

	d.lastRising = now
	d.holdPending = true

	ev := Click
	if d.cfg.DoubleClickEnabled && now.Since(d.lastFalling) < d.cfg.DoubleClick {
		ev = DoubleClick
	}
	if !d.queue.Push(ev) {
		return ev, ErrQueueFull
	}
	return ev, nil
}

// CheckHold is the deferred re-check armed by a press. It reports Hold when
// the button has stayed down for the hold window since the last press, and
// only once per press. A release before the window elapses makes it a no-op.
func (d *Detector) CheckHold(now clock.Tick) (Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cfg.HoldEnabled || !d.holdPending {
		return None, nil
	}
	if !d.lastRising.After(d.lastFalling) {
		return None, nil
	}
	if now.Since(d.lastRising) < d.cfg.Hold {
		return None, nil
	}

	d.holdPending = false
	if !d.queue.Push(Hold) {
		return Hold, ErrQueueFull
	}
	return Hold, nil
}

// Timestamps returns the last accepted rising and falling edge ticks.
func (d *Detector) Timestamps() (rising, falling clock.Tick) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRising, d.lastFalling
}

// HoldEnabled reports whether presses need a deferred hold check.
func (d *Detector) HoldEnabled() bool {
	return d.cfg.HoldEnabled
}
