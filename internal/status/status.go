// Package status provides a thread-safe status tracker for the ledring daemon.
// It is written by the ring core's observer and read by HTTP handlers and the
// MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ledring/internal/ring"
)

// Config contains daemon configuration for display.
type Config struct {
	Variant     string
	LEDs        int
	ClockHz     uint32
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Ring          ring.State
	Started       bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the latest core state. It implements ring.Observer and is
// called from the scheduler goroutine after every blink or dispatch step.
func (t *Tracker) Update(s ring.State) {
	t.mu.Lock()
	t.snap.Ring = s
	t.snap.Started = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
