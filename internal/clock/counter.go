package clock

import (
	"sync/atomic"
	"time"
)

// HostCounter emulates a free-running hardware counter using Go's monotonic
// clock. It wraps exactly like a 32-bit cycle counter at the converter's rate.
type HostCounter struct {
	hz     uint64
	origin Tick
	start  time.Time
}

// NewHostCounter starts a counter at origin, ticking at conv's frequency.
func NewHostCounter(conv Converter, origin Tick) *HostCounter {
	return &HostCounter{
		hz:     uint64(conv.hz),
		origin: origin,
		start:  time.Now(),
	}
}

// Now returns the current tick.
func (h *HostCounter) Now() Tick {
	d := time.Since(h.start)
	secs := uint64(d / time.Second)
	rem := uint64(d % time.Second)
	ticks := secs*h.hz + rem*h.hz/uint64(time.Second)
	return h.origin + Tick(uint32(ticks))
}

// Fake is a manually driven counter for tests. Safe for concurrent use.
type Fake struct {
	t atomic.Uint32
}

// NewFake returns a Fake counter reading start.
func NewFake(start Tick) *Fake {
	f := &Fake{}
	f.t.Store(uint32(start))
	return f
}

// Now returns the current tick.
func (f *Fake) Now() Tick {
	return Tick(f.t.Load())
}

// Set moves the counter to t.
func (f *Fake) Set(t Tick) {
	f.t.Store(uint32(t))
}

// Advance moves the counter forward by d and returns the new value.
func (f *Fake) Advance(d Duration) Tick {
	return Tick(f.t.Add(uint32(d)))
}
