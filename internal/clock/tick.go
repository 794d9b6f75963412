// Package clock provides wraparound-safe tick arithmetic over a free-running
// 32-bit counter and conversion between wall-clock durations and ticks.
//
// Ticks must never be compared with < or >. The counter overflows every
// 2^32 ticks, so ordering is only meaningful for values less than 2^31 ticks
// apart, using the signed difference.
package clock

// Tick is a value of the monotonic counter.
type Tick uint32

// Duration is a number of ticks.
type Duration uint32

// Since returns the ticks elapsed from earlier to t.
func (t Tick) Since(earlier Tick) Duration {
	return Duration(t - earlier)
}

// Add returns the tick d ticks after t.
func (t Tick) Add(d Duration) Tick {
	return t + Tick(d)
}

// Reached reports whether t is at or past deadline.
func (t Tick) Reached(deadline Tick) bool {
	return int32(t-deadline) >= 0
}

// After reports whether t is strictly later than u.
func (t Tick) After(u Tick) bool {
	return int32(t-u) > 0
}

// Counter reads the current value of a monotonic tick counter.
type Counter interface {
	Now() Tick
}
