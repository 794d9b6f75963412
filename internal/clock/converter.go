package clock

import (
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

// MaxDelay is the largest offset from now that can still be ordered
// unambiguously against the current tick.
const MaxDelay Duration = math.MaxInt32

// Converter translates durations to ticks for a fixed counter frequency.
type Converter struct {
	hz uint32
}

// NewConverter creates a Converter for the given counter frequency.
// The frequency must be a whole number of hertz between 1Hz and ~4.29GHz.
func NewConverter(freq physic.Frequency) (Converter, error) {
	hz := int64(freq / physic.Hertz)
	if hz <= 0 || hz > math.MaxUint32 {
		return Converter{}, fmt.Errorf("clock: unsupported frequency %s", freq)
	}
	return Converter{hz: uint32(hz)}, nil
}

// Hz returns the counter frequency in ticks per second.
func (c Converter) Hz() uint32 {
	return c.hz
}

// ToTicks converts d to ticks as seconds*hz + millis*(hz/1000).
// Sub-millisecond remainders are dropped.
func (c Converter) ToTicks(d time.Duration) Duration {
	if d <= 0 {
		return 0
	}
	secs := uint64(d / time.Second)
	ms := uint64((d % time.Second) / time.Millisecond)
	return Duration(secs*uint64(c.hz) + ms*uint64(c.hz/1000))
}

// ToDuration converts a tick count back to wall-clock time.
func (c Converter) ToDuration(t Duration) time.Duration {
	return time.Duration(uint64(t) * uint64(time.Second) / uint64(c.hz))
}

// Fits reports whether d can be scheduled as an offset from now.
func (c Converter) Fits(d time.Duration) bool {
	if d < 0 {
		return false
	}
	secs := uint64(d / time.Second)
	ms := uint64((d % time.Second) / time.Millisecond)
	return secs*uint64(c.hz)+ms*uint64(c.hz/1000) <= uint64(MaxDelay)
}
