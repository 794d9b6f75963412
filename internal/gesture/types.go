// Package gesture turns raw button edges into Click, DoubleClick and Hold
// events and hands them to task context through a bounded lock-free queue.
// This package has NO hardware dependencies. Time is always passed in as
// clock ticks.
package gesture

import (
	"errors"

	"github.com/sweeney/ledring/internal/clock"
)

// Event is a classified button gesture.
type Event uint8

const (
	None Event = iota
	Click
	DoubleClick
	Hold
)

func (e Event) String() string {
	switch e {
	case Click:
		return "CLICK"
	case DoubleClick:
		return "DOUBLE_CLICK"
	case Hold:
		return "HOLD"
	default:
		return "NONE"
	}
}

// ErrQueueFull is returned when a classified event could not be queued.
var ErrQueueFull = errors.New("gesture: event queue full")

// Config holds the timing windows, already converted to ticks.
type Config struct {
	// Debounce rejects edges closer than this to the previous accepted edge.
	Debounce clock.Duration
	// DoubleClick is the maximum release-to-press gap for a DoubleClick.
	DoubleClick clock.Duration
	// Hold is how long the button must stay down to report a Hold.
	Hold clock.Duration

	// Feature switches. With both off every press is a plain Click.
	DoubleClickEnabled bool
	HoldEnabled        bool
}
