//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealLEDs is not available on non-Linux platforms.
type RealLEDs struct{}

// NewRealLEDs returns an error on non-Linux platforms.
func NewRealLEDs(chipName string, pins []int) (*RealLEDs, error) {
	return nil, errUnsupported
}

// Len returns 0 on non-Linux platforms.
func (r *RealLEDs) Len() int { return 0 }

// Set is not implemented on non-Linux platforms.
func (r *RealLEDs) Set(i int, on bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (r *RealLEDs) Close() error { return nil }

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(chipName string, pin int, h EdgeHandler) (*RealButton, error) {
	return nil, errUnsupported
}

// Level is not implemented on non-Linux platforms.
func (b *RealButton) Level() (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (b *RealButton) Close() error { return nil }
