// Package gpio provides the LED ring outputs and the push-button input.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// LEDs drives a fixed ring of on/off outputs.
type LEDs interface {
	// Len returns the number of LEDs in the ring.
	Len() int

	// Set drives LED i to the logical on/off state.
	Set(i int, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// EdgeHandler is called on every button transition. rising is true when the
// button is pressed (logical level goes high).
type EdgeHandler func(rising bool)

// Button is a single push-button input with edge delivery.
type Button interface {
	// Level returns the current logical level: true = pressed.
	Level() (bool, error)

	// Close releases GPIO resources and stops edge delivery.
	Close() error
}

// Default line offsets (BCM numbering on a Raspberry Pi).
var DefaultLEDPins = []int{5, 6, 13, 19, 26, 16, 20, 21}

const (
	DefaultButtonPin = 17
	DefaultChip      = "gpiochip0"
)
