package ring

import (
	"fmt"
	"time"

	"github.com/sweeney/ledring/internal/clock"
	"github.com/sweeney/ledring/internal/gesture"
)

// Variant names a firmware configuration.
type Variant string

const (
	// VariantBlink blinks a single LED and ignores the button.
	VariantBlink Variant = "blink"
	// VariantToggle advances around the ring on every press.
	VariantToggle Variant = "toggle"
	// VariantFull adds double-click direction reversal and the hold flash.
	VariantFull Variant = "full"
)

// Config holds the fixed timing and feature set of a variant.
type Config struct {
	Variant Variant
	// LEDs is the ring length.
	LEDs int

	OnTime          time.Duration
	OffTime         time.Duration
	HoldTime        time.Duration
	DoubleClickTime time.Duration
	FlashTime       time.Duration
	DebounceTime    time.Duration

	Button      bool
	DoubleClick bool
	Hold        bool

	// Heartbeat is the diagnostic heartbeat interval (0 disables).
	Heartbeat time.Duration
}

// ConfigFor returns the fixed configuration of a variant.
func ConfigFor(v Variant) (Config, error) {
	switch v {
	case VariantFull:
		return Config{
			Variant:         v,
			LEDs:            8,
			OnTime:          250 * time.Millisecond,
			OffTime:         250 * time.Millisecond,
			HoldTime:        1000 * time.Millisecond,
			DoubleClickTime: 700 * time.Millisecond,
			FlashTime:       300 * time.Millisecond,
			DebounceTime:    50 * time.Millisecond,
			Button:          true,
			DoubleClick:     true,
			Hold:            true,
		}, nil
	case VariantToggle:
		return Config{
			Variant:         v,
			LEDs:            8,
			OnTime:          250 * time.Millisecond,
			OffTime:         250 * time.Millisecond,
			HoldTime:        1000 * time.Millisecond,
			DoubleClickTime: 700 * time.Millisecond,
			FlashTime:       300 * time.Millisecond,
			DebounceTime:    50 * time.Millisecond,
			Button:          true,
		}, nil
	case VariantBlink:
		return Config{
			Variant:  v,
			LEDs:     1,
			OnTime:   125 * time.Millisecond,
			OffTime:  250 * time.Millisecond,
			HoldTime: 1000 * time.Millisecond,
			// Unused without a button, kept non-zero for Validate.
			DoubleClickTime: 700 * time.Millisecond,
			FlashTime:       300 * time.Millisecond,
			DebounceTime:    50 * time.Millisecond,
		}, nil
	}
	return Config{}, fmt.Errorf("ring: unknown variant %q", v)
}

// Validate checks that every window can be scheduled at conv's frequency.
func (c Config) Validate(conv clock.Converter) error {
	if c.LEDs < 1 {
		return fmt.Errorf("ring: need at least one LED, got %d", c.LEDs)
	}
	windows := []struct {
		name string
		d    time.Duration
	}{
		{"on time", c.OnTime},
		{"off time", c.OffTime},
		{"hold time", c.HoldTime},
		{"double-click time", c.DoubleClickTime},
		{"flash time", c.FlashTime},
		{"debounce time", c.DebounceTime},
		{"heartbeat", c.Heartbeat},
	}
	for _, w := range windows {
		if w.d < 0 || !conv.Fits(w.d) {
			return fmt.Errorf("ring: %s %v does not fit the %dHz counter horizon of %v",
				w.name, w.d, conv.Hz(), conv.ToDuration(clock.MaxDelay))
		}
	}
	if c.OnTime == 0 || c.OffTime == 0 || c.FlashTime == 0 {
		return fmt.Errorf("ring: blink and flash periods must be non-zero")
	}
	return nil
}

func (c Config) gestureConfig(conv clock.Converter) gesture.Config {
	return gesture.Config{
		Debounce:           conv.ToTicks(c.DebounceTime),
		DoubleClick:        conv.ToTicks(c.DoubleClickTime),
		Hold:               conv.ToTicks(c.HoldTime),
		DoubleClickEnabled: c.DoubleClick,
		HoldEnabled:        c.Hold,
	}
}
