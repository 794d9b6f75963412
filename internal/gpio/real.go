//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "ledring"

// RealLEDs drives LEDs on actual hardware using the Linux GPIO character device.
type RealLEDs struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewRealLEDs requests each pin as an output, initially off.
func NewRealLEDs(chipName string, pins []int) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealLEDs{chip: chip}
	for _, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request LED pin %d: %w", pin, err)
		}
		r.lines = append(r.lines, line)
	}
	return r, nil
}

// Len returns the number of LEDs.
func (r *RealLEDs) Len() int {
	return len(r.lines)
}

// Set drives LED i high (on) or low (off).
func (r *RealLEDs) Set(i int, on bool) error {
	if i < 0 || i >= len(r.lines) {
		return fmt.Errorf("led index %d out of range", i)
	}
	v := 0
	if on {
		v = 1
	}
	if err := r.lines[i].SetValue(v); err != nil {
		return fmt.Errorf("set LED %d: %w", i, err)
	}
	return nil
}

// Close switches every LED off and releases the lines.
// Lines are reconfigured as inputs before closing so the pins are left in
// their boot default state.
func (r *RealLEDs) Close() error {
	var errs []error

	for i, line := range r.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch off LED %d: %w", i, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED %d: %w", i, err))
		}
	}
	r.lines = nil
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		r.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealButton is an active-low push-button with a pull-up, delivering both
// edges through the kernel's line event stream.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests pin as an edge-detecting input. h is invoked from
// the gpiocdev event goroutine for every edge, so it must not block.
func NewRealButton(chipName string, pin int, h EdgeHandler) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			h(evt.Type == gpiocdev.LineEventRisingEdge)
		}))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// Level returns true while the button is held down.
func (b *RealButton) Level() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v == 1, nil
}

// Close stops edge delivery and releases the line.
func (b *RealButton) Close() error {
	var errs []error

	if b.line != nil {
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
