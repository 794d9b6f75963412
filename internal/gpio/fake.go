package gpio

import (
	"fmt"
	"sync"
)

// FakeLEDs is a test double that records LED writes.
type FakeLEDs struct {
	mu sync.Mutex

	// States holds the last value written to each LED.
	States []bool

	// Writes counts Set calls per LED.
	Writes []int

	// SetError, if set, will be returned by Set (the state is still recorded).
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLEDs creates a ring of n fake LEDs, all off.
func NewFakeLEDs(n int) *FakeLEDs {
	return &FakeLEDs{
		States: make([]bool, n),
		Writes: make([]int, n),
	}
}

// Len returns the number of LEDs.
func (f *FakeLEDs) Len() int {
	return len(f.States)
}

// Set records the write.
func (f *FakeLEDs) Set(i int, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i < 0 || i >= len(f.States) {
		return fmt.Errorf("led index %d out of range", i)
	}
	f.States[i] = on
	f.Writes[i]++
	return f.SetError
}

// Lit returns the indices of LEDs currently on.
func (f *FakeLEDs) Lit() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var lit []int
	for i, on := range f.States {
		if on {
			lit = append(lit, i)
		}
	}
	return lit
}

// WriteCount returns the number of writes to LED i.
func (f *FakeLEDs) WriteCount(i int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Writes[i]
}

// Close marks the LEDs as closed.
func (f *FakeLEDs) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// FakeButton is a test double that delivers scripted edges.
type FakeButton struct {
	mu      sync.Mutex
	handler EdgeHandler
	pressed bool

	// LevelError, if set, will be returned by Level().
	LevelError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeButton creates a released button delivering edges to h.
func NewFakeButton(h EdgeHandler) *FakeButton {
	return &FakeButton{handler: h}
}

// Press drives the level high and delivers a rising edge.
func (f *FakeButton) Press() {
	f.set(true)
}

// Release drives the level low and delivers a falling edge.
func (f *FakeButton) Release() {
	f.set(false)
}

func (f *FakeButton) set(pressed bool) {
	f.mu.Lock()
	f.pressed = pressed
	h := f.handler
	closed := f.Closed
	f.mu.Unlock()

	if h != nil && !closed {
		h(pressed)
	}
}

// Level returns the current scripted level.
func (f *FakeButton) Level() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.LevelError != nil {
		return false, f.LevelError
	}
	return f.pressed, nil
}

// Close stops edge delivery.
func (f *FakeButton) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
