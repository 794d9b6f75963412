package ring

import "github.com/sweeney/ledring/internal/gesture"

// Selection is the LED selection state. It is only touched by scheduled
// tasks, which never run concurrently.
type Selection struct {
	Current int
	Next    int
	LEDOn   bool
	Forward bool
}

// ComputeNext returns the ring index after i in the given direction.
func ComputeNext(i int, forward bool, n int) int {
	if forward {
		return (i + 1) % n
	}
	if i == 0 {
		return n - 1
	}
	return i - 1
}

// Apply updates the pending selection for a Click or DoubleClick.
// Other events leave the selection untouched.
func (s *Selection) Apply(ev gesture.Event, n int) {
	switch ev {
	case gesture.Click:
		s.Next = ComputeNext(s.Current, s.Forward, n)
	case gesture.DoubleClick:
		s.Forward = !s.Forward
		s.Next = ComputeNext(s.Current, s.Forward, n)
	}
}

// Adopt makes the pending selection current.
func (s *Selection) Adopt() {
	s.Current = s.Next
}
