package gesture

import (
	"errors"
	"testing"

	"github.com/sweeney/ledring/internal/clock"
)

// Ticks in these tests are milliseconds (1kHz counter).
func fullConfig() Config {
	return Config{
		Debounce:           50,
		DoubleClick:        700,
		Hold:               1000,
		DoubleClickEnabled: true,
		HoldEnabled:        true,
	}
}

func drain(q *Queue) []Event {
	var out []Event
	for {
		ev, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestFirstPressIsClick(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	ev, err := d.Edge(true, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev != Click {
		t.Errorf("expected CLICK, got %s", ev)
	}
	if got := drain(q); len(got) != 1 || got[0] != Click {
		t.Errorf("expected queued [CLICK], got %v", got)
	}
}

func TestFallingEdgeClassifiesNothing(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	ev, err := d.Edge(false, 5200)
	if err != nil || ev != None {
		t.Errorf("expected (NONE, nil) on release, got (%s, %v)", ev, err)
	}

	rising, falling := d.Timestamps()
	if rising != 5000 || falling != 5200 {
		t.Errorf("expected timestamps (5000, 5200), got (%d, %d)", rising, falling)
	}
	if q.Len() != 1 {
		t.Errorf("expected only the press to be queued, got %d events", q.Len())
	}
}

func TestDoubleClickWithinWindow(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	d.Edge(false, 5100)
	ev, _ := d.Edge(true, 5100+699)
	if ev != DoubleClick {
		t.Errorf("expected DOUBLE_CLICK for 699ms gap, got %s", ev)
	}
}

func TestClickAtWindowBoundary(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	d.Edge(false, 5100)
	ev, _ := d.Edge(true, 5100+700)
	if ev != Click {
		t.Errorf("expected CLICK for 700ms gap, got %s", ev)
	}
}

func TestPressSoonAfterStartupIsDoubleClick(t *testing.T) {
	// Timestamps start at the start tick, which counts as the last release.
	d := NewDetector(fullConfig(), NewQueue(), 1000)

	ev, _ := d.Edge(true, 1300)
	if ev != DoubleClick {
		t.Errorf("expected DOUBLE_CLICK 300ms after startup, got %s", ev)
	}
}

func TestDebounceRejectsBounces(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	// Contact bounce: release/press within 50ms of the accepted press.
	if ev, _ := d.Edge(false, 5010); ev != None {
		t.Errorf("bounce release: expected NONE, got %s", ev)
	}
	if ev, _ := d.Edge(true, 5020); ev != None {
		t.Errorf("bounce press: expected NONE, got %s", ev)
	}

	rising, falling := d.Timestamps()
	if rising != 5000 || falling != 0 {
		t.Errorf("bounces should not move timestamps, got (%d, %d)", rising, falling)
	}
	if q.Len() != 1 {
		t.Errorf("expected 1 queued event, got %d", q.Len())
	}

	// At exactly the debounce interval the edge is accepted.
	d.Edge(false, 5050)
	if _, falling := d.Timestamps(); falling != 5050 {
		t.Errorf("expected falling=5050, got %d", falling)
	}
}

func TestHoldReportedOnceWhileHeld(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	drain(q)

	if ev, _ := d.CheckHold(5999); ev != None {
		t.Errorf("expected NONE before hold window, got %s", ev)
	}
	ev, err := d.CheckHold(6000)
	if err != nil || ev != Hold {
		t.Fatalf("expected (HOLD, nil) at deadline, got (%s, %v)", ev, err)
	}
	if ev, _ := d.CheckHold(6500); ev != None {
		t.Errorf("expected HOLD only once per press, got %s", ev)
	}

	got := drain(q)
	if len(got) != 1 || got[0] != Hold {
		t.Errorf("expected queued [HOLD], got %v", got)
	}
}

func TestReleaseSuppressesHold(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	d.Edge(false, 5400)
	drain(q)

	if ev, _ := d.CheckHold(6000); ev != None {
		t.Errorf("expected NONE after release, got %s", ev)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
}

func TestStaleHoldCheckIgnoredForNewPress(t *testing.T) {
	q := NewQueue()
	d := NewDetector(fullConfig(), q, 0)

	d.Edge(true, 5000)
	d.Edge(false, 5200)
	d.Edge(true, 5800) // new press, its own check is due at 6800
	drain(q)

	// The first press's check fires while the second press is only 200ms old.
	if ev, _ := d.CheckHold(6000); ev != None {
		t.Errorf("stale check: expected NONE, got %s", ev)
	}
	if ev, _ := d.CheckHold(6800); ev != Hold {
		t.Errorf("second press check: expected HOLD, got %s", ev)
	}
}

func TestHoldAcrossCounterWrap(t *testing.T) {
	q := NewQueue()
	start := clock.Tick(0xFFFFFF00)
	d := NewDetector(fullConfig(), q, start)

	press := start.Add(200) // 0xFFFFFFC8
	d.Edge(true, press)
	drain(q)

	deadline := press.Add(1000) // wraps past zero
	if !deadline.After(press) {
		t.Fatal("test setup: deadline should be after press")
	}
	if ev, _ := d.CheckHold(deadline); ev != Hold {
		t.Errorf("expected HOLD across wrap, got %s", ev)
	}
}

func TestReleaseAcrossCounterWrapSuppressesHold(t *testing.T) {
	q := NewQueue()
	start := clock.Tick(0xFFFFFF00)
	d := NewDetector(fullConfig(), q, start)

	press := start.Add(200)
	d.Edge(true, press)
	// Release lands numerically below the press after the wrap.
	d.Edge(false, press.Add(400))
	drain(q)

	if ev, _ := d.CheckHold(press.Add(1000)); ev != None {
		t.Errorf("expected NONE, release after wrap must suppress hold, got %s", ev)
	}
}

func TestPlainToggleFeatureSet(t *testing.T) {
	cfg := fullConfig()
	cfg.DoubleClickEnabled = false
	cfg.HoldEnabled = false
	q := NewQueue()
	d := NewDetector(cfg, q, 0)

	d.Edge(true, 5000)
	d.Edge(false, 5100)
	if ev, _ := d.Edge(true, 5200); ev != Click {
		t.Errorf("expected CLICK with double-click disabled, got %s", ev)
	}
	if ev, _ := d.CheckHold(7000); ev != None {
		t.Errorf("expected NONE with hold disabled, got %s", ev)
	}
	if d.HoldEnabled() {
		t.Error("HoldEnabled should be false")
	}
}

func TestEdgeQueueFull(t *testing.T) {
	q := NewQueue()
	for i := 0; i < QueueCapacity; i++ {
		q.Push(Click)
	}
	d := NewDetector(fullConfig(), q, 0)

	ev, err := d.Edge(true, 5000)
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if ev != Click {
		t.Errorf("expected the dropped event to be reported as CLICK, got %s", ev)
	}
	if q.Dropped() != 1 {
		t.Errorf("expected 1 drop, got %d", q.Dropped())
	}

	// Timestamps still advance so a later hold check is still meaningful.
	if rising, _ := d.Timestamps(); rising != 5000 {
		t.Errorf("expected rising=5000, got %d", rising)
	}
}
