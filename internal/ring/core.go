// Package ring is the control core: a blinking LED that moves around a ring
// under button control, with a flash burst to acknowledge a hold.
//
// All task bodies run on the scheduler and own the selection state. The only
// entry point from another goroutine is OnEdge, which stands in for the
// button interrupt.
package ring

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sweeney/ledring/internal/clock"
	"github.com/sweeney/ledring/internal/gesture"
	"github.com/sweeney/ledring/internal/sched"
)

// LEDs drives the ring outputs. Set is called from task context only.
type LEDs interface {
	Len() int
	Set(i int, on bool) error
}

// Diagnostics receives best-effort diagnostic lines. Emit must not block
// and may be called from the edge handler goroutine.
type Diagnostics interface {
	Emit(line string)
}

// Observer is notified with a fresh State after each blink or dispatch step.
type Observer interface {
	Update(State)
}

// Task IDs. The set is closed: every task is registered by New.
const (
	TaskBlink sched.TaskID = iota
	TaskFlash
	TaskDispatch
	TaskHoldCheck
	TaskHeartbeat
)

// Priorities for tasks due at the same tick. The hold check belongs to the
// edge handler's interrupt-level work and outranks everything else.
const (
	PriorityHeartbeat sched.Priority = iota
	PriorityBlink
	PriorityDispatch
	PriorityHoldCheck
)

// flashToggles is the number of flash invocations per hold (3 on/off cycles).
const flashToggles = 6

// Counts tracks gestures handled by the dispatcher.
type Counts struct {
	Click       int
	DoubleClick int
	Hold        int
}

// State is a point-in-time view of the core for status reporting.
type State struct {
	Selection
	Flashing bool
	Counts   Counts
	// Dropped is the number of gestures lost to a full event queue.
	Dropped uint32
	// Missed is the number of deadlines lost to a full schedule queue.
	Missed uint32
	Uptime time.Duration
}

type blinkTiming struct {
	on, off clock.Duration
}

type flashEngine struct {
	period clock.Duration
	active bool
	cycles int
	on     bool
}

// Core owns all state of the running system.
type Core struct {
	cfg      Config
	conv     clock.Converter
	counter  clock.Counter
	sched    *sched.Scheduler
	leds     LEDs
	diag     Diagnostics
	observer Observer

	queue    *gesture.Queue
	detector *gesture.Detector
	holdWait clock.Duration

	sel       Selection
	blink     blinkTiming
	flash     flashEngine
	heartbeat clock.Duration
	uptime    time.Duration
	counts    Counts

	missed atomic.Uint32
}

// New wires a core onto s and registers its tasks. The ring length is taken
// from leds, which must match cfg.LEDs.
func New(cfg Config, conv clock.Converter, counter clock.Counter, s *sched.Scheduler, leds LEDs, diag Diagnostics) (*Core, error) {
	if err := cfg.Validate(conv); err != nil {
		return nil, err
	}
	if leds.Len() != cfg.LEDs {
		return nil, fmt.Errorf("ring: variant %s needs %d LEDs, got %d", cfg.Variant, cfg.LEDs, leds.Len())
	}

	q := gesture.NewQueue()
	c := &Core{
		cfg:      cfg,
		conv:     conv,
		counter:  counter,
		sched:    s,
		leds:     leds,
		diag:     diag,
		queue:    q,
		detector: gesture.NewDetector(cfg.gestureConfig(conv), q, counter.Now()),
		holdWait: conv.ToTicks(cfg.HoldTime),
		sel:      Selection{Forward: true},
		blink: blinkTiming{
			on:  conv.ToTicks(cfg.OnTime),
			off: conv.ToTicks(cfg.OffTime),
		},
		flash:     flashEngine{period: conv.ToTicks(cfg.FlashTime)},
		heartbeat: conv.ToTicks(cfg.Heartbeat),
	}

	tasks := []struct {
		id   sched.TaskID
		name string
		prio sched.Priority
		fn   sched.Func
	}{
		{TaskBlink, "blink", PriorityBlink, c.blinkTask},
		{TaskFlash, "flash", PriorityDispatch, c.flashTask},
		{TaskDispatch, "dispatch", PriorityDispatch, c.dispatchTask},
		{TaskHoldCheck, "hold-check", PriorityHoldCheck, c.holdCheckTask},
		{TaskHeartbeat, "heartbeat", PriorityHeartbeat, c.heartbeatTask},
	}
	for _, t := range tasks {
		if err := s.Register(t.id, t.name, t.prio, t.fn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetObserver installs an observer. Call before Start.
func (c *Core) SetObserver(o Observer) {
	c.observer = o
}

// Start arms the first blink one off-period from now, and the heartbeat.
func (c *Core) Start() {
	now := c.counter.Now()
	c.schedule(TaskBlink, now.Add(c.blink.off))
	if c.heartbeat > 0 {
		c.schedule(TaskHeartbeat, now.Add(c.heartbeat))
	}
	c.diag.Emit(fmt.Sprintf("started: variant=%s leds=%d clock=%dHz", c.cfg.Variant, c.cfg.LEDs, c.conv.Hz()))
	c.notify()
}

// OnEdge is the button interrupt handler. It timestamps the transition,
// classifies it, and arms the deferred hold check for presses.
func (c *Core) OnEdge(rising bool) {
	if !c.cfg.Button {
		return
	}
	now := c.counter.Now()
	ev, err := c.detector.Edge(rising, now)
	if errors.Is(err, gesture.ErrQueueFull) {
		c.diag.Emit(fmt.Sprintf("event queue full, dropped %s", ev))
	}
	if ev == gesture.None {
		return
	}
	// Only the newest press can turn into a Hold, so one pending check is
	// enough and older ones are replaced.
	if c.detector.HoldEnabled() {
		c.noteMiss(TaskHoldCheck, c.sched.Reschedule(TaskHoldCheck, now.Add(c.holdWait)))
	}
}

// State returns a snapshot. Call from task context or before Start.
func (c *Core) State() State {
	return State{
		Selection: c.sel,
		Flashing:  c.flash.active,
		Counts:    c.counts,
		Dropped:   c.queue.Dropped(),
		Missed:    c.missed.Load(),
		Uptime:    c.uptime,
	}
}

// blinkTask toggles the current LED. Entering Off adopts the pending
// selection and hands over to the dispatcher at the Off→On boundary.
func (c *Core) blinkTask(scheduled clock.Tick) {
	c.sel.LEDOn = !c.sel.LEDOn
	c.setLED(c.sel.Current, c.sel.LEDOn)

	if c.sel.LEDOn {
		c.schedule(TaskBlink, scheduled.Add(c.blink.on))
	} else {
		c.sel.Adopt()
		c.schedule(TaskDispatch, scheduled.Add(c.blink.off))
	}
	c.notify()
}

// dispatchTask consumes at most one gesture, then resumes the blink, except
// for Hold which hands over to the flash engine instead.
func (c *Core) dispatchTask(scheduled clock.Tick) {
	ev, ok := c.queue.Pop()
	if ok {
		switch ev {
		case gesture.Click:
			c.counts.Click++
		case gesture.DoubleClick:
			c.counts.DoubleClick++
		case gesture.Hold:
			c.counts.Hold++
			c.diag.Emit("HOLD: flashing ring")
			c.flash.active = true
			c.schedule(TaskFlash, scheduled)
			c.notify()
			return
		}
		c.sel.Apply(ev, c.cfg.LEDs)
		c.diag.Emit(fmt.Sprintf("%s: next=%d forward=%v", ev, c.sel.Next, c.sel.Forward))
	}
	c.schedule(TaskBlink, scheduled)
	c.notify()
}

// flashTask toggles every LED together. After flashToggles invocations it
// resets and returns control to the dispatcher.
func (c *Core) flashTask(scheduled clock.Tick) {
	c.flash.on = !c.flash.on
	for i := 0; i < c.leds.Len(); i++ {
		c.setLED(i, c.flash.on)
	}
	c.flash.cycles++

	if c.flash.cycles < flashToggles {
		c.schedule(TaskFlash, scheduled.Add(c.flash.period))
		c.notify()
		return
	}
	c.flash = flashEngine{period: c.flash.period}
	c.schedule(TaskDispatch, scheduled)
	c.notify()
}

func (c *Core) holdCheckTask(clock.Tick) {
	ev, err := c.detector.CheckHold(c.counter.Now())
	if errors.Is(err, gesture.ErrQueueFull) {
		c.diag.Emit(fmt.Sprintf("event queue full, dropped %s", ev))
	}
}

func (c *Core) heartbeatTask(scheduled clock.Tick) {
	c.uptime += c.cfg.Heartbeat
	c.diag.Emit(fmt.Sprintf("heartbeat: uptime=%v click=%d double_click=%d hold=%d dropped=%d missed=%d",
		c.uptime, c.counts.Click, c.counts.DoubleClick, c.counts.Hold, c.queue.Dropped(), c.missed.Load()))
	c.schedule(TaskHeartbeat, scheduled.Add(c.heartbeat))
}

// schedule re-arms a task. A full schedule queue stalls that task until
// something else re-arms it.
func (c *Core) schedule(id sched.TaskID, at clock.Tick) {
	c.noteMiss(id, c.sched.Schedule(id, at))
}

func (c *Core) noteMiss(id sched.TaskID, err error) {
	if err != nil {
		c.missed.Add(1)
		c.diag.Emit(fmt.Sprintf("schedule %s: %v", c.sched.Name(id), err))
	}
}

func (c *Core) setLED(i int, on bool) {
	if err := c.leds.Set(i, on); err != nil {
		c.diag.Emit(fmt.Sprintf("led %d: %v", i, err))
	}
}

func (c *Core) notify() {
	if c.observer != nil {
		c.observer.Update(c.State())
	}
}
