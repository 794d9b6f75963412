// Package sched runs a closed set of cooperative tasks at absolute tick
// deadlines.
//
// Tasks run to completion, one at a time, in ascending deadline order. Tasks
// due at the same tick run in descending static priority, then in the order
// they were scheduled. A task receives the tick it was scheduled for and may
// schedule itself or other tasks from within its body. The scheduling calls
// may also be made from other goroutines, such as a GPIO edge handler.
package sched

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sweeney/ledring/internal/clock"
)

var (
	// ErrQueueFull is returned when no slot is free for another deadline.
	ErrQueueFull = errors.New("sched: queue full")
	// ErrUnknownTask is returned for task IDs that were never registered.
	ErrUnknownTask = errors.New("sched: unknown task")
)

// TaskID identifies a registered task.
type TaskID uint8

// Priority orders tasks due at the same tick. Higher runs first.
type Priority uint8

// Func is a task body. scheduled is the deadline the task was queued for,
// which is the baseline for drift-free re-arming.
type Func func(scheduled clock.Tick)

type task struct {
	name     string
	priority Priority
	fn       Func
}

type entry struct {
	at       clock.Tick
	priority Priority
	seq      uint32
	id       TaskID
}

// before orders entries by deadline, then priority, then FIFO.
func (e entry) before(o entry) bool {
	if e.at != o.at {
		return !e.at.Reached(o.at)
	}
	if e.priority != o.priority {
		return e.priority > o.priority
	}
	return int32(e.seq-o.seq) < 0
}

// Scheduler is a fixed-capacity deadline queue over a tick counter.
type Scheduler struct {
	counter  clock.Counter
	conv     clock.Converter
	capacity int

	// mu is the critical section shared with the edge handler.
	mu    sync.Mutex
	tasks map[TaskID]task
	queue []entry
	seq   uint32

	wake chan struct{}
}

// New creates a Scheduler with room for capacity pending deadlines.
func New(counter clock.Counter, conv clock.Converter, capacity int) *Scheduler {
	return &Scheduler{
		counter:  counter,
		conv:     conv,
		capacity: capacity,
		tasks:    make(map[TaskID]task),
		queue:    make([]entry, 0, capacity),
		wake:     make(chan struct{}, 1),
	}
}

// Register adds a task with a static priority. Each ID may be registered once.
func (s *Scheduler) Register(id TaskID, name string, priority Priority, fn Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; ok {
		return fmt.Errorf("sched: task %d (%s) already registered", id, name)
	}
	s.tasks[id] = task{name: name, priority: priority, fn: fn}
	return nil
}

// Name returns the registered name of id, for diagnostics.
func (s *Scheduler) Name(id TaskID) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[id]; ok {
		return t.name
	}
	return fmt.Sprintf("task-%d", id)
}

// Schedule queues id to run once the counter reaches at.
// A full queue is not fatal: the caller decides whether to tolerate the miss.
func (s *Scheduler) Schedule(id TaskID, at clock.Tick) error {
	return s.insert(id, at, false)
}

// Reschedule is Schedule, but first drops any deadline already pending for
// id, so id is queued at most once. Replacing never needs a free slot.
func (s *Scheduler) Reschedule(id TaskID, at clock.Tick) error {
	return s.insert(id, at, true)
}

func (s *Scheduler) insert(id TaskID, at clock.Tick, replace bool) error {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	if replace {
		kept := s.queue[:0]
		for _, e := range s.queue {
			if e.id != id {
				kept = append(kept, e)
			}
		}
		s.queue = kept
	}
	if len(s.queue) >= s.capacity {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot schedule %s", ErrQueueFull, t.name)
	}

	e := entry{at: at, priority: t.priority, seq: s.seq, id: id}
	s.seq++
	i := sort.Search(len(s.queue), func(i int) bool { return e.before(s.queue[i]) })
	s.queue = append(s.queue, entry{})
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = e
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Spawn queues id at the current tick, so it runs as soon as the scheduler
// is idle, after anything already due. Tasks handing over to each other on
// a fixed tick grid should Schedule at their own scheduled tick instead,
// which keeps the grid free of drift when the hand-over runs late.
func (s *Scheduler) Spawn(id TaskID) error {
	return s.Schedule(id, s.counter.Now())
}

// Len returns the number of pending deadlines.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Next returns the earliest pending deadline.
func (s *Scheduler) Next() (clock.Tick, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

// RunPending runs every task whose deadline has been reached, including
// tasks made due by the tasks it runs. It returns the number of tasks run.
// RunPending must only be called from one goroutine.
func (s *Scheduler) RunPending() int {
	n := 0
	for {
		now := s.counter.Now()

		s.mu.Lock()
		if len(s.queue) == 0 || !now.Reached(s.queue[0].at) {
			s.mu.Unlock()
			return n
		}
		e := s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue = s.queue[:len(s.queue)-1]
		fn := s.tasks[e.id].fn
		s.mu.Unlock()

		fn(e.at)
		n++
	}
}

// Run is the idle loop. It runs due tasks, then sleeps until the next
// deadline or until a new deadline is scheduled. It returns when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.RunPending()

		wait := time.Hour
		if at, ok := s.Next(); ok {
			now := s.counter.Now()
			if now.Reached(at) {
				continue
			}
			wait = s.conv.ToDuration(at.Since(now))
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-timer.C:
		}
	}
}
