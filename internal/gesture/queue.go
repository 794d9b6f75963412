package gesture

import "sync/atomic"

// QueueCapacity is the fixed number of events the queue can hold.
const QueueCapacity = 8

// Queue is a fixed-capacity FIFO of events for exactly one producer
// goroutine and one consumer goroutine. Neither side ever blocks.
//
// head and tail are free-running; tail-head is the fill level.
type Queue struct {
	buf     [QueueCapacity]Event
	head    atomic.Uint32 // written by the consumer only
	tail    atomic.Uint32 // written by the producer only
	dropped atomic.Uint32
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends e. If the queue is full, e is discarded and Push returns false.
// Producer side only.
func (q *Queue) Push(e Event) bool {
	t := q.tail.Load()
	if t-q.head.Load() == QueueCapacity {
		q.dropped.Add(1)
		return false
	}
	q.buf[t%QueueCapacity] = e
	q.tail.Store(t + 1)
	return true
}

// Pop removes the oldest event. It returns (None, false) when empty.
// Consumer side only.
func (q *Queue) Pop() (Event, bool) {
	h := q.head.Load()
	if h == q.tail.Load() {
		return None, false
	}
	e := q.buf[h%QueueCapacity]
	q.head.Store(h + 1)
	return e, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	h := q.head.Load()
	return int(q.tail.Load() - h)
}

// Dropped returns how many events have been discarded because the queue was full.
func (q *Queue) Dropped() uint32 {
	return q.dropped.Load()
}
