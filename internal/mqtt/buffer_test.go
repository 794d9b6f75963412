package mqtt

import (
	"testing"
)

func push(rb *ringBuffer, from, to int) {
	for i := from; i < to; i++ {
		rb.push(bufferedMsg{topic: TopicDiag, payload: []byte{byte(i)}})
	}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(4)
	got, dropped := rb.drainAll()
	if got != nil || dropped != 0 {
		t.Errorf("expected nothing from empty drain, got %d items, %d dropped", len(got), dropped)
	}
}

func TestRingBufferKeepsOrder(t *testing.T) {
	rb := newRingBuffer(8)
	push(rb, 0, 5)

	got, dropped := rb.drainAll()
	if len(got) != 5 || dropped != 0 {
		t.Fatalf("expected 5 items and no drops, got %d items, %d dropped", len(got), dropped)
	}
	for i, m := range got {
		if m.payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, m.payload[0])
		}
	}

	if rb.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", rb.len())
	}
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	rb := newRingBuffer(5)

	for i := 0; i < 5; i++ {
		if rb.push(bufferedMsg{payload: []byte{byte(i)}}) {
			t.Fatalf("push %d reported a drop before the buffer was full", i)
		}
	}
	if !rb.push(bufferedMsg{payload: []byte{5}}) {
		t.Fatal("expected push into a full buffer to report a drop")
	}
	push(rb, 6, 8)

	got, dropped := rb.drainAll()
	if dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", dropped)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i, m := range got {
		want := byte(i + 3)
		if m.payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, m.payload[0])
		}
	}
}

func TestRingBufferDropCountResets(t *testing.T) {
	rb := newRingBuffer(2)
	push(rb, 0, 4)
	rb.drainAll()

	push(rb, 10, 11)
	got, dropped := rb.drainAll()
	if dropped != 0 {
		t.Errorf("expected drop count reset after drain, got %d", dropped)
	}
	if len(got) != 1 || got[0].payload[0] != 10 {
		t.Errorf("unexpected items after second cycle: %v", got)
	}
}

func TestRingBufferPreservesFields(t *testing.T) {
	rb := newRingBuffer(2)
	rb.push(bufferedMsg{
		topic:    TopicSystem,
		payload:  []byte(`{"status":{}}`),
		qos:      1,
		retained: true,
	})

	got, _ := rb.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	m := got[0]
	if m.topic != TopicSystem || string(m.payload) != `{"status":{}}` || m.qos != 1 || !m.retained {
		t.Errorf("fields not preserved: %+v", m)
	}
}
