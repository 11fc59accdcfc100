package logic

import "testing"

func TestCommandQueueFIFOOrder(t *testing.T) {
	q := NewCommandQueue()
	q.TryEnqueue(CmdOpen)
	q.TryEnqueue(CmdClose)
	q.TryEnqueue(CmdStop)

	want := []Command{CmdOpen, CmdClose, CmdStop}
	for i, w := range want {
		c, ok := q.TryDequeue()
		if !ok {
			t.Fatalf("dequeue %d: expected a command", i)
		}
		if c != w {
			t.Errorf("dequeue %d: got %v, want %v", i, c, w)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("expected queue to be empty")
	}
}

func TestCommandQueueDropsOnFullWithoutBlocking(t *testing.T) {
	q := NewCommandQueue()
	for i := 0; i < CommandQueueSize; i++ {
		if !q.TryEnqueue(CmdLampOn) {
			t.Fatalf("enqueue %d should have succeeded", i)
		}
	}
	if q.TryEnqueue(CmdLampOff) {
		t.Error("expected enqueue to fail once the queue is full")
	}
	if q.Len() != CommandQueueSize {
		t.Errorf("got len %d, want %d", q.Len(), CommandQueueSize)
	}

	// The oldest entries are preserved — a dropped enqueue never evicts.
	c, ok := q.TryDequeue()
	if !ok || c != CmdLampOn {
		t.Errorf("got (%v, %v), want (CmdLampOn, true)", c, ok)
	}
}

func TestCommandQueueLenTracksOccupancy(t *testing.T) {
	q := NewCommandQueue()
	if q.Len() != 0 {
		t.Fatalf("got %d, want 0", q.Len())
	}
	q.TryEnqueue(CmdStop)
	if q.Len() != 1 {
		t.Fatalf("got %d, want 1", q.Len())
	}
	q.TryDequeue()
	if q.Len() != 0 {
		t.Fatalf("got %d, want 0", q.Len())
	}
}
