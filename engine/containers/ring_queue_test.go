package containers

import "testing"

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[string](4)
	for _, s := range []string{"a", "b", "c"} {
		if err := rq.Enqueue(s); err != nil {
			t.Fatalf("Enqueue(%q): %v", s, err)
		}
	}

	if rq.Len() != 3 {
		t.Errorf("Len = %d, want 3", rq.Len())
	}
	if v, err := rq.Peek(); err != nil || v != "a" {
		t.Errorf("Peek = %q, %v, want %q", v, err, "a")
	}

	for _, want := range []string{"a", "b", "c"} {
		v, err := rq.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if v != want {
			t.Errorf("Dequeue = %q, want %q", v, want)
		}
	}
	if !rq.IsEmpty() {
		t.Errorf("queue should be empty")
	}
}

func TestRingQueueFullAndEmpty(t *testing.T) {
	rq := NewRingQueue[int](2)
	if _, err := rq.Dequeue(); err == nil {
		t.Errorf("dequeue from an empty queue should fail")
	}

	if err := rq.Enqueue(1); err != nil {
		t.Fatal(err)
	}
	if err := rq.Enqueue(2); err != nil {
		t.Fatal(err)
	}
	if !rq.IsFull() {
		t.Errorf("queue should be full")
	}
	if err := rq.Enqueue(3); err == nil {
		t.Errorf("enqueue to a full queue should fail")
	}
}

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 0; i < 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := rq.Dequeue(); err != nil {
		t.Fatal(err)
	}
	if err := rq.Enqueue(3); err != nil {
		t.Fatalf("enqueue after dequeue should reuse the slot: %v", err)
	}

	for _, want := range []int{1, 2, 3} {
		v, err := rq.Dequeue()
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Errorf("Dequeue = %d, want %d", v, want)
		}
	}
}
