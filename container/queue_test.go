package container_test

import (
	"testing"

	"github.com/maximaximal/limboole/container"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := container.NewQueue[int](0)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() ok = false, want true")
		}
		if got != want {
			t.Fatalf("Pop() = %d, want %d", got, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("Pop() on empty queue ok = true, want false")
	}
}

func TestQueue_EmptyAndLen(t *testing.T) {
	q := container.NewQueue[string](0)
	if !q.Empty() {
		t.Fatalf("Empty() = false on fresh queue")
	}
	q.Push("a")
	q.Push("b")
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	q.Pop()
	if q.Len() != 1 {
		t.Fatalf("Len() after one pop = %d, want 1", q.Len())
	}
}

func TestQueue_Drain(t *testing.T) {
	q := container.NewQueue[int](0)
	q.Push(1)
	q.Push(2)
	q.Drain()
	if !q.Empty() {
		t.Fatalf("Empty() = false after Drain")
	}
	q.Push(9)
	got, ok := q.Pop()
	if !ok || got != 9 {
		t.Fatalf("Pop() after Drain+Push = (%d,%v), want (9,true)", got, ok)
	}
}

func TestQueue_InterleavedPushPop(t *testing.T) {
	q := container.NewQueue[int](0)
	q.Push(1)
	q.Push(2)
	if v, _ := q.Pop(); v != 1 {
		t.Fatalf("first Pop = %d, want 1", v)
	}
	q.Push(3)
	if v, _ := q.Pop(); v != 2 {
		t.Fatalf("second Pop = %d, want 2", v)
	}
	if v, _ := q.Pop(); v != 3 {
		t.Fatalf("third Pop = %d, want 3", v)
	}
}
