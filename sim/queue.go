package sim

import "container/heap"

// EventHeap orders Events by (At, Kind priority, Seq), giving the
// simulator the deterministic dispatch order the driver loop requires: at equal
// timestamps, BatchDone before PastDue before WakeUp before IncomingJobs,
// and FIFO among same-kind events at the same timestamp.
type EventHeap struct {
	items []Event
}

func (h *EventHeap) Len() int { return len(h.items) }

func (h *EventHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.At != b.At {
		return a.At.Before(b.At)
	}
	if a.Kind.priority() != b.Kind.priority() {
		return a.Kind.priority() < b.Kind.priority()
	}
	return a.Seq < b.Seq
}

func (h *EventHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *EventHeap) Push(x any) { h.items = append(h.items, x.(Event)) }

func (h *EventHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// PushEvent enqueues ev onto the heap, maintaining the heap invariant.
func (h *EventHeap) PushEvent(ev Event) { heap.Push(h, ev) }

// PopEvent removes and returns the earliest-ordered Event. Panics if the
// heap is empty — callers must check Len() first (the driver loop only
// calls it while Len() > 0).
func (h *EventHeap) PopEvent() Event {
	return heap.Pop(h).(Event)
}

// Peek returns the earliest-ordered Event without removing it, and whether
// the heap is non-empty.
func (h *EventHeap) Peek() (Event, bool) {
	if len(h.items) == 0 {
		return Event{}, false
	}
	return h.items[0], true
}
