package sim

// EventKind distinguishes the four heap-scheduled event categories. Their
// relative priority at equal timestamps is fixed by the ordering
// guarantee: BatchDone, then PastDue, then WakeUp, then IncomingJobs.
// BatchStart is not a heap-scheduled event — the scheduler emits it
// synchronously as an immediate side effect of OnIncomingJobs/OnBatchDone,
// so it never needs a priority slot.
type EventKind int

const (
	EventBatchDone EventKind = iota
	EventPastDue
	EventWakeUp
	EventIncomingJobs
)

func (k EventKind) priority() int { return int(k) }

// Event is one entry on the simulation's EventHeap.
type Event struct {
	At   T
	Kind EventKind
	Seq  uint64 // insertion sequence, for FIFO tie-breaking within (At, Kind)

	// Payload fields; only the ones relevant to Kind are populated.
	BatchID int64 // EventBatchDone
	JobID   int64 // EventPastDue
}
