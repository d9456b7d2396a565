package sim

// RecordKind tags one entry in the Trace's processed_events log with the
// externally observable thing that happened, independent of the internal
// EventKind used for heap ordering (BatchStart, for instance, is a Record
// but never an Event).
type RecordKind string

const (
	RecordIncomingJobsPolled RecordKind = "incoming_jobs_polled"
	RecordAdmitted           RecordKind = "admitted"
	RecordBatchStart         RecordKind = "batch_start"
	RecordBatchDone          RecordKind = "batch_done"
	RecordPastDue            RecordKind = "past_due"
	RecordWakeUp             RecordKind = "wake_up"
)

// TraceRecord is one canonical log entry. Only the fields relevant to Kind
// are populated.
type TraceRecord struct {
	At      T
	Kind    RecordKind
	JobID   int64   // RecordPastDue, RecordAdmitted
	BatchID int64   // RecordBatchStart, RecordBatchDone, RecordPastDue (OnCompletion)
	Worker  int     // RecordBatchStart, RecordBatchDone, RecordPastDue (OnCompletion)
	JobIDs  []int64 // RecordBatchStart: the jobs placed in the batch; RecordBatchDone: the jobs that finished on time
	Count   int     // RecordIncomingJobsPolled: how many jobs were admitted

	// RecordAdmitted carries the job attributes jobs.csv needs that no
	// other record kind has: its sampled length, the length distribution's
	// 99th-percentile quantile (DeadlineAware uses its own configured
	// Percentile instead), and its absolute deadline, if any.
	Length    D
	LengthP99 D
	Deadline  *T

	// OnCompletion marks a RecordPastDue that fired because a batch
	// finished after the job's deadline, rather than because the job was
	// still pending when its deadline arrived. BatchID/Worker are only
	// meaningful when this is true.
	OnCompletion bool
}

// Trace accumulates a simulation's processed_events log in order, plus the
// running counters Summarize exposes as a convenience accessor over it.
type Trace struct {
	records      []TraceRecord
	doneCount    int
	pastDueCount int
	finalClock   T
}

// Record appends rec to the log and updates the running counters.
func (tr *Trace) Record(rec TraceRecord) {
	tr.records = append(tr.records, rec)
	switch rec.Kind {
	case RecordBatchDone:
		tr.doneCount += len(rec.JobIDs)
	case RecordPastDue:
		tr.pastDueCount++
	}
	if rec.At.After(tr.finalClock) {
		tr.finalClock = rec.At
	}
}

// Events returns the recorded log in insertion order. Callers must treat
// the returned slice as read-only.
func (tr *Trace) Events() []TraceRecord { return tr.records }

// Len reports how many records have been accumulated.
func (tr *Trace) Len() int { return len(tr.records) }

// Summary is the final-state convenience accessor: the timestamp of the
// latest trace record and the cumulative done/past-due counts. FinalClock
// does not advance for an event that records nothing (a PastDue event for
// a job that is no longer pending).
type Summary struct {
	FinalClock   T
	DoneCount    int
	PastDueCount int
}

// Summarize returns tr's current Summary.
func (tr *Trace) Summarize() Summary {
	return Summary{FinalClock: tr.finalClock, DoneCount: tr.doneCount, PastDueCount: tr.pastDueCount}
}
