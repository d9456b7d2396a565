package sim

import (
	"math/rand"
	"sort"
)

// Simulation owns the full discrete-event state: the clock, the event
// heap, the worker pool, the pending-job queue, the trace, and the
// partitioned RNG.
type Simulation struct {
	cfg   Config
	clock T

	heap  EventHeap
	trace Trace

	pending  []Job
	byID     map[int64]Job // jobs currently pending, keyed by ID
	batches  map[int64]Batch
	workers  []*Worker
	byWorker map[int]*Worker

	scheduler Scheduler
	rng       *PartitionedRNG

	incoming   Generator
	bufferedIJ []IncomingJob // jobs already pulled from incoming but not yet admitted (same-tick coalescing)

	nextSeq     uint64
	nextBatchID int64
}

// NewSimulation validates cfg and builds a Simulation ready to Run.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		byID:     make(map[int64]Job),
		batches:  make(map[int64]Batch),
		byWorker: make(map[int]*Worker),
		rng:      NewPartitionedRNG(SimulationKey(cfg.Seed)),
	}

	for _, wc := range cfg.Workers {
		w := &Worker{ID: wc.ID, BatchSize: wc.BatchSize}
		s.workers = append(s.workers, w)
		s.byWorker[wc.ID] = w
	}

	switch cfg.Scheduler.Kind {
	case SchedulerFIFO:
		s.scheduler = FIFO{}
	case SchedulerRandom:
		s.scheduler = Random{}
	case SchedulerDeadlineAware:
		s.scheduler = DeadlineAware{Percentile: cfg.Scheduler.Percentile}
	default:
		return nil, newConfigError("scheduler.kind", "unrecognized scheduler %q", cfg.Scheduler.Kind)
	}

	gens, err := buildGenerators(cfg.Incoming, s.RNG(SubsystemIncoming))
	if err != nil {
		return nil, err
	}
	s.incoming = MergeByArrival(gens)

	s.scheduleNextIncoming()

	return s, nil
}

func buildGenerators(configs []IncomingConfig, rng *rand.Rand) ([]Generator, error) {
	gens := make([]Generator, 0, len(configs))
	for i, ic := range configs {
		dur, err := ic.Service.Build()
		if err != nil {
			return nil, err
		}
		var deadline *RandomVariable
		if ic.Deadline != nil {
			dd, err := ic.Deadline.RelativeTo.Build()
			if err != nil {
				return nil, err
			}
			deadline = &dd
		}
		startID := int64(i) * 1_000_000
		switch ic.Kind {
		case IncomingOneBatch:
			gens = append(gens, NewOneBatch(ic.At, ic.Count, dur, deadline, startID, rng))
		case IncomingRate:
			gens = append(gens, NewRate(ic.At, ic.Rate, ic.Per, ic.Bursty, dur, deadline, startID, rng, ic.EndAt))
		default:
			return nil, newConfigError("incoming", "[%d]: unrecognized kind %q", i, ic.Kind)
		}
	}
	return gens, nil
}

// RNG exposes the simulation's partitioned RNG to schedulers and other
// collaborators that need their own independent stream.
func (s *Simulation) RNG(sub Subsystem) *rand.Rand { return s.rng.ForSubsystem(sub) }

// Clock returns the simulation's current virtual time.
func (s *Simulation) Clock() T { return s.clock }

// Trace returns the accumulated processed_events log and counters.
func (s *Simulation) Trace() *Trace { return &s.trace }

func (s *Simulation) nextSeqNum() uint64 {
	v := s.nextSeq
	s.nextSeq++
	return v
}

// PendingJobs returns a snapshot of jobs admitted but not yet dispatched,
// in admission order.
func (s *Simulation) PendingJobs() []Job {
	return append([]Job(nil), s.pending...)
}

// AvailableWorkers returns the workers with no committed interval covering
// the current clock, in worker-id order, per §4.7's "idle worker in id
// order" dispatch rule.
func (s *Simulation) AvailableWorkers() []*Worker {
	var avail []*Worker
	for _, w := range s.workers {
		if !w.Timeline.Busy(s.clock) {
			avail = append(avail, w)
		}
	}
	sort.Slice(avail, func(i, j int) bool { return avail[i].ID < avail[j].ID })
	return avail
}

// Dispatch removes the named jobs from the pending queue, forms them into
// a Batch on worker workerID, commits the worker's timeline interval, and
// schedules the batch's future BatchDone event. It panics with
// InvalidState if workerID is unknown, is already busy, jobIDs is empty,
// or exceeds the configured batch size — conditions a conforming
// Scheduler never produces.
func (s *Simulation) Dispatch(workerID int, jobIDs []int64) Batch {
	if len(jobIDs) == 0 {
		invalidState("scheduler dispatched an empty batch to worker %d", workerID)
	}
	w, ok := s.byWorker[workerID]
	if !ok {
		invalidState("scheduler dispatched to unknown worker %d", workerID)
	}
	if len(jobIDs) > w.BatchSize {
		invalidState("scheduler dispatched %d jobs to worker %d, exceeding batch_size %d", len(jobIDs), workerID, w.BatchSize)
	}
	if w.Timeline.Busy(s.clock) {
		invalidState("scheduler dispatched to worker %d while busy", workerID)
	}

	jobs := make([]Job, 0, len(jobIDs))
	for _, id := range jobIDs {
		jobs = append(jobs, s.removePending(id))
	}

	batchID := s.nextBatchID
	s.nextBatchID++
	for i := range jobs {
		jobs[i].StartedAt = s.clock
		jobs[i].BatchID = batchID
	}

	batch := Batch{ID: batchID, WorkerID: workerID, Jobs: jobs}
	batch.Interval = TimeInterval{Start: s.clock, Size: batch.Duration()}
	w.Timeline.Insert(batch.Interval)
	s.batches[batch.ID] = batch

	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	s.trace.Record(TraceRecord{At: s.clock, Kind: RecordBatchStart, BatchID: batch.ID, Worker: workerID, JobIDs: ids})

	s.heap.PushEvent(Event{At: batch.Interval.End(), Kind: EventBatchDone, Seq: s.nextSeqNum(), BatchID: batch.ID})

	return batch
}

func (s *Simulation) removePending(id int64) Job {
	job, ok := s.byID[id]
	if !ok {
		invalidState("scheduler dispatched unknown or already-dispatched job %d", id)
	}
	delete(s.byID, id)
	for i, j := range s.pending {
		if j.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return job
}

func (s *Simulation) admitJob(ij IncomingJob) {
	job := admit(ij)
	s.pending = append(s.pending, job)
	s.byID[job.ID] = job
	s.trace.Record(TraceRecord{
		At: s.clock, Kind: RecordAdmitted, JobID: job.ID,
		Length: job.ServiceDur.Value(), LengthP99: job.ServiceDur.Quantile(0.99), Deadline: job.Deadline,
	})
	if job.Deadline != nil {
		s.heap.PushEvent(Event{At: *job.Deadline, Kind: EventPastDue, Seq: s.nextSeqNum(), JobID: job.ID})
		// Uses the job's actual sampled length, unlike DeadlineAware's own
		// quantile-based estimate: this is driver bookkeeping (when to
		// re-check, at the latest), not a scheduling decision.
		safeStart := job.Deadline.Sub(job.ServiceDur.Value())
		if safeStart.After(s.clock) {
			s.heap.PushEvent(Event{At: safeStart, Kind: EventWakeUp, Seq: s.nextSeqNum()})
		}
	}
}

// scheduleNextIncoming peeks the merged generator and, if it has a next
// job, buffers it and ensures an IncomingJobs event is queued for its
// arrival time. Jobs sharing an arrival time are coalesced into the same
// IncomingJobs event.
func (s *Simulation) scheduleNextIncoming() {
	if len(s.bufferedIJ) > 0 {
		return
	}
	ij, ok := s.incoming.Next()
	if !ok {
		return
	}
	s.bufferedIJ = append(s.bufferedIJ, ij)
	s.heap.PushEvent(Event{At: ij.ArrivesAt, Kind: EventIncomingJobs, Seq: s.nextSeqNum()})
}

func (s *Simulation) drainIncomingAt(at T) []IncomingJob {
	var drained []IncomingJob
	for len(s.bufferedIJ) > 0 && s.bufferedIJ[0].ArrivesAt == at {
		drained = append(drained, s.bufferedIJ[0])
		s.bufferedIJ = s.bufferedIJ[1:]
	}
	for {
		ij, ok := s.incoming.Next()
		if !ok {
			break
		}
		if ij.ArrivesAt != at {
			s.bufferedIJ = append(s.bufferedIJ, ij)
			s.heap.PushEvent(Event{At: ij.ArrivesAt, Kind: EventIncomingJobs, Seq: s.nextSeqNum()})
			break
		}
		drained = append(drained, ij)
	}
	return drained
}

// partitionPastDue moves every pending job whose deadline has arrived out
// of the pending queue and records it as past due, without ever handing it
// to the scheduler. Called at the start of every scheduler entry point —
// arrival, completion, and deadline wake-up — so a worker freeing up
// exactly at a pending job's deadline can never dispatch that job.
func (s *Simulation) partitionPastDue() {
	if len(s.pending) == 0 {
		return
	}
	stillPending := s.pending[:0:0]
	for _, j := range s.pending {
		if j.PastDue(s.clock) {
			delete(s.byID, j.ID)
			s.trace.Record(TraceRecord{At: s.clock, Kind: RecordPastDue, JobID: j.ID})
		} else {
			stillPending = append(stillPending, j)
		}
	}
	s.pending = stillPending
}

// Run drives the simulation to completion, dispatching events strictly in
// (timestamp, kind-priority, insertion-sequence) order until the
// configured EndCondition is reached.
func (s *Simulation) Run() Summary {
	for {
		ev, ok := s.heap.Peek()
		if !ok {
			break
		}
		if s.cfg.End.Kind == EndMaxTime && float64(ev.At) > float64(s.cfg.End.MaxTime) {
			break
		}
		ev = s.heap.PopEvent()
		if ev.At.Before(s.clock) {
			invalidState("event heap produced an out-of-order timestamp: %v before clock %v", ev.At, s.clock)
		}
		s.clock = ev.At

		switch ev.Kind {
		case EventIncomingJobs:
			jobs := s.drainIncomingAt(s.clock)
			for _, ij := range jobs {
				s.admitJob(ij)
			}
			s.trace.Record(TraceRecord{At: s.clock, Kind: RecordIncomingJobsPolled, Count: len(jobs)})
			s.partitionPastDue()
			s.scheduler.OnIncomingJobs(s)
			s.scheduleNextIncoming()

		case EventPastDue:
			job, stillPending := s.byID[ev.JobID]
			if stillPending && job.PastDue(s.clock) {
				s.removePending(ev.JobID)
				s.trace.Record(TraceRecord{At: s.clock, Kind: RecordPastDue, JobID: ev.JobID})
			}

		case EventWakeUp:
			s.trace.Record(TraceRecord{At: s.clock, Kind: RecordWakeUp})
			s.partitionPastDue()
			s.scheduler.OnIncomingJobs(s)

		case EventBatchDone:
			batch, ok := s.batches[ev.BatchID]
			if !ok {
				invalidState("BatchDone fired for unknown batch %d", ev.BatchID)
			}
			delete(s.batches, ev.BatchID)
			w := s.byWorker[batch.WorkerID]
			w.Timeline.Remove(batch.Interval)

			var onTime []int64
			for _, j := range batch.Jobs {
				if j.PastDue(batch.Interval.End()) {
					s.trace.Record(TraceRecord{At: s.clock, Kind: RecordPastDue, JobID: j.ID, BatchID: batch.ID, Worker: batch.WorkerID, OnCompletion: true})
					continue
				}
				onTime = append(onTime, j.ID)
			}
			s.trace.Record(TraceRecord{At: s.clock, Kind: RecordBatchDone, BatchID: batch.ID, Worker: batch.WorkerID, JobIDs: onTime})
			s.partitionPastDue()
			s.scheduler.OnBatchDone(s, batch)
		}

		if s.cfg.End.Kind == EndNoEvents {
			_, more := s.heap.Peek()
			if !more && len(s.bufferedIJ) == 0 {
				break
			}
		}
	}
	return s.trace.Summarize()
}
