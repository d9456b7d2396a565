package sim

import "sort"

// Scheduler is the pluggable policy contract: it decides which pending
// Jobs to batch onto which idle Workers, in response to two triggers — a
// fresh admission and a worker becoming free again.
type Scheduler interface {
	// OnIncomingJobs is called once per IncomingJobs event, after every
	// newly admitted Job has been appended to the pending queue, and once
	// per WakeUp event.
	OnIncomingJobs(s *Simulation)
	// OnBatchDone is called once a Batch finishes, after its interval has
	// been removed from the worker's timeline and its jobs recorded done
	// or past due, and
	// before the worker is considered for any other scheduler entry
	// within the same tick.
	OnBatchDone(s *Simulation, batch Batch)
}

// dispatchAdmissible enforces the two InvalidState rules every
// Scheduler implementation must obey, regardless of ordering policy:
// workers chosen must be idle (admissible-worker invariant), and a batch
// must never exceed the worker's batch size (batch-size-rule invariant).
// Implementations order the pending jobs and hand that ordering to this
// helper rather than calling s.Dispatch directly.
func dispatchAdmissible(s *Simulation, ordered []Job) {
	idle := s.AvailableWorkers()
	i := 0
	for _, w := range idle {
		if i >= len(ordered) {
			break
		}
		end := i + w.BatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		ids := make([]int64, 0, end-i)
		for _, j := range ordered[i:end] {
			ids = append(ids, j.ID)
		}
		s.Dispatch(w.ID, ids)
		i = end
	}
}

// FIFO dispatches pending jobs in arrival order, filling each available
// worker with up to BatchSize jobs.
type FIFO struct{}

func (FIFO) OnIncomingJobs(s *Simulation) { dispatchAdmissible(s, s.PendingJobs()) }
func (FIFO) OnBatchDone(s *Simulation, _ Batch) { dispatchAdmissible(s, s.PendingJobs()) }

// Random dispatches pending jobs in an order shuffled by the scheduler's
// own RNG stream (SubsystemScheduler), so its batching decisions never
// perturb the incoming-stream RNG or vice versa.
type Random struct{}

func (Random) OnIncomingJobs(s *Simulation) { dispatchAdmissible(s, shuffled(s)) }
func (Random) OnBatchDone(s *Simulation, _ Batch) { dispatchAdmissible(s, shuffled(s)) }

func shuffled(s *Simulation) []Job {
	pending := s.PendingJobs()
	ordered := append([]Job(nil), pending...)
	rng := s.RNG(SubsystemScheduler)
	rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	return ordered
}

// DeadlineAware ("percentile" policy) orders pending jobs with a deadline
// by latest safe start time — deadline minus the Percentile-quantile of the
// job's length distribution — ascending, so the job with the least slack
// before it would miss its deadline is dispatched first. It drains
// with_deadline jobs into idle workers first; only once that pass is done
// does it drain best_effort jobs into whatever workers are still idle, as
// two separate passes rather than one combined ordering — a with_deadline
// job never loses a worker slot to a best_effort job sharing its batch. The
// estimate deliberately uses the distribution's quantile, not the job's
// actual sampled length: a real scheduler only knows the distribution a
// job was drawn from, not how long it will actually take.
type DeadlineAware struct {
	Percentile float64
}

func (p DeadlineAware) OnIncomingJobs(s *Simulation)       { p.dispatch(s) }
func (p DeadlineAware) OnBatchDone(s *Simulation, _ Batch) { p.dispatch(s) }

func (p DeadlineAware) dispatch(s *Simulation) {
	withDeadline, bestEffort := splitByDeadline(s.PendingJobs())
	sortByLatestSafeStart(withDeadline, p.Percentile)
	dispatchAdmissible(s, withDeadline)
	dispatchAdmissible(s, bestEffort)
}

func splitByDeadline(jobs []Job) (withDeadline, bestEffort []Job) {
	for _, j := range jobs {
		if j.Deadline != nil {
			withDeadline = append(withDeadline, j)
		} else {
			bestEffort = append(bestEffort, j)
		}
	}
	return withDeadline, bestEffort
}

func sortByLatestSafeStart(jobs []Job, percentile float64) {
	sort.SliceStable(jobs, func(i, j int) bool {
		si := jobs[i].Deadline.Sub(jobs[i].ServiceDur.Quantile(percentile))
		sj := jobs[j].Deadline.Sub(jobs[j].ServiceDur.Quantile(percentile))
		if si != sj {
			return si.Before(sj)
		}
		return jobs[i].ID < jobs[j].ID
	})
}
