package sim

// Job is an IncomingJob after admission: it carries an absolute deadline
// (rather than a relative one) and the bookkeeping the simulator mutates
// across its lifecycle.
type Job struct {
	ID         int64
	ArrivesAt  T
	ServiceDur Observation // pairs the sampled length with its source distribution
	Deadline   *T          // absolute; nil means no deadline

	// StartedAt and BatchID are set once the job is dispatched as part of
	// a Batch; both are zero-valued until then.
	StartedAt T
	BatchID   int64
}

// admit converts an IncomingJob into a Job, turning its relative deadline
// into an absolute one measured from the job's ArrivesAt.
func admit(ij IncomingJob) Job {
	job := Job{ID: ij.ID, ArrivesAt: ij.ArrivesAt, ServiceDur: ij.ServiceDur}
	if ij.Deadline != nil {
		deadline := ij.ArrivesAt.Add(*ij.Deadline)
		job.Deadline = &deadline
	}
	return job
}

// PastDue reports whether job is past its deadline as of clock: a job is
// past due once the clock has reached or passed its deadline
// (clock >= deadline).
func (j Job) PastDue(clock T) bool {
	if j.Deadline == nil {
		return false
	}
	return !clock.Before(*j.Deadline)
}

// Batch is a set of Jobs dispatched together to one Worker, running for the
// duration of the slowest constituent job's service time.
type Batch struct {
	ID       int64
	WorkerID int
	Jobs     []Job
	Interval TimeInterval
}

// Duration returns the batch's total run length: the maximum ServiceDur
// among its jobs, since all jobs in a batch complete together when the
// slowest one finishes.
func (b Batch) Duration() D {
	var max D
	for _, j := range b.Jobs {
		if v := j.ServiceDur.Value(); v > max {
			max = v
		}
	}
	return max
}
