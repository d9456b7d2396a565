package sim

import (
	"container/heap"
	"math"
	"math/rand"
)

// IncomingJob is a job as produced by a Generator, before admission has
// assigned it simulation-wide bookkeeping.
type IncomingJob struct {
	ID         int64
	ArrivesAt  T
	ServiceDur Observation // pairs the sampled length with its source distribution
	Deadline   *D          // relative to ArrivesAt; nil means no deadline
}

// Generator produces an ordered-by-arrival-time stream of IncomingJobs. Go
// has no coroutine/generator syntax, so each Generator implementation holds
// whatever state it needs and exposes Next instead of a channel-based
// producer (channels would force a goroutine per stream, at odds with the
// core's single-threaded design).
type Generator interface {
	// Next returns the next job in arrival order, or ok=false if the
	// generator is exhausted.
	Next() (IncomingJob, bool)
}

// OneBatch emits count jobs all arriving at the same instant, each job's
// service time drawn independently from dur.
type OneBatch struct {
	at       T
	count    int
	dur      RandomVariable
	deadline *RandomVariable
	rng      *rand.Rand

	emitted int
	nextID  int64
}

// NewOneBatch builds a OneBatch generator. Job ids start at startID and
// increment by one per job. If deadline is non-nil, each job's relative
// deadline is sampled independently from it.
func NewOneBatch(at T, count int, dur RandomVariable, deadline *RandomVariable, startID int64, rng *rand.Rand) *OneBatch {
	return &OneBatch{at: at, count: count, dur: dur, deadline: deadline, rng: rng, nextID: startID}
}

func (g *OneBatch) Next() (IncomingJob, bool) {
	if g.emitted >= g.count {
		return IncomingJob{}, false
	}
	g.emitted++
	job := IncomingJob{ID: g.nextID, ArrivesAt: g.at, ServiceDur: g.dur.Sample(g.rng), Deadline: sampleDeadline(g.deadline, g.rng)}
	g.nextID++
	return job, true
}

func sampleDeadline(rv *RandomVariable, rng *rand.Rand) *D {
	if rv == nil {
		return nil
	}
	v := rv.Sample(rng).Value()
	return &v
}

// Rate emits an unbounded stream of jobs at a configured arrival rate, per
// jobs sharing each arrival instant before the next gap is drawn. Bursty
// draws inter-arrival gaps from Exp(rate) (i.e. -ln(U)/rate); non-bursty
// uses a constant gap of 1/rate.
type Rate struct {
	rate     float64
	per      int
	bursty   bool
	dur      RandomVariable
	deadline *RandomVariable
	rng      *rand.Rand
	endAt    *T // exclusive upper bound on ArrivesAt; nil means unbounded

	next    T
	nextID  int64
	emitted int // jobs emitted at next so far, reset once a gap advances next
}

// NewRate builds a Rate generator. Job ids start at startID and increment
// by one per job. per is how many jobs share each arrival instant before
// the next gap is drawn; endAt, if non-nil, stops generation once the next
// arrival would land at or after it. If deadline is non-nil, each job's
// relative deadline is sampled independently from it.
func NewRate(start T, rate float64, per int, bursty bool, dur RandomVariable, deadline *RandomVariable, startID int64, rng *rand.Rand, endAt *T) *Rate {
	return &Rate{rate: rate, per: per, bursty: bursty, dur: dur, deadline: deadline, rng: rng, endAt: endAt, next: start, nextID: startID}
}

func (g *Rate) Next() (IncomingJob, bool) {
	if g.endAt != nil && !g.next.Before(*g.endAt) {
		return IncomingJob{}, false
	}
	arrival := g.next
	job := IncomingJob{ID: g.nextID, ArrivesAt: arrival, ServiceDur: g.dur.Sample(g.rng), Deadline: sampleDeadline(g.deadline, g.rng)}
	g.nextID++
	g.emitted++

	if g.emitted < g.per {
		return job, true
	}

	var gap D
	if g.bursty {
		gap = D(-logUniform01(g.rng) / g.rate)
	} else {
		gap = D(1 / g.rate)
	}
	g.next = g.next.Add(gap)
	g.emitted = 0
	return job, true
}

func logUniform01(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return math.Log(u)
}

// MergeByArrival merges multiple Generators into a single stream ordered by
// ArrivesAt, breaking ties by the order the generators were supplied in
// (the first generator's job sorts first). Each child generator i is
// expected to have been constructed with job ids drawn from
// [i*1_000_000, (i+1)*1_000_000), so merged ids stay globally unique and
// stream-of-origin is recoverable from a job's id.
func MergeByArrival(gens []Generator) Generator {
	m := &mergedGenerator{}
	for i, g := range gens {
		job, ok := g.Next()
		if !ok {
			continue
		}
		heap.Push(&m.items, mergeItem{job: job, gen: g, genIdx: i})
	}
	heap.Init(&m.items)
	return m
}

type mergedGenerator struct {
	items mergeHeap
}

func (m *mergedGenerator) Next() (IncomingJob, bool) {
	if len(m.items) == 0 {
		return IncomingJob{}, false
	}
	top := heap.Pop(&m.items).(mergeItem)
	if next, ok := top.gen.Next(); ok {
		heap.Push(&m.items, mergeItem{job: next, gen: top.gen, genIdx: top.genIdx})
	}
	return top.job, true
}

type mergeItem struct {
	job    IncomingJob
	gen    Generator
	genIdx int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].job.ArrivesAt != h[j].job.ArrivesAt {
		return h[i].job.ArrivesAt.Before(h[j].job.ArrivesAt)
	}
	return h[i].genIdx < h[j].genIdx
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
