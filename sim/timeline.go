package sim

import "sort"

// Timeline tracks a worker's committed, non-overlapping TimeIntervals in
// sorted order, supporting O(log n) overlap queries via binary search.
type Timeline struct {
	intervals []TimeInterval
}

// Occupied reports whether iv overlaps any interval already committed to
// the timeline.
func (tl *Timeline) Occupied(iv TimeInterval) bool {
	i := sort.Search(len(tl.intervals), func(i int) bool {
		return tl.intervals[i].End().After(iv.Start) || tl.intervals[i].End() == iv.Start
	})
	for j := i; j < len(tl.intervals) && tl.intervals[j].Start.Before(iv.End()); j++ {
		if tl.intervals[j].Overlaps(iv) {
			return true
		}
	}
	return false
}

// Insert commits iv to the timeline. Panics with InvalidState if iv
// overlaps an existing interval — the scheduler contract
// guarantees this never happens for conforming schedulers.
func (tl *Timeline) Insert(iv TimeInterval) {
	if tl.Occupied(iv) {
		invalidState("worker timeline: interval %+v overlaps an existing commitment", iv)
	}
	i := sort.Search(len(tl.intervals), func(i int) bool {
		return iv.Before(tl.intervals[i])
	})
	tl.intervals = append(tl.intervals, TimeInterval{})
	copy(tl.intervals[i+1:], tl.intervals[i:])
	tl.intervals[i] = iv
}

// Remove drops the exact interval iv from the timeline. It is a no-op if
// iv is not present (callers only ever remove intervals they themselves
// inserted).
func (tl *Timeline) Remove(iv TimeInterval) {
	i := sort.Search(len(tl.intervals), func(i int) bool {
		return !tl.intervals[i].Before(iv)
	})
	if i < len(tl.intervals) && tl.intervals[i] == iv {
		tl.intervals = append(tl.intervals[:i], tl.intervals[i+1:]...)
	}
}

// IdleSince returns the timestamp at or after which the worker has been
// idle, given the current clock, judged only from the intervals still
// committed. If the last committed interval ends at or before clock, its
// end is the idle-since point; if no interval is committed (none was ever
// inserted, or all have been removed), it returns T(0), the simulation's
// own start.
func (tl *Timeline) IdleSince(clock T) T {
	if len(tl.intervals) == 0 {
		return T(0)
	}
	last := tl.intervals[len(tl.intervals)-1]
	if last.End().After(clock) {
		invalidState("worker timeline: IdleSince queried at %v while occupied until %v", clock, last.End())
	}
	return last.End()
}

// Busy reports whether the worker has any committed interval covering clock.
func (tl *Timeline) Busy(clock T) bool {
	i := sort.Search(len(tl.intervals), func(i int) bool {
		return tl.intervals[i].End().After(clock)
	})
	return i < len(tl.intervals) && !tl.intervals[i].Start.After(clock)
}

// Worker identifies one of the simulation's fixed worker slots and owns its
// Timeline. Per the Non-goals, workers never differ in their service
// distribution — batch_size is the only axis of heterogeneity the fleet
// supports.
type Worker struct {
	ID        int
	BatchSize int
	Timeline  Timeline
}
