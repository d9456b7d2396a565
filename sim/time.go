// Package sim implements the discrete-event core of InferSim: the event
// queue and driver loop, the admission and job lifecycle, the worker
// timeline, the pluggable scheduler contract, and the random-variate
// producer that drives interarrivals and service times. Everything in this
// package is single-threaded and allocation-light on the hot path; output
// rendering and configuration loading live in sibling packages.
package sim

import "math"

// T is a virtual simulation timestamp. Comparisons (Before, After, ==) are
// ordinary float64 comparisons, not IEEE total order: NaN is unordered
// under them, so callers must reject NaN at the config boundary (see
// Config.Validate) before it reaches T.
type T float64

// D is a simulation duration: the difference of two T values, or a
// standalone span (a job's service time, a batch latency).
type D float64

// Add returns t+d.
func (t T) Add(d D) T { return T(float64(t) + float64(d)) }

// Sub returns t-d.
func (t T) Sub(d D) T { return T(float64(t) - float64(d)) }

// Since returns t-other as a Duration.
func (t T) Since(other T) D { return D(float64(t) - float64(other)) }

// Before reports whether t orders strictly before other.
func (t T) Before(other T) bool { return float64(t) < float64(other) }

// After reports whether t orders strictly after other.
func (t T) After(other T) bool { return float64(t) > float64(other) }

// Scale returns d scaled by a dimensionless factor.
func (d D) Scale(factor float64) D { return D(float64(d) * factor) }

// IsValidTime reports whether v is usable as a T (finite, not NaN).
func IsValidTime(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// TimeInterval represents the half-open span [Start, Start+Size).
// Size must be non-negative; an interval with Size == 0 is empty and never
// overlaps anything, including itself.
type TimeInterval struct {
	Start T
	Size  D
}

// End returns the interval's exclusive upper bound.
func (iv TimeInterval) End() T { return iv.Start.Add(iv.Size) }

// IsEmpty reports whether the interval spans zero duration.
func (iv TimeInterval) IsEmpty() bool { return iv.Size == 0 }

// Overlaps reports whether iv and other share any instant, using half-open
// semantics so adjacent intervals (one ending exactly where the other
// starts) never collide.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	if iv.IsEmpty() || other.IsEmpty() {
		return false
	}
	return iv.Start.Before(other.End()) && other.Start.Before(iv.End())
}

// Before reports whether iv orders strictly before other, by Start then End.
// Used to keep a Timeline's interval slice sorted.
func (iv TimeInterval) Before(other TimeInterval) bool {
	if iv.Start != other.Start {
		return iv.Start.Before(other.Start)
	}
	return iv.End().Before(other.End())
}
