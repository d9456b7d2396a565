package sim

import (
	"math"
	"math/rand"
	"sort"
)

// RandomVariable is a tagged description of a scalar distribution, optionally
// composed with an affine transform applied after sampling: a Go kind tag
// plus per-kind fields stand in for the sum type Go doesn't have.
type RandomVariable struct {
	kind randVarKind

	constant float64

	low, high float64 // Uniform

	mean, stdDev float64 // Normal

	location, scale float64 // LogNormal

	lambda float64 // Exp

	samples []float64 // Empirical, kept sorted

	offset, factor float64 // Transformation; factor defaults to 1

	rawQuantile99 float64 // Exp only: cached quantile(0.99) on the untransformed distribution
}

type randVarKind int

const (
	kindConstant randVarKind = iota
	kindUniform
	kindNormal
	kindLogNormal
	kindExp
	kindEmpirical
)

// Transformation is the optional affine post-processing applied to a raw
// sample: v*factor + offset.
type Transformation struct {
	Offset float64
	Factor float64
}

func (t Transformation) apply(v float64) float64 {
	factor := t.Factor
	if factor == 0 {
		factor = 1
	}
	return v*factor + t.Offset
}

// NewConstant builds a RandomVariable that always samples c.
func NewConstant(c float64, trans Transformation) RandomVariable {
	return RandomVariable{kind: kindConstant, constant: trans.apply(c), offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}
}

// NewUniform builds a Uniform(low, high) RandomVariable. Requires low < high.
func NewUniform(low, high float64, trans Transformation) (RandomVariable, error) {
	if !(low < high) {
		return RandomVariable{}, newConfigError("uniform", "low (%v) must be < high (%v)", low, high)
	}
	return RandomVariable{kind: kindUniform, low: low, high: high, offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}, nil
}

// NewNormal builds a Normal(mean, stdDev) RandomVariable. Requires stdDev > 0.
func NewNormal(mean, stdDev float64, trans Transformation) (RandomVariable, error) {
	if !(stdDev > 0) {
		return RandomVariable{}, newConfigError("normal", "std_dev (%v) must be > 0", stdDev)
	}
	return RandomVariable{kind: kindNormal, mean: mean, stdDev: stdDev, offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}, nil
}

// NewLogNormal builds a LogNormal(location, scale) RandomVariable. Requires scale > 0.
func NewLogNormal(location, scale float64, trans Transformation) (RandomVariable, error) {
	if !(scale > 0) {
		return RandomVariable{}, newConfigError("log_normal", "scale (%v) must be > 0", scale)
	}
	return RandomVariable{kind: kindLogNormal, location: location, scale: scale, offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}, nil
}

// NewExp builds an Exp(lambda) RandomVariable. Requires lambda > 0. Caches
// quantile(0.99) eagerly since it is queried per-job on the deadline-aware
// scheduling hot path.
func NewExp(lambda float64, trans Transformation) (RandomVariable, error) {
	if !(lambda > 0) {
		return RandomVariable{}, newConfigError("exp", "lambda (%v) must be > 0", lambda)
	}
	rv := RandomVariable{kind: kindExp, lambda: lambda, offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}
	rv.rawQuantile99 = expInverseCDF(lambda, 0.99)
	return rv, nil
}

// NewEmpirical builds an Empirical RandomVariable sampling uniformly from
// samples. Requires a non-empty sample set.
func NewEmpirical(samples []float64, trans Transformation) (RandomVariable, error) {
	if len(samples) == 0 {
		return RandomVariable{}, newConfigError("empirical", "samples must be non-empty")
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return RandomVariable{kind: kindEmpirical, samples: sorted, offset: trans.Offset, factor: nonZeroFactor(trans.Factor)}, nil
}

func nonZeroFactor(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

func (rv RandomVariable) trans() Transformation {
	return Transformation{Offset: rv.offset, Factor: rv.factor}
}

// Sample draws one raw value and pairs it with rv as an Observation. Callers
// build an infinite sample stream by calling Sample repeatedly — Go has no
// generator syntax, so the stream is realized as a plain method called in
// a loop.
func (rv RandomVariable) Sample(rng *rand.Rand) Observation {
	var raw float64
	switch rv.kind {
	case kindConstant:
		return Observation{value: D(rv.constant), dist: rv}
	case kindUniform:
		raw = rv.low + rng.Float64()*(rv.high-rv.low)
	case kindNormal:
		raw = rng.NormFloat64()*rv.stdDev + rv.mean
	case kindLogNormal:
		raw = math.Exp(rng.NormFloat64()*rv.scale + rv.location)
	case kindExp:
		raw = rng.ExpFloat64() / rv.lambda
	case kindEmpirical:
		raw = rv.samples[rng.Intn(len(rv.samples))]
	}
	return Observation{value: D(rv.trans().apply(raw)), dist: rv}
}

// Quantile returns the inverse CDF at p in [0,1], after the affine
// transform. For Exp, p == 0.99 hits the cached value computed at
// construction time.
func (rv RandomVariable) Quantile(p float64) D {
	if rv.kind == kindExp && p == 0.99 {
		return D(rv.trans().apply(rv.rawQuantile99))
	}
	var raw float64
	switch rv.kind {
	case kindConstant:
		return D(rv.constant)
	case kindUniform:
		raw = rv.low + p*(rv.high-rv.low)
	case kindNormal:
		raw = rv.mean + rv.stdDev*math.Sqrt2*math.Erfinv(2*p-1)
	case kindLogNormal:
		raw = math.Exp(rv.location + rv.scale*math.Sqrt2*math.Erfinv(2*p-1))
	case kindExp:
		raw = expInverseCDF(rv.lambda, p)
	case kindEmpirical:
		return D(rv.trans().apply(empiricalQuantile(rv.samples, p)))
	}
	return D(rv.trans().apply(raw))
}

func expInverseCDF(lambda, p float64) float64 {
	if p >= 1 {
		return math.Inf(1)
	}
	return -math.Log(1-p) / lambda
}

// empiricalQuantile linearly interpolates between order statistics of the
// sorted sample set.
func empiricalQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Mean returns the distribution's mean after the affine transform.
func (rv RandomVariable) Mean() D {
	switch rv.kind {
	case kindConstant:
		return D(rv.constant)
	case kindUniform:
		return D(rv.trans().apply((rv.low + rv.high) / 2))
	case kindNormal:
		return D(rv.trans().apply(rv.mean))
	case kindLogNormal:
		return D(rv.trans().apply(math.Exp(rv.location + rv.scale*rv.scale/2)))
	case kindExp:
		return D(rv.trans().apply(1 / rv.lambda))
	case kindEmpirical:
		sum := 0.0
		for _, s := range rv.samples {
			sum += s
		}
		return D(rv.trans().apply(sum / float64(len(rv.samples))))
	}
	return 0
}

// Min returns the distribution's infimum after the affine transform.
func (rv RandomVariable) Min() D {
	switch rv.kind {
	case kindConstant:
		return D(rv.constant)
	case kindUniform:
		return D(rv.trans().apply(rv.low))
	case kindEmpirical:
		return D(rv.trans().apply(rv.samples[0]))
	default:
		// Normal/LogNormal/Exp are unbounded below (LogNormal/Exp at 0).
		if rv.kind == kindLogNormal || rv.kind == kindExp {
			return D(rv.trans().apply(0))
		}
		return D(math.Inf(-1))
	}
}

// Max returns the distribution's supremum after the affine transform.
func (rv RandomVariable) Max() D {
	switch rv.kind {
	case kindConstant:
		return D(rv.constant)
	case kindUniform:
		return D(rv.trans().apply(rv.high))
	case kindEmpirical:
		return D(rv.trans().apply(rv.samples[len(rv.samples)-1]))
	default:
		return D(math.Inf(1))
	}
}

// Observation pairs a sampled value with the RandomVariable it came from, so
// downstream code (deadline-aware scheduling) can ask Quantile on the same
// distribution without re-parsing config.
type Observation struct {
	value D
	dist  RandomVariable
}

// Value returns the sampled duration.
func (o Observation) Value() D { return o.value }

// Dist returns the distribution the sample was drawn from.
func (o Observation) Dist() RandomVariable { return o.dist }

// Quantile delegates to the originating distribution.
func (o Observation) Quantile(p float64) D { return o.dist.Quantile(p) }
