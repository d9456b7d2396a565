package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneBatch_EmitsExactCountAtSameInstant(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))
	gen := NewOneBatch(T(100), 3, dur, nil, 0, rng)

	var jobs []IncomingJob
	for {
		j, ok := gen.Next()
		if !ok {
			break
		}
		jobs = append(jobs, j)
	}

	require.Len(t, jobs, 3)
	for _, j := range jobs {
		assert.Equal(t, T(100), j.ArrivesAt)
	}
	assert.Equal(t, int64(0), jobs[0].ID)
	assert.Equal(t, int64(1), jobs[1].ID)
	assert.Equal(t, int64(2), jobs[2].ID)
}

func TestRate_NonBurstyIsEvenlySpaced(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))
	end := T(5)
	gen := NewRate(T(0), 2, 1, false, dur, nil, 0, rng, &end)

	var arrivals []T
	for {
		j, ok := gen.Next()
		if !ok {
			break
		}
		arrivals = append(arrivals, j.ArrivesAt)
	}

	require.Len(t, arrivals, 10)
	for i, a := range arrivals {
		assert.InDelta(t, float64(i)*0.5, float64(a), 1e-9)
	}
}

func TestRate_BurstyVariesGaps(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))
	end := T(1000)
	gen := NewRate(T(0), 10, 1, true, dur, nil, 0, rng, &end)

	var arrivals []T
	for i := 0; i < 20; i++ {
		j, ok := gen.Next()
		require.True(t, ok)
		arrivals = append(arrivals, j.ArrivesAt)
	}

	distinct := map[float64]bool{}
	for i := 1; i < len(arrivals); i++ {
		gap := float64(arrivals[i] - arrivals[i-1])
		distinct[gap] = true
		assert.Greater(t, gap, 0.0)
	}
	assert.Greater(t, len(distinct), 1, "bursty arrivals should not all have the same gap")
}

func TestRate_PerEmitsMultipleJobsAtSameArrival(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))
	end := T(5)
	gen := NewRate(T(0), 2, 3, false, dur, nil, 0, rng, &end)

	var arrivals []T
	var ids []int64
	for {
		j, ok := gen.Next()
		if !ok {
			break
		}
		arrivals = append(arrivals, j.ArrivesAt)
		ids = append(ids, j.ID)
	}

	require.Len(t, arrivals, 30, "3 jobs per tick across 10 ticks before end=5")
	for i := 0; i < 10; i++ {
		tick := arrivals[i*3]
		assert.Equal(t, tick, arrivals[i*3+1], "jobs sharing a tick share an arrival time")
		assert.Equal(t, tick, arrivals[i*3+2], "jobs sharing a tick share an arrival time")
		assert.InDelta(t, float64(i)*0.5, float64(tick), 1e-9)
	}
	for i, id := range ids {
		assert.Equal(t, int64(i), id, "ids still increment by one per job regardless of per")
	}
}

func TestMergeByArrival_OrdersAcrossGenerators(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))

	a := NewOneBatch(T(5), 1, dur, nil, 0, rng)
	b := NewOneBatch(T(1), 1, dur, nil, 1_000_000, rng)

	merged := MergeByArrival([]Generator{a, b})

	first, ok := merged.Next()
	require.True(t, ok)
	assert.Equal(t, T(1), first.ArrivesAt)
	assert.Equal(t, int64(1_000_000), first.ID)

	second, ok := merged.Next()
	require.True(t, ok)
	assert.Equal(t, T(5), second.ArrivesAt)

	_, ok = merged.Next()
	assert.False(t, ok)
}

func TestMergeByArrival_TiesBreakByGeneratorOrder(t *testing.T) {
	dur := NewConstant(1, Transformation{})
	rng := rand.New(rand.NewSource(1))

	a := NewOneBatch(T(3), 1, dur, nil, 0, rng)
	b := NewOneBatch(T(3), 1, dur, nil, 1_000_000, rng)

	merged := MergeByArrival([]Generator{a, b})

	first, ok := merged.Next()
	require.True(t, ok)
	assert.Equal(t, int64(0), first.ID, "first generator supplied wins ties")
}
