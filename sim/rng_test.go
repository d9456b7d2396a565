package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulationKey_DeterministicForSameSeed(t *testing.T) {
	a := SimulationKey("stripy zebra")
	b := SimulationKey("stripy zebra")
	assert.Equal(t, a, b)
}

func TestSimulationKey_DiffersAcrossSeeds(t *testing.T) {
	a := SimulationKey("stripy zebra")
	b := SimulationKey("quiet ocelot")
	assert.NotEqual(t, a, b)
}

func TestPartitionedRNG_SubsystemsAreIndependentButStable(t *testing.T) {
	key := SimulationKey("stripy zebra")
	p1 := NewPartitionedRNG(key)
	p2 := NewPartitionedRNG(key)

	// Drawing from the scheduler stream on p1 must not disturb what the
	// incoming stream would have drawn — verified by checking p2 (fresh,
	// untouched) reproduces the same incoming draws as p1 after an
	// unrelated scheduler draw.
	_ = p1.ForSubsystem(SubsystemScheduler).Float64()
	a := p1.ForSubsystem(SubsystemIncoming).Float64()
	b := p2.ForSubsystem(SubsystemIncoming).Float64()

	assert.Equal(t, a, b)
}

func TestPartitionedRNG_SameSubsystemReturnsSameStream(t *testing.T) {
	p := NewPartitionedRNG(SimulationKey("seed"))
	r1 := p.ForSubsystem(SubsystemIncoming)
	r2 := p.ForSubsystem(SubsystemIncoming)
	assert.Same(t, r1, r2)
}
