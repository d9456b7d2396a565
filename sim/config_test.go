package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Seed: "stripy zebra",
		End:  EndCondition{Kind: EndNoEvents},
		Incoming: []IncomingConfig{
			{Kind: IncomingOneBatch, At: 0, Count: 4, Service: RandVarConfig{Kind: RandVarConstant, Value: 1}},
		},
		Scheduler: SchedulerConfig{Kind: SchedulerFIFO},
		Workers:   []WorkerConfig{{ID: 0, BatchSize: 2}, {ID: 1, BatchSize: 2}},
	}
}

func TestConfig_ValidateAcceptsWellFormedConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_ValidateRejectsEmptySeed(t *testing.T) {
	c := validConfig()
	c.Seed = ""
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsEmptyWorkers(t *testing.T) {
	c := validConfig()
	c.Workers = nil
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsNonPositiveBatchSize(t *testing.T) {
	c := validConfig()
	c.Workers[0].BatchSize = 0
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsDeadlineAwareWithoutPercentile(t *testing.T) {
	c := validConfig()
	c.Scheduler.Kind = SchedulerDeadlineAware
	c.Scheduler.Percentile = 0
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateAcceptsDeadlineAwareWithPercentile(t *testing.T) {
	c := validConfig()
	c.Scheduler.Kind = SchedulerDeadlineAware
	c.Scheduler.Percentile = 0.5
	assert.NoError(t, c.Validate())
}

func TestConfig_ValidateRejectsUnknownSchedulerKind(t *testing.T) {
	c := validConfig()
	c.Scheduler.Kind = "bogus"
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsMaxTimeWithoutPositiveValue(t *testing.T) {
	c := validConfig()
	c.End = EndCondition{Kind: EndMaxTime, MaxTime: 0}
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsBadDistributionParams(t *testing.T) {
	c := validConfig()
	c.Incoming[0].Service = RandVarConfig{Kind: RandVarUniform, Low: 5, High: 1}
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsNaNMaxTime(t *testing.T) {
	c := validConfig()
	c.End = EndCondition{Kind: EndMaxTime, MaxTime: D(math.NaN())}
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsNaNIncomingAt(t *testing.T) {
	c := validConfig()
	c.Incoming[0].At = T(math.NaN())
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsNaNEndAt(t *testing.T) {
	c := validConfig()
	endAt := T(math.NaN())
	c.Incoming[0].EndAt = &endAt
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRejectsRateWithoutPer(t *testing.T) {
	c := validConfig()
	c.Incoming[0] = IncomingConfig{Kind: IncomingRate, At: 0, Rate: 1, Service: RandVarConfig{Kind: RandVarConstant, Value: 1}}
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateAcceptsRateWithPer(t *testing.T) {
	c := validConfig()
	c.Incoming[0] = IncomingConfig{Kind: IncomingRate, At: 0, Rate: 1, Per: 2, Service: RandVarConfig{Kind: RandVarConstant, Value: 1}}
	assert.NoError(t, c.Validate())
}

func TestRandVarConfig_BuildRoundTripsConstant(t *testing.T) {
	rv, err := RandVarConfig{Kind: RandVarConstant, Value: 3}.Build()
	require.NoError(t, err)
	assert.Equal(t, D(3), rv.Mean())
}
