package configio

import "github.com/inference-sim/infersim/sim"

// Preset is a named fragment of configuration layered over a loaded base
// config — only the fields a preset sets are non-zero; it never has to
// restate the whole document.
type Preset struct {
	Scheduler *sim.SchedulerConfig
	End       *sim.EndCondition
}

func (p Preset) layer(base sim.Config) sim.Config {
	if p.Scheduler != nil {
		base.Scheduler = *p.Scheduler
	}
	if p.End != nil {
		base.End = *p.End
	}
	return base
}

// Presets is the built-in preset catalog, expressed as Go values rather
// than a second config file, since these presets only ever override
// scheduler/end-condition concerns and have no natural home alongside the
// larger user config.
var Presets = map[string]Preset{
	"fifo-until-drained": {
		Scheduler: &sim.SchedulerConfig{Kind: sim.SchedulerFIFO},
		End:       &sim.EndCondition{Kind: sim.EndNoEvents},
	},
	"deadline-aware-until-drained": {
		Scheduler: &sim.SchedulerConfig{Kind: sim.SchedulerDeadlineAware, Percentile: 0.5},
		End:       &sim.EndCondition{Kind: sim.EndNoEvents},
	},
}
