package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stepCmd is reserved for single-event stepping through a simulation
// (useful for interactive debugging of scheduler decisions). Not yet
// implemented: sim.Simulation currently only exposes Run(), which drives
// to completion; a PopOne()-style single-step entry point would need its
// own exported method on Simulation before this command can do anything
// beyond loading config.
var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Step through a simulation one event at a time (not yet implemented)",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		logrus.Fatalf("step is not yet implemented")
	},
}
