package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/infersim/configio"
	"github.com/inference-sim/infersim/render"
	"github.com/inference-sim/infersim/sim"
)

var (
	timelinePath string
	jobsCSVPath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation to completion",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if configPath == "" {
			logrus.Fatalf("--config is required")
		}

		cfg, err := configio.Load(configPath, presetName)
		if err != nil {
			logrus.Fatalf("failed to load config: %v", err)
		}

		s, err := sim.NewSimulation(cfg)
		if err != nil {
			logrus.Fatalf("failed to build simulation: %v", err)
		}

		logrus.Infof("starting simulation: seed=%q scheduler=%s workers=%d", cfg.Seed, cfg.Scheduler.Kind, len(cfg.Workers))
		summary := s.Run()
		logrus.Infof("simulation complete: clock=%v done=%d past_due=%d", summary.FinalClock, summary.DoneCount, summary.PastDueCount)

		if timelinePath != "" {
			if err := writeFile(timelinePath, func(f *os.File) error {
				return render.ChromeTrace(s.Trace(), cfg, f)
			}); err != nil {
				logrus.Fatalf("failed to write timeline: %v", err)
			}
		}
		if jobsCSVPath != "" {
			if err := writeFile(jobsCSVPath, func(f *os.File) error {
				return render.JobsCSV(s.Trace(), f)
			}); err != nil {
				logrus.Fatalf("failed to write jobs csv: %v", err)
			}
		}
	},
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func init() {
	runCmd.Flags().StringVar(&timelinePath, "timeline", "", "Path to write the Chrome Trace Event JSON timeline")
	runCmd.Flags().StringVar(&jobsCSVPath, "jobs-csv", "", "Path to write a per-job CSV summary")
}
