package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/infersim/configio"
)

// configCmd loads, validates, and dumps the effective configuration to
// stdout.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Load and print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if configPath == "" {
			logrus.Fatalf("--config is required")
		}

		cfg, err := configio.Load(configPath, presetName)
		if err != nil {
			logrus.Fatalf("failed to load config: %v", err)
		}

		out, err := configio.Dump(cfg)
		if err != nil {
			logrus.Fatalf("failed to dump config: %v", err)
		}
		fmt.Print(out)
	},
}
