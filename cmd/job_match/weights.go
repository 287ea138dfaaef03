package main

import (
	"github.com/jonathan/job-match/internal/observability"
	"github.com/jonathan/job-match/internal/types"
	"github.com/spf13/cobra"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the active match weights",
	Long:  "Prints the weight configuration the engine applies after defaults, the config file and the environment are merged.",
	RunE:  runWeights,
}

var weightsTable bool

func init() {
	weightsCmd.Flags().BoolVar(&weightsTable, "table", false, "Print a table instead of JSON")
	rootCmd.AddCommand(weightsCmd)
}

func runWeights(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	if weightsTable {
		observability.NewPrinter(cmd.OutOrStdout()).PrintWeights(cfg.Weights)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), "", types.NewWeightsResponse(cfg.Weights))
}
