package main

import (
	"fmt"

	"github.com/jonathan/job-match/internal/observability"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/types"
	"github.com/spf13/cobra"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Analyze the skills gap between a candidate and a target role",
	Long:  "Reads a GapAnalysisRequest JSON file and writes readiness metrics, a phased learning roadmap, radar chart data and a salary projection.",
	RunE:  runGap,
}

var (
	gapRequest  string
	gapOutput   string
	gapTaxonomy string
	gapVerbose  bool
)

func init() {
	gapCmd.Flags().StringVarP(&gapRequest, "request", "r", "", "Path to input GapAnalysisRequest JSON file (required)")
	gapCmd.Flags().StringVarP(&gapOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	gapCmd.Flags().StringVar(&gapTaxonomy, "taxonomy", "", "Skill taxonomy JSON file (overrides taxonomy-file)")
	gapCmd.Flags().BoolVarP(&gapVerbose, "verbose", "v", false, "Print a summary of the analysis to stderr")

	if err := gapCmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}

	rootCmd.AddCommand(gapCmd)
}

func runGap(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	taxonomyFile := cfg.TaxonomyFile
	if gapTaxonomy != "" {
		taxonomyFile = gapTaxonomy
	}

	result, err := analyzeFile(resolveSchemasDir(cfg.SchemasDir), taxonomyFile, gapRequest)
	if err != nil {
		return err
	}

	if gapVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintGapAnalysis(result)
	}

	return writeJSON(cmd.OutOrStdout(), gapOutput, result)
}

// analyzeFile loads and checks a GapAnalysisRequest file and runs the analyzer.
func analyzeFile(schemasDir, taxonomyFile, path string) (*types.GapAnalysisResult, error) {
	if err := validateInput(schemasDir, schemas.GapRequestSchema, path); err != nil {
		return nil, err
	}

	var req types.GapAnalysisRequest
	if err := readJSONFile(path, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gap analysis request: %w", err)
	}

	analyzer, err := newAnalyzer(taxonomyFile)
	if err != nil {
		return nil, err
	}

	result := analyzer.Analyze(req)
	return &result, nil
}
