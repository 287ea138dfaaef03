package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/observability"
	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/types"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank jobs for a candidate from a JSON request file",
	Long:  "Scores the candidate in a MatchRequest JSON file against each of its jobs and writes a MatchResponse sorted by descending match score.",
	RunE:  runMatch,
}

var (
	matchRequest string
	matchOutput  string
	matchTop     int
	matchVerbose bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchRequest, "request", "r", "", "Path to input MatchRequest JSON file (required)")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output MatchResponse JSON file (default stdout)")
	matchCmd.Flags().IntVar(&matchTop, "top", 0, "Keep only the best N matches (0 keeps all)")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print a summary of the ranking to stderr")

	if err := matchCmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	resp, err := matchFile(cmd.Context(), cfg, matchRequest, matchTop)
	if err != nil {
		return err
	}

	if matchVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatches(resp)
	}

	if err := writeJSON(cmd.OutOrStdout(), matchOutput, resp); err != nil {
		return err
	}
	if matchOutput != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d jobs to %s\n", resp.TotalMatches, matchOutput)
	}
	return nil
}

// matchFile loads and checks a MatchRequest file and ranks its jobs with the
// configured weights.
func matchFile(ctx context.Context, cfg *config.Config, path string, top int) (*types.MatchResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateInput(resolveSchemasDir(cfg.SchemasDir), schemas.MatchRequestSchema, path); err != nil {
		return nil, err
	}

	var req types.MatchRequest
	if err := readJSONFile(path, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match request: %w", err)
	}

	ranker := ranking.NewRanker(
		ranking.WithWeights(cfg.Weights),
		ranking.WithWorkers(cfg.Workers),
	)
	resp, err := ranker.RankJobs(ctx, *req.Candidate, req.Jobs)
	if err != nil {
		return nil, err
	}

	if top > 0 {
		resp.Matches = ranking.TopN(resp.Matches, top)
		resp.TotalMatches = len(resp.Matches)
	}
	return resp, nil
}
