// Package ranking runs the match engine over batches of jobs or candidates and orders the results.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match/internal/matching"
	"github.com/jonathan/job-match/internal/types"
)

// Ranker scores batches of candidate/job pairs and sorts them best-first.
type Ranker struct {
	weights types.WeightConfig
	workers int
	cache   Cache
	logger  *zap.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWeights overrides the default weight configuration.
func WithWeights(w types.WeightConfig) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// WithWorkers caps the number of concurrent scoring goroutines.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(r *Ranker) {
		r.cache = c
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRanker creates a Ranker using the default weights unless overridden.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		weights: matching.DefaultWeights(),
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Weights returns the weight configuration the ranker scores with.
func (r *Ranker) Weights() types.WeightConfig {
	return r.weights
}

// RankJobs scores every job for one candidate and returns the matches sorted by
// descending score, ties broken by ascending job ID.
func (r *Ranker) RankJobs(ctx context.Context, candidate types.Candidate, jobs []types.Job) (*types.MatchResponse, error) {
	results := make([]types.MatchResult, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.score(gCtx, candidate, jobs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to rank jobs: %w", err)
	}

	SortByScore(results, func(m types.MatchResult) string { return m.JobID })

	return &types.MatchResponse{Matches: results, TotalMatches: len(results)}, nil
}

// RankCandidates scores every candidate for one job and returns the matches sorted by
// descending score, ties broken by ascending candidate ID.
func (r *Ranker) RankCandidates(ctx context.Context, job types.Job, candidates []types.Candidate) ([]types.MatchResult, error) {
	results := make([]types.MatchResult, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = r.score(gCtx, candidates[i], job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	SortByScore(results, func(m types.MatchResult) string { return m.CandidateID })

	return results, nil
}

// score runs the engine for one pair, consulting the cache when one is configured.
// Cache failures are logged and otherwise ignored.
func (r *Ranker) score(ctx context.Context, candidate types.Candidate, job types.Job) types.MatchResult {
	if r.cache == nil {
		return matching.CalculateMatch(candidate, job, r.weights)
	}

	key, err := CacheKey(candidate, job, r.weights)
	if err != nil {
		r.logger.Warn("failed to derive cache key", zap.String("job_id", job.JobID), zap.Error(err))
		return matching.CalculateMatch(candidate, job, r.weights)
	}

	cached, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("match cache read failed", zap.String("job_id", job.JobID), zap.Error(err))
	}
	if found {
		return *cached
	}

	result := matching.CalculateMatch(candidate, job, r.weights)
	if err := r.cache.Set(ctx, key, &result); err != nil {
		r.logger.Warn("match cache write failed", zap.String("job_id", job.JobID), zap.Error(err))
	}
	return result
}

// SortByScore orders results by descending match score. Equal scores are ordered
// by ascending tieKey so the output is deterministic.
func SortByScore(results []types.MatchResult, tieKey func(types.MatchResult) string) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return tieKey(results[i]) < tieKey(results[j])
	})
}

// TopN returns at most n results from an already sorted slice. n <= 0 returns all.
func TopN(results []types.MatchResult, n int) []types.MatchResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
