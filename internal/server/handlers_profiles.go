package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/types"
	"go.uber.org/zap"
)

// handleCandidateMatches ranks open jobs for a stored candidate and records the results.
func (s *Server) handleCandidateMatches(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "profile store"})
		return
	}

	id := r.PathValue("id")
	if id == "" {
		s.writeError(w, &ErrValidation{Field: "id", Message: "is required"})
		return
	}

	ctx := r.Context()
	candidate, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidate == nil {
		s.writeError(w, &ErrNotFound{Resource: "candidate", ID: id})
		return
	}

	jobs, err := listAll(ctx, s.pageSize, s.store.ListOpenJobs, func(j types.Job) string { return j.JobID })
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.ranker.RankJobs(ctx, *candidate, jobs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A failed write does not invalidate the freshly computed ranking
	if err := s.store.SaveMatchResults(ctx, candidate.ID, resp.Matches); err != nil {
		s.logger.Error("saving match results",
			zap.String("candidate_id", candidate.ID),
			zap.Int("matches", len(resp.Matches)),
			zap.Error(err),
		)
	}

	if n, ok := topParam(r); ok {
		resp.Matches = ranking.TopN(resp.Matches, n)
		resp.TotalMatches = len(resp.Matches)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// CandidateRankingResponse is the employer view of candidates for one job.
type CandidateRankingResponse struct {
	JobID           string              `json:"job_id"`
	Candidates      []types.MatchResult `json:"candidates"`
	TotalCandidates int                 `json:"total_candidates"`
}

// handleJobCandidates ranks stored candidates for one job. Routed behind the
// employer auth chain.
func (s *Server) handleJobCandidates(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "profile store"})
		return
	}

	jobID := r.PathValue("id")
	if jobID == "" {
		s.writeError(w, &ErrValidation{Field: "id", Message: "is required"})
		return
	}

	ctx := r.Context()
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if job == nil {
		s.writeError(w, &ErrNotFound{Resource: "job", ID: jobID})
		return
	}

	candidates, err := listAll(ctx, s.pageSize, s.store.ListCandidates, func(c types.Candidate) string { return c.ID })
	if err != nil {
		s.writeError(w, err)
		return
	}

	results, err := s.ranker.RankCandidates(ctx, *job, candidates)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if n, ok := topParam(r); ok {
		results = ranking.TopN(results, n)
	}

	s.jsonResponse(w, http.StatusOK, CandidateRankingResponse{
		JobID:           jobID,
		Candidates:      results,
		TotalCandidates: len(results),
	})
}

// CandidateHistoryResponse lists the stored results of earlier rankings for a candidate.
type CandidateHistoryResponse struct {
	CandidateID  string              `json:"candidate_id"`
	Matches      []types.StoredMatch `json:"matches"`
	TotalMatches int                 `json:"total_matches"`
}

// handleCandidateMatchHistory returns the results saved by earlier calls to
// handleCandidateMatches, best score first, without recomputing anything.
func (s *Server) handleCandidateMatchHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "profile store"})
		return
	}

	id := r.PathValue("id")
	ctx := r.Context()
	candidate, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidate == nil {
		s.writeError(w, &ErrNotFound{Resource: "candidate", ID: id})
		return
	}

	matches, err := s.store.ListMatchResults(ctx, candidate.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if n, ok := topParam(r); ok && n < len(matches) {
		matches = matches[:n]
	}

	s.jsonResponse(w, http.StatusOK, CandidateHistoryResponse{
		CandidateID:  candidate.ID,
		Matches:      matches,
		TotalMatches: len(matches),
	})
}

// listAll walks a paged store listing until it comes back empty, so ranking
// always sees every row no matter how many there are.
func listAll[T any](ctx context.Context, pageSize int,
	list func(ctx context.Context, after string, limit int) ([]T, error),
	key func(T) string,
) ([]T, error) {
	all := make([]T, 0)
	after := ""
	for {
		page, err := list(ctx, after, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)

		next := key(page[len(page)-1])
		if next == after {
			return nil, fmt.Errorf("store listing did not advance past %q", after)
		}
		after = next
	}
}
