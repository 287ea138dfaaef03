package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-match/internal/types"
)

// -----------------------------------------------------------------------------
// Match Result Methods
// -----------------------------------------------------------------------------

// SaveMatchResults stores the latest results for a candidate, replacing any
// earlier score for the same job.
func (db *DB) SaveMatchResults(ctx context.Context, candidateID string, results []types.MatchResult) error {
	id, err := uuid.Parse(candidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q: %w", candidateID, err)
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range results {
		breakdownJSON, err := json.Marshal(r.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to marshal breakdown: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO match_results (candidate_id, job_id, match_score, breakdown,
			                            missing_skills, matching_skills, recommendation_reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			     match_score = $3, breakdown = $4, missing_skills = $5,
			     matching_skills = $6, recommendation_reason = $7, computed_at = NOW()`,
			id, r.JobID, r.MatchScore, breakdownJSON,
			nonNil(r.MissingSkills), nonNil(r.MatchingSkills), r.RecommendationReason,
		)
		if err != nil {
			return fmt.Errorf("failed to save match result for job %s: %w", r.JobID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit match results: %w", err)
	}
	return nil
}

// ListMatchResults returns stored results for a candidate, best score first.
func (db *DB) ListMatchResults(ctx context.Context, candidateID string) ([]types.StoredMatch, error) {
	id, err := uuid.Parse(candidateID)
	if err != nil {
		return nil, fmt.Errorf("invalid candidate id %q: %w", candidateID, err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT job_id, match_score, breakdown, missing_skills, matching_skills,
		        recommendation_reason, computed_at
		 FROM match_results WHERE candidate_id = $1
		 ORDER BY match_score DESC, job_id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	defer rows.Close()

	matches := make([]types.StoredMatch, 0)
	for rows.Next() {
		m, err := scanStoredMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		m.CandidateID = candidateID
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match results: %w", err)
	}
	return matches, nil
}

func scanStoredMatch(row pgx.Row) (*types.StoredMatch, error) {
	var m types.StoredMatch
	var breakdownJSON []byte

	err := row.Scan(&m.JobID, &m.MatchScore, &breakdownJSON, &m.MissingSkills,
		&m.MatchingSkills, &m.RecommendationReason, &m.ComputedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(breakdownJSON, &m.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to parse breakdown: %w", err)
	}
	if m.MissingSkills == nil {
		m.MissingSkills = []string{}
	}
	if m.MatchingSkills == nil {
		m.MatchingSkills = []string{}
	}
	return &m, nil
}
