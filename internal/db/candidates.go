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
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `id, name, skills, preferred_locations, preferred_roles,
		        expected_salary, experience_years, education`

// GetCandidate retrieves a candidate by ID. Returns nil, nil when the ID is
// unknown or not a valid UUID.
func (db *DB) GetCandidate(ctx context.Context, id string) (*types.Candidate, error) {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`,
		candidateID,
	)
	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// ListCandidates returns one page of candidates ordered by ID, starting after
// the candidate ID in after. An empty after starts from the first candidate.
func (db *DB) ListCandidates(ctx context.Context, after string, limit int) ([]types.Candidate, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == "" {
		rows, err = db.pool.Query(ctx,
			`SELECT `+candidateColumns+` FROM candidates ORDER BY id LIMIT $1`,
			normalizeLimit(limit),
		)
	} else {
		afterID, parseErr := uuid.Parse(after)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid candidate cursor %q: %w", after, parseErr)
		}
		rows, err = db.pool.Query(ctx,
			`SELECT `+candidateColumns+` FROM candidates WHERE id > $1 ORDER BY id LIMIT $2`,
			afterID, normalizeLimit(limit),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// UpsertCandidate creates or updates a candidate. A candidate without an ID is
// assigned a new one, which is written back to c.
func (db *DB) UpsertCandidate(ctx context.Context, c *types.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	candidateID, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q: %w", c.ID, err)
	}

	var educationJSON []byte
	if c.Education != nil {
		educationJSON, err = json.Marshal(c.Education)
		if err != nil {
			return fmt.Errorf("failed to marshal education: %w", err)
		}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (id, name, skills, preferred_locations, preferred_roles,
		                         expected_salary, experience_years, education)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2, skills = $3, preferred_locations = $4, preferred_roles = $5,
		     expected_salary = $6, experience_years = $7, education = $8, updated_at = NOW()`,
		candidateID, c.Name, nonNil(c.Skills), nonNil(c.PreferredLocations), nonNil(c.PreferredRoles),
		c.ExpectedSalary, c.ExperienceYears, educationJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}
	return nil
}

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var c types.Candidate
	var id uuid.UUID
	var educationJSON []byte

	err := row.Scan(&id, &c.Name, &c.Skills, &c.PreferredLocations, &c.PreferredRoles,
		&c.ExpectedSalary, &c.ExperienceYears, &educationJSON)
	if err != nil {
		return nil, err
	}
	c.ID = id.String()

	// Parse JSONB fields
	if educationJSON != nil {
		var edu types.Education
		if err := json.Unmarshal(educationJSON, &edu); err == nil {
			c.Education = &edu
		}
	}
	return &c, nil
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
