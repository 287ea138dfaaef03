package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/job-match/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `job_id, title, company, description, required_skills,
		        location, salary_range, experience_required`

// GetJob retrieves a job by its ID regardless of status
func (db *DB) GetJob(ctx context.Context, jobID string) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = $1`,
		jobID,
	)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListOpenJobs returns one page of open jobs ordered by ID, starting after the
// job_id in after. An empty after starts from the first job.
func (db *DB) ListOpenJobs(ctx context.Context, after string, limit int) ([]types.Job, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == "" {
		rows, err = db.pool.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY job_id LIMIT $2`,
			string(JobStatusOpen), normalizeLimit(limit),
		)
	} else {
		rows, err = db.pool.Query(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE status = $1 AND job_id > $2 ORDER BY job_id LIMIT $3`,
			string(JobStatusOpen), after, normalizeLimit(limit),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// UpsertJob creates or updates a job posting with the given status
func (db *DB) UpsertJob(ctx context.Context, j *types.Job, status JobStatus) error {
	if j.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if !status.Valid() {
		return fmt.Errorf("invalid job status %q", status)
	}

	salary := j.SalaryRange
	if salary == nil {
		salary = []float64{}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO jobs (job_id, title, company, description, required_skills,
		                   location, salary_range, experience_required, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (job_id) DO UPDATE SET
		     title = $2, company = $3, description = $4, required_skills = $5,
		     location = $6, salary_range = $7, experience_required = $8, status = $9,
		     updated_at = NOW()`,
		j.JobID, j.Title, j.Company, j.Description, nonNil(j.RequiredSkills),
		j.Location, salary, j.ExperienceRequired, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", j.JobID, err)
	}
	return nil
}

// SetJobStatus opens or closes a job. Returns false when the job does not exist.
func (db *DB) SetJobStatus(ctx context.Context, jobID string, status JobStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid job status %q", status)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE job_id = $2`,
		string(status), jobID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update job status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanJob(row pgx.Row) (*types.Job, error) {
	var j types.Job
	err := row.Scan(&j.JobID, &j.Title, &j.Company, &j.Description, &j.RequiredSkills,
		&j.Location, &j.SalaryRange, &j.ExperienceRequired)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
