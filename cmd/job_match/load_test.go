package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/job-match/internal/db"
	"github.com/jonathan/job-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	candidates []types.Candidate
	jobs       map[string]db.JobStatus
	upsertErr  error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{jobs: make(map[string]db.JobStatus)}
}

func (f *fakeWriter) UpsertCandidate(_ context.Context, c *types.Candidate) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.candidates = append(f.candidates, *c)
	return nil
}

func (f *fakeWriter) UpsertJob(_ context.Context, j *types.Job, status db.JobStatus) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.jobs[j.JobID] = status
	return nil
}

func (f *fakeWriter) SetJobStatus(_ context.Context, jobID string, status db.JobStatus) (bool, error) {
	if _, ok := f.jobs[jobID]; !ok {
		return false, nil
	}
	f.jobs[jobID] = status
	return true, nil
}

func TestLoadCandidateFile(t *testing.T) {
	path := writeFile(t, "candidates.json", `[
		{"name": "Ada", "skills": ["go"], "experience_years": 6},
		{"name": "Lin", "skills": ["python", "sql"], "expected_salary": 90000}
	]`)
	store := newFakeWriter()

	n, err := loadCandidateFile(context.Background(), store, resolveSchemasDir("schemas"), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.candidates, 2)
	assert.Equal(t, "Lin", store.candidates[1].Name)
}

func TestLoadCandidateFile_StableIDs(t *testing.T) {
	existing := "3f2b8c1e-9d4a-4e6b-8c2f-1a5d7e9b0c3d"
	path := writeFile(t, "candidates.json", `[
		{"id": "`+existing+`", "name": "Kept"},
		{"id": "cand-1", "name": "Legacy"},
		{"name": "Ada"},
		{"skills": ["go"]}
	]`)

	first := newFakeWriter()
	_, err := loadCandidateFile(context.Background(), first, resolveSchemasDir("schemas"), path)
	require.NoError(t, err)
	second := newFakeWriter()
	_, err = loadCandidateFile(context.Background(), second, resolveSchemasDir("schemas"), path)
	require.NoError(t, err)

	require.Len(t, first.candidates, 4)
	require.Len(t, second.candidates, 4)
	seen := make(map[string]bool)
	for i, c := range first.candidates {
		_, err := uuid.Parse(c.ID)
		require.NoError(t, err, "candidate %d id %q", i, c.ID)
		assert.Equal(t, c.ID, second.candidates[i].ID, "candidate %d should reload under the same id", i)
		assert.False(t, seen[c.ID], "candidate %d id collides", i)
		seen[c.ID] = true
	}
	assert.Equal(t, existing, first.candidates[0].ID)
}

func TestStableCandidateID(t *testing.T) {
	byName, err := stableCandidateID(types.Candidate{Name: "Ada Lovelace"})
	require.NoError(t, err)
	sameName, err := stableCandidateID(types.Candidate{Name: "  ada lovelace ", Skills: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, byName, sameName)

	legacy, err := stableCandidateID(types.Candidate{ID: "cand-1"})
	require.NoError(t, err)
	otherLegacy, err := stableCandidateID(types.Candidate{ID: "cand-2"})
	require.NoError(t, err)
	assert.NotEqual(t, legacy, otherLegacy)

	upper, err := stableCandidateID(types.Candidate{ID: "3F2B8C1E-9D4A-4E6B-8C2F-1A5D7E9B0C3D"})
	require.NoError(t, err)
	assert.Equal(t, "3f2b8c1e-9d4a-4e6b-8c2f-1a5d7e9b0c3d", upper)

	anonA, err := stableCandidateID(types.Candidate{Skills: []string{"go"}})
	require.NoError(t, err)
	anonB, err := stableCandidateID(types.Candidate{Skills: []string{"rust"}})
	require.NoError(t, err)
	assert.NotEqual(t, anonA, anonB)
}

func TestLoadCandidateFile_SchemaViolation(t *testing.T) {
	path := writeFile(t, "candidates.json", `[{"name": "Ada"}, {"skills": "go"}]`)
	store := newFakeWriter()

	_, err := loadCandidateFile(context.Background(), store, resolveSchemasDir("schemas"), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry 1")
	assert.Empty(t, store.candidates)
}

func TestLoadCandidateFile_NotAnArray(t *testing.T) {
	path := writeFile(t, "candidates.json", `{"name": "Ada"}`)

	_, err := loadCandidateFile(context.Background(), newFakeWriter(), "", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON array")
}

func TestLoadJobFile(t *testing.T) {
	path := writeFile(t, "jobs.json", `[
		{"job_id": "job-1", "title": "Go Developer", "required_skills": ["go"]},
		{"job_id": "job-2", "location": null}
	]`)
	store := newFakeWriter()

	n, err := loadJobFile(context.Background(), store, resolveSchemasDir("schemas"), path, db.JobStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, db.JobStatusClosed, store.jobs["job-1"])
	assert.Equal(t, db.JobStatusClosed, store.jobs["job-2"])
}

func TestLoadJobFile_MissingJobID(t *testing.T) {
	path := writeFile(t, "jobs.json", `[{"title": "No ID"}]`)

	_, err := loadJobFile(context.Background(), newFakeWriter(), resolveSchemasDir("schemas"), path, db.JobStatusOpen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entry 0")
}

func TestLoadJobFile_StoreError(t *testing.T) {
	path := writeFile(t, "jobs.json", `[{"job_id": "job-1"}, {"job_id": "job-2"}]`)
	store := newFakeWriter()
	store.upsertErr = errors.New("connection reset")

	n, err := loadJobFile(context.Background(), store, "", path, db.JobStatusOpen)
	require.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestSetJobStatus(t *testing.T) {
	store := newFakeWriter()
	store.jobs["job-1"] = db.JobStatusOpen

	require.NoError(t, setJobStatus(context.Background(), store, "job-1", db.JobStatusClosed))
	assert.Equal(t, db.JobStatusClosed, store.jobs["job-1"])

	err := setJobStatus(context.Background(), store, "missing", db.JobStatusClosed)
	assert.EqualError(t, err, "job not found: missing")
}

func TestLoadCommand_RequiresInput(t *testing.T) {
	_, err := executeCommand(t, "load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to load")
}

func TestLoadCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JOB_MATCH_DATABASE_URL", "")
	path := writeFile(t, "jobs.json", `[]`)

	_, err := executeCommand(t, "load", "--jobs", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is not configured")
}
