package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/matching"
	"github.com/jonathan/job-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchRequestJSON = `{
	"candidate": {
		"id": "cand-1",
		"skills": ["python", "sql"],
		"preferred_locations": ["Bangalore"],
		"preferred_roles": ["Designer"],
		"expected_salary": 150000,
		"experience_years": 4
	},
	"jobs": [
		{
			"job_id": "job-1",
			"title": "Backend Engineer",
			"required_skills": ["Python", "React", "SQL"],
			"location": "bangalore",
			"salary_range": [70000, 100000],
			"experience_required": "3-5 years"
		},
		{
			"job_id": "job-2",
			"title": "Designer",
			"required_skills": ["figma"],
			"location": "Pune"
		}
	]
}`

func testConfig() *config.Config {
	return &config.Config{Weights: matching.DefaultWeights(), SchemasDir: "schemas"}
}

func TestMatchFile(t *testing.T) {
	path := writeFile(t, "request.json", matchRequestJSON)

	resp, err := matchFile(context.Background(), testConfig(), path, 0)
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalMatches)

	assert.Equal(t, "job-1", resp.Matches[0].JobID)
	assert.Equal(t, 74.17, resp.Matches[0].MatchScore)
	assert.Equal(t, "cand-1", resp.Matches[0].CandidateID)
	// job-2: role 100 * 0.10 only
	assert.Equal(t, "job-2", resp.Matches[1].JobID)
	assert.Equal(t, 10.0, resp.Matches[1].MatchScore)
}

func TestMatchFile_Top(t *testing.T) {
	path := writeFile(t, "request.json", matchRequestJSON)

	resp, err := matchFile(context.Background(), testConfig(), path, 1)
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 1, resp.TotalMatches)
}

func TestMatchFile_CustomWeights(t *testing.T) {
	path := writeFile(t, "request.json", matchRequestJSON)
	cfg := testConfig()
	cfg.Weights = types.WeightConfig{Role: 1}

	resp, err := matchFile(context.Background(), cfg, path, 0)
	require.NoError(t, err)
	assert.Equal(t, "job-2", resp.Matches[0].JobID)
	assert.Equal(t, 100.0, resp.Matches[0].MatchScore)
}

func TestMatchFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"schema violation", `{"candidate": {}, "jobs": [{"title": "x"}]}`, "invalid input"},
		{"missing jobs", `{"candidate": {}}`, "invalid input"},
		{"not json", `{{`, "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "request.json", tt.content)
			_, err := matchFile(context.Background(), testConfig(), path, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchFile_WithoutSchemas(t *testing.T) {
	path := writeFile(t, "request.json", `{"candidate": {}, "jobs": [{"title": "x"}]}`)
	cfg := testConfig()
	cfg.SchemasDir = ""

	_, err := matchFile(context.Background(), cfg, path, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match request")
}

func TestMatchFile_MissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.SchemasDir = ""

	_, err := matchFile(context.Background(), cfg, filepath.Join(t.TempDir(), "nope.json"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestMatchCommand_WritesOutputFile(t *testing.T) {
	reqPath := writeFile(t, "request.json", matchRequestJSON)
	outPath := filepath.Join(t.TempDir(), "out", "matches.json")

	output, err := executeCommand(t, "match", "--request", reqPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully ranked 2 jobs")

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(content, &resp))
	assert.Equal(t, "job-1", resp.Matches[0].JobID)
}

func TestMatchCommand_MissingRequestFlag(t *testing.T) {
	_, err := executeCommand(t, "match")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
