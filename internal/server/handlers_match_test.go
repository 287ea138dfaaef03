package server

import (
	"net/http"
	"testing"

	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workedExampleBody = `{
	"candidate": {
		"skills": ["python", "sql"],
		"preferred_locations": ["Bangalore"],
		"preferred_roles": ["Designer"],
		"expected_salary": 150000,
		"experience_years": 4
	},
	"jobs": [{
		"job_id": "job-1",
		"title": "Backend Engineer",
		"required_skills": ["Python", "React", "SQL"],
		"location": "bangalore",
		"salary_range": [70000, 100000],
		"experience_required": "3-5 years"
	}]
}`

func TestMatchCandidateToJobs_WorkedExample(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", workedExampleBody, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[types.MatchResponse](t, w)
	require.Equal(t, 1, resp.TotalMatches)
	require.Len(t, resp.Matches, 1)

	m := resp.Matches[0]
	assert.Equal(t, "job-1", m.JobID)
	assert.Equal(t, 74.17, m.MatchScore)
	assert.Equal(t, []string{"react"}, m.MissingSkills)
	assert.Equal(t, []string{"python", "sql"}, m.MatchingSkills)
	assert.InDelta(t, 100.0, m.Breakdown.LocationMatch, 1e-9)
	assert.InDelta(t, 50.0, m.Breakdown.SalaryMatch, 1e-9)
	assert.InDelta(t, 100.0, m.Breakdown.ExperienceMatch, 1e-9)
	assert.InDelta(t, 50.0, m.Breakdown.RoleMatch, 1e-9)
	assert.Equal(t, "Calculated match score of 74.17% based on weighted compatibility factors.", m.RecommendationReason)
	require.NotNil(t, m.JobDetails)
	assert.Equal(t, "Backend Engineer", types.Deref(m.JobDetails.Title))
}

func TestMatchCandidateToJobs_SortedAndTop(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"candidate": {"skills": ["go"], "preferred_locations": ["Remote"], "expected_salary": 100, "experience_years": 2},
		"jobs": [
			{"job_id": "b", "required_skills": ["rust"]},
			{"job_id": "a", "required_skills": ["go"], "location": "remote"},
			{"job_id": "c", "required_skills": ["rust"]}
		]
	}`

	resp := decode[types.MatchResponse](t, ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", body, nil))
	require.Len(t, resp.Matches, 3)
	assert.Equal(t, "a", resp.Matches[0].JobID)
	// b and c tie and fall back to job_id order
	assert.Equal(t, "b", resp.Matches[1].JobID)
	assert.Equal(t, "c", resp.Matches[2].JobID)

	top := decode[types.MatchResponse](t, ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs?top=1", body, nil))
	require.Len(t, top.Matches, 1)
	assert.Equal(t, 1, top.TotalMatches)
	assert.Equal(t, "a", top.Matches[0].JobID)
}

func TestMatchCandidateToJobs_NullOptionalFields(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"candidate": {
			"id": null, "name": null, "skills": ["go"],
			"expected_salary": null, "experience_years": null
		},
		"jobs": [{
			"job_id": "job-1", "title": null, "company": null, "description": null,
			"required_skills": ["Go"], "location": null, "salary_range": null,
			"experience_required": null
		}]
	}`

	w := ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[types.MatchResponse](t, w)
	require.Len(t, resp.Matches, 1)
	m := resp.Matches[0]
	assert.Equal(t, "job-1", m.JobID)
	assert.InDelta(t, 100.0, m.Breakdown.SkillMatch, 1e-9)
	assert.InDelta(t, 0.0, m.Breakdown.ExperienceMatch, 1e-9)
	assert.InDelta(t, 0.0, m.Breakdown.SalaryMatch, 1e-9)
	assert.Equal(t, 45.0, m.MatchScore)
}

func TestMatchCandidateToJobs_EmptyJobs(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", `{"candidate": {}, "jobs": []}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matches": [], "total_matches": 0}`, w.Body.String())
}

func TestMatchCandidateToJobs_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"candidate": `},
		{"missing jobs", `{"candidate": {"skills": ["go"]}}`},
		{"missing candidate", `{"jobs": []}`},
		{"null candidate", `{"candidate": null, "jobs": []}`},
		{"job without id", `{"candidate": {}, "jobs": [{"title": "Engineer"}]}`},
		{"wrong type", `{"candidate": {"experience_years": "four"}, "jobs": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			w := ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[map[string]string](t, w)
			assert.Contains(t, resp["error"], "validation error")
		})
	}
}

func TestMatchCandidateToJobs_ValidatorWithoutSchemas(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Schemas = nil })

	w := ts.do(t, http.MethodPost, "/api/match/candidate-to-jobs", `{"candidate": {}, "jobs": [{"title": "x"}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Contains(t, resp["error"], "JobID")
}

func TestWeightsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/match/engine/weights", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"skill_weight": 0.4,
		"location_weight": 0.2,
		"salary_weight": 0.15,
		"experience_weight": 0.15,
		"role_weight": 0.1,
		"total": 1
	}`, w.Body.String())
}

func TestWeightsEndpoint_CustomWeights(t *testing.T) {
	custom := types.WeightConfig{Skill: 1}
	ts := newTestServer(t, func(c *Config) { c.Ranker = ranking.NewRanker(ranking.WithWeights(custom)) })

	resp := decode[types.WeightsResponse](t, ts.do(t, http.MethodGet, "/api/match/engine/weights", "", nil))
	assert.Equal(t, 1.0, resp.SkillWeight)
	assert.Equal(t, 0.0, resp.RoleWeight)
}
