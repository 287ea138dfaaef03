package types

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// weightSumTolerance is how far Sum may drift from 1.0 before SumIsNormal reports false.
const weightSumTolerance = 0.001

// WeightConfig holds the multipliers applied to the five sub-scores.
// Weights conventionally sum to 1.0; the engine does not enforce it.
type WeightConfig struct {
	Skill      float64 `json:"skill" mapstructure:"skill"`
	Location   float64 `json:"location" mapstructure:"location"`
	Salary     float64 `json:"salary" mapstructure:"salary"`
	Experience float64 `json:"experience" mapstructure:"experience"`
	Role       float64 `json:"role" mapstructure:"role"`
}

// Sum returns the total of all weights.
func (w WeightConfig) Sum() float64 {
	return w.Skill + w.Location + w.Salary + w.Experience + w.Role
}

// SumIsNormal reports whether the weights sum to 1.0 within tolerance.
func (w WeightConfig) SumIsNormal() bool {
	return math.Abs(w.Sum()-1.0) <= weightSumTolerance
}

// Validate rejects negative or non-finite weights. A sum other than 1.0 is allowed.
func (w WeightConfig) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"skill", w.Skill},
		{"location", w.Location},
		{"salary", w.Salary},
		{"experience", w.Experience},
		{"role", w.Role},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return fmt.Errorf("weight %s is not a finite number", n.name)
		}
		if n.value < 0 {
			return fmt.Errorf("weight %s is negative: %g", n.name, n.value)
		}
	}
	return nil
}

// MatchBreakdown holds the five sub-scores, each nominally in [0, 100].
type MatchBreakdown struct {
	SkillMatch      float64 `json:"skill_match"`
	LocationMatch   float64 `json:"location_match"`
	SalaryMatch     float64 `json:"salary_match"`
	ExperienceMatch float64 `json:"experience_match"`
	RoleMatch       float64 `json:"role_match"`
}

// MatchResult is the output of one candidate/job match computation.
type MatchResult struct {
	JobID                string         `json:"job_id"`
	CandidateID          string         `json:"candidate_id,omitempty"`
	JobDetails           *Job           `json:"job_details,omitempty"`
	MatchScore           float64        `json:"match_score"`
	Breakdown            MatchBreakdown `json:"breakdown"`
	MissingSkills        []string       `json:"missing_skills"`
	MatchingSkills       []string       `json:"matching_skills"`
	RecommendationReason string         `json:"recommendation_reason"`
}

// StoredMatch is a persisted match result with its computation time.
type StoredMatch struct {
	MatchResult
	ComputedAt time.Time `json:"computed_at"`
}

// MatchRequest is the batch endpoint payload: one candidate against many jobs.
type MatchRequest struct {
	Candidate *Candidate `json:"candidate" validate:"required"`
	Jobs      []Job      `json:"jobs" validate:"required,dive"`
}

// Validate checks the request shape before it reaches the engine.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MatchResponse carries ranked results, best match first.
type MatchResponse struct {
	Matches      []MatchResult `json:"matches"`
	TotalMatches int           `json:"total_matches"`
}

// WeightsResponse is the read-only view of the active weight configuration.
type WeightsResponse struct {
	SkillWeight      float64 `json:"skill_weight"`
	LocationWeight   float64 `json:"location_weight"`
	SalaryWeight     float64 `json:"salary_weight"`
	ExperienceWeight float64 `json:"experience_weight"`
	RoleWeight       float64 `json:"role_weight"`
	Total            float64 `json:"total"`
}

// NewWeightsResponse builds the public view of w.
func NewWeightsResponse(w WeightConfig) WeightsResponse {
	return WeightsResponse{
		SkillWeight:      w.Skill,
		LocationWeight:   w.Location,
		SalaryWeight:     w.Salary,
		ExperienceWeight: w.Experience,
		RoleWeight:       w.Role,
		Total:            math.Round(w.Sum()*1000) / 1000,
	}
}
