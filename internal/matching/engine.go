// Package matching computes deterministic compatibility scores between candidates and job postings.
package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/job-match/internal/types"
)

// Default weights for scoring components
const (
	skillWeight      = 0.40
	locationWeight   = 0.20
	salaryWeight     = 0.15
	experienceWeight = 0.15
	roleWeight       = 0.10
)

// Fixed sub-scores
const (
	fullScore          = 100.0
	overqualifiedScore = 90.0
	neutralRoleScore   = 50.0
)

// DefaultWeights returns the standard weight distribution.
func DefaultWeights() types.WeightConfig {
	return types.WeightConfig{
		Skill:      skillWeight,
		Location:   locationWeight,
		Salary:     salaryWeight,
		Experience: experienceWeight,
		Role:       roleWeight,
	}
}

// CalculateMatch scores a candidate against a job.
// It is a pure function: the same inputs always produce an identical result,
// and no input (however incomplete) makes it fail.
func CalculateMatch(candidate types.Candidate, job types.Job, weights types.WeightConfig) types.MatchResult {
	skillScore, matching, missing := computeSkillMatch(candidate.Skills, job.RequiredSkills)

	breakdown := types.MatchBreakdown{
		SkillMatch:      skillScore,
		LocationMatch:   computeLocationMatch(candidate.PreferredLocations, job.Location),
		SalaryMatch:     computeSalaryMatch(candidate.ExpectedSalary, job.SalaryRange),
		ExperienceMatch: computeExperienceMatch(candidate.ExperienceYears, job.ExperienceRequired),
		RoleMatch:       computeRoleMatch(candidate.PreferredRoles, job.Title),
	}

	score := round2(weightedScore(breakdown, weights))

	details := job
	if details.RequiredSkills == nil {
		details.RequiredSkills = []string{}
	}
	return types.MatchResult{
		JobID:                job.JobID,
		CandidateID:          candidate.ID,
		JobDetails:           &details,
		MatchScore:           score,
		Breakdown:            breakdown,
		MissingSkills:        missing,
		MatchingSkills:       matching,
		RecommendationReason: recommendationReason(score),
	}
}

// weightedScore is the plain dot product of sub-scores and weights. It is not clamped.
func weightedScore(b types.MatchBreakdown, w types.WeightConfig) float64 {
	return b.SkillMatch*w.Skill +
		b.LocationMatch*w.Location +
		b.SalaryMatch*w.Salary +
		b.ExperienceMatch*w.Experience +
		b.RoleMatch*w.Role
}

// computeSkillMatch compares required skills against the candidate's, case-insensitively.
// Returns the score and the lowercased matching and missing required skills, in job order.
func computeSkillMatch(candidateSkills, requiredSkills []string) (float64, []string, []string) {
	have := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		have[strings.ToLower(s)] = true
	}

	matching := make([]string, 0, len(requiredSkills))
	missing := make([]string, 0)
	for _, s := range requiredSkills {
		lower := strings.ToLower(s)
		if have[lower] {
			matching = append(matching, lower)
		} else {
			missing = append(missing, lower)
		}
	}

	// No requirements means full credit
	if len(requiredSkills) == 0 {
		return fullScore, matching, missing
	}

	return float64(len(matching)) / float64(len(requiredSkills)) * 100, matching, missing
}

// computeLocationMatch is binary: a case-insensitive hit on any preferred location scores 100.
func computeLocationMatch(preferred []string, jobLocation *string) float64 {
	if containsFold(preferred, jobLocation) {
		return fullScore
	}
	return 0
}

// computeSalaryMatch scores the candidate's ask against the job's [min, max] range.
// An unknown range scores 0. Asking at or below max scores 100; above max decays
// linearly with the overshoot relative to max.
func computeSalaryMatch(expected float64, salaryRange []float64) float64 {
	if len(salaryRange) != 2 {
		return 0
	}

	maxSalary := salaryRange[1]
	if expected <= maxSalary {
		return fullScore
	}

	overshoot := (expected - maxSalary) / maxSalary * 100
	return math.Max(0, fullScore-overshoot)
}

// computeExperienceMatch scores years of experience against a free-text range.
func computeExperienceMatch(years float64, required string) float64 {
	minExp, maxExp, ok := ParseExperienceRange(required)
	if !ok {
		return 0
	}

	switch {
	case years >= minExp && years <= maxExp:
		return fullScore
	case years > maxExp:
		return overqualifiedScore
	case minExp > 0:
		return years / minExp * 100
	default:
		return 0
	}
}

// computeRoleMatch scores 100 on a case-insensitive title hit and 50 otherwise. Never 0.
func computeRoleMatch(preferred []string, title *string) float64 {
	if containsFold(preferred, title) {
		return fullScore
	}
	return neutralRoleScore
}

// containsFold reports whether any value equals target case-insensitively.
// An absent target matches nothing.
func containsFold(values []string, target *string) bool {
	if target == nil {
		return false
	}
	want := strings.ToLower(*target)
	for _, v := range values {
		if strings.ToLower(v) == want {
			return true
		}
	}
	return false
}

// recommendationReason renders the fixed explanation template.
func recommendationReason(score float64) string {
	return fmt.Sprintf("Calculated match score of %s%% based on weighted compatibility factors.", FormatScore(score))
}

// FormatScore prints a score in its shortest form: 80, 80.5, 66.67.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
