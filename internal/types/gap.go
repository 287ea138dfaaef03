package types

import "github.com/go-playground/validator/v10"

// GapCandidate describes where a candidate is today.
type GapCandidate struct {
	CurrentRole     string   `json:"current_role"`
	CurrentSkills   []string `json:"current_skills"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Education       string   `json:"education,omitempty"`
}

// TargetRole describes the role the candidate wants to grow into.
type TargetRole struct {
	Title             string   `json:"title" validate:"required"`
	RequiredSkills    []string `json:"required_skills"`
	TypicalExperience string   `json:"typical_experience,omitempty"`
}

// GapAnalysisRequest is the payload for a skills gap analysis.
type GapAnalysisRequest struct {
	Candidate  GapCandidate `json:"candidate"`
	TargetRole TargetRole   `json:"target_role"`
}

// Validate checks the request shape.
func (r *GapAnalysisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GapMetrics summarizes how far the candidate is from the target role.
type GapMetrics struct {
	MatchingSkills              []string `json:"matching_skills"`
	MissingSkills               []string `json:"missing_skills"`
	SkillGapPercentage          float64  `json:"skill_gap_percentage"`
	ReadinessScore              float64  `json:"readiness_score"`
	EstimatedLearningTimeMonths float64  `json:"estimated_learning_time_months"`
}

// RoadmapPhase groups missing skills into one learning phase.
type RoadmapPhase struct {
	Phase          int      `json:"phase"`
	DurationMonths float64  `json:"duration_months"`
	Focus          string   `json:"focus"`
	SkillsToLearn  []string `json:"skills_to_learn"`
	Priority       string   `json:"priority"`
	Reasoning      string   `json:"reasoning"`
}

// RadarPoint is one axis of the current-vs-target skills radar chart.
type RadarPoint struct {
	Subject  string `json:"subject"`
	Current  int    `json:"A"`
	Target   int    `json:"B"`
	FullMark int    `json:"fullMark"`
}

// SalaryPoint is one step of the projected salary growth.
type SalaryPoint struct {
	Year   string `json:"year"`
	Salary int    `json:"salary"`
	Role   string `json:"role"`
}

// GapAnalysisResult is the full gap analysis output.
type GapAnalysisResult struct {
	Analysis        GapMetrics     `json:"analysis"`
	LearningRoadmap []RoadmapPhase `json:"learning_roadmap"`
	RadarData       []RadarPoint   `json:"radar_data"`
	SalaryGrowth    []SalaryPoint  `json:"salary_growth"`
}
