package types

// Job is the read-only job posting consumed by the match engine.
type Job struct {
	JobID          string   `json:"job_id" validate:"required"`
	Title          *string  `json:"title,omitempty"`
	Company        string   `json:"company,omitempty"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	Location       *string  `json:"location,omitempty"`
	// SalaryRange is [min, max]. Any other length means the range is unknown.
	SalaryRange []float64 `json:"salary_range,omitempty"`
	// ExperienceRequired is free text such as "3-5 years" or "5+ years".
	ExperienceRequired string `json:"experience_required,omitempty"`
}

// StringPtr returns a pointer to s. Handy for the optional Job fields.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the value of an optional string, or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
