// Package types provides type definitions for structured data used throughout the job-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Education holds display-only education details for a candidate.
type Education struct {
	College string  `json:"college,omitempty"`
	Degree  string  `json:"degree,omitempty"`
	Field   string  `json:"field,omitempty"`
	CGPA    float64 `json:"cgpa,omitempty"`
}

// Candidate is the read-only candidate profile consumed by the match engine.
// Missing arrays decode as nil and are treated as empty; missing numbers decode as zero.
type Candidate struct {
	ID                 string     `json:"id,omitempty"`
	Name               string     `json:"name,omitempty"`
	Skills             []string   `json:"skills"`
	PreferredLocations []string   `json:"preferred_locations"`
	PreferredRoles     []string   `json:"preferred_roles"`
	ExpectedSalary     float64    `json:"expected_salary"`
	ExperienceYears    float64    `json:"experience_years"`
	Education          *Education `json:"education,omitempty"`
}
