package gap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SkillInfo describes how a skill is categorized and how long it takes to learn.
type SkillInfo struct {
	Category   string  `json:"category"`
	TimeMonths float64 `json:"time_months"`
	Difficulty int     `json:"difficulty"`
}

// Taxonomy maps lowercase skill names to their metadata.
type Taxonomy map[string]SkillInfo

// unknownSkill is used for skills missing from the taxonomy.
var unknownSkill = SkillInfo{Category: "General", TimeMonths: 1, Difficulty: 1}

// DefaultTaxonomy returns the built-in skill taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		"html":       {Category: "Frontend", TimeMonths: 0.5, Difficulty: 1},
		"css":        {Category: "Frontend", TimeMonths: 1, Difficulty: 1},
		"javascript": {Category: "Frontend", TimeMonths: 2, Difficulty: 2},
		"typescript": {Category: "Frontend", TimeMonths: 1, Difficulty: 2},
		"react":      {Category: "Frontend", TimeMonths: 2, Difficulty: 2},
		"vue":        {Category: "Frontend", TimeMonths: 1.5, Difficulty: 2},
		"angular":    {Category: "Frontend", TimeMonths: 2.5, Difficulty: 3},
		"python":     {Category: "Backend", TimeMonths: 2, Difficulty: 1},
		"go":         {Category: "Backend", TimeMonths: 2, Difficulty: 2},
		"java":       {Category: "Backend", TimeMonths: 3, Difficulty: 3},
		"nodejs":     {Category: "Backend", TimeMonths: 1.5, Difficulty: 2},
		"django":     {Category: "Backend", TimeMonths: 1.5, Difficulty: 2},
		"fastapi":    {Category: "Backend", TimeMonths: 1, Difficulty: 2},
		"postgresql": {Category: "Database", TimeMonths: 1.5, Difficulty: 2},
		"mysql":      {Category: "Database", TimeMonths: 1, Difficulty: 2},
		"mongodb":    {Category: "Database", TimeMonths: 1, Difficulty: 2},
		"redis":      {Category: "Database", TimeMonths: 0.5, Difficulty: 2},
		"sql":        {Category: "Database", TimeMonths: 1, Difficulty: 1},
		"docker":     {Category: "DevOps", TimeMonths: 1, Difficulty: 2},
		"kubernetes": {Category: "DevOps", TimeMonths: 3, Difficulty: 4},
		"terraform":  {Category: "DevOps", TimeMonths: 2, Difficulty: 3},
		"aws":        {Category: "DevOps", TimeMonths: 3, Difficulty: 3},
		"gcp":        {Category: "DevOps", TimeMonths: 3, Difficulty: 3},
		"azure":      {Category: "DevOps", TimeMonths: 3, Difficulty: 3},
		"git":        {Category: "DevOps", TimeMonths: 0.5, Difficulty: 1},
	}
}

// Lookup returns the metadata for a skill, case-insensitively.
func (t Taxonomy) Lookup(skill string) (SkillInfo, bool) {
	info, ok := t[strings.ToLower(strings.TrimSpace(skill))]
	return info, ok
}

// taxonomyFile is the on-disk layout: {"skills": {"react": {...}}}
type taxonomyFile struct {
	Skills map[string]SkillInfo `json:"skills"`
}

// LoadTaxonomy reads a taxonomy JSON file. Skill names are lowercased on load.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var file taxonomyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}
	if len(file.Skills) == 0 {
		return nil, fmt.Errorf("taxonomy file %s has no skills", path)
	}

	tax := make(Taxonomy, len(file.Skills))
	for name, info := range file.Skills {
		tax[strings.ToLower(strings.TrimSpace(name))] = info
	}
	return tax, nil
}
