// Package gap analyzes the distance between a candidate's skills and a target role.
package gap

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/job-match/internal/types"
)

const (
	// skillReadinessShare is the part of the readiness score earned by skills
	skillReadinessShare = 50.0
	// yearReadinessPoints is earned per year of experience, up to maxExperiencePoints
	yearReadinessPoints = 10
	maxExperiencePoints = 30
	// phaseSize is the number of skills grouped into one roadmap phase
	phaseSize = 2
	// baseSalary anchors the salary growth projection
	baseSalary = 800000
	// radarFallbackCategory is used for skills the taxonomy does not know
	radarFallbackCategory = "Backend"
)

// radarCategories are the axes of the skills radar, in display order.
var radarCategories = []string{"Frontend", "Backend", "DevOps", "Database"}

// Analyzer runs skills gap analyses against a taxonomy.
type Analyzer struct {
	taxonomy Taxonomy
}

// NewAnalyzer creates an Analyzer. A nil taxonomy uses DefaultTaxonomy.
func NewAnalyzer(taxonomy Taxonomy) *Analyzer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Analyzer{taxonomy: taxonomy}
}

// Analyze compares the candidate's current skills against the target role and
// produces readiness metrics, a phased learning roadmap, radar data and a salary projection.
func (a *Analyzer) Analyze(req types.GapAnalysisRequest) types.GapAnalysisResult {
	current := toSet(req.Candidate.CurrentSkills)
	required := toSet(req.TargetRole.RequiredSkills)

	matching := make([]string, 0)
	missing := make([]string, 0)
	for skill := range required {
		if current[skill] {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)

	var gapPct, skillReadiness float64
	if len(required) > 0 {
		gapPct = float64(len(missing)) / float64(len(required)) * 100
		skillReadiness = float64(len(matching)) / float64(len(required)) * skillReadinessShare
	}
	expReadiness := float64(min(req.Candidate.ExperienceYears*yearReadinessPoints, maxExperiencePoints))

	roadmap, totalMonths := a.buildRoadmap(missing, req.TargetRole.Title)

	return types.GapAnalysisResult{
		Analysis: types.GapMetrics{
			MatchingSkills:              matching,
			MissingSkills:               missing,
			SkillGapPercentage:          round(gapPct, 2),
			ReadinessScore:              round(skillReadiness+expReadiness, 2),
			EstimatedLearningTimeMonths: round(totalMonths, 1),
		},
		LearningRoadmap: roadmap,
		RadarData:       a.radarData(req.Candidate.CurrentSkills, req.TargetRole.RequiredSkills),
		SalaryGrowth:    SalaryGrowth(),
	}
}

type missingSkill struct {
	name string
	info SkillInfo
}

// buildRoadmap orders missing skills by difficulty and groups them into phases.
func (a *Analyzer) buildRoadmap(missing []string, targetTitle string) ([]types.RoadmapPhase, float64) {
	details := make([]missingSkill, 0, len(missing))
	total := 0.0
	for _, name := range missing {
		info, ok := a.taxonomy.Lookup(name)
		if !ok {
			info = unknownSkill
		}
		details = append(details, missingSkill{name: name, info: info})
		total += info.TimeMonths
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].info.Difficulty < details[j].info.Difficulty
	})

	phases := make([]types.RoadmapPhase, 0, (len(details)+phaseSize-1)/phaseSize)
	for start := 0; start < len(details); start += phaseSize {
		chunk := details[start:min(start+phaseSize, len(details))]

		names := make([]string, 0, len(chunk))
		duration := 0.0
		for _, s := range chunk {
			names = append(names, s.name)
			duration += s.info.TimeMonths
		}

		number := len(phases) + 1
		priority := "Medium"
		if number == 1 {
			priority = "High"
		}

		phases = append(phases, types.RoadmapPhase{
			Phase:          number,
			DurationMonths: round(duration, 1),
			Focus:          fmt.Sprintf("Mastering %s Concepts", chunk[0].info.Category),
			SkillsToLearn:  names,
			Priority:       priority,
			Reasoning:      fmt.Sprintf("Foundational skills for %s", targetTitle),
		})
	}

	return phases, total
}

// radarData counts 100 points per skill in each radar category for current and target skills.
func (a *Analyzer) radarData(current, target []string) []types.RadarPoint {
	currentCounts := a.categoryCounts(current)
	targetCounts := a.categoryCounts(target)

	points := make([]types.RadarPoint, 0, len(radarCategories))
	for _, cat := range radarCategories {
		points = append(points, types.RadarPoint{
			Subject:  cat,
			Current:  currentCounts[cat],
			Target:   targetCounts[cat],
			FullMark: max(targetCounts[cat], 100) + 50,
		})
	}
	return points
}

func (a *Analyzer) categoryCounts(skills []string) map[string]int {
	counts := make(map[string]int, len(radarCategories))
	for _, skill := range skills {
		cat := radarFallbackCategory
		if info, ok := a.taxonomy.Lookup(skill); ok {
			cat = info.Category
		}
		counts[cat] += 100
	}
	return counts
}

// SalaryGrowth returns the fixed salary projection for completing the roadmap.
func SalaryGrowth() []types.SalaryPoint {
	return []types.SalaryPoint{
		{Year: "Current", Salary: baseSalary, Role: "Junior Dev"},
		{Year: "Year 1", Salary: int(baseSalary * 1.35), Role: "Mid-Level Dev"},
		{Year: "Year 2", Salary: int(baseSalary * 1.6), Role: "Senior Dev"},
		{Year: "Year 3", Salary: int(baseSalary * 2.0), Role: "Tech Lead"},
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
