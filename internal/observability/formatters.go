// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxSkillsWidth caps joined skill lists inside a box
	maxSkillsWidth = 40
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func joinSkills(skills []string) string {
	if len(skills) == 0 {
		return "-"
	}
	joined := strings.Join(skills, ", ")
	if len(joined) > maxSkillsWidth {
		joined = joined[:maxSkillsWidth-3] + "..."
	}
	return joined
}

// writeBreakdown renders the five sub-scores, indented by prefix.
func writeBreakdown(sb *strings.Builder, b types.MatchBreakdown, prefix string) {
	fmt.Fprintf(sb, "%sSkills:     %6.2f\n", prefix, b.SkillMatch)
	fmt.Fprintf(sb, "%sLocation:   %6.2f\n", prefix, b.LocationMatch)
	fmt.Fprintf(sb, "%sSalary:     %6.2f\n", prefix, b.SalaryMatch)
	fmt.Fprintf(sb, "%sExperience: %6.2f\n", prefix, b.ExperienceMatch)
	fmt.Fprintf(sb, "%sRole:       %6.2f\n", prefix, b.RoleMatch)
}

// PrintMatchResult outputs one match with its full breakdown.
func (p *Printer) PrintMatchResult(m *types.MatchResult) {
	if m == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Job:       %s\n", m.JobID)
	if m.JobDetails != nil && m.JobDetails.Title != nil {
		fmt.Fprintf(&sb, "Title:     %s\n", *m.JobDetails.Title)
	}
	if m.CandidateID != "" {
		fmt.Fprintf(&sb, "Candidate: %s\n", m.CandidateID)
	}
	fmt.Fprintf(&sb, "Score:     %.2f\n\n", m.MatchScore)

	sb.WriteString("Breakdown:\n")
	writeBreakdown(&sb, m.Breakdown, "  ")
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Matching: %s\n", joinSkills(m.MatchingSkills))
	fmt.Fprintf(&sb, "Missing:  %s", joinSkills(m.MissingSkills))

	p.printBox("MATCH RESULT", sb.String())
}

// PrintMatches outputs the top matches of a ranking, best first.
func (p *Printer) PrintMatches(resp *types.MatchResponse) {
	if resp == nil || len(resp.Matches) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total jobs ranked: %d\n\n", resp.TotalMatches)

	count := min(len(resp.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := resp.Matches[i]
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, m.JobID)
		fmt.Fprintf(&sb, "    Score: %.2f\n", m.MatchScore)
		if len(m.MissingSkills) > 0 {
			fmt.Fprintf(&sb, "    Missing: %s\n", joinSkills(m.MissingSkills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(resp.Matches) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n... and %d more", len(resp.Matches)-maxItemsToShow)
	}

	p.printBox("RANKED JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWeights outputs the active weight configuration.
func (p *Printer) PrintWeights(w types.WeightConfig) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skills:     %.2f\n", w.Skill)
	fmt.Fprintf(&sb, "Location:   %.2f\n", w.Location)
	fmt.Fprintf(&sb, "Salary:     %.2f\n", w.Salary)
	fmt.Fprintf(&sb, "Experience: %.2f\n", w.Experience)
	fmt.Fprintf(&sb, "Role:       %.2f\n", w.Role)
	fmt.Fprintf(&sb, "Total:      %.2f", w.Sum())
	if !w.SumIsNormal() {
		sb.WriteString("  (does not sum to 1.0)")
	}

	p.printBox("MATCH WEIGHTS", sb.String())
}

// PrintGapAnalysis outputs readiness, missing skills and the learning roadmap.
func (p *Printer) PrintGapAnalysis(res *types.GapAnalysisResult) {
	if res == nil {
		return
	}

	a := res.Analysis
	var sb strings.Builder
	fmt.Fprintf(&sb, "Readiness:      %.1f / 80\n", a.ReadinessScore)
	fmt.Fprintf(&sb, "Skill gap:      %.1f%%\n", a.SkillGapPercentage)
	fmt.Fprintf(&sb, "Learning time:  %.1f months\n\n", a.EstimatedLearningTimeMonths)
	fmt.Fprintf(&sb, "Matching: %s\n", joinSkills(a.MatchingSkills))
	fmt.Fprintf(&sb, "Missing:  %s\n", joinSkills(a.MissingSkills))

	if len(res.LearningRoadmap) > 0 {
		sb.WriteString("\nRoadmap:\n")
		for _, phase := range res.LearningRoadmap {
			fmt.Fprintf(&sb, "  Phase %d (%s, %.1f mo): %s\n",
				phase.Phase, phase.Priority, phase.DurationMonths, strings.Join(phase.SkillsToLearn, ", "))
		}
	}

	p.printBox("SKILLS GAP", strings.TrimSuffix(sb.String(), "\n"))
}
