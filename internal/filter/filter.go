package filter

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-pipeline/internal/model"
)

// Field weights for scoring. Bullets carry the actual achievements, so they
// weigh more than label fields like company or tech names.
const (
	bulletWeight = 2
	labelWeight  = 1
)

// Limits caps how many entries each category retains.
type Limits struct {
	MaxExperiences       int
	MaxProjects          int
	MaxSkillsPerCategory int
}

func DefaultLimits() Limits {
	return Limits{MaxExperiences: 3, MaxProjects: 2, MaxSkillsPerCategory: 8}
}

// Filter selects the entries most relevant to a job description by keyword
// overlap. It never mutates its input and is deterministic: the same
// document and job text always yield the same selection.
type Filter struct {
	limits Limits
	log    zerolog.Logger
}

func New(limits Limits) *Filter {
	if limits.MaxExperiences <= 0 {
		limits.MaxExperiences = DefaultLimits().MaxExperiences
	}
	if limits.MaxProjects <= 0 {
		limits.MaxProjects = DefaultLimits().MaxProjects
	}
	if limits.MaxSkillsPerCategory <= 0 {
		limits.MaxSkillsPerCategory = DefaultLimits().MaxSkillsPerCategory
	}
	return &Filter{limits: limits, log: log.With().Str("component", "filter").Logger()}
}

// Apply returns a reduced copy of doc with relevance scores attached to the
// retained experience and project entries.
func (f *Filter) Apply(doc *model.ResumeDocument, jobText string) (*model.ResumeDocument, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, err
	}

	keywords := ExtractKeywords(jobText)
	f.log.Info().Int("keywords", len(keywords)).Msg("extracted job keywords")

	out.Experience = f.selectExperiences(out.Experience, keywords)
	out.Projects = f.selectProjects(out.Projects, keywords)
	out.Skills = f.selectSkills(out.Skills, keywords)

	f.log.Info().
		Int("experiences", len(out.Experience)).
		Int("projects", len(out.Projects)).
		Msg("relevance filter applied")
	return out, nil
}

func scoreExperience(e model.Experience, keywords map[string]struct{}) int {
	score := labelWeight * scoreText(e.Company+" "+e.Role, keywords)
	for _, b := range e.Bullets {
		score += bulletWeight * scoreText(b, keywords)
	}
	return score
}

func scoreProject(p model.Project, keywords map[string]struct{}) int {
	score := labelWeight * scoreText(p.Name+" "+strings.Join(p.Tech, " "), keywords)
	for _, b := range p.Bullets {
		score += bulletWeight * scoreText(b, keywords)
	}
	return score
}

// selectIndices picks up to max indices: high-priority entries first (in
// original order), then the rest by descending score with the original
// index as a stable tie-break. The returned indices are sorted ascending so
// the selection preserves original relative order.
func selectIndices(n, max int, priority func(int) string, score func(int) int) []int {
	if n <= max {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	selected := make([]int, 0, max)
	taken := make(map[int]bool, max)
	for i := 0; i < n && len(selected) < max; i++ {
		if priority(i) == "high" {
			selected = append(selected, i)
			taken[i] = true
		}
	}

	rest := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !taken[i] {
			rest = append(rest, i)
		}
	}
	sort.SliceStable(rest, func(a, b int) bool {
		return score(rest[a]) > score(rest[b])
	})
	for _, i := range rest {
		if len(selected) == max {
			break
		}
		selected = append(selected, i)
	}

	sort.Ints(selected)
	return selected
}

func (f *Filter) selectExperiences(entries []model.Experience, keywords map[string]struct{}) []model.Experience {
	scores := make([]int, len(entries))
	for i, e := range entries {
		scores[i] = scoreExperience(e, keywords)
	}
	idx := selectIndices(len(entries), f.limits.MaxExperiences,
		func(i int) string { return entries[i].Priority },
		func(i int) int { return scores[i] })

	out := make([]model.Experience, 0, len(idx))
	for _, i := range idx {
		e := entries[i]
		s := float64(scores[i])
		e.Relevance = &s
		out = append(out, e)
		f.log.Debug().Str("company", e.Company).Str("role", e.Role).Float64("score", s).Msg("kept experience")
	}
	return out
}

func (f *Filter) selectProjects(entries []model.Project, keywords map[string]struct{}) []model.Project {
	scores := make([]int, len(entries))
	for i, p := range entries {
		scores[i] = scoreProject(p, keywords)
	}
	idx := selectIndices(len(entries), f.limits.MaxProjects,
		func(i int) string { return entries[i].Priority },
		func(i int) int { return scores[i] })

	out := make([]model.Project, 0, len(idx))
	for _, i := range idx {
		p := entries[i]
		s := float64(scores[i])
		p.Relevance = &s
		out = append(out, p)
		f.log.Debug().Str("project", p.Name).Float64("score", s).Msg("kept project")
	}
	return out
}

func (f *Filter) selectSkills(skills map[string][]string, keywords map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(skills))
	for category, list := range skills {
		idx := selectIndices(len(list), f.limits.MaxSkillsPerCategory,
			func(int) string { return "" },
			func(i int) int { return scoreText(list[i], keywords) })
		kept := make([]string, 0, len(idx))
		for _, i := range idx {
			kept = append(kept, list[i])
		}
		out[category] = kept
	}
	return out
}
