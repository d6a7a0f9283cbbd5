package render

import (
	"sort"

	"resume-pipeline/internal/model"
)

// View types are the per-section template contexts. All text fields are
// LaTeX-escaped and display fields are precomputed, so the templates stay
// pure substitution and iteration.

type headingView struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Website  string
	LinkedIn string
	GitHub   string
}

type experienceView struct {
	Company  string
	Role     string
	Period   string
	Location string
	Bullets  []string
}

type projectView struct {
	Name        string
	URL         string
	TechDisplay string
	Bullets     []string
}

type educationView struct {
	Institution       string
	Degree            string
	Period            string
	Location          string
	GPA               string
	CourseworkDisplay string
}

type skillCategoryView struct {
	Name    string
	Display string
}

func period(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	return EscapeLaTeX(start) + " -- " + EscapeLaTeX(end)
}

func headingContext(p model.PersonalInfo) headingView {
	return headingView{
		Name:     EscapeLaTeX(p.Name),
		Email:    EscapeLaTeX(p.Email),
		Phone:    EscapeLaTeX(p.Phone),
		Location: EscapeLaTeX(p.Location),
		Website:  EscapeLaTeX(p.Website),
		LinkedIn: EscapeLaTeX(p.LinkedIn),
		GitHub:   EscapeLaTeX(p.GitHub),
	}
}

func experienceContext(entries []model.Experience) []experienceView {
	out := make([]experienceView, 0, len(entries))
	for _, e := range entries {
		out = append(out, experienceView{
			Company:  EscapeLaTeX(e.Company),
			Role:     EscapeLaTeX(e.Role),
			Period:   period(e.StartDate, e.EndDate),
			Location: EscapeLaTeX(e.Location),
			Bullets:  escapeList(e.Bullets),
		})
	}
	return out
}

func projectContext(entries []model.Project) []projectView {
	out := make([]projectView, 0, len(entries))
	for _, p := range entries {
		out = append(out, projectView{
			Name:        EscapeLaTeX(p.Name),
			URL:         EscapeLaTeX(p.URL),
			TechDisplay: EscapeLaTeX(JoinDisplay(p.Tech)),
			Bullets:     escapeList(p.Bullets),
		})
	}
	return out
}

func educationContext(entries []model.Education) []educationView {
	out := make([]educationView, 0, len(entries))
	for _, e := range entries {
		out = append(out, educationView{
			Institution:       EscapeLaTeX(e.Institution),
			Degree:            EscapeLaTeX(e.Degree),
			Period:            period(e.StartDate, e.EndDate),
			Location:          EscapeLaTeX(e.Location),
			GPA:               EscapeLaTeX(e.GPA),
			CourseworkDisplay: EscapeLaTeX(JoinDisplay(e.RelevantCoursework)),
		})
	}
	return out
}

// skillsContext orders categories by name so rendering is deterministic.
func skillsContext(skills map[string][]string) []skillCategoryView {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]skillCategoryView, 0, len(names))
	for _, name := range names {
		out = append(out, skillCategoryView{
			Name:    EscapeLaTeX(title(name)),
			Display: EscapeLaTeX(JoinDisplay(skills[name])),
		})
	}
	return out
}

// title upper-cases the first letter of a category name for display.
func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
