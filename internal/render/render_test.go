package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-pipeline/internal/model"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"100% growth", `100\% growth`},
		{"AT&T", `AT\&T`},
		{"$5M budget", `\$5M budget`},
		{"snake_case", `snake\_case`},
		{"#1 team", `\#1 team`},
		{"{braces}", `\{braces\}`},
		{"a^b", `a\textasciicircum{}b`},
		{"~user", `\textasciitilde{}user`},
		{`C:\path`, `C:\textbackslash{}path`},
		// Single-pass escaping never re-escapes replacement text.
		{`\%`, `\textbackslash{}\%`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLaTeX(tt.in), "input %q", tt.in)
	}
}

func TestJoinDisplay(t *testing.T) {
	assert.Equal(t, "Python, Go, Rust", JoinDisplay([]string{"Python", "Go", "Rust"}))
	assert.Equal(t, "Go", JoinDisplay([]string{"Go"}))
	assert.Equal(t, "", JoinDisplay(nil))
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "2020 -- 2023", period("2020", "2023"))
	assert.Equal(t, "2020 -- Present", period("2020", ""))
	assert.Equal(t, "", period("", ""))
}

func TestRenderWritesAllSections(t *testing.T) {
	doc := &model.ResumeDocument{
		PersonalInfo: model.PersonalInfo{
			Name:  "Ada & Co",
			Email: "ada@example.com",
			Phone: "555-0100",
		},
		Experience: []model.Experience{
			{
				Company:   "Acme",
				Role:      "Engineer",
				StartDate: "2020",
				Bullets:   []string{"Grew revenue by 100%"},
			},
		},
		Projects: []model.Project{
			{Name: "Widget", Tech: []string{"Go", "Postgres"}, Bullets: []string{"Shipped v1"}},
		},
		Education: []model.Education{
			{Institution: "MIT", Degree: "BS Computer Science", EndDate: "2019"},
		},
		Skills: map[string][]string{
			"Languages": {"Go", "Rust"},
			"Tools":     {"Docker"},
		},
	}

	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, New("../../latex-template").Render(doc, buildDir))

	// Static files are mirrored and every section is expanded.
	assert.FileExists(t, filepath.Join(buildDir, "resume.tex"))
	for _, name := range sectionNames {
		assert.FileExists(t, filepath.Join(buildDir, "src", name+".tex"))
	}

	heading := readFile(t, filepath.Join(buildDir, "src", "heading.tex"))
	assert.Contains(t, heading, `Ada \& Co`)
	assert.Contains(t, heading, "ada@example.com")

	experience := readFile(t, filepath.Join(buildDir, "src", "experience.tex"))
	assert.Contains(t, experience, "Acme")
	assert.Contains(t, experience, "2020 -- Present")
	assert.Contains(t, experience, `Grew revenue by 100\%`)

	projects := readFile(t, filepath.Join(buildDir, "src", "projects.tex"))
	assert.Contains(t, projects, "Widget")
	assert.Contains(t, projects, "Go, Postgres")

	skills := readFile(t, filepath.Join(buildDir, "src", "skills.tex"))
	assert.Contains(t, skills, "Go, Rust")
	// Categories render in sorted order.
	assert.Less(t, strings.Index(skills, "Languages"), strings.Index(skills, "Tools"))
}

func TestRenderEmptySectionsProduceNoContent(t *testing.T) {
	doc := &model.ResumeDocument{
		PersonalInfo: model.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
	}

	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, New("../../latex-template").Render(doc, buildDir))

	projects := readFile(t, filepath.Join(buildDir, "src", "projects.tex"))
	assert.NotContains(t, projects, `\section`)
}

func TestRenderClearsPreviousBuild(t *testing.T) {
	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(buildDir, 0o755))
	stale := filepath.Join(buildDir, "stale.aux")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	doc := &model.ResumeDocument{
		PersonalInfo: model.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
	}
	require.NoError(t, New("../../latex-template").Render(doc, buildDir))

	assert.NoFileExists(t, stale)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
