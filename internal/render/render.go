package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-pipeline/internal/model"
)

// Section names in render order. Each has a template under
// <templateDir>/sections/<name>.tex and renders to <buildDir>/src/<name>.tex,
// where the static resume.tex wrapper inputs them.
var sectionNames = []string{"heading", "experience", "projects", "skills", "education"}

// Templates use << >> delimiters because the Go default braces collide with
// LaTeX source.
const (
	delimLeft  = "<<"
	delimRight = ">>"
)

// Renderer expands the per-section templates against a document into a
// build workspace. It has no side effects beyond writing there.
type Renderer struct {
	templateDir string
	log         zerolog.Logger
}

func New(templateDir string) *Renderer {
	return &Renderer{templateDir: templateDir, log: log.With().Str("component", "render").Logger()}
}

// Render copies the static template tree into buildDir and expands each
// section template into buildDir/src.
func (r *Renderer) Render(doc *model.ResumeDocument, buildDir string) error {
	if err := r.copyStatic(buildDir); err != nil {
		return err
	}

	contexts := map[string]any{
		"heading":    headingContext(doc.PersonalInfo),
		"experience": map[string]any{"Experience": experienceContext(doc.Experience)},
		"projects":   map[string]any{"Projects": projectContext(doc.Projects)},
		"skills":     map[string]any{"Categories": skillsContext(doc.Skills)},
		"education":  map[string]any{"Education": educationContext(doc.Education)},
	}

	srcDir := filepath.Join(buildDir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return err
	}

	for _, name := range sectionNames {
		content, err := r.renderSection(name, contexts[name])
		if err != nil {
			return err
		}
		outPath := filepath.Join(srcDir, name+".tex")
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write section %s: %w", name, err)
		}
		r.log.Debug().Str("section", name).Str("path", outPath).Msg("rendered section")
	}

	r.log.Info().Str("build_dir", buildDir).Msg("rendered all sections")
	return nil
}

// renderSection expands one named section template and returns the text.
func (r *Renderer) renderSection(name string, ctx any) (string, error) {
	path := filepath.Join(r.templateDir, "sections", name+".tex")
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	tpl, err := template.New(name).Delims(delimLeft, delimRight).Parse(string(b))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("render section %s: %w", name, err)
	}
	return sb.String(), nil
}

// copyStatic mirrors the template directory into the build workspace,
// clearing any previous build. Rendered sections overwrite src/ afterwards.
func (r *Renderer) copyStatic(buildDir string) error {
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("clear build dir: %w", err)
	}
	return filepath.WalkDir(r.templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(r.templateDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(buildDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, b, 0o644)
	})
}
