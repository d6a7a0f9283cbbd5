package coverletter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-pipeline/internal/model"
	"resume-pipeline/internal/optimizer"
	"resume-pipeline/internal/render"
)

const letterTemperature = 0.7

// Letter is the strict JSON contract requested from the text service.
type Letter struct {
	Intro          string   `json:"intro"`
	BodyParagraphs []string `json:"body_paragraphs"`
	Closing        string   `json:"closing"`
	CompanyName    string   `json:"company_name"`
	RecipientName  string   `json:"recipient_name"`
}

// Generator produces a personalized cover letter from the optimized resume
// and job description. Any service failure degrades to a deterministic
// fallback letter; generation itself never aborts the pipeline.
type Generator struct {
	gen          optimizer.TextGenerator
	templatePath string
	log          zerolog.Logger
}

func New(gen optimizer.TextGenerator, templatePath string) *Generator {
	return &Generator{
		gen:          gen,
		templatePath: templatePath,
		log:          log.With().Str("component", "coverletter").Logger(),
	}
}

// Generate returns the letter content. In dry mode, or on any service or
// parse error, the deterministic fallback letter is returned and the second
// result is true.
func (g *Generator) Generate(ctx context.Context, doc *model.ResumeDocument, jobText, companyName string, dry bool) (*Letter, bool) {
	if dry || g.gen == nil {
		g.log.Info().Msg("dry mode: using fallback cover letter")
		return fallbackLetter(doc, companyName), true
	}

	prompt := letterPrompt(doc, jobText)
	text, err := g.gen.GenerateText(ctx, prompt, letterTemperature)
	if err != nil {
		g.log.Warn().Err(err).Msg("cover letter generation failed, using fallback")
		return fallbackLetter(doc, companyName), true
	}

	letter, err := parseLetter(text)
	if err != nil {
		g.log.Warn().Err(err).Msg("unparsable cover letter response, using fallback")
		return fallbackLetter(doc, companyName), true
	}
	if companyName != "" {
		letter.CompanyName = companyName
	}
	return letter, false
}

// RenderTeX expands the cover letter template into LaTeX source.
func (g *Generator) RenderTeX(letter *Letter, personal model.PersonalInfo) (string, error) {
	b, err := os.ReadFile(g.templatePath)
	if err != nil {
		return "", fmt.Errorf("read cover letter template: %w", err)
	}
	tpl, err := template.New("cover_letter").Delims("<<", ">>").Parse(string(b))
	if err != nil {
		return "", fmt.Errorf("parse cover letter template: %w", err)
	}

	ctx := map[string]any{
		"Name":           render.EscapeLaTeX(personal.Name),
		"Email":          render.EscapeLaTeX(personal.Email),
		"Phone":          render.EscapeLaTeX(personal.Phone),
		"RecipientName":  render.EscapeLaTeX(letter.RecipientName),
		"CompanyName":    render.EscapeLaTeX(letter.CompanyName),
		"Intro":          render.EscapeLaTeX(letter.Intro),
		"BodyParagraphs": escapeAll(letter.BodyParagraphs),
		"Closing":        render.EscapeLaTeX(letter.Closing),
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("render cover letter: %w", err)
	}
	return sb.String(), nil
}

func escapeAll(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = render.EscapeLaTeX(it)
	}
	return out
}

// parseLetter decodes the service response, tolerating markdown code
// fences around the JSON object.
func parseLetter(text string) (*Letter, error) {
	text = stripCodeFence(text)
	var letter Letter
	if err := json.Unmarshal([]byte(text), &letter); err != nil {
		return nil, fmt.Errorf("parse letter JSON: %w", err)
	}
	if letter.Intro == "" || letter.Closing == "" {
		return nil, fmt.Errorf("letter missing required paragraphs")
	}
	if letter.RecipientName == "" {
		letter.RecipientName = "Hiring Manager"
	}
	if letter.CompanyName == "" {
		letter.CompanyName = "the company"
	}
	return &letter, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// fallbackLetter is the deterministic letter used when the service cannot
// be reached or returns garbage.
func fallbackLetter(doc *model.ResumeDocument, companyName string) *Letter {
	if companyName == "" {
		companyName = "your company"
	}

	background := "software development"
	categories := make([]string, 0, len(doc.Skills))
	for name := range doc.Skills {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, name := range categories {
		if list := doc.Skills[name]; len(list) > 0 {
			n := len(list)
			if n > 3 {
				n = 3
			}
			background = strings.Join(list[:n], ", ")
			break
		}
	}

	body := []string{
		fmt.Sprintf("With my background in %s, I am confident I would be a valuable addition to your team.", background),
	}
	if len(doc.Experience) > 0 {
		body = append(body, fmt.Sprintf(
			"In my recent role as %s, I have developed skills that directly align with your requirements.",
			doc.Experience[0].Role))
	}

	return &Letter{
		Intro:          "I am writing to express my strong interest in the position described in your job posting.",
		BodyParagraphs: body,
		Closing:        "I would welcome the opportunity to discuss how my experience and enthusiasm can contribute to your team's success.",
		CompanyName:    companyName,
		RecipientName:  "Hiring Manager",
	}
}
