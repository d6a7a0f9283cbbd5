package coverletter

import (
	"fmt"
	"strings"

	"resume-pipeline/internal/model"
)

// letterPrompt builds the generation request: a compact resume summary
// (top entries and bullets only) plus the job description and the strict
// JSON output contract.
func letterPrompt(doc *model.ResumeDocument, jobText string) string {
	var b strings.Builder

	b.WriteString("You are a professional career counselor writing a compelling cover letter.\n\n")
	b.WriteString("JOB DESCRIPTION:\n")
	b.WriteString(jobText)
	b.WriteString("\n\nCANDIDATE'S RESUME SUMMARY:\n")
	b.WriteString(resumeSummary(doc))

	b.WriteString(`
TASK: Write a professional cover letter that:
1. Shows genuine interest in the specific role and company
2. Highlights 2-3 most relevant experiences/achievements from the resume
3. Demonstrates clear alignment between candidate's skills and job requirements
4. Is concise (3-4 paragraphs maximum, under 400 words)

Return a JSON object with the following structure:
{
  "intro": "Opening paragraph text",
  "body_paragraphs": ["Body paragraph 1", "Body paragraph 2 (if needed)"],
  "closing": "Closing paragraph text",
  "company_name": "Company name extracted from the job description or 'the company'",
  "recipient_name": "Hiring Manager"
}

Do not include any explanation, just the JSON object.`)

	return b.String()
}

func resumeSummary(doc *model.ResumeDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", doc.PersonalInfo.Name)

	if len(doc.Experience) > 0 {
		b.WriteString("\nKey Experiences:\n")
		for _, e := range top(doc.Experience, 2) {
			fmt.Fprintf(&b, "- %s at %s\n", e.Role, e.Company)
			for _, bullet := range topStrings(e.Bullets, 2) {
				fmt.Fprintf(&b, "  • %s\n", bullet)
			}
		}
	}

	if len(doc.Projects) > 0 {
		b.WriteString("\nKey Projects:\n")
		for _, p := range top(doc.Projects, 2) {
			fmt.Fprintf(&b, "- %s\n", p.Name)
			for _, bullet := range topStrings(p.Bullets, 1) {
				fmt.Fprintf(&b, "  • %s\n", bullet)
			}
		}
	}

	return b.String()
}

func top[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}

func topStrings(items []string, n int) []string {
	return top(items, n)
}
