package optimizer

import (
	"fmt"
	"strings"
)

// bulletPrompt builds the rewording request for one entry. The instruction
// block is the contract that keeps factual content intact; the model is
// asked only to adjust terminology toward the job description.
func bulletPrompt(bullets []string, jobText, context string, concise bool, priority string) string {
	var b strings.Builder

	b.WriteString("You are helping optimize resume bullet points for a specific job application.\n\n")
	b.WriteString("JOB DESCRIPTION:\n")
	b.WriteString(jobText)
	b.WriteString("\n\nCONTEXT: ")
	b.WriteString(context)

	switch priority {
	case "high":
		b.WriteString("\n\nNOTE: This is a high priority item. It represents a key strength, so ensure optimization maintains strong impact.")
	case "medium":
		b.WriteString("\n\nNOTE: This is a medium priority item. Optimize it for relevance to the job description.")
	case "low":
		b.WriteString("\n\nNOTE: This is a low priority item. Optimize it to maximize relevance to justify its inclusion.")
	}

	b.WriteString("\n\nORIGINAL BULLET POINTS:\n")
	for _, bullet := range bullets {
		fmt.Fprintf(&b, "• %s\n", bullet)
	}

	limit := "120 characters"
	if concise {
		limit = "80 characters"
	}
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Make MINOR tweaks to better align these bullet points with the job description\n")
	b.WriteString("2. KEEP BULLET POINTS CONCISE - aim for 1-2 lines maximum per bullet point\n")
	b.WriteString("3. DO NOT rewrite the bullet points completely - preserve the original meaning and achievements\n")
	b.WriteString("4. You may adjust terminology to match the job description, emphasize relevant skills, remove unnecessary words, and add relevant keywords naturally\n")
	b.WriteString("5. DO NOT change the core accomplishments or facts, add false information, make bullet points longer than the original, or change the number of bullet points\n")
	fmt.Fprintf(&b, "\nCRITICAL: Keep each bullet point under %s when possible. Focus on impact over verbosity.\n", limit)
	if concise {
		b.WriteString("EXTRA CONCISE MODE: Remove all unnecessary words. Use strong action verbs. Aim for maximum impact in minimum words.\n")
	}
	b.WriteString("\nReturn ONLY the optimized bullet points in the same format, one per line with bullet symbols.")

	return b.String()
}

// parseBullets extracts bulleted lines from a model response, tolerating
// the usual bullet symbols.
func parseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
			continue
		}
		bullet := strings.TrimSpace(strings.TrimLeft(line, "•-* "))
		if bullet != "" {
			bullets = append(bullets, bullet)
		}
	}
	return bullets
}
