package filter

import (
	"strings"
	"unicode"
)

// stopWords are dropped during keyword extraction. The list mixes common
// English function words with job-posting filler that matches everything.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"hers": {}, "him": {}, "his": {}, "how": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "more": {},
	"most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {},
	"other": {}, "our": {}, "out": {}, "over": {}, "own": {}, "same": {},
	"she": {}, "should": {}, "so": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {},

	// job-posting filler
	"ability": {}, "candidate": {}, "company": {}, "experience": {},
	"join": {}, "looking": {}, "opportunity": {}, "plus": {}, "role": {},
	"required": {}, "requirements": {}, "responsibilities": {}, "skills": {},
	"strong": {}, "team": {}, "work": {}, "working": {}, "years": {},
}

// tokenize lower-cases text and splits on anything that is not part of a
// word. Characters common in tech terms (c++, c#, node.js) survive. Stop
// words and single-character tokens are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '+', '#', '.', '-':
			return false
		}
		return true
	})

	tokens := fields[:0]
	for _, tok := range fields {
		tok = strings.Trim(tok, ".-")
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ExtractKeywords returns the set of terms from the job text.
func ExtractKeywords(jobText string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, tok := range tokenize(jobText) {
		keywords[tok] = struct{}{}
	}
	return keywords
}

// scoreText counts keyword occurrences across the tokens of a text field.
func scoreText(text string, keywords map[string]struct{}) int {
	if len(keywords) == 0 {
		return 0
	}
	score := 0
	for _, tok := range tokenize(text) {
		if _, ok := keywords[tok]; ok {
			score++
		}
	}
	return score
}
