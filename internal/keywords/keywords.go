package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// Analysis is the outcome of comparing a resume against a job
// description. Keyword lists are lowercased, deduplicated, and sorted,
// so the same inputs always produce the same output.
type Analysis struct {
	Found      []string `json:"foundKeywords"`
	Missing    []string `json:"missingKeywords"`
	MatchScore int      `json:"matchScore"`
}

var capitalizedTerm = regexp.MustCompile(`\b[A-Z][A-Za-z0-9+#.]{2,}(?:\s+[A-Z][A-Za-z0-9+#.]{2,})?\b`)

// stopTerms are capitalized words that are sentence furniture, not skills.
var stopTerms = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "our": {},
	"are": {}, "will": {}, "have": {}, "this": {}, "that": {}, "your": {},
	"about": {}, "who": {}, "what": {}, "requirements": {}, "responsibilities": {},
	"qualifications": {}, "preferred": {}, "required": {}, "experience": {},
	"years": {}, "team": {}, "role": {}, "job": {}, "work": {}, "must": {},
	"plus": {}, "strong": {}, "ability": {}, "skills": {}, "knowledge": {},
	"bachelor": {}, "degree": {}, "benefits": {}, "salary": {}, "location": {},
	"remote": {}, "hybrid": {}, "company": {}, "join": {}, "looking": {},
}

// Extract pulls candidate keywords from a job description: pattern-bank
// technology terms plus capitalized proper terms. Output is lowercased,
// deduplicated, and sorted.
func Extract(jobDescription string) []string {
	seen := make(map[string]struct{})

	for _, pattern := range techPatterns {
		for _, match := range pattern.FindAllString(jobDescription, -1) {
			seen[strings.ToLower(strings.TrimSpace(match))] = struct{}{}
		}
	}

	for _, match := range capitalizedTerm.FindAllString(jobDescription, -1) {
		term := strings.ToLower(strings.TrimSpace(match))
		if _, stop := stopTerms[term]; stop {
			continue
		}
		if len(term) < 3 {
			continue
		}
		seen[term] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for term := range seen {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Analyze extracts keywords from the job description and partitions
// them by presence in the resume text. Any accepted spelling variation
// counts as a match. The score is the found share scaled to [0,100].
func Analyze(resumeText, jobDescription string) Analysis {
	extracted := Extract(jobDescription)
	haystack := strings.ToLower(resumeText)

	analysis := Analysis{Found: []string{}, Missing: []string{}}
	for _, keyword := range extracted {
		if containsAnyVariation(haystack, keyword) {
			analysis.Found = append(analysis.Found, keyword)
		} else {
			analysis.Missing = append(analysis.Missing, keyword)
		}
	}

	if len(extracted) > 0 {
		analysis.MatchScore = len(analysis.Found) * 100 / len(extracted)
	}
	if analysis.MatchScore < 0 {
		analysis.MatchScore = 0
	}
	if analysis.MatchScore > 100 {
		analysis.MatchScore = 100
	}
	return analysis
}

func containsAnyVariation(haystack, keyword string) bool {
	for _, variant := range variationsOf(keyword) {
		if containsWord(haystack, variant) {
			return true
		}
	}
	return false
}

// containsWord reports a word-bounded occurrence so that "go" does not
// match inside "google".
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos == -1 {
			return false
		}
		pos += idx
		before := pos == 0 || !isWordChar(haystack[pos-1])
		afterIdx := pos + len(needle)
		after := afterIdx >= len(haystack) || !isWordChar(haystack[afterIdx])
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
