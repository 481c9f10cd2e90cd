package parse

import (
	"strings"

	"resume-tailor/internal/document"
)

// Section is a heading plus the paragraphs that follow it.
type Section struct {
	Heading    string               `json:"heading"`
	Paragraphs []document.Paragraph `json:"paragraphs"`
}

var knownHeadings = map[string]struct{}{
	"summary":                  {},
	"professional summary":     {},
	"objective":                {},
	"experience":               {},
	"work experience":          {},
	"professional experience":  {},
	"employment history":       {},
	"education":                {},
	"skills":                   {},
	"technical skills":         {},
	"projects":                 {},
	"certifications":           {},
	"awards":                   {},
	"publications":             {},
	"languages":                {},
	"volunteer experience":     {},
	"interests":                {},
	"references":               {},
	"additional information":   {},
	"professional development": {},
}

// SplitSections partitions a parsed resume into heading-delimited sections.
// Paragraphs before the first heading land in a section with an empty heading.
func SplitSections(doc *document.Document) []Section {
	var sections []Section
	current := Section{}

	for _, p := range doc.Paragraphs {
		if isHeading(p) {
			if current.Heading != "" || len(current.Paragraphs) > 0 {
				sections = append(sections, current)
			}
			current = Section{Heading: strings.TrimSpace(p.Text())}
			continue
		}
		current.Paragraphs = append(current.Paragraphs, p)
	}
	if current.Heading != "" || len(current.Paragraphs) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func isHeading(p document.Paragraph) bool {
	text := strings.TrimSpace(p.Text())
	if text == "" || len(text) > 60 {
		return false
	}
	if strings.HasPrefix(strings.ToLower(p.Style), "heading") {
		return true
	}
	if _, ok := knownHeadings[strings.ToLower(text)]; ok {
		return true
	}
	// an all-caps short line in bold reads as a heading
	if text == strings.ToUpper(text) && strings.ContainsAny(text, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") && allBold(p) {
		return true
	}
	return false
}

func allBold(p document.Paragraph) bool {
	seen := false
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if !r.Bold {
			return false
		}
		seen = true
	}
	return seen
}
